package sabertooth

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Address is the controller address selected by DIP switches.
type Address byte

// Valid address range.
const (
	MinAddress     Address = 128
	MaxAddress     Address = 135
	DefaultAddress         = MinAddress
)

// Validate checks the address is within MinAddress..MaxAddress.
func (a Address) Validate() error {
	if a < MinAddress || a > MaxAddress {
		return errors.Wrapf(ErrInvalidAddress, "address %d, acceptable values are %d thru %d",
			int(a), int(MinAddress), int(MaxAddress))
	}
	return nil
}

// PacketSize is the fixed length of a packet.
const PacketSize = 4

// Packet is an encoded packet: address, command, message, checksum.
type Packet [PacketSize]byte

// Checksum calculates the packet checksum, which keeps the low 7 bits only.
func Checksum(addr Address, cmd Command, msg byte) byte {
	return (byte(addr) + byte(cmd) + msg) & 0x7f
}

// Encode builds a packet after validating all fields.
func Encode(addr Address, cmd Command, msg byte) (Packet, error) {
	if err := addr.Validate(); err != nil {
		return Packet{}, err
	}
	if !cmd.IsValid() {
		return Packet{}, errors.Wrapf(ErrInvalidCommand, "%v", cmd)
	}
	if msg > MaxMessage {
		return Packet{}, errors.Wrapf(ErrInvalidMessage, "message %d", msg)
	}
	return Packet{byte(addr), byte(cmd), msg, Checksum(addr, cmd, msg)}, nil
}

// Address returns the address byte.
func (p Packet) Address() Address { return Address(p[0]) }

// Command returns the command byte.
func (p Packet) Command() Command { return Command(p[1]) }

// Message returns the message byte.
func (p Packet) Message() byte { return p[2] }

// Checksum returns the checksum byte.
func (p Packet) Checksum() byte { return p[3] }

// Bytes returns encoded bytes for sending.
func (p Packet) Bytes() []byte {
	b := make([]byte, PacketSize)
	copy(b, p[:])
	return b
}

// WriteTo writes encoded bytes.
func (p Packet) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p[:])
	return int64(n), err
}

// Validate checks address, command, message and checksum.
func (p Packet) Validate() error {
	if err := p.Address().Validate(); err != nil {
		return err
	}
	if !p.Command().IsValid() {
		return errors.Wrapf(ErrInvalidCommand, "%v", p.Command())
	}
	if p.Message() > MaxMessage {
		return errors.Wrapf(ErrInvalidMessage, "message %d", p.Message())
	}
	if sum := Checksum(p.Address(), p.Command(), p.Message()); sum != p.Checksum() {
		return errors.Wrapf(ErrChecksum, "expect 0x%02x got 0x%02x", sum, p.Checksum())
	}
	return nil
}

// String implements fmt.Stringer.
func (p Packet) String() string {
	return fmt.Sprintf("[%d %v %d 0x%02x]", p[0], p.Command(), p[2], p[3])
}

// DecodePackets splits a stream of bytes into validated packets.
// The controller never sends packets back; this is for inspecting traffic.
func DecodePackets(b []byte) ([]Packet, error) {
	if len(b)%PacketSize != 0 {
		return nil, errors.Errorf("stream length %d is not a multiple of %d", len(b), PacketSize)
	}
	pkts := make([]Packet, 0, len(b)/PacketSize)
	for off := 0; off < len(b); off += PacketSize {
		var p Packet
		copy(p[:], b[off:])
		if err := p.Validate(); err != nil {
			return pkts, errors.Wrapf(err, "packet at offset %d", off)
		}
		pkts = append(pkts, p)
	}
	return pkts, nil
}
