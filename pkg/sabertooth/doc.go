// Package sabertooth drives a dual-motor speed controller over packetized serial.
package sabertooth

// Packetized serial mode is transmit only: every command is a fixed 4-byte
// packet (address, command, message, checksum) and the controller never
// acknowledges it. The checksum keeps the low 7 bits of the sum of the first
// three bytes, so no byte other than the address ever has bit 7 set.
//
// On the same line the controller also understands a plain ASCII mode, one
// command per CRLF terminated line, which is the only way to read anything
// back (temperature, battery, current). This package passes those lines
// through untouched.
//
// https://www.dimensionengineering.com/datasheets/Sabertooth2x60.pdf
