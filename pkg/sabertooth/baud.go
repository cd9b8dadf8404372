package sabertooth

import (
	"sort"

	"github.com/pkg/errors"
)

// DefaultBaudRate is the factory baud rate of the controller.
const DefaultBaudRate = 9600

var baudIndex = map[int]byte{
	2400:   1,
	9600:   2,
	19200:  3,
	38400:  4,
	115200: 5,
}

// BaudIndex returns the message value of the baud rate command.
func BaudIndex(rate int) (byte, error) {
	if index, ok := baudIndex[rate]; ok {
		return index, nil
	}
	return 0, errors.Wrapf(ErrInvalidBaudRate, "baud rate %d, acceptable values are %v", rate, BaudRates())
}

// BaudRates lists supported baud rates in ascending order.
func BaudRates() []int {
	rates := make([]int, 0, len(baudIndex))
	for rate := range baudIndex {
		rates = append(rates, rate)
	}
	sort.Ints(rates)
	return rates
}
