package swizzle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedBuffer indicates a buffer whose length is not a multiple of
// the unit a pass operates on.
var ErrMalformedBuffer = errors.New("malformed buffer")

func checkUnit(buf []byte, unit int) error {
	if unit <= 0 || len(buf)%unit != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedBuffer, len(buf), unit)
	}
	return nil
}

// Swap16 byte-swaps every 16-bit unit of buf in place.
func Swap16(buf []byte) error {
	if err := checkUnit(buf, 2); err != nil {
		return err
	}
	for i := 0; i < len(buf); i += 2 {
		binary.BigEndian.PutUint16(buf[i:i+2], binary.LittleEndian.Uint16(buf[i:i+2]))
	}
	return nil
}

// ReverseUnits reverses the byte order inside every unit-sized group.
func ReverseUnits(buf []byte, unit int) error {
	if err := checkUnit(buf, unit); err != nil {
		return err
	}
	for i := 0; i < len(buf); i += unit {
		for a, b := i, i+unit-1; a < b; a, b = a+1, b-1 {
			buf[a], buf[b] = buf[b], buf[a]
		}
	}
	return nil
}

// SwapNibbles exchanges the high and low nibble of every byte.
func SwapNibbles(buf []byte) {
	for i, b := range buf {
		buf[i] = b<<4 | b>>4
	}
}

// Channel orders for Permute4. Each entry names the source byte that lands
// in that position.
var (
	ARGBToRGBA = [4]int{1, 2, 3, 0}
	RGBAToARGB = [4]int{3, 0, 1, 2}
)

// Permute4 reorders the bytes of every 4-byte texel according to order.
func Permute4(buf []byte, order [4]int) error {
	if err := checkUnit(buf, 4); err != nil {
		return err
	}

	var tmp [4]byte
	for i := 0; i < len(buf); i += 4 {
		copy(tmp[:], buf[i:i+4])
		for j, src := range order {
			buf[i+j] = tmp[src]
		}
	}
	return nil
}
