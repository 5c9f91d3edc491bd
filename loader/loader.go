// Package loader supplies the Board and Segment collaborators the vm
// package consumes, plus a flat-binary reader for programs that are not
// ELF images.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Board describes an AVR part's address-space extents: RAMEnd is the SRAM
// byte count, FlashEnd is the program flash word count.
type Board struct {
	RAMEnd   int
	FlashEnd int
}

// ATmega168 is the board descriptor this simulator models: 1 KiB of SRAM
// and 8 KiW (16 KiB) of flash.
var ATmega168 = Board{
	RAMEnd:   1024,
	FlashEnd: 16 * 1024 / 2,
}

// Segment is a contiguous byte range destined for either program flash
// (the text segment) or SRAM (data segments), tagged with its load
// address. The interpreter treats a text segment's bytes as little-endian
// 16-bit program words and every other segment's bytes as raw SRAM
// content.
type Segment interface {
	Address() uint16
	Bytes() []byte
}

type flatSegment struct {
	address uint16
	data    []byte
}

func (s *flatSegment) Address() uint16 { return s.address }
func (s *flatSegment) Bytes() []byte   { return s.data }

// NewSegment wraps a byte slice as a Segment loaded at address.
func NewSegment(address uint16, data []byte) Segment {
	return &flatSegment{address: address, data: data}
}

// LoadFlat reads a flat binary file framed as three parts: a 4-byte
// little-endian length prefix giving the size in bytes of the text
// segment, the text segment's bytes, and the data segment's bytes (the
// remainder of the file, possibly empty). textAddr is the word address
// the text segment loads at; dataAddr is the byte address the data
// segment loads at. This is the minimal loader this repository needs to
// drive the core and its tests without an ELF reader: most callers'
// files carry an empty data segment.
func LoadFlat(path string, textAddr, dataAddr uint32) (text, data Segment, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading program file: %w", err)
	}
	if len(raw) < 4 {
		return nil, nil, fmt.Errorf("program file %s is too short to carry a segment header", path)
	}
	textLen := binary.LittleEndian.Uint32(raw[:4])
	raw = raw[4:]
	if uint64(textLen) > uint64(len(raw)) {
		return nil, nil, fmt.Errorf("program file %s declares a %d-byte text segment but only has %d bytes after the header", path, textLen, len(raw))
	}
	textBytes, dataBytes := raw[:textLen], raw[textLen:]
	if len(textBytes)%2 != 0 {
		return nil, nil, fmt.Errorf("program file %s has odd-length text segment %d, not a whole number of words", path, len(textBytes))
	}
	return NewSegment(uint16(textAddr), textBytes), NewSegment(uint16(dataAddr), dataBytes), nil
}
