package isa

import "fmt"

// InvalidInstructionError is returned when a program word does not match
// any rule in the decode table. It carries the word following it too,
// unconditionally, since the fetch point's four raw bytes are part of the
// diagnostic regardless of how many of them a valid instruction here would
// have consumed.
type InvalidInstructionError struct {
	Word     uint16
	NextWord uint16
}

// Error renders the four bytes at the fetch point in binary, matching the
// diagnostic produced by this simulator's C++ ancestor.
func (e *InvalidInstructionError) Error() string {
	lo, hi := byte(e.Word), byte(e.Word>>8)
	nlo, nhi := byte(e.NextWord), byte(e.NextWord>>8)
	return fmt.Sprintf("invalid instruction: %08b %08b %08b %08b", lo, hi, nlo, nhi)
}

func newInvalidInstruction(word, nextWord uint16) error {
	return &InvalidInstructionError{Word: word, NextWord: nextWord}
}
