package vm

import "github.com/jbearer/avr-db/isa"

// UnimplementedError is returned when the decoder recognized a mnemonic
// that execute does not (yet) handle.
type UnimplementedError struct {
	Mnemonic isa.Mnemonic
}

func (e *UnimplementedError) Error() string {
	return "unimplemented instruction: " + e.Mnemonic.String()
}
