package isa

// WordAt fetches the program word at the given offset from the word
// currently being decoded (0 = the word itself, 1 = the word immediately
// following it in flash). Decode only calls WordAt(1): for mnemonics
// whose shape spans two words, and for the diagnostic when no rule matches.
type WordAt func(offset int) uint16

// Decode matches word against the rule table in order and returns the
// first matching instruction. 32-bit mnemonics (address and reg_address
// shapes) call fetchNext to obtain the second program word. Decode itself
// performs no mutation and may be called repeatedly against the same word
// with identical results (pure, reentrant), matching the concurrency model
// in which the decoder has no owned state.
func Decode(word uint16, fetchNext WordAt) (Instruction, error) {
	for _, r := range rules {
		if word&r.mask != r.value {
			continue
		}
		return r.build(word, fetchNext), nil
	}
	return Instruction{}, newInvalidInstruction(word, fetchNext(1))
}

// build constructs the Instruction for a matched rule, applying the
// operand-shape processor named in the specification.
func (r rule) build(word uint16, fetchNext WordAt) Instruction {
	instr := Instruction{Mnemonic: r.mnemonic, Size: 1}

	switch r.shape {
	case ShapeNone:
		// no operands

	case ShapeRegReg:
		instr.Rr = int(r.field(word, 'r'))
		instr.Rd = int(r.field(word, 'd'))
		instr.Carry = false

	case ShapeConstReg:
		instr.K = uint8(r.field(word, 'K'))
		instr.Rd = int(r.field(word, 'd')) + 16

	case ShapeConstPair:
		instr.K = uint8(r.field(word, 'k'))
		instr.Pair = RegisterPair(r.field(word, 'p'))

	case ShapeReg:
		instr.Rd = int(r.field(word, 'd'))

	case ShapeRegAddress:
		instr.Rd = int(r.field(word, 'd'))
		instr.Address = fetchNext(1)
		instr.Size = 2

	case ShapeAddress:
		// The low bits of the first word (field 'k') carry the upper
		// address bits on AVR parts with flash larger than 64Ki words;
		// for the ATmega168 modeled here they are always zero, so the
		// full word-address is just the second program word.
		instr.Address = fetchNext(1)
		instr.Size = 2

	case ShapeOffset7:
		instr.Offset = TwoComplement(r.field(word, 'u'), 7)

	case ShapeOffset12:
		instr.Offset = TwoComplement(r.field(word, 'u'), 12)

	case ShapeIOAddrReg:
		instr.IOAddr = uint8(r.field(word, 'a'))
		instr.Rd = int(r.field(word, 'd'))
	}

	return instr
}
