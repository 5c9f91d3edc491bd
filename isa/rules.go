package isa

import "strings"

// rule is a compiled decode-table entry: a mask/value pair that a program
// word must satisfy to match, plus the bit positions (MSB-indexed, 0-15)
// of each named field in the pattern, in left-to-right order of appearance.
type rule struct {
	mnemonic Mnemonic
	mask     uint16
	value    uint16
	fields   map[byte][]int
	shape    OperandShape
}

// patternSpec is a literal (mnemonic, pattern, shape) row of the decode
// table. '0'/'1' are fixed opcode bits; any other rune names a field whose
// bit positions are collected in left-to-right order of appearance.
type patternSpec struct {
	mnemonic Mnemonic
	pattern  string
	shape    OperandShape
}

// rulePatterns is the literal rule table from the specification (spaces are
// purely for readability and are stripped before compilation). Rules are
// scanned in this order; the first match wins.
var rulePatterns = []patternSpec{
	{RET, "1001 0101 0000 1000", ShapeNone},
	{ADD, "0000 11r ddddd rrrr", ShapeRegReg},
	{ADC, "0001 11r ddddd rrrr", ShapeRegReg},
	{CP, "0001 01r ddddd rrrr", ShapeRegReg},
	{CPC, "0000 01r ddddd rrrr", ShapeRegReg},
	{EOR, "0010 01r ddddd rrrr", ShapeRegReg},
	{LDI, "1110 KKKK dddd KKKK", ShapeConstReg},
	{CPI, "0011 KKKK dddd KKKK", ShapeConstReg},
	{BRGE, "1111 01uu uuuu u100", ShapeOffset7},
	{BRNE, "1111 01uu uuuu u001", ShapeOffset7},
	{RJMP, "1100 uuuu uuuu uuuu", ShapeOffset12},
	{RCALL, "1101 uuuu uuuu uuuu", ShapeOffset12},
	{IN, "1011 0aa ddddd aaaa", ShapeIOAddrReg},
	{OUT, "1011 1aa ddddd aaaa", ShapeIOAddrReg},
	{ADIW, "1001 0110 kkpp kkkk", ShapeConstPair},
	{SBIW, "1001 0111 kkpp kkkk", ShapeConstPair},
	{PUSH, "1001 001 ddddd 1111", ShapeReg},
	{POP, "1001 000 ddddd 1111", ShapeReg},
	{STX, "1001 001 ddddd 1101", ShapeReg},
	{LPM, "1001 000 ddddd 0101", ShapeReg},
	{STS, "1001 001 ddddd 0000", ShapeRegAddress},
	{LDS, "1001 000 ddddd 0000", ShapeRegAddress},
	{CALL, "1001 010 kkkkk 111k", ShapeAddress},
	{JMP, "1001 010 kkkkk 110k", ShapeAddress},
}

// compilePattern strips readability spaces and turns the 16-character
// pattern into a (mask, value, fields) triple. '0' and '1' characters
// contribute to both mask and value; any other character is a field and
// contributes only to that field's ordered bit-position list.
func compilePattern(pattern string) (mask, value uint16, fields map[byte][]int) {
	pattern = strings.ReplaceAll(pattern, " ", "")
	fields = make(map[byte][]int)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '0':
			mask |= 1 << (15 - i)
		case '1':
			mask |= 1 << (15 - i)
			value |= 1 << (15 - i)
		default:
			fields[c] = append(fields[c], i)
		}
	}
	return mask, value, fields
}

// rules is the compiled decode table, built once at package init and
// scanned in order by Decode.
var rules = compileRules()

func compileRules() []rule {
	compiled := make([]rule, 0, len(rulePatterns))
	for _, spec := range rulePatterns {
		mask, value, fields := compilePattern(spec.pattern)
		compiled = append(compiled, rule{
			mnemonic: spec.mnemonic,
			mask:     mask,
			value:    value,
			fields:   fields,
			shape:    spec.shape,
		})
	}
	return compiled
}

// field looks up a field's value in word using the rule's recorded bit
// positions for that character. It returns 0 if the rule's pattern does
// not use that field.
func (r rule) field(word uint16, c byte) uint16 {
	positions, ok := r.fields[c]
	if !ok {
		return 0
	}
	return BitsAt(word, positions)
}
