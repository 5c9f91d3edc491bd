package vm

import "strings"

// wordFrom builds a 16-bit program word from a spec-style bit pattern and
// a set of field values, for assembling tiny test programs without a real
// assembler. Mirrors the field-position convention isa.Decode relies on:
// each field's value is distributed MSB-first across that field's
// positions in left-to-right order of appearance.
func wordFrom(pattern string, values map[byte]uint16) uint16 {
	pattern = strings.ReplaceAll(pattern, " ", "")
	positions := make(map[byte][]int)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '0' && c != '1' {
			positions[c] = append(positions[c], i)
		}
	}

	var word uint16
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '1' {
			word |= 1 << (15 - i)
		}
	}
	for field, pos := range positions {
		v := values[field]
		width := len(pos)
		for i, p := range pos {
			bit := (v >> uint(width-1-i)) & 1
			word |= bit << (15 - p)
		}
	}
	return word
}

func asmLDI(rd int, k uint8) uint16 {
	return wordFrom("1110 KKKK dddd KKKK", map[byte]uint16{'K': uint16(k), 'd': uint16(rd - 16)})
}

func asmCPI(rd int, k uint8) uint16 {
	return wordFrom("0011 KKKK dddd KKKK", map[byte]uint16{'K': uint16(k), 'd': uint16(rd - 16)})
}

func asmADD(rd, rr int) uint16 {
	return wordFrom("0000 11r ddddd rrrr", map[byte]uint16{'d': uint16(rd), 'r': uint16(rr)})
}

func asmADC(rd, rr int) uint16 {
	return wordFrom("0001 11r ddddd rrrr", map[byte]uint16{'d': uint16(rd), 'r': uint16(rr)})
}

func asmCP(rd, rr int) uint16 {
	return wordFrom("0001 01r ddddd rrrr", map[byte]uint16{'d': uint16(rd), 'r': uint16(rr)})
}

func asmCPC(rd, rr int) uint16 {
	return wordFrom("0000 01r ddddd rrrr", map[byte]uint16{'d': uint16(rd), 'r': uint16(rr)})
}

func asmEOR(rd, rr int) uint16 {
	return wordFrom("0010 01r ddddd rrrr", map[byte]uint16{'d': uint16(rd), 'r': uint16(rr)})
}

func asmADIW(pair uint8, k uint8) uint16 {
	return wordFrom("1001 0110 kkpp kkkk", map[byte]uint16{'k': uint16(k), 'p': uint16(pair)})
}

func asmSBIW(pair uint8, k uint8) uint16 {
	return wordFrom("1001 0111 kkpp kkkk", map[byte]uint16{'k': uint16(k), 'p': uint16(pair)})
}

func asmPUSH(rd int) uint16 {
	return wordFrom("1001 001 ddddd 1111", map[byte]uint16{'d': uint16(rd)})
}

func asmPOP(rd int) uint16 {
	return wordFrom("1001 000 ddddd 1111", map[byte]uint16{'d': uint16(rd)})
}

func asmSTX(rd int) uint16 {
	return wordFrom("1001 001 ddddd 1101", map[byte]uint16{'d': uint16(rd)})
}

func asmLPM(rd int) uint16 {
	return wordFrom("1001 000 ddddd 0101", map[byte]uint16{'d': uint16(rd)})
}

func asmSTS(rd int) uint16 {
	return wordFrom("1001 001 ddddd 0000", map[byte]uint16{'d': uint16(rd)})
}

func asmLDS(rd int) uint16 {
	return wordFrom("1001 000 ddddd 0000", map[byte]uint16{'d': uint16(rd)})
}

func asmCALL() uint16 {
	return wordFrom("1001 010 kkkkk 111k", map[byte]uint16{'k': 0})
}

func asmJMP() uint16 {
	return wordFrom("1001 010 kkkkk 110k", map[byte]uint16{'k': 0})
}

func asmRET() uint16 {
	return wordFrom("1001 0101 0000 1000", nil)
}

func asmBRGE(offset int8) uint16 {
	return wordFrom("1111 01uu uuuu u100", map[byte]uint16{'u': uint16(offset) & 0x7F})
}

func asmBRNE(offset int8) uint16 {
	return wordFrom("1111 01uu uuuu u001", map[byte]uint16{'u': uint16(offset) & 0x7F})
}

func asmRJMP(offset int16) uint16 {
	return wordFrom("1100 uuuu uuuu uuuu", map[byte]uint16{'u': uint16(offset) & 0xFFF})
}

func asmRCALL(offset int16) uint16 {
	return wordFrom("1101 uuuu uuuu uuuu", map[byte]uint16{'u': uint16(offset) & 0xFFF})
}

func asmIN(rd int, ioaddr uint8) uint16 {
	return wordFrom("1011 0aa ddddd aaaa", map[byte]uint16{'a': uint16(ioaddr), 'd': uint16(rd)})
}

func asmOUT(rd int, ioaddr uint8) uint16 {
	return wordFrom("1011 1aa ddddd aaaa", map[byte]uint16{'a': uint16(ioaddr), 'd': uint16(rd)})
}
