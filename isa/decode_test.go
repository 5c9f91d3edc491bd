package isa

import (
	"strings"
	"testing"
)

// encode builds a 16-bit word from a spec-style pattern string and a set of
// field values, independently of compilePattern, so these tests don't simply
// check the compiler against itself. Each field's value is distributed MSB
// first across that field's positions in left-to-right order of appearance,
// matching the convention BitsAt uses to reassemble them.
func encode(t *testing.T, pattern string, values map[byte]uint16) uint16 {
	t.Helper()
	pattern = strings.ReplaceAll(pattern, " ", "")
	if len(pattern) != 16 {
		t.Fatalf("pattern %q is not 16 bits", pattern)
	}

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

func fetchNextFrom(words ...uint16) WordAt {
	return func(offset int) uint16 {
		return words[offset]
	}
}

func noNextWord(int) uint16 {
	panic("fetchNext should not be called for a single-word instruction")
}

func TestDecodeEveryRuleFixedBits(t *testing.T) {
	// Every rule's raw value (all field bits zero) must decode back to
	// its own mnemonic: this exercises the scan order and mask/value
	// matching across the full table, including the families that share
	// an opcode prefix (ADIW/SBIW, PUSH/POP/STX/LPM/LDS/STS, CALL/JMP).
	for _, spec := range rules {
		word := spec.value
		got, err := Decode(word, fetchNextFrom(0, 0))
		if err != nil {
			t.Errorf("%s: Decode(0x%04X) returned error: %v", spec.mnemonic, word, err)
			continue
		}
		if got.Mnemonic != spec.mnemonic {
			t.Errorf("Decode(0x%04X) = %s, want %s", word, got.Mnemonic, spec.mnemonic)
		}
	}
}

func TestDecodeRegReg(t *testing.T) {
	word := encode(t, "0000 11r ddddd rrrr", map[byte]uint16{'d': 5, 'r': 17})
	instr, err := Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: ADD, Size: 1, Rd: 5, Rr: 17}
	if !instr.Equal(want) {
		t.Errorf("Decode(0x%04X) = %+v, want %+v", word, instr, want)
	}
}

func TestDecodeConstReg(t *testing.T) {
	// ldi r23, 0xA5 -- Rd encodes only the low 4 bits of (r-16), LDI
	// targets r16..r31 only.
	word := encode(t, "1110 KKKK dddd KKKK", map[byte]uint16{'K': 0xA5, 'd': 23 - 16})
	instr, err := Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: LDI, Size: 1, Rd: 23, K: 0xA5}
	if !instr.Equal(want) {
		t.Errorf("Decode(0x%04X) = %+v, want %+v", word, instr, want)
	}
}

func TestDecodeConstPair(t *testing.T) {
	// adiw X, 22
	word := encode(t, "1001 0110 kkpp kkkk", map[byte]uint16{'k': 22, 'p': uint16(PairX)})
	instr, err := Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: ADIW, Size: 1, K: 22, Pair: PairX}
	if !instr.Equal(want) {
		t.Errorf("Decode(0x%04X) = %+v, want %+v", word, instr, want)
	}

	word = encode(t, "1001 0111 kkpp kkkk", map[byte]uint16{'k': 3, 'p': uint16(PairY)})
	instr, err = Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = Instruction{Mnemonic: SBIW, Size: 1, K: 3, Pair: PairY}
	if !instr.Equal(want) {
		t.Errorf("Decode(0x%04X) = %+v, want %+v", word, instr, want)
	}
}

func TestDecodeRegAddress(t *testing.T) {
	word := encode(t, "1001 001 ddddd 0000", map[byte]uint16{'d': 12})
	instr, err := Decode(word, fetchNextFrom(0, 0x0200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: STS, Size: 2, Rd: 12, Address: 0x0200}
	if !instr.Equal(want) {
		t.Errorf("Decode(STS) = %+v, want %+v", instr, want)
	}

	word = encode(t, "1001 000 ddddd 0000", map[byte]uint16{'d': 3})
	instr, err = Decode(word, fetchNextFrom(0, 0x0100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = Instruction{Mnemonic: LDS, Size: 2, Rd: 3, Address: 0x0100}
	if !instr.Equal(want) {
		t.Errorf("Decode(LDS) = %+v, want %+v", instr, want)
	}
}

func TestDecodeAddress(t *testing.T) {
	word := encode(t, "1001 010 kkkkk 111k", map[byte]uint16{'k': 0})
	instr, err := Decode(word, fetchNextFrom(0, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: CALL, Size: 2, Address: 500}
	if !instr.Equal(want) {
		t.Errorf("Decode(CALL) = %+v, want %+v", instr, want)
	}

	word = encode(t, "1001 010 kkkkk 110k", map[byte]uint16{'k': 0})
	instr, err = Decode(word, fetchNextFrom(0, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = Instruction{Mnemonic: JMP, Size: 2, Address: 12}
	if !instr.Equal(want) {
		t.Errorf("Decode(JMP) = %+v, want %+v", instr, want)
	}
}

func TestDecodeOffset7Negative(t *testing.T) {
	// brne -1 (u = 0b1111111, the all-ones 7-bit pattern, two's complement -1)
	word := encode(t, "1111 01uu uuuu u001", map[byte]uint16{'u': 0b1111111})
	instr, err := Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: BRNE, Size: 1, Offset: -1}
	if !instr.Equal(want) {
		t.Errorf("Decode(BRNE) = %+v, want %+v", instr, want)
	}
}

func TestDecodeOffset12(t *testing.T) {
	word := encode(t, "1100 uuuu uuuu uuuu", map[byte]uint16{'u': 0b1000_0000_0000})
	instr, err := Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: RJMP, Size: 1, Offset: -2048}
	if !instr.Equal(want) {
		t.Errorf("Decode(RJMP) = %+v, want %+v", instr, want)
	}
}

func TestDecodeIOAddrReg(t *testing.T) {
	word := encode(t, "1011 0aa ddddd aaaa", map[byte]uint16{'a': 0x3F, 'd': 31})
	instr, err := Decode(word, noNextWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Instruction{Mnemonic: IN, Size: 1, Rd: 31, IOAddr: 0x3F}
	if !instr.Equal(want) {
		t.Errorf("Decode(IN) = %+v, want %+v", instr, want)
	}
}

func TestDecodeInvalidInstruction(t *testing.T) {
	// 0xFFFF matches no rule in the table. The decoder reads the word
	// following it too, regardless of width, to build the diagnostic.
	_, err := Decode(0xFFFF, fetchNextFrom(0, 0xBEEF))
	if err == nil {
		t.Fatal("expected an error for an unrecognized word, got nil")
	}
	var invalid *InvalidInstructionError
	if !asInvalidInstruction(err, &invalid) {
		t.Fatalf("expected *InvalidInstructionError, got %T: %v", err, err)
	}
	if invalid.Word != 0xFFFF {
		t.Errorf("invalid.Word = 0x%04X, want 0xFFFF", invalid.Word)
	}
	if invalid.NextWord != 0xBEEF {
		t.Errorf("invalid.NextWord = 0x%04X, want 0xBEEF", invalid.NextWord)
	}
	wantMsg := "invalid instruction: 11111111 11111111 11101111 10111110"
	if invalid.Error() != wantMsg {
		t.Errorf("Error() = %q, want %q", invalid.Error(), wantMsg)
	}
}

func asInvalidInstruction(err error, target **InvalidInstructionError) bool {
	e, ok := err.(*InvalidInstructionError)
	if ok {
		*target = e
	}
	return ok
}
