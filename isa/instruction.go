package isa

// Mnemonic identifies a decoded AVR opcode.
type Mnemonic int

const (
	ADIW Mnemonic = iota
	SBIW
	CALL
	JMP
	STS
	LDS
	RET
	CP
	CPC
	ADD
	ADC
	LDI
	CPI
	STX
	BRGE
	BRNE
	RJMP
	RCALL
	EOR
	IN
	OUT
	LPM
	PUSH
	POP
)

var mnemonicNames = map[Mnemonic]string{
	ADIW:  "adiw",
	SBIW:  "sbiw",
	CALL:  "call",
	JMP:   "jmp",
	STS:   "sts",
	LDS:   "lds",
	RET:   "ret",
	CP:    "cp",
	CPC:   "cpc",
	ADD:   "add",
	ADC:   "adc",
	LDI:   "ldi",
	CPI:   "cpi",
	STX:   "st",
	BRGE:  "brge",
	BRNE:  "brne",
	RJMP:  "rjmp",
	RCALL: "rcall",
	EOR:   "eor",
	IN:    "in",
	OUT:   "out",
	LPM:   "lpm",
	PUSH:  "push",
	POP:   "pop",
}

// String returns the canonical textual mnemonic, e.g. "adiw".
func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return "???"
}

// RegisterPair names one of the four 16-bit register-pair views (W,X,Y,Z)
// formed from consecutive even/odd registers starting at R24.
type RegisterPair uint8

const (
	PairW RegisterPair = 0b00
	PairX RegisterPair = 0b01
	PairY RegisterPair = 0b10
	PairZ RegisterPair = 0b11
)

// LowAddress returns the SRAM address of the pair's low (even-numbered) byte.
func (p RegisterPair) LowAddress() uint16 {
	return 24 + 2*uint16(p)
}

var pairNames = map[RegisterPair]string{
	PairW: "W", PairX: "X", PairY: "Y", PairZ: "Z",
}

func (p RegisterPair) String() string {
	if name, ok := pairNames[p]; ok {
		return name
	}
	return "?"
}

// Instruction is a decoded AVR instruction: a mnemonic tag, its word-size
// (1 or 2), and whichever operand fields its shape uses. Only the fields
// belonging to the instruction's operand shape are meaningful; Equal
// compares only those.
type Instruction struct {
	Mnemonic Mnemonic
	Size     int

	Rd    int  // register index, shapes: reg, reg_reg, const_reg, reg_address, ioaddr_reg
	Rr    int  // second register index, shape: reg_reg
	Carry bool // carry-in requested at decode time (always false; execute resolves it from SREG)

	K uint8 // immediate constant, shapes: const_reg, const_pair

	Pair RegisterPair // shape: const_pair

	Address uint16 // flash word-address or SRAM data address, shapes: address, reg_address

	Offset int // signed word offset, shapes: offset7, offset12

	IOAddr uint8 // 6-bit I/O address, shape: ioaddr_reg
}

// OperandShape classifies which fields of an Instruction are meaningful.
type OperandShape int

const (
	ShapeNone OperandShape = iota
	ShapeRegReg
	ShapeConstReg
	ShapeConstPair
	ShapeReg
	ShapeRegAddress
	ShapeAddress
	ShapeOffset7
	ShapeOffset12
	ShapeIOAddrReg
)

var mnemonicShapes = map[Mnemonic]OperandShape{
	RET:   ShapeNone,
	ADD:   ShapeRegReg,
	ADC:   ShapeRegReg,
	CP:    ShapeRegReg,
	CPC:   ShapeRegReg,
	EOR:   ShapeRegReg,
	LDI:   ShapeConstReg,
	CPI:   ShapeConstReg,
	ADIW:  ShapeConstPair,
	SBIW:  ShapeConstPair,
	PUSH:  ShapeReg,
	POP:   ShapeReg,
	STX:   ShapeReg,
	LPM:   ShapeReg,
	LDS:   ShapeRegAddress,
	STS:   ShapeRegAddress,
	CALL:  ShapeAddress,
	JMP:   ShapeAddress,
	BRGE:  ShapeOffset7,
	BRNE:  ShapeOffset7,
	RJMP:  ShapeOffset12,
	RCALL: ShapeOffset12,
	IN:    ShapeIOAddrReg,
	OUT:   ShapeIOAddrReg,
}

// Shape returns the operand shape associated with m.
func (m Mnemonic) Shape() OperandShape {
	return mnemonicShapes[m]
}

// Equal reports whether two instructions are component-wise equal over
// their tag, size, and whichever operand fields their shared shape uses.
// Byte-wise struct equality is not meaningful here because unused fields
// of inactive shapes are not guaranteed to be zeroed consistently.
func (i Instruction) Equal(o Instruction) bool {
	if i.Mnemonic != o.Mnemonic || i.Size != o.Size {
		return false
	}
	switch i.Mnemonic.Shape() {
	case ShapeNone:
		return true
	case ShapeRegReg:
		return i.Rd == o.Rd && i.Rr == o.Rr && i.Carry == o.Carry
	case ShapeConstReg:
		return i.K == o.K && i.Rd == o.Rd
	case ShapeConstPair:
		return i.K == o.K && i.Pair == o.Pair
	case ShapeReg:
		return i.Rd == o.Rd
	case ShapeRegAddress:
		return i.Rd == o.Rd && i.Address == o.Address
	case ShapeAddress:
		return i.Address == o.Address
	case ShapeOffset7, ShapeOffset12:
		return i.Offset == o.Offset
	case ShapeIOAddrReg:
		return i.IOAddr == o.IOAddr && i.Rd == o.Rd
	default:
		return false
	}
}
