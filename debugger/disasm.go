package debugger

import (
	"fmt"

	"github.com/jbearer/avr-db/isa"
)

// FormatInstruction renders a decoded instruction in a GNU-assembler-like
// textual form, e.g. "add r16, r17" or "adiw X, 22", for the disassembly
// panel and the debugger's current-instruction line.
func FormatInstruction(instr isa.Instruction) string {
	name := instr.Mnemonic.String()
	switch instr.Mnemonic.Shape() {
	case isa.ShapeNone:
		return name
	case isa.ShapeRegReg:
		return fmt.Sprintf("%s r%d, r%d", name, instr.Rd, instr.Rr)
	case isa.ShapeConstReg:
		return fmt.Sprintf("%s r%d, %d", name, instr.Rd, instr.K)
	case isa.ShapeConstPair:
		return fmt.Sprintf("%s %s, %d", name, instr.Pair, instr.K)
	case isa.ShapeReg:
		return fmt.Sprintf("%s r%d", name, instr.Rd)
	case isa.ShapeRegAddress:
		return fmt.Sprintf("%s r%d, 0x%04X", name, instr.Rd, instr.Address)
	case isa.ShapeAddress:
		return fmt.Sprintf("%s 0x%04X", name, instr.Address)
	case isa.ShapeOffset7, isa.ShapeOffset12:
		return fmt.Sprintf("%s %+d", name, instr.Offset)
	case isa.ShapeIOAddrReg:
		return fmt.Sprintf("%s r%d, 0x%02X", name, instr.Rd, instr.IOAddr)
	default:
		return name
	}
}
