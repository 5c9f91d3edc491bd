package vm

import (
	"github.com/jbearer/avr-db/isa"
)

// execute applies a decoded instruction's architectural side effects and
// advances PC, following this interpreter's dispatch: CALL/RCALL/RET/JMP
// set PC themselves and RJMP adds its own offset and size; BRGE/BRNE add
// their offset only when taken and, like every other instruction, fall
// through to PC += instr.Size below.
func (vm *VM) execute(instr isa.Instruction) error {
	switch instr.Mnemonic {
	case isa.ADIW:
		vm.adiw(instr.Pair, instr.K)
	case isa.SBIW:
		vm.sbiw(instr.Pair, instr.K)
	case isa.CALL:
		vm.call(instr.Address, vm.PC+uint16(instr.Size))
		return nil
	case isa.RCALL:
		vm.rcall(instr.Offset, vm.PC+uint16(instr.Size))
		return nil
	case isa.RET:
		vm.ret()
		return nil
	case isa.JMP:
		vm.jmp(instr.Address)
		return nil
	case isa.STS:
		vm.sts(instr.Rd, instr.Address)
	case isa.CP:
		vm.cp(instr.Rd, instr.Rr)
	case isa.CPC:
		vm.cpc(instr.Rd, instr.Rr)
	case isa.ADD:
		vm.add(instr.Rd, instr.Rr)
	case isa.ADC:
		vm.adc(instr.Rd, instr.Rr)
	case isa.LDI:
		vm.ldi(instr.Rd, instr.K)
	case isa.CPI:
		vm.cpi(instr.Rd, instr.K)
	case isa.LDS:
		vm.lds(instr.Rd, instr.Address)
	case isa.BRGE:
		vm.brge(instr.Offset)
	case isa.BRNE:
		vm.brne(instr.Offset)
	case isa.RJMP:
		vm.rjmp(instr.Offset)
		vm.PC += uint16(instr.Size)
		return nil
	case isa.EOR:
		vm.eor(instr.Rd, instr.Rr)
	case isa.IN:
		vm.in(instr.IOAddr, instr.Rd)
	case isa.OUT:
		vm.out(instr.IOAddr, instr.Rd)
	case isa.LPM:
		vm.lpm(instr.Rd)
	case isa.STX:
		vm.stx(instr.Rd)
	case isa.PUSH:
		vm.push(vm.SRAM[instr.Rd])
	case isa.POP:
		vm.SRAM[instr.Rd] = vm.pop()
	default:
		return &UnimplementedError{Mnemonic: instr.Mnemonic}
	}
	vm.PC += uint16(instr.Size)
	return nil
}

// adiw adds an unsigned 6-bit constant to a register pair as a 16-bit
// value, preserving H across both byte adds (the pair add is specified
// not to disturb half-carry).
func (vm *VM) adiw(pair isa.RegisterPair, k uint8) {
	h := vm.flag(flagH)
	lo := pair.LowAddress()
	hi := lo + 1

	vm.addByte(lo, k)
	var carryIn byte
	if vm.flag(flagC) {
		carryIn = 1
	}
	vm.addByte(hi, carryIn)

	vm.setFlag(flagZ, vm.SRAM[lo] == 0 && vm.SRAM[hi] == 0)
	vm.setFlag(flagH, h)
}

// sbiw subtracts an unsigned 6-bit constant from a register pair as a
// 16-bit value, preserving H across both byte subtracts.
func (vm *VM) sbiw(pair isa.RegisterPair, k uint8) {
	h := vm.flag(flagH)
	lo := pair.LowAddress()
	hi := lo + 1

	vm.subByte(lo, k)
	var carryIn byte
	if vm.flag(flagC) {
		carryIn = 1
	}
	vm.subByte(hi, carryIn)

	vm.setFlag(flagZ, vm.SRAM[lo] == 0 && vm.SRAM[hi] == 0)
	vm.setFlag(flagH, h)
}

func (vm *VM) add(rd, rr int) {
	vm.addByte(uint16(rd), vm.SRAM[rr])
}

func (vm *VM) adc(rd, rr int) {
	var carryIn byte
	if vm.flag(flagC) {
		carryIn = 1
	}
	vm.addByte(uint16(rd), vm.SRAM[rr]+carryIn)
}

func (vm *VM) cp(rd, rr int) {
	vm.compareByte(vm.SRAM[rd], vm.SRAM[rr])
}

func (vm *VM) cpc(rd, rr int) {
	vm.compareCarryByte(vm.SRAM[rd], vm.SRAM[rr], vm.flag(flagC))
}

func (vm *VM) cpi(rd int, k uint8) {
	vm.compareByte(vm.SRAM[rd], k)
}

func (vm *VM) eor(rd, rr int) {
	result := vm.SRAM[rd] ^ vm.SRAM[rr]
	vm.SRAM[rd] = result
	vm.setFlag(flagV, false)
	vm.setFlag(flagN, result&(1<<7) != 0)
	vm.setFlag(flagZ, result == 0)
	vm.updateSign()
}

func (vm *VM) ldi(rd int, k uint8) {
	vm.SRAM[rd] = k
}

// push writes b at SP and decrements SP.
func (vm *VM) push(b byte) {
	sp := vm.spValue()
	vm.SRAM[sp] = b
	vm.setSP(sp - 1)
}

// pop increments SP and reads the byte there.
func (vm *VM) pop() byte {
	sp := vm.spValue() + 1
	vm.setSP(sp)
	return vm.SRAM[sp]
}

func (vm *VM) spValue() uint16 {
	return uint16(vm.SRAM[SPL]) | uint16(vm.SRAM[SPH])<<8
}

func (vm *VM) setSP(sp uint16) {
	vm.SRAM[SPL] = byte(sp)
	vm.SRAM[SPH] = byte(sp >> 8)
}

// call pushes returnTo's high byte then its low byte (SP -= 2 total) and
// jumps to jumpTo.
func (vm *VM) call(jumpTo, returnTo uint16) {
	vm.push(byte(returnTo >> 8))
	vm.push(byte(returnTo))
	vm.PC = jumpTo
}

func (vm *VM) rcall(offset int, returnTo uint16) {
	vm.call(uint16(int(returnTo)+offset), returnTo)
}

// ret pops the low byte then the high byte, the inverse order of call's
// pushes, and resumes there.
func (vm *VM) ret() {
	lo := vm.pop()
	hi := vm.pop()
	vm.PC = uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) jmp(addr uint16) {
	vm.PC = addr
}

func (vm *VM) sts(rd int, addr uint16) {
	vm.SRAM[addr] = vm.SRAM[rd]
}

func (vm *VM) lds(rd int, addr uint16) {
	vm.SRAM[rd] = vm.SRAM[addr]
}

func (vm *VM) brge(offset int) {
	if !vm.flag(flagS) {
		vm.PC = uint16(int(vm.PC) + offset)
	}
}

func (vm *VM) brne(offset int) {
	if !vm.flag(flagZ) {
		vm.PC = uint16(int(vm.PC) + offset)
	}
}

func (vm *VM) rjmp(offset int) {
	vm.PC = uint16(int(vm.PC) + offset)
}

func (vm *VM) in(ioAddr uint8, rd int) {
	vm.SRAM[rd] = vm.SRAM[uint16(ioAddr)+IOBase]
}

func (vm *VM) out(ioAddr uint8, rd int) {
	vm.SRAM[uint16(ioAddr)+IOBase] = vm.SRAM[rd]
}

// lpm reads one byte of flash addressed by the Z register pair, treated
// as a byte pointer (word index Z>>1), selecting the word's low byte when
// Z's low bit is set and its high byte otherwise, then post-increments Z.
func (vm *VM) lpm(rd int) {
	z := uint16(vm.SRAM[isa.PairZ.LowAddress()]) | uint16(vm.SRAM[isa.PairZ.LowAddress()+1])<<8
	word := vm.Flash[(z>>1)&0x7FFF]
	if z&1 == 0 {
		vm.SRAM[rd] = byte(word >> 8)
	} else {
		vm.SRAM[rd] = byte(word)
	}
	z++
	vm.SRAM[isa.PairZ.LowAddress()] = byte(z)
	vm.SRAM[isa.PairZ.LowAddress()+1] = byte(z >> 8)
}

// stx stores rd's value at the address held in the X register pair, then
// post-increments X.
func (vm *VM) stx(rd int) {
	lo := isa.PairX.LowAddress()
	x := uint16(vm.SRAM[lo]) | uint16(vm.SRAM[lo+1])<<8
	vm.SRAM[x] = vm.SRAM[rd]
	x++
	vm.SRAM[lo] = byte(x)
	vm.SRAM[lo+1] = byte(x >> 8)
}
