// Package vm interprets decoded AVR instructions against register file,
// SRAM, program flash, and the status register, producing the exact
// architectural side effects of an ATmega168 core.
package vm

import (
	"fmt"

	"github.com/jbearer/avr-db/isa"
	"github.com/jbearer/avr-db/loader"
)

// SRAM addresses of the three memory-mapped registers the interpreter
// treats specially; everything else in 0..RAMEnd is plain data memory.
const (
	SPL  = 0x5D
	SPH  = 0x5E
	SREG = 0x5F
)

// I/O address space (6-bit, used by IN/OUT) is offset from SRAM address
// space by this much: IN/OUT address a reads/writes SRAM[a+IOBase].
const IOBase = 0x20

// SREG flag bits, MSB to LSB: I T H S V N Z C. Only the low six are
// updated by the core; I and T are carried but never touched here.
const (
	flagI byte = 1 << 7
	flagT byte = 1 << 6
	flagH byte = 1 << 5
	flagS byte = 1 << 4
	flagV byte = 1 << 3
	flagN byte = 1 << 2
	flagZ byte = 1 << 1
	flagC byte = 1 << 0
)

// VM owns all architectural state for one simulation session: program
// flash, SRAM (which holds the register file, I/O registers including
// SREG, and data memory), the program counter, and the breakpoint set.
type VM struct {
	Flash []uint16
	SRAM  []byte
	PC    uint16

	breakpoints map[uint16]bool

	Board loader.Board
}

// New creates a VM sized to board's RAM and flash extents. Call Load
// before stepping it.
func New(board loader.Board) *VM {
	return &VM{
		Flash:       make([]uint16, board.FlashEnd),
		SRAM:        make([]byte, board.RAMEnd),
		breakpoints: make(map[uint16]bool),
		Board:       board,
	}
}

// Load initializes flash from text at its load address, copies each of
// segments into SRAM at its load address, sets SP to RAMEnd-2, clears
// SREG, clears PC, and clears the breakpoint set.
func (vm *VM) Load(text loader.Segment, segments ...loader.Segment) error {
	if err := loadWords(vm.Flash, text); err != nil {
		return fmt.Errorf("loading text segment: %w", err)
	}
	for _, seg := range segments {
		if err := loadBytes(vm.SRAM, seg); err != nil {
			return fmt.Errorf("loading data segment: %w", err)
		}
	}

	sp := uint16(len(vm.SRAM)) - 2
	vm.SRAM[SPL] = byte(sp)
	vm.SRAM[SPH] = byte(sp >> 8)
	vm.SRAM[SREG] = 0
	vm.PC = 0
	vm.breakpoints = make(map[uint16]bool)
	return nil
}

func loadWords(flash []uint16, seg loader.Segment) error {
	data := seg.Bytes()
	addr := seg.Address()
	if int(addr)+len(data)/2 > len(flash) {
		return fmt.Errorf("text segment at word 0x%04X overruns %d-word flash", addr, len(flash))
	}
	for i := 0; i+1 < len(data); i += 2 {
		flash[int(addr)+i/2] = uint16(data[i]) | uint16(data[i+1])<<8
	}
	return nil
}

func loadBytes(sram []byte, seg loader.Segment) error {
	data := seg.Bytes()
	addr := seg.Address()
	if int(addr)+len(data) > len(sram) {
		return fmt.Errorf("data segment at byte 0x%04X overruns %d-byte SRAM", addr, len(sram))
	}
	copy(sram[addr:], data)
	return nil
}

// Read returns one byte of SRAM.
func (vm *VM) Read(addr uint16) byte {
	return vm.SRAM[addr]
}

// SetBreakpoint adds a flash word-address to the breakpoint set.
func (vm *VM) SetBreakpoint(addr uint16) {
	vm.breakpoints[addr] = true
}

// DeleteBreakpoint removes a flash word-address from the breakpoint set.
func (vm *VM) DeleteBreakpoint(addr uint16) {
	delete(vm.breakpoints, addr)
}

// fetchNext supplies isa.Decode the program word following the one
// currently being decoded at pc.
func (vm *VM) fetchNext(pc uint16) isa.WordAt {
	return func(offset int) uint16 {
		return vm.Flash[pc+uint16(offset)]
	}
}

// NextInstruction decodes the instruction at PC without mutating state.
func (vm *VM) NextInstruction() (isa.Instruction, error) {
	return isa.Decode(vm.Flash[vm.PC], vm.fetchNext(vm.PC))
}

// Step executes exactly one instruction (1 or 2 words).
func (vm *VM) Step() error {
	instr, err := vm.NextInstruction()
	if err != nil {
		return err
	}
	return vm.execute(instr)
}

// Next behaves like Step, except when the next instruction is CALL or
// RCALL: it then runs until the PC returns to immediately after the call (PC ==
// call_pc + call_size), regardless of any nested calls along the way.
// This is depth-based via PC equality, matching a simulator's run_until
// keyed on the resumption address, not a call-depth counter.
func (vm *VM) Next() error {
	callPC := vm.PC
	instr, err := vm.NextInstruction()
	if err != nil {
		return err
	}
	if instr.Mnemonic != isa.CALL && instr.Mnemonic != isa.RCALL {
		return vm.execute(instr)
	}
	resumeAt := callPC + uint16(instr.Size)
	if err := vm.execute(instr); err != nil {
		return err
	}
	for vm.PC != resumeAt {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run executes repeatedly until PC lies in the breakpoint set. A program
// with no reachable breakpoint runs forever; Run imposes no cycle limit
// of its own.
func (vm *VM) Run() error {
	for {
		if err := vm.Step(); err != nil {
			return err
		}
		if vm.breakpoints[vm.PC] {
			return nil
		}
	}
}
