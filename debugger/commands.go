package debugger

import (
	"fmt"
)

func (d *Debugger) cmdStep(args []string) error {
	if err := d.VM.Step(); err != nil {
		return err
	}
	return d.printCurrentInstruction()
}

func (d *Debugger) cmdNext(args []string) error {
	if err := d.VM.Next(); err != nil {
		return err
	}
	return d.printCurrentInstruction()
}

func (d *Debugger) cmdRun(args []string) error {
	if err := d.VM.Run(); err != nil {
		return err
	}
	d.Printf("Stopped at breakpoint, PC = 0x%04X\n", d.VM.PC)
	return d.printCurrentInstruction()
}

func (d *Debugger) printCurrentInstruction() error {
	instr, err := d.VM.NextInstruction()
	if err != nil {
		d.Printf("PC = 0x%04X: <%v>\n", d.VM.PC, err)
		return nil
	}
	d.Printf("PC = 0x%04X: %s\n", d.VM.PC, FormatInstruction(instr))
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address>")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	d.VM.SetBreakpoint(addr)
	d.Printf("Breakpoint set at 0x%04X\n", addr)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: delete <address>")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	d.VM.DeleteBreakpoint(addr)
	d.Printf("Breakpoint at 0x%04X removed\n", addr)
	return nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register>")
	}
	line, err := printRegister(d.VM, args[0])
	if err != nil {
		return err
	}
	d.Println(line)
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info registers")
	}
	switch args[0] {
	case "registers", "reg", "r":
		for i := 0; i < 32; i += 4 {
			d.Printf("R%-2d=0x%02X  R%-2d=0x%02X  R%-2d=0x%02X  R%-2d=0x%02X\n",
				i, d.VM.Read(uint16(i)),
				i+1, d.VM.Read(uint16(i+1)),
				i+2, d.VM.Read(uint16(i+2)),
				i+3, d.VM.Read(uint16(i+3)))
		}
		pcLine, _ := printRegister(d.VM, "pc")
		spLine, _ := printRegister(d.VM, "sp")
		sregLine, _ := printRegister(d.VM, "sreg")
		d.Println(pcLine)
		d.Println(spLine)
		d.Println(sregLine)
		return nil
	default:
		return fmt.Errorf("unknown info subcommand: %s", args[0])
	}
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("Commands:")
	d.Println("  step, s           execute one instruction")
	d.Println("  next, n           step, treating call/rcall as atomic")
	d.Println("  run, r            run until a breakpoint is hit")
	d.Println("  break, b <addr>   set a breakpoint at a flash word address")
	d.Println("  delete, d <addr>  remove a breakpoint")
	d.Println("  print, p <reg>    print a register (r0-r31, pc, sp, sreg)")
	d.Println("  info registers    dump the full register file")
	d.Println("  help, h, ?        show this message")
	return nil
}
