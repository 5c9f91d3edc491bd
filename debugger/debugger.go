// Package debugger implements an interactive command dispatcher over a
// running vm.VM, shared by the plain-text REPL and the tcell/tview TUI.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jbearer/avr-db/vm"
)

// Debugger holds one interactive debugging session over a VM: command
// history and an output buffer the front end drains after each command.
type Debugger struct {
	VM *vm.VM

	History     []string
	LastCommand string

	Output strings.Builder
}

// NewDebugger wraps machine in a fresh debugging session.
func NewDebugger(machine *vm.VM) *Debugger {
	return &Debugger{VM: machine}
}

// ExecuteCommand parses and runs one command line. An empty line repeats
// the last command, matching the reference debugger's convention for
// hammering "step" with a bare Enter.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line == "" {
		return nil
	}

	d.History = append(d.History, line)
	d.LastCommand = line

	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "step", "s":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)
	case "run", "r":
		return d.cmdRun(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// parseAddress accepts a decimal or 0x-prefixed hex word address.
func parseAddress(s string) (uint16, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}
