// Command avrsim loads a flat AVR program binary and drives it, either
// one step at a time through a minimal REPL, interactively through a
// tcell/tview debugger, or straight through until the first breakpoint.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jbearer/avr-db/config"
	"github.com/jbearer/avr-db/debugger"
	"github.com/jbearer/avr-db/loader"
	"github.com/jbearer/avr-db/vm"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

// breakpointList collects repeated -break flags into a slice of addresses.
type breakpointList []string

func (b *breakpointList) String() string { return strings.Join(*b, ",") }
func (b *breakpointList) Set(s string) error {
	*b = append(*b, s)
	return nil
}

func main() {
	var (
		boardPath   = flag.String("board", "", "TOML config path (default: platform config directory)")
		entry       = flag.String("entry", "", "entry load address, hex or decimal (default: config or 0x0000)")
		dataAddr    = flag.String("data-addr", "0x0000", "SRAM load address for the program file's data segment, hex or decimal")
		replMode    = flag.Bool("repl", false, "drive the program through the minimal single-character REPL")
		tuiMode     = flag.Bool("tui", false, "drive the program through the interactive tcell/tview debugger")
		showVersion = flag.Bool("version", false, "show version information")
	)
	var breaks breakpointList
	flag.Var(&breaks, "break", "preload a breakpoint at this flash word address (repeatable)")

	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("avrsim %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		printHelp()
		os.Exit(1)
	}
	programPath := flag.Arg(0)

	cfgPath := *boardPath
	if cfgPath == "" {
		cfgPath = config.GetConfigPath()
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	entryStr := *entry
	if entryStr == "" {
		entryStr = cfg.Execution.DefaultEntry
	}
	entryAddr, err := parseAddress(entryStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid entry address %q: %v\n", entryStr, err)
		os.Exit(1)
	}

	dataAddrVal, err := parseAddress(*dataAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid data-addr %q: %v\n", *dataAddr, err)
		os.Exit(1)
	}

	board := loader.Board{RAMEnd: cfg.Board.RAMEnd, FlashEnd: cfg.Board.FlashEnd}
	text, data, err := loader.LoadFlat(programPath, uint32(entryAddr), uint32(dataAddrVal))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading program: %v\n", err)
		os.Exit(1)
	}

	machine := vm.New(board)
	if err := machine.Load(text, data); err != nil {
		fmt.Fprintf(os.Stderr, "initializing machine: %v\n", err)
		os.Exit(1)
	}
	machine.PC = entryAddr

	for _, b := range breaks {
		addr, err := parseAddress(b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid breakpoint address %q: %v\n", b, err)
			os.Exit(1)
		}
		machine.SetBreakpoint(addr)
	}

	switch {
	case *tuiMode:
		tui := debugger.NewTUI(debugger.NewDebugger(machine))
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui: %v\n", err)
			os.Exit(1)
		}
	case *replMode:
		runMinimalREPL(machine)
	default:
		if err := machine.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
}

// runMinimalREPL reads single characters from stdin; 's' issues one step
// and prints the mnemonic of the instruction now at PC.
func runMinimalREPL(machine *vm.VM) {
	reader := bufio.NewReader(os.Stdin)
	for {
		c, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		if c != 's' {
			continue
		}
		if err := machine.Step(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return
		}
		instr, err := machine.NextInstruction()
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(instr.Mnemonic.String())
	}
}

func parseAddress(s string) (uint16, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func printHelp() {
	fmt.Fprintln(os.Stderr, "usage: avrsim [flags] <program-file>")
	flag.PrintDefaults()
}
