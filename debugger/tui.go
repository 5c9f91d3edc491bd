package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is a scaled-down version of the reference debugger's text interface:
// a register panel, a disassembly panel, a breakpoints panel, an output
// log, and a command input line, all driven by the same command
// dispatcher as RunCLI.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView    *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds a TUI over dbg. Call Run to start the event loop.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}
	t.initViews()
	t.App.SetRoot(t.layout(), true).SetFocus(t.CommandInput)
	return t
}

func (t *TUI) initViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) layout() tview.Primitive {
	top := tview.NewFlex().
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(t.RegisterView, 0, 2, false).
			AddItem(t.BreakpointsView, 0, 1, false), 0, 1, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.CommandInput.SetText("")

	if cmd == "quit" || cmd == "q" {
		t.App.Stop()
		return
	}

	if err := t.Debugger.ExecuteCommand(cmd); err != nil {
		fmt.Fprintf(t.OutputView, "[red]Error:[white] %v\n", err)
	}
	if out := t.Debugger.GetOutput(); out != "" {
		fmt.Fprint(t.OutputView, out)
	}
	t.refresh()
}

func (t *TUI) refresh() {
	t.RegisterView.Clear()
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(t.RegisterView, "R%-2d=%02X R%-2d=%02X R%-2d=%02X R%-2d=%02X\n",
			i, t.Debugger.VM.Read(uint16(i)),
			i+1, t.Debugger.VM.Read(uint16(i+1)),
			i+2, t.Debugger.VM.Read(uint16(i+2)),
			i+3, t.Debugger.VM.Read(uint16(i+3)))
	}
	fmt.Fprintf(t.RegisterView, "PC=%04X SREG=%02X\n", t.Debugger.VM.PC, t.Debugger.VM.Read(0x5F))

	t.DisassemblyView.Clear()
	if instr, err := t.Debugger.VM.NextInstruction(); err == nil {
		fmt.Fprintf(t.DisassemblyView, "[yellow]0x%04X: %s[white]\n", t.Debugger.VM.PC, FormatInstruction(instr))
	}
}

// Run starts the TUI event loop; it returns when the user quits.
func (t *TUI) Run() error {
	t.refresh()
	return t.App.Run()
}
