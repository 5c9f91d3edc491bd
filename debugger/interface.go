package debugger

import (
	"bufio"
	"fmt"
	"io"
)

// RunCLI runs the line-oriented command-line debugger: prompt, read a
// command, execute it, print its output, repeat. "quit"/"q"/"exit" ends
// the session.
func RunCLI(dbg *Debugger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "(avr-db) ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch line {
		case "quit", "q", "exit":
			fmt.Fprintln(out, "Exiting debugger...")
			return nil
		}

		if err := dbg.ExecuteCommand(line); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if output := dbg.GetOutput(); output != "" {
			fmt.Fprint(out, output)
		}
	}

	return scanner.Err()
}
