package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jbearer/avr-db/vm"
)

// printRegister formats name's current value ("r0".."r31", "pc", "sp", or
// "sreg", case-insensitive) from machine, or an error if name is not a
// recognized register.
func printRegister(machine *vm.VM, name string) (string, error) {
	switch strings.ToLower(name) {
	case "pc":
		return fmt.Sprintf("PC = 0x%04X", machine.PC), nil
	case "sp":
		sp := uint16(machine.Read(0x5D)) | uint16(machine.Read(0x5E))<<8
		return fmt.Sprintf("SP = 0x%04X", sp), nil
	case "sreg":
		return fmt.Sprintf("SREG = 0x%02X %s", machine.Read(0x5F), formatSREG(machine.Read(0x5F))), nil
	}

	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "r") {
		return "", fmt.Errorf("unknown register %q", name)
	}
	n, err := strconv.Atoi(lower[1:])
	if err != nil || n < 0 || n > 31 {
		return "", fmt.Errorf("unknown register %q", name)
	}
	return fmt.Sprintf("R%d = 0x%02X", n, machine.Read(uint16(n))), nil
}

// formatSREG renders SREG's eight flag bits as a GDB-style letter string,
// a dash standing in for a clear flag: I T H S V N Z C.
func formatSREG(sreg byte) string {
	letters := "ITHSVNZC"
	var b strings.Builder
	for i := 0; i < 8; i++ {
		bit := sreg & (1 << uint(7-i))
		if bit != 0 {
			b.WriteByte(letters[i])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
