package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rv64imc/sim/vm"
)

// RunCLI runs the command-line debugger interface
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		// Print prompt
		fmt.Print("(rvsim-dbg) ")

		// Read command
		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		// Exit commands
		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		// Execute command
		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		// Print any output from the debugger
		output := dbg.GetOutput()
		if output != "" {
			fmt.Print(output)
		}

		// If running, execute until breakpoint or halt
		if dbg.Running {
			for dbg.Running {
				// Check for breakpoint before execution
				if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
					dbg.Running = false
					fmt.Printf("Stopped: %s at pc=0x%016X\n", reason, dbg.VM.PC())
					break
				}

				dbg.VM.RunStep()

				switch dbg.VM.GetState() {
				case vm.Finished:
					dbg.Running = false
					fmt.Printf("Program exited with code %d\n", dbg.VM.ExitCode())
				case vm.Error:
					dbg.Running = false
					fmt.Println("Runtime error, execution halted")
				case vm.Breakpoint:
					dbg.Running = false
					fmt.Printf("Stopped at ebreak, pc=0x%016X\n", dbg.VM.PC())
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the TUI (Text User Interface) debugger
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
