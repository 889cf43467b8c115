package vm

import (
	"fmt"
	"os"
)

// Hooks are the five UI callback points the core invokes on significant
// events (spec.md §6). Defaults route to stdout/stderr; an embedder may
// replace any subset.
type Hooks struct {
	Output  func(s string)
	Info    func(s string)
	Warning func(s string)
	Hint    func(s string)
	Error   func(s string)
}

// DefaultHooks routes Output to stdout and everything else to stderr.
func DefaultHooks() Hooks {
	return Hooks{
		Output:  func(s string) { fmt.Print(s) },
		Info:    func(s string) { fmt.Fprintln(os.Stderr, "info:", s) },
		Warning: func(s string) { fmt.Fprintln(os.Stderr, "warning:", s) },
		Hint:    func(s string) { fmt.Fprintln(os.Stderr, "hint:", s) },
		Error:   func(s string) { fmt.Fprintln(os.Stderr, "error:", s) },
	}
}

func (h Hooks) output(s string) {
	if h.Output != nil {
		h.Output(s)
	}
}

func (h Hooks) warning(s string) {
	if h.Warning != nil {
		h.Warning(s)
	}
}

func (h Hooks) reportError(s string) {
	if h.Error != nil {
		h.Error(s)
	}
}

// syscallOutcome reports what an ecall did to VM control flow.
type syscallOutcome int

const (
	syscallContinue syscallOutcome = iota
	syscallTerminate
)

// ecall dispatches on a0 per spec.md §4.8: code in x10/a0, primary argument
// in x11/a1. Returns the outcome and, on syscallTerminate, the exit code.
func (vm *VM) ecall() (syscallOutcome, int64) {
	a0 := vm.cpu.RegS(10)
	a1 := vm.cpu.RegS(11)

	switch a0 {
	case 1: // print integer in a1
		vm.hooks.output(fmt.Sprintf("%d", a1))
		return syscallContinue, 0

	case 4: // print NUL-terminated string at address a1
		s, err := vm.mem.LoadString(uint64(a1))
		if err != MemErrNone {
			vm.errorStop(fmt.Errorf("ecall 4: %s", err))
			return syscallContinue, 0
		}
		vm.hooks.output(s)
		return syscallContinue, 0

	case 9: // sbrk(a1), previous break written back into a0
		prevBrk, err := vm.mem.Sbrk(a1)
		if err != MemErrNone {
			vm.errorStop(fmt.Errorf("ecall 9 (sbrk): %s", err))
			return syscallContinue, 0
		}
		vm.cpu.SetReg(10, prevBrk)
		return syscallContinue, 0

	case 10: // terminate, exit code 0
		return syscallTerminate, 0

	case 11: // print byte a1 as ASCII
		vm.hooks.output(string([]byte{byte(a1)}))
		return syscallContinue, 0

	case 17: // terminate, exit code a1
		return syscallTerminate, a1

	default:
		vm.hooks.warning(fmt.Sprintf("unsupported ecall code %d", a0))
		return syscallContinue, 0
	}
}
