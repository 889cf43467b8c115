package vm

import (
	"fmt"

	"github.com/rv64imc/sim/encoder"
	"github.com/rv64imc/sim/parser"
)

// VMState is the simulator's coarse run state (spec.md §4.9).
type VMState int

const (
	Initializing VMState = iota
	Loaded
	Running
	Stopped
	Error
	Breakpoint
	Finished
)

func (s VMState) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Error:
		return "error"
	case Breakpoint:
		return "breakpoint"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Config gathers the construction-time knobs a VM is built with (spec.md
// §6, Construct(layout, sp_pos, endianness)).
type Config struct {
	Layout Layout
	SpPos  SpPos
}

// VM is the RV64IMC simulator core: CPU + memory + state machine, driven by
// run_step/run_until_stop and observed through Hooks (spec.md §4.9).
type VM struct {
	cpu *Cpu
	mem *Memory

	state       VMState
	config      Config
	hooks       Hooks
	breakpoints map[int]bool
	currentLine int

	exitCode      int64
	stopRequested bool
	programData   []byte
	instructions  parser.ParsedInstVec
}

// NewVM constructs a VM in state Initializing. A zero Config falls back to
// DefaultLayout with SpPos == SpStackTop.
func NewVM(config Config, hooks Hooks) *VM {
	if config == (Config{}) {
		config.SpPos = SpStackTop
	}
	if config.Layout == (Layout{}) {
		config.Layout = DefaultLayout()
	}
	return &VM{
		cpu:         NewCpu(),
		mem:         NewMemory(config.Layout, nil),
		state:       Initializing,
		config:      config,
		hooks:       hooks,
		breakpoints: make(map[int]bool),
	}
}

func (vm *VM) encoderEndian() encoder.Endianness {
	if vm.config.Layout.BigEndian {
		return encoder.BigEndian
	}
	return encoder.LittleEndian
}

// LoadProgram assembles the resolved instruction stream, loads it into
// memory, sets PC to the data base and sp per the configured SpPos, and
// transitions to Loaded (spec.md §4.9).
func (vm *VM) LoadProgram(instructions parser.ParsedInstVec) error {
	if err := ValidateLayout(vm.config.Layout); err != nil {
		return fmt.Errorf("invalid memory layout: %w", err)
	}
	bytecode, err := encoder.Assemble(instructions, vm.encoderEndian())
	if err != nil {
		return fmt.Errorf("assembling program: %w", err)
	}

	vm.programData = bytecode
	vm.mem = NewMemory(vm.config.Layout, nil)
	if err := vm.mem.LoadProgram(instructions, bytecode); err != nil {
		return err
	}
	vm.instructions = instructions

	vm.cpu.Reset()
	vm.cpu.SetPC(vm.config.Layout.DataBase)
	vm.cpu.SetReg(2, vm.initialSp())
	vm.currentLine = firstLine(instructions)
	vm.state = Loaded
	return nil
}

func (vm *VM) initialSp() uint64 {
	switch vm.config.SpPos {
	case SpStackBottom:
		return vm.config.Layout.StackBase
	case SpStackTop:
		return vm.config.Layout.StackBase + vm.config.Layout.StackSize
	default:
		return 0
	}
}

func firstLine(instructions parser.ParsedInstVec) int {
	for _, e := range instructions {
		if e.Line != parser.PaddingLine {
			return e.Line
		}
	}
	return 0
}

// RunStep fetches the instruction at PC, advances PC by its byte size
// exactly once, executes it, and updates the current-line indicator,
// transitioning state per spec.md §4.9.
func (vm *VM) RunStep() {
	if vm.state != Running && vm.state != Loaded && vm.state != Breakpoint {
		return
	}

	fetch, memErr := vm.mem.GetInstructionAt(vm.cpu.PC())
	if memErr == MemErrProgramExit {
		vm.state = Finished
		return
	}
	if memErr != MemErrNone {
		vm.errorStop(fmt.Errorf("fetch at 0x%x: %s", vm.cpu.PC(), memErr))
		return
	}

	inst := fetch.Entry.Inst
	vm.cpu.SetPC(vm.cpu.PC() + uint64(inst.Size()))

	mnemonic := inst.Mnemonic()
	if mnemonic == "ebreak" || mnemonic == "c.ebreak" {
		vm.currentLine = fetch.Entry.Line
		vm.state = Breakpoint
		return
	}

	if err := vm.exec(inst); err != nil {
		vm.errorStop(err)
		return
	}
	if vm.state == Finished || vm.state == Error {
		return
	}

	vm.currentLine = vm.lineAt(vm.cpu.PC())
	if vm.breakpoints[vm.currentLine] {
		vm.state = Breakpoint
		return
	}
	vm.state = Running
}

func (vm *VM) lineAt(pc uint64) int {
	fetch, memErr := vm.mem.GetInstructionAt(pc)
	if memErr != MemErrNone {
		return vm.currentLine
	}
	return fetch.Entry.Line
}

// RunUntilStop calls RunStep until state leaves Running, or a stop is
// requested by an external collaborator (spec.md §5).
func (vm *VM) RunUntilStop() {
	if vm.state == Loaded {
		vm.state = Running
	}
	for vm.state == Running && !vm.stopRequested {
		vm.RunStep()
	}
	vm.stopRequested = false
}

// RequestStop asks a running RunUntilStop loop to stop at the next
// instruction boundary.
func (vm *VM) RequestStop() { vm.stopRequested = true }

// Terminate stops execution with the given exit code (ecall 10/17),
// transitioning to Finished. Does not clobber a state already set to Error
// by a fault the ecall handler hit along the way.
func (vm *VM) Terminate(exitCode int64) {
	vm.exitCode = exitCode
	if vm.state != Error {
		vm.state = Finished
	}
}

func (vm *VM) errorStop(err error) {
	vm.hooks.reportError(err.Error())
	vm.state = Error
}

// ErrorStop is the externally-invocable form of errorStop (spec.md §6's
// error_stop), for collaborators that detect a fault outside run_step.
func (vm *VM) ErrorStop(err error) { vm.errorStop(err) }

// Reset reinitializes memory (preserving layout) and the CPU, and
// re-applies breakpoints (spec.md §4.9).
func (vm *VM) Reset() {
	vm.mem.Reset(vm.programData)
	vm.cpu.Reset()
	vm.cpu.SetPC(vm.config.Layout.DataBase)
	vm.cpu.SetReg(2, vm.initialSp())
	vm.currentLine = firstLine(vm.instructions)
	vm.exitCode = 0
	vm.state = Loaded
}

// ToggleBreakpoint flips the breakpoint state at a source line.
func (vm *VM) ToggleBreakpoint(line int) {
	if vm.breakpoints[line] {
		delete(vm.breakpoints, line)
	} else {
		vm.breakpoints[line] = true
	}
}

// HasBreakpoint reports whether line carries a breakpoint.
func (vm *VM) HasBreakpoint(line int) bool { return vm.breakpoints[line] }

// ClearBreakpoints removes every breakpoint.
func (vm *VM) ClearBreakpoints() { vm.breakpoints = make(map[int]bool) }

// GetState returns the current VMState.
func (vm *VM) GetState() VMState { return vm.state }

// GetCurrentLine returns the source line the VM is currently positioned at.
func (vm *VM) GetCurrentLine() int { return vm.currentLine }

// ExitCode returns the exit code set by Terminate.
func (vm *VM) ExitCode() int64 { return vm.exitCode }

// Reg returns the raw value of register i.
func (vm *VM) Reg(i int) uint64 { return vm.cpu.Reg(i) }

// SetReg sets register i to value (a write to x0 is silently dropped).
func (vm *VM) SetReg(i int, value uint64) { vm.cpu.SetReg(i, value) }

func (vm *VM) PC() uint64 { return vm.cpu.PC() }

// Memory exposes the VM's address space to external collaborators
// (spec.md §6's memory.load/store/sbrk/load_string).
func (vm *VM) Memory() *Memory { return vm.mem }

// GetMemoryLayout returns the VM's configured memory layout.
func (vm *VM) GetMemoryLayout() Layout { return vm.config.Layout }
