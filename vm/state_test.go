package vm

import (
	"testing"

	"github.com/rv64imc/sim/parser"
)

func assemble(t *testing.T, src string, dataBase uint64) parser.ParsedInstVec {
	t.Helper()
	vec, code, err := parser.ParseAndResolve(src, dataBase)
	if code != 0 || err != nil {
		t.Fatalf("ParseAndResolve: code=%d err=%v", code, err)
	}
	return vec
}

func newLoadedVM(t *testing.T, src string) *VM {
	t.Helper()
	layout := DefaultLayout()
	instructions := assemble(t, src, layout.DataBase)
	machine := NewVM(Config{Layout: layout, SpPos: SpStackTop}, Hooks{})
	if err := machine.LoadProgram(instructions); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	return machine
}

func TestNewVMDefaultsLayout(t *testing.T) {
	machine := NewVM(Config{}, Hooks{})
	if machine.GetMemoryLayout().DataBase != DefaultLayout().DataBase {
		t.Fatalf("zero Config should fall back to DefaultLayout, got base 0x%x", machine.GetMemoryLayout().DataBase)
	}
	if machine.GetState() != Initializing {
		t.Fatalf("expected Initializing before LoadProgram, got %s", machine.GetState())
	}
}

func TestLoadProgramSetsPCAndSp(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\n")
	if machine.GetState() != Loaded {
		t.Fatalf("expected Loaded, got %s", machine.GetState())
	}
	if machine.PC() != machine.GetMemoryLayout().DataBase {
		t.Fatalf("expected PC at data base, got 0x%x", machine.PC())
	}
	layout := machine.GetMemoryLayout()
	if got, want := machine.Reg(2), layout.StackBase+layout.StackSize; got != want {
		t.Fatalf("expected sp=0x%x (stack top), got 0x%x", want, got)
	}
}

func TestInitialSpVariants(t *testing.T) {
	layout := DefaultLayout()
	instructions := assemble(t, "nop\n", layout.DataBase)

	zero := NewVM(Config{Layout: layout, SpPos: SpZero}, Hooks{})
	if err := zero.LoadProgram(instructions); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if zero.Reg(2) != 0 {
		t.Fatalf("SpZero: expected sp=0, got 0x%x", zero.Reg(2))
	}

	bottom := NewVM(Config{Layout: layout, SpPos: SpStackBottom}, Hooks{})
	if err := bottom.LoadProgram(instructions); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if bottom.Reg(2) != layout.StackBase {
		t.Fatalf("SpStackBottom: expected sp=0x%x, got 0x%x", layout.StackBase, bottom.Reg(2))
	}
}

func TestRunStepAdvancesPCAndExecutes(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,10\naddi x2,x1,5\n")
	base := machine.GetMemoryLayout().DataBase

	machine.RunStep()
	if machine.PC() != base+4 {
		t.Fatalf("expected PC=0x%x after one step, got 0x%x", base+4, machine.PC())
	}
	if machine.Reg(1) != 10 {
		t.Fatalf("expected x1=10, got %d", machine.Reg(1))
	}
	if machine.GetState() != Running {
		t.Fatalf("expected Running after a step with more instructions left, got %s", machine.GetState())
	}

	machine.RunStep()
	if machine.Reg(2) != 15 {
		t.Fatalf("expected x2=15, got %d", machine.Reg(2))
	}
}

func TestRunStepFinishesAtEndOfProgram(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\n")
	machine.RunStep()
	if machine.GetState() != Running {
		t.Fatalf("expected Running, got %s", machine.GetState())
	}
	machine.RunStep()
	if machine.GetState() != Finished {
		t.Fatalf("expected Finished once PC runs off the end, got %s", machine.GetState())
	}
}

func TestRunStepStopsAtEbreak(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\nebreak\naddi x1,x0,2\n")
	machine.RunStep()
	machine.RunStep()
	if machine.GetState() != Breakpoint {
		t.Fatalf("expected Breakpoint at ebreak, got %s", machine.GetState())
	}
	if machine.Reg(1) != 1 {
		t.Fatalf("ebreak should not execute, x1 should remain 1, got %d", machine.Reg(1))
	}
}

func TestRunUntilStopRunsToCompletion(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\naddi x1,x1,1\naddi x1,x1,1\n")
	machine.RunUntilStop()
	if machine.GetState() != Finished {
		t.Fatalf("expected Finished, got %s", machine.GetState())
	}
	if machine.Reg(1) != 3 {
		t.Fatalf("expected x1=3, got %d", machine.Reg(1))
	}
}

func TestRunUntilStopHonorsSourceLineBreakpoint(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\naddi x1,x1,1\naddi x1,x1,1\n")
	machine.ToggleBreakpoint(2)
	machine.RunUntilStop()
	if machine.GetState() != Breakpoint {
		t.Fatalf("expected Breakpoint at line 2, got %s", machine.GetState())
	}
	if machine.Reg(1) != 1 {
		t.Fatalf("expected x1=1 at the breakpoint (line 2 not yet executed), got %d", machine.Reg(1))
	}
	if !machine.HasBreakpoint(2) {
		t.Fatal("expected HasBreakpoint(2) to report true")
	}
	machine.ClearBreakpoints()
	if machine.HasBreakpoint(2) {
		t.Fatal("ClearBreakpoints should remove every breakpoint")
	}
}

func TestRequestStopHaltsRunUntilStop(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\naddi x1,x1,1\naddi x1,x1,1\n")
	machine.RequestStop()
	machine.RunUntilStop()
	if machine.Reg(1) != 0 {
		t.Fatalf("RequestStop before any run should prevent execution, got x1=%d", machine.Reg(1))
	}
}

func TestTerminateSetsExitCode(t *testing.T) {
	machine := newLoadedVM(t, "addi x10,x0,17\naddi x11,x0,7\necall\n")
	machine.RunUntilStop()
	if machine.GetState() != Finished {
		t.Fatalf("expected Finished after ecall 17, got %s", machine.GetState())
	}
	if machine.ExitCode() != 7 {
		t.Fatalf("expected exit code 7, got %d", machine.ExitCode())
	}
}

func TestResetRestoresLoadedState(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,9\n")
	machine.RunUntilStop()
	if machine.Reg(1) != 9 {
		t.Fatalf("expected x1=9 before reset, got %d", machine.Reg(1))
	}
	machine.ToggleBreakpoint(1)

	machine.Reset()
	if machine.GetState() != Loaded {
		t.Fatalf("expected Loaded after Reset, got %s", machine.GetState())
	}
	if machine.Reg(1) != 0 {
		t.Fatalf("expected registers cleared after Reset, got x1=%d", machine.Reg(1))
	}
	if machine.PC() != machine.GetMemoryLayout().DataBase {
		t.Fatalf("expected PC reset to data base, got 0x%x", machine.PC())
	}
	if machine.ExitCode() != 0 {
		t.Fatalf("expected exit code cleared, got %d", machine.ExitCode())
	}
}

func TestErrorStopEntersErrorState(t *testing.T) {
	machine := newLoadedVM(t, "addi x1,x0,1\n")
	var gotErr string
	machine.hooks.Error = func(s string) { gotErr = s }
	machine.ErrorStop(errTest("boom"))
	if machine.GetState() != Error {
		t.Fatalf("expected Error state, got %s", machine.GetState())
	}
	if gotErr != "boom" {
		t.Fatalf("expected Error hook invoked with message, got %q", gotErr)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestSetRegDropsWritesToX0(t *testing.T) {
	machine := newLoadedVM(t, "nop\n")
	machine.SetReg(0, 123)
	if machine.Reg(0) != 0 {
		t.Fatalf("x0 must remain hardwired to zero, got %d", machine.Reg(0))
	}
}
