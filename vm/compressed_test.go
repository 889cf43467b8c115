package vm

import "testing"

func TestCompressedLiAndAdd(t *testing.T) {
	machine := runTo(t, "c.li x5,10\nc.addi x5,5\nc.mv x6,x5\n", 3)
	if machine.Reg(5) != 15 {
		t.Fatalf("c.li/c.addi: expected x5=15, got %d", machine.Reg(5))
	}
	if machine.Reg(6) != 15 {
		t.Fatalf("c.mv: expected x6=15, got %d", machine.Reg(6))
	}
}

func TestCompressedAndSizeIsTwoBytes(t *testing.T) {
	machine := newLoadedVM(t, "c.li x5,1\naddi x6,x0,2\n")
	base := machine.PC()
	machine.RunStep()
	if machine.PC() != base+2 {
		t.Fatalf("c.li is a 2-byte instruction, expected pc=0x%x, got 0x%x", base+2, machine.PC())
	}
}

func TestCompressedStackPointerLoadStore(t *testing.T) {
	// sp starts at the very top of the stack region, so make room below it
	// before using sp-relative addressing (c.swsp/c.lwsp immediates are
	// unsigned, always added to sp).
	machine := runTo(t, "addi x2,x2,-32\nc.li x5,31\nc.swsp x5,16\nc.lwsp x6,16\n", 4)
	if machine.Reg(6) != 31 {
		t.Fatalf("expected c.swsp/c.lwsp round-trip of 31, got %d", machine.Reg(6))
	}
}

func TestCompressedSubPrimeRegisters(t *testing.T) {
	machine := runTo(t, "c.li x8,20\nc.li x9,6\nc.sub x8,x9\n", 3)
	if machine.Reg(8) != 14 {
		t.Fatalf("c.sub: expected x8=14, got %d", machine.Reg(8))
	}
}

func TestCompressedBranchTaken(t *testing.T) {
	src := "c.li x8,0\nc.beqz x8,skip\nc.li x9,31\nskip:\nc.li x10,1\n"
	machine := newLoadedVM(t, src)
	for i := 0; i < 3; i++ {
		machine.RunStep()
	}
	if machine.Reg(9) != 0 {
		t.Fatalf("c.beqz taken should skip the c.li x9 instruction, got x9=%d", machine.Reg(9))
	}
	if machine.Reg(10) != 1 {
		t.Fatalf("expected to land on skip, got x10=%d", machine.Reg(10))
	}
}

func TestCompressedJump(t *testing.T) {
	src := "c.j target\nc.li x9,31\ntarget:\nc.li x10,1\n"
	machine := newLoadedVM(t, src)
	machine.RunStep()
	machine.RunStep()
	if machine.Reg(9) != 0 {
		t.Fatalf("c.j should skip over the c.li x9 instruction, got x9=%d", machine.Reg(9))
	}
	if machine.Reg(10) != 1 {
		t.Fatalf("expected to land on target, got x10=%d", machine.Reg(10))
	}
}

func TestCompressedJrReturnsFromJal(t *testing.T) {
	src := "c.j setup\ncallee:\nc.li x10,7\nc.jr x1\nsetup:\naddi x1,x0,0\njal x1,callee\nc.li x11,1\n"
	machine := newLoadedVM(t, src)
	for i := 0; i < 6; i++ {
		machine.RunStep()
		if machine.GetState() == Error {
			t.Fatalf("step %d entered Error: pc=0x%x", i, machine.PC())
		}
	}
	if machine.Reg(10) != 7 {
		t.Fatalf("expected callee to set x10=7, got %d", machine.Reg(10))
	}
	if machine.Reg(11) != 1 {
		t.Fatalf("expected c.jr to return past the call site, got x11=%d", machine.Reg(11))
	}
}

func TestCompressedNopDoesNotAdvanceState(t *testing.T) {
	machine := newLoadedVM(t, "c.nop\naddi x1,x0,1\n")
	machine.RunStep()
	if machine.Reg(1) != 0 {
		t.Fatalf("c.nop should not touch any register, got x1=%d", machine.Reg(1))
	}
	machine.RunStep()
	if machine.Reg(1) != 1 {
		t.Fatalf("expected the instruction after c.nop to run, got x1=%d", machine.Reg(1))
	}
}

func TestCompressedEbreakStopsExecution(t *testing.T) {
	machine := newLoadedVM(t, "c.li x5,1\nc.ebreak\nc.li x5,2\n")
	machine.RunStep()
	machine.RunStep()
	if machine.GetState() != Breakpoint {
		t.Fatalf("expected Breakpoint at c.ebreak, got %s", machine.GetState())
	}
	if machine.Reg(5) != 1 {
		t.Fatalf("c.ebreak must not execute past itself, expected x5=1, got %d", machine.Reg(5))
	}
}
