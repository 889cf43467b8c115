package vm

import "github.com/rv64imc/sim/isa"

// execBranch dispatches a taken/not-taken conditional branch. The stored
// immediate is the byte offset divided by 2 between the label and the
// instruction following the branch (parser/builder.go's ResolveSymbols);
// a taken branch lands on next_pc + 2*imm, where next_pc is the PC value
// already advanced past this instruction by RunStep.
func (vm *VM) execBranch(mnemonic string, a [3]isa.InstArg) {
	rs1 := vm.cpu.Reg(a[0].Register().Index)
	rs2 := vm.cpu.Reg(a[1].Register().Index)
	imm := a[2].AsInt64()

	var taken bool
	switch mnemonic {
	case "beq":
		taken = rs1 == rs2
	case "bne":
		taken = rs1 != rs2
	case "blt":
		taken = int64(rs1) < int64(rs2)
	case "bge":
		taken = int64(rs1) >= int64(rs2)
	case "bltu":
		taken = rs1 < rs2
	case "bgeu":
		taken = rs1 >= rs2
	}
	if taken {
		vm.cpu.MovePC(2 * imm)
	}
}

// execJal executes jal: rd receives the return address (the already
// advanced PC, i.e. the address of the next instruction), then PC jumps to
// next_pc + 2*imm.
func (vm *VM) execJal(a [3]isa.InstArg) {
	rd := a[0].Register().Index
	imm := a[1].AsInt64()
	link := vm.cpu.PC()
	vm.cpu.SetReg(rd, link)
	vm.cpu.SetPC(link + uint64(2*imm))
}

// execJalr executes jalr: target = (rs1 + imm) with the low bit cleared;
// the immediate here is a plain byte offset, not symbol-relative, so it is
// never divided by 2 (parser/builder.go's pcRelative set excludes jalr).
func (vm *VM) execJalr(a [3]isa.InstArg) {
	rd := a[0].Register().Index
	rs1 := vm.cpu.RegS(a[1].Register().Index)
	imm := a[2].AsInt64()
	link := vm.cpu.PC()
	target := uint64(rs1 + imm)
	vm.cpu.SetReg(rd, link)
	vm.cpu.SetPC(target)
}
