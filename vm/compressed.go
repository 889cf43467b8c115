package vm

import (
	"fmt"

	"github.com/rv64imc/sim/isa"
)

// execCompressed dispatches the 35 RV64C instructions (less c.nop, handled
// in exec, and c.ebreak, handled directly in RunStep). Stored immediates are the literal
// values the assembler validated against the catalog's field widths: since
// the VM fetches already-resolved isa.Instruction values rather than
// re-decoding raw compressed bit patterns, no hardware bit-scrambling needs
// to be undone here.
func (vm *VM) execCompressed(mnemonic string, a [3]isa.InstArg) error {
	switch mnemonic {
	case "c.addi4spn":
		rd := a[0].Register().Index
		imm := a[1].AsInt64()
		vm.cpu.SetReg(rd, vm.cpu.Reg(2)+uint64(imm))

	case "c.lw", "c.ld", "c.sw", "c.sd":
		return vm.execCompressedMemRP(mnemonic, a)

	case "c.addi":
		rd := a[0].Register().Index
		imm := a[1].AsInt64()
		vm.cpu.SetReg(rd, uint64(int64(vm.cpu.Reg(rd))+imm))
	case "c.addiw":
		rd := a[0].Register().Index
		imm := a[1].AsInt64()
		vm.cpu.SetRegSigned(rd, int64(int32(vm.cpu.Reg(rd))+int32(imm)))
	case "c.li":
		rd := a[0].Register().Index
		vm.cpu.SetRegSigned(rd, a[1].AsInt64())
	case "c.addi16sp":
		imm := a[0].AsInt64()
		vm.cpu.SetReg(2, uint64(int64(vm.cpu.Reg(2))+imm))
	case "c.lui":
		rd := a[0].Register().Index
		imm := a[1].AsInt64()
		vm.cpu.SetRegSigned(rd, imm<<12)

	case "c.srli":
		rd := a[0].Register().Index
		shamt := uint(a[1].AsInt64())
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)>>(shamt&0x3f))
	case "c.srai":
		rd := a[0].Register().Index
		shamt := uint(a[1].AsInt64())
		vm.cpu.SetReg(rd, uint64(vm.cpu.RegS(rd)>>(shamt&0x3f)))
	case "c.andi":
		rd := a[0].Register().Index
		imm := a[1].AsInt64()
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)&uint64(imm))

	case "c.sub":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)-rs2)
	case "c.xor":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)^rs2)
	case "c.or":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)|rs2)
	case "c.and":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)&rs2)
	case "c.subw":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetRegSigned(rd, int64(int32(vm.cpu.Reg(rd))-int32(rs2)))
	case "c.addw":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetRegSigned(rd, int64(int32(vm.cpu.Reg(rd))+int32(rs2)))

	case "c.j":
		imm := a[0].AsInt64()
		vm.cpu.MovePC(2 * imm)
	case "c.beqz":
		rs1 := vm.cpu.Reg(a[0].Register().Index)
		imm := a[1].AsInt64()
		if rs1 == 0 {
			vm.cpu.MovePC(2 * imm)
		}
	case "c.bnez":
		rs1 := vm.cpu.Reg(a[0].Register().Index)
		imm := a[1].AsInt64()
		if rs1 != 0 {
			vm.cpu.MovePC(2 * imm)
		}

	case "c.slli":
		rd := a[0].Register().Index
		shamt := uint(a[1].AsInt64())
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)<<(shamt&0x3f))

	case "c.lwsp", "c.ldsp", "c.swsp", "c.sdsp":
		return vm.execCompressedMemSp(mnemonic, a)

	case "c.jr":
		rs1 := vm.cpu.Reg(a[0].Register().Index)
		vm.cpu.SetPC(rs1)
	case "c.ret":
		vm.cpu.SetPC(vm.cpu.Reg(1))
	case "c.mv":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetReg(rd, rs2)
	case "c.jalr":
		rs1 := vm.cpu.Reg(a[0].Register().Index)
		link := vm.cpu.PC()
		vm.cpu.SetPC(rs1)
		vm.cpu.SetReg(1, link)
	case "c.add":
		rd := a[0].Register().Index
		rs2 := vm.cpu.Reg(a[1].Register().Index)
		vm.cpu.SetReg(rd, vm.cpu.Reg(rd)+rs2)

	case "c.unimp":
		return fmt.Errorf("c.unimp: illegal instruction")
	}
	return nil
}

func (vm *VM) execCompressedMemRP(mnemonic string, a [3]isa.InstArg) error {
	rdrs2 := a[0].Register().Index
	offset := a[1].AsInt64()
	base := vm.cpu.Reg(a[2].Register().Index)
	addr := uint64(int64(base) + offset)

	switch mnemonic {
	case "c.lw":
		v, memErr := vm.mem.Load32(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("c.lw at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetRegSigned(rdrs2, int64(int32(v)))
	case "c.ld":
		v, memErr := vm.mem.Load64(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("c.ld at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetReg(rdrs2, v)
	case "c.sw":
		if memErr := vm.mem.Store32(addr, uint32(vm.cpu.Reg(rdrs2))); memErr != MemErrNone {
			return fmt.Errorf("c.sw at 0x%x: %s", addr, memErr)
		}
	case "c.sd":
		if memErr := vm.mem.Store64(addr, vm.cpu.Reg(rdrs2)); memErr != MemErrNone {
			return fmt.Errorf("c.sd at 0x%x: %s", addr, memErr)
		}
	}
	return nil
}

func (vm *VM) execCompressedMemSp(mnemonic string, a [3]isa.InstArg) error {
	rdrs2 := a[0].Register().Index
	offset := a[1].AsInt64()
	addr := uint64(int64(vm.cpu.Reg(2)) + offset)

	switch mnemonic {
	case "c.lwsp":
		v, memErr := vm.mem.Load32(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("c.lwsp at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetRegSigned(rdrs2, int64(int32(v)))
	case "c.ldsp":
		v, memErr := vm.mem.Load64(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("c.ldsp at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetReg(rdrs2, v)
	case "c.swsp":
		if memErr := vm.mem.Store32(addr, uint32(vm.cpu.Reg(rdrs2))); memErr != MemErrNone {
			return fmt.Errorf("c.swsp at 0x%x: %s", addr, memErr)
		}
	case "c.sdsp":
		if memErr := vm.mem.Store64(addr, vm.cpu.Reg(rdrs2)); memErr != MemErrNone {
			return fmt.Errorf("c.sdsp at 0x%x: %s", addr, memErr)
		}
	}
	return nil
}
