package vm

import "github.com/rv64imc/sim/isa"

// execRType dispatches the register-register arithmetic/logic instructions
// (base-I's 64-bit and 32-bit "w" forms).
func (vm *VM) execRType(mnemonic string, a [3]isa.InstArg) {
	rd := a[0].Register().Index
	rs1 := vm.cpu.Reg(a[1].Register().Index)
	rs2 := vm.cpu.Reg(a[2].Register().Index)

	switch mnemonic {
	case "add":
		vm.cpu.SetReg(rd, rs1+rs2)
	case "sub":
		vm.cpu.SetReg(rd, rs1-rs2)
	case "sll":
		vm.cpu.SetReg(rd, rs1<<(rs2&0x3f))
	case "slt":
		vm.cpu.SetReg(rd, boolToWord(int64(rs1) < int64(rs2)))
	case "sltu":
		vm.cpu.SetReg(rd, boolToWord(rs1 < rs2))
	case "xor":
		vm.cpu.SetReg(rd, rs1^rs2)
	case "srl":
		vm.cpu.SetReg(rd, rs1>>(rs2&0x3f))
	case "sra":
		vm.cpu.SetReg(rd, uint64(int64(rs1)>>(rs2&0x3f)))
	case "or":
		vm.cpu.SetReg(rd, rs1|rs2)
	case "and":
		vm.cpu.SetReg(rd, rs1&rs2)

	case "addw":
		vm.cpu.SetRegSigned(rd, int64(int32(rs1)+int32(rs2)))
	case "subw":
		vm.cpu.SetRegSigned(rd, int64(int32(rs1)-int32(rs2)))
	case "sllw":
		vm.cpu.SetRegSigned(rd, int64(int32(uint32(rs1)<<(rs2&0x1f))))
	case "srlw":
		vm.cpu.SetRegSigned(rd, int64(int32(uint32(rs1)>>(rs2&0x1f))))
	case "sraw":
		vm.cpu.SetRegSigned(rd, int64(int32(rs1)>>(rs2&0x1f)))
	}
}

// execIType dispatches the register-immediate arithmetic/logic
// instructions, including the shift-by-constant forms.
func (vm *VM) execIType(mnemonic string, a [3]isa.InstArg) {
	rd := a[0].Register().Index
	rs1 := vm.cpu.Reg(a[1].Register().Index)
	imm := a[2].AsInt64()

	switch mnemonic {
	case "addi":
		vm.cpu.SetReg(rd, uint64(int64(rs1)+imm))
	case "slti":
		vm.cpu.SetReg(rd, boolToWord(int64(rs1) < imm))
	case "sltiu":
		vm.cpu.SetReg(rd, boolToWord(rs1 < uint64(imm)))
	case "xori":
		vm.cpu.SetReg(rd, rs1^uint64(imm))
	case "ori":
		vm.cpu.SetReg(rd, rs1|uint64(imm))
	case "andi":
		vm.cpu.SetReg(rd, rs1&uint64(imm))

	case "slli":
		vm.cpu.SetReg(rd, rs1<<(uint(imm)&0x3f))
	case "srli":
		vm.cpu.SetReg(rd, rs1>>(uint(imm)&0x3f))
	case "srai":
		vm.cpu.SetReg(rd, uint64(int64(rs1)>>(uint(imm)&0x3f)))

	case "addiw":
		vm.cpu.SetRegSigned(rd, int64(int32(rs1)+int32(imm)))
	case "slliw":
		vm.cpu.SetRegSigned(rd, int64(int32(uint32(rs1)<<(uint(imm)&0x1f))))
	case "srliw":
		vm.cpu.SetRegSigned(rd, int64(int32(uint32(rs1)>>(uint(imm)&0x1f))))
	case "sraiw":
		vm.cpu.SetRegSigned(rd, int64(int32(rs1)>>(uint(imm)&0x1f)))

	case "lui":
		// lui/auipc carry their U20 immediate in the second argument.
		upper := int64(int32(uint32(a[1].AsInt64()) << 12))
		vm.cpu.SetRegSigned(rd, upper)
	case "auipc":
		upper := int64(int32(uint32(a[1].AsInt64()) << 12))
		instPC := vm.cpu.PC() - 4
		vm.cpu.SetReg(rd, uint64(int64(instPC)+upper))
	}
}

func boolToWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
