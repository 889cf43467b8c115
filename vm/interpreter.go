package vm

import (
	"fmt"

	"github.com/rv64imc/sim/isa"
)

var rTypeMnemonics = map[string]bool{
	"add": true, "sub": true, "sll": true, "slt": true, "sltu": true,
	"xor": true, "srl": true, "sra": true, "or": true, "and": true,
	"addw": true, "subw": true, "sllw": true, "srlw": true, "sraw": true,
}

var iTypeMnemonics = map[string]bool{
	"addi": true, "slti": true, "sltiu": true, "xori": true, "ori": true, "andi": true,
	"slli": true, "srli": true, "srai": true,
	"addiw": true, "slliw": true, "srliw": true, "sraiw": true,
	"lui": true, "auipc": true,
}

var branchMnemonics = map[string]bool{
	"beq": true, "bne": true, "blt": true, "bge": true, "bltu": true, "bgeu": true,
}

var loadMnemonics = map[string]bool{
	"lb": true, "lh": true, "lw": true, "ld": true, "lbu": true, "lhu": true, "lwu": true,
}

var storeMnemonics = map[string]bool{
	"sb": true, "sh": true, "sw": true, "sd": true,
}

var mulDivMnemonics = map[string]bool{
	"mul": true, "mulh": true, "mulhsu": true, "mulhu": true,
	"div": true, "divu": true, "rem": true, "remu": true,
	"mulw": true, "divw": true, "divuw": true, "remw": true, "remuw": true,
}

// exec executes one already-fetched, non-ebreak instruction. PC has already
// been advanced past it by RunStep; branch/jump handlers move PC again from
// that already-advanced value.
func (vm *VM) exec(inst isa.Instruction) error {
	m := inst.Mnemonic()
	a := inst.Args

	switch {
	case m == "nop" || m == "c.nop":
		return nil
	case m == "ecall":
		outcome, code := vm.ecall()
		if outcome == syscallTerminate {
			vm.Terminate(code)
		}
		return nil

	case rTypeMnemonics[m]:
		vm.execRType(m, a)
		return nil
	case iTypeMnemonics[m]:
		vm.execIType(m, a)
		return nil
	case branchMnemonics[m]:
		vm.execBranch(m, a)
		return nil
	case m == "jal":
		vm.execJal(a)
		return nil
	case m == "jalr":
		vm.execJalr(a)
		return nil
	case loadMnemonics[m]:
		return vm.execLoad(m, a)
	case storeMnemonics[m]:
		return vm.execStore(m, a)
	case mulDivMnemonics[m]:
		vm.execMulDiv(m, a)
		return nil
	case isa.IsCompressed(m):
		return vm.execCompressed(m, a)

	default:
		return fmt.Errorf("unimplemented instruction %q", m)
	}
}
