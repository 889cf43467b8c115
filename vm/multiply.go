package vm

import (
	"math/bits"

	"github.com/rv64imc/sim/isa"
)

// execMulDiv dispatches the 13 RV64M instructions.
func (vm *VM) execMulDiv(mnemonic string, a [3]isa.InstArg) {
	rd := a[0].Register().Index
	rs1 := vm.cpu.Reg(a[1].Register().Index)
	rs2 := vm.cpu.Reg(a[2].Register().Index)

	switch mnemonic {
	case "mul":
		vm.cpu.SetReg(rd, rs1*rs2)
	case "mulh":
		vm.cpu.SetRegSigned(rd, mulhSigned(int64(rs1), int64(rs2)))
	case "mulhsu":
		vm.cpu.SetRegSigned(rd, mulhSignedUnsigned(int64(rs1), rs2))
	case "mulhu":
		hi, _ := bits.Mul64(rs1, rs2)
		vm.cpu.SetReg(rd, hi)

	case "div":
		vm.cpu.SetRegSigned(rd, divSigned(int64(rs1), int64(rs2)))
	case "divu":
		vm.cpu.SetReg(rd, divUnsigned(rs1, rs2))
	case "rem":
		vm.cpu.SetRegSigned(rd, remSigned(int64(rs1), int64(rs2)))
	case "remu":
		vm.cpu.SetReg(rd, remUnsigned(rs1, rs2))

	case "mulw":
		vm.cpu.SetRegSigned(rd, int64(int32(rs1)*int32(rs2)))
	case "divw":
		vm.cpu.SetRegSigned(rd, int64(divSigned32(int32(rs1), int32(rs2))))
	case "divuw":
		vm.cpu.SetRegSigned(rd, int64(int32(divUnsigned32(uint32(rs1), uint32(rs2)))))
	case "remw":
		vm.cpu.SetRegSigned(rd, int64(remSigned32(int32(rs1), int32(rs2))))
	case "remuw":
		vm.cpu.SetRegSigned(rd, int64(int32(remUnsigned32(uint32(rs1), uint32(rs2)))))
	}
}

// mulhSigned returns the high 64 bits of the signed 128-bit product a*b,
// derived from the unsigned high product via the standard two's-complement
// correction (equivalent to the manual 32x32 partial-product technique the
// reference implementation uses where no native 128-bit type is available).
func mulhSigned(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	hi -= uint64(a>>63) & uint64(b)
	hi -= uint64(b>>63) & uint64(a)
	return int64(hi)
}

// mulhSignedUnsigned returns the high 64 bits of the signed*unsigned 128-bit
// product a*b.
func mulhSignedUnsigned(a int64, b uint64) int64 {
	hi, _ := bits.Mul64(uint64(a), b)
	hi -= uint64(a>>63) & b
	return int64(hi)
}

// divSigned implements div's RISC-V edge cases: division by zero yields -1;
// INT64_MIN / -1 yields the dividend unchanged (the mathematical result
// overflows).
func divSigned(a, b int64) int64 {
	if b == 0 {
		return -1
	}
	if a == minInt64 && b == -1 {
		return a
	}
	return a / b
}

// remSigned implements rem's RISC-V edge cases: remainder by zero yields the
// dividend; INT64_MIN rem -1 yields 0.
func remSigned(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if a == minInt64 && b == -1 {
		return 0
	}
	return a % b
}

// divUnsigned implements divu's edge case: division by zero yields
// UINT64_MAX.
func divUnsigned(a, b uint64) uint64 {
	if b == 0 {
		return ^uint64(0)
	}
	return a / b
}

// remUnsigned implements remu's edge case: remainder by zero yields the
// dividend.
func remUnsigned(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

const minInt64 = -1 << 63
const minInt32 = -1 << 31

func divSigned32(a, b int32) int32 {
	if b == 0 {
		return -1
	}
	if a == minInt32 && b == -1 {
		return a
	}
	return a / b
}

func remSigned32(a, b int32) int32 {
	if b == 0 {
		return a
	}
	if a == minInt32 && b == -1 {
		return 0
	}
	return a % b
}

func divUnsigned32(a, b uint32) uint32 {
	if b == 0 {
		return ^uint32(0)
	}
	return a / b
}

func remUnsigned32(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return a % b
}
