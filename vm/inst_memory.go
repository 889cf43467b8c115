package vm

import (
	"fmt"

	"github.com/rv64imc/sim/isa"
)

// execLoad dispatches the 7 base-I load instructions. Load syntax is
// "lX rd, offset(rs1)": catalog order is (rd, offset, rs1).
func (vm *VM) execLoad(mnemonic string, a [3]isa.InstArg) error {
	rd := a[0].Register().Index
	offset := a[1].AsInt64()
	rs1 := vm.cpu.Reg(a[2].Register().Index)
	addr := uint64(int64(rs1) + offset)

	switch mnemonic {
	case "lb":
		v, memErr := vm.mem.Load8(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("lb at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetRegSigned(rd, int64(int8(v)))
	case "lbu":
		v, memErr := vm.mem.Load8(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("lbu at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetReg(rd, uint64(v))
	case "lh":
		v, memErr := vm.mem.Load16(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("lh at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetRegSigned(rd, int64(int16(v)))
	case "lhu":
		v, memErr := vm.mem.Load16(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("lhu at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetReg(rd, uint64(v))
	case "lw":
		v, memErr := vm.mem.Load32(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("lw at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetRegSigned(rd, int64(int32(v)))
	case "lwu":
		v, memErr := vm.mem.Load32(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("lwu at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetReg(rd, uint64(v))
	case "ld":
		v, memErr := vm.mem.Load64(addr)
		if memErr != MemErrNone {
			return fmt.Errorf("ld at 0x%x: %s", addr, memErr)
		}
		vm.cpu.SetReg(rd, v)
	}
	return nil
}

// execStore dispatches the 4 base-I store instructions. Store syntax is
// "sX rs2, offset(rs1)": catalog order is (rs2, offset, rs1).
func (vm *VM) execStore(mnemonic string, a [3]isa.InstArg) error {
	rs2 := vm.cpu.Reg(a[0].Register().Index)
	offset := a[1].AsInt64()
	rs1 := vm.cpu.Reg(a[2].Register().Index)
	addr := uint64(int64(rs1) + offset)

	var memErr MemErr
	switch mnemonic {
	case "sb":
		memErr = vm.mem.Store8(addr, uint8(rs2))
	case "sh":
		memErr = vm.mem.Store16(addr, uint16(rs2))
	case "sw":
		memErr = vm.mem.Store32(addr, uint32(rs2))
	case "sd":
		memErr = vm.mem.Store64(addr, rs2)
	}
	if memErr != MemErrNone {
		return fmt.Errorf("%s at 0x%x: %s", mnemonic, addr, memErr)
	}
	return nil
}
