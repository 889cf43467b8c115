// Package encoder translates a resolved instruction stream into the exact
// RV64IMC byte encoding (spec.md §4.5): one of the eight uncompressed
// formats (R, I, S, B, U, J, Shift, ShiftW) or one of the nine compressed
// formats (CR, CI, CSS, CIW, CL, CS, CA, CB, CJ), little- or big-endian.
package encoder

import (
	"encoding/binary"

	"github.com/rv64imc/sim/isa"
	"github.com/rv64imc/sim/parser"
)

// Endianness selects the byte order words are serialized in.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

// Encoder turns resolved instructions into machine words. It carries no
// mutable state beyond the chosen byte order; symbols are already resolved
// to absolute/PC-relative values by the time instructions reach here.
type Encoder struct {
	endian Endianness
}

// NewEncoder creates an Encoder for the given byte order.
func NewEncoder(endian Endianness) *Encoder {
	return &Encoder{endian: endian}
}

func regIdx(a isa.InstArg) uint32  { return uint32(a.Register().Index) }
func regP(a isa.InstArg) uint32    { return uint32(a.Register().CompressedField()) }
func imm(a isa.InstArg) int64      { return a.AsInt64() }

// EncodeInstruction produces the 2- or 4-byte machine word for one resolved
// instruction. Pseudo-instructions (`nop`, `c.nop`) are expanded to their
// canonical form first, per spec.md §4.5.
func (e *Encoder) EncodeInstruction(inst isa.Instruction, line int) ([]byte, error) {
	proto := isa.LookupID(inst.ProtoID)
	m := proto.Mnemonic
	args := inst.Args

	if isa.IsCompressed(m) {
		word, err := e.encodeCompressed(m, args, line)
		if err != nil {
			return nil, err
		}
		return e.serialize16(word), nil
	}

	word, err := e.encodeBase(m, args, line)
	if err != nil {
		return nil, err
	}
	return e.serialize32(word), nil
}

func (e *Encoder) serialize32(word uint32) []byte {
	b := make([]byte, 4)
	if e.endian == BigEndian {
		binary.BigEndian.PutUint32(b, word)
	} else {
		binary.LittleEndian.PutUint32(b, word)
	}
	return b
}

func (e *Encoder) serialize16(word uint16) []byte {
	b := make([]byte, 2)
	if e.endian == BigEndian {
		binary.BigEndian.PutUint16(b, word)
	} else {
		binary.LittleEndian.PutUint16(b, word)
	}
	return b
}

func (e *Encoder) encodeBase(m string, a [3]isa.InstArg, line int) (uint32, error) {
	switch {
	case m == "nop":
		// Pseudo-instruction expansion: nop -> addi x0, x0, 0.
		return packI(opIType, 0, 0b000, 0, 0), nil

	case m == "ecall":
		return packI(opSystem, 0, 0b000, 0, 0), nil
	case m == "ebreak":
		return packI(opSystem, 0, 0b000, 0, 1), nil

	case m == "lui":
		return packU(opLUI, regIdx(a[0]), imm(a[1])), nil
	case m == "auipc":
		return packU(opAUIPC, regIdx(a[0]), imm(a[1])), nil

	case m == "jal":
		return packJ(opJAL, regIdx(a[0]), imm(a[1])*2), nil
	case m == "jalr":
		f := iTypeTable["jalr"]
		return packI(f.opcode, regIdx(a[0]), f.funct3, regIdx(a[1]), imm(a[2])), nil

	case isLoad(m):
		f := iTypeTable[m]
		return packI(f.opcode, regIdx(a[0]), f.funct3, regIdx(a[2]), imm(a[1])), nil

	case m == "addi" || m == "slti" || m == "sltiu" || m == "xori" || m == "ori" || m == "andi" || m == "addiw":
		f := iTypeTable[m]
		return packI(f.opcode, regIdx(a[0]), f.funct3, regIdx(a[1]), imm(a[2])), nil

	case isStore(m):
		f3 := storeTable[m]
		return packS(opStore, regIdx(a[2]), f3, regIdx(a[0]), imm(a[1])), nil

	case isBranch(m):
		f3 := branchTable[m]
		return packB(opBranch, regIdx(a[0]), f3, regIdx(a[1]), imm(a[2])*2), nil

	case isShift(m):
		f := shiftTable[m]
		return packShift(opIType, regIdx(a[0]), f.funct3, regIdx(a[1]), uint32(imm(a[2])), f.funct6), nil

	case isShiftW(m):
		f := shiftWTable[m]
		return packShiftW(opITypeW, regIdx(a[0]), f.funct3, regIdx(a[1]), uint32(imm(a[2])), f.funct7), nil

	default:
		if f, ok := rTypeTable[m]; ok {
			return packR(f.opcode, regIdx(a[0]), f.funct3, regIdx(a[1]), regIdx(a[2]), f.funct7), nil
		}
		return 0, NewEncodingError(m, line, "no base encoding rule for this mnemonic")
	}
}

func isLoad(m string) bool {
	switch m {
	case "lb", "lh", "lw", "ld", "lbu", "lhu", "lwu":
		return true
	}
	return false
}

func isStore(m string) bool {
	_, ok := storeTable[m]
	return ok
}

func isBranch(m string) bool {
	_, ok := branchTable[m]
	return ok
}

func isShift(m string) bool {
	_, ok := shiftTable[m]
	return ok
}

func isShiftW(m string) bool {
	_, ok := shiftWTable[m]
	return ok
}

func (e *Encoder) encodeCompressed(m string, a [3]isa.InstArg, line int) (uint16, error) {
	switch m {
	case "c.addi4spn":
		f := cQuadrant0Table[m]
		return packCIW(f.quadrant, uint16(regP(a[0])), f.funct3, imm(a[1])), nil

	case "c.lw", "c.ld":
		f := cQuadrant0Table[m]
		return packCL(f.quadrant, uint16(regP(a[0])), uint16(regP(a[2])), f.funct3, imm(a[1])), nil

	case "c.sw", "c.sd":
		f := cQuadrant0Table[m]
		return packCS(f.quadrant, uint16(regP(a[0])), uint16(regP(a[2])), f.funct3, imm(a[1])), nil

	case "c.nop":
		return packCI(cQuadrant1, 0, 0b000, 0), nil

	case "c.addi", "c.addiw", "c.li":
		f := cQuadrant1CITable[m]
		return packCI(f.quadrant, uint16(regIdx(a[0])), f.funct3, imm(a[1])), nil

	case "c.addi16sp":
		f := cQuadrant1CITable[m]
		return packCI(f.quadrant, 2, f.funct3, imm(a[0])), nil

	case "c.lui":
		f := cQuadrant1CITable[m]
		return packCI(f.quadrant, uint16(regIdx(a[0])), f.funct3, imm(a[1])), nil

	case "c.srli", "c.srai":
		return packCBShift(cQuadrant1, uint16(regP(a[0])), funct2ForShift(m), 0b100, imm(a[1])), nil
	case "c.andi":
		return packCBShift(cQuadrant1, uint16(regP(a[0])), 0b10, 0b100, imm(a[1])), nil

	case "c.sub", "c.xor", "c.or", "c.and", "c.subw", "c.addw":
		f := cATable[m]
		return packCA(cQuadrant1, uint16(regP(a[1])), f.funct2, uint16(regP(a[0])), f.funct6), nil

	case "c.j":
		return packCJ(cQuadrant1, 0b101, imm(a[0])*2), nil

	case "c.beqz", "c.bnez":
		funct3 := map[string]uint16{"c.beqz": 0b110, "c.bnez": 0b111}[m]
		return packCBBranch(cQuadrant1, uint16(regP(a[0])), funct3, imm(a[1])*2), nil

	case "c.slli":
		f := cQuadrant2CITable[m]
		return packCI(f.quadrant, uint16(regIdx(a[0])), f.funct3, imm(a[1])), nil
	case "c.lwsp", "c.ldsp":
		f := cQuadrant2CITable[m]
		return packCI(f.quadrant, uint16(regIdx(a[0])), f.funct3, imm(a[1])), nil
	case "c.swsp", "c.sdsp":
		f := cQuadrant2CITable[m]
		return packCSS(f.quadrant, uint16(regIdx(a[0])), f.funct3, imm(a[1])), nil

	case "c.jr":
		return packCR(cQuadrant2, uint16(regIdx(a[0])), 0, 0b1000), nil
	case "c.ret":
		return packCR(cQuadrant2, 1, 0, 0b1000), nil
	case "c.mv":
		return packCR(cQuadrant2, uint16(regIdx(a[0])), uint16(regIdx(a[1])), 0b1000), nil
	case "c.ebreak":
		return packCR(cQuadrant2, 0, 0, 0b1001), nil
	case "c.jalr":
		return packCR(cQuadrant2, uint16(regIdx(a[0])), 0, 0b1001), nil
	case "c.add":
		return packCR(cQuadrant2, uint16(regIdx(a[0])), uint16(regIdx(a[1])), 0b1001), nil

	case "c.unimp":
		return 0x0000, nil

	default:
		return 0, NewEncodingError(m, line, "no compressed encoding rule for this mnemonic")
	}
}

func funct2ForShift(m string) uint16 {
	if m == "c.srai" {
		return 0b01
	}
	return 0b00
}

// Assemble runs every entry of a resolved program through EncodeInstruction
// and concatenates the results, skipping padding entries (spec.md §4.5's
// top-level assemble function).
func Assemble(vec parser.ParsedInstVec, endian Endianness) ([]byte, error) {
	enc := NewEncoder(endian)
	out := make([]byte, 0, len(vec)*2)
	for _, entry := range vec {
		if entry.Inst.IsInvalid() {
			continue
		}
		word, err := enc.EncodeInstruction(entry.Inst, entry.Line)
		if err != nil {
			return nil, err
		}
		out = append(out, word...)
	}
	return out, nil
}
