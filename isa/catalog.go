package isa

import "strings"

// Prototype describes one catalog entry: a mnemonic, up to three argument
// kinds (KindNone padding out unused slots), and the stable id that
// identifies it regardless of mnemonic case.
type Prototype struct {
	Mnemonic string
	Args     [3]ArgKind
	ID       int32
}

// InvalidProtoID marks an unresolved/invalid instruction.
const InvalidProtoID int32 = -1

// Stable-id ranges, one contiguous block per extension, pairwise disjoint.
const (
	idBaseI = 0   // [0, 52)  - 52 entries
	idBaseM = 100 // [100,113) - 13 entries
	idBaseC = 200 // [200,235) - 35 entries
)

func proto(id int32, mnemonic string, a0, a1, a2 ArgKind) Prototype {
	return Prototype{Mnemonic: mnemonic, Args: [3]ArgKind{a0, a1, a2}, ID: id}
}

// baseCatalog lists all 52+13+35 = 100 supported mnemonics. Order within a
// block is cosmetic; IDs are what programs depend on.
var baseCatalog = buildCatalog()

func buildCatalog() []Prototype {
	N, R, RP := KindNone, KindIntReg, KindIntRegP
	I12, I11, I20, U20 := KindImm12, KindImm11, KindImm20, KindUImm20
	_ = I11

	list := []Prototype{
		// --- RV64I base (52 entries, including nop) ---
		proto(idBaseI+0, "add", R, R, R),
		proto(idBaseI+1, "sub", R, R, R),
		proto(idBaseI+2, "sll", R, R, R),
		proto(idBaseI+3, "slt", R, R, R),
		proto(idBaseI+4, "sltu", R, R, R),
		proto(idBaseI+5, "xor", R, R, R),
		proto(idBaseI+6, "srl", R, R, R),
		proto(idBaseI+7, "sra", R, R, R),
		proto(idBaseI+8, "or", R, R, R),
		proto(idBaseI+9, "and", R, R, R),

		proto(idBaseI+10, "addw", R, R, R),
		proto(idBaseI+11, "subw", R, R, R),
		proto(idBaseI+12, "sllw", R, R, R),
		proto(idBaseI+13, "srlw", R, R, R),
		proto(idBaseI+14, "sraw", R, R, R),

		proto(idBaseI+15, "addi", R, R, I12),
		proto(idBaseI+16, "slti", R, R, I12),
		proto(idBaseI+17, "sltiu", R, R, I12),
		proto(idBaseI+18, "xori", R, R, I12),
		proto(idBaseI+19, "ori", R, R, I12),
		proto(idBaseI+20, "andi", R, R, I12),

		proto(idBaseI+21, "slli", R, R, KindUImm6),
		proto(idBaseI+22, "srli", R, R, KindUImm6),
		proto(idBaseI+23, "srai", R, R, KindUImm6),

		proto(idBaseI+24, "addiw", R, R, I12),
		proto(idBaseI+25, "slliw", R, R, KindUImm5),
		proto(idBaseI+26, "srliw", R, R, KindUImm5),
		proto(idBaseI+27, "sraiw", R, R, KindUImm5),

		proto(idBaseI+28, "lb", R, I12, R),
		proto(idBaseI+29, "lh", R, I12, R),
		proto(idBaseI+30, "lw", R, I12, R),
		proto(idBaseI+31, "ld", R, I12, R),
		proto(idBaseI+32, "lbu", R, I12, R),
		proto(idBaseI+33, "lhu", R, I12, R),
		proto(idBaseI+34, "lwu", R, I12, R),

		// Store text syntax is "sX rs2, offset(rs1)": token order is
		// rs2, then the offset immediate, then rs1 inside parens -
		// mirroring the load signature's (rd, imm, rs1) shape.
		proto(idBaseI+35, "sb", R, I12, R),
		proto(idBaseI+36, "sh", R, I12, R),
		proto(idBaseI+37, "sw", R, I12, R),
		proto(idBaseI+38, "sd", R, I12, R),

		proto(idBaseI+39, "beq", R, R, I12),
		proto(idBaseI+40, "bne", R, R, I12),
		proto(idBaseI+41, "blt", R, R, I12),
		proto(idBaseI+42, "bge", R, R, I12),
		proto(idBaseI+43, "bltu", R, R, I12),
		proto(idBaseI+44, "bgeu", R, R, I12),

		proto(idBaseI+45, "lui", R, U20, N),
		proto(idBaseI+46, "auipc", R, U20, N),

		// jal's stored operand is the byte offset / 2 (spec.md §4.3), whose
		// range matches the real 21-bit-signed-byte-offset J-type field;
		// a 20-bit signed kind covers that scaled range.
		proto(idBaseI+47, "jal", R, I20, N),
		proto(idBaseI+48, "jalr", R, R, I12),

		proto(idBaseI+49, "ecall", N, N, N),
		proto(idBaseI+50, "ebreak", N, N, N),

		proto(idBaseI+51, "nop", N, N, N),

		// --- RV64M (13 entries) ---
		proto(idBaseM+0, "mul", R, R, R),
		proto(idBaseM+1, "mulh", R, R, R),
		proto(idBaseM+2, "mulhsu", R, R, R),
		proto(idBaseM+3, "mulhu", R, R, R),
		proto(idBaseM+4, "div", R, R, R),
		proto(idBaseM+5, "divu", R, R, R),
		proto(idBaseM+6, "rem", R, R, R),
		proto(idBaseM+7, "remu", R, R, R),
		proto(idBaseM+8, "mulw", R, R, R),
		proto(idBaseM+9, "divw", R, R, R),
		proto(idBaseM+10, "divuw", R, R, R),
		proto(idBaseM+11, "remw", R, R, R),
		proto(idBaseM+12, "remuw", R, R, R),

		// --- RV64C (35 entries, including c.nop) ---
		proto(idBaseC+0, "c.addi4spn", RP, KindUImm8, N),
		// CL/CS text syntax "c.lw rd', offset(rs1')" / "c.sw rs2', offset(rs1')":
		// token order is (reg, offset, base-reg), matching the base lw/sw shape.
		proto(idBaseC+1, "c.lw", RP, KindUImm5, RP),
		proto(idBaseC+2, "c.ld", RP, KindUImm5, RP),
		proto(idBaseC+3, "c.sw", RP, KindUImm5, RP),
		proto(idBaseC+4, "c.sd", RP, KindUImm5, RP),

		proto(idBaseC+5, "c.nop", N, N, N),
		proto(idBaseC+6, "c.addi", R, KindImm6, N),
		proto(idBaseC+7, "c.addiw", R, KindImm6, N),
		proto(idBaseC+8, "c.li", R, KindImm6, N),
		proto(idBaseC+9, "c.addi16sp", KindImm6, N, N),
		proto(idBaseC+10, "c.lui", R, KindImm6, N),
		proto(idBaseC+11, "c.srli", RP, KindUImm6, N),
		proto(idBaseC+12, "c.srai", RP, KindUImm6, N),
		proto(idBaseC+13, "c.andi", RP, KindImm6, N),
		proto(idBaseC+14, "c.sub", RP, RP, N),
		proto(idBaseC+15, "c.xor", RP, RP, N),
		proto(idBaseC+16, "c.or", RP, RP, N),
		proto(idBaseC+17, "c.and", RP, RP, N),
		proto(idBaseC+18, "c.subw", RP, RP, N),
		proto(idBaseC+19, "c.addw", RP, RP, N),
		proto(idBaseC+20, "c.j", KindImm11, N, N),
		proto(idBaseC+21, "c.beqz", RP, KindImm8, N),
		proto(idBaseC+22, "c.bnez", RP, KindImm8, N),

		proto(idBaseC+23, "c.slli", R, KindUImm6, N),
		proto(idBaseC+24, "c.lwsp", R, KindUImm8, N),
		proto(idBaseC+25, "c.ldsp", R, KindUImm8, N),
		proto(idBaseC+26, "c.jr", R, N, N),
		proto(idBaseC+27, "c.mv", R, R, N),
		proto(idBaseC+28, "c.ebreak", N, N, N),
		proto(idBaseC+29, "c.jalr", R, N, N),
		proto(idBaseC+30, "c.add", R, R, N),
		proto(idBaseC+31, "c.swsp", R, KindUImm8, N),
		proto(idBaseC+32, "c.sdsp", R, KindUImm8, N),

		// Two diagnostic/pseudo entries that round out the 35-entry block:
		// c.unimp is the conventional all-zero-bits illegal compressed word
		// (no operands); c.ret is the standard assembler alias for
		// `c.jr ra`, recorded as its own catalog entry the way `nop`
		// records its own entry for `addi x0, x0, 0`.
		proto(idBaseC+33, "c.unimp", N, N, N),
		proto(idBaseC+34, "c.ret", N, N, N),
	}
	return list
}

var (
	byMnemonic = func() map[string]Prototype {
		m := make(map[string]Prototype, len(baseCatalog))
		for _, p := range baseCatalog {
			m[strings.ToLower(p.Mnemonic)] = p
		}
		return m
	}()
	byID = func() map[int32]Prototype {
		m := make(map[int32]Prototype, len(baseCatalog))
		for _, p := range baseCatalog {
			m[p.ID] = p
		}
		return m
	}()
)

// invalidPrototype is returned by lookups that find nothing.
var invalidPrototype = Prototype{Mnemonic: "", Args: [3]ArgKind{KindNone, KindNone, KindNone}, ID: InvalidProtoID}

// LookupMnemonic finds a prototype by mnemonic, case-insensitively. Returns
// the invalid sentinel on a miss.
func LookupMnemonic(mnemonic string) Prototype {
	if p, ok := byMnemonic[strings.ToLower(mnemonic)]; ok {
		return p
	}
	return invalidPrototype
}

// LookupID finds a prototype by its stable id. Returns the invalid sentinel
// on a miss.
func LookupID(id int32) Prototype {
	if p, ok := byID[id]; ok {
		return p
	}
	return invalidPrototype
}

// IsCompressed reports whether a mnemonic names a compressed (2-byte)
// instruction, i.e. starts with "c.".
func IsCompressed(mnemonic string) bool {
	return strings.HasPrefix(strings.ToLower(mnemonic), "c.")
}

// CatalogSize returns the total entry count, split by extension. Exercised
// by tests asserting the exact 52/13/35 split from spec.md.
func CatalogSize() (base, mext, cext int) {
	for _, p := range baseCatalog {
		switch {
		case p.ID >= idBaseI && p.ID < idBaseM:
			base++
		case p.ID >= idBaseM && p.ID < idBaseC:
			mext++
		default:
			cext++
		}
	}
	return
}
