package isa

import "github.com/rv64imc/sim/fixedint"

// ArgKind names the shape of one instruction-prototype argument slot.
type ArgKind int

const (
	KindNone ArgKind = iota
	KindIntReg
	KindIntRegP // register constrained to the compressed range x8..x15
	KindImm5
	KindImm6
	KindImm8
	KindImm11
	KindImm12
	KindImm20
	KindUImm5
	KindUImm6
	KindUImm8
	KindUImm12
	KindUImm20
)

// Width returns the immediate field width in bits for immediate kinds, and
// 0 for KindNone/KindIntReg/KindIntRegP.
func (k ArgKind) Width() uint {
	switch k {
	case KindImm5, KindUImm5:
		return fixedint.Width5
	case KindImm6, KindUImm6:
		return fixedint.Width6
	case KindImm8, KindUImm8:
		return fixedint.Width8
	case KindImm11:
		return fixedint.Width11
	case KindImm12, KindUImm12:
		return fixedint.Width12
	case KindImm20, KindUImm20:
		return fixedint.Width20
	default:
		return 0
	}
}

// Signed reports whether the kind is one of the signed immediate kinds.
func (k ArgKind) Signed() bool {
	switch k {
	case KindImm5, KindImm6, KindImm8, KindImm11, KindImm12, KindImm20:
		return true
	default:
		return false
	}
}

// argValueKind discriminates the value actually stored in an InstArg.
type argValueKind int

const (
	valEmpty argValueKind = iota
	valRegister
	valSigned
	valUnsigned
)

// InstArg is the tagged variant that holds exactly one of: nothing, a
// register, a signed fixed-width immediate, or an unsigned fixed-width
// immediate.
type InstArg struct {
	kind     argValueKind
	reg      Register
	signed   fixedint.Signed
	unsigned fixedint.Unsigned
}

// ArgNone constructs the empty argument.
func ArgNone() InstArg { return InstArg{kind: valEmpty} }

// ArgReg constructs a register argument.
func ArgReg(r Register) InstArg { return InstArg{kind: valRegister, reg: r} }

// ArgSigned constructs a signed fixed-width immediate argument.
func ArgSigned(s fixedint.Signed) InstArg { return InstArg{kind: valSigned, signed: s} }

// ArgUnsigned constructs an unsigned fixed-width immediate argument.
func ArgUnsigned(u fixedint.Unsigned) InstArg { return InstArg{kind: valUnsigned, unsigned: u} }

// IsEmpty reports whether this argument carries no value.
func (a InstArg) IsEmpty() bool { return a.kind == valEmpty }

// IsRegister reports whether this argument holds a register.
func (a InstArg) IsRegister() bool { return a.kind == valRegister }

// Register returns the held register; caller must check IsRegister first.
func (a InstArg) Register() Register { return a.reg }

// IsSigned reports whether this argument holds a signed immediate.
func (a InstArg) IsSigned() bool { return a.kind == valSigned }

// Signed returns the held signed immediate; caller must check IsSigned first.
func (a InstArg) Signed() fixedint.Signed { return a.signed }

// IsUnsigned reports whether this argument holds an unsigned immediate.
func (a InstArg) IsUnsigned() bool { return a.kind == valUnsigned }

// Unsigned returns the held unsigned immediate; caller must check IsUnsigned first.
func (a InstArg) Unsigned() fixedint.Unsigned { return a.unsigned }

// AsInt64 returns a 64-bit signed view of either immediate kind, 0 for
// register/empty arguments. Used by the interpreter to read an immediate
// regardless of its declared signedness.
func (a InstArg) AsInt64() int64 {
	switch a.kind {
	case valSigned:
		return a.signed.SExt64()
	case valUnsigned:
		return int64(a.unsigned.ZExt64())
	default:
		return 0
	}
}
