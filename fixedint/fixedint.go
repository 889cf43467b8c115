// Package fixedint implements the fixed-width signed and unsigned integer
// wrappers used throughout the assembler and encoder for immediate operands
// (5, 6, 8, 11, 12 and 20-bit fields). Each value is stored as a 64-bit
// two's-complement word; construction masks the input to the field width
// and, for signed fields, sign-extends from the top bit of the field.
package fixedint

import "fmt"

// Signed is an intN<K> value: a K-bit two's-complement integer held in a
// sign-extended 64-bit word.
type Signed struct {
	width uint
	value int64
}

// Unsigned is a uintN<K> value: a K-bit zero-extended integer held in a
// 64-bit word.
type Unsigned struct {
	width uint
	value uint64
}

// NewSigned masks v to width bits then sign-extends from bit width-1.
func NewSigned(width uint, v int64) Signed {
	if width == 0 || width > 63 {
		panic(fmt.Sprintf("fixedint: invalid signed width %d", width))
	}
	mask := uint64(1)<<width - 1
	bits := uint64(v) & mask
	signBit := uint64(1) << (width - 1)
	if bits&signBit != 0 {
		bits |= ^mask
	}
	return Signed{width: width, value: int64(bits)}
}

// Width returns the field width in bits.
func (s Signed) Width() uint { return s.width }

// Min returns the minimum representable value, -2^(width-1).
func (s Signed) Min() int64 { return -(int64(1) << (s.width - 1)) }

// Max returns the maximum representable value, 2^(width-1)-1.
func (s Signed) Max() int64 { return int64(1)<<(s.width-1) - 1 }

// SignedInRange reports whether v fits in [Min(width), Max(width)].
func SignedInRange(width uint, v int64) bool {
	lo := -(int64(1) << (width - 1))
	hi := int64(1)<<(width-1) - 1
	return v >= lo && v <= hi
}

// SExt64 returns the sign-extended 64-bit signed view.
func (s Signed) SExt64() int64 { return s.value }

// ZExt64 returns the zero-extended 64-bit unsigned view (low `width` bits).
func (s Signed) ZExt64() uint64 {
	mask := uint64(1)<<s.width - 1
	return uint64(s.value) & mask
}

// Trunc32 returns the low 32 bits of the sign-extended value.
func (s Signed) Trunc32() int32 { return int32(s.value) }

func (s Signed) String() string { return fmt.Sprintf("i%d(%d)", s.width, s.value) }

// NewUnsigned masks v to width bits; no sign extension.
func NewUnsigned(width uint, v uint64) Unsigned {
	if width == 0 || width > 64 {
		panic(fmt.Sprintf("fixedint: invalid unsigned width %d", width))
	}
	var mask uint64
	if width == 64 {
		mask = ^uint64(0)
	} else {
		mask = uint64(1)<<width - 1
	}
	return Unsigned{width: width, value: v & mask}
}

// Width returns the field width in bits.
func (u Unsigned) Width() uint { return u.width }

// Min is always 0.
func (u Unsigned) Min() uint64 { return 0 }

// Max returns 2^width - 1.
func (u Unsigned) Max() uint64 {
	if u.width == 64 {
		return ^uint64(0)
	}
	return uint64(1)<<u.width - 1
}

// UnsignedInRange reports whether v fits in [0, 2^width-1].
func UnsignedInRange(width uint, v uint64) bool {
	if width >= 64 {
		return true
	}
	return v <= uint64(1)<<width-1
}

// ZExt64 returns the zero-extended 64-bit view.
func (u Unsigned) ZExt64() uint64 { return u.value }

// Trunc32 returns the low 32 bits.
func (u Unsigned) Trunc32() uint32 { return uint32(u.value) }

func (u Unsigned) String() string { return fmt.Sprintf("u%d(%d)", u.width, u.value) }

// Supported field widths, named per spec.md's intN<K>/uintN<K> kinds.
const (
	Width5  = 5
	Width6  = 6
	Width8  = 8
	Width11 = 11
	Width12 = 12
	Width20 = 20
)
