package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv64imc/sim/fixedint"
	"github.com/rv64imc/sim/isa"
)

// pcRelative is the set of mnemonics whose resolved symbol argument is
// encoded as a (target - next_pc)/2 offset rather than an absolute
// address (spec.md §4.3).
var pcRelative = map[string]bool{
	"beq": true, "bne": true, "blt": true, "bltu": true, "bge": true, "bgeu": true,
	"jal": true, "c.j": true, "c.beqz": true, "c.bnez": true,
}

type rawKind int

const (
	rawNumeric rawKind = iota
	rawText
	rawSymbol
)

type rawArg struct {
	kind    rawKind
	numeric int64
	text    string
	offset  int64
}

// InstructionBuilder stages construction of one instruction: a mnemonic
// plus up to three arguments, validated and typed by Build.
type InstructionBuilder struct {
	mnemonic string
	args     []rawArg
}

// NewInstructionBuilder creates an empty builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{}
}

// SetMnemonic normalizes and records the mnemonic.
func (b *InstructionBuilder) SetMnemonic(s string) {
	b.mnemonic = strings.ToLower(s)
}

// Mnemonic returns the normalized mnemonic.
func (b *InstructionBuilder) Mnemonic() string { return b.mnemonic }

// AddArg tries to parse s as a numeric immediate (decimal, 0x…, 0b…); on
// success the numeric value is stored, otherwise the raw string (register
// name or unresolved symbol) is stored. Additions beyond three arguments
// are silently ignored.
func (b *InstructionBuilder) AddArg(s string) {
	if len(b.args) >= 3 {
		return
	}
	if v, ok := parseNumericLiteral(s); ok {
		b.args = append(b.args, rawArg{kind: rawNumeric, numeric: v})
		return
	}
	b.args = append(b.args, rawArg{kind: rawText, text: s})
}

// AddImm appends a numeric argument directly.
func (b *InstructionBuilder) AddImm(v int64) {
	if len(b.args) >= 3 {
		return
	}
	b.args = append(b.args, rawArg{kind: rawNumeric, numeric: v})
}

// AddSymbol appends an unresolved symbol reference with an explicit byte
// offset, to be replaced in place by ResolveSymbols.
func (b *InstructionBuilder) AddSymbol(name string, offset int64) {
	if len(b.args) >= 3 {
		return
	}
	b.args = append(b.args, rawArg{kind: rawSymbol, text: name, offset: offset})
}

// ArgCount reports how many arguments have been staged.
func (b *InstructionBuilder) ArgCount() int { return len(b.args) }

// instrSizeFor returns 2 for compressed mnemonics, 4 otherwise.
func instrSizeFor(mnemonic string) uint64 {
	if strings.HasPrefix(mnemonic, "c.") {
		return 2
	}
	return 4
}

// ResolveSymbols replaces every unresolved symbol argument in place. For
// PC-relative branches/jumps the stored value becomes
// (symbol_address - (current_pc + instr_size)) / 2; for everything else
// (jalr, data-label references) it becomes the absolute address.
func (b *InstructionBuilder) ResolveSymbols(symtab *SymbolTable, currentPC uint64) error {
	instrSize := instrSizeFor(b.mnemonic)
	relative := pcRelative[b.mnemonic]

	for i := range b.args {
		arg := &b.args[i]

		var name string
		var offset int64
		switch {
		case arg.kind == rawSymbol:
			name, offset = arg.text, arg.offset
		case arg.kind == rawText && !isa.NewRegister(arg.text).Valid():
			name, offset = arg.text, 0
		default:
			continue
		}

		sym, ok := symtab.Lookup(name)
		if !ok {
			return fmt.Errorf("unresolved symbol: %q", name)
		}
		target := int64(sym.Address) + offset

		var value int64
		if relative {
			value = (target - int64(currentPC+instrSize)) / 2
		} else {
			value = target
		}
		arg.kind = rawNumeric
		arg.numeric = value
	}
	return nil
}

// Build looks up the prototype for the staged mnemonic and produces a
// validated isa.Instruction, or an error describing the first validation
// failure.
func (b *InstructionBuilder) Build() (isa.Instruction, *BuildError) {
	proto := isa.LookupMnemonic(b.mnemonic)
	if proto.ID == isa.InvalidProtoID {
		return isa.InvalidInstruction, NewBuildError(ErrorUnknownMnemonic, 0, fmt.Sprintf("unknown mnemonic %q", b.mnemonic))
	}

	required := 0
	for _, k := range proto.Args {
		if k != isa.KindNone {
			required++
		}
	}
	if len(b.args) < required {
		return isa.InvalidInstruction, NewBuildError(ErrorMissingArgument, 0,
			fmt.Sprintf("%s requires %d argument(s), got %d", b.mnemonic, required, len(b.args)))
	}

	var out [3]isa.InstArg
	for i := 0; i < 3; i++ {
		kind := proto.Args[i]
		if kind == isa.KindNone {
			out[i] = isa.ArgNone()
			continue
		}
		raw := b.args[i]

		switch kind {
		case isa.KindIntReg, isa.KindIntRegP:
			if raw.kind != rawText {
				return isa.InvalidInstruction, NewBuildError(ErrorInvalidRegister, 0,
					fmt.Sprintf("%s: argument %d must be a register", b.mnemonic, i+1))
			}
			reg := isa.NewRegister(raw.text)
			if !reg.Valid() {
				return isa.InvalidInstruction, NewBuildError(ErrorInvalidRegister, 0,
					fmt.Sprintf("%s: %q is not a valid register", b.mnemonic, raw.text))
			}
			if kind == isa.KindIntRegP && !reg.InCompressedRange() {
				return isa.InvalidInstruction, NewBuildError(ErrorRegisterNotCompressed, 0,
					fmt.Sprintf("%s: register %s is not in the compressed range x8-x15", b.mnemonic, reg))
			}
			out[i] = isa.ArgReg(reg)

		default:
			val, ok := resolveNumeric(raw)
			if !ok {
				return isa.InvalidInstruction, NewBuildError(ErrorImmediateOutOfRange, 0,
					fmt.Sprintf("%s: argument %d is not a resolved numeric value", b.mnemonic, i+1))
			}
			width := kind.Width()
			if kind.Signed() {
				if !fixedint.SignedInRange(width, val) {
					return isa.InvalidInstruction, NewBuildError(ErrorImmediateOutOfRange, 0,
						fmt.Sprintf("%s: immediate %d out of range for %d-bit signed field", b.mnemonic, val, width))
				}
				out[i] = isa.ArgSigned(fixedint.NewSigned(width, val))
			} else {
				if val < 0 || !fixedint.UnsignedInRange(width, uint64(val)) {
					return isa.InvalidInstruction, NewBuildError(ErrorImmediateOutOfRange, 0,
						fmt.Sprintf("%s: immediate %d out of range for %d-bit unsigned field", b.mnemonic, val, width))
				}
				out[i] = isa.ArgUnsigned(fixedint.NewUnsigned(width, uint64(val)))
			}
		}
	}

	return isa.Instruction{ProtoID: proto.ID, Args: out}, nil
}

func resolveNumeric(raw rawArg) (int64, bool) {
	if raw.kind == rawNumeric {
		return raw.numeric, true
	}
	if raw.kind == rawText {
		if v, ok := parseNumericLiteral(raw.text); ok {
			return v, true
		}
	}
	return 0, false
}

// parseNumericLiteral parses decimal, 0x-hex and 0b-binary integers with an
// optional leading sign, as used by the lexer's Number token and by
// InstructionBuilder.AddArg.
func parseNumericLiteral(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	body := s
	if body[0] == '+' || body[0] == '-' {
		neg = body[0] == '-'
		body = body[1:]
	}
	var v int64
	var err error
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		u, e := strconv.ParseUint(body[2:], 16, 64)
		v, err = int64(u), e
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		u, e := strconv.ParseUint(body[2:], 2, 64)
		v, err = int64(u), e
	default:
		v, err = strconv.ParseInt(body, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
