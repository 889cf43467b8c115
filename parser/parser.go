package parser

import (
	"fmt"
	"strings"

	"github.com/rv64imc/sim/isa"
)

// PaddingLine marks a ParsedEntry that exists only to keep index*2 equal to
// byte offset after a 4-byte instruction (spec.md §4.4 step 5).
const PaddingLine = -1

// ParsedEntry is one slot of a fully resolved program: either a real
// instruction tagged with its source line, or a padding slot (Line ==
// PaddingLine, Inst == isa.InvalidInstruction).
type ParsedEntry struct {
	Inst isa.Instruction
	Line int
}

// ParsedInstVec is the dense, index-addressable resolved program: entry i
// sits at byte offset i*2 within the instruction stream.
type ParsedInstVec []ParsedEntry

// pendingEntry is one first-pass slot: a staged builder (for a real
// instruction) or a padding marker (builder == nil).
type pendingEntry struct {
	builder *InstructionBuilder
	line    int
	pc      uint64
}

// ParsingResult is the output of the first pass: every staged instruction
// builder (plus padding markers) in source order, the symbol table built
// along the way, and the first error encountered, if any.
type ParsingResult struct {
	Unresolved []pendingEntry
	Symbols    *SymbolTable
	Err        *BuildError
}

// Parse runs the lexer over source and drives the builder over the token
// stream (spec.md §4.4 steps 1-5): labels are recorded in the symbol table
// at the current byte offset, instructions are staged into builders with
// their operands pushed in token order, and a padding slot follows every
// 4-byte instruction so that element index*2 always equals byte offset.
func Parse(source string) *ParsingResult {
	symtab := NewSymbolTable()
	result := &ParsingResult{Symbols: symtab}

	var pc uint64
	for lineNo, toks := range TokenizeSource(source) {
		line := lineNo + 1
		if len(toks) == 0 {
			continue
		}

		i := 0
		for i < len(toks) && toks[i].Kind == TokLabel {
			if err := symtab.Define(toks[i].Literal, pc); err != nil {
				if result.Err == nil {
					result.Err = NewBuildError(ErrorDuplicateLabel, line,
						fmt.Sprintf("label %q already defined", toks[i].Literal))
				}
			}
			i++
		}
		if i >= len(toks) || toks[i].Kind == TokComment {
			continue
		}
		if toks[i].Kind == TokDirective {
			// Directives carry no instruction-stream semantics here; skip the line.
			continue
		}
		if toks[i].Kind != TokInstruction {
			if result.Err == nil {
				result.Err = NewBuildError(ErrorSyntax, line, fmt.Sprintf("expected instruction, got %q", toks[i].Literal))
			}
			continue
		}

		b := NewInstructionBuilder()
		mnemonic := toks[i].Literal
		if strings.ToLower(mnemonic) == "fence" {
			// fence carries no memory-ordering model in a single-hart
			// simulator with no atomics; alias it to nop at the token level
			// so it never needs its own catalog entry.
			b.SetMnemonic("nop")
			for i < len(toks) && toks[i].Kind != TokComment {
				i++
			}
			result.Unresolved = append(result.Unresolved, pendingEntry{builder: b, line: line, pc: pc})
			pc += instrSizeFor(b.Mnemonic())
			result.Unresolved = append(result.Unresolved, pendingEntry{builder: nil, line: line, pc: pc - 2})
			continue
		}
		b.SetMnemonic(mnemonic)
		i++

		relative := pcRelative[b.Mnemonic()]
		for i < len(toks) {
			tok := toks[i]
			switch tok.Kind {
			case TokComma, TokLeftParen, TokRightParen:
				i++
				continue
			case TokComment:
				i = len(toks)
				continue
			case TokNumber:
				v, _ := parseNumericLiteral(tok.Literal)
				if relative && b.ArgCount() == len(isa.LookupMnemonic(b.Mnemonic()).Args)-1 {
					// Last operand of a PC-relative branch/jump: a literal
					// operand is a byte offset, stored as offset/2 to match
					// what resolve_symbols would compute for a label.
					b.AddImm(v / 2)
				} else {
					b.AddImm(v)
				}
			case TokIdentifier:
				if isa.NewRegister(tok.Literal).Valid() {
					b.AddArg(tok.Literal)
				} else {
					b.AddSymbol(tok.Literal, 0)
				}
			default:
				if result.Err == nil {
					result.Err = NewBuildError(ErrorSyntax, line, fmt.Sprintf("unexpected token %q", tok.Literal))
				}
			}
			i++
		}

		size := instrSizeFor(b.Mnemonic())
		result.Unresolved = append(result.Unresolved, pendingEntry{builder: b, line: line, pc: pc})
		pc += size
		if size == 4 {
			result.Unresolved = append(result.Unresolved, pendingEntry{builder: nil, line: line, pc: pc - 2})
		}
	}

	return result
}

// Resolve runs the second pass: every staged builder's symbols are resolved
// against the parse-time symbol table (shifted by dataOffset, the address
// the instruction stream will be loaded at) and built into a typed
// isa.Instruction. Returns the first error encountered, if any.
func (r *ParsingResult) Resolve(dataOffset uint64) (ParsedInstVec, *BuildError) {
	if r.Err != nil {
		return nil, r.Err
	}

	shifted := NewSymbolTable()
	for _, sym := range r.Symbols.All() {
		_ = shifted.Define(sym.Name, sym.Address+dataOffset)
	}

	vec := make(ParsedInstVec, 0, len(r.Unresolved))
	for _, entry := range r.Unresolved {
		if entry.builder == nil {
			vec = append(vec, ParsedEntry{Inst: isa.InvalidInstruction, Line: PaddingLine})
			continue
		}
		if err := entry.builder.ResolveSymbols(shifted, dataOffset+entry.pc); err != nil {
			return nil, NewBuildError(ErrorUnresolvedSymbol, entry.line, err.Error())
		}
		inst, buildErr := entry.builder.Build()
		if buildErr != nil {
			buildErr.Line = entry.line
			return nil, buildErr
		}
		vec = append(vec, ParsedEntry{Inst: inst, Line: entry.line})
	}
	return vec, nil
}

// ParseAndResolve runs both passes and reports a single return code: 0 on
// full success, 1 on parse/lex errors, 2 on symbol-resolution errors, 3 on
// builder validation errors (spec.md §4.4).
func ParseAndResolve(source string, dataOffset uint64) (ParsedInstVec, int, *BuildError) {
	result := Parse(source)
	if result.Err != nil {
		return nil, 1, result.Err
	}
	vec, err := result.Resolve(dataOffset)
	if err != nil {
		switch err.Kind {
		case ErrorUnresolvedSymbol, ErrorDuplicateLabel:
			return nil, 2, err
		default:
			return nil, 3, err
		}
	}
	return vec, 0, nil
}
