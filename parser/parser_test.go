package parser

import (
	"testing"

	"github.com/rv64imc/sim/isa"
)

func TestParseAndResolveSimpleProgram(t *testing.T) {
	src := "addi x1,x0,10\naddi x2,x0,20\nadd x3,x1,x2\n"
	vec, code, err := ParseAndResolve(src, 0x10000)
	if code != 0 || err != nil {
		t.Fatalf("ParseAndResolve: code=%d err=%v", code, err)
	}
	// Each 4-byte instruction occupies two slots (itself + a padding slot)
	// so that element index*2 always equals byte offset: 3 instructions -> 6 entries.
	if len(vec) != 6 {
		t.Fatalf("expected 6 entries (3 instructions + 3 padding slots), got %d", len(vec))
	}
	for idx, e := range vec {
		if idx%2 == 1 {
			if e.Line != PaddingLine || !e.Inst.IsInvalid() {
				t.Fatalf("expected entry %d to be padding, got %+v", idx, e)
			}
			continue
		}
		if isa.LookupID(e.Inst.ProtoID).ID == isa.InvalidProtoID {
			t.Fatalf("entry %d built invalid instruction", idx)
		}
	}
}

func TestParseBranchLabelResolution(t *testing.T) {
	src := "addi x1,x0,5\naddi x2,x0,5\nbeq x1,x2,skip\naddi x3,x0,1\nskip:\naddi x4,x0,2\n"
	vec, code, err := ParseAndResolve(src, 0)
	if code != 0 || err != nil {
		t.Fatalf("ParseAndResolve: code=%d err=%v", code, err)
	}
	// Instructions (all 4-byte) sit at even indices; odd indices are padding:
	// addi(0) pad(1) addi(2) pad(3) beq(4) pad(5) addi(6) pad(7) addi(8) pad(9).
	beq := vec[4].Inst
	proto := isa.LookupID(beq.ProtoID)
	if proto.Mnemonic != "beq" {
		t.Fatalf("expected beq at index 4, got %s", proto.Mnemonic)
	}
	// skip: label sits right after the "addi x3,x0,1" instruction, at byte
	// offset 16 (4 instructions * 4 bytes); beq itself is at offset 8, so
	// the resolved branch offset is (16 - (8 + 4)) / 2 = 2.
	got := beq.Args[2].AsInt64()
	if got != 2 {
		t.Fatalf("expected resolved branch offset 2, got %d", got)
	}
}

func TestParseDuplicateLabelIsFirstAuthoritative(t *testing.T) {
	src := "foo:\naddi x1,x0,1\nfoo:\naddi x2,x0,2\n"
	result := Parse(src)
	if result.Err == nil {
		t.Fatalf("expected duplicate-label error")
	}
	if result.Err.Kind != ErrorDuplicateLabel {
		t.Fatalf("expected ErrorDuplicateLabel, got %v", result.Err.Kind)
	}
	sym, ok := result.Symbols.Lookup("foo")
	if !ok || sym.Address != 0 {
		t.Fatalf("expected first definition (address 0) to remain authoritative, got %+v ok=%v", sym, ok)
	}
}

func TestParseUnknownMnemonicFailsAtBuild(t *testing.T) {
	src := "frobnicate x1,x2\n"
	_, code, err := ParseAndResolve(src, 0)
	if code != 3 {
		t.Fatalf("expected builder-validation return code 3, got %d", code)
	}
	if err == nil || err.Kind != ErrorUnknownMnemonic {
		t.Fatalf("expected ErrorUnknownMnemonic, got %v", err)
	}
}

func TestParseUnresolvedSymbolFails(t *testing.T) {
	src := "jal x1,nowhere\n"
	_, code, err := ParseAndResolve(src, 0)
	if code != 2 {
		t.Fatalf("expected symbol-resolution return code 2, got %d", code)
	}
	if err == nil || err.Kind != ErrorUnresolvedSymbol {
		t.Fatalf("expected ErrorUnresolvedSymbol, got %v", err)
	}
}

func TestParsePaddingKeepsIndexTimesTwoEqualOffset(t *testing.T) {
	// c.nop (2 bytes) followed by add (4 bytes): entries should be
	// [c.nop, add, padding] so that index*2 tracks byte offset.
	src := "c.nop\nadd x1,x1,x1\n"
	vec, code, err := ParseAndResolve(src, 0)
	if code != 0 || err != nil {
		t.Fatalf("ParseAndResolve: code=%d err=%v", code, err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 entries (c.nop, add, padding), got %d", len(vec))
	}
	if vec[2].Line != PaddingLine || !vec[2].Inst.IsInvalid() {
		t.Fatalf("expected final entry to be padding, got %+v", vec[2])
	}
}

func TestParseFenceAliasesToNop(t *testing.T) {
	src := "fence\n"
	vec, code, err := ParseAndResolve(src, 0)
	if code != 0 || err != nil {
		t.Fatalf("ParseAndResolve: code=%d err=%v", code, err)
	}
	if len(vec) != 2 {
		t.Fatalf("expected 2 entries (nop + padding), got %d", len(vec))
	}
	if isa.LookupID(vec[0].Inst.ProtoID).Mnemonic != "nop" {
		t.Fatalf("expected fence to alias to nop, got %s", isa.LookupID(vec[0].Inst.ProtoID).Mnemonic)
	}
}

func TestParseImmediateOutOfRange(t *testing.T) {
	src := "addi x1,x0,4096\n"
	_, code, err := ParseAndResolve(src, 0)
	if code != 3 || err == nil || err.Kind != ErrorImmediateOutOfRange {
		t.Fatalf("expected out-of-range code 3, got code=%d err=%v", code, err)
	}
}

func TestParseNonCompressedRegisterRejected(t *testing.T) {
	// c.add requires non-prime registers; c.lw requires the compressed
	// range x8-x15. x16 is out of that range.
	src := "c.lw x8,0(x16)\n"
	_, code, err := ParseAndResolve(src, 0)
	if code != 3 || err == nil || err.Kind != ErrorRegisterNotCompressed {
		t.Fatalf("expected register-not-compressed code 3, got code=%d err=%v", code, err)
	}
}
