package isa

import "testing"

func TestCatalogSizes(t *testing.T) {
	base, mext, cext := CatalogSize()
	if base != 52 {
		t.Errorf("base I-set entries = %d, want 52", base)
	}
	if mext != 13 {
		t.Errorf("M-extension entries = %d, want 13", mext)
	}
	if cext != 35 {
		t.Errorf("C-extension entries = %d, want 35", cext)
	}
}

func TestLookupMnemonicCaseInsensitive(t *testing.T) {
	a := LookupMnemonic("ADD")
	b := LookupMnemonic("add")
	if a.ID != b.ID || a.ID == InvalidProtoID {
		t.Fatalf("case-insensitive lookup mismatch: %+v vs %+v", a, b)
	}
}

func TestLookupUnknownReturnsInvalid(t *testing.T) {
	p := LookupMnemonic("frobnicate")
	if p.ID != InvalidProtoID {
		t.Fatalf("expected invalid sentinel, got %+v", p)
	}
	p2 := LookupID(999999)
	if p2.ID != InvalidProtoID {
		t.Fatalf("expected invalid sentinel by id, got %+v", p2)
	}
}

func TestIDRangesDisjointAndContiguous(t *testing.T) {
	seen := map[int32]bool{}
	for _, p := range baseCatalog {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
	base, mext, cext := CatalogSize()
	blocks := []struct{ start, n int32 }{
		{idBaseI, int32(base)}, {idBaseM, int32(mext)}, {idBaseC, int32(cext)},
	}
	for _, b := range blocks {
		for id := b.start; id < b.start+b.n; id++ {
			if !seen[id] {
				t.Fatalf("id %d missing: block starting at %d is not contiguous", id, b.start)
			}
		}
	}
}

func TestCompressedMnemonicDetection(t *testing.T) {
	if !IsCompressed("c.addi") || IsCompressed("addi") {
		t.Fatalf("IsCompressed misclassified")
	}
}

func TestInstructionSize(t *testing.T) {
	add := LookupMnemonic("add")
	in := Instruction{ProtoID: add.ID}
	if in.Size() != 4 {
		t.Fatalf("add size = %d, want 4", in.Size())
	}
	cadd := LookupMnemonic("c.add")
	cin := Instruction{ProtoID: cadd.ID}
	if cin.Size() != 2 {
		t.Fatalf("c.add size = %d, want 2", cin.Size())
	}
	if !InvalidInstruction.IsInvalid() {
		t.Fatalf("InvalidInstruction should report IsInvalid")
	}
}
