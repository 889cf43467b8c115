package fixedint

import "testing"

func TestSignedSignExtension(t *testing.T) {
	cases := []struct {
		width uint
		in    int64
		want  int64
	}{
		{Width5, 15, 15},
		{Width5, -16, -16},
		{Width5, 16, -16},  // masked then sign-extended
		{Width12, 2047, 2047},
		{Width12, -2048, -2048},
		{Width12, 2048, -2048},
		{Width20, 0x7FFFF, 0x7FFFF},
		{Width20, -1, -1},
	}
	for _, c := range cases {
		got := NewSigned(c.width, c.in).SExt64()
		if got != c.want {
			t.Errorf("NewSigned(%d, %d).SExt64() = %d, want %d", c.width, c.in, got, c.want)
		}
	}
}

func TestSignedMinMax(t *testing.T) {
	s := NewSigned(Width12, 0)
	if s.Min() != -2048 || s.Max() != 2047 {
		t.Fatalf("i12 min/max = %d/%d, want -2048/2047", s.Min(), s.Max())
	}
}

func TestSignedInRange(t *testing.T) {
	if !SignedInRange(Width6, 31) || SignedInRange(Width6, 32) {
		t.Fatalf("i6 range check wrong")
	}
	if !SignedInRange(Width6, -32) || SignedInRange(Width6, -33) {
		t.Fatalf("i6 negative range check wrong")
	}
}

func TestUnsignedZeroExtension(t *testing.T) {
	u := NewUnsigned(Width5, 0xFF)
	if u.ZExt64() != 0x1F {
		t.Fatalf("u5 masking wrong: got %d", u.ZExt64())
	}
	if u.Min() != 0 || u.Max() != 31 {
		t.Fatalf("u5 min/max wrong: %d/%d", u.Min(), u.Max())
	}
}

func TestUnsignedInRange(t *testing.T) {
	if !UnsignedInRange(Width12, 4095) || UnsignedInRange(Width12, 4096) {
		t.Fatalf("u12 range check wrong")
	}
}

func TestSignedInvariant(t *testing.T) {
	// sign_extend(intN<K>.value) == intN<K>.value when read back as i64.
	for _, v := range []int64{0, 1, -1, 5, -5, 2047, -2048} {
		s := NewSigned(Width12, v)
		if s.SExt64() != NewSigned(Width12, s.SExt64()).SExt64() {
			t.Fatalf("sign-extend not idempotent for %d", v)
		}
	}
}
