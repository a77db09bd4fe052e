package scalar25519

import "testing"

func TestReduceOfZero(t *testing.T) {
	var in [64]byte
	got := Reduce(&in)
	var want [32]byte
	if got != want {
		t.Fatalf("reduce(0) != 0: %x", got)
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	var in [64]byte
	in[0] = 5
	r1 := Reduce(&in)
	var in2 [64]byte
	copy(in2[:32], r1[:])
	r2 := Reduce(&in2)
	if r1 != r2 {
		t.Fatalf("reduce is not idempotent on an already-reduced value")
	}
}

func TestMulAddMatchesAddWhenBIsZero(t *testing.T) {
	var a, b, c [32]byte
	a[0] = 9
	c[0] = 4
	got := MulAdd(&a, &b, &c)
	if got != c {
		t.Fatalf("a*0+c should equal c, got %x want %x", got, c)
	}
}

func TestMulAddMatchesMulWhenCIsZero(t *testing.T) {
	var a, b, c [32]byte
	a[0] = 3
	b[0] = 7
	got := MulAdd(&a, &b, &c)
	want := [32]byte{21}
	if got != want {
		t.Fatalf("3*7+0 should equal 21, got %x", got)
	}
}

func TestIsCanonical(t *testing.T) {
	var zero [32]byte
	if !IsCanonical(&zero) {
		t.Fatalf("0 should be canonical")
	}
	l := lBytes
	if IsCanonical(&l) {
		t.Fatalf("L itself should not be canonical (must be < L)")
	}
	var big [32]byte
	for i := range big {
		big[i] = 0xff
	}
	if IsCanonical(&big) {
		t.Fatalf("2^256-1 should not be canonical")
	}
}

func TestNegRoundTrip(t *testing.T) {
	var a [32]byte
	a[0] = 6
	neg := Neg(&a)
	sum := Add(&a, &neg)
	if !IsZero(&sum) {
		t.Fatalf("a + (-a) != 0")
	}
}
