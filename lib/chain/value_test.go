package chain

import "testing"

func TestValueAbsent(t *testing.T) {
	var zero Value
	if !zero.IsAbsent() {
		t.Error("zero Value is not Absent")
	}
	if !Absent.IsAbsent() {
		t.Error("Absent is not absent")
	}
	if Absent.Dim() != 0 {
		t.Errorf("Absent.Dim() = %d, want 0", Absent.Dim())
	}
	if _, ok := Absent.Float(); ok {
		t.Error("Absent.Float() reported ok")
	}
	if Absent.Vec() != nil {
		t.Error("Absent.Vec() is not nil")
	}
	if Vector().IsAbsent() != true {
		t.Error("empty Vector is not Absent")
	}
}

func TestValueScalar(t *testing.T) {
	v := Scalar(3.25)
	if v.IsAbsent() {
		t.Fatal("Scalar is absent")
	}
	if v.Dim() != 1 {
		t.Errorf("Dim = %d, want 1", v.Dim())
	}
	f, ok := v.Float()
	if !ok || f != 3.25 {
		t.Errorf("Float() = %v, %v; want 3.25, true", f, ok)
	}
	if v.String() != "3.25" {
		t.Errorf("String() = %q, want \"3.25\"", v.String())
	}
}

func TestValueVector(t *testing.T) {
	v := Vector(1, 2, 3)
	if v.Dim() != 3 {
		t.Errorf("Dim = %d, want 3", v.Dim())
	}
	if _, ok := v.Float(); ok {
		t.Error("Float() reported ok for a 3-vector")
	}

	// Vec returns a copy
	vec := v.Vec()
	vec[0] = 99
	if !v.Equal(Vector(1, 2, 3)) {
		t.Error("mutating Vec() result changed the value")
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"absent-absent", Absent, Absent, true},
		{"absent-scalar", Absent, Scalar(0), false},
		{"scalar-equal", Scalar(1.5), Scalar(1.5), true},
		{"scalar-diff", Scalar(1.5), Scalar(2.5), false},
		{"vector-equal", Vector(1, 2), Vector(1, 2), true},
		{"vector-dim", Vector(1, 2), Vector(1, 2, 3), false},
		{"scalar-vector", Scalar(1), Vector(1, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
