package types

import "testing"

func TestWidth(t *testing.T) {
	cases := []struct {
		typ  Type
		want int
	}{
		{Int, 1},
		{Char, 1},
		{Void, 1},
		{Double, 2},
	}
	for _, c := range cases {
		if got := c.typ.Width(); got != c.want {
			t.Errorf("%s.Width() = %d, want %d", c.typ, got, c.want)
		}
	}
}

func TestNumeric(t *testing.T) {
	if !Int.Numeric() || !Double.Numeric() || !Char.Numeric() {
		t.Error("int/double/char must be numeric")
	}
	if Void.Numeric() {
		t.Error("void must not be numeric")
	}
}

func TestWidthOf(t *testing.T) {
	got := WidthOf([]Type{Int, Double, Char})
	if got != 4 {
		t.Errorf("WidthOf([int,double,char]) = %d, want 4", got)
	}
	if WidthOf(nil) != 0 {
		t.Error("WidthOf(nil) should be 0")
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct {
		typ  Type
		want string
	}{
		{Int, "int"}, {Double, "double"}, {Char, "char"}, {Void, "void"},
	} {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
