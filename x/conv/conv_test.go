package conv

import "testing"

func TestAppendInt(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-42, "-42"},
		{1023, "1023"},
	}
	for _, c := range cases {
		if got := string(AppendInt(nil, c.n)); got != c.want {
			t.Errorf("AppendInt(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestAppendDeci(t *testing.T) {
	cases := []struct {
		deci int64
		want string
	}{
		{253, "25.3"},
		{-7, "-0.7"},
		{0, "0.0"},
		{400, "40.0"},
		{-105, "-10.5"},
	}
	for _, c := range cases {
		if got := string(AppendDeci(nil, c.deci)); got != c.want {
			t.Errorf("AppendDeci(%d) = %q, want %q", c.deci, got, c.want)
		}
	}
}

func TestDeciRounding(t *testing.T) {
	cases := []struct {
		v    float32
		want int64
	}{
		{25.34, 253},
		{25.35, 254},
		{-0.74, -7},
		{0, 0},
	}
	for _, c := range cases {
		if got := Deci(c.v); got != c.want {
			t.Errorf("Deci(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}
