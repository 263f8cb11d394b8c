package util

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0.01", 1},
		{"1", 100},
		{"12.34", 1234},
		{"0.1", 10},
		{" 99.99 ", 9999},
		{"-45.67", -4567},
		{"1000000", 100000000},
	}
	for _, c := range cases {
		got, err := ParseCents(c.in)
		if err != nil {
			t.Errorf("ParseCents(%q) error = %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseCents_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "12.345", "1.2.3", "$5"} {
		if _, err := ParseCents(in); err == nil {
			t.Errorf("ParseCents(%q) error = nil, want error", in)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		1:     "0.01",
		1234:  "12.34",
		-4567: "-45.67",
		100:   "1.00",
	}
	for in, want := range cases {
		if got := FormatCents(in); got != want {
			t.Errorf("FormatCents(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 123456789, -250} {
		got, err := ParseCents(FormatCents(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Errorf("round trip %d -> %d", cents, got)
		}
	}
}
