package utils

import "testing"

func TestParseBRL(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"100,00", 100.00},
		{"1.234,56", 1234.56},
		{"0,50", 0.50},
		{"R$ 250,00", 250.00},
		{"  99,90  ", 99.90},
		{"100", 100},
	}

	for _, tc := range cases {
		got, err := ParseBRL(tc.input)
		if err != nil {
			t.Fatalf("ParseBRL(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseBRL(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseBRLTreatsDotAsThousandsSeparator(t *testing.T) {
	got, err := ParseBRL("100.50")
	if err != nil {
		t.Fatalf("ParseBRL: %v", err)
	}
	if got != 10050 {
		t.Errorf("ParseBRL(\"100.50\") = %v, want 10050", got)
	}
}

func TestParseBRLRejectsInvalidInput(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "10,0,0"} {
		if _, err := ParseBRL(input); err == nil {
			t.Errorf("ParseBRL(%q): expected error", input)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{250, "R$ 250,00"},
		{100.5, "R$ 100,50"},
		{1234.56, "R$ 1234,56"},
		{0, "R$ 0,00"},
	}

	for _, tc := range cases {
		if got := FormatBRL(tc.amount); got != tc.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
