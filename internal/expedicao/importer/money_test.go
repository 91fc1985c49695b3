package importer

import "testing"

func TestCleanMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"", 0},
		{"R$ 50,00", 50},
		{"50.00", 50},
		{"1.000", 1000},
		{"0,5", 0.5},
		{"-12,30", -12.30},
		{"abc", 0},
		{"  R$  7,90 ", 7.9},
	}
	for _, tc := range cases {
		if got := CleanMoney(tc.in); got != tc.want {
			t.Errorf("CleanMoney(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"15/03/2024", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"2024-03-15", "2024-03-15"},
		{"2024-03-15T10:22:00-03:00", "2024-03-15"},
		{"45366", "2024-03-15"}, // excel serial
		{"nada", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
