package clean

import (
	"testing"
)

func TestIsDigitsOnly(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"997", true},
		{"0", true},
		{"", false},
		{"WCE", false},
		{"99a", false},
		{"-1", false},
		{" 1", false},
		{"١٢", false},
	} {
		if got := IsDigitsOnly(tc.in); got != tc.want {
			t.Errorf("IsDigitsOnly(%q) = %t, want %t", tc.in, got, tc.want)
		}
	}
}

func TestIsShouting(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"WATERFRONT STATION", true},
		{"PORT MOODY - 2", true},
		{"Waterfront", false},
		{"123 - 456", false},
		{"", false},
		{"ÉCOLE", true},
	} {
		if got := IsShouting(tc.in); got != tc.want {
			t.Errorf("IsShouting(%q) = %t, want %t", tc.in, got, tc.want)
		}
	}
}

func TestFoldShouting(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"WATERFRONT STATION", "Waterfront Station"},
		{"PORT MOODY-COQUITLAM", "Port Moody-Coquitlam"},
		{"Mission City", "Mission City"},
		{"already lower", "already lower"},
	} {
		if got := FoldShouting(tc.in); got != tc.want {
			t.Errorf("FoldShouting(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStreetTypes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"Main St", "Main Street"},
		{"Main St.", "Main Street"},
		{"Lougheed Hwy", "Lougheed Highway"},
		{"Kingsway Ave at 10th", "Kingsway Avenue at 10th"},
		{"Street", "Street"},
		{"Stave Lake", "Stave Lake"},
		{"Drive", "Drive"},
	} {
		if got := StreetTypes(tc.in); got != tc.want {
			t.Errorf("StreetTypes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeepToRemoveVia(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"Mission City to Waterfront", "Waterfront"},
		{"to Waterfront", "Waterfront"},
		{"Waterfront via Port Moody", "Waterfront"},
		{"Mission to Waterfront via Coquitlam", "Waterfront"},
		{"Toronto", "Toronto"},
		{"Waterfront", "Waterfront"},
	} {
		if got := KeepToRemoveVia(tc.in); got != tc.want {
			t.Errorf("KeepToRemoveVia(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLabel(t *testing.T) {
	for _, tc := range []struct {
		desc string
		in   string
		want string
	}{
		{"collapse whitespace", "  port   moody  ", "Port Moody"},
		{"dangling dash", "Port Moody  - ", "Port Moody"},
		{"leading separator", "/ Waterfront", "Waterfront"},
		{"space before comma", "Mission ,City", "Mission, City"},
		{"spaced dash", "Port Moody -Coquitlam", "Port Moody - Coquitlam"},
		{"hyphenated word", "port moody-coquitlam", "Port Moody-Coquitlam"},
		{"parenthesis", "waterfront ( platform 1 )", "Waterfront (Platform 1)"},
		{"keeps inner capitals", "WCE Mission", "WCE Mission"},
		{"ordinal", "10th ave", "10th Ave"},
		{"empty", "", ""},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got := Label(tc.in)
			if got != tc.want {
				t.Errorf("Label(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if again := Label(got); again != got {
				t.Errorf("Label is not idempotent: %q -> %q", got, again)
			}
		})
	}
}
