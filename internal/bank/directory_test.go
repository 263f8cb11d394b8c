package bank

import (
	"sort"
	"strings"
	"testing"
)

func TestLookup_DirectMatch(t *testing.T) {
	res := Lookup("021000021")
	if !res.Valid {
		t.Fatalf("Lookup valid = false, want true")
	}
	if res.BankName != "Chase Bank" {
		t.Errorf("bank name = %q, want %q", res.BankName, "Chase Bank")
	}
	if res.Source != SourceDirectMatch {
		t.Errorf("source = %q, want %q", res.Source, SourceDirectMatch)
	}
	if res.Region != "Boston, MA" {
		t.Errorf("region = %q, want %q", res.Region, "Boston, MA")
	}
}

func TestLookup_NormalizesInput(t *testing.T) {
	res := Lookup("021-000-021")
	if !res.Valid || res.Source != SourceDirectMatch {
		t.Fatalf("hyphenated input not normalized: %+v", res)
	}
	if res.RoutingNumber != "021000021" {
		t.Errorf("routing number = %q, want normalized form", res.RoutingNumber)
	}
}

func TestLookup_PatternMatch(t *testing.T) {
	// checksum-valid, absent from the directory, prefix 111 guesses BofA
	res := Lookup("111111118")
	if !res.Valid {
		t.Fatalf("Lookup valid = false, want true")
	}
	if res.BankName != "Bank of America (likely)" {
		t.Errorf("bank name = %q, want %q", res.BankName, "Bank of America (likely)")
	}
	if res.Source != SourcePatternMatch {
		t.Errorf("source = %q, want %q", res.Source, SourcePatternMatch)
	}
	if res.Region != unknownRegion {
		t.Errorf("region = %q, want %q", res.Region, unknownRegion)
	}
}

func TestLookup_RegionOnly(t *testing.T) {
	res := Lookup("999999992")
	if !res.Valid {
		t.Fatalf("Lookup valid = false, want true")
	}
	if res.BankName != "Unknown Bank" {
		t.Errorf("bank name = %q, want %q", res.BankName, "Unknown Bank")
	}
	if res.Source != SourceRegionOnly {
		t.Errorf("source = %q, want %q", res.Source, SourceRegionOnly)
	}
}

func TestLookup_Invalid(t *testing.T) {
	for _, s := range []string{"021000022", "12345", "abcdefghi", ""} {
		res := Lookup(s)
		if res.Valid {
			t.Errorf("Lookup(%q).Valid = true, want false", s)
		}
		if res.Error != "Invalid routing number format or checksum" {
			t.Errorf("Lookup(%q).Error = %q", s, res.Error)
		}
	}
}

func TestSuggestions_PrefixAndOrder(t *testing.T) {
	got := Suggestions("021")
	if len(got) == 0 {
		t.Fatal("no suggestions for prefix 021")
	}
	if len(got) > 10 {
		t.Errorf("got %d suggestions, want at most 10", len(got))
	}
	names := make([]string, 0, len(got))
	for _, s := range got {
		if !strings.HasPrefix(s.RoutingNumber, "021") {
			t.Errorf("suggestion %q does not start with 021", s.RoutingNumber)
		}
		if len(s.FormattedRouting) != 11 || s.FormattedRouting[3] != '-' || s.FormattedRouting[7] != '-' {
			t.Errorf("bad formatted routing %q", s.FormattedRouting)
		}
		names = append(names, s.BankName)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("suggestions not sorted by bank name: %v", names)
	}
}

func TestSuggestions_ShortInput(t *testing.T) {
	for _, s := range []string{"", "0", "02"} {
		if got := Suggestions(s); len(got) != 0 {
			t.Errorf("Suggestions(%q) = %v, want empty", s, got)
		}
	}
}

func TestSuggestions_Limit(t *testing.T) {
	// the broadest real prefix in the table
	for _, prefix := range []string{"021", "031", "121"} {
		if got := Suggestions(prefix); len(got) > maxSuggestions {
			t.Errorf("Suggestions(%q) returned %d entries", prefix, len(got))
		}
	}
}
