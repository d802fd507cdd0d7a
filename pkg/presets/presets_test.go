package presets

import (
	"sort"
	"strings"
	"testing"

	"github.com/Oldmanrunning/HELOC/pkg/heloc"
)

func TestListSortedAndComplete(t *testing.T) {
	entries := List()
	if len(entries) != 4 {
		t.Fatalf("List() returned %d presets, expected 4", len(entries))
	}
	if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name }) {
		t.Error("List() is not sorted by name")
	}
	for _, p := range entries {
		if p.Name == "" || p.Description == "" {
			t.Errorf("preset %+v missing name or description", p)
		}
		if terms := p.Terms(); terms.Validate() != nil {
			t.Errorf("preset %q does not validate: %v", p.Name, terms.Validate())
		}
	}
}

func TestGet(t *testing.T) {
	p, err := Get("standard")
	if err != nil {
		t.Fatalf("Get(standard) error = %v", err)
	}
	if p.Principal != 50000 || p.AnnualRatePct != 8.5 || p.TermYears != 10 {
		t.Errorf("Get(standard) = %+v", p)
	}
	if p.AltRatePct != 28.0 {
		t.Errorf("Get(standard) AltRatePct = %v, expected the credit-card comparison rate", p.AltRatePct)
	}

	if _, err := Get("no-such-preset"); err == nil {
		t.Error("Get() on unknown name succeeded, expected error")
	}
}

func TestTermsConversion(t *testing.T) {
	p, err := Get("interest-only")
	if err != nil {
		t.Fatalf("Get(interest-only) error = %v", err)
	}
	terms := p.Terms()
	want := heloc.LoanTerms{Principal: 50000, AnnualRatePct: 5.0, TermYears: 10, InterestOnly: true}
	if terms != want {
		t.Errorf("Terms() = %+v, expected %+v", terms, want)
	}
}

func TestMarshalCatalog(t *testing.T) {
	out, err := MarshalCatalog()
	if err != nil {
		t.Fatalf("MarshalCatalog() error = %v", err)
	}
	text := string(out)
	for _, name := range []string{"high-rate", "interest-only", "short-term", "standard"} {
		if !strings.Contains(text, "name: "+name) {
			t.Errorf("MarshalCatalog() missing preset %q:\n%s", name, text)
		}
	}
	if strings.Contains(text, "interestOnly: false") {
		t.Error("MarshalCatalog() serialized zero-valued optional fields")
	}
}
