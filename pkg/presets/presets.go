// Package presets holds the static catalog of loan parameter sets used to
// prefill the calculator.
package presets

import (
	"fmt"
	"sort"

	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"gopkg.in/yaml.v3"
)

// Preset is one named, read-only parameter set.
type Preset struct {
	Name          string  `yaml:"name" json:"name"`
	Description   string  `yaml:"description" json:"description"`
	Principal     float64 `yaml:"principal" json:"principal"`
	AnnualRatePct float64 `yaml:"annualRatePct" json:"annualRatePct"`
	TermYears     float64 `yaml:"termYears" json:"termYears"`
	InterestOnly  bool    `yaml:"interestOnly,omitempty" json:"interestOnly,omitempty"`
	AltRatePct    float64 `yaml:"altRatePct,omitempty" json:"altRatePct,omitempty"`
}

// Terms converts the preset into engine terms.
func (p Preset) Terms() heloc.LoanTerms {
	return heloc.LoanTerms{
		Principal:     p.Principal,
		AnnualRatePct: p.AnnualRatePct,
		TermYears:     p.TermYears,
		InterestOnly:  p.InterestOnly,
	}
}

var catalog = map[string]Preset{
	"standard": {
		Name:          "standard",
		Description:   "Standard 10-year HELOC",
		Principal:     50000,
		AnnualRatePct: 8.5,
		TermYears:     10,
		AltRatePct:    28.0,
	},
	"short-term": {
		Name:          "short-term",
		Description:   "Short 5-year payoff",
		Principal:     25000,
		AnnualRatePct: 7.25,
		TermYears:     5,
	},
	"interest-only": {
		Name:          "interest-only",
		Description:   "Interest-only with balloon at maturity",
		Principal:     50000,
		AnnualRatePct: 5.0,
		TermYears:     10,
		InterestOnly:  true,
	},
	"high-rate": {
		Name:          "high-rate",
		Description:   "Variable-rate stress comparison",
		Principal:     50000,
		AnnualRatePct: 12.0,
		TermYears:     10,
		AltRatePct:    18.0,
	},
}

// List returns all presets sorted by name.
func List() []Preset {
	entries := make([]Preset, 0, len(catalog))
	for _, p := range catalog {
		entries = append(entries, p)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Get looks up a preset by name.
func Get(name string) (Preset, error) {
	p, ok := catalog[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// MarshalCatalog renders the catalog as YAML, sorted by name, for config
// downloads.
func MarshalCatalog() ([]byte, error) {
	return yaml.Marshal(List())
}
