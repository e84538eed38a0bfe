package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/condsel/internal/match"
)

// Scenario defines a catalog selection scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Settings tune the selector every case runs with.
	Settings Settings `yaml:"settings,omitempty"`

	// Catalog lists the combinations, in catalog order.
	Catalog []CatalogEntry `yaml:"catalog"`

	// Cases run in order against the same catalog.
	Cases []Case `yaml:"cases"`
}

// Settings mirror the subset of configuration a scenario may change.
type Settings struct {
	// Match is the clause matching mode: "literal" (default) or "regex".
	Match string `yaml:"match,omitempty"`

	// Control is the baseline covariate level. Empty means "control".
	Control string `yaml:"control,omitempty"`

	// ControlPrefix accepts any level starting with Control.
	ControlPrefix bool `yaml:"control_prefix,omitempty"`

	// Store imports the catalog into an in-memory store and reads every
	// case's records back from it.
	Store bool `yaml:"store,omitempty"`
}

// CatalogEntry is one combination. The harness renders entries as
// tab-separated catalog lines so they pass through the catalog reader.
type CatalogEntry struct {
	ID         string   `yaml:"id"`
	Bioproject string   `yaml:"bioproject"`
	Condition  string   `yaml:"condition"`
	Covariate  string   `yaml:"covariate"`
	Dimensions []string `yaml:"dimensions"`
}

// Line renders the entry in catalog format.
func (e CatalogEntry) Line() string {
	return strings.Join([]string{
		e.ID,
		e.Bioproject,
		e.Condition,
		e.Covariate,
		strings.Join(e.Dimensions, "|"),
	}, "\t")
}

// Case modes.
const (
	ModeSelect  = "select"
	ModeSuggest = "suggest"
	ModeParse   = "parse"
	ModeOptions = "options"
)

// Case is one operation against the scenario catalog.
type Case struct {
	Name       string   `yaml:"name"`
	Mode       string   `yaml:"mode"`
	Query      string   `yaml:"query,omitempty"`
	Bioproject string   `yaml:"bioproject,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"` // options mode only
	Expect     Expect   `yaml:"expect"`
}

// Expect holds the checks for a case. Unset fields are not checked; an
// explicit empty list (selected: []) asserts that nothing was returned.
type Expect struct {
	Selected   []string            `yaml:"selected,omitempty"`
	Options    []string            `yaml:"options,omitempty"`
	Survivors  *int                `yaml:"survivors,omitempty"`
	Canonical  string              `yaml:"canonical,omitempty"`
	Length     int                 `yaml:"length,omitempty"`
	Tree       string              `yaml:"tree,omitempty"`
	Dimensions map[string][]string `yaml:"dimensions,omitempty"`
	Error      string              `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario from a YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks the structure a run depends on. Catalog entries
// are left to the catalog reader so malformed-record cases stay expressible.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("scenario must have at least one case")
	}
	if s.Settings.Match != "" {
		if _, err := match.ParseMode(s.Settings.Match); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}

	names := make(map[string]int, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d: name is required", i)
		}
		if first, ok := names[c.Name]; ok {
			return fmt.Errorf("case %d: duplicate name %q (first at case %d)", i, c.Name, first)
		}
		names[c.Name] = i

		switch c.Mode {
		case ModeSelect, ModeSuggest, ModeOptions:
		case ModeParse:
			if strings.TrimSpace(c.Query) == "" {
				return fmt.Errorf("case %q: parse mode requires a query", c.Name)
			}
		default:
			return fmt.Errorf("case %q: unknown mode %q", c.Name, c.Mode)
		}
		if len(c.Exclude) > 0 && c.Mode != ModeOptions {
			return fmt.Errorf("case %q: exclude applies to options mode only", c.Name)
		}
	}
	return nil
}
