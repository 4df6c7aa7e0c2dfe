package mockbackend

import (
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/diogo/floatchat/internal/models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixture is one canned reply
type Fixture struct {
	Name     string        `yaml:"name"`
	Match    []string      `yaml:"match"`
	Status   int           `yaml:"status"`
	Delay    time.Duration `yaml:"delay"`
	Wrapped  bool          `yaml:"wrapped"`
	Output   string        `yaml:"output"`
	SQLQuery string        `yaml:"sql_query"`
	Table    Rows          `yaml:"table_data"`
	Geo      Rows          `yaml:"geo_data"`
}

// StatusCode returns the HTTP status to reply with
func (f Fixture) StatusCode() int {
	if f.Status == 0 {
		return http.StatusOK
	}
	return f.Status
}

// Matches reports whether prompt contains one of the fixture's keywords
func (f Fixture) Matches(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, kw := range f.Match {
		if kw != "" && strings.Contains(p, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Rows is a list of records decoded from YAML mappings in document order
type Rows []models.Record

// UnmarshalYAML keeps key order so the client sees stable columns
func (r *Rows) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of rows", node.Line)
	}

	rows := make(Rows, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: each row must be a mapping", item.Line)
		}
		rec := make(models.Record, 0, len(item.Content)/2)
		for i := 0; i+1 < len(item.Content); i += 2 {
			var value any
			if err := item.Content[i+1].Decode(&value); err != nil {
				return fmt.Errorf("line %d: %w", item.Content[i+1].Line, err)
			}
			rec = append(rec, models.Field{Key: item.Content[i].Value, Value: value})
		}
		rows = append(rows, rec)
	}
	*r = rows
	return nil
}

// FixtureSet is the full fixture file
type FixtureSet struct {
	Default  Fixture   `yaml:"default"`
	Fixtures []Fixture `yaml:"fixtures"`
}

// Find returns the first fixture matching prompt, or the default
func (s *FixtureSet) Find(prompt string) Fixture {
	for _, f := range s.Fixtures {
		if f.Matches(prompt) {
			return f
		}
	}
	return s.Default
}

// ParseFixtures decodes a fixture document
func ParseFixtures(data []byte) (*FixtureSet, error) {
	var set FixtureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if set.Default.Output == "" {
		set.Default.Output = models.NoResponseText
	}
	return &set, nil
}

// LoadFixtures reads fixtures from path; an empty path selects the built-in set
func LoadFixtures(path string) (*FixtureSet, error) {
	if path == "" {
		return ParseFixtures(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}
