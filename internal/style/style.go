// Package style defines the style sheet that maps outline levels to visual
// paragraph styles.
package style

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dgallion1/cvoutline/internal/outline"
	"gopkg.in/yaml.v3"
)

// Style describes how one outline level is drawn.
type Style struct {
	Name    string  `yaml:"name" json:"name"`
	Size    float64 `yaml:"size" json:"size"` // points
	Bold    bool    `yaml:"bold" json:"bold"`
	Italic  bool    `yaml:"italic" json:"italic"`
	Align   string  `yaml:"align" json:"align"` // start, center, end, both
	Color   string  `yaml:"color" json:"color,omitempty"`
	Heading bool    `yaml:"heading" json:"heading"` // part of the document outline
}

// HalfPoints returns the size in the half-point units DOCX uses.
func (s Style) HalfPoints() string {
	return strconv.Itoa(int(s.Size*2 + 0.5))
}

// Sheet lists styles by level, starting at level 0.
type Sheet struct {
	Levels []Style `yaml:"levels" json:"levels"`
}

var validAlign = map[string]bool{
	"":           true,
	"start":      true,
	"center":     true,
	"end":        true,
	"both":       true,
	"distribute": true,
}

// Default is the classic CV sheet: title, subtitle, section and subsection
// headings, then bold, plain and reference body text.
func Default() Sheet {
	return Sheet{Levels: []Style{
		{Name: "Title", Size: 18, Bold: true, Align: "center", Heading: true},
		{Name: "Subtitle", Size: 16, Bold: true, Align: "center", Heading: true},
		{Name: "Section", Size: 14, Bold: true, Align: "start", Heading: true},
		{Name: "Subsection", Size: 12, Bold: true, Align: "start", Heading: true},
		{Name: "Bold", Size: 12, Bold: true, Align: "start"},
		{Name: "Plain", Size: 12, Align: "both"},
		{Name: "Reference", Size: 9, Align: "start"},
	}}
}

// Load reads a YAML sheet from path.
func Load(path string) (Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("read style sheet: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML sheet.
func Parse(data []byte) (Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sheet{}, fmt.Errorf("parse style sheet: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Sheet{}, err
	}
	return s, nil
}

// Validate checks that level 0 exists and names are unique.
func (s Sheet) Validate() error {
	if len(s.Levels) == 0 {
		return fmt.Errorf("style sheet must define at least level 0")
	}
	seen := make(map[string]bool, len(s.Levels))
	for i, st := range s.Levels {
		if st.Name == "" {
			return fmt.Errorf("style level %d has no name", i)
		}
		if seen[st.Name] {
			return fmt.Errorf("style %q defined twice", st.Name)
		}
		seen[st.Name] = true
		if st.Size <= 0 {
			return fmt.Errorf("style %q: size must be positive", st.Name)
		}
		if !validAlign[st.Align] {
			return fmt.Errorf("style %q: unknown alignment %q", st.Name, st.Align)
		}
	}
	return nil
}

// Table returns the level→handle table the outline engine consumes.
func (s Sheet) Table() outline.StyleTable {
	t := make(outline.StyleTable, len(s.Levels))
	for i, st := range s.Levels {
		t[i] = st.Name
	}
	return t
}

// ByName resolves a style handle.
func (s Sheet) ByName(name string) (Style, bool) {
	for _, st := range s.Levels {
		if st.Name == name {
			return st, true
		}
	}
	return Style{}, false
}
