package sink

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/cvoutline/internal/outline"
)

// JSON dumps the instruction sequence itself.
type JSON struct{}

func (s *JSON) ContentType() string { return "application/json" }

func (s *JSON) Ext() string { return ".json" }

func (s *JSON) Write(w io.Writer, ins []outline.Instruction) error {
	if ins == nil {
		ins = []outline.Instruction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"instructions": ins})
}
