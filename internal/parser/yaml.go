package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
	"gopkg.in/yaml.v3"
)

// YAMLParser reads records from a YAML document. The document is either a
// sequence of mappings or a mapping with a "records" sequence and an
// optional "title". A key missing from a record is an absent column; a
// null value is an empty cell.
type YAMLParser struct{}

func (p *YAMLParser) Parse(r io.Reader, filename string) (*table.Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &table.Table{Title: baseTitle(filename)}, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	t := &table.Table{Title: baseTitle(filename)}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var records *yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		records = root
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, val := root.Content[i].Value, root.Content[i+1]
			switch key {
			case "title":
				t.Title = val.Value
			case "records":
				records = val
			}
		}
	}
	if records == nil || records.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse yaml: expected a sequence of records")
	}

	seen := make(map[string]bool)
	for _, rec := range records.Content {
		if rec.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse yaml: line %d: record is not a mapping", rec.Line)
		}
		row := table.Row{Line: rec.Line, Cells: make(map[string]string, len(rec.Content)/2)}
		for i := 0; i+1 < len(rec.Content); i += 2 {
			col := strings.TrimSpace(rec.Content[i].Value)
			v, err := yamlCell(rec.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("parse yaml: line %d: %w", rec.Content[i+1].Line, err)
			}
			row.Cells[col] = v
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// yamlCell flattens a value node. Scalars are taken verbatim; mappings and
// sequences are kept as flow-style YAML so nothing is lost.
func yamlCell(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	case yaml.AliasNode:
		return yamlCell(n.Alias)
	case yaml.MappingNode, yaml.SequenceNode:
		flow := *n
		flow.Style = yaml.FlowStyle
		out, err := yaml.Marshal(&flow)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	default:
		return "", fmt.Errorf("unsupported yaml node kind %d", n.Kind)
	}
}
