package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/avatar-backend/internal/services"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", f)
	}
}

func writeValue(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type yamlPart struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// optionsNode keeps categories in canonical order in YAML output.
func optionsNode(opts services.Options) (*yaml.Node, error) {
	cats := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range opts.Categories {
		parts := make([]yamlPart, 0, len(c.Parts))
		for _, p := range c.Parts {
			parts = append(parts, yamlPart{ID: p.ID, Name: p.Name})
		}
		var list yaml.Node
		if err := list.Encode(parts); err != nil {
			return nil, err
		}
		cats.Content = append(cats.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(c.Category)}, &list)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "categories"},
			cats,
		},
	}, nil
}

// writeSVG writes to path, or to w when path is empty or "-".
func writeSVG(w io.Writer, path, svg string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(w, svg+"\n")
		return err
	}
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
