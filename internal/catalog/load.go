package catalog

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/wfcgen/internal/logger"
)

// TileDef is one tile in a YAML catalog
type TileDef struct {
	Name   string `yaml:"name"`
	Edges  []int  `yaml:"edges"`  // top, right, bottom, left
	Glyph  string `yaml:"glyph"`  // Optional single rune for ASCII output
	Rotate bool   `yaml:"rotate"` // Also add the distinct rotations
}

// CatalogFile is the top-level structure of a YAML catalog
type CatalogFile struct {
	Tiles []TileDef `yaml:"tiles"`
}

// Load reads a catalog from a directory of PNG tiles or a YAML file
func Load(path string, tolerance float64) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	switch {
	case info.IsDir():
		return LoadDir(path, tolerance)
	case IsYAML(path):
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("catalog: %s is neither a directory nor a YAML file", path)
	}
}

// LoadDir builds a catalog from every *.png file in dir, in name order
func LoadDir(dir string, tolerance float64) (*Catalog, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	sort.Strings(files)

	builder := NewBuilder(NewEdgeTable(tolerance))
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", file, err)
		}

		kept, err := builder.AddImage(filepath.Base(file), img)
		if err != nil {
			return nil, err
		}
		logger.Debug("Tile image loaded", "file", file, "variants", kept)
	}

	cat, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", dir, err)
	}
	logger.Info("Catalog loaded", "source", dir, "tiles", len(cat.Tiles), "edge_codes", cat.Table.Len())
	return cat, nil
}

// LoadYAML builds a catalog from explicit edge codes
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a catalog from YAML bytes
func ParseYAML(data []byte) (*Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	// Codes are given directly, so the table only records how many exist
	table := NewEdgeTable(0)
	builder := NewBuilder(table)

	for i, def := range file.Tiles {
		if len(def.Edges) != 4 {
			return nil, fmt.Errorf("catalog: tile %d (%s) has %d edges, want 4", i, def.Name, len(def.Edges))
		}
		name := def.Name
		if name == "" {
			name = fmt.Sprintf("tile%d", i)
		}

		var glyph rune
		if def.Glyph != "" {
			glyph, _ = utf8.DecodeRuneInString(def.Glyph)
		}

		codes := [4]int{def.Edges[0], def.Edges[1], def.Edges[2], def.Edges[3]}
		if def.Rotate {
			builder.AddRotations(name, codes, glyph)
		} else {
			builder.AddTile(name, codes, glyph)
		}
	}

	cat, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return cat, nil
}

// IsYAML reports whether path looks like a YAML catalog
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
