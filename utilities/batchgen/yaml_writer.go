package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GridYAML represents a generated grid in YAML format
type GridYAML struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Seed    int64    `yaml:"seed"`
	Catalog string   `yaml:"catalog"`
	Steps   int      `yaml:"steps"`
	Repairs int      `yaml:"repairs"`
	Digest  string   `yaml:"digest"`
	Legend  []string `yaml:"legend"` // Tile names indexed by ID
	Rows    [][]int  `yaml:"rows"`
}

// orderedGridYAML is used for serialization with one flow-style row per line
type orderedGridYAML struct {
	Width   int       `yaml:"width"`
	Height  int       `yaml:"height"`
	Seed    int64     `yaml:"seed"`
	Catalog string    `yaml:"catalog"`
	Steps   int       `yaml:"steps"`
	Repairs int       `yaml:"repairs"`
	Digest  string    `yaml:"digest"`
	Legend  []string  `yaml:"legend"`
	Rows    yaml.Node `yaml:"rows"`
}

// WriteGridYAML writes a grid to a YAML file
func WriteGridYAML(grid *GridYAML, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Grid %dx%d - %s\n", grid.Width, grid.Height, grid.Catalog)
	fmt.Fprintf(f, "# Generated with seed: %d\n", grid.Seed)
	fmt.Fprintf(f, "# Steps: %d, repairs: %d\n\n", grid.Steps, grid.Repairs)

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)

	ordered := &orderedGridYAML{
		Width:   grid.Width,
		Height:  grid.Height,
		Seed:    grid.Seed,
		Catalog: grid.Catalog,
		Steps:   grid.Steps,
		Repairs: grid.Repairs,
		Digest:  grid.Digest,
		Legend:  grid.Legend,
		Rows:    rowsNode(grid.Rows),
	}

	if err := encoder.Encode(ordered); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// ReadGridYAML loads a grid written by WriteGridYAML
func ReadGridYAML(path string) (*GridYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var grid GridYAML
	if err := yaml.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &grid, nil
}

// rowsNode renders each row as a flow sequence so the file reads like the grid
func rowsNode(rows [][]int) yaml.Node {
	node := yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		rowNode := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, id := range row {
			rowNode.Content = append(rowNode.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!int",
				Value: strconv.Itoa(id),
			})
		}
		node.Content = append(node.Content, rowNode)
	}
	return node
}
