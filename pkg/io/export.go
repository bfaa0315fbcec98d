package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
)

const (
	// Format identifies galaxy documents.
	Format = "stargen/galaxy"

	// Version is the document version written by this package.
	Version = 1
)

// document is the on-disk envelope around a galaxy.
type document struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	*galaxy.Galaxy
}

// WriteJSON encodes g as an indented JSON document and writes it to w.
func WriteJSON(g *galaxy.Galaxy, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Format: Format, Version: Version, Galaxy: g}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the compact JSON document for g.
func Marshal(g *galaxy.Galaxy) ([]byte, error) {
	data, err := json.Marshal(document{Format: Format, Version: Version, Galaxy: g})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *galaxy.Galaxy, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
