package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stargen/pkg/core/galaxy"
	serrors "github.com/matzehuels/stargen/pkg/errors"
)

// ReadJSON decodes a galaxy document from r.
//
// ReadJSON returns an error if the JSON is malformed, the format or
// version is unknown, the dimensions are invalid, or the systems do not
// form a valid sector grid. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*galaxy.Galaxy, error) {
	doc := document{Galaxy: &galaxy.Galaxy{}}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Format != Format {
		return nil, serrors.New(serrors.ErrCodeInvalidOptions, "unknown document format %q", doc.Format)
	}
	if doc.Version < 1 || doc.Version > Version {
		return nil, serrors.New(serrors.ErrCodeInvalidOptions, "unsupported document version %d", doc.Version)
	}
	g := doc.Galaxy
	if err := serrors.ValidateDimensions(g.Width, g.Height); err != nil {
		return nil, err
	}
	if err := g.Commit(); err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidOptions, err, "invalid systems")
	}
	if err := checkWormholes(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Unmarshal decodes a galaxy document from data.
func Unmarshal(data []byte) (*galaxy.Galaxy, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a JSON file at path and returns the decoded galaxy.
func ImportJSON(path string) (*galaxy.Galaxy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func checkWormholes(g *galaxy.Galaxy) error {
	sectors := g.Sectors()
	for _, s := range g.Systems {
		if s.Destination == nil {
			continue
		}
		d, ok := sectors.SystemAt(*s.Destination)
		if !ok || d.StarType != galaxy.StarWormhole || s.StarType != galaxy.StarWormhole {
			return serrors.New(serrors.ErrCodeInvalidOptions, "system %s links to %s, which is not a wormhole", s.Location, *s.Destination)
		}
	}
	return nil
}
