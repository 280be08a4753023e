// Package file provides a SourceRepository backed by a YAML file, for
// deployments without a database.
package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// document is the on-disk layout:
//
//	sources:
//	  - id: 1
//	    name: Example Markets
//	    url: https://example.com/markets.rss
//	    active: true
type document struct {
	Sources []sourceEntry `yaml:"sources"`
}

type sourceEntry struct {
	ID     int64  `yaml:"id"`
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Active *bool  `yaml:"active"`
}

// SourceRepo reads the source list from path on every call, so edits take
// effect at the next refresh.
type SourceRepo struct {
	path string
}

func NewSourceRepo(path string) repository.SourceRepository {
	return &SourceRepo{path: path}
}

func (r *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	sources, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %s: %w", r.path, err)
	}

	active := make([]*entity.Source, 0, len(sources))
	for _, src := range sources {
		if src.Active {
			active = append(active, src)
		}
	}
	return active, nil
}

// Parse decodes and validates a sources document. A source without an
// explicit active flag is treated as active; IDs default to the 1-based position.
func Parse(raw []byte) ([]*entity.Source, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	out := make([]*entity.Source, 0, len(doc.Sources))
	seen := make(map[string]struct{}, len(doc.Sources))
	for i, s := range doc.Sources {
		src := &entity.Source{
			ID:      s.ID,
			Name:    s.Name,
			FeedURL: s.URL,
			Active:  s.Active == nil || *s.Active,
		}
		if src.ID == 0 {
			src.ID = int64(i + 1)
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i+1, err)
		}
		if _, dup := seen[src.FeedURL]; dup {
			return nil, fmt.Errorf("source %d: duplicate url %q", i+1, src.FeedURL)
		}
		seen[src.FeedURL] = struct{}{}
		out = append(out, src)
	}
	return out, nil
}
