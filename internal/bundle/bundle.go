// Package bundle reads and writes portable YAML template bundles.
//
// A bundle carries names, texts, category names and tag names only; ids and
// timestamps are assigned by the receiving store.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"clipdeck/internal/model"
	"clipdeck/internal/store"
)

const Version = 1

type Bundle struct {
	Version    int      `yaml:"version"`
	Categories []string `yaml:"categories,omitempty"`
	Templates  []Entry  `yaml:"templates"`
}

type Entry struct {
	Name     string   `yaml:"name" validate:"required"`
	Text     string   `yaml:"text" validate:"required"`
	Category string   `yaml:"category,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// Source is what Export reads from.
type Source interface {
	Categories(ctx context.Context) ([]model.Category, error)
	FindTemplates(ctx context.Context, f model.TemplateFilter) ([]model.Template, error)
	TagsByTemplate(ctx context.Context) (map[int64][]string, error)
}

// Sink is what Import writes to.
type Sink interface {
	CreateCategory(ctx context.Context, name string) (int64, error)
	CreateTemplate(ctx context.Context, p store.CreateTemplateParams) (int64, error)
}

var _ Source = store.Store{}
var _ Sink = store.Store{}

// Export collects every template in s, ordered by id.
func Export(ctx context.Context, s Source) (Bundle, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return Bundle{}, err
	}
	names := make(map[int64]string, len(cats))
	b := Bundle{Version: Version, Templates: []Entry{}}
	for _, c := range cats {
		names[c.ID] = c.Name
		if c.Name != model.UnassignedCategory {
			b.Categories = append(b.Categories, c.Name)
		}
	}

	ts, err := s.FindTemplates(ctx, model.TemplateFilter{})
	if err != nil {
		return Bundle{}, err
	}
	tags, err := s.TagsByTemplate(ctx)
	if err != nil {
		return Bundle{}, err
	}
	for _, t := range ts {
		b.Templates = append(b.Templates, Entry{
			Name:     t.Name,
			Text:     t.Text,
			Category: names[t.CategoryID],
			Tags:     tags[t.ID],
		})
	}
	return b, nil
}

func Encode(w io.Writer, b Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}

// Decode parses and validates a bundle. Unknown keys are rejected.
func Decode(r io.Reader) (Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return Bundle{}, errors.New("bundle is empty")
		}
		return Bundle{}, fmt.Errorf("decode bundle: %w", err)
	}
	if b.Version == 0 {
		b.Version = Version
	}
	if b.Version != Version {
		return Bundle{}, fmt.Errorf("unsupported bundle version %d", b.Version)
	}

	v := validator.New()
	for i, e := range b.Templates {
		if err := v.Struct(e); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return Bundle{}, fmt.Errorf("template %d: %s is required", i+1, strings.ToLower(verrs[0].Field()))
			}
			return Bundle{}, fmt.Errorf("template %d: %w", i+1, err)
		}
	}
	return b, nil
}

type ImportResult struct {
	Categories int     `json:"categories"`
	Templates  []int64 `json:"templates"`
}

// Import creates the bundle's categories, then its templates, through the
// regular create path.
func Import(ctx context.Context, s Sink, b Bundle) (ImportResult, error) {
	res := ImportResult{Templates: []int64{}}
	for _, name := range b.Categories {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := s.CreateCategory(ctx, name); err != nil {
			return res, fmt.Errorf("category %q: %w", name, err)
		}
		res.Categories++
	}
	for _, e := range b.Templates {
		id, err := s.CreateTemplate(ctx, store.CreateTemplateParams{
			Name:     e.Name,
			Text:     e.Text,
			Category: e.Category,
			Tags:     e.Tags,
		})
		if err != nil {
			return res, fmt.Errorf("template %q: %w", e.Name, err)
		}
		res.Templates = append(res.Templates, id)
	}
	return res, nil
}
