// Package catalog loads board maps and minigames from JSON files laid out as
// maps/<id>.json and minigames/<id>.json.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

var (
	ErrNotFound       = errors.New("content not found")
	ErrInvalidContent = errors.New("invalid content")
)

//go:embed content
var embedded embed.FS

// Embedded is the sample content shipped with the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source picks a content directory on disk, or the embedded samples when
// dir is empty.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}

type Catalog struct {
	fsys fs.FS
}

func New(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

func (c *Catalog) Map(ctx context.Context, id string) (gruppenspiel.MapDefinition, error) {
	var m gruppenspiel.MapDefinition
	data, err := c.read(ctx, "maps", id)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: map %s: %v", ErrInvalidContent, id, err)
	}
	if err := validateMap(id, m); err != nil {
		return gruppenspiel.MapDefinition{}, err
	}
	return m, nil
}

func (c *Catalog) Minigame(ctx context.Context, id string) (gruppenspiel.Minigame, error) {
	data, err := c.read(ctx, "minigames", id)
	if err != nil {
		return nil, err
	}
	return decodeMinigame(id, data)
}

// Minigames loads ids in order. Missing, malformed and repeated entries are
// skipped; the returned error describes each one while the valid entries
// are still returned.
func (c *Catalog) Minigames(ctx context.Context, ids []string) ([]gruppenspiel.Minigame, error) {
	var (
		out  []gruppenspiel.Minigame
		errs []error
		seen = make(map[string]bool, len(ids))
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%w: duplicate minigame %s", ErrInvalidContent, id))
			continue
		}
		seen[id] = true

		mg, err := c.Minigame(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, mg)
	}
	return out, errors.Join(errs...)
}

// AllMinigames loads every minigame file in the catalog.
func (c *Catalog) AllMinigames(ctx context.Context) ([]gruppenspiel.Minigame, error) {
	ids, err := c.ids("minigames")
	if err != nil {
		return nil, err
	}
	return c.Minigames(ctx, ids)
}

func (c *Catalog) MapIDs() ([]string, error) {
	return c.ids("maps")
}

func (c *Catalog) MinigameIDs() ([]string, error) {
	return c.ids("minigames")
}

// Check reports whether the content directories can be listed.
func (c *Catalog) Check(context.Context) error {
	for _, dir := range []string{"maps", "minigames"} {
		if _, err := fs.ReadDir(c.fsys, dir); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) ids(dir string) ([]string, error) {
	entries, err := fs.ReadDir(c.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

func (c *Catalog) read(ctx context.Context, dir, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || !fs.ValidPath(id) {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, strings.TrimSuffix(dir, "s"), id)
	}
	data, err := fs.ReadFile(c.fsys, path.Join(dir, id+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, strings.TrimSuffix(dir, "s"), id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", dir, id, err)
	}
	return data, nil
}

// Filter keeps minigames whose name or type contains query, ignoring case.
// An empty kind matches both kinds.
func Filter(list []gruppenspiel.Minigame, query string, kind gruppenspiel.MinigameKind) []gruppenspiel.Minigame {
	q := strings.ToLower(query)
	out := []gruppenspiel.Minigame{}
	for _, mg := range list {
		if kind != "" && mg.Kind() != kind {
			continue
		}
		if strings.Contains(strings.ToLower(mg.Base().Name), q) ||
			strings.Contains(string(mg.Kind()), q) {
			out = append(out, mg)
		}
	}
	return out
}
