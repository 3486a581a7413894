// Package registry implements the local module registry and the HTTP
// client for the hosted registry (component C10, SPEC_FULL.md §4.12):
// scanning <data_dir>/modules/<author>/<name>.lua for installed modules
// and talking to the sn0int.com API for search/install/publish. Grounded
// on the original's registry.rs and api.rs, with the directory-walk
// idiom borrowed from a config-file discovery pattern of walking a
// directory tree to build an in-memory index at startup.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kpcyrd/sn0int/pkg/engine"
)

// Module is one parsed, installed module.
type Module struct {
	Author string
	Name   string
	Path   string
	Source string
	Meta   engine.Metadata
}

func (m *Module) String() string {
	return fmt.Sprintf("%s/%s %s", m.Author, m.Name, m.Meta.Version)
}

// Local is the on-disk module registry rooted at <data_dir>/modules.
type Local struct {
	root   string
	byFull map[string]*Module
	byName map[string][]*Module
}

// OpenLocal walks root (author directories, each holding "<name>.lua"
// files) and parses every module's metadata header up front, so a lookup
// never touches the filesystem again.
func OpenLocal(root string) (*Local, error) {
	l := &Local{root: root, byFull: make(map[string]*Module), byName: make(map[string][]*Module)}

	authors, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list module directory: %w", err)
	}

	for _, authorEntry := range authors {
		if !authorEntry.IsDir() {
			continue
		}
		author := authorEntry.Name()
		authorDir := filepath.Join(root, author)

		files, err := os.ReadDir(authorDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list modules for %s: %w", author, err)
		}

		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".lua") {
				continue
			}
			name := strings.TrimSuffix(f.Name(), ".lua")
			path := filepath.Join(authorDir, f.Name())

			buf, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read module %s/%s: %w", author, name, err)
			}
			meta, err := engine.ParseMetadata(string(buf))
			if err != nil {
				return nil, fmt.Errorf("failed to parse metadata for %s/%s: %w", author, name, err)
			}

			mod := &Module{Author: author, Name: name, Path: path, Source: string(buf), Meta: meta}
			l.byFull[author+"/"+name] = mod
			l.byName[name] = append(l.byName[name], mod)
		}
	}

	return l, nil
}

// Lookup resolves "name" or "author/name" to exactly one Module. A bare
// name that matches modules from more than one author is an error, the
// analyst must disambiguate with the author/name form.
func (l *Local) Lookup(ref string) (*Module, error) {
	if strings.Contains(ref, "/") {
		mod, ok := l.byFull[ref]
		if !ok {
			return nil, fmt.Errorf("module not found: %s", ref)
		}
		return mod, nil
	}

	candidates := l.byName[ref]
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("module not found: %s", ref)
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Author + "/" + c.Name
		}
		return nil, fmt.Errorf("ambiguous module name %q, candidates: %s", ref, strings.Join(names, ", "))
	}
}

// List returns every installed module, sorted by author then name.
func (l *Local) List() []*Module {
	out := make([]*Module, 0, len(l.byFull))
	for _, m := range l.byFull {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Author != out[j].Author {
			return out[i].Author < out[j].Author
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Install writes source to <root>/<author>/<name>.lua, creating the
// author directory if necessary, and re-indexes the new module.
func (l *Local) Install(author, name, source string) error {
	authorDir := filepath.Join(l.root, author)
	if err := os.MkdirAll(authorDir, 0o700); err != nil {
		return fmt.Errorf("failed to create author directory: %w", err)
	}

	meta, err := engine.ParseMetadata(source)
	if err != nil {
		return fmt.Errorf("refusing to install invalid module: %w", err)
	}

	path := filepath.Join(authorDir, name+".lua")
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		return fmt.Errorf("failed to write module: %w", err)
	}

	mod := &Module{Author: author, Name: name, Path: path, Source: source, Meta: meta}
	l.byFull[author+"/"+name] = mod

	list := l.byName[name]
	replaced := false
	for i, m := range list {
		if m.Author == author {
			list[i] = mod
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, mod)
	}
	l.byName[name] = list

	return nil
}

// Uninstall removes an installed module's source file and drops it from
// the in-memory index.
func (l *Local) Uninstall(author, name string) error {
	full := author + "/" + name
	mod, ok := l.byFull[full]
	if !ok {
		return fmt.Errorf("module not installed: %s", full)
	}

	if err := os.Remove(mod.Path); err != nil {
		return fmt.Errorf("failed to remove module: %w", err)
	}
	delete(l.byFull, full)

	list := l.byName[name]
	out := list[:0]
	for _, m := range list {
		if m.Author != author {
			out = append(out, m)
		}
	}
	l.byName[name] = out

	return nil
}
