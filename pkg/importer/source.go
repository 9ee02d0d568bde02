// SPDX-License-Identifier: MPL-2.0

package importer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is one origin of metadata. Exactly one of Path, Data or Descriptor
// is set. Explicit sources were named by the user: failing to recognize one
// is an error, while implicit (discovered) sources are skipped.
type Source struct {
	Path       string
	Data       map[string]any
	Descriptor *Gemspec
	Label      string
	Explicit   bool
}

// PathSource returns an explicit source for a file or directory.
func PathSource(path string) Source {
	return Source{Path: path, Explicit: true}
}

// PathSources returns explicit sources for every path.
func PathSources(paths ...string) []Source {
	out := make([]Source, len(paths))
	for i, p := range paths {
		out[i] = PathSource(p)
	}
	return out
}

// DiscoveredSource returns an implicit source for a file or directory.
func DiscoveredSource(path string) Source {
	return Source{Path: path}
}

// DataSource returns an explicit source for an already decoded mapping.
func DataSource(label string, data map[string]any) Source {
	return Source{Data: data, Label: label, Explicit: true}
}

// DescriptorSource returns an explicit source for an in-memory gemspec.
func DescriptorSource(label string, spec *Gemspec) Source {
	return Source{Descriptor: spec, Label: label, Explicit: true}
}

// Name identifies the source in errors and reports.
func (s Source) Name() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.Path != "":
		return s.Path
	case s.Descriptor != nil:
		return "gemspec"
	default:
		return "data"
	}
}

// ext returns the lower-cased extension of a path source.
func (s Source) ext() string {
	return strings.ToLower(filepath.Ext(s.Path))
}

// stat reports whether the path exists and is a directory. A missing path is
// not an error; the source is simply not recognized.
func (s Source) stat() (exists, dir bool, err error) {
	if s.Path == "" {
		return false, false, nil
	}
	info, err := os.Stat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, info.IsDir(), nil
}

// isFile reports whether the source is an existing regular path with one of
// the given extensions.
func (s Source) isFile(exts ...string) (bool, error) {
	exists, dir, err := s.stat()
	if err != nil || !exists || dir {
		return false, err
	}
	ext := s.ext()
	for _, e := range exts {
		if ext == e {
			return true, nil
		}
	}
	return false, nil
}
