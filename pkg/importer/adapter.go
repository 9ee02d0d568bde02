// SPDX-License-Identifier: MPL-2.0

package importer

type (
	// Prior is the view an adapter gets of the fields contributed by earlier
	// sources.
	Prior interface {
		Has(field string) bool
	}

	// Adapter turns one kind of source into a raw field mapping. TryImport
	// returns ok=false when the adapter does not recognize the source; an
	// error means the source was recognized but could not be read.
	Adapter interface {
		Name() string
		TryImport(src Source, prior Prior) (raw map[string]any, ok bool, err error)
	}

	fields map[string]any
)

// Has implements Prior.
func (f fields) Has(field string) bool {
	v, ok := f[field]
	return ok && v != nil
}

// DefaultAdapters returns the adapters in the order they are tried.
func DefaultAdapters() []Adapter {
	return []Adapter{
		DirectoryAdapter{},
		DocumentAdapter{},
		HTMLAdapter{},
		GemspecAdapter{},
	}
}
