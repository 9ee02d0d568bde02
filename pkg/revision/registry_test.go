// SPDX-License-Identifier: MPL-2.0

package revision

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dotindex/dotindex/pkg/metadata"
)

func TestUpconvert_Revision0(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"name":         "widget",
		"version":      "1.0.0",
		"source":       "VERSION",
		"load_path":    []any{"lib"},
		"requires":     []any{"ansi"},
		"dependencies": map[string]any{"rake": ">= 10"},
		"organization": "Rubyworks",
	}
	got, err := Upconvert(raw)
	if err != nil {
		t.Fatalf("Upconvert() unexpected error: %v", err)
	}
	want := map[string]any{
		"revision":      metadata.Revision,
		"name":          "widget",
		"version":       "1.0.0",
		"sources":       "VERSION",
		"paths":         map[string]any{"lib": []any{"lib"}},
		"requirements":  []any{"ansi", []any{"rake", ">= 10"}},
		"organizations": []any{map[string]any{"name": "Rubyworks"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Upconvert() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := raw["revision"]; ok {
		t.Error("Upconvert() must not modify its input")
	}

	d, err := metadata.New(got)
	if err != nil {
		t.Fatalf("metadata.New(upconverted) unexpected error: %v", err)
	}
	if len(d.Requirements()) != 2 || d.Organizations()[0].Name != "Rubyworks" {
		t.Errorf("upconverted document = %v / %v", d.Requirements(), d.Organizations())
	}
}

func TestUpconvert_NameAndVersionOnly(t *testing.T) {
	t.Parallel()

	got, err := Upconvert(map[string]any{"name": "widget", "version": "0.1.0"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"revision": metadata.Revision, "name": "widget", "version": "0.1.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Upconvert() must not invent fields (-want +got):\n%s", diff)
	}

	d, err := metadata.New(got)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(metadata.Empty().Paths(), d.Paths()); diff != "" {
		t.Errorf("untouched paths should keep the default (-want +got):\n%s", diff)
	}
	if len(d.Authors()) != 0 || d.Summary() != "" {
		t.Error("untouched optional fields should keep their defaults")
	}
}

func TestUpconvert_CurrentIsUnchanged(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"revision": metadata.Revision, "sources": []any{"a"}, "organizations": []any{}}
	got, err := Upconvert(raw)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(raw, got); diff != "" {
		t.Errorf("current revision should pass through (-want +got):\n%s", diff)
	}
}

func TestUpconvert_Unsupported(t *testing.T) {
	t.Parallel()

	for name, rev := range map[string]any{
		"future":      metadata.Revision + 1,
		"negative":    -1,
		"fractional":  0.5,
		"string":      "1",
		"json_future": float64(metadata.Revision + 5),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Upconvert(map[string]any{"revision": rev})
			if !errors.Is(err, ErrUnsupportedRevision) {
				t.Fatalf("Upconvert(revision=%v) error = %v, want ErrUnsupportedRevision", rev, err)
			}
			var revErr *UnsupportedRevisionError
			if !errors.As(err, &revErr) || revErr.Current != metadata.Revision {
				t.Errorf("error should be *UnsupportedRevisionError with current revision, got: %v", err)
			}
		})
	}

	if _, err := Upconvert(map[string]any{"revision": float64(0)}); err != nil {
		t.Errorf("integral JSON revision should be accepted, got: %v", err)
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(1, Schema{Revision: 1}); !errors.Is(err, ErrInvalidRegistry) {
		t.Errorf("missing revision 0 should be rejected, got: %v", err)
	}
	if _, err := NewRegistry(1, Schema{Revision: 0}, Schema{Revision: 1}); !errors.Is(err, ErrInvalidRegistry) {
		t.Errorf("revision without a step should be rejected, got: %v", err)
	}

	bump := func(raw map[string]any) map[string]any {
		out := map[string]any{}
		for k, v := range raw {
			out["x_"+k] = v
		}
		return out
	}
	r, err := NewRegistry(2,
		Schema{Revision: 0, Step: bump},
		Schema{Revision: 1, Step: bump},
		Schema{Revision: 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Upconvert(map[string]any{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"x_x_a": 1, "revision": 2}, got); diff != "" {
		t.Errorf("steps should apply in order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, r.Revisions()); diff != "" {
		t.Errorf("Revisions() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_Fields(t *testing.T) {
	t.Parallel()

	fields, ok := Default().Fields(metadata.Revision)
	if !ok {
		t.Fatal("current revision is not registered")
	}
	if diff := cmp.Diff(metadata.Fields(), fields); diff != "" {
		t.Errorf("current schema fields mismatch (-want +got):\n%s", diff)
	}
	if _, ok := Default().Fields(0); !ok {
		t.Error("revision 0 is not registered")
	}
}
