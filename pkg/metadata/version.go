// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dotindex/dotindex/pkg/valid"
)

// versionRegex matches "major[.minor[.patch]][(.|-)build]" with an optional "v" prefix.
var versionRegex = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:[.-](` + buildPattern + `))?$`)

// buildPattern is the build label syntax shared by every input shape, so a
// canonical version string always parses back.
const buildPattern = `[0-9A-Za-z][0-9A-Za-z.-]*`

var buildRegex = regexp.MustCompile(`^` + buildPattern + `$`)

// Version is a project version number. Build is an optional free-form label;
// a version without a build label sorts after the same numeric triple with one.
type Version struct {
	Major int
	Minor int
	Patch int
	Build string
}

// ParseVersion builds a Version from a dotted/dashed string ("1.2.3",
// "1.2.3-beta", "1.2"), an ordered list of components ([1, 2, 3, "beta"]),
// or a mapping with major/minor/patch/build keys.
func ParseVersion(raw any) (Version, error) {
	return parseVersion(raw, "version")
}

// MustParseVersion is like ParseVersion but panics on error. Intended for
// literals in tests and tables.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseVersion(raw any, field string) (Version, error) {
	switch x := raw.(type) {
	case Version:
		return x, nil
	case *Version:
		if x == nil {
			return Version{}, valid.Invalid(field, raw, "version must not be nil")
		}
		return *x, nil
	case string:
		v, _, err := parseVersionString(x, field)
		return v, err
	}
	if m, ok := valid.AsHash(raw); ok {
		return versionFromHash(m, raw, field)
	}
	if l, ok := valid.AsList(raw); ok {
		return versionFromList(l, raw, field)
	}
	return Version{}, valid.Invalid(field, raw, "version must be a string, list or mapping")
}

// parseVersionString also reports how many numeric segments were written,
// which approximate constraints need.
func parseVersionString(s, field string) (Version, int, error) {
	m := versionRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, 0, valid.Invalid(field, s, "not a version number (expected major.minor.patch[-build])")
	}
	v := Version{Build: m[4]}
	segments := 1
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, 0, valid.Invalid(field, s, "major component out of range")
	}
	if m[2] != "" {
		segments++
		if v.Minor, err = strconv.Atoi(m[2]); err != nil {
			return Version{}, 0, valid.Invalid(field, s, "minor component out of range")
		}
	}
	if m[3] != "" {
		segments++
		if v.Patch, err = strconv.Atoi(m[3]); err != nil {
			return Version{}, 0, valid.Invalid(field, s, "patch component out of range")
		}
	}
	return v, segments, nil
}

func versionFromHash(m map[string]any, raw any, field string) (Version, error) {
	major, ok := m["major"]
	if !ok {
		return Version{}, valid.Invalid(field, raw, "version mapping requires a major component")
	}
	components := []any{major, m["minor"], m["patch"]}
	if b, ok := m["build"]; ok && b != nil {
		components = append(components, b)
	}
	return versionFromList(components, raw, field)
}

func versionFromList(l []any, raw any, field string) (Version, error) {
	if len(l) == 0 || len(l) > 4 {
		return Version{}, valid.Invalid(field, raw, "version list must have 1 to 4 components")
	}
	var nums [3]int
	for i := 0; i < 3 && i < len(l); i++ {
		if l[i] == nil {
			if i == 0 {
				return Version{}, valid.Invalid(field, raw, "major component is required")
			}
			continue
		}
		n, ok := toInt(l[i])
		if !ok {
			return Version{}, valid.Invalid(field, raw, "component %d must be a non-negative integer", i+1)
		}
		nums[i] = n
	}
	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}
	if len(l) == 4 && l[3] != nil {
		switch b := l[3].(type) {
		case string:
			v.Build = b
		default:
			n, ok := toInt(b)
			if !ok {
				return Version{}, valid.Invalid(field, raw, "build label must be a string")
			}
			v.Build = strconv.Itoa(n)
		}
		if v.Build != "" && !buildRegex.MatchString(v.Build) {
			return Version{}, valid.Invalid(field, raw, "build label %q must be letters, digits, dots and dashes", v.Build)
		}
	}
	return v, nil
}

// Compare returns -1, 0 or 1 when v sorts before, equal to, or after other.
// Ordering is numeric on (major, minor, patch); a release without a build
// label sorts after the same triple with one; build labels compare lexically.
func (v Version) Compare(other Version) int {
	if c := cmpInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmpInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	switch {
	case v.Build == other.Build:
		return 0
	case v.Build == "":
		return 1
	case other.Build == "":
		return -1
	default:
		return strings.Compare(v.Build, other.Build)
	}
}

// Equal reports whether all four components are equal.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// IsZero reports whether v is 0.0.0 without a build label.
func (v Version) IsZero() bool { return v == Version{} }

// String renders "major.minor.patch" or "major.minor.patch-build".
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Build != "" {
		s += "-" + v.Build
	}
	return s
}

// Canonical returns the serialized form of the version.
func (v Version) Canonical() any { return v.String() }

// Segments returns the components as an ordered list, build last when present.
func (v Version) Segments() []any {
	out := []any{v.Major, v.Minor, v.Patch}
	if v.Build != "" {
		out = append(out, v.Build)
	}
	return out
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
