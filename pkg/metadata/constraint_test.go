// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"testing"

	"github.com/dotindex/dotindex/pkg/valid"
)

func TestConstraint_Satisfies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		constraint string
		candidate  string
		want       bool
	}{
		{"~> 1.2", "1.2.0", true},
		{"~> 1.2", "1.2.9", true},
		{"~> 1.2", "1.9.9", true},
		{"~> 1.2", "2.0.0", false},
		{"~> 1.2", "1.1.9", false},
		{"~> 1.2.3", "1.2.3", true},
		{"~> 1.2.3", "1.2.10", true},
		{"~> 1.2.3", "1.3.0", false},
		{"~> 1", "1.99.0", true},
		{"~> 1", "2.0.0", false},
		{"= 1.0.0", "1.0.0", true},
		{"1.0", "1.0.0", true},
		{"== 1.0.0", "1.0.1", false},
		{"> 1.0", "1.0.1", true},
		{"> 1.0", "1.0.0", false},
		{">= 1.0", "1.0.0", true},
		{"< 2.0", "2.0.0-pre", true},
		{"< 2.0", "2.0.0", false},
		{"<= 2.0", "2.0.0", true},
		{">=0.9", "0.9.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint+"/"+tt.candidate, func(t *testing.T) {
			t.Parallel()
			c := MustParseConstraint(tt.constraint)
			if got := c.Satisfies(MustParseVersion(tt.candidate)); got != tt.want {
				t.Errorf("%q.Satisfies(%s) = %v, want %v", tt.constraint, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "~>", ">= x.y", "=> 1.0", "! 1.0"} {
		if _, err := ParseConstraint(s); err == nil {
			t.Errorf("ParseConstraint(%q) should fail", s)
		} else if !errors.Is(err, valid.ErrValidation) {
			t.Errorf("ParseConstraint(%q) error should wrap ErrValidation, got: %v", s, err)
		}
	}
}

func TestParseConstraints(t *testing.T) {
	t.Parallel()

	cs, err := ParseConstraints(">= 1.0, < 2.0")
	if err != nil {
		t.Fatalf("ParseConstraints() unexpected error: %v", err)
	}
	if got := JoinConstraints(cs); got != ">= 1.0, < 2.0" {
		t.Errorf("JoinConstraints() = %q, want %q", got, ">= 1.0, < 2.0")
	}
	if !SatisfiesAll(cs, MustParseVersion("1.5.0")) || SatisfiesAll(cs, MustParseVersion("2.1.0")) {
		t.Errorf("SatisfiesAll() does not honor both bounds")
	}

	list, err := ParseConstraints([]any{"~> 3.1", "!= 3.1.4"})
	if err == nil {
		t.Errorf("ParseConstraints() should reject unknown operator, got %v", list)
	}

	none, err := ParseConstraints("")
	if err != nil || len(none) != 0 {
		t.Errorf("ParseConstraints(\"\") = %v, %v; want empty", none, err)
	}
	if !SatisfiesAll(none, MustParseVersion("0.0.1")) {
		t.Error("an empty constraint list should admit any version")
	}
}

func TestOperator_IsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := OpApprox.IsValid(); !ok || len(errs) > 0 {
		t.Errorf("OpApprox.IsValid() = %v, %v", ok, errs)
	}
	ok, errs := Operator("=~").IsValid()
	if ok || len(errs) == 0 {
		t.Fatalf("Operator(\"=~\").IsValid() = %v, want false", ok)
	}
	var opErr *InvalidOperatorError
	if !errors.As(errs[0], &opErr) || !errors.Is(errs[0], ErrInvalidOperator) {
		t.Errorf("error should be *InvalidOperatorError wrapping ErrInvalidOperator, got: %v", errs[0])
	}
}

func TestMustParseConstraint_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParseConstraint() should panic on an invalid constraint")
		}
	}()
	MustParseConstraint("about 1.0")
}
