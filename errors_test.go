package text

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInvalidKeyErrorMessage(t *testing.T) {
	err := &InvalidKeyError{
		Path:     "home",
		Terminus: "subtitle",
		Location: Location{File: "/src/app/internal/views/home.go", Line: 42},
	}

	want := "i18n key home.subtitle does not exist.\n  Referenced from File: internal/views/home.go Line: 42"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q want %q", got, want)
	}
}

func TestInvalidKeyErrorAtRoot(t *testing.T) {
	err := &InvalidKeyError{Terminus: "greeting", Location: Location{File: "main.go", Line: 3}}

	if !strings.HasPrefix(err.Error(), "i18n key greeting does not exist.") {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !strings.HasSuffix(err.Error(), "Referenced from main.go:3") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestMissingPluralErrorMessage(t *testing.T) {
	err := &MissingPluralError{
		Path:     "errors.count",
		Terminus: 1,
		Location: Location{File: "/go/src/project/cmd/server/main.go", Line: 7},
	}

	lines := strings.Split(err.Error(), "\n")
	want := []string{
		"i18n key errors.count.1 appears to reference a pluralization.",
		"  Please append the plural indicator '!!pl' to the end of errors.count.",
		"  Referenced from File: cmd/server/main.go Line: 7",
	}
	if len(lines) != len(want) {
		t.Fatalf("Error() has %d lines, want %d: %q", len(lines), len(want), err.Error())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q want %q", i, lines[i], want[i])
		}
	}
}

func TestMissingPluralErrorAtRoot(t *testing.T) {
	err := &MissingPluralError{Terminus: 0}
	if !strings.Contains(err.Error(), "to the end of <root>.") {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !strings.HasSuffix(err.Error(), "Referenced from unknown") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	invalid := fmt.Errorf("render: %w", &InvalidKeyError{Path: "a", Terminus: "b"})
	plural := fmt.Errorf("render: %w", &MissingPluralError{Path: "a", Terminus: 2})

	if !errors.Is(invalid, ErrInvalidKey) || errors.Is(invalid, ErrMissingPlural) {
		t.Fatalf("InvalidKeyError matched wrong sentinel")
	}
	if !errors.Is(plural, ErrMissingPlural) || errors.Is(plural, ErrInvalidKey) {
		t.Fatalf("MissingPluralError matched wrong sentinel")
	}

	var target *MissingPluralError
	if !errors.As(plural, &target) || target.Terminus != 2 {
		t.Fatalf("errors.As MissingPluralError = %+v", target)
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{name: "zero", loc: Location{}, want: "unknown"},
		{name: "internal", loc: Location{File: "/home/dev/app/internal/ui/menu.go", Line: 12}, want: "File: internal/ui/menu.go Line: 12"},
		{name: "pkg", loc: Location{File: "/repo/pkg/a/b.go", Line: 1}, want: "File: pkg/a/b.go Line: 1"},
		{name: "plain", loc: Location{File: "/tmp/main.go", Line: 9}, want: "/tmp/main.go:9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.loc.String(); got != tc.want {
				t.Fatalf("String() = %q want %q", got, tc.want)
			}
		})
	}
}

func TestCallerLocation(t *testing.T) {
	loc := CallerLocation(0)
	if !strings.HasSuffix(loc.File, "errors_test.go") {
		t.Fatalf("File = %q", loc.File)
	}
	if loc.Line == 0 || loc.IsZero() {
		t.Fatalf("Line = %d", loc.Line)
	}

	if got := helperLocation(); got.Line != CallerLocation(0).Line {
		t.Fatalf("helperLocation().Line = %d want caller line", got.Line)
	}
}

func helperLocation() Location {
	return CallerLocation(1)
}
