package text

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func loadFixtureTree(t *testing.T, file, locale string) *Tree {
	t.Helper()
	translations, err := NewFileLoader(filepath.Join("testdata", file)).Load()
	if err != nil {
		t.Fatalf("Load(%s): %v", file, err)
	}
	tree, ok := translations[locale]
	if !ok {
		t.Fatalf("%s has no %s tree", file, locale)
	}
	return tree
}

func TestValidateReportsUnmarkedPlurals(t *testing.T) {
	err := Validate(loadFixtureTree(t, "en.yml", "en"))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var plural *MissingPluralError
	if !errors.As(err, &plural) {
		t.Fatalf("Validate err = %v want *MissingPluralError", err)
	}
	if plural.Path != "errors.count" || plural.Terminus != 1 {
		t.Fatalf("MissingPluralError = {%q %d} want {errors.count 1}", plural.Path, plural.Terminus)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 1 {
		t.Fatalf("expected exactly one finding, got %v", err)
	}
}

func TestValidateCleanTree(t *testing.T) {
	if err := Validate(loadFixtureTree(t, "es.json", "es")); err != nil {
		t.Fatalf("Validate(es) = %v", err)
	}
	if err := Validate(nil); !errors.Is(err, ErrNilNode) {
		t.Fatalf("Validate(nil) = %v want ErrNilNode", err)
	}
}

func TestValidateReportsEveryBadNode(t *testing.T) {
	tree := mustTree(t, "en", map[string]any{
		"a":     map[int]string{2: "x", 3: "y"},
		"b":     map[string]any{"c": map[int]string{7: "z"}},
		"plain": "ok",
	})

	err := Validate(tree)
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate err = %v", err)
	}

	var paths []string
	for _, finding := range joined.Unwrap() {
		var plural *MissingPluralError
		if !errors.As(finding, &plural) {
			t.Fatalf("unexpected finding %v", finding)
		}
		paths = append(paths, plural.Path)
	}
	if !reflect.DeepEqual(paths, []string{"a", "b.c"}) {
		t.Fatalf("findings = %v", paths)
	}
}

func TestWalk(t *testing.T) {
	var paths []string
	err := Walk(loadFixtureTree(t, "en.yml", "en"), func(path string, node Node) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{
		"greeting",
		"errors.not_found",
		"files",
		"app.title",
		"app.empty",
		"app.nothing",
		"app.defaults.save",
		"app.form.save",
		"app.form.cancel",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("Walk paths = %v want %v", paths, want)
	}
}

func TestWalkStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Walk(loadFixtureTree(t, "en.yml", "en"), func(path string, node Node) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("Walk err = %v after %d calls", err, calls)
	}
}
