package templates

import (
	"regexp"
	"testing"
)

func TestLookup(t *testing.T) {
	t.Run("default_has_four_roots", func(t *testing.T) {
		tpl, ok := Lookup(Default)
		if !ok {
			t.Fatal("default template missing")
		}
		if tpl.Size() != 4 {
			t.Errorf("Size() = %d, want 4", tpl.Size())
		}
		hex := regexp.MustCompile(`^#[0-9A-F]{6}$`)
		for i, c := range tpl.Roots {
			if c.Order != i+1 {
				t.Errorf("%s order = %d, want %d", c.Name, c.Order, i+1)
			}
			if !hex.MatchString(c.Color) {
				t.Errorf("%s color %q is not hex", c.Name, c.Color)
			}
		}
	})

	t.Run("empty_seeds_nothing", func(t *testing.T) {
		tpl, ok := Lookup(Empty)
		if !ok || tpl.Size() != 0 {
			t.Errorf("Lookup(empty) = %+v, %v", tpl, ok)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, ok := Lookup("household"); ok {
			t.Error("Lookup(household) found a template")
		}
	})
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != Default || names[1] != Empty {
		t.Errorf("Names() = %v", names)
	}
}
