// Package templates holds the category trees a new project can be seeded with.
package templates

import "sort"

// Names of the built-in templates.
const (
	Empty   = "empty"
	Default = "default"
)

// Category is one seeded category. Children are created below it.
type Category struct {
	Name     string
	Color    string
	Order    int
	Children []Category
}

// Template is a named list of root categories.
type Template struct {
	Name  string
	Roots []Category
}

var registry = map[string]Template{
	Empty: {Name: Empty},
	Default: {
		Name: Default,
		Roots: []Category{
			{Name: "Income", Color: "#2E7D32", Order: 1},
			{Name: "Mandatory", Color: "#C62828", Order: 2},
			{Name: "Optional", Color: "#F9A825", Order: 3},
			{Name: "Savings", Color: "#1565C0", Order: 4},
		},
	},
}

// Lookup returns the template registered under name.
func Lookup(name string) (Template, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names lists the registered template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size counts every category the template creates.
func (t Template) Size() int {
	n := 0
	var walk func([]Category)
	walk = func(cs []Category) {
		for _, c := range cs {
			n++
			walk(c.Children)
		}
	}
	walk(t.Roots)
	return n
}
