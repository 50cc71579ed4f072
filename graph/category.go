package graph

import (
	"sort"
	"strings"

	"github.com/cloudblocks/tfgen/suggest"
	"github.com/pkg/errors"
)

// A Category is the kind of a high-level resource. The set of categories is
// closed; code switching on a Category handles every value.
type Category int

// Supported categories.
const (
	Compute Category = iota + 1
	ContainerCompute
	Storage
	Database
	Internet
	ThirdParty
)

var categoryNames = map[Category]string{
	Compute:          "compute",
	ContainerCompute: "container_compute",
	Storage:          "storage",
	Database:         "database",
	Internet:         "internet",
	ThirdParty:       "third_party",
}

// Alternative spellings accepted in mapping files.
var categoryAliases = map[string]Category{
	"docker": ContainerCompute,
	"db":     Database,
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

// CategoryNames returns the canonical names of all categories, sorted.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryNames))
	for _, n := range categoryNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseCategory parses a category name. Matching is case insensitive.
func ParseCategory(s string) (Category, error) {
	lower := strings.ToLower(s)
	for c, n := range categoryNames {
		if n == lower {
			return c, nil
		}
	}
	if c, ok := categoryAliases[lower]; ok {
		return c, nil
	}
	return 0, errors.Errorf("unknown category %q%s", s, suggest.DidYouMean(s, CategoryNames()))
}

// A Direction is the direction of a binding, relative to the resource that
// declares it.
type Direction int

// Binding directions.
const (
	To Direction = iota + 1
	From
	Both
)

func (d Direction) String() string {
	switch d {
	case To:
		return "to"
	case From:
		return "from"
	case Both:
		return "both"
	}
	return "unknown"
}

// ParseDirection parses a binding direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "to":
		return To, nil
	case "from":
		return From, nil
	case "both":
		return Both, nil
	}
	return 0, errors.Errorf("unknown binding direction %q, must be one of: to, from, both", s)
}
