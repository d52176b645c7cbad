// Package layer owns the chart layer catalog, per-layer visibility state,
// dependency-gated toggling and deterministic draw ordering.
package layer

import (
	"errors"
	"fmt"
	"strings"
)

// ID identifies a layer. The set is closed; see the constants below.
type ID string

const (
	Zodiac      ID = "zodiac"
	Houses      ID = "houses"
	Planets     ID = "planets"
	Aspects     ID = "aspects"
	Degrees     ID = "degrees"
	Labels      ID = "labels"
	Nodes       ID = "nodes"
	Chiron      ID = "chiron"
	Asteroids   ID = "asteroids"
	ArabicParts ID = "arabicParts"
	FixedStars  ID = "fixedStars"
)

// ParseID matches a layer name case-insensitively against the catalog ids.
func ParseID(s string) (ID, bool) {
	for _, c := range defaultCatalog {
		if strings.EqualFold(string(c.ID), s) {
			return c.ID, true
		}
	}
	return "", false
}

// Category groups layers in settings UIs. It has no effect on behaviour.
type Category string

const (
	CategoryCore       Category = "core"
	CategoryAdditional Category = "additional"
	CategoryAdvanced   Category = "advanced"
)

// Config is the static description of a layer.
type Config struct {
	ID             ID
	Name           string
	Description    string
	ZIndex         int // lower paints first
	DefaultVisible bool
	Category       Category
	Dependencies   []ID // must be visible before this layer can be shown
}

var defaultCatalog = []Config{
	{
		ID: Zodiac, Name: "Zodiac Ring", ZIndex: 1, DefaultVisible: true, Category: CategoryCore,
		Description: "The twelve signs around the outer ring",
	},
	{
		ID: Houses, Name: "House Cusps", ZIndex: 2, DefaultVisible: true, Category: CategoryCore,
		Description: "House divisions and the chart angles",
	},
	{
		ID: Planets, Name: "Planets", ZIndex: 5, DefaultVisible: true, Category: CategoryCore,
		Description: "Sun, Moon and planets",
	},
	{
		ID: Aspects, Name: "Aspects", ZIndex: 4, DefaultVisible: true, Category: CategoryCore,
		Description:  "Aspect lines between planets",
		Dependencies: []ID{Planets},
	},
	{
		ID: Degrees, Name: "Degree Markers", ZIndex: 3, DefaultVisible: false, Category: CategoryAdditional,
		Description:  "Tick marks every five degrees",
		Dependencies: []ID{Zodiac},
	},
	{
		ID: Labels, Name: "Labels", ZIndex: 6, DefaultVisible: true, Category: CategoryAdditional,
		Description:  "Degree and retrograde labels beside planets",
		Dependencies: []ID{Planets},
	},
	{
		ID: Nodes, Name: "Lunar Nodes", ZIndex: 5, DefaultVisible: false, Category: CategoryAdditional,
		Description: "North and south lunar nodes",
	},
	{
		ID: Chiron, Name: "Chiron", ZIndex: 5, DefaultVisible: false, Category: CategoryAdditional,
		Description: "Chiron",
	},
	{
		ID: Asteroids, Name: "Asteroids", ZIndex: 5, DefaultVisible: false, Category: CategoryAdvanced,
		Description: "Ceres, Pallas, Juno and Vesta",
	},
	{
		ID: ArabicParts, Name: "Arabic Parts", ZIndex: 5, DefaultVisible: false, Category: CategoryAdvanced,
		Description:  "Lots computed from the angles, such as the Part of Fortune",
		Dependencies: []ID{Houses},
	},
	{
		ID: FixedStars, Name: "Fixed Stars", ZIndex: 3, DefaultVisible: false, Category: CategoryAdvanced,
		Description:  "Bright fixed stars projected onto the ecliptic",
		Dependencies: []ID{Zodiac},
	},
}

// DefaultCatalog returns a copy of the built-in layer catalog in catalog order.
func DefaultCatalog() []Config {
	out := make([]Config, len(defaultCatalog))
	for i, c := range defaultCatalog {
		c.Dependencies = append([]ID(nil), c.Dependencies...)
		out[i] = c
	}
	return out
}

// ErrInvalidCatalog is wrapped by ValidateCatalog failures.
var ErrInvalidCatalog = errors.New("invalid layer catalog")

// ValidateCatalog checks authoring mistakes: duplicate ids, dependencies on
// unknown layers and direct self-dependencies. Longer cycles are not detected.
func ValidateCatalog(catalog []Config) error {
	seen := make(map[ID]bool, len(catalog))
	for _, c := range catalog {
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalidCatalog, c.ID)
		}
		seen[c.ID] = true
	}
	for _, c := range catalog {
		for _, dep := range c.Dependencies {
			if dep == c.ID {
				return fmt.Errorf("%w: layer %q depends on itself", ErrInvalidCatalog, c.ID)
			}
			if !seen[dep] {
				return fmt.Errorf("%w: layer %q depends on unknown layer %q", ErrInvalidCatalog, c.ID, dep)
			}
		}
	}
	return nil
}
