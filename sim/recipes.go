package sim

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Station names for the five-station kitchen.
const (
	StationWoodGrill = "wood_grill"
	StationSalad     = "salad_station"
	StationSautee    = "sautee_station"
	StationTortilla  = "tortilla_station"
	StationGuac      = "guac_station"
)

// RecipeComponent is one station visit in a recipe: the component is
// prepared at Station with a lognormal(Mu, Sigma) prep time. All components
// of a dish cook in parallel.
type RecipeComponent struct {
	Station string  `yaml:"station"`
	Mu      float64 `yaml:"mu"`
	Sigma   float64 `yaml:"sigma"`
}

// Recipes maps dish type -> component list.
type Recipes map[string][]RecipeComponent

// CatalogEntry holds per-dish pricing and copy for the menu catalog.
type CatalogEntry struct {
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
}

// MenuCatalog maps dish type -> catalog entry.
type MenuCatalog map[string]CatalogEntry

// DefaultRecipes returns the built-in Mexican menu.
func DefaultRecipes() Recipes {
	return Recipes{
		"taco": {
			{Station: StationTortilla, Mu: 1.5, Sigma: 0.3},
			{Station: StationGuac, Mu: 1.0, Sigma: 0.2},
			{Station: StationSautee, Mu: 2.0, Sigma: 0.4},
		},
		"burrito": {
			{Station: StationTortilla, Mu: 2.0, Sigma: 0.4},
			{Station: StationGuac, Mu: 1.2, Sigma: 0.25},
			{Station: StationSautee, Mu: 2.5, Sigma: 0.5},
		},
		"quesadilla": {
			{Station: StationTortilla, Mu: 2.5, Sigma: 0.4},
			{Station: StationSautee, Mu: 1.5, Sigma: 0.3},
		},
		"salad": {
			{Station: StationSalad, Mu: 3.0, Sigma: 0.5},
		},
		"grilled_protein": {
			{Station: StationWoodGrill, Mu: 5.0, Sigma: 1.0},
		},
		"nachos": {
			{Station: StationTortilla, Mu: 1.0, Sigma: 0.2},
			{Station: StationGuac, Mu: 1.5, Sigma: 0.3},
			{Station: StationSautee, Mu: 1.5, Sigma: 0.3},
		},
		"bowl": {
			{Station: StationSalad, Mu: 1.5, Sigma: 0.3},
			{Station: StationGuac, Mu: 1.0, Sigma: 0.2},
			{Station: StationSautee, Mu: 2.0, Sigma: 0.4},
		},
	}
}

// DefaultMenuDistribution returns the built-in ordering probabilities.
func DefaultMenuDistribution() map[string]float64 {
	return map[string]float64{
		"taco":            0.30,
		"burrito":         0.25,
		"quesadilla":      0.15,
		"salad":           0.10,
		"grilled_protein": 0.05,
		"nachos":          0.10,
		"bowl":            0.05,
	}
}

// LoadRecipes reads a recipes YAML file.
func LoadRecipes(path string) (Recipes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	var r Recipes
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	return r, nil
}

// ValidateRecipes checks recipe structure before a run: every dish has at
// least one component, stations are known, and timing parameters are
// positive. The engine assumes this has passed.
func ValidateRecipes(r Recipes, stationNames []string) error {
	valid := make(map[string]bool, len(stationNames))
	for _, name := range stationNames {
		valid[name] = true
	}
	for dishType, components := range r {
		if len(components) == 0 {
			return fmt.Errorf("dish %q has no components", dishType)
		}
		for _, c := range components {
			if !valid[c.Station] {
				return fmt.Errorf("unknown station %q in dish %q", c.Station, dishType)
			}
			if c.Mu <= 0 || c.Sigma <= 0 {
				return fmt.Errorf("invalid prep time parameters for %q in dish %q", c.Station, dishType)
			}
		}
	}
	return nil
}

// NormalizeMenuDistribution returns a normalized copy of dist, or a uniform
// distribution over the recipes when dist is nil.
func NormalizeMenuDistribution(dist map[string]float64, r Recipes) map[string]float64 {
	out := make(map[string]float64)
	if dist == nil {
		n := float64(len(r))
		for k := range r {
			out[k] = 1.0 / n
		}
		return out
	}
	total := 0.0
	for _, v := range dist {
		total += v
	}
	for k, v := range dist {
		out[k] = v / total
	}
	return out
}

// SelectDishType draws a dish type from the menu distribution. Dish types
// are scanned in sorted order so the draw is reproducible across runs
// despite map iteration order.
func SelectDishType(s *Sampler, dist map[string]float64) string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	weights := make([]float64, len(keys))
	for i, k := range keys {
		weights[i] = dist[k]
	}
	return s.WeightedChoice(keys, weights)
}

// DishComponents returns the recipe for dishType, falling back to a single
// sautee-station component for unknown types.
func DishComponents(dishType string, r Recipes) []RecipeComponent {
	if components, ok := r[dishType]; ok {
		return components
	}
	return []RecipeComponent{{Station: StationSautee, Mu: 2.0, Sigma: 0.5}}
}
