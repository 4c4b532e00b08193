package catalog

import (
	"sort"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Registry indexes recipes by exact ratio and by sku.
type Registry struct {
	byRatio map[types.PotionType]models.PotionRecipe
	bySKU   map[string]models.PotionRecipe
	ordered []models.PotionRecipe
}

// NewRegistry indexes recipes. A later recipe with a duplicate ratio replaces an earlier one.
func NewRegistry(recipes []models.PotionRecipe) *Registry {
	r := &Registry{
		byRatio: make(map[types.PotionType]models.PotionRecipe, len(recipes)),
		bySKU:   make(map[string]models.PotionRecipe, len(recipes)),
	}
	for _, recipe := range recipes {
		r.byRatio[recipe.PotionType()] = recipe
		r.bySKU[recipe.SKU] = recipe
	}
	for _, recipe := range r.bySKU {
		r.ordered = append(r.ordered, recipe)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].SKU < r.ordered[j].SKU })
	return r
}

// ByRatio finds the recipe whose ratio matches exactly.
func (r *Registry) ByRatio(ratio types.PotionType) (models.PotionRecipe, bool) {
	recipe, ok := r.byRatio[ratio]
	return recipe, ok
}

func (r *Registry) BySKU(sku string) (models.PotionRecipe, bool) {
	recipe, ok := r.bySKU[sku]
	return recipe, ok
}

// Recipes returns every recipe sorted by sku.
func (r *Registry) Recipes() []models.PotionRecipe {
	out := make([]models.PotionRecipe, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Len() int {
	return len(r.ordered)
}
