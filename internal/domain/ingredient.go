package domain

// Ingredient is reference data: a product and the unit it is measured in.
// (name, measurement unit) is unique.
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientAmount is an ingredient together with the quantity a recipe needs.
type IngredientAmount struct {
	Ingredient
	Amount int `json:"amount"`
}
