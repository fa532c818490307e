package domain

import (
	"fmt"
	"strings"
)

// ShoppingListHeader is the first line of every rendered shopping list.
const ShoppingListHeader = "Shopping list:"

// ShoppingListLine is the summed amount of one (name, unit) pair across the cart.
type ShoppingListLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

// ShoppingList is the aggregated cart of a user, ordered by ingredient name.
type ShoppingList struct {
	Lines []ShoppingListLine `json:"lines"`
}

// Render formats the list as plain text: the header, a blank line, then numbered lines.
func (l *ShoppingList) Render() string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteString("\n\n")
	for i, line := range l.Lines {
		fmt.Fprintf(&b, "%d) %s - %d %s\n", i+1, line.Name, line.Amount, line.MeasurementUnit)
	}
	return b.String()
}
