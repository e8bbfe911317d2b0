package shopping

import (
	"fmt"
	"strings"
)

// Render converts the aggregated totals into the plain-text document served
// as the downloadable shopping list, one "name - amount unit" line per row.
func Render(totals []LineTotal) []byte {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "%s - %d %s\n", t.IngredientName, t.Amount, t.MeasurementUnit)
	}
	return []byte(b.String())
}
