package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter keeps products whose title, brand or category contains query,
// ignoring case. A blank query returns products unchanged.
func Filter(products []Product, query string) []Product {
	if strings.TrimSpace(query) == "" {
		return products
	}
	fold := cases.Fold()
	q := fold.String(query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Title), q) ||
			strings.Contains(fold.String(p.Brand), q) ||
			strings.Contains(fold.String(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}
