// Package catalog serves the static product list: prefix pagination, search and lookup.
package catalog

import (
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// Catalog is read-only after construction.
type Catalog struct {
	products []Product
}

func New(products []Product) *Catalog {
	cp := make([]Product, len(products))
	copy(cp, products)
	return &Catalog{products: cp}
}

func (c *Catalog) Len() int { return len(c.products) }

type Page struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	HasMore  bool      `json:"has_more"`
	Total    int       `json:"total"`
}

// Page returns the first pageSize*pageNumber products. It is a growing
// prefix, not a window.
func (c *Catalog) Page(pageSize, pageNumber int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	n := pageSize * pageNumber
	if n > len(c.products) {
		n = len(c.products)
	}
	visible := make([]Product, n)
	copy(visible, c.products[:n])
	return Page{
		Products: visible,
		Page:     pageNumber,
		HasMore:  n < len(c.products),
		Total:    len(c.products),
	}
}

// FindByID matches on the string form of the id.
func (c *Catalog) FindByID(id string) (Product, bool) {
	id = strings.TrimSpace(id)
	for _, p := range c.products {
		if strconv.FormatInt(p.ID, 10) == id {
			return p, true
		}
	}
	return Product{}, false
}
