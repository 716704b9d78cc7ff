// Package cart holds the in-memory cart: one line per product, derived totals.
package cart

import (
	"sync"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

// Line is one product's aggregated quantity. Display fields are copied at add time.
type Line struct {
	ProductID          int64   `json:"product_id"`
	Title              string  `json:"title"`
	Brand              string  `json:"brand"`
	Category           string  `json:"category"`
	Thumbnail          string  `json:"thumbnail"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Quantity           int     `json:"quantity"`
}

func (l Line) UnitPrice() float64 {
	return l.Price - l.Price*l.DiscountPercentage/100
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}

type Snapshot struct {
	Lines []Line
	Total float64
	Count int
}

// Engine is safe for concurrent use. Quantity is always >= 1 for a stored line.
type Engine struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Engine { return &Engine{} }

func (e *Engine) indexOf(productID int64) int {
	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (e *Engine) Add(p catalog.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.add(p)
}

// AddN behaves like n calls to Add. n below 1 counts as 1.
func (e *Engine) AddN(p catalog.Product, n int) {
	if n < 1 {
		n = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < n; i++ {
		e.add(p)
	}
}

func (e *Engine) add(p catalog.Product) {
	if i := e.indexOf(p.ID); i >= 0 {
		e.lines[i].Quantity++
		return
	}
	e.lines = append(e.lines, Line{
		ProductID:          p.ID,
		Title:              p.Title,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Quantity:           1,
	})
}

func (e *Engine) Remove(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(productID); i >= 0 {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	}
}

func (e *Engine) Increase(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(productID); i >= 0 {
		e.lines[i].Quantity++
	}
}

// Decrease drops the line instead of letting its quantity reach zero.
func (e *Engine) Decrease(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(productID)
	if i < 0 {
		return
	}
	if e.lines[i].Quantity > 1 {
		e.lines[i].Quantity--
		return
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
}

func (e *Engine) Clear() {
	e.mu.Lock()
	e.lines = nil
	e.mu.Unlock()
}

func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Total is unrounded; round only for display.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return total(e.lines)
}

func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return count(e.lines)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return Snapshot{Lines: out, Total: total(e.lines), Count: count(e.lines)}
}

// Drain returns the snapshot and empties the cart in one step.
func (e *Engine) Drain() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{Lines: e.lines, Total: total(e.lines), Count: count(e.lines)}
	e.lines = nil
	return s
}

func total(lines []Line) float64 {
	var t float64
	for _, l := range lines {
		t += l.Subtotal()
	}
	return t
}

func count(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
