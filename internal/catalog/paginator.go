package catalog

import "sync"

// Paginator tracks how much of the catalog has been paged in.
type Paginator struct {
	mu       sync.Mutex
	catalog  *Catalog
	pageSize int
	page     int
}

func NewPaginator(c *Catalog, pageSize int) *Paginator {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Paginator{catalog: c, pageSize: pageSize, page: 1}
}

func (p *Paginator) Current() Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.catalog.Page(p.pageSize, p.page)
}

// LoadMore advances one page when more products remain and reports whether it did.
func (p *Paginator) LoadMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.catalog.Page(p.pageSize, p.page).HasMore {
		return false
	}
	p.page++
	return true
}

// Search filters the products already paged in. It never loads more pages.
func (p *Paginator) Search(query string) Page {
	page := p.Current()
	page.Products = Filter(page.Products, query)
	return page
}

func (p *Paginator) Catalog() *Catalog { return p.catalog }
