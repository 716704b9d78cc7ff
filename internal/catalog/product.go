package catalog

type Product struct {
	ID                 int64     `json:"id" validate:"required"`
	Title              string    `json:"title" validate:"required"`
	Brand              string    `json:"brand"`
	Category           string    `json:"category" validate:"required"`
	Description        string    `json:"description"`
	Price              float64   `json:"price" validate:"gte=0"`
	DiscountPercentage float64   `json:"discountPercentage" validate:"gte=0,lte=100"`
	Rating             float64   `json:"rating" validate:"gte=0,lte=5"`
	Stock              int       `json:"stock" validate:"gte=0"`
	Thumbnail          string    `json:"thumbnail"`
	Images             []*string `json:"images"`
}

// DiscountedPrice is the unit price after the percentage discount.
func (p Product) DiscountedPrice() float64 {
	return p.Price - p.Price*p.DiscountPercentage/100
}

// Gallery drops null image entries and falls back to the thumbnail when none remain.
func (p Product) Gallery() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img != nil {
			out = append(out, *img)
		}
	}
	if len(out) == 0 && p.Thumbnail != "" {
		out = append(out, p.Thumbnail)
	}
	return out
}
