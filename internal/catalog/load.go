package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

//go:embed data/products.json
var defaultCatalog []byte

var ErrInvalidProduct = errors.New("invalid product")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load accepts either {"products": [...]} or a bare JSON array.
// Every record is validated; the first bad one fails the load.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	var products []Product
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &products)
	} else {
		var doc struct {
			Products []Product `json:"products"`
		}
		err = json.Unmarshal(raw, &doc)
		products = doc.Products
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[int64]struct{}, len(products))
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w at index %d: %v", ErrInvalidProduct, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w at index %d: duplicate id %d", ErrInvalidProduct, i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return New(products), nil
}
