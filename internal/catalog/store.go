package catalog

import (
	"slices"
	"strings"
)

type Category string

const (
	CategoryWealthBuilding    Category = "Wealth Building"
	CategoryRealEstate        Category = "Real Estate"
	CategoryHomebuying        Category = "Homebuying"
	CategoryEmergencyPlanning Category = "Emergency Planning"
)

// Product is a downloadable item. Price is assumed to be at most
// OriginalPrice; nothing enforces it.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Price           float64  `json:"price"`
	OriginalPrice   float64  `json:"originalPrice"`
	Category        Category `json:"category"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Author          string   `json:"author"`
	CoverImage      string   `json:"coverImage"`
	Includes        []string `json:"includes"`
	Templates       *int     `json:"templates,omitempty"`
	FileFormat      []string `json:"fileFormat"`
	Featured        bool     `json:"featured"`
	Bestseller      bool     `json:"bestseller"`
	Tags            []string `json:"tags"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewCount"`
}

// Catalog is an immutable product list. Every accessor returns copies, so
// callers cannot change what other callers see.
type Catalog struct {
	products []Product
	byID     map[string]int
	bySlug   map[string]int
}

// New indexes products. On a duplicate slug or id the first product wins.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.bySlug[p.Slug]; dup {
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.bySlug[p.Slug] = len(c.products)
		c.products = append(c.products, clone(p))
	}
	return c
}

func (c *Catalog) All() []Product {
	return c.filter(func(Product) bool { return true })
}

func (c *Catalog) ByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return clone(c.products[i]), true
}

func (c *Catalog) BySlug(slug string) (Product, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return clone(c.products[i]), true
}

func (c *Catalog) ByCategory(category string) []Product {
	return c.filter(func(p Product) bool { return string(p.Category) == category })
}

func (c *Catalog) Featured() []Product {
	return c.filter(func(p Product) bool { return p.Featured })
}

func (c *Catalog) Bestsellers() []Product {
	return c.filter(func(p Product) bool { return p.Bestseller })
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, 4)
	for _, p := range c.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

func clone(p Product) Product {
	p.Includes = slices.Clone(p.Includes)
	p.FileFormat = slices.Clone(p.FileFormat)
	p.Tags = slices.Clone(p.Tags)
	if p.Templates != nil {
		n := *p.Templates
		p.Templates = &n
	}
	return p
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
