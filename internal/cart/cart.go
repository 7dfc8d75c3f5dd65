// Package cart holds the shopper's cart: a pure transition function over
// State, and a Store that serializes transitions and notifies observers.
//
// Products are digital goods, so a product appears at most once and its
// quantity is always 1.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"Storefront/internal/catalog"
)

// Product is the catalog record a cart line refers to.
type Product = catalog.Product

type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type State struct {
	Items  []Item
	IsOpen bool
}

// Action is one of the cart mutations below.
type Action interface{ isAction() }

type (
	AddItem    struct{ Product Product }
	RemoveItem struct{ ProductID string }
	ClearCart  struct{}
	OpenCart   struct{}
	CloseCart  struct{}
	ToggleCart struct{}
)

func (AddItem) isAction()    {}
func (RemoveItem) isAction() {}
func (ClearCart) isAction()  {}
func (OpenCart) isAction()   {}
func (CloseCart) isAction()  {}
func (ToggleCart) isAction() {}

// Reducer computes the state that follows an action.
type Reducer func(State, Action) State

// Reduce is the cart's transition function. It never modifies s.Items in
// place; a changed item list is always a fresh slice.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		if indexOf(s.Items, a.Product.ID) >= 0 {
			return s
		}
		items := make([]Item, 0, len(s.Items)+1)
		items = append(items, s.Items...)
		s.Items = append(items, Item{Product: a.Product, Quantity: 1})
	case RemoveItem:
		i := indexOf(s.Items, a.ProductID)
		if i < 0 {
			return s
		}
		s.Items = slices.Delete(slices.Clone(s.Items), i, i+1)
	case ClearCart:
		s.Items = []Item{}
	case OpenCart:
		s.IsOpen = true
	case CloseCart:
		s.IsOpen = false
	case ToggleCart:
		s.IsOpen = !s.IsOpen
	}
	return s
}

// Subtotal is the sum of item prices.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Product.Price))
	}
	return sum
}

// Total equals Subtotal: there is no discount, tax or promo model yet.
func Total(items []Item) decimal.Decimal {
	return Subtotal(items)
}

func indexOf(items []Item, productID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.Product.ID == productID })
}

func sameItems(a, b []Item) bool {
	return slices.EqualFunc(a, b, func(x, y Item) bool {
		return x.Product.ID == y.Product.ID && x.Quantity == y.Quantity
	})
}
