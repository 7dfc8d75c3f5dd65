package storefront

import (
	"Storefront/internal/cart"
	"Storefront/internal/checkout"
)

// CartView is the JSON shape of a cart. Money is rendered with two decimals.
type CartView struct {
	Items     []cart.Item `json:"items"`
	IsOpen    bool        `json:"isOpen"`
	ItemCount int         `json:"itemCount"`
	Subtotal  string      `json:"subtotal"`
	Total     string      `json:"total"`
}

func viewOf(st cart.State) CartView {
	items := st.Items
	if items == nil {
		items = []cart.Item{}
	}
	return CartView{
		Items:     items,
		IsOpen:    st.IsOpen,
		ItemCount: len(items),
		Subtotal:  cart.Subtotal(items).StringFixed(2),
		Total:     cart.Total(items).StringFixed(2),
	}
}

func sessionItems(items []cart.Item) []checkout.SessionItem {
	out := make([]checkout.SessionItem, 0, len(items))
	for _, it := range items {
		out = append(out, checkout.SessionItem{
			ID:         it.Product.ID,
			Name:       it.Product.Name,
			Price:      it.Product.Price,
			CoverImage: it.Product.CoverImage,
		})
	}
	return out
}
