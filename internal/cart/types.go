package cart

import "github.com/kdquach/thetrois-backend/pkg/enums"

// Placeholder shown when the backend drops the product name from a line item.
const fallbackProductName = "Sản phẩm"

// Customization is the size/ice/sugar bundle attached to a cart line.
type Customization struct {
	Size        enums.Size `json:"size"`
	Ice         int        `json:"ice"`
	Sugar       int        `json:"sugar"`
	Description string     `json:"description,omitempty"`
}

// DefaultCustomization is applied when a line arrives without one.
func DefaultCustomization() Customization {
	return Customization{Size: enums.SizeS, Ice: 100, Sugar: 100}
}

// ToppingRef is a flattened topping reference on a cart line. Quantity is the
// topping's own count, independent of the line quantity.
type ToppingRef struct {
	ToppingID string `json:"toppingId"`
	Name      string `json:"name,omitempty"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Item is one product-plus-customization entry in a cart. Line identity is
// assigned by the backend and never reused across removes.
type Item struct {
	ID            string        `json:"id"`
	ProductID     string        `json:"productId"`
	Name          string        `json:"name"`
	Image         string        `json:"image,omitempty"`
	UnitPrice     int           `json:"unitPrice"`
	Quantity      int           `json:"quantity"`
	Customization Customization `json:"customization"`
	Toppings      []ToppingRef  `json:"toppings"`
	Note          string        `json:"note,omitempty"`
	FinalPrice    int           `json:"finalPrice"`

	// Topping ids the owning product allows; empty means unknown, in which
	// case no filtering can be applied.
	EligibleToppingIDs []string `json:"-"`
}

func (i Item) toppingEligible(id string) bool {
	if len(i.EligibleToppingIDs) == 0 {
		return true
	}
	for _, eligible := range i.EligibleToppingIDs {
		if eligible == id {
			return true
		}
	}
	return false
}

// Cart is the canonical in-memory cart. Items keep server-assigned arrival
// order. TotalPrice is the server-reported total and is authoritative when
// non-zero.
type Cart struct {
	Items      []Item `json:"items"`
	TotalPrice int    `json:"totalPrice"`
}
