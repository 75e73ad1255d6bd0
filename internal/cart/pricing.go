package cart

import "github.com/kdquach/thetrois-backend/pkg/enums"

// Size price deltas, applied per unit of line quantity.
const (
	sizeDeltaM = 5000
	sizeDeltaL = 10000
)

// All pricing functions are pure and operate on integer đồng only.

// SizeDelta returns the per-unit surcharge for the customized size. Unknown
// or missing sizes price as S.
func SizeDelta(cust Customization) int {
	switch cust.Size {
	case enums.SizeM:
		return sizeDeltaM
	case enums.SizeL:
		return sizeDeltaL
	default:
		return 0
	}
}

// ItemToppingsTotal sums topping price × topping quantity over the line's
// toppings. Toppings outside the owning product's eligible list contribute
// nothing. A missing or invalid topping quantity counts as 1.
func ItemToppingsTotal(item Item) int {
	total := 0
	for _, topping := range item.Toppings {
		if !item.toppingEligible(topping.ToppingID) {
			continue
		}
		if topping.Price <= 0 {
			continue
		}
		qty := topping.Quantity
		if qty < 1 {
			qty = 1
		}
		total += topping.Price * qty
	}
	return total
}

// ItemTotal prices one cart line: (unit price + size delta) × line quantity,
// plus the toppings total. The toppings total is NOT rescaled by the line
// quantity; topping quantity is tracked independently of drink count.
func ItemTotal(item Item) int {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	return (item.UnitPrice+SizeDelta(item.Customization))*qty + ItemToppingsTotal(item)
}

// Total returns the server-reported cart total verbatim when non-zero, else
// the sum of per-line totals.
func Total(c Cart) int {
	if c.TotalPrice != 0 {
		return c.TotalPrice
	}
	sum := 0
	for _, item := range c.Items {
		sum += ItemTotal(item)
	}
	return sum
}

// ItemCount is the number of drinks in the cart across all lines.
func ItemCount(c Cart) int {
	count := 0
	for _, item := range c.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		count += qty
	}
	return count
}
