package cart

import (
	cartsvc "github.com/kdquach/thetrois-backend/internal/cart"
	"github.com/kdquach/thetrois-backend/pkg/money"
)

type toppingView struct {
	ToppingID string `json:"toppingId"`
	Name      string `json:"name,omitempty"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}

type itemView struct {
	ID             string                `json:"id"`
	ProductID      string                `json:"productId"`
	Name           string                `json:"name"`
	Image          string                `json:"image,omitempty"`
	UnitPrice      int                   `json:"unitPrice"`
	Quantity       int                   `json:"quantity"`
	Customization  cartsvc.Customization `json:"customization"`
	Toppings       []toppingView         `json:"toppings"`
	Note           string                `json:"note,omitempty"`
	Total          int                   `json:"total"`
	TotalFormatted string                `json:"totalFormatted"`
}

type cartView struct {
	Items          []itemView `json:"items"`
	ItemCount      int        `json:"itemCount"`
	Total          int        `json:"total"`
	TotalFormatted string     `json:"totalFormatted"`
	Phase          string     `json:"phase"`
}

func newCartView(c cartsvc.Cart, phase cartsvc.Phase) cartView {
	items := make([]itemView, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, newItemView(item))
	}

	total := cartsvc.Total(c)
	return cartView{
		Items:          items,
		ItemCount:      cartsvc.ItemCount(c),
		Total:          total,
		TotalFormatted: money.FormatVND(total),
		Phase:          string(phase),
	}
}

func newItemView(item cartsvc.Item) itemView {
	toppings := make([]toppingView, 0, len(item.Toppings))
	for _, topping := range item.Toppings {
		toppings = append(toppings, toppingView(topping))
	}

	total := cartsvc.ItemTotal(item)
	return itemView{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Name:           item.Name,
		Image:          item.Image,
		UnitPrice:      item.UnitPrice,
		Quantity:       item.Quantity,
		Customization:  item.Customization,
		Toppings:       toppings,
		Note:           item.Note,
		Total:          total,
		TotalFormatted: money.FormatVND(total),
	}
}
