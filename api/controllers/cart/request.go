package cart

import (
	cartsvc "github.com/kdquach/thetrois-backend/internal/cart"
	"github.com/kdquach/thetrois-backend/pkg/enums"
)

type customizationPayload struct {
	Size        string `json:"size"`
	Ice         *int   `json:"ice"`
	Sugar       *int   `json:"sugar"`
	Description string `json:"description"`
}

type toppingPayload struct {
	ToppingID string `json:"toppingId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItemRequest is the body for POST /cart.
type AddItemRequest struct {
	ProductID     string                `json:"productId" validate:"required"`
	Quantity      int                   `json:"quantity"`
	Customization *customizationPayload `json:"customization"`
	Toppings      []toppingPayload      `json:"toppings" validate:"dive"`
	Note          string                `json:"note"`
}

// UpdateItemRequest is the body for PATCH /cart/{itemID}. Absent fields leave
// the line untouched.
type UpdateItemRequest struct {
	Quantity      *int                  `json:"quantity"`
	Customization *customizationPayload `json:"customization"`
	Toppings      *[]toppingPayload     `json:"toppings"`
	Note          *string               `json:"note"`
}

func toAddItemInput(req AddItemRequest) cartsvc.AddItemInput {
	input := cartsvc.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Toppings:  toSelections(req.Toppings),
		Note:      req.Note,
	}
	if req.Customization != nil {
		cust := toCustomization(*req.Customization)
		input.Customization = &cust
	}
	return input
}

func toUpdateItemInput(req UpdateItemRequest) cartsvc.UpdateItemInput {
	input := cartsvc.UpdateItemInput{
		Quantity: req.Quantity,
		Note:     req.Note,
	}
	if req.Customization != nil {
		cust := toCustomization(*req.Customization)
		input.Customization = &cust
	}
	if req.Toppings != nil {
		selections := toSelections(*req.Toppings)
		input.Toppings = &selections
	}
	return input
}

func toCustomization(payload customizationPayload) cartsvc.Customization {
	cust := cartsvc.DefaultCustomization()
	if size, err := enums.ParseSize(payload.Size); err == nil {
		cust.Size = size
	}
	if payload.Ice != nil {
		cust.Ice = *payload.Ice
	}
	if payload.Sugar != nil {
		cust.Sugar = *payload.Sugar
	}
	cust.Description = payload.Description
	return cust
}

func toSelections(payloads []toppingPayload) []cartsvc.ToppingSelection {
	if len(payloads) == 0 {
		return nil
	}
	selections := make([]cartsvc.ToppingSelection, 0, len(payloads))
	for _, p := range payloads {
		selections = append(selections, cartsvc.ToppingSelection{
			ToppingID: p.ToppingID,
			Quantity:  p.Quantity,
		})
	}
	return selections
}
