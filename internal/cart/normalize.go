package cart

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kdquach/thetrois-backend/pkg/enums"
)

var jsonNull = []byte("null")

// Normalize converts a raw cart payload of unknown exact shape into a
// canonical Cart. Missing or malformed fields degrade to safe defaults; this
// function never fails and never mutates its input.
func Normalize(raw []byte) Cart {
	empty := Cart{Items: []Item{}}

	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, jsonNull) {
		return empty
	}

	body = unwrap(body)

	var payload rawCart
	if err := json.Unmarshal(body, &payload); err != nil {
		// A results envelope carries the item list directly.
		var items []rawItem
		if err := json.Unmarshal(body, &items); err != nil {
			return empty
		}
		payload.Items = items
	}

	items := make([]Item, 0, len(payload.Items))
	for _, ri := range payload.Items {
		items = append(items, normalizeItem(ri))
	}

	return Cart{
		Items:      items,
		TotalPrice: numberToInt(payload.TotalPrice),
	}
}

// unwrap probes the documented response envelopes; the first populated
// sub-field wins, else the body itself is the payload.
func unwrap(body []byte) []byte {
	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Cart    json.RawMessage `json:"cart"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	for _, candidate := range []json.RawMessage{envelope.Data, envelope.Cart, envelope.Results} {
		trimmed := bytes.TrimSpace(candidate)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, jsonNull) {
			return trimmed
		}
	}
	return body
}

type rawCart struct {
	Items      []rawItem   `json:"items"`
	TotalPrice json.Number `json:"totalPrice"`
}

type rawItem struct {
	ID            string            `json:"id"`
	AltID         string            `json:"_id"`
	Product       productRef        `json:"productId"`
	Name          string            `json:"name"`
	Image         string            `json:"image"`
	Price         json.Number       `json:"price"`
	Quantity      json.Number       `json:"quantity"`
	Customization *rawCustomization `json:"customization"`
	Toppings      []rawToppingRef   `json:"toppings"`
	Note          string            `json:"note"`
	FinalPrice    json.Number       `json:"finalPrice"`
}

type rawCustomization struct {
	Size        string `json:"size"`
	Ice         *int   `json:"ice"`
	Sugar       *int   `json:"sugar"`
	Description string `json:"description"`
}

// productRef accepts either an embedded product object or a bare id string.
type productRef struct {
	ID       string
	Name     string
	Image    string
	Price    int
	Toppings []string
}

func (p *productRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err == nil {
			p.ID = id
		}
		return nil
	}

	var obj struct {
		ID       string      `json:"id"`
		AltID    string      `json:"_id"`
		Name     string      `json:"name"`
		Image    string      `json:"image"`
		Price    json.Number `json:"price"`
		Toppings []flexID    `json:"toppings"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}

	p.ID = firstNonEmpty(obj.ID, obj.AltID)
	p.Name = obj.Name
	p.Image = obj.Image
	p.Price = numberToInt(obj.Price)
	for _, id := range obj.Toppings {
		if id != "" {
			p.Toppings = append(p.Toppings, string(id))
		}
	}
	return nil
}

// flexID accepts a bare id string or an object carrying id/_id.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err == nil {
			*f = flexID(id)
		}
		return nil
	}
	var obj struct {
		ID    string `json:"id"`
		AltID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	*f = flexID(firstNonEmpty(obj.ID, obj.AltID))
	return nil
}

type rawToppingRef struct {
	Topping  toppingIDValue `json:"toppingId"`
	ID       flexID         `json:"id"`
	AltID    flexID         `json:"_id"`
	Name     string         `json:"name"`
	Price    json.Number    `json:"price"`
	Quantity *int           `json:"quantity"`
}

// toppingIDValue accepts the topping nested as an embedded object under
// toppingId, or as a bare id string.
type toppingIDValue struct {
	ID    string
	Name  string
	Price *int
}

func (t *toppingIDValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err == nil {
			t.ID = id
		}
		return nil
	}

	var obj struct {
		ID    string       `json:"id"`
		AltID string       `json:"_id"`
		Name  string       `json:"name"`
		Price *json.Number `json:"price"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}

	t.ID = firstNonEmpty(obj.ID, obj.AltID)
	t.Name = obj.Name
	if obj.Price != nil {
		price := numberToInt(*obj.Price)
		t.Price = &price
	}
	return nil
}

func normalizeItem(ri rawItem) Item {
	item := Item{
		ID:                 firstNonEmpty(ri.ID, ri.AltID),
		ProductID:          ri.Product.ID,
		Name:               firstNonEmpty(ri.Product.Name, ri.Name, fallbackProductName),
		Image:              firstNonEmpty(ri.Product.Image, ri.Image),
		Quantity:           numberToInt(ri.Quantity),
		Customization:      normalizeCustomization(ri.Customization),
		Note:               ri.Note,
		EligibleToppingIDs: ri.Product.Toppings,
	}

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	item.UnitPrice = ri.Product.Price
	if item.UnitPrice <= 0 {
		item.UnitPrice = numberToInt(ri.Price)
	}
	if item.UnitPrice < 0 {
		item.UnitPrice = 0
	}

	// Server-reported per-item total when available, else the base price.
	// Quantity scaling happens in pricing, not here.
	item.FinalPrice = numberToInt(ri.FinalPrice)
	if item.FinalPrice <= 0 {
		item.FinalPrice = item.UnitPrice
	}

	item.Toppings = normalizeToppings(ri.Toppings, item)

	return item
}

func normalizeToppings(raw []rawToppingRef, item Item) []ToppingRef {
	toppings := make([]ToppingRef, 0, len(raw))
	for _, rt := range raw {
		ref, ok := normalizeTopping(rt)
		if !ok {
			continue
		}
		if !item.toppingEligible(ref.ToppingID) {
			continue
		}
		toppings = append(toppings, ref)
	}
	return toppings
}

func normalizeTopping(rt rawToppingRef) (ToppingRef, bool) {
	id := firstNonEmpty(rt.Topping.ID, string(rt.ID), string(rt.AltID))
	if id == "" {
		return ToppingRef{}, false
	}

	ref := ToppingRef{
		ToppingID: id,
		Name:      firstNonEmpty(rt.Topping.Name, rt.Name),
		Quantity:  1,
	}
	if rt.Topping.Price != nil {
		ref.Price = *rt.Topping.Price
	} else {
		ref.Price = numberToInt(rt.Price)
	}
	if ref.Price < 0 {
		ref.Price = 0
	}
	if rt.Quantity != nil && *rt.Quantity >= 1 {
		ref.Quantity = *rt.Quantity
	}
	return ref, true
}

func normalizeCustomization(raw *rawCustomization) Customization {
	cust := DefaultCustomization()
	if raw == nil {
		return cust
	}

	if size, err := enums.ParseSize(raw.Size); err == nil {
		cust.Size = size
	}
	if raw.Ice != nil {
		cust.Ice = clampPercent(*raw.Ice)
	}
	if raw.Sugar != nil {
		cust.Sugar = clampPercent(*raw.Sugar)
	}
	cust.Description = raw.Description
	return cust
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func numberToInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	// Some payloads carry integral values with a decimal point. Truncate
	// rather than round; floats never enter the money path.
	s := n.String()
	if idx := strings.IndexByte(s, '.'); idx > 0 {
		if v, err := strconv.Atoi(s[:idx]); err == nil {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
