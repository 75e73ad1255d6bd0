package catalog

// Topping is a flat add-on priced per unit, resolved from the product catalog.
type Topping struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// ByID indexes a topping list for lookup during cart enrichment.
func ByID(toppings []Topping) map[string]Topping {
	index := make(map[string]Topping, len(toppings))
	for _, topping := range toppings {
		if topping.ID == "" {
			continue
		}
		index[topping.ID] = topping
	}
	return index
}
