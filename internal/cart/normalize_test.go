package cart

import (
	"testing"

	"github.com/kdquach/thetrois-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  []byte
	}{
		{name: "nil", raw: nil},
		{name: "empty", raw: []byte("")},
		{name: "null", raw: []byte("null")},
		{name: "empty object", raw: []byte(`{}`)},
		{name: "null items", raw: []byte(`{"items": null}`)},
		{name: "garbage", raw: []byte(`{"items": "not-a-list"}`)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cart := Normalize(tc.raw)
			require.NotNil(t, cart.Items)
			assert.Empty(t, cart.Items)
			assert.Zero(t, cart.TotalPrice)
		})
	}
}

func TestNormalizeEnvelopes(t *testing.T) {
	t.Parallel()

	inner := `{"items": [{"id": "line-1", "productId": "p1", "price": 25000, "quantity": 2}], "totalPrice": 50000}`
	cases := []struct {
		name string
		raw  string
	}{
		{name: "bare", raw: inner},
		{name: "data envelope", raw: `{"data": ` + inner + `}`},
		{name: "cart envelope", raw: `{"cart": ` + inner + `}`},
		{name: "results envelope", raw: `{"results": ` + inner + `}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cart := Normalize([]byte(tc.raw))
			require.Len(t, cart.Items, 1)
			assert.Equal(t, "line-1", cart.Items[0].ID)
			assert.Equal(t, 25000, cart.Items[0].UnitPrice)
			assert.Equal(t, 2, cart.Items[0].Quantity)
			assert.Equal(t, 50000, cart.TotalPrice)
		})
	}
}

func TestNormalizeEnvelopeFirstPresentWins(t *testing.T) {
	t.Parallel()

	raw := `{
		"data": {"items": [{"id": "from-data", "productId": "p1"}]},
		"cart": {"items": [{"id": "from-cart", "productId": "p1"}]}
	}`
	cart := Normalize([]byte(raw))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "from-data", cart.Items[0].ID)
}

func TestNormalizeBareItemList(t *testing.T) {
	t.Parallel()

	raw := `{"results": [{"id": "line-1", "productId": "p1", "price": 20000}]}`
	cart := Normalize([]byte(raw))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "line-1", cart.Items[0].ID)
	assert.Zero(t, cart.TotalPrice)
}

func TestNormalizeEmbeddedProduct(t *testing.T) {
	t.Parallel()

	raw := `{"items": [{
		"_id": "line-1",
		"productId": {"_id": "p1", "name": "Trà sữa trân châu", "image": "https://img/p1.jpg", "price": 35000, "toppings": ["t1", "t2"]},
		"quantity": 1
	}]}`

	cart := Normalize([]byte(raw))
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "line-1", item.ID)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Trà sữa trân châu", item.Name)
	assert.Equal(t, "https://img/p1.jpg", item.Image)
	assert.Equal(t, 35000, item.UnitPrice)
	assert.Equal(t, []string{"t1", "t2"}, item.EligibleToppingIDs)
}

func TestNormalizeBareProductID(t *testing.T) {
	t.Parallel()

	raw := `{"items": [{"id": "line-1", "productId": "p1", "price": 20000}]}`
	cart := Normalize([]byte(raw))
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Sản phẩm", item.Name)
	assert.Equal(t, 20000, item.UnitPrice)
	assert.Empty(t, item.EligibleToppingIDs)
}

func TestNormalizeToppingShapes(t *testing.T) {
	t.Parallel()

	t.Run("embedded topping object", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1",
			"toppings": [{"toppingId": {"_id": "t1", "name": "Trân châu đen", "price": 5000}, "quantity": 2}]}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		require.Len(t, cart.Items[0].Toppings, 1)
		topping := cart.Items[0].Toppings[0]
		assert.Equal(t, "t1", topping.ToppingID)
		assert.Equal(t, "Trân châu đen", topping.Name)
		assert.Equal(t, 5000, topping.Price)
		assert.Equal(t, 2, topping.Quantity)
	})

	t.Run("bare topping id string", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1",
			"toppings": [{"toppingId": "t1", "price": 5000}]}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		require.Len(t, cart.Items[0].Toppings, 1)
		topping := cart.Items[0].Toppings[0]
		assert.Equal(t, "t1", topping.ToppingID)
		assert.Equal(t, 5000, topping.Price)
		assert.Equal(t, 1, topping.Quantity)
	})

	t.Run("topping without id is dropped", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1",
			"toppings": [{"price": 5000}]}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		assert.Empty(t, cart.Items[0].Toppings)
	})

	t.Run("ineligible topping is dropped", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1",
			"productId": {"_id": "p1", "price": 20000, "toppings": ["t1"]},
			"toppings": [
				{"toppingId": "t1", "price": 5000},
				{"toppingId": "t9", "price": 9000}
			]}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		require.Len(t, cart.Items[0].Toppings, 1)
		assert.Equal(t, "t1", cart.Items[0].Toppings[0].ToppingID)
	})
}

func TestNormalizeCustomization(t *testing.T) {
	t.Parallel()

	t.Run("missing customization defaults", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1"}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		cust := cart.Items[0].Customization
		assert.Equal(t, enums.SizeS, cust.Size)
		assert.Equal(t, 100, cust.Ice)
		assert.Equal(t, 100, cust.Sugar)
	})

	t.Run("unknown size falls back to small", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1", "customization": {"size": "XXL", "ice": 50, "sugar": 70}}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		cust := cart.Items[0].Customization
		assert.Equal(t, enums.SizeS, cust.Size)
		assert.Equal(t, 50, cust.Ice)
		assert.Equal(t, 70, cust.Sugar)
	})

	t.Run("zero percent survives", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1", "customization": {"size": "L", "ice": 0, "sugar": 0}}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		cust := cart.Items[0].Customization
		assert.Equal(t, enums.SizeL, cust.Size)
		assert.Zero(t, cust.Ice)
		assert.Zero(t, cust.Sugar)
	})

	t.Run("out of range percent is clamped", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1", "customization": {"size": "M", "ice": 150, "sugar": -10}}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		cust := cart.Items[0].Customization
		assert.Equal(t, 100, cust.Ice)
		assert.Zero(t, cust.Sugar)
	})
}

func TestNormalizeQuantityAndPrices(t *testing.T) {
	t.Parallel()

	t.Run("zero quantity becomes one", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1", "quantity": 0}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("embedded product price wins over item price", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "price": 11111,
			"productId": {"_id": "p1", "price": 35000}}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 35000, cart.Items[0].UnitPrice)
	})

	t.Run("missing final price falls back to unit price", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1", "price": 20000}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 20000, cart.Items[0].FinalPrice)
	})

	t.Run("decimal point price truncates", func(t *testing.T) {
		t.Parallel()
		raw := `{"items": [{"id": "line-1", "productId": "p1", "price": 20000.0}]}`
		cart := Normalize([]byte(raw))
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 20000, cart.Items[0].UnitPrice)
	})
}
