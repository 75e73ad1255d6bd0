package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/kdquach/thetrois-backend/internal/cart"
)

// CartClient talks to the upstream commerce API's cart endpoints. It
// implements cart.RemoteCart.
type CartClient struct {
	*client
}

// NewCartClient builds a cart client for the given upstream base URL. Passing
// a nil http client uses a default with a 10 second timeout.
func NewCartClient(baseURL string, httpClient *http.Client) (*CartClient, error) {
	c, err := newClient(baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &CartClient{client: c}, nil
}

func (c *CartClient) GetCart(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/cart", nil)
}

func (c *CartClient) AddToCart(ctx context.Context, input cart.AddItemInput) error {
	_, err := c.do(ctx, http.MethodPost, "/cart", input)
	return err
}

func (c *CartClient) UpdateCartItem(ctx context.Context, itemID string, input cart.UpdateItemInput) error {
	_, err := c.do(ctx, http.MethodPatch, "/cart/"+url.PathEscape(itemID), input)
	return err
}

func (c *CartClient) RemoveCartItem(ctx context.Context, itemID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(itemID), nil)
	return err
}

func (c *CartClient) ClearCart(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/cart", nil)
	return err
}
