package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/kdquach/thetrois-backend/internal/orders"
	"github.com/kdquach/thetrois-backend/pkg/enums"
)

// OrderClient talks to the upstream commerce API's order endpoints. It
// implements orders.RemoteOrders.
type OrderClient struct {
	*client
}

// NewOrderClient builds an order client for the given upstream base URL.
func NewOrderClient(baseURL string, httpClient *http.Client) (*OrderClient, error) {
	c, err := newClient(baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &OrderClient{client: c}, nil
}

func (c *OrderClient) FetchByStatus(ctx context.Context, status enums.OrderStatus) (json.RawMessage, error) {
	query := url.Values{"status": []string{status.String()}}
	return c.do(ctx, http.MethodGet, "/orders?"+query.Encode(), nil)
}

func (c *OrderClient) Create(ctx context.Context, input orders.CreateOrderInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/orders", input)
}

func (c *OrderClient) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	_, err := c.do(ctx, http.MethodPatch,
		"/orders/"+url.PathEscape(orderID)+"/"+url.PathEscape(status.String()), nil)
	return err
}

func (c *OrderClient) Get(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
}

func (c *OrderClient) Logs(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/logs", nil)
}
