package orders

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kdquach/thetrois-backend/pkg/enums"
)

var jsonNull = []byte("null")

// OrderItem is one product line inside a placed order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

// Order is a placed order as reported by the upstream commerce API.
type Order struct {
	ID          string            `json:"id"`
	Status      enums.OrderStatus `json:"status"`
	Items       []OrderItem       `json:"items"`
	TotalAmount int               `json:"totalAmount"`
	Note        string            `json:"note,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// OrderLog is one status transition in an order's history.
type OrderLog struct {
	Status    enums.OrderStatus `json:"status"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// CacheKey derives the cache key for a status set. Caller order is preserved;
// the same statuses in a different order address a different entry.
func CacheKey(statuses []enums.OrderStatus) string {
	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, status.String())
	}
	return "orders_" + strings.Join(parts, "_")
}

// decodeOrderList accepts the order list bare or wrapped in the upstream's
// data/results/orders envelopes. Malformed payloads decode to an empty list.
func decodeOrderList(raw []byte) []Order {
	body := unwrapList(raw)
	if body == nil {
		return []Order{}
	}

	var entries []rawOrder
	if err := json.Unmarshal(body, &entries); err != nil {
		return []Order{}
	}

	out := make([]Order, 0, len(entries))
	for _, entry := range entries {
		order, ok := entry.toOrder()
		if !ok {
			continue
		}
		out = append(out, order)
	}
	return out
}

// decodeOrder accepts a single order, bare or enveloped.
func decodeOrder(raw []byte) (Order, bool) {
	body := unwrapList(raw)
	if body == nil {
		return Order{}, false
	}

	var entry rawOrder
	if err := json.Unmarshal(body, &entry); err != nil {
		return Order{}, false
	}
	return entry.toOrder()
}

// decodeOrderLogs accepts the status history list, bare or enveloped.
func decodeOrderLogs(raw []byte) []OrderLog {
	body := unwrapList(raw)
	if body == nil {
		return []OrderLog{}
	}

	var entries []struct {
		Status    string `json:"status"`
		Note      string `json:"note"`
		CreatedAt string `json:"createdAt"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return []OrderLog{}
	}

	logs := make([]OrderLog, 0, len(entries))
	for _, entry := range entries {
		logs = append(logs, OrderLog{
			Status:    enums.OrderStatus(entry.Status),
			Note:      entry.Note,
			CreatedAt: parseTime(entry.CreatedAt),
		})
	}
	return logs
}

func unwrapList(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, jsonNull) {
		return nil
	}

	if body[0] == '{' {
		var envelope struct {
			Data    json.RawMessage `json:"data"`
			Results json.RawMessage `json:"results"`
			Orders  json.RawMessage `json:"orders"`
			Order   json.RawMessage `json:"order"`
			Logs    json.RawMessage `json:"logs"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil {
			for _, candidate := range []json.RawMessage{
				envelope.Data, envelope.Results, envelope.Orders, envelope.Order, envelope.Logs,
			} {
				trimmed := bytes.TrimSpace(candidate)
				if len(trimmed) > 0 && !bytes.Equal(trimmed, jsonNull) {
					return trimmed
				}
			}
		}
	}
	return body
}

type rawOrder struct {
	ID          string         `json:"id"`
	AltID       string         `json:"_id"`
	Status      string         `json:"status"`
	Items       []rawOrderItem `json:"items"`
	TotalAmount json.Number    `json:"totalAmount"`
	TotalPrice  json.Number    `json:"totalPrice"`
	Note        string         `json:"note"`
	CreatedAt   string         `json:"createdAt"`
}

type rawOrderItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Quantity  json.Number `json:"quantity"`
	Price     json.Number `json:"price"`
}

func (r rawOrder) toOrder() (Order, bool) {
	id := r.ID
	if id == "" {
		id = r.AltID
	}
	if id == "" {
		return Order{}, false
	}

	total := numberToInt(r.TotalAmount)
	if total == 0 {
		total = numberToInt(r.TotalPrice)
	}

	items := make([]OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		qty := numberToInt(item.Quantity)
		if qty < 1 {
			qty = 1
		}
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  qty,
			Price:     numberToInt(item.Price),
		})
	}

	return Order{
		ID:          id,
		Status:      enums.OrderStatus(r.Status),
		Items:       items,
		TotalAmount: total,
		Note:        r.Note,
		CreatedAt:   parseTime(r.CreatedAt),
	}, true
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func numberToInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	s := n.String()
	if idx := strings.IndexByte(s, '.'); idx > 0 {
		if v, err := strconv.Atoi(s[:idx]); err == nil {
			return v
		}
	}
	return 0
}
