package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kdquach/thetrois-backend/internal/storage"
	"github.com/kdquach/thetrois-backend/pkg/enums"
	pkgerrors "github.com/kdquach/thetrois-backend/pkg/errors"
	"github.com/kdquach/thetrois-backend/pkg/logger"
	"github.com/kdquach/thetrois-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// CreateOrderItemInput is one product line on an order request.
type CreateOrderItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput describes a new order to place upstream.
type CreateOrderInput struct {
	Items []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	Note  string                 `json:"note"`
}

// RemoteOrders is the upstream order API surface.
type RemoteOrders interface {
	FetchByStatus(ctx context.Context, status enums.OrderStatus) (json.RawMessage, error)
	Create(ctx context.Context, input CreateOrderInput) (json.RawMessage, error)
	UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) error
	Get(ctx context.Context, orderID string) (json.RawMessage, error)
	Logs(ctx context.Context, orderID string) (json.RawMessage, error)
}

// Service is the cache-backed order query and write layer.
type Service interface {
	FetchOrders(ctx context.Context, statuses []enums.OrderStatus) ([]Order, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) error
	GetOrder(ctx context.Context, orderID string) (Order, error)
	OrderLogs(ctx context.Context, orderID string) ([]OrderLog, error)
	Snapshot(statuses []enums.OrderStatus) []Order
}

type service struct {
	remote  RemoteOrders
	store   storage.KV
	logg    *logger.Logger
	metrics *metrics.OrderCacheMetrics
	ttl     time.Duration

	mu    sync.RWMutex
	byKey map[string][]Order
}

// NewService builds the order service. The store and metrics are optional;
// without a store every fetch goes remote.
func NewService(
	remote RemoteOrders,
	store storage.KV,
	logg *logger.Logger,
	cacheMetrics *metrics.OrderCacheMetrics,
	ttl time.Duration,
) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote orders is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		remote:  remote,
		store:   store,
		logg:    logg,
		metrics: cacheMetrics,
		ttl:     ttl,
		byKey:   map[string][]Order{},
	}, nil
}

// FetchOrders returns the orders for the given status set. A cached entry is
// surfaced immediately, then one remote call per status refreshes it. Remote
// failure falls back to the cached data when present and an empty list when
// not; the error is logged, never returned.
func (s *service) FetchOrders(ctx context.Context, statuses []enums.OrderStatus) ([]Order, error) {
	if len(statuses) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one status is required")
	}
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unknown order status %q", status))
		}
	}

	key := CacheKey(statuses)
	ctx = s.logg.WithField(ctx, "cache_key", key)

	cached, hasCache := s.readCache(ctx, key)
	if hasCache {
		s.metrics.IncHit()
		s.setState(key, cached)
	} else {
		s.metrics.IncMiss()
	}

	var fetchErr error
	fresh := make([]Order, 0)
	for _, status := range statuses {
		raw, err := s.remote.FetchByStatus(ctx, status)
		if err != nil {
			fetchErr = multierr.Append(fetchErr,
				fmt.Errorf("fetch %s orders: %w", status, err))
			continue
		}
		fresh = append(fresh, decodeOrderList(raw)...)
	}

	if fetchErr != nil {
		s.logg.Error(ctx, "orders.fetch.failed", fetchErr)
		if hasCache {
			return cached, nil
		}
		return []Order{}, nil
	}

	s.writeCache(ctx, key, fresh)
	s.setState(key, fresh)
	return fresh, nil
}

// CreateOrder places a new order upstream and invalidates the status caches.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error) {
	if len(input.Items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	for i := range input.Items {
		if input.Items[i].ProductID == "" {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required on every item")
		}
		if input.Items[i].Quantity < 0 {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if input.Items[i].Quantity == 0 {
			input.Items[i].Quantity = 1
		}
	}

	raw, err := s.remote.Create(ctx, input)
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order failed")
	}

	order, ok := decodeOrder(raw)
	if !ok {
		return Order{}, pkgerrors.New(pkgerrors.CodeDependency, "order service returned an unreadable order")
	}

	s.invalidateCaches(ctx)
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID), "order.created")
	return order, nil
}

// UpdateOrderStatus moves an order to the given status and invalidates the
// status caches.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	if orderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown order status %q", status))
	}

	ctx = s.logg.WithOrderID(ctx, orderID)
	if err := s.remote.UpdateStatus(ctx, orderID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status failed")
	}

	s.invalidateCaches(ctx)
	s.logg.Info(s.logg.WithField(ctx, "status", status.String()), "order.status_updated")
	return nil
}

// GetOrder reads one order straight from the upstream; single-order reads
// bypass the cache.
func (s *service) GetOrder(ctx context.Context, orderID string) (Order, error) {
	if orderID == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	raw, err := s.remote.Get(s.logg.WithOrderID(ctx, orderID), orderID)
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get order failed")
	}

	order, ok := decodeOrder(raw)
	if !ok {
		return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// OrderLogs returns the status history for one order.
func (s *service) OrderLogs(ctx context.Context, orderID string) ([]OrderLog, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	raw, err := s.remote.Logs(s.logg.WithOrderID(ctx, orderID), orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get order logs failed")
	}
	return decodeOrderLogs(raw), nil
}

func (s *service) readCache(ctx context.Context, key string) ([]Order, bool) {
	if s.store == nil {
		return nil, false
	}

	value, err := s.store.Get(ctx, key)
	if err != nil {
		if err != storage.ErrNotFound {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "orders.cache.read_failed")
		}
		return nil, false
	}

	var cached []Order
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "orders.cache.corrupt")
		return nil, false
	}
	return cached, true
}

func (s *service) writeCache(ctx context.Context, key string, value []Order) {
	if s.store == nil {
		return
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "orders.cache.encode_failed")
		return
	}
	if err := s.store.Set(ctx, key, string(encoded), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "orders.cache.write_failed")
	}
}

// invalidateCaches drops every status-set entry a write could have gone
// stale: each single status plus the tracking and history tab groupings.
func (s *service) invalidateCaches(ctx context.Context) {
	keys := make([]string, 0, 8)
	for _, status := range enums.OrderStatuses() {
		keys = append(keys, CacheKey([]enums.OrderStatus{status}))
	}
	keys = append(keys,
		CacheKey(enums.TrackingStatuses()),
		CacheKey(enums.HistoryStatuses()),
	)

	s.mu.Lock()
	for _, key := range keys {
		delete(s.byKey, key)
	}
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil && err != storage.ErrNotFound {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"cache_key": key,
				"error":     err.Error(),
			}), "orders.cache.invalidate_failed")
		}
	}
}

func (s *service) setState(key string, value []Order) {
	s.mu.Lock()
	s.byKey[key] = value
	s.mu.Unlock()
}

// Snapshot returns the last orders surfaced for the status set, cached or
// fresh, without touching the upstream.
func (s *service) Snapshot(statuses []enums.OrderStatus) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.byKey[CacheKey(statuses)]
	if !ok {
		return []Order{}
	}
	out := make([]Order, len(value))
	copy(out, value)
	return out
}
