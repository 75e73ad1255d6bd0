package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/kdquach/thetrois-backend/internal/storage"
	"github.com/kdquach/thetrois-backend/pkg/enums"
	pkgerrors "github.com/kdquach/thetrois-backend/pkg/errors"
	"github.com/kdquach/thetrois-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemoteOrders struct {
	mu sync.Mutex

	byStatus map[enums.OrderStatus]json.RawMessage
	fetchErr error

	createResp json.RawMessage
	createErr  error
	updateErr  error
	getResp    json.RawMessage
	getErr     error
	logsResp   json.RawMessage
	logsErr    error

	fetched      []enums.OrderStatus
	updateCalls  int
	lastOrderID  string
	lastStatus   enums.OrderStatus
	lastCreation CreateOrderInput
}

func (s *stubRemoteOrders) FetchByStatus(_ context.Context, status enums.OrderStatus) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, status)
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.byStatus[status], nil
}

func (s *stubRemoteOrders) Create(_ context.Context, input CreateOrderInput) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCreation = input
	return s.createResp, s.createErr
}

func (s *stubRemoteOrders) UpdateStatus(_ context.Context, orderID string, status enums.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	s.lastOrderID = orderID
	s.lastStatus = status
	return s.updateErr
}

func (s *stubRemoteOrders) Get(_ context.Context, orderID string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOrderID = orderID
	return s.getResp, s.getErr
}

func (s *stubRemoteOrders) Logs(_ context.Context, orderID string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOrderID = orderID
	return s.logsResp, s.logsErr
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, remote RemoteOrders, store storage.KV) Service {
	t.Helper()
	svc, err := NewService(remote, store, testLogger(), nil, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "orders_pending", CacheKey([]enums.OrderStatus{enums.OrderStatusPending}))
	assert.Equal(t, "orders_completed_cancelled", CacheKey(enums.HistoryStatuses()))
	assert.Equal(t, "orders_cancelled_completed", CacheKey([]enums.OrderStatus{
		enums.OrderStatusCancelled, enums.OrderStatusCompleted,
	}), "caller order is preserved, not sorted")
}

func TestFetchOrdersSequentialConcatenation(t *testing.T) {
	t.Parallel()

	remote := &stubRemoteOrders{byStatus: map[enums.OrderStatus]json.RawMessage{
		enums.OrderStatusCompleted: json.RawMessage(`{"data": [{"_id": "o1", "status": "completed", "totalAmount": 65000}]}`),
		enums.OrderStatusCancelled: json.RawMessage(`[{"id": "o2", "status": "cancelled", "totalPrice": 30000}]`),
	}}
	svc := newTestService(t, remote, storage.NewMemoryStore())

	got, err := svc.FetchOrders(context.Background(), enums.HistoryStatuses())
	require.NoError(t, err)

	require.Equal(t, []enums.OrderStatus{
		enums.OrderStatusCompleted, enums.OrderStatusCancelled,
	}, remote.fetched, "one call per status, in caller order")

	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, 65000, got[0].TotalAmount)
	assert.Equal(t, "o2", got[1].ID)
	assert.Equal(t, 30000, got[1].TotalAmount, "totalPrice backfills a missing totalAmount")
}

func TestFetchOrdersWritesAndReusesCache(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	remote := &stubRemoteOrders{byStatus: map[enums.OrderStatus]json.RawMessage{
		enums.OrderStatusPending: json.RawMessage(`[{"id": "o1", "status": "pending"}]`),
	}}
	svc := newTestService(t, remote, store)

	statuses := []enums.OrderStatus{enums.OrderStatusPending}
	_, err := svc.FetchOrders(context.Background(), statuses)
	require.NoError(t, err)

	cached, err := store.Get(context.Background(), "orders_pending")
	require.NoError(t, err)

	var entries []Order
	require.NoError(t, json.Unmarshal([]byte(cached), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "o1", entries[0].ID)
}

func TestFetchOrdersStaleOnRemoteFailure(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	stale := `[{"id": "o-stale", "status": "pending", "totalAmount": 20000}]`
	require.NoError(t, store.Set(context.Background(), "orders_pending", stale, time.Hour))

	remote := &stubRemoteOrders{fetchErr: errors.New("upstream down")}
	svc := newTestService(t, remote, store)

	got, err := svc.FetchOrders(context.Background(), []enums.OrderStatus{enums.OrderStatusPending})
	require.NoError(t, err, "fetch failures are logged, not returned")
	require.Len(t, got, 1)
	assert.Equal(t, "o-stale", got[0].ID)
}

func TestFetchOrdersEmptyOnFailureWithoutCache(t *testing.T) {
	t.Parallel()

	remote := &stubRemoteOrders{fetchErr: errors.New("upstream down")}
	svc := newTestService(t, remote, storage.NewMemoryStore())

	got, err := svc.FetchOrders(context.Background(), []enums.OrderStatus{enums.OrderStatusPending})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchOrdersValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRemoteOrders{}, nil)

	_, err := svc.FetchOrders(context.Background(), nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.FetchOrders(context.Background(), []enums.OrderStatus{"shipped"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	t.Run("success invalidates caches", func(t *testing.T) {
		t.Parallel()
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(context.Background(), "orders_pending", `[]`, time.Hour))
		require.NoError(t, store.Set(context.Background(), "orders_confirmed_preparing_ready", `[]`, time.Hour))

		remote := &stubRemoteOrders{
			createResp: json.RawMessage(`{"data": {"_id": "o1", "status": "pending", "totalAmount": 45000}}`),
		}
		svc := newTestService(t, remote, store)

		order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Items: []CreateOrderItemInput{{ProductID: "p1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "o1", order.ID)
		assert.Equal(t, enums.OrderStatusPending, order.Status)
		assert.Equal(t, 1, remote.lastCreation.Items[0].Quantity, "zero quantity defaults to one")

		_, err = store.Get(context.Background(), "orders_pending")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.Get(context.Background(), "orders_confirmed_preparing_ready")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, &stubRemoteOrders{}, nil)
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("upstream failure maps to dependency error", func(t *testing.T) {
		t.Parallel()
		remote := &stubRemoteOrders{createErr: errors.New("timeout")}
		svc := newTestService(t, remote, nil)
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Items: []CreateOrderItemInput{{ProductID: "p1", Quantity: 1}},
		})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(context.Background(), "orders_completed_cancelled", `[]`, time.Hour))

		remote := &stubRemoteOrders{}
		svc := newTestService(t, remote, store)

		err := svc.UpdateOrderStatus(context.Background(), "o1", enums.OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, "o1", remote.lastOrderID)
		assert.Equal(t, enums.OrderStatusCancelled, remote.lastStatus)

		_, err = store.Get(context.Background(), "orders_completed_cancelled")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		t.Parallel()
		remote := &stubRemoteOrders{}
		svc := newTestService(t, remote, nil)
		err := svc.UpdateOrderStatus(context.Background(), "o1", "shipped")
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		assert.Zero(t, remote.updateCalls)
	})
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		remote := &stubRemoteOrders{
			getResp: json.RawMessage(`{"order": {"_id": "o1", "status": "preparing", "totalAmount": 50000,
				"items": [{"productId": "p1", "name": "Trà sữa", "quantity": 2, "price": 25000}]}}`),
		}
		svc := newTestService(t, remote, nil)

		order, err := svc.GetOrder(context.Background(), "o1")
		require.NoError(t, err)
		assert.Equal(t, enums.OrderStatusPreparing, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 2, order.Items[0].Quantity)
	})

	t.Run("unreadable body maps to not found", func(t *testing.T) {
		t.Parallel()
		remote := &stubRemoteOrders{getResp: json.RawMessage(`{}`)}
		svc := newTestService(t, remote, nil)
		_, err := svc.GetOrder(context.Background(), "o-missing")
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	})
}

func TestOrderLogs(t *testing.T) {
	t.Parallel()

	remote := &stubRemoteOrders{
		logsResp: json.RawMessage(`{"logs": [
			{"status": "pending", "createdAt": "2025-08-01T09:00:00Z"},
			{"status": "confirmed", "createdAt": "2025-08-01T09:05:00Z"}
		]}`),
	}
	svc := newTestService(t, remote, nil)

	logs, err := svc.OrderLogs(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, enums.OrderStatusPending, logs[0].Status)
	assert.Equal(t, enums.OrderStatusConfirmed, logs[1].Status)
	assert.Equal(t, 2025, logs[1].CreatedAt.Year())
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	remote := &stubRemoteOrders{byStatus: map[enums.OrderStatus]json.RawMessage{
		enums.OrderStatusPending: json.RawMessage(`[{"id": "o1", "status": "pending"}]`),
	}}
	svc := newTestService(t, remote, storage.NewMemoryStore())

	statuses := []enums.OrderStatus{enums.OrderStatusPending}
	assert.Empty(t, svc.Snapshot(statuses))

	_, err := svc.FetchOrders(context.Background(), statuses)
	require.NoError(t, err)

	snapshot := svc.Snapshot(statuses)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "o1", snapshot[0].ID)
}
