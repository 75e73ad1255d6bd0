package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kdquach/thetrois-backend/internal/catalog"
	"github.com/kdquach/thetrois-backend/internal/notify"
	"github.com/kdquach/thetrois-backend/pkg/enums"
	pkgerrors "github.com/kdquach/thetrois-backend/pkg/errors"
	"github.com/kdquach/thetrois-backend/pkg/logger"
	"github.com/kdquach/thetrois-backend/pkg/metrics"
)

// Phase is the lifecycle state of the cart synchronizer.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseMutating   Phase = "mutating"
	PhaseRefetching Phase = "refetching"
)

// User-facing notice texts. Server-provided messages take precedence for
// failures; these are the fallbacks.
const (
	noticeAddSuccess    = "Đã thêm vào giỏ hàng"
	noticeUpdateSuccess = "Đã cập nhật giỏ hàng"
	noticeRemoveSuccess = "Đã xóa khỏi giỏ hàng"
	noticeClearSuccess  = "Đã xóa toàn bộ giỏ hàng"
	noticeFailureTitle  = "Có lỗi xảy ra"
	noticeGenericDetail = "Vui lòng thử lại sau"
)

// RemoteCart is the upstream commerce API surface the synchronizer writes
// through. Every mutation is followed by a full refetch via GetCart.
type RemoteCart interface {
	GetCart(ctx context.Context) (json.RawMessage, error)
	AddToCart(ctx context.Context, input AddItemInput) error
	UpdateCartItem(ctx context.Context, itemID string, input UpdateItemInput) error
	RemoveCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

// ToppingLookup resolves the topping catalog used to backfill names and
// prices the cart payload omits.
type ToppingLookup interface {
	Toppings(ctx context.Context) ([]catalog.Topping, error)
}

// ToppingSelection is one topping choice on an add request.
type ToppingSelection struct {
	ToppingID string `json:"toppingId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItemInput describes a new cart line.
type AddItemInput struct {
	ProductID     string             `json:"productId" validate:"required"`
	Quantity      int                `json:"quantity"`
	Customization *Customization     `json:"customization"`
	Toppings      []ToppingSelection `json:"toppings"`
	Note          string             `json:"note"`
}

// UpdateItemInput is a partial patch against an existing line. Nil fields are
// left untouched.
type UpdateItemInput struct {
	Quantity      *int                `json:"quantity"`
	Customization *Customization      `json:"customization"`
	Toppings      *[]ToppingSelection `json:"toppings"`
	Note          *string             `json:"note"`
}

func (u UpdateItemInput) empty() bool {
	return u.Quantity == nil && u.Customization == nil && u.Toppings == nil && u.Note == nil
}

// Service synchronizes the local cart view against the upstream commerce
// API. All mutations are write-then-refetch; the local state only ever holds
// what the server last confirmed.
type Service interface {
	Snapshot() Cart
	Phase() Phase
	Refresh(ctx context.Context) error
	AddItem(ctx context.Context, input AddItemInput) error
	UpdateItem(ctx context.Context, itemID string, input UpdateItemInput) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
	ItemTotal(itemID string) (int, error)
	Total() int
}

type service struct {
	remote   RemoteCart
	toppings ToppingLookup
	sink     notify.Sink
	logg     *logger.Logger
	metrics  *metrics.CartMetrics

	mu    sync.RWMutex
	cart  Cart
	phase Phase
}

// NewService builds the cart synchronizer. The topping lookup, sink and
// metrics are optional; the remote and logger are not.
func NewService(
	remote RemoteCart,
	toppings ToppingLookup,
	sink notify.Sink,
	logg *logger.Logger,
	cartMetrics *metrics.CartMetrics,
) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote cart is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		remote:   remote,
		toppings: toppings,
		sink:     sink,
		logg:     logg,
		metrics:  cartMetrics,
		cart:     Cart{Items: []Item{}},
		phase:    PhaseIdle,
	}, nil
}

func (s *service) Snapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Cart{
		Items:      make([]Item, len(s.cart.Items)),
		TotalPrice: s.cart.TotalPrice,
	}
	copy(out.Items, s.cart.Items)
	return out
}

func (s *service) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Refresh re-reads the cart from the upstream and swaps the local state on
// success. Failures leave the previous state untouched.
func (s *service) Refresh(ctx context.Context) error {
	s.setPhase(PhaseRefetching)
	defer s.setPhase(PhaseIdle)
	return s.refetch(ctx)
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) error {
	if input.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Customization == nil {
		cust := DefaultCustomization()
		input.Customization = &cust
	}

	return s.mutate(ctx, "add", noticeAddSuccess, func(ctx context.Context) error {
		return s.remote.AddToCart(ctx, input)
	})
}

func (s *service) UpdateItem(ctx context.Context, itemID string, input UpdateItemInput) error {
	if itemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.empty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "update patch is empty")
	}
	// Dropping a line to zero is a remove, never an update. The upstream
	// write is not attempted.
	if input.Quantity != nil && *input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1, remove the item instead")
	}

	ctx = s.logg.WithCartItemID(ctx, itemID)
	return s.mutate(ctx, "update", noticeUpdateSuccess, func(ctx context.Context) error {
		return s.remote.UpdateCartItem(ctx, itemID, input)
	})
}

func (s *service) RemoveItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	ctx = s.logg.WithCartItemID(ctx, itemID)
	return s.mutate(ctx, "remove", noticeRemoveSuccess, func(ctx context.Context) error {
		return s.remote.RemoveCartItem(ctx, itemID)
	})
}

func (s *service) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", noticeClearSuccess, func(ctx context.Context) error {
		return s.remote.ClearCart(ctx)
	})
}

// ItemTotal prices the identified line from the current snapshot.
func (s *service) ItemTotal(itemID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.cart.Items {
		if item.ID == itemID {
			return ItemTotal(item), nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

func (s *service) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Total(s.cart)
}

// mutate runs the write-then-refetch cycle shared by every mutation. The
// local cart is only replaced by a successful refetch; any failure along the
// way keeps the previous state and surfaces a notice.
func (s *service) mutate(ctx context.Context, op, successNotice string, write func(context.Context) error) error {
	started := time.Now()
	defer func() {
		s.metrics.ObserveDuration(op, time.Since(started))
	}()

	s.setPhase(PhaseMutating)
	defer s.setPhase(PhaseIdle)

	if err := write(ctx); err != nil {
		s.metrics.IncFailure(op)
		s.notifyFailure(ctx, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("cart %s failed", op))
	}

	s.setPhase(PhaseRefetching)
	if err := s.refetch(ctx); err != nil {
		s.metrics.IncFailure(op)
		s.notifyFailure(ctx, err)
		return err
	}

	s.metrics.IncSuccess(op)
	s.notify(ctx, notify.Message{Type: enums.NoticeSuccess, Title: successNotice})
	return nil
}

// refetch pulls the authoritative cart and swaps the local state. The state
// is only replaced when the round trip and normalization both succeed.
func (s *service) refetch(ctx context.Context) error {
	raw, err := s.remote.GetCart(ctx)
	if err != nil {
		s.logg.Error(ctx, "cart.refetch.failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart refetch failed")
	}

	fresh := Normalize(raw)
	s.enrich(ctx, &fresh)

	s.mu.Lock()
	s.cart = fresh
	s.mu.Unlock()

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_count":  len(fresh.Items),
		"total_price": Total(fresh),
	}), "cart.refetched")
	return nil
}

// enrich backfills topping names and prices the cart payload left blank,
// using the catalog. Lookup failures degrade to the payload as-is.
func (s *service) enrich(ctx context.Context, c *Cart) {
	if s.toppings == nil {
		return
	}

	needsCatalog := false
	for _, item := range c.Items {
		for _, topping := range item.Toppings {
			if topping.Price == 0 || topping.Name == "" {
				needsCatalog = true
				break
			}
		}
	}
	if !needsCatalog {
		return
	}

	listed, err := s.toppings.Toppings(ctx)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.enrich.catalog_unavailable")
		return
	}
	byID := catalog.ByID(listed)

	for i := range c.Items {
		for j := range c.Items[i].Toppings {
			ref := &c.Items[i].Toppings[j]
			entry, ok := byID[ref.ToppingID]
			if !ok {
				continue
			}
			if ref.Name == "" {
				ref.Name = entry.Name
			}
			if ref.Price == 0 {
				ref.Price = entry.Price
			}
		}
	}
}

func (s *service) setPhase(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

func (s *service) notify(ctx context.Context, msg notify.Message) {
	if s.sink == nil {
		return
	}
	s.sink.Notify(ctx, msg)
}

// notifyFailure surfaces the server's own message when one is attached to
// the error chain, else a generic Vietnamese fallback.
func (s *service) notifyFailure(ctx context.Context, err error) {
	detail := noticeGenericDetail
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		detail = typed.Message()
	}
	s.notify(ctx, notify.Message{
		Type:   enums.NoticeError,
		Title:  noticeFailureTitle,
		Detail: detail,
	})
}
