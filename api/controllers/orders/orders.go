package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kdquach/thetrois-backend/api/responses"
	"github.com/kdquach/thetrois-backend/api/validators"
	ordersvc "github.com/kdquach/thetrois-backend/internal/orders"
	"github.com/kdquach/thetrois-backend/pkg/enums"
	pkgerrors "github.com/kdquach/thetrois-backend/pkg/errors"
	"github.com/kdquach/thetrois-backend/pkg/logger"
	"github.com/kdquach/thetrois-backend/pkg/money"
)

type orderView struct {
	ordersvc.Order
	TotalFormatted string `json:"totalFormatted"`
}

func newOrderView(order ordersvc.Order) orderView {
	return orderView{
		Order:          order,
		TotalFormatted: money.FormatVND(order.TotalAmount),
	}
}

func newOrderViews(list []ordersvc.Order) []orderView {
	views := make([]orderView, 0, len(list))
	for _, order := range list {
		views = append(views, newOrderView(order))
	}
	return views
}

// List serves GET /orders?status=…. The status parameter accepts a single
// status, a comma-separated set, or the tracking/history tab aliases.
func List(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		statuses, err := statusesFromQuery(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.FetchOrders(r.Context(), statuses)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderViews(list))
	}
}

// CreateOrderRequest is the body for POST /orders.
type CreateOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Note  string                   `json:"note"`
}

type CreateOrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// Create places a new order.
func Create(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.CreateOrderInput{Note: payload.Note}
		for _, item := range payload.Items {
			input.Items = append(input.Items, ordersvc.CreateOrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(order))
	}
}

// UpdateStatus moves an order to the status named in the path.
func UpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID := chi.URLParam(r, "orderID")
		status, err := enums.ParseOrderStatus(chi.URLParam(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		if err := svc.UpdateOrderStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"orderId": orderID,
			"status":  status.String(),
		})
	}
}

// Detail serves one order.
func Detail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderView(order))
	}
}

// Logs serves the status history of one order.
func Logs(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		logs, err := svc.OrderLogs(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, logs)
	}
}

func statusesFromQuery(raw string) ([]enums.OrderStatus, error) {
	value := strings.TrimSpace(raw)
	switch value {
	case "", "pending":
		return []enums.OrderStatus{enums.OrderStatusPending}, nil
	case "tracking":
		return enums.TrackingStatuses(), nil
	case "history":
		return enums.HistoryStatuses(), nil
	}

	parts := strings.Split(value, ",")
	statuses := make([]enums.OrderStatus, 0, len(parts))
	for _, part := range parts {
		status, err := enums.ParseOrderStatus(strings.TrimSpace(part))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
