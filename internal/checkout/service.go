// Package checkout turns the cart into a local, cash-on-delivery order receipt.
package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/cart"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	PaymentCashOnDelivery = "cash_on_delivery"
	DefaultCustomerName   = "Customer"
)

var ErrEmptyCart = errors.New("cart is empty")

// EventSink is satisfied by *kafka.Producer. Publish must not block; it
// reports whether the event was accepted.
type EventSink interface {
	Publish(key, value []byte, headers ...kafkago.Header) bool
}

type ReceiptLine struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type Receipt struct {
	OrderID       string        `json:"order_id"`
	CustomerName  string        `json:"customer_name"`
	Lines         []ReceiptLine `json:"lines"`
	ItemCount     int           `json:"item_count"`
	Subtotal      float64       `json:"subtotal"`
	DeliveryFee   float64       `json:"delivery_fee"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	PlacedAt      time.Time     `json:"placed_at"`
}

type Service struct {
	Cart        *cart.Engine
	Events      EventSink // nil disables publishing
	ServiceName string
	Now         func() time.Time
}

func NewService(c *cart.Engine, events EventSink, serviceName string) *Service {
	return &Service{Cart: c, Events: events, ServiceName: serviceName, Now: time.Now}
}

// PlaceOrder empties the cart into a receipt. customer may be nil.
func (s *Service) PlaceOrder(ctx context.Context, customer *auth.SafeUser, traceID string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	snap := s.Cart.Drain()
	if len(snap.Lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	r := Receipt{
		OrderID:       uuid.NewString(),
		CustomerName:  DefaultCustomerName,
		ItemCount:     snap.Count,
		Subtotal:      snap.Total,
		Total:         snap.Total,
		PaymentMethod: PaymentCashOnDelivery,
		PlacedAt:      s.Now().UTC(),
	}
	if customer != nil && customer.Name != "" {
		r.CustomerName = customer.Name
	}
	for _, l := range snap.Lines {
		r.Lines = append(r.Lines, ReceiptLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice(),
			LineTotal: l.Subtotal(),
		})
	}

	s.publish(r, customer, traceID)
	return r, nil
}

func (s *Service) publish(r Receipt, customer *auth.SafeUser, traceID string) {
	if s.Events == nil {
		return
	}
	payload := OrderPlacedPayload{
		OrderID:       r.OrderID,
		Items:         make([]ItemQty, 0, len(r.Lines)),
		Total:         cart.FormatMoney(r.Total),
		PaymentMethod: r.PaymentMethod,
	}
	if customer != nil {
		payload.CustomerID = customer.ID
	}
	for _, l := range r.Lines {
		payload.Items = append(payload.Items, ItemQty{ProductID: l.ProductID, Qty: l.Quantity})
	}

	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    r.PlacedAt,
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: r.OrderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	if !s.Events.Publish(PartitionKey(r.OrderID), kafkax.MustMarshal(ev), kafkax.EventHeaders(EventOrderPlaced, ev.EventVersion)...) {
		log.Printf("checkout: order %s placed, event not queued", r.OrderID)
		return
	}
	log.Printf("checkout: order %s placed (%d items)", r.OrderID, r.ItemCount)
}
