package checkout

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "OrderPlaced"
	TopicOrderPlaced = "storefront.order.placed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id,omitempty"`
	Items         []ItemQty `json:"items"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"payment_method"`
}

// PartitionKey keeps every event of one order on the same partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
