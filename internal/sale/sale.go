package sale

import "time"

// PaymentMethod is how the client settled the ticket.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentCheque   PaymentMethod = "cheque"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCheque, PaymentTransfer:
		return true
	}

	return false
}

// PriceTier tags which price column a line was sold at.
type PriceTier string

const (
	TierRetail    PriceTier = "retail"
	TierWholesale PriceTier = "wholesale"
)

// Item is one ticket line. UnitPrice is in centimes.
type Item struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	PriceTier PriceTier `json:"price_tier"`
}

// Sale is a point-of-sale ticket. ClientID is empty for walk-in sales.
type Sale struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	ClientID      string        `json:"client_id,omitempty"`
	Items         []Item        `json:"items"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}
