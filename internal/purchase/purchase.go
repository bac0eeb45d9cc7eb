package purchase

import "time"

// Status is the lifecycle state of a purchase order. Stock and ledger
// effects are tied to the received state only: entering it books the goods
// in, leaving it (or deleting a received order) books them back out.
// Pending <-> Received <-> Invoiced, no terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReceived Status = "received"
	StatusInvoiced Status = "invoiced"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusInvoiced:
		return true
	}

	return false
}

// Item is one order line. UnitPriceHT is in centimes.
type Item struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	UnitPriceHT int64  `json:"unit_price_ht"`
}

// Purchase is a supplier order. Outstanding is the balance still owed
// (total minus amount paid), kept in sync by the service.
type Purchase struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	SupplierID  string    `json:"supplier_id"`
	Items       []Item    `json:"items"`
	TotalHT     int64     `json:"total_ht"`
	AmountPaid  int64     `json:"amount_paid"`
	Outstanding int64     `json:"outstanding"`
	Status      Status    `json:"status"`
}
