package inventory

import "time"

// Direction tells whether a movement adds stock or removes it.
type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

// Movement is one recorded stock change. The ledger is append-only:
// corrections append compensating movements rather than rewriting history.
// The one exception is sale edits, which drop the movements tagged with the
// sale id before reissuing them.
type Movement struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Direction   Direction `json:"direction"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date"`
	Comment     string    `json:"comment"`
	DocumentRef string    `json:"document_ref,omitempty"`
}
