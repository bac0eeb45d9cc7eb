package treasury

import "time"

// AccountType classifies a cash or bank account.
type AccountType string

const (
	AccountCash  AccountType = "cash"
	AccountBank  AccountType = "bank"
	AccountOther AccountType = "other"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountCash, AccountBank, AccountOther:
		return true
	}

	return false
}

// Account holds a signed balance in centimes. Balances may go negative:
// transfers carry no overdraft guard.
type Account struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Balance     int64       `json:"balance"`
	Type        AccountType `json:"type"`
	Description string      `json:"description,omitempty"`
}

// Transfer is a recorded movement of funds between two accounts.
type Transfer struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description,omitempty"`
}
