package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// Кошелек пользователя
type Wallet struct {
	UserID           string    `json:"userId"`
	TotalEarned      int64     `json:"totalEarned"`
	TotalRedeemed    int64     `json:"totalRedeemed"`
	AvailableBalance int64     `json:"availableBalance"`
	Version          int64     `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Consistent reports whether the wallet totals satisfy the balance invariant.
func (w Wallet) Consistent() bool {
	return w.TotalEarned >= 0 && w.TotalRedeemed >= 0 && w.AvailableBalance >= 0 &&
		w.AvailableBalance == w.TotalEarned-w.TotalRedeemed
}

// Apply books a signed amount onto the wallet totals.
func (w *Wallet) Apply(amount int64) {
	if amount >= 0 {
		w.TotalEarned += amount
	} else {
		w.TotalRedeemed += -amount
	}
	w.AvailableBalance = w.TotalEarned - w.TotalRedeemed
}

type TransactionType string

const (
	EARNED        TransactionType = "earned"
	REDEEMED      TransactionType = "redeemed"
	EXPIRED       TransactionType = "expired"
	MANUAL_ADD    TransactionType = "manualAdd"
	MANUAL_REMOVE TransactionType = "manualRemove"
)

// Positive reports whether transactions of this type credit the wallet.
func (t TransactionType) Positive() bool {
	return t == EARNED || t == MANUAL_ADD
}

func (t TransactionType) Valid() bool {
	switch t {
	case EARNED, REDEEMED, EXPIRED, MANUAL_ADD, MANUAL_REMOVE:
		return true
	}
	return false
}

// Ссылка на заказ/товар
type Reference struct {
	OrderID   string `json:"orderId,omitempty"`
	ProductID string `json:"productId,omitempty"`
	RedeemID  string `json:"redeemId,omitempty"` // ключ идемпотентности списания из очереди
}

// Транзакция по монетам (только добавление, без изменений)
type Transaction struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             string          `json:"userId"`
	Type               TransactionType `json:"type"`
	Amount             int64           `json:"amount"` // со знаком
	ReferenceOrderID   string          `json:"referenceOrderId,omitempty"`
	ReferenceProductID string          `json:"referenceProductId,omitempty"`
	ReferenceRedeemID  string          `json:"referenceRedeemId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	ExpiresAt          *time.Time      `json:"expiresAt,omitempty"`
}

// NewTransaction builds a transaction with the sign implied by its type.
func NewTransaction(userID string, typ TransactionType, coins int64, ref Reference, now time.Time) Transaction {
	amount := coins
	if !typ.Positive() {
		amount = -coins
	}
	return Transaction{
		ID:                 uuid.New(),
		UserID:             userID,
		Type:               typ,
		Amount:             amount,
		ReferenceOrderID:   ref.OrderID,
		ReferenceProductID: ref.ProductID,
		ReferenceRedeemID:  ref.RedeemID,
		CreatedAt:          now,
	}
}

// Результат сверки кошелька с журналом
type ReconcileReport struct {
	UserID string `json:"userId"`
	Before Wallet `json:"before"`
	After  Wallet `json:"after"`
	Drift  int64  `json:"drift"` // after.available - before.available
}
