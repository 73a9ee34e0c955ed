package loyalty

import "time"

// Заказ из kafka (топик orders)
type OrderEvent struct {
	OrderID   string     `json:"orderId"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	Items     []LineItem `json:"items"`
}

// Возврат из kafka (топик returns)
type ReturnEvent struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
}

// Запрос на списание из rabbitmq
type RedeemRequest struct {
	RedeemID  string `json:"redeemId"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	OrderID   string `json:"orderId"`
	Coins     int64  `json:"coins"`
}

// Подтверждение списания
type RedeemConfirm struct {
	RedeemID string `json:"redeemId"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}
