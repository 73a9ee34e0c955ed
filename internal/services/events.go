package loyalty

import (
	"context"
	"encoding/json"
	"fmt"

	models "github.com/electrohub/loyalty/internal/models"
	"go.uber.org/zap"
)

// Обработка заказа из очереди: начисление по всем позициям
func (s *LoyaltyService) OrderProcess(ctx context.Context, orderJson string) ([]models.Transaction, error) {
	var order models.OrderEvent
	if err := json.Unmarshal([]byte(orderJson), &order); err != nil {
		return nil, err
	}
	if order.OrderID == "" || order.UserID == "" {
		return nil, fmt.Errorf("order event without orderId or userId")
	}
	asOf := order.CreatedAt
	if asOf.IsZero() {
		asOf = s.clock()
	}
	tnxs, err := s.EarnForOrder(ctx, order.UserID, order.OrderID, order.Items, asOf)
	if err != nil {
		return tnxs, err
	}
	s.logger.Info("order processed",
		zap.String("order", order.OrderID),
		zap.String("user", order.UserID),
		zap.Int("tnx", len(tnxs)),
	)
	return tnxs, nil
}

// Обработка возврата: монеты за заказ снимаются
func (s *LoyaltyService) ReturnProcess(ctx context.Context, returnJson string) (*models.Transaction, error) {
	var ret models.ReturnEvent
	if err := json.Unmarshal([]byte(returnJson), &ret); err != nil {
		return nil, err
	}
	if ret.OrderID == "" || ret.UserID == "" {
		return nil, fmt.Errorf("return event without orderId or userId")
	}
	return WithConflictRetry(func() (*models.Transaction, error) {
		return s.Ledger.ReverseOrder(ctx, ret.UserID, ret.OrderID)
	})
}

// Списание по запросу из очереди. redeemId возвращается, если его удалось прочитать.
// Повторная доставка того же redeemId возвращает уже проведенное списание.
func (s *LoyaltyService) Redeem(ctx context.Context, redeemJson string) (redeemId string, err error) {
	var req models.RedeemRequest
	if err := json.Unmarshal([]byte(redeemJson), &req); err != nil {
		return "", err
	}
	if req.RedeemID == "" {
		return "", fmt.Errorf("redeem request without redeemId")
	}
	_, err = WithConflictRetry(func() (models.Transaction, error) {
		return s.redeem(ctx, req.UserID, req.Coins, models.Reference{OrderID: req.OrderID, ProductID: req.ProductID, RedeemID: req.RedeemID})
	})
	return req.RedeemID, err
}
