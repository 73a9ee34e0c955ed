package loyalty

import models "github.com/electrohub/loyalty/internal/models"

// StackingPolicy answers per product whether a coupon discount and a coin
// redemption may both apply to one line item. Aggregating across lines is up to the caller.
type StackingPolicy struct{}

func NewStackingPolicy() *StackingPolicy {
	return &StackingPolicy{}
}

func (StackingPolicy) CanStack(ps models.ProductSettings) bool {
	return ps.AllowStackingWithCoins
}
