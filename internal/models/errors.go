package loyalty

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConfigurationMissing = errors.New("loyalty system settings are missing")
	ErrInvalidSettings      = errors.New("invalid loyalty settings")
	ErrInvalidAmount        = errors.New("coin amount must be a positive integer")
	ErrInsufficientBalance  = errors.New("not enough coins")
	ErrConflict             = errors.New("concurrent wallet update, retry")
	ErrCoinsDisabled        = errors.New("loyalty coins are disabled")
	ErrRedemptionDisabled   = errors.New("coin redemption is disabled for product")
	ErrInvalidTransaction   = errors.New("invalid transaction type")

	// нарушение лимитов при записи использования купона
	ErrUsageLimitExceeded   = errors.New("coupon usage limit exceeded")
	ErrPerUserLimitExceeded = errors.New("coupon per user usage limit exceeded")
)
