package loyalty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	db "github.com/electrohub/loyalty/internal/db"
	models "github.com/electrohub/loyalty/internal/models"
	services "github.com/electrohub/loyalty/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*LoyaltyHandler, *db.MemoryDB) {
	t.Helper()
	mem := db.NewMemoryDB()
	service := services.NewLoyaltyService(mem.Storage(), zap.NewNop())
	return NewHandler(service, mem, zap.NewNop()), mem
}

func do(t *testing.T, h http.Handler, method string, url string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestConfigurationMissing(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/settings/products/P1/effective", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEarnAndRedeemFlow(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPut, "/settings/system", `{"enabled":true,"coinsPerCurrencyUnit":"0.1","globalMultiplier":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/settings/products/P2", `{"earningEnabled":true,"redemptionEnabled":true,"couponEligible":true,"coinsRequiredToRedeem":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/coins/earn", `{"userId":"u1","orderId":"O1","productId":"P1","price":"500","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tnx models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tnx))
	require.Equal(t, int64(50), tnx.Amount)

	rec = do(t, h, http.MethodGet, "/wallets/u1/eligible-products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.RedeemableProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Equal(t, []models.RedeemableProduct{{ProductID: "P2", CoinsRequired: 30}}, products)

	rec = do(t, h, http.MethodPost, "/coins/redeem", `{"userId":"u1","productId":"P2","amount":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/coins/redeem", `{"userId":"u1","productId":"P2","amount":30}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// P1 создан с настройками по умолчанию, обмен запрещен
	rec = do(t, h, http.MethodPost, "/coins/redeem", `{"userId":"u1","productId":"P1","amount":10}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/wallets/u1/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"userId":"u1","balance":20}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/wallets/u1/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tnxs []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tnxs))
	require.Len(t, tnxs, 2)

	rec = do(t, h, http.MethodPost, "/coins/reverse", `{"userId":"u1","orderId":"O1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/coins/reverse", `{"userId":"u1","orderId":"O1"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, "/wallets/u1/reconcile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report models.ReconcileReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, int64(0), report.Drift)
}

func TestBadRequests(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		method string
		url    string
		body   string
	}{
		{http.MethodPut, "/settings/system", `not json`},
		{http.MethodPut, "/settings/system", `{"enabled":true,"coinsPerCurrencyUnit":"-0.1"}`},
		{http.MethodPost, "/coins/earn", `{"price":"10"}`},
		{http.MethodPost, "/coins/redeem", `{"userId":"u1"}`},
		{http.MethodPost, "/coins/reverse", `{"userId":"u1"}`},
		{http.MethodPost, "/coins/adjust", `{"userId":"u1","type":"earned","amount":5}`},
		{http.MethodPost, "/wallets/u1/expire?asOf=yesterday", ""},
		{http.MethodPut, "/settings/products/P1", `{"maxCouponDiscountPct":"150"}`},
	}
	for _, ts := range tests {
		rec := do(t, h, ts.method, ts.url, ts.body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", ts.method, ts.url)
	}
}

func TestCouponEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/coupons", `{"code":"pct20","discountType":"percentage","discountValue":"20","minOrderValue":"0","maxDiscountAmount":"100","startDate":"2025-01-01T00:00:00Z","active":true,"perUserUsageLimit":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var coupon models.Coupon
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coupon))
	require.Equal(t, "PCT20", coupon.Code)

	order := `{"userId":"u1","lineItems":[{"productId":"P1","price":"1000","quantity":1}],"asOf":"2025-06-01T00:00:00Z"}`

	rec = do(t, h, http.MethodPost, "/coupons/PCT20/validate", order)
	require.Equal(t, http.StatusOK, rec.Code)
	var result models.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Valid)

	rec = do(t, h, http.MethodPost, "/coupons/Pct20/apply", fmt.Sprintf(`{"orderId":"O1","order":%s}`, order))
	require.Equal(t, http.StatusOK, rec.Code)
	var applied models.AppliedCoupon
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &applied))
	require.True(t, applied.Discount.Equal(decimal.NewFromInt(100)))

	rec = do(t, h, http.MethodPost, "/coupons/PCT20/apply", fmt.Sprintf(`{"orderId":"O2","order":%s}`, order))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &applied))
	require.False(t, applied.Validation.Valid)
	require.Equal(t, models.PerUserLimitExceeded, applied.Validation.ErrorKind)

	rec = do(t, h, http.MethodPost, "/coupons/NOPE/validate", order)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, models.CouponNotFound, result.ErrorKind)
}

func TestStackingEndpoint(t *testing.T) {
	h, mem := newTestHandler(t)
	require.NoError(t, mem.SaveSystemSettings(context.Background(), models.SystemSettings{Enabled: true}))

	ps := models.DefaultProductSettings("P1")
	ps.AllowStackingWithCoins = true
	require.NoError(t, mem.SaveProductSettings(context.Background(), ps))

	rec := do(t, h, http.MethodGet, "/settings/products/P1/stacking", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"productId":"P1","canStack":true}`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{models.ErrInvalidAmount, http.StatusBadRequest},
		{fmt.Errorf("%w: P1", models.ErrInvalidSettings), http.StatusBadRequest},
		{models.ErrInvalidTransaction, http.StatusBadRequest},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{models.ErrCoinsDisabled, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: P1", models.ErrRedemptionDisabled), http.StatusUnprocessableEntity},
		{models.ErrConfigurationMissing, http.StatusServiceUnavailable},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, ts := range tests {
		require.Equal(t, ts.expected, StatusFor(ts.err), ts.err.Error())
	}
}
