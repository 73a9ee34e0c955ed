package loyalty

import (
	"context"
	"testing"

	models "github.com/electrohub/loyalty/internal/models"
	"github.com/stretchr/testify/require"
)

func redeemable(productId string, coins int64) models.ProductSettings {
	ps := models.DefaultProductSettings(productId)
	ps.RedemptionEnabled = true
	ps.CoinsRequiredToRedeem = coins
	return ps
}

func TestRedeemable(t *testing.T) {
	off := redeemable("OFF", 10)
	off.RedemptionEnabled = false
	catalog := []models.ProductSettings{
		redeemable("B", 200),
		redeemable("A", 200),
		redeemable("C", 50),
		redeemable("PRICEY", 1000),
		redeemable("FREE", 0),
		off,
	}

	got := Redeemable(300, catalog)
	require.Equal(t, []models.RedeemableProduct{
		{ProductID: "C", CoinsRequired: 50},
		{ProductID: "A", CoinsRequired: 200},
		{ProductID: "B", CoinsRequired: 200},
	}, got)

	// ровно на баланс
	got = Redeemable(50, catalog)
	require.Len(t, got, 1)

	got = Redeemable(0, catalog)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestGetEligibleProducts(t *testing.T) {
	svc, mem := newTestService(t, defaultSystem())
	ctx := context.Background()

	for _, ps := range []models.ProductSettings{redeemable("P1", 100), redeemable("P2", 500)} {
		require.NoError(t, mem.SaveProductSettings(ctx, ps))
	}

	products, err := svc.GetEligibleProducts(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, products)

	_, err = svc.Ledger.Adjust(ctx, "u1", models.MANUAL_ADD, 150, models.Reference{})
	require.NoError(t, err)

	products, err = svc.GetEligibleProducts(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []models.RedeemableProduct{{ProductID: "P1", CoinsRequired: 100}}, products)
}

func TestGetEligibleProductsDisabled(t *testing.T) {
	sys := defaultSystem()
	sys.Enabled = false
	svc, mem := newTestService(t, sys)
	ctx := context.Background()

	require.NoError(t, mem.SaveProductSettings(ctx, redeemable("P1", 10)))
	_, err := svc.Ledger.Adjust(ctx, "u1", models.MANUAL_ADD, 100, models.Reference{})
	require.NoError(t, err)

	products, err := svc.GetEligibleProducts(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, products)
}
