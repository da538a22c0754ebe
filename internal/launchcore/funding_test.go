package launchcore

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRequiredPerWalletScalesLinearly(t *testing.T) {
	tests := []struct {
		pct, supply, want string
	}{
		{"0", "1000000", "0"},
		{"1", "1000000", "10000"},
		{"2", "1000000", "20000"},
		{"100", "1000000", "1000000"},
		{"0.5", "1000", "5"},
		{"33.3", "3", "0.999"},
		{"100", "0", "0"},
		{"12.5", "123456.789", "15432.098625"},
	}
	for _, tt := range tests {
		got := RequiredPerWallet(dec(tt.pct), dec(tt.supply))
		assert.Truef(t, got.Equal(dec(tt.want)), "pct=%s supply=%s: got %s want %s", tt.pct, tt.supply, got, tt.want)
	}

	supply := dec("987654.321")
	one := RequiredPerWallet(dec("1"), supply)
	for _, k := range []int64{2, 7, 50, 100} {
		got := RequiredPerWallet(decimal.NewFromInt(k), supply)
		assert.True(t, got.Equal(one.Mul(decimal.NewFromInt(k))), "k=%d", k)
	}
}

func TestValidatePercent(t *testing.T) {
	for _, ok := range []string{"0.0001", "1", "99.99", "100"} {
		assert.NoError(t, ValidatePercent(dec(ok)), ok)
	}
	for _, bad := range []string{"0", "-1", "100.01", "250"} {
		err := ValidatePercent(dec(bad))
		assert.ErrorIs(t, err, ErrConfigMissing, bad)
	}
}

func TestNewLaunchPlan(t *testing.T) {
	plan, err := NewLaunchPlan(dec("1"), dec("1000000"), dec("0.05"), 3)
	require.NoError(t, err)
	assert.True(t, plan.RequiredPerWallet.Equal(dec("10000")))
	assert.True(t, plan.TotalRequired.Equal(dec("30000.05")))
	assert.Equal(t, 3, plan.Wallets)
	assert.True(t, plan.SlippageUnprotected)

	_, err = NewLaunchPlan(dec("1"), dec("1000000"), dec("0.05"), 0)
	assert.ErrorIs(t, err, ErrConfigMissing)
	_, err = NewLaunchPlan(dec("1"), dec("1000000"), dec("-1"), 2)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestSupplySnapshot(t *testing.T) {
	fc := newFakeChain()
	fc.supply = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18))
	got, err := SupplySnapshot(context.Background(), fc, common.Address{1}, 18)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1000000")))

	fc.supply = big.NewInt(1_500_000)
	got, err = SupplySnapshot(context.Background(), fc, common.Address{1}, 6)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1.5")))

	fc.supplyErr = errors.New("execution reverted")
	_, err = SupplySnapshot(context.Background(), fc, common.Address{1}, 18)
	require.ErrorIs(t, err, ErrSupplyUnavailable)
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestCheckBalance(t *testing.T) {
	assert.NoError(t, CheckBalance(dec("10"), dec("10")), "boundary B == T proceeds")
	assert.NoError(t, CheckBalance(dec("10.000001"), dec("10")))
	assert.NoError(t, CheckBalance(dec("0"), dec("0")))

	err := CheckBalance(dec("9.999999"), dec("10"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "need >= 10")
	assert.Contains(t, err.Error(), "have 9.999999")
}

func TestPlannedOutlay(t *testing.T) {
	plan, err := NewLaunchPlan(dec("1"), dec("1000000"), dec("0.05"), 3)
	require.NoError(t, err)

	assert.True(t, PlannedOutlay(plan, dec("10000"), true).Equal(dec("40000.05")))
	assert.True(t, PlannedOutlay(plan, dec("10000"), false).Equal(dec("10000.05")))
	assert.True(t, PlannedOutlay(plan, dec("3"), true).Equal(dec("30003.05")))
}

func TestCheckOutlay(t *testing.T) {
	require.NoError(t, CheckOutlay(dec("40000.05"), dec("30000.05"), dec("40000.05")))

	err := CheckOutlay(dec("30000.05"), dec("30000.05"), dec("40000.05"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "40000.05")
	assert.Contains(t, err.Error(), "30000.05")
}
