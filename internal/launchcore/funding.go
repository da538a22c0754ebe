package launchcore

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LaunchPlan is computed once per run from a single supply snapshot. Every
// bundle wallet gets RequiredPerWallet regardless of later supply changes.
type LaunchPlan struct {
	TargetPercent     decimal.Decimal
	Supply            decimal.Decimal
	RequiredPerWallet decimal.Decimal
	SafetyBuffer      decimal.Decimal
	Wallets           int
	TotalRequired     decimal.Decimal

	// SlippageUnprotected is set while liquidity and swap minimum outputs are zero.
	SlippageUnprotected bool
}

// RequiredPerWallet is (pct / 100) * supply, exact in decimal arithmetic.
func RequiredPerWallet(pct, supply decimal.Decimal) decimal.Decimal {
	return supply.Mul(pct).Shift(-2)
}

// ValidatePercent accepts targets in (0, 100].
func ValidatePercent(pct decimal.Decimal) error {
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return ConfigError("target percent %s outside (0, 100]", pct.String())
	}
	return nil
}

// NewLaunchPlan derives the per-wallet and total funding from a supply snapshot.
func NewLaunchPlan(pct, supply, buffer decimal.Decimal, wallets int) (LaunchPlan, error) {
	if err := ValidatePercent(pct); err != nil {
		return LaunchPlan{}, err
	}
	if wallets <= 0 {
		return LaunchPlan{}, ConfigError("no bundle wallets")
	}
	if buffer.IsNegative() {
		return LaunchPlan{}, ConfigError("negative safety buffer %s", buffer.String())
	}
	per := RequiredPerWallet(pct, supply)
	return LaunchPlan{
		TargetPercent:       pct,
		Supply:              supply,
		RequiredPerWallet:   per,
		SafetyBuffer:        buffer,
		Wallets:             wallets,
		TotalRequired:       per.Mul(decimal.NewFromInt(int64(wallets))).Add(buffer),
		SlippageUnprotected: true,
	}, nil
}

// SupplySnapshot reads initialTotalSupply() once and converts it to decimal units.
func SupplySnapshot(ctx context.Context, chain Chain, token common.Address, decimals int32) (decimal.Decimal, error) {
	raw, err := chain.InitialTotalSupply(ctx, token)
	if err != nil {
		return decimal.Zero, fail(ErrSupplyUnavailable, common.Hash{}, fmt.Errorf("initialTotalSupply(%s): %w", token.Hex(), err))
	}
	if raw == nil || raw.Sign() < 0 {
		return decimal.Zero, fail(ErrSupplyUnavailable, common.Hash{}, fmt.Errorf("initialTotalSupply(%s): invalid value", token.Hex()))
	}
	return FromBaseUnits(raw, decimals), nil
}

// CheckBalance lets the run proceed iff balance >= total.
func CheckBalance(balance, total decimal.Decimal) error {
	if balance.GreaterThanOrEqual(total) {
		return nil
	}
	return fail(ErrInsufficientFunds, common.Hash{}, fmt.Errorf("need >= %s, have %s", total.String(), balance.String()))
}

// PlannedOutlay is the native value the deployer commits during a run: the
// safety buffer and the liquidity value, plus the bundle transfers when the
// run funds the bundle wallets itself.
func PlannedOutlay(plan LaunchPlan, liquidity decimal.Decimal, fundBundles bool) decimal.Decimal {
	out := plan.SafetyBuffer.Add(liquidity)
	if fundBundles {
		out = out.Add(plan.RequiredPerWallet.Mul(decimal.NewFromInt(int64(plan.Wallets))))
	}
	return out
}

// CheckOutlay fails when balance cannot cover the deployer's full outlay, so a
// run never confirms funding transfers it cannot follow with liquidity.
func CheckOutlay(balance, total, outlay decimal.Decimal) error {
	if balance.GreaterThanOrEqual(outlay) {
		return nil
	}
	return fail(ErrInsufficientFunds, common.Hash{}, fmt.Errorf("planned outlay %s exceeds balance %s (funding total %s)",
		outlay.String(), balance.String(), total.String()))
}
