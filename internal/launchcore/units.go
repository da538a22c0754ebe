package launchcore

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// NativeDecimals is the base-unit exponent of the chain's native currency.
const NativeDecimals int32 = 18

// FromBaseUnits converts an on-chain integer amount to decimal units.
func FromBaseUnits(v *big.Int, decimals int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -decimals)
}

// ToBaseUnits converts a decimal amount to on-chain base units, truncating
// anything below one base unit.
func ToBaseUnits(d decimal.Decimal, decimals int32) *big.Int {
	return d.Shift(decimals).BigInt()
}

func gweiToWei(g int64) *big.Int {
	x := new(big.Int).SetInt64(g)
	return x.Mul(x, big.NewInt(1_000_000_000))
}

func mulBig(a *big.Int, m int64) *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(a, big.NewInt(m))
}

func addBig(a, b *big.Int) *big.Int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return new(big.Int).Add(a, b)
}

// FormatEther renders wei as ETH with 6 decimals.
func FormatEther(x *big.Int) string {
	return FromBaseUnits(x, NativeDecimals).StringFixed(6)
}
