package launchcore

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

// DefaultTokensPerNative is the placeholder token/native ratio used to size
// the token side of the initial liquidity.
var DefaultTokensPerNative = decimal.NewFromInt(1000)

// DefaultDeadline bounds how long submitted router calls stay executable.
const DefaultDeadline = 20 * time.Minute

// LiquiditySeeder approves the router and deposits token + native into the pool.
type LiquiditySeeder struct {
	txRunner
	deployer        Identity
	router          common.Address
	tokenDecimals   int32
	tokensPerNative decimal.Decimal
	deadline        time.Duration
	now             func() time.Time
}

func NewLiquiditySeeder(chain Chain, deployer Identity, router common.Address, tokenDecimals int32, tokensPerNative decimal.Decimal, deadline time.Duration, now func() time.Time, emit func(Event)) *LiquiditySeeder {
	if !tokensPerNative.IsPositive() {
		tokensPerNative = DefaultTokensPerNative
	}
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	if now == nil {
		now = time.Now
	}
	return &LiquiditySeeder{
		txRunner:        newTxRunner(chain, emit),
		deployer:        deployer,
		router:          router,
		tokenDecimals:   tokenDecimals,
		tokensPerNative: tokensPerNative,
		deadline:        deadline,
		now:             now,
	}
}

// Approve grants the router an unlimited allowance. It always submits, even
// when the allowance is already maximal.
func (s *LiquiditySeeder) Approve(ctx context.Context, token common.Address) (TransactionOutcome, error) {
	return s.run(ctx, ErrApprovalFailed, -1, "approve", func(ctx context.Context) (common.Hash, error) {
		return s.chain.Approve(ctx, s.deployer, token, s.router, new(big.Int).Set(math.MaxBig256))
	})
}

// LiquidityArgs sizes addLiquidityETH for amountETH of native currency.
// Minimum amounts are zero: the deposit accepts any execution-time price.
func (s *LiquiditySeeder) LiquidityArgs(token common.Address, amountETH decimal.Decimal) LiquidityArgs {
	return LiquidityArgs{
		Token:              token,
		AmountTokenDesired: ToBaseUnits(amountETH.Mul(s.tokensPerNative), s.tokenDecimals),
		AmountTokenMin:     big.NewInt(0),
		AmountETHMin:       big.NewInt(0),
		To:                 s.deployer.Address,
		Deadline:           deadlineAt(s.now(), s.deadline),
		Value:              ToBaseUnits(amountETH, NativeDecimals),
	}
}

func (s *LiquiditySeeder) AddLiquidity(ctx context.Context, token common.Address, amountETH decimal.Decimal) (TransactionOutcome, error) {
	args := s.LiquidityArgs(token, amountETH)
	return s.run(ctx, ErrLiquidityAdditionFailed, -1, "addLiquidityETH", func(ctx context.Context) (common.Hash, error) {
		return s.chain.AddLiquidityETH(ctx, s.deployer, s.router, args)
	})
}

// Seed runs Approve then AddLiquidity; the second is never submitted if the first fails.
func (s *LiquiditySeeder) Seed(ctx context.Context, token common.Address, amountETH decimal.Decimal) ([]TransactionOutcome, error) {
	approved, err := s.Approve(ctx, token)
	if err != nil {
		return nil, err
	}
	added, err := s.AddLiquidity(ctx, token, amountETH)
	if err != nil {
		return []TransactionOutcome{approved}, err
	}
	return []TransactionOutcome{approved, added}, nil
}

func deadlineAt(now time.Time, d time.Duration) *big.Int {
	return big.NewInt(now.Add(d).Unix())
}
