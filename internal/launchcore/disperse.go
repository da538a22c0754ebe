package launchcore

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BundleDisperser swaps each bundle wallet's token allotment for native
// currency, one wallet at a time. Wallets must already hold their tokens.
type BundleDisperser struct {
	txRunner
	router   common.Address
	token    common.Address
	base     common.Address
	deadline time.Duration
	now      func() time.Time
}

func NewBundleDisperser(chain Chain, router, token, base common.Address, deadline time.Duration, now func() time.Time, emit func(Event)) *BundleDisperser {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	if now == nil {
		now = time.Now
	}
	return &BundleDisperser{txRunner: newTxRunner(chain, emit), router: router, token: token, base: base, deadline: deadline, now: now}
}

func (d *BundleDisperser) SwapArgs(wallet Identity, amountIn *big.Int) SwapArgs {
	return SwapArgs{
		AmountIn:     new(big.Int).Set(amountIn),
		AmountOutMin: big.NewInt(0),
		Path:         []common.Address{d.token, d.base},
		To:           wallet.Address,
		Deadline:     deadlineAt(d.now(), d.deadline),
	}
}

// Swap submits and confirms the swap for bundle wallet i, signed by that wallet.
func (d *BundleDisperser) Swap(ctx context.Context, i int, wallet Identity, amountIn *big.Int) (TransactionOutcome, error) {
	args := d.SwapArgs(wallet, amountIn)
	return d.run(ctx, ErrSwapFailed, i, "swapExactTokensForETHSupportingFeeOnTransferTokens", func(ctx context.Context) (common.Hash, error) {
		return d.chain.SwapExactTokensForETHSupportingFeeOnTransferTokens(ctx, wallet, d.router, args)
	})
}

// DisperseAll swaps for every wallet in order and stops at the first failure;
// wallets after the failing one are never submitted.
func (d *BundleDisperser) DisperseAll(ctx context.Context, wallets []Identity, amountIn *big.Int) ([]TransactionOutcome, error) {
	outs := make([]TransactionOutcome, 0, len(wallets))
	for i, w := range wallets {
		out, err := d.Swap(ctx, i, w, amountIn)
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}
