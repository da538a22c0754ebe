package launchcore

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// BundleFunder sends each bundle wallet its native-currency allotment from
// the deployer. Transfers use consecutive nonces, are submitted concurrently
// and are all confirmed before Fund returns.
type BundleFunder struct {
	txRunner
	deployer Identity
}

func NewBundleFunder(chain Chain, deployer Identity, emit func(Event)) *BundleFunder {
	return &BundleFunder{txRunner: newTxRunner(chain, emit), deployer: deployer}
}

func (f *BundleFunder) Fund(ctx context.Context, wallets []Identity, amount *big.Int) ([]TransactionOutcome, error) {
	if len(wallets) == 0 {
		return nil, nil
	}
	base, err := f.chain.PendingNonce(ctx, f.deployer.Address)
	if err != nil {
		return nil, fail(ErrFundingFailed, common.Hash{}, fmt.Errorf("nonce(deployer): %w", err))
	}

	hashes := make([]common.Hash, len(wallets))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range wallets {
		i, w := i, w
		g.Go(func() error {
			h, err := f.chain.Transfer(gctx, f.deployer, base+uint64(i), w.Address, new(big.Int).Set(amount))
			hashes[i] = h
			if err != nil {
				return failWallet(ErrFundingFailed, i, h, err)
			}
			return nil
		})
	}
	submitErr := g.Wait()
	for i, h := range hashes {
		if h != (common.Hash{}) {
			f.submitted(i, "transfer", h)
		}
	}
	if submitErr != nil {
		return nil, submitErr
	}

	outs := make([]TransactionOutcome, len(wallets))
	g, gctx = errgroup.WithContext(ctx)
	for i := range wallets {
		i := i
		g.Go(func() error {
			out, err := f.chain.WaitConfirmed(gctx, hashes[i])
			if err != nil {
				return failWallet(ErrFundingFailed, i, hashes[i], err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, out := range outs {
		f.confirmed(i, "transfer", out)
	}
	return outs, nil
}
