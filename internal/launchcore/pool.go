package launchcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PoolReference identifies the token/base pool. Pair is nil until the pool
// is known to exist on-chain.
type PoolReference struct {
	Token     common.Address
	BaseAsset common.Address
	Pair      *common.Address
}

func (p PoolReference) Exists() bool { return p.Pair != nil && *p.Pair != (common.Address{}) }

// PoolProvisioner makes sure the token/base pair exists, creating it when absent.
type PoolProvisioner struct {
	txRunner
	deployer Identity
	factory  common.Address
}

func NewPoolProvisioner(chain Chain, deployer Identity, factory common.Address, emit func(Event)) *PoolProvisioner {
	return &PoolProvisioner{txRunner: newTxRunner(chain, emit), deployer: deployer, factory: factory}
}

// EnsurePool returns a reference with a non-zero pair. The outcome is nil
// when the pair already existed and nothing was submitted.
func (p *PoolProvisioner) EnsurePool(ctx context.Context, token, base common.Address) (PoolReference, *TransactionOutcome, error) {
	ref := PoolReference{Token: token, BaseAsset: base}
	pair, err := readWithRetry(ctx, func(ctx context.Context) (common.Address, error) {
		return p.chain.GetPair(ctx, p.factory, token, base)
	})
	if err != nil {
		return ref, nil, fail(ErrPoolCreationFailed, common.Hash{}, fmt.Errorf("getPair: %w", err))
	}
	if pair != (common.Address{}) {
		ref.Pair = &pair
		return ref, nil, nil
	}

	out, err := p.run(ctx, ErrPoolCreationFailed, -1, "createPair", func(ctx context.Context) (common.Hash, error) {
		return p.chain.CreatePair(ctx, p.deployer, p.factory, token, base)
	})
	if err != nil {
		return ref, nil, err
	}
	pair, err = p.chain.GetPair(ctx, p.factory, token, base)
	if err == nil && pair == (common.Address{}) {
		err = errors.New("pair still unset after creation")
	}
	if err != nil {
		return ref, &out, fail(ErrPoolCreationFailed, out.Hash, err)
	}
	ref.Pair = &pair
	return ref, &out, nil
}
