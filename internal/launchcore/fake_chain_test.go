package launchcore

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// fakeTx is one submission seen by fakeChain.
type fakeTx struct {
	Op        string
	From      common.Address
	Nonce     uint64
	To        common.Address
	Value     *big.Int
	Amount    *big.Int
	Liquidity LiquidityArgs
	Swap      SwapArgs
	Hash      common.Hash
}

// fakeChain is an in-memory Chain. Submissions and confirmations are
// appended to journal as "submit <op>" / "confirm <op>".
type fakeChain struct {
	mu sync.Mutex

	supply    *big.Int
	supplyErr error
	balance   *big.Int
	pair      common.Address
	newPair   common.Address // pair set once createPair confirms
	nonce     uint64

	sendErr    map[string]error
	revert     map[string]bool
	revertFrom map[common.Address]bool

	seq       int64
	submitted []fakeTx
	byHash    map[common.Hash]fakeTx
	journal   []string
	getPairs  int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		supply:     new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18)),
		balance:    new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18)),
		newPair:    common.HexToAddress("0x00000000000000000000000000000000000beef1"),
		sendErr:    map[string]error{},
		revert:     map[string]bool{},
		revertFrom: map[common.Address]bool{},
		byHash:     map[common.Hash]fakeTx{},
	}
}

var _ Chain = (*fakeChain)(nil)

func (f *fakeChain) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeChain) PendingNonce(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonce, nil
}

func (f *fakeChain) InitialTotalSupply(context.Context, common.Address) (*big.Int, error) {
	if f.supplyErr != nil {
		return nil, f.supplyErr
	}
	return new(big.Int).Set(f.supply), nil
}

func (f *fakeChain) GetPair(context.Context, common.Address, common.Address, common.Address) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getPairs++
	return f.pair, nil
}

func (f *fakeChain) submit(tx fakeTx) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tx.Hash = common.BigToHash(big.NewInt(f.seq))
	if err := f.sendErr[tx.Op]; err != nil {
		return tx.Hash, err
	}
	f.submitted = append(f.submitted, tx)
	f.byHash[tx.Hash] = tx
	f.journal = append(f.journal, "submit "+tx.Op)
	return tx.Hash, nil
}

func (f *fakeChain) CreatePair(_ context.Context, from Identity, factory, _, _ common.Address) (common.Hash, error) {
	return f.submit(fakeTx{Op: "createPair", From: from.Address, To: factory})
}

func (f *fakeChain) Approve(_ context.Context, from Identity, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	return f.submit(fakeTx{Op: "approve", From: from.Address, To: token, Amount: amount})
}

func (f *fakeChain) AddLiquidityETH(_ context.Context, from Identity, router common.Address, args LiquidityArgs) (common.Hash, error) {
	return f.submit(fakeTx{Op: "addLiquidityETH", From: from.Address, To: router, Value: args.Value, Liquidity: args})
}

func (f *fakeChain) SwapExactTokensForETHSupportingFeeOnTransferTokens(_ context.Context, from Identity, router common.Address, args SwapArgs) (common.Hash, error) {
	return f.submit(fakeTx{Op: "swap", From: from.Address, To: router, Swap: args})
}

func (f *fakeChain) Transfer(_ context.Context, from Identity, nonce uint64, to common.Address, value *big.Int) (common.Hash, error) {
	return f.submit(fakeTx{Op: "transfer", From: from.Address, Nonce: nonce, To: to, Value: value})
}

func (f *fakeChain) WaitConfirmed(_ context.Context, hash common.Hash) (TransactionOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.byHash[hash]
	if !ok {
		return TransactionOutcome{}, fmt.Errorf("unknown tx %s", hash.Hex())
	}
	if f.revert[tx.Op] || f.revertFrom[tx.From] {
		return TransactionOutcome{}, fmt.Errorf("%w in block 7", ErrReverted)
	}
	if tx.Op == "createPair" {
		f.pair = f.newPair
	}
	if tx.Op == "transfer" && tx.Nonce >= f.nonce {
		f.nonce = tx.Nonce + 1
	}
	f.journal = append(f.journal, "confirm "+tx.Op)
	return TransactionOutcome{Hash: hash, Confirmed: true, BlockNumber: big.NewInt(7)}, nil
}

func (f *fakeChain) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.submitted))
	for _, tx := range f.submitted {
		out = append(out, tx.Op)
	}
	return out
}

func (f *fakeChain) opsOf(op string) []fakeTx {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeTx
	for _, tx := range f.submitted {
		if tx.Op == op {
			out = append(out, tx)
		}
	}
	return out
}

var errBoom = errors.New("boom")

func newTestIdentity(t *testing.T) Identity {
	t.Helper()
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	return NewIdentity(key)
}

func keyHex(k *ecdsa.PrivateKey) string {
	return common.Bytes2Hex(gethcrypto.FromECDSA(k))
}
