package launchcore

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrReverted is returned by WaitConfirmed when the transaction was mined with a failed status.
var ErrReverted = errors.New("transaction reverted")

// TransactionOutcome is a confirmed transaction. A transaction that fails to
// confirm surfaces as an error, never as an unconfirmed outcome.
type TransactionOutcome struct {
	Hash        common.Hash
	Confirmed   bool
	BlockNumber *big.Int
}

// LiquidityArgs are the addLiquidityETH arguments plus the native value sent.
type LiquidityArgs struct {
	Token              common.Address
	AmountTokenDesired *big.Int
	AmountTokenMin     *big.Int
	AmountETHMin       *big.Int
	To                 common.Address
	Deadline           *big.Int
	Value              *big.Int
}

// SwapArgs are the swapExactTokensForETHSupportingFeeOnTransferTokens arguments.
type SwapArgs struct {
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
	To           common.Address
	Deadline     *big.Int
}

// Chain is the narrow set of chain reads and writes the launch needs.
//
// Write methods sign and submit a single transaction and return its hash
// without waiting for inclusion. When signing succeeded but submission did
// not, the hash is returned together with the error.
type Chain interface {
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonce(ctx context.Context, account common.Address) (uint64, error)

	InitialTotalSupply(ctx context.Context, token common.Address) (*big.Int, error)
	GetPair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error)

	CreatePair(ctx context.Context, from Identity, factory, tokenA, tokenB common.Address) (common.Hash, error)
	Approve(ctx context.Context, from Identity, token, spender common.Address, amount *big.Int) (common.Hash, error)
	AddLiquidityETH(ctx context.Context, from Identity, router common.Address, args LiquidityArgs) (common.Hash, error)
	SwapExactTokensForETHSupportingFeeOnTransferTokens(ctx context.Context, from Identity, router common.Address, args SwapArgs) (common.Hash, error)
	// Transfer sends native currency with an explicit nonce so several
	// transfers from one account can be signed and submitted concurrently.
	Transfer(ctx context.Context, from Identity, nonce uint64, to common.Address, value *big.Int) (common.Hash, error)

	// WaitConfirmed blocks until the transaction is mined. A mined but
	// failed transaction returns ErrReverted.
	WaitConfirmed(ctx context.Context, hash common.Hash) (TransactionOutcome, error)
}
