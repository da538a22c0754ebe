package launchcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Static gas limits per operation.
const (
	gasTransfer     uint64 = 21_000
	gasApprove      uint64 = 100_000
	gasCreatePair   uint64 = 3_500_000
	gasAddLiquidity uint64 = 4_000_000
	gasSwap         uint64 = 400_000
)

// GasPolicy is the static fee policy: feeCap = baseFee*BaseFeeMul + TipGwei.
// GasLimit, when non-zero, replaces every per-operation limit.
type GasPolicy struct {
	TipGwei    int64
	BaseFeeMul int64
	GasLimit   uint64
}

var _ Chain = (*EthChain)(nil)

// EthChain implements Chain over a JSON-RPC endpoint.
type EthChain struct {
	ec      *ethclient.Client
	chainID *big.Int
	gas     GasPolicy
	poll    time.Duration
}

// DialChain connects to rpcURL. A nil chainID is queried from the node.
func DialChain(ctx context.Context, rpcURL string, chainID *big.Int, gas GasPolicy, poll time.Duration) (*EthChain, error) {
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	if chainID == nil || chainID.Sign() == 0 {
		chainID, err = ec.ChainID(ctx)
		if err != nil {
			ec.Close()
			return nil, fmt.Errorf("chain id: %w", err)
		}
	}
	return NewEthChain(ec, chainID, gas, poll), nil
}

func NewEthChain(ec *ethclient.Client, chainID *big.Int, gas GasPolicy, poll time.Duration) *EthChain {
	if poll <= 0 {
		poll = 1500 * time.Millisecond
	}
	return &EthChain{ec: ec, chainID: new(big.Int).Set(chainID), gas: gas, poll: poll}
}

func (c *EthChain) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

func (c *EthChain) Close() { c.ec.Close() }

func (c *EthChain) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return readWithRetry(ctx, func(ctx context.Context) (*big.Int, error) {
		return c.ec.BalanceAt(ctx, account, nil)
	})
}

func (c *EthChain) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	return c.ec.PendingNonceAt(ctx, account)
}

func (c *EthChain) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return readWithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		return c.ec.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	})
}

func (c *EthChain) InitialTotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	data, err := packInitialTotalSupply()
	if err != nil {
		return nil, err
	}
	ret, err := c.call(ctx, token, data)
	if err != nil {
		return nil, &callError{method: "initialTotalSupply()", err: err}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("initialTotalSupply(): empty return from %s", token.Hex())
	}
	return unpackUint256(tokenABI, "initialTotalSupply", ret)
}

func (c *EthChain) GetPair(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error) {
	data, err := packGetPair(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	ret, err := c.call(ctx, factory, data)
	if err != nil {
		return common.Address{}, &callError{method: "getPair()", err: err}
	}
	return unpackGetPair(ret)
}

func (c *EthChain) CreatePair(ctx context.Context, from Identity, factory, tokenA, tokenB common.Address) (common.Hash, error) {
	data, err := packCreatePair(tokenA, tokenB)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transact(ctx, from, nil, factory, nil, c.limit(gasCreatePair), data)
}

func (c *EthChain) Approve(ctx context.Context, from Identity, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	data, err := packApprove(spender, amount)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transact(ctx, from, nil, token, nil, c.limit(gasApprove), data)
}

func (c *EthChain) AddLiquidityETH(ctx context.Context, from Identity, router common.Address, args LiquidityArgs) (common.Hash, error) {
	data, err := packAddLiquidityETH(args)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transact(ctx, from, nil, router, args.Value, c.limit(gasAddLiquidity), data)
}

func (c *EthChain) SwapExactTokensForETHSupportingFeeOnTransferTokens(ctx context.Context, from Identity, router common.Address, args SwapArgs) (common.Hash, error) {
	data, err := packSwapExactTokensForETH(args)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transact(ctx, from, nil, router, nil, c.limit(gasSwap), data)
}

func (c *EthChain) Transfer(ctx context.Context, from Identity, nonce uint64, to common.Address, value *big.Int) (common.Hash, error) {
	return c.transact(ctx, from, &nonce, to, value, gasTransfer, nil)
}

func (c *EthChain) limit(def uint64) uint64 {
	if c.gas.GasLimit > 0 {
		return c.gas.GasLimit
	}
	return def
}

// fees reads the head base fee; chains without one fall back to eth_gasPrice.
func (c *EthChain) fees(ctx context.Context) (fees, error) {
	h, err := c.ec.HeaderByNumber(ctx, nil)
	if err != nil {
		return fees{}, fmt.Errorf("head: %w", err)
	}
	if h.BaseFee != nil {
		return dynamicFees(h.BaseFee, c.gas.TipGwei, c.gas.BaseFeeMul), nil
	}
	gp, err := c.ec.SuggestGasPrice(ctx)
	if err != nil {
		return fees{}, fmt.Errorf("gas price: %w", err)
	}
	return fees{gasPrice: gp}, nil
}

func (c *EthChain) transact(ctx context.Context, from Identity, nonce *uint64, to common.Address, value *big.Int, gasLimit uint64, data []byte) (common.Hash, error) {
	var n uint64
	if nonce != nil {
		n = *nonce
	} else {
		var err error
		n, err = c.ec.PendingNonceAt(ctx, from.Address)
		if err != nil {
			return common.Hash{}, fmt.Errorf("nonce(%s): %w", from.Address.Hex(), err)
		}
	}
	f, err := c.fees(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	signed, err := signTx(buildTx(c.chainID, n, to, value, gasLimit, f, data), c.chainID, from.Key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign: %w", err)
	}
	if err := c.ec.SendTransaction(ctx, signed); err != nil {
		return signed.Hash(), fmt.Errorf("send: %w", err)
	}
	return signed.Hash(), nil
}

// WaitConfirmed polls for the receipt until the transaction is mined or ctx ends.
func (c *EthChain) WaitConfirmed(ctx context.Context, hash common.Hash) (TransactionOutcome, error) {
	t := time.NewTicker(c.poll)
	defer t.Stop()
	for {
		rcpt, err := c.ec.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && rcpt != nil:
			if rcpt.Status != types.ReceiptStatusSuccessful {
				return TransactionOutcome{}, fmt.Errorf("%w in block %s", ErrReverted, rcpt.BlockNumber)
			}
			return TransactionOutcome{Hash: hash, Confirmed: true, BlockNumber: rcpt.BlockNumber}, nil
		case err != nil && !errors.Is(err, ethereum.NotFound) && !isRateLimitError(err):
			return TransactionOutcome{}, fmt.Errorf("receipt: %w", err)
		}
		select {
		case <-ctx.Done():
			return TransactionOutcome{}, ctx.Err()
		case <-t.C:
		}
	}
}
