package launchcore

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fees is either a dynamic (tip + feeCap) or a legacy (gasPrice) pricing.
type fees struct {
	tip      *big.Int
	feeCap   *big.Int
	gasPrice *big.Int
}

func (f fees) legacy() bool { return f.gasPrice != nil }

// dynamicFees applies the static policy feeCap = baseFee*baseMul + tip.
func dynamicFees(baseFee *big.Int, tipGwei, baseMul int64) fees {
	if baseMul <= 0 {
		baseMul = 2
	}
	tip := gweiToWei(tipGwei)
	return fees{tip: tip, feeCap: addBig(mulBig(baseFee, baseMul), tip)}
}

// Build EIP-1559 transaction.
func buildDynamicTx(chain *big.Int, nonce uint64, to *common.Address, value *big.Int, gasLimit uint64, tip, feeCap *big.Int, data []byte) *types.Transaction {
	df := &types.DynamicFeeTx{
		ChainID:   chain,
		Nonce:     nonce,
		Gas:       gasLimit,
		GasTipCap: new(big.Int).Set(tip),
		GasFeeCap: new(big.Int).Set(feeCap),
		To:        to,
		Value:     new(big.Int).Set(value),
		Data:      data,
	}
	return types.NewTx(df)
}

// Build legacy transaction for chains without a base fee.
func buildLegacyTx(nonce uint64, to *common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		Gas:      gasLimit,
		GasPrice: new(big.Int).Set(gasPrice),
		To:       to,
		Value:    new(big.Int).Set(value),
		Data:     data,
	})
}

func buildTx(chain *big.Int, nonce uint64, to common.Address, value *big.Int, gasLimit uint64, f fees, data []byte) *types.Transaction {
	if value == nil {
		value = big.NewInt(0)
	}
	if f.legacy() {
		return buildLegacyTx(nonce, &to, value, gasLimit, f.gasPrice, data)
	}
	return buildDynamicTx(chain, nonce, &to, value, gasLimit, f.tip, f.feeCap, data)
}

// Sign transaction with latest signer for given chain ID.
func signTx(tx *types.Transaction, chain *big.Int, prv *ecdsa.PrivateKey) (*types.Transaction, error) {
	signer := types.LatestSignerForChainID(chain)
	return types.SignTx(tx, signer, prv)
}
