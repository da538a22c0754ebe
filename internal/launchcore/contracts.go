package launchcore

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const tokenABIJSON = `[
  {"type":"function","name":"initialTotalSupply","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]}
]`

const factoryABIJSON = `[
  {"type":"function","name":"getPair","stateMutability":"view","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"outputs":[{"name":"pair","type":"address"}]},
  {"type":"function","name":"createPair","stateMutability":"nonpayable","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"outputs":[{"name":"pair","type":"address"}]}
]`

const routerABIJSON = `[
  {"type":"function","name":"addLiquidityETH","stateMutability":"payable","inputs":[
    {"name":"token","type":"address"},
    {"name":"amountTokenDesired","type":"uint256"},
    {"name":"amountTokenMin","type":"uint256"},
    {"name":"amountETHMin","type":"uint256"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[{"name":"amountToken","type":"uint256"},{"name":"amountETH","type":"uint256"},{"name":"liquidity","type":"uint256"}]},
  {"type":"function","name":"swapExactTokensForETHSupportingFeeOnTransferTokens","stateMutability":"nonpayable","inputs":[
    {"name":"amountIn","type":"uint256"},
    {"name":"amountOutMin","type":"uint256"},
    {"name":"path","type":"address[]"},
    {"name":"to","type":"address"},
    {"name":"deadline","type":"uint256"}],
   "outputs":[]}
]`

var (
	tokenABI   = mustParseABI(tokenABIJSON)
	factoryABI = mustParseABI(factoryABIJSON)
	routerABI  = mustParseABI(routerABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("abi parse: %v", err))
	}
	return parsed
}

func packInitialTotalSupply() ([]byte, error) { return tokenABI.Pack("initialTotalSupply") }

func unpackUint256(parsed abi.ABI, method string, ret []byte) (*big.Int, error) {
	out, err := parsed.Unpack(method, ret)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s: unexpected %d return values", method, len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected return type %T", method, out[0])
	}
	return v, nil
}

func packGetPair(a, b common.Address) ([]byte, error) { return factoryABI.Pack("getPair", a, b) }

func unpackGetPair(ret []byte) (common.Address, error) {
	out, err := factoryABI.Unpack("getPair", ret)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("getPair: unexpected %d return values", len(out))
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("getPair: unexpected return type %T", out[0])
	}
	return addr, nil
}

func packCreatePair(a, b common.Address) ([]byte, error) { return factoryABI.Pack("createPair", a, b) }

func packApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return tokenABI.Pack("approve", spender, amount)
}

func packAddLiquidityETH(a LiquidityArgs) ([]byte, error) {
	return routerABI.Pack("addLiquidityETH", a.Token, a.AmountTokenDesired, a.AmountTokenMin, a.AmountETHMin, a.To, a.Deadline)
}

func packSwapExactTokensForETH(a SwapArgs) ([]byte, error) {
	return routerABI.Pack("swapExactTokensForETHSupportingFeeOnTransferTokens", a.AmountIn, a.AmountOutMin, a.Path, a.To, a.Deadline)
}
