package config

import (
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	core "github.com/ligun0805/bundle-launch/internal/launchcore"
)

// Settings keeps all configuration options.
// Key names follow the existing .env files (PERCENT_TOKENS, CONTRACT_ADDRESS, ...).
type Settings struct {
	RPCURL           string
	ChainID          string
	DeployerPKHex    string
	BundlePKHexes    []string
	PercentTokens    string
	TokenAddress     string
	FactoryAddress   string
	RouterAddress    string
	BaseAssetAddress string
	TokenDecimals    int
	SafetyBufferETH  string
	LiquidityETH     string
	TokensPerNative  string
	FundBundles      bool
	DeadlineMinutes  int
	TipGwei          int64
	BasefeeMul       int64
	GasLimit         uint64
	ReceiptPollMS    int
	LogLevel         string
	LogFile          string
}

// Load reads settings from environment supporting both UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				return v
			}
		}
		return def
	}
	getInt := func(keys []string, def int) int {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		return def
	}
	getInt64 := func(keys []string, def int64) int64 {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return def
	}
	getBool := func(keys []string, def bool) bool {
		s := strings.ToLower(get(keys, ""))
		if s == "" {
			return def
		}
		return s == "1" || s == "true" || s == "yes" || s == "on"
	}

	st := Settings{}
	st.RPCURL = get([]string{"rpc_url", "RPC_URL"}, "")
	st.ChainID = get([]string{"chain_id", "CHAIN_ID"}, "")
	st.DeployerPKHex = get([]string{"deployer_private_key", "DEPLOYER_PRIVATE_KEY"}, "")
	st.BundlePKHexes = SplitCSV(get([]string{"bundle_private_keys", "BUNDLE_PRIVATE_KEYS"}, ""))
	st.PercentTokens = get([]string{"percent_tokens", "PERCENT_TOKENS"}, "")
	st.TokenAddress = get([]string{"contract_address", "CONTRACT_ADDRESS", "token_address", "TOKEN_ADDRESS"}, "")
	st.FactoryAddress = get([]string{"factory_address", "FACTORY_ADDRESS"}, "")
	st.RouterAddress = get([]string{"router_address", "ROUTER_ADDRESS"}, "")
	st.BaseAssetAddress = get([]string{"weth_address", "WETH_ADDRESS", "base_asset_address", "BASE_ASSET_ADDRESS"}, "")

	st.TokenDecimals = getInt([]string{"token_decimals", "TOKEN_DECIMALS"}, 18)
	st.SafetyBufferETH = get([]string{"safety_buffer_eth", "SAFETY_BUFFER_ETH"}, "0.05")
	st.LiquidityETH = get([]string{"liquidity_eth", "LIQUIDITY_ETH"}, "")
	st.TokensPerNative = get([]string{"tokens_per_native", "TOKENS_PER_NATIVE"}, "1000")
	st.FundBundles = getBool([]string{"fund_bundles", "FUND_BUNDLES"}, true)
	st.DeadlineMinutes = getInt([]string{"deadline_minutes", "DEADLINE_MINUTES"}, 20)

	st.TipGwei = getInt64([]string{"tip_gwei", "TIP_GWEI"}, 2)
	st.BasefeeMul = getInt64([]string{"basefee_mul", "BASEFEE_MUL"}, 2)
	st.GasLimit = uint64(getInt64([]string{"gas_limit", "GAS_LIMIT"}, 0))
	st.ReceiptPollMS = getInt([]string{"receipt_poll_ms", "RECEIPT_POLL_MS"}, 1500)

	st.LogLevel = get([]string{"log_level", "LOG_LEVEL"}, "info")
	st.LogFile = get([]string{"log_file", "LOG_FILE"}, "")
	return st
}

// SplitCSV splits a comma list, dropping blanks.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every missing required key in one ConfigMissing error.
func (st Settings) Validate() error {
	var missing []string
	req := func(v, key string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	req(st.RPCURL, "RPC_URL")
	req(st.DeployerPKHex, "DEPLOYER_PRIVATE_KEY")
	if len(st.BundlePKHexes) == 0 {
		missing = append(missing, "BUNDLE_PRIVATE_KEYS")
	}
	req(st.PercentTokens, "PERCENT_TOKENS")
	req(st.TokenAddress, "CONTRACT_ADDRESS")
	req(st.FactoryAddress, "FACTORY_ADDRESS")
	req(st.RouterAddress, "ROUTER_ADDRESS")
	req(st.BaseAssetAddress, "WETH_ADDRESS")
	if len(missing) > 0 {
		return core.ConfigError("required settings absent: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LaunchParams validates the settings and converts them into sequencer params.
func (st Settings) LaunchParams() (core.Params, error) {
	if err := st.Validate(); err != nil {
		return core.Params{}, err
	}
	var p core.Params

	deployer, err := core.IdentityFromHex(st.DeployerPKHex)
	if err != nil {
		return p, core.ConfigError("DEPLOYER_PRIVATE_KEY: %v", err)
	}
	bundles, err := core.ParseBundle(st.BundlePKHexes)
	if err != nil {
		return p, core.ConfigError("BUNDLE_PRIVATE_KEYS: %v", err)
	}
	for i, b := range bundles {
		if b.Address == deployer.Address {
			return p, core.ConfigError("BUNDLE_PRIVATE_KEYS: key #%d is the deployer", i)
		}
	}

	pct, err := decimal.NewFromString(st.PercentTokens)
	if err != nil {
		return p, core.ConfigError("PERCENT_TOKENS: %v", err)
	}
	if err := core.ValidatePercent(pct); err != nil {
		return p, err
	}

	addrs := map[string]*common.Address{}
	for key, raw := range map[string]string{
		"CONTRACT_ADDRESS": st.TokenAddress,
		"FACTORY_ADDRESS":  st.FactoryAddress,
		"ROUTER_ADDRESS":   st.RouterAddress,
		"WETH_ADDRESS":     st.BaseAssetAddress,
	} {
		if !common.IsHexAddress(raw) {
			return p, core.ConfigError("%s: bad address %q", key, raw)
		}
		a := common.HexToAddress(raw)
		addrs[key] = &a
	}

	buffer, err := decimal.NewFromString(st.SafetyBufferETH)
	if err != nil || buffer.IsNegative() {
		return p, core.ConfigError("SAFETY_BUFFER_ETH: bad amount %q", st.SafetyBufferETH)
	}
	liquidity := decimal.Zero
	if st.LiquidityETH != "" {
		liquidity, err = decimal.NewFromString(st.LiquidityETH)
		if err != nil || !liquidity.IsPositive() {
			return p, core.ConfigError("LIQUIDITY_ETH: bad amount %q", st.LiquidityETH)
		}
	}
	ratio, err := decimal.NewFromString(st.TokensPerNative)
	if err != nil || !ratio.IsPositive() {
		return p, core.ConfigError("TOKENS_PER_NATIVE: bad ratio %q", st.TokensPerNative)
	}
	if st.TokenDecimals < 0 || st.TokenDecimals > 77 {
		return p, core.ConfigError("TOKEN_DECIMALS: %d out of range", st.TokenDecimals)
	}

	p = core.Params{
		Deployer:        deployer,
		Bundles:         bundles,
		TargetPercent:   pct,
		Token:           *addrs["CONTRACT_ADDRESS"],
		Factory:         *addrs["FACTORY_ADDRESS"],
		Router:          *addrs["ROUTER_ADDRESS"],
		BaseAsset:       *addrs["WETH_ADDRESS"],
		TokenDecimals:   int32(st.TokenDecimals),
		SafetyBuffer:    buffer,
		LiquidityETH:    liquidity,
		TokensPerNative: ratio,
		FundBundles:     st.FundBundles,
		Deadline:        time.Duration(st.DeadlineMinutes) * time.Minute,
	}
	return p, nil
}

// Gas returns the static fee policy.
func (st Settings) Gas() core.GasPolicy {
	return core.GasPolicy{TipGwei: st.TipGwei, BaseFeeMul: st.BasefeeMul, GasLimit: st.GasLimit}
}

// ReceiptPoll is the receipt polling interval.
func (st Settings) ReceiptPoll() time.Duration {
	return time.Duration(st.ReceiptPollMS) * time.Millisecond
}

// ChainIDBig parses CHAIN_ID (decimal or 0x-hex). Nil means "ask the node".
func (st Settings) ChainIDBig() (*big.Int, error) {
	s := strings.TrimSpace(st.ChainID)
	if s == "" {
		return nil, nil
	}
	z, ok := new(big.Int), false
	if strings.HasPrefix(s, "0x") {
		z, ok = z.SetString(s[2:], 16)
	} else {
		z, ok = z.SetString(s, 10)
	}
	if !ok || z.Sign() <= 0 {
		return nil, core.ConfigError("CHAIN_ID: bad value %q", st.ChainID)
	}
	return z, nil
}
