package main

import (
	"context"
	"fmt"

	"github.com/ligun0805/bundle-launch/internal/config"
	core "github.com/ligun0805/bundle-launch/internal/launchcore"
)

func printConfig(ctx context.Context, st config.Settings, chain *core.EthChain, p core.Params) {
	bal, err := chain.BalanceAt(ctx, p.Deployer.Address)
	balStr := "?"
	if err == nil {
		balStr = core.FormatEther(bal)
	}
	fmt.Println("=== CONFIG (.env) ===")
	fmt.Println("RPC_URL              :", st.RPCURL)
	fmt.Println("CHAIN_ID             :", chain.ChainID().String())
	fmt.Println("DEPLOYER_PRIVATE_KEY :", maskHex(st.DeployerPKHex))
	fmt.Println("  -> Deployer        :", p.Deployer.Address.Hex())
	fmt.Println("  -> Balance         :", balStr, "ETH")
	fmt.Println("BUNDLE_PRIVATE_KEYS  :", len(p.Bundles), "wallets")
	for i, b := range p.Bundles {
		fmt.Printf("  -> #%d             : %s\n", i, b.Address.Hex())
	}
	fmt.Println("PERCENT_TOKENS       :", p.TargetPercent.String())
	fmt.Println("CONTRACT_ADDRESS     :", p.Token.Hex())
	fmt.Println("FACTORY_ADDRESS      :", p.Factory.Hex())
	fmt.Println("ROUTER_ADDRESS       :", p.Router.Hex())
	fmt.Println("WETH_ADDRESS         :", p.BaseAsset.Hex())
	fmt.Println("Safety buffer (ETH)  :", p.SafetyBuffer.String())
	fmt.Println("Fund bundles         :", p.FundBundles)
	fmt.Println("Tip (gwei)           :", st.TipGwei)
	fmt.Println("BaseFeeMul           :", st.BasefeeMul)
	fmt.Println("=====================")
}
