package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/ligun0805/bundle-launch/internal/config"
	core "github.com/ligun0805/bundle-launch/internal/launchcore"
	"github.com/ligun0805/bundle-launch/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	st := config.Load()
	lg := logging.New(st.LogLevel, st.LogFile)
	defer lg.Close()
	log := lg.WithComponent("launchcli")

	if strings.TrimSpace(st.DeployerPKHex) == "" && term.IsTerminal(int(syscall.Stdin)) {
		st.DeployerPKHex = readPassword("Deployer private key: ")
	}
	params, err := st.LaunchParams()
	if err != nil {
		log.WithError(err).Error("configuration unusable")
		return 1
	}
	chainID, err := st.ChainIDBig()
	if err != nil {
		log.WithError(err).Error("configuration unusable")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chain, err := core.DialChain(ctx, st.RPCURL, chainID, st.Gas(), st.ReceiptPoll())
	if err != nil {
		log.WithError(err).Error("rpc unavailable")
		return 1
	}
	defer chain.Close()

	printConfig(ctx, st, chain, params)

	seq, err := core.NewSequencer(chain, core.NewPromptConfirmer(os.Stdin, os.Stdout), params,
		core.WithObserver(logging.NewEventLogger(lg)))
	if err != nil {
		log.WithError(err).Error("sequencer init")
		return 1
	}
	log.WithField("run", seq.RunID()).Info("launch started")

	final, err := seq.Run(ctx)
	switch final {
	case core.StateDone:
		fmt.Println("[RESULT] launch completed, pair:", pairHex(seq.Pool()))
	case core.StateAborted:
		fmt.Println("[RESULT] aborted by operator, nothing submitted")
	default:
		entry := log.WithError(err).WithField("kind", kindName(err))
		if h, ok := core.TxHashOf(err); ok {
			entry = entry.WithField("tx", h.Hex())
		}
		var ce *core.Error
		if errors.As(err, &ce) && ce.Wallet >= 0 {
			entry = entry.WithField("wallet", ce.Wallet)
		}
		entry.Error("launch failed")
	}
	return core.ExitCode(final)
}

func kindName(err error) string {
	if k := core.KindOf(err); k != nil {
		return k.Error()
	}
	return "unknown"
}

func pairHex(p core.PoolReference) string {
	if !p.Exists() {
		return "-"
	}
	return p.Pair.Hex()
}
