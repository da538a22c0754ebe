package launchcore

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// txRunner submits one transaction, waits for it and classifies failures.
// Every failure after signing carries the transaction hash.
type txRunner struct {
	chain Chain
	emit  func(Event)
}

func newTxRunner(chain Chain, emit func(Event)) txRunner {
	if emit == nil {
		emit = func(Event) {}
	}
	return txRunner{chain: chain, emit: emit}
}

func (r txRunner) run(ctx context.Context, kind error, wallet int, label string, submit func(context.Context) (common.Hash, error)) (TransactionOutcome, error) {
	hash, err := submit(ctx)
	if err != nil {
		return TransactionOutcome{}, r.classify(kind, wallet, hash, err)
	}
	r.submitted(wallet, label, hash)
	out, err := r.chain.WaitConfirmed(ctx, hash)
	if err != nil {
		return TransactionOutcome{}, r.classify(kind, wallet, hash, err)
	}
	r.confirmed(wallet, label, out)
	return out, nil
}

func (r txRunner) classify(kind error, wallet int, hash common.Hash, err error) error {
	if wallet >= 0 {
		return failWallet(kind, wallet, hash, err)
	}
	return fail(kind, hash, err)
}

func (r txRunner) submitted(wallet int, label string, hash common.Hash) {
	r.emit(Event{Kind: EventTxSubmitted, Wallet: wallet, TxHash: hash, Message: label, At: time.Now()})
}

func (r txRunner) confirmed(wallet int, label string, out TransactionOutcome) {
	r.emit(Event{Kind: EventTxConfirmed, Wallet: wallet, TxHash: out.Hash, Block: out.BlockNumber, Message: label, At: time.Now()})
}
