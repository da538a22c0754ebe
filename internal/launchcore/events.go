package launchcore

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type EventKind int

const (
	EventStepStarted EventKind = iota
	EventStepCompleted
	EventStepFailed
	EventTxSubmitted
	EventTxConfirmed
	EventWarning
)

func (k EventKind) String() string {
	switch k {
	case EventStepStarted:
		return "step_started"
	case EventStepCompleted:
		return "step_completed"
	case EventStepFailed:
		return "step_failed"
	case EventTxSubmitted:
		return "tx_submitted"
	case EventTxConfirmed:
		return "tx_confirmed"
	case EventWarning:
		return "warning"
	}
	return "unknown"
}

// Event is one entry of the run's progress stream.
type Event struct {
	RunID   string
	Kind    EventKind
	State   State
	Wallet  int // bundle index, -1 when not wallet specific
	TxHash  common.Hash
	Block   *big.Int
	Message string
	Err     error
	At      time.Time
}

// Observer receives events synchronously, in order, from the sequencer goroutine.
type Observer interface {
	Observe(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
