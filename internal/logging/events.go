package logging

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	core "github.com/ligun0805/bundle-launch/internal/launchcore"
)

// EventLogger renders launch events as log lines.
type EventLogger struct {
	entry *logrus.Entry
}

func NewEventLogger(l *Log) *EventLogger {
	return &EventLogger{entry: l.WithComponent("sequencer")}
}

func (el *EventLogger) Observe(e core.Event) {
	fields := logrus.Fields{
		"run":   e.RunID,
		"state": e.State.String(),
	}
	if e.Wallet >= 0 {
		fields["wallet"] = e.Wallet
	}
	if e.TxHash != (common.Hash{}) {
		fields["tx"] = e.TxHash.Hex()
	}
	if e.Block != nil {
		fields["block"] = e.Block.String()
	}
	entry := el.entry.WithFields(fields)
	if !e.At.IsZero() {
		entry = entry.WithTime(e.At)
	}

	switch e.Kind {
	case core.EventStepStarted:
		entry.Info("step started")
	case core.EventStepCompleted:
		if e.Message != "" {
			entry = entry.WithField("detail", e.Message)
		}
		entry.Info("step completed")
	case core.EventStepFailed:
		entry.WithError(e.Err).Error("step failed")
	case core.EventTxSubmitted:
		entry.WithField("call", e.Message).Info("tx submitted")
	case core.EventTxConfirmed:
		entry.WithField("call", e.Message).Info("tx confirmed")
	case core.EventWarning:
		entry.Warn(e.Message)
	}
}
