package logging

import (
	"bytes"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/ligun0805/bundle-launch/internal/launchcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
	assert.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, parseLevel("chatty"))
}

func TestWithComponent(t *testing.T) {
	l := New("info", "")
	entry := l.WithComponent("test")
	assert.Equal(t, "test", entry.Data["component"])
	assert.NoError(t, l.Close())
}

func TestEventLoggerFields(t *testing.T) {
	l := New("debug", "")
	var buf bytes.Buffer
	l.SetOutput(&buf)
	el := NewEventLogger(l)

	hash := common.HexToHash("0x1234")
	el.Observe(core.Event{RunID: "r1", Kind: core.EventTxConfirmed, State: core.StateDispersing, Wallet: 2, TxHash: hash, Block: big.NewInt(99), Message: "swap"})
	out := buf.String()
	assert.Contains(t, out, "tx confirmed")
	assert.Contains(t, out, "run=r1")
	assert.Contains(t, out, "state=dispersing")
	assert.Contains(t, out, "wallet=2")
	assert.Contains(t, out, "tx="+hash.Hex())
	assert.Contains(t, out, "block=99")

	buf.Reset()
	el.Observe(core.Event{RunID: "r1", Kind: core.EventStepFailed, State: core.StateSeedingLiquidity, Wallet: -1, Err: errors.New("boom")})
	out = buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "state=seeding_liquidity")
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "wallet=")
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.log")
	l := New("info", path)
	l.WithComponent("test").Info("hello file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello file")
}
