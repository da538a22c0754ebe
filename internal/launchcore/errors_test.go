package launchcore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestErrorKindsAndHash(t *testing.T) {
	hash := common.HexToHash("0xabc")
	err := fmt.Errorf("launch: %w", failWallet(ErrSwapFailed, 2, hash, errBoom))

	assert.ErrorIs(t, err, ErrSwapFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, errors.Is(err, ErrApprovalFailed))
	assert.Equal(t, ErrSwapFailed, KindOf(err))

	got, ok := TxHashOf(err)
	assert.True(t, ok)
	assert.Equal(t, hash, got)
	assert.Contains(t, err.Error(), "swap failed [bundle #2] tx="+hash.Hex()+": boom")

	plain := fail(ErrSupplyUnavailable, common.Hash{}, errBoom)
	_, ok = TxHashOf(plain)
	assert.False(t, ok)
	assert.Equal(t, "supply unavailable: boom", plain.Error())
	assert.Nil(t, KindOf(errBoom))
}

func TestConfigError(t *testing.T) {
	err := ConfigError("missing %s", "RPC_URL")
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.Equal(t, "config missing: missing RPC_URL", err.Error())
}
