package launchcore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Failure kinds. Match with errors.Is.
var (
	ErrConfigMissing           = errors.New("config missing")
	ErrSupplyUnavailable       = errors.New("supply unavailable")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrFundingFailed           = errors.New("bundle funding failed")
	ErrPoolCreationFailed      = errors.New("pool creation failed")
	ErrApprovalFailed          = errors.New("approval failed")
	ErrLiquidityAdditionFailed = errors.New("liquidity addition failed")
	ErrSwapFailed              = errors.New("swap failed")

	// ErrAborted is the operator declining at the confirmation prompt.
	// It is not a failure: Sequencer.Run reports it as StateAborted with a nil error.
	ErrAborted = errors.New("aborted by operator")
)

// Error is a classified launch failure. TxHash is set whenever a transaction
// had been signed before the failure, Wallet is the bundle index for
// per-wallet steps and -1 otherwise.
type Error struct {
	Kind   error
	TxHash common.Hash
	Wallet int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Wallet >= 0 {
		fmt.Fprintf(&b, " [bundle #%d]", e.Wallet)
	}
	if e.TxHash != (common.Hash{}) {
		fmt.Fprintf(&b, " tx=%s", e.TxHash.Hex())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func fail(kind error, hash common.Hash, err error) error {
	return &Error{Kind: kind, TxHash: hash, Wallet: -1, Err: err}
}

func failWallet(kind error, wallet int, hash common.Hash, err error) error {
	return &Error{Kind: kind, TxHash: hash, Wallet: wallet, Err: err}
}

// ConfigError classifies err as ErrConfigMissing.
func ConfigError(format string, a ...any) error {
	return fail(ErrConfigMissing, common.Hash{}, fmt.Errorf(format, a...))
}

// TxHashOf returns the transaction hash attached to err, if any.
func TxHashOf(err error) (common.Hash, bool) {
	var le *Error
	if errors.As(err, &le) && le.TxHash != (common.Hash{}) {
		return le.TxHash, true
	}
	return common.Hash{}, false
}

// KindOf returns the failure kind of err, or nil when err is unclassified.
func KindOf(err error) error {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return nil
}
