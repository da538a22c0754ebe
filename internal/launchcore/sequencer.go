package launchcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State of a launch run.
type State int

const (
	StateIdle State = iota
	StateCalculating
	StateGuardChecking
	StateAwaitingConfirmation
	StateFundingBundles
	StateProvisioningPool
	StateSeedingLiquidity
	StateDispersing
	StateDone
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCalculating:
		return "calculating"
	case StateGuardChecking:
		return "guard_checking"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateFundingBundles:
		return "funding_bundles"
	case StateProvisioningPool:
		return "provisioning_pool"
	case StateSeedingLiquidity:
		return "seeding_liquidity"
	case StateDispersing:
		return "dispersing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) Terminal() bool { return s == StateDone || s == StateAborted || s == StateFailed }

// ExitCode maps a final state to the process exit code: completed and
// operator-aborted runs exit 0, everything else 1.
func ExitCode(s State) int {
	if s == StateDone || s == StateAborted {
		return 0
	}
	return 1
}

// Params is everything a run needs besides the chain and the operator.
type Params struct {
	Deployer Identity
	Bundles  []Identity

	TargetPercent decimal.Decimal
	Token         common.Address
	Factory       common.Address
	Router        common.Address
	BaseAsset     common.Address

	TokenDecimals   int32
	SafetyBuffer    decimal.Decimal
	LiquidityETH    decimal.Decimal // zero: use the per-wallet amount
	TokensPerNative decimal.Decimal
	FundBundles     bool
	Deadline        time.Duration
}

func (p Params) validate() error {
	if p.Deployer.Key == nil {
		return ConfigError("deployer identity is missing")
	}
	if len(p.Bundles) == 0 {
		return ConfigError("no bundle identities")
	}
	seen := make(map[common.Address]bool, len(p.Bundles))
	for i, b := range p.Bundles {
		if b.Key == nil {
			return ConfigError("bundle identity #%d has no key", i)
		}
		if seen[b.Address] {
			return ConfigError("bundle identity #%d is a duplicate (%s)", i, b.Address.Hex())
		}
		seen[b.Address] = true
	}
	for name, a := range map[string]common.Address{"token": p.Token, "factory": p.Factory, "router": p.Router, "base asset": p.BaseAsset} {
		if a == (common.Address{}) {
			return ConfigError("%s address is missing", name)
		}
	}
	if p.TokenDecimals < 0 {
		return ConfigError("negative token decimals")
	}
	return ValidatePercent(p.TargetPercent)
}

type Option func(*Sequencer)

func WithObserver(o Observer) Option { return func(s *Sequencer) { s.obs = o } }

func WithClock(now func() time.Time) Option { return func(s *Sequencer) { s.now = now } }

func WithRunID(id string) Option { return func(s *Sequencer) { s.runID = id } }

// Sequencer runs the launch as an explicit state machine. Each Step performs
// the work of the current state and moves to the next one; a step never
// starts before the previous step's transactions are confirmed. Failures are
// terminal, there are no retries and no resume.
type Sequencer struct {
	chain Chain
	gate  Confirmer
	p     Params
	obs   Observer
	now   func() time.Time
	runID string

	funder    *BundleFunder
	pools     *PoolProvisioner
	seeder    *LiquiditySeeder
	disperser *BundleDisperser

	state    State
	wallet   int
	plan     LaunchPlan
	swapIn   *big.Int
	pool     PoolReference
	outcomes []TransactionOutcome
	note     string
	err      error
}

func NewSequencer(chain Chain, gate Confirmer, p Params, opts ...Option) (*Sequencer, error) {
	if chain == nil || gate == nil {
		return nil, errors.New("chain and confirmer are required")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{chain: chain, gate: gate, p: p, obs: nopObserver{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	emit := func(e Event) { s.emit(e) }
	s.funder = NewBundleFunder(chain, p.Deployer, emit)
	s.pools = NewPoolProvisioner(chain, p.Deployer, p.Factory, emit)
	s.seeder = NewLiquiditySeeder(chain, p.Deployer, p.Router, p.TokenDecimals, p.TokensPerNative, p.Deadline, s.now, emit)
	s.disperser = NewBundleDisperser(chain, p.Router, p.Token, p.BaseAsset, p.Deadline, s.now, emit)
	return s, nil
}

func (s *Sequencer) RunID() string       { return s.runID }
func (s *Sequencer) State() State        { return s.state }
func (s *Sequencer) Wallet() int         { return s.wallet }
func (s *Sequencer) Plan() LaunchPlan    { return s.plan }
func (s *Sequencer) Pool() PoolReference { return s.pool }
func (s *Sequencer) Err() error          { return s.err }

// Outcomes returns a copy of the confirmed transactions so far.
func (s *Sequencer) Outcomes() []TransactionOutcome {
	return append([]TransactionOutcome(nil), s.outcomes...)
}

func (s *Sequencer) emit(e Event) {
	e.RunID = s.runID
	if e.State == StateIdle {
		e.State = s.state
	}
	e.At = s.now()
	s.obs.Observe(e)
}

// Run steps until a terminal state. An operator abort returns StateAborted and a nil error.
func (s *Sequencer) Run(ctx context.Context) (State, error) {
	for !s.state.Terminal() {
		if _, err := s.Step(ctx); err != nil {
			return s.state, err
		}
	}
	return s.state, s.err
}

// Step executes the current state and returns the state moved to.
func (s *Sequencer) Step(ctx context.Context) (State, error) {
	if s.state.Terminal() {
		return s.state, s.err
	}
	if s.state == StateIdle {
		s.state = StateCalculating
		return s.state, nil
	}

	wallet := -1
	if s.state == StateDispersing {
		wallet = s.wallet
	}
	s.emit(Event{Kind: EventStepStarted, Wallet: wallet})
	next, err := s.exec(ctx)
	if err != nil {
		s.emit(Event{Kind: EventStepFailed, Wallet: wallet, TxHash: txHashOrZero(err), Err: err})
		s.state, s.err = StateFailed, err
		return s.state, err
	}
	s.emit(Event{Kind: EventStepCompleted, Wallet: wallet, Message: s.note})
	s.note = ""
	s.state = next
	return s.state, nil
}

func (s *Sequencer) exec(ctx context.Context) (State, error) {
	switch s.state {
	case StateCalculating:
		return s.calculate(ctx)
	case StateGuardChecking:
		return s.guard(ctx)
	case StateAwaitingConfirmation:
		return s.confirm(ctx)
	case StateFundingBundles:
		outs, err := s.funder.Fund(ctx, s.p.Bundles, ToBaseUnits(s.plan.RequiredPerWallet, NativeDecimals))
		if err != nil {
			return StateFailed, err
		}
		s.outcomes = append(s.outcomes, outs...)
		return StateProvisioningPool, nil
	case StateProvisioningPool:
		ref, out, err := s.pools.EnsurePool(ctx, s.p.Token, s.p.BaseAsset)
		if err != nil {
			return StateFailed, err
		}
		s.pool = ref
		if out != nil {
			s.outcomes = append(s.outcomes, *out)
		}
		return StateSeedingLiquidity, nil
	case StateSeedingLiquidity:
		outs, err := s.seeder.Seed(ctx, s.p.Token, s.liquidityETH())
		s.outcomes = append(s.outcomes, outs...)
		if err != nil {
			return StateFailed, err
		}
		s.wallet = 0
		return StateDispersing, nil
	case StateDispersing:
		out, err := s.disperser.Swap(ctx, s.wallet, s.p.Bundles[s.wallet], s.swapIn)
		if err != nil {
			return StateFailed, err
		}
		s.outcomes = append(s.outcomes, out)
		if s.wallet+1 < len(s.p.Bundles) {
			s.wallet++
			return StateDispersing, nil
		}
		return StateDone, nil
	}
	return StateFailed, fmt.Errorf("no transition from %s", s.state)
}

func (s *Sequencer) calculate(ctx context.Context) (State, error) {
	supply, err := SupplySnapshot(ctx, s.chain, s.p.Token, s.p.TokenDecimals)
	if err != nil {
		return StateFailed, err
	}
	plan, err := NewLaunchPlan(s.p.TargetPercent, supply, s.p.SafetyBuffer, len(s.p.Bundles))
	if err != nil {
		return StateFailed, err
	}
	s.plan = plan
	s.swapIn = ToBaseUnits(plan.RequiredPerWallet, s.p.TokenDecimals)
	s.note = fmt.Sprintf("supply=%s per_wallet=%s total=%s",
		plan.Supply.String(), plan.RequiredPerWallet.String(), plan.TotalRequired.String())
	return StateGuardChecking, nil
}

func (s *Sequencer) guard(ctx context.Context) (State, error) {
	wei, err := s.chain.BalanceAt(ctx, s.p.Deployer.Address)
	if err != nil {
		return StateFailed, fail(ErrInsufficientFunds, common.Hash{}, fmt.Errorf("deployer balance: %w", err))
	}
	bal := FromBaseUnits(wei, NativeDecimals)
	if err := CheckBalance(bal, s.plan.TotalRequired); err != nil {
		return StateFailed, err
	}
	if err := CheckOutlay(bal, s.plan.TotalRequired, PlannedOutlay(s.plan, s.liquidityETH(), s.p.FundBundles)); err != nil {
		return StateFailed, err
	}
	return StateAwaitingConfirmation, nil
}

func (s *Sequencer) confirm(ctx context.Context) (State, error) {
	if s.plan.SlippageUnprotected {
		s.emit(Event{Kind: EventWarning, Wallet: -1, Message: "minimum outputs are zero: liquidity and swaps accept any execution price"})
	}
	ok, err := s.gate.Confirm(ctx, s.plan)
	if err != nil {
		return StateFailed, fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		s.emit(Event{Kind: EventWarning, Wallet: -1, Message: ErrAborted.Error()})
		return StateAborted, nil
	}
	if s.p.FundBundles {
		return StateFundingBundles, nil
	}
	return StateProvisioningPool, nil
}

func (s *Sequencer) liquidityETH() decimal.Decimal {
	if s.p.LiquidityETH.IsPositive() {
		return s.p.LiquidityETH
	}
	return s.plan.RequiredPerWallet
}

func txHashOrZero(err error) common.Hash {
	h, _ := TxHashOf(err)
	return h
}
