package ledger

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/utils"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/logger"
	"github.com/iotaledger/hive.go/syncutils"
)

const (
	// TokenMaxLength is the maximum length of a token identifier.
	TokenMaxLength = 255
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// the default options applied to the Ledger.
var defaultOptions = []Option{}

// Options define options for the Ledger.
type Options struct {
	logger *logger.Logger
}

// applies the given Option.
func (so *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(so)
	}
}

// WithLogger enables logging within the ledger.
func WithLogger(logger *logger.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// Option is a function setting a ledger option.
type Option func(opts *Options)

// Ledger keeps the fungible balances of all principals per token.
type Ledger struct {
	// lock used to serialize balance updates.
	syncutils.RWMutex
	*utils.WrappedLogger

	store kvstore.KVStore
}

// New creates a new Ledger instance backed by the given store.
func New(store kvstore.KVStore, opts ...Option) *Ledger {

	options := &Options{}
	options.apply(defaultOptions...)
	options.apply(opts...)

	return &Ledger{
		WrappedLogger: utils.NewWrappedLogger(options.logger),
		store:         store,
	}
}

func validateToken(token string) error {
	if len(token) == 0 || len(token) > TokenMaxLength {
		return errors.WithMessagef(ErrInvalidToken, "length %d", len(token))
	}
	return nil
}

// Balance returns the balance of the principal in the given token.
func (l *Ledger) Balance(principal account.Principal, token string) (uint64, error) {
	if err := validateToken(token); err != nil {
		return 0, err
	}

	l.RLock()
	defer l.RUnlock()

	return l.balance(principal, token)
}

// Supply returns the amount of the given token minted so far.
func (l *Ledger) Supply(token string) (uint64, error) {
	if err := validateToken(token); err != nil {
		return 0, err
	}

	l.RLock()
	defer l.RUnlock()

	return l.readAmount(supplyKeyForToken(token))
}

// Transfer debits the sender and credits the receiver in a single batch.
// Either both balances change or none.
func (l *Ledger) Transfer(from account.Principal, to account.Principal, token string, amount uint64) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if amount == 0 || from == to {
		return nil
	}

	l.Lock()
	defer l.Unlock()

	fromBalance, err := l.balance(from, token)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return errors.WithMessagef(ErrInsufficientBalance, "%s has %d, needs %d", from, fromBalance, amount)
	}

	toBalance, err := l.balance(to, token)
	if err != nil {
		return err
	}
	if toBalance > math.MaxUint64-amount {
		return errors.WithMessagef(ErrBalanceOverflow, "%s", to)
	}

	mutations := l.store.Batched()
	if err := mutations.Set(balanceKeyForPrincipal(from, token), amountBytes(fromBalance-amount)); err != nil {
		mutations.Cancel()
		return err
	}
	if err := mutations.Set(balanceKeyForPrincipal(to, token), amountBytes(toBalance+amount)); err != nil {
		mutations.Cancel()
		return err
	}
	if err := mutations.Commit(); err != nil {
		return err
	}

	l.LogDebugf("transferred %s %s from %s to %s", utils.FormatAmount(amount), token, from, to)
	return nil
}

// Mint creates new funds of the given token on the principal's balance.
func (l *Ledger) Mint(principal account.Principal, token string, amount uint64) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if amount == 0 {
		return errors.WithMessage(ErrInvalidAmount, "nothing to mint")
	}

	l.Lock()
	defer l.Unlock()

	supply, err := l.readAmount(supplyKeyForToken(token))
	if err != nil {
		return err
	}
	if supply > math.MaxUint64-amount {
		return errors.WithMessagef(ErrBalanceOverflow, "supply of %s", token)
	}

	// the balance can never exceed the supply, so no separate check needed.
	balance, err := l.balance(principal, token)
	if err != nil {
		return err
	}

	mutations := l.store.Batched()
	if err := mutations.Set(supplyKeyForToken(token), amountBytes(supply+amount)); err != nil {
		mutations.Cancel()
		return err
	}
	if err := mutations.Set(balanceKeyForPrincipal(principal, token), amountBytes(balance+amount)); err != nil {
		mutations.Cancel()
		return err
	}
	if err := mutations.Commit(); err != nil {
		return err
	}

	l.LogInfof("minted %s %s to %s", utils.FormatAmount(amount), token, principal)
	return nil
}

// ForEachBalance iterates over all non-zero balances of the given principal.
func (l *Ledger) ForEachBalance(principal account.Principal, consumer func(token string, amount uint64) bool) error {
	l.RLock()
	defer l.RUnlock()

	var innerErr error
	if err := l.store.Iterate(balanceKeyPrefixForPrincipal(principal), func(key kvstore.Key, value kvstore.Value) bool {
		var amount uint64
		amount, innerErr = amountFromBytes(value)
		if innerErr != nil {
			return false
		}
		if amount == 0 {
			return true
		}
		return consumer(tokenFromBalanceKey(key), amount)
	}); err != nil {
		return err
	}

	return innerErr
}

func (l *Ledger) balance(principal account.Principal, token string) (uint64, error) {
	return l.readAmount(balanceKeyForPrincipal(principal, token))
}

func (l *Ledger) readAmount(key []byte) (uint64, error) {
	value, err := l.store.Get(key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to read ledger entry")
	}
	return amountFromBytes(value)
}

// Flush persists all pending balance updates.
func (l *Ledger) Flush() error {
	l.Lock()
	defer l.Unlock()

	return l.store.Flush()
}
