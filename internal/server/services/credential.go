// Package services contains server-side business logic. CredentialStore
// registers usernames with salted, slow-hashed passwords and verifies
// claimed passwords without comparing raw secrets.
package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
	"golang.org/x/sync/semaphore"
)

// DefaultMinPasswordLength applies when no WithMinPasswordLength option is given.
const DefaultMinPasswordLength = 6

// DefaultKDFTimeout bounds how long a caller waits for a free KDF worker.
const DefaultKDFTimeout = 5 * time.Second

// CredentialStore owns credential records. All methods are safe for
// concurrent use.
type CredentialStore struct {
	repo              credentials.Repository
	params            cryptox.Params
	workers           *semaphore.Weighted
	kdfTimeout        time.Duration
	minPasswordLength int
	logger            logging.Logger
	metrics           *metrics.Collector
	clock             timex.Clock

	// decoy is verified against when the username is unknown, so the
	// response time does not reveal whether the user exists.
	decoy *models.Credential
}

type Option func(*CredentialStore)

// WithParams sets the KDF parameters used for new registrations.
func WithParams(p cryptox.Params) Option {
	return func(s *CredentialStore) { s.params = p }
}

// WithWorkers caps the number of concurrent key derivations.
func WithWorkers(n int) Option {
	return func(s *CredentialStore) {
		if n > 0 {
			s.workers = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithKDFTimeout bounds the wait for a free KDF worker. Zero means the wait
// is limited only by the caller's context.
func WithKDFTimeout(d time.Duration) Option {
	return func(s *CredentialStore) { s.kdfTimeout = d }
}

func WithMinPasswordLength(n int) Option {
	return func(s *CredentialStore) { s.minPasswordLength = n }
}

func WithLogger(l logging.Logger) Option {
	return func(s *CredentialStore) { s.logger = l }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *CredentialStore) { s.metrics = m }
}

func WithClock(c timex.Clock) Option {
	return func(s *CredentialStore) { s.clock = c }
}

// NewCredentialStore builds a store on top of repo. It fails when the KDF
// parameters are invalid.
func NewCredentialStore(repo credentials.Repository, opts ...Option) (*CredentialStore, error) {
	s := &CredentialStore{
		repo:              repo,
		params:            cryptox.DefaultParams(),
		workers:           semaphore.NewWeighted(int64(runtime.NumCPU())),
		kdfTimeout:        DefaultKDFTimeout,
		minPasswordLength: DefaultMinPasswordLength,
		logger:            logging.NewNopLogger(),
		clock:             timex.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	s.decoy = &models.Credential{
		Salt:          cryptox.NewSalt(),
		DerivedKey:    common.GenerateRandByteArray(cryptox.KeyLength),
		KDFAlgorithm:  s.params.Algorithm,
		KDFIterations: s.params.Iterations,
	}

	return s, nil
}

// Register stores a new credential for username. It returns false, with a
// nil error, when the username is already registered; the existing record
// is never overwritten. Malformed input yields a common.ErrorValidation error.
func (s *CredentialStore) Register(ctx context.Context, username, password string) (bool, error) {
	if err := s.validate(username, password, true); err != nil {
		s.metrics.CredentialOutcome(metrics.OpRegister, metrics.OutcomeInvalidInput)
		return false, err
	}

	// Cheap pre-check; the repository's insert-if-absent is authoritative.
	_, err := s.repo.GetByUserName(ctx, username)
	switch {
	case err == nil:
		s.metrics.CredentialOutcome(metrics.OpRegister, metrics.OutcomeDuplicate)
		return false, nil
	case !errors.Is(err, common.ErrorNotFound):
		s.metrics.CredentialOutcome(metrics.OpRegister, metrics.OutcomeError)
		return false, fmt.Errorf("error looking up credential: %w", err)
	}

	salt := cryptox.NewSalt()
	key, err := s.deriveKey(ctx, s.params, password, salt)
	if err != nil {
		s.recordKDFFailure(metrics.OpRegister, err)
		return false, err
	}

	c := &models.Credential{
		UserName:      username,
		Salt:          salt,
		DerivedKey:    key,
		KDFAlgorithm:  s.params.Algorithm,
		KDFIterations: s.params.Iterations,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.metrics.CredentialOutcome(metrics.OpRegister, metrics.OutcomeDuplicate)
			return false, nil
		}
		s.metrics.CredentialOutcome(metrics.OpRegister, metrics.OutcomeError)
		return false, fmt.Errorf("error creating credential: %w", err)
	}

	s.metrics.CredentialOutcome(metrics.OpRegister, metrics.OutcomeSuccess)
	s.logger.Info(ctx, "credential registered", "username", username, "kdf", c.KDFAlgorithm)

	return true, nil
}

// Verify reports whether password matches the stored credential. Unknown
// usernames and wrong passwords both give false with a nil error, and both
// cost one key derivation.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	if err := s.validate(username, password, false); err != nil {
		s.metrics.CredentialOutcome(metrics.OpVerify, metrics.OutcomeInvalidInput)
		return false, err
	}

	found := true
	c, err := s.repo.GetByUserName(ctx, username)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.metrics.CredentialOutcome(metrics.OpVerify, metrics.OutcomeError)
			return false, fmt.Errorf("error looking up credential: %w", err)
		}
		found = false
		c = s.decoy
	}

	params := cryptox.Params{Algorithm: c.KDFAlgorithm, Iterations: c.KDFIterations}
	candidate, err := s.deriveKey(ctx, params, password, c.Salt)
	if err != nil {
		s.recordKDFFailure(metrics.OpVerify, err)
		return false, err
	}
	defer common.WipeByteArray(candidate)

	ok := cryptox.Equal(c.DerivedKey, candidate) && found

	if ok {
		s.metrics.CredentialOutcome(metrics.OpVerify, metrics.OutcomeSuccess)
	} else {
		s.metrics.CredentialOutcome(metrics.OpVerify, metrics.OutcomeRejected)
		s.logger.Debug(ctx, "credential rejected", "username", username)
	}

	return ok, nil
}

func (s *CredentialStore) validate(username, password string, registering bool) error {
	if username == "" {
		return common.ErrEmptyUsername
	}
	if password == "" {
		return common.ErrEmptyPassword
	}
	if registering && len([]rune(password)) < s.minPasswordLength {
		return fmt.Errorf("%w: minimum length is %d", common.ErrPasswordTooShort, s.minPasswordLength)
	}
	return nil
}

// deriveKey runs the KDF on one of the bounded workers. Waiting for a worker
// is limited by kdfTimeout and ctx; once started, a derivation always runs
// to completion.
func (s *CredentialStore) deriveKey(ctx context.Context, p cryptox.Params, password string, salt []byte) ([]byte, error) {
	if s.kdfTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.kdfTimeout)
		defer cancel()
	}

	if err := s.workers.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrKDFUnavailable, err)
	}
	defer s.workers.Release(1)

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	start := time.Now()
	key, err := cryptox.DeriveKey(p, pw, salt)
	s.metrics.ObserveKDF(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("error deriving key: %w", err)
	}

	return key, nil
}

func (s *CredentialStore) recordKDFFailure(op string, err error) {
	if errors.Is(err, common.ErrKDFUnavailable) {
		s.metrics.CredentialOutcome(op, metrics.OutcomeUnavailable)
		return
	}
	s.metrics.CredentialOutcome(op, metrics.OutcomeError)
}
