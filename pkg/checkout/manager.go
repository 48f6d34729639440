// Package checkout drives payments started by a PAY intent, from the first view of the merchant's
// request to the result intent returned to the browser.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/model"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/google/uuid"
)

// CallbackReleaser drops the update callbacks a finished session still waits on.
type CallbackReleaser interface {
	Release(callback updates.Callback) int
}

// ManagerConfig configures the Manager.
type ManagerConfig struct {
	MethodName string
	Addresses  []model.PaymentAddress
	Snapshots  SnapshotStore
	Callbacks  CallbackReleaser
	Logger     *slog.Logger
}

func WithMethodName(methodName string) func(*ManagerConfig) {
	return func(cfg *ManagerConfig) {
		cfg.MethodName = methodName
	}
}

func WithAddresses(addresses ...model.PaymentAddress) func(*ManagerConfig) {
	return func(cfg *ManagerConfig) {
		cfg.Addresses = addresses
	}
}

func WithSnapshots(store SnapshotStore) func(*ManagerConfig) {
	return func(cfg *ManagerConfig) {
		cfg.Snapshots = store
	}
}

// WithCallbacks releases the pending update callbacks of every session that finishes.
func WithCallbacks(callbacks CallbackReleaser) func(*ManagerConfig) {
	return func(cfg *ManagerConfig) {
		cfg.Callbacks = callbacks
	}
}

func WithLogger(logger *slog.Logger) func(*ManagerConfig) {
	return func(cfg *ManagerConfig) {
		cfg.Logger = logger
	}
}

// Manager keeps the running checkout sessions. Finished sessions are moved to the snapshot store.
type Manager struct {
	cfg ManagerConfig
	log *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(opts ...func(*ManagerConfig)) *Manager {
	cfg := to.OptionsWithDefault(ManagerConfig{
		MethodName: constants.DefaultMethodName,
		Addresses:  SampleAddresses(),
	}, opts...)
	if cfg.Snapshots == nil {
		cfg.Snapshots = NewMemorySnapshots()
	}

	return &Manager{
		cfg:      cfg,
		log:      logging.Child(cfg.Logger, "CheckoutManager"),
		sessions: make(map[string]*Session),
	}
}

// Start opens a checkout for a PAY intent sent by caller. The extras must carry paymentOptions.
func (m *Manager) Start(ctx context.Context, caller callerauth.Caller, in intent.Intent) (*Session, error) {
	if in.Action != constants.ActionPay || in.Extras == nil {
		return nil, ErrNotPayIntent
	}

	params := model.PaymentParamsFromBundle(in.Extras)
	if !params.HasPaymentOptions {
		m.log.InfoContext(ctx, "PAY intent without payment options, not starting a checkout",
			slog.String("caller", caller.Identity.PackageName))
		return nil, ErrNotPayIntent
	}

	session := newSession(uuid.NewString(), caller, params, m.cfg, m.finish)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.log.InfoContext(ctx, "Checkout started",
		slog.String("checkoutId", session.ID()),
		slog.String("caller", caller.Identity.PackageName),
		slog.Bool("authorized", caller.Authorized),
		slog.String("merchant", params.MerchantName),
	)
	return session, nil
}

// Get returns a running session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return session, nil
	}

	if _, err := m.cfg.Snapshots.Load(ctx, id); err == nil {
		return nil, ErrSessionFinished
	}
	return nil, ErrSessionNotFound
}

// View returns the view of a running session or the snapshot of a finished one.
func (m *Manager) View(ctx context.Context, id string) (View, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return session.View(), nil
	}

	view, err := m.cfg.Snapshots.Load(ctx, id)
	if errors.Is(err, ErrSnapshotNotFound) {
		return View{}, ErrSessionNotFound
	}
	return view, err
}

// Len returns the number of running sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) finish(ctx context.Context, session *Session) {
	if m.cfg.Callbacks != nil {
		if released := m.cfg.Callbacks.Release(session); released > 0 {
			m.log.DebugContext(ctx, "Released unanswered update callbacks",
				slog.String("checkoutId", session.ID()), slog.Int("callbacks", released))
		}
	}

	view := session.View()
	if err := m.cfg.Snapshots.Save(ctx, view); err != nil {
		m.log.ErrorContext(ctx, "Failed to store checkout snapshot", slog.String("checkoutId", view.ID), logging.Error(err))
		return
	}

	m.mu.Lock()
	delete(m.sessions, session.ID())
	m.mu.Unlock()
}
