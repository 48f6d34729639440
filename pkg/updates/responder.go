package updates

import (
	"log/slog"
	"sync"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
)

// Responder binds a browser update service to the identity of the application that attached it.
//
// The first identity to attach wins. The same identity may attach again and replace its service,
// any other identity is rejected with ErrIdentityConflict.
type Responder struct {
	mu       sync.Mutex
	identity *callerauth.ApplicationIdentity
	service  Service
	log      *slog.Logger
}

// NewResponder creates an unbound Responder.
func NewResponder(logger *slog.Logger) *Responder {
	return &Responder{
		log: logging.Child(logger, "UpdateResponder"),
	}
}

// SetPaymentDetailsUpdateService records the caller identity together with its service.
func (r *Responder) SetPaymentDetailsUpdateService(caller callerauth.ApplicationIdentity, service Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identity != nil && !r.identity.Equal(caller) {
		r.log.Warn("Rejected update service from a second caller",
			slog.String("bound", r.identity.String()),
			slog.String("caller", caller.String()),
		)
		return ErrIdentityConflict
	}

	r.identity = &caller
	r.service = service
	r.log.Debug("Update service attached", slog.String("caller", caller.String()))
	return nil
}

// UpdateService returns the attached service provided the caller matches the bound identity.
func (r *Responder) UpdateService(caller callerauth.ApplicationIdentity) (Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identity == nil {
		return nil, ErrNotConnected
	}
	if !r.identity.Equal(caller) {
		return nil, ErrIdentityConflict
	}
	return r.service, nil
}

// BoundIdentity returns the identity the channel is bound to.
func (r *Responder) BoundIdentity() (callerauth.ApplicationIdentity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identity == nil {
		return callerauth.ApplicationIdentity{}, false
	}
	return *r.identity, true
}
