package detail

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/pkg/logger"
)

// Registry tracks one controller per open detail view, keyed by session id.
// Sessions are independent: pagination on one never blocks another.
type Registry struct {
	store     account.Store
	remote    account.RemoteClient
	details   account.DetailsCache
	favorites FavoriteService
	signal    FavoriteSignal
	logger    *logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
}

// NewRegistry creates a detail session registry
func NewRegistry(
	store account.Store,
	remote account.RemoteClient,
	details account.DetailsCache,
	favorites FavoriteService,
	signal FavoriteSignal,
	log *logger.Logger,
) *Registry {
	return &Registry{
		store:     store,
		remote:    remote,
		details:   details,
		favorites: favorites,
		signal:    signal,
		logger:    log.WithField("component", "detail-registry"),
		sessions:  make(map[uuid.UUID]*Controller),
	}
}

// Open starts a controller for the given account and returns its session id
// together with the state of the initial load.
func (r *Registry) Open(ctx context.Context, accountID string) (uuid.UUID, State) {
	ctrl := New(accountID, r.store, r.remote, r.details, r.favorites, r.signal, r.logger)

	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = ctrl
	r.mu.Unlock()

	st := ctrl.Start(ctx)
	r.logger.Info("detail session opened", "session_id", id, "account_id", accountID, "phase", st.Phase)
	return id, st
}

// Get returns the controller for a session id.
func (r *Registry) Get(id uuid.UUID) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.sessions[id]
	return ctrl, ok
}

// Close tears down one session. It reports whether the session existed.
func (r *Registry) Close(id uuid.UUID) bool {
	r.mu.Lock()
	ctrl, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		ctrl.Close()
		r.logger.Info("detail session closed", "session_id", id)
	}
	return ok
}

// CloseAll tears down every open session, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Controller)
	r.mu.Unlock()

	for id, ctrl := range sessions {
		ctrl.Close()
		r.logger.Debug("detail session closed", "session_id", id)
	}
}
