package detail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/pkg/logger"
)

// User-facing messages for the error phase. The detail screen renders these
// verbatim.
const (
	msgAccountNotFound = "Account not found"
	msgNoConnection    = "No internet connection"
	msgCacheFailure    = "Something went wrong"
)

// Controller aggregates one account's cached summary, best-effort remote
// details, the live favorite signal, and the paginated transaction feed into
// a single view state. One controller serves one open detail screen.
//
// At most one aggregation run's result is ever committed per generation:
// Refresh, ApplyFilter, ClearFilter, and Retry bump the generation and so
// supersede any run still in flight, whose commit is then discarded.
type Controller struct {
	accountID string
	store     account.Store
	remote    account.RemoteClient
	details   account.DetailsCache
	favorites FavoriteService
	signal    FavoriteSignal
	logger    *logger.Logger

	mu          sync.Mutex
	state       State
	gen         uint64
	nextPage    int
	filter      DateRange
	accumulated []account.Transaction
	favoriteID  *string
	favSeen     bool
	closed      bool

	subs    map[int]chan State
	subNext int

	cancelFav func()
	wg        sync.WaitGroup
}

// New creates a detail controller for the given account. Call Start to run
// the initial load and begin observing the favorite signal.
func New(
	accountID string,
	store account.Store,
	remote account.RemoteClient,
	details account.DetailsCache,
	favorites FavoriteService,
	signal FavoriteSignal,
	log *logger.Logger,
) *Controller {
	return &Controller{
		accountID: accountID,
		store:     store,
		remote:    remote,
		details:   details,
		favorites: favorites,
		signal:    signal,
		logger:    log.WithField("component", "detail").WithField("account_id", accountID),
		state:     loadingState(),
		subs:      make(map[int]chan State),
	}
}

// Start subscribes to the favorite signal and runs the initial refresh,
// returning the resulting state.
func (c *Controller) Start(ctx context.Context) State {
	ch, cancel := c.signal.Subscribe()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return errorState(msgCacheFailure, false)
	}
	c.cancelFav = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.watchFavorites(ch)

	return c.Refresh(ctx)
}

// Close tears down the controller. The favorite subscription is cancelled,
// any in-flight aggregation run is superseded so its result is discarded,
// and all state subscribers are closed. No callbacks fire after Close
// returns.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	cancel := c.cancelFav
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// State returns the current view state snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Updates registers a state subscriber. The channel coalesces: a slow
// reader only ever sees the latest state. The cancel function removes the
// subscription.
func (c *Controller) Updates() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.subNext
	c.subNext++

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- c.state
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Refresh re-runs the full aggregation from page 0, discarding accumulated
// transactions. The current filter bounds are kept.
func (c *Controller) Refresh(ctx context.Context) State {
	c.mu.Lock()
	return c.restartLocked(ctx, c.filter)
}

// Retry is identical to Refresh.
func (c *Controller) Retry(ctx context.Context) State {
	return c.Refresh(ctx)
}

// ApplyFilter stores new date bounds and restarts aggregation from page 0
// with an empty accumulation.
func (c *Controller) ApplyFilter(ctx context.Context, from, to *time.Time) State {
	c.mu.Lock()
	return c.restartLocked(ctx, DateRange{From: from, To: to})
}

// ClearFilter drops the date bounds and restarts aggregation.
func (c *Controller) ClearFilter(ctx context.Context) State {
	c.mu.Lock()
	return c.restartLocked(ctx, DateRange{})
}

// restartLocked expects c.mu held and releases it before running the
// aggregation sequence.
func (c *Controller) restartLocked(ctx context.Context, filter DateRange) State {
	if c.closed {
		st := c.state
		c.mu.Unlock()
		return st
	}
	c.gen++
	gen := c.gen
	c.filter = filter
	c.nextPage = 0
	c.accumulated = nil
	c.setStateLocked(loadingState())
	from, to := filter.EncodeFrom(), filter.EncodeTo()
	c.mu.Unlock()

	return c.runSequence(ctx, gen, 0, from, to, false)
}

// LoadMore fetches the next page and merges it into the accumulated set. It
// is a guarded no-op unless the current state is a success with more pages
// remaining; in particular no remote call is made once HasMore is false.
func (c *Controller) LoadMore(ctx context.Context) State {
	c.mu.Lock()
	if c.closed || c.state.Phase != PhaseSuccess || !c.state.HasMore {
		st := c.state
		c.mu.Unlock()
		return st
	}
	c.gen++
	gen := c.gen
	page := c.nextPage
	from, to := c.filter.EncodeFrom(), c.filter.EncodeTo()
	c.mu.Unlock()

	return c.runSequence(ctx, gen, page, from, to, true)
}

// ToggleFavorite flips this account's favorite flag against the currently
// stored favorite id. Before the first successful load it is a guarded
// no-op. The resulting state change arrives through the favorite signal.
func (c *Controller) ToggleFavorite(ctx context.Context) error {
	c.mu.Lock()
	ready := !c.closed && c.state.Phase == PhaseSuccess
	c.mu.Unlock()
	if !ready {
		return nil
	}

	if _, err := c.favorites.ToggleFavorite(ctx, c.accountID); err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return nil
}

// runSequence executes one aggregation run. The result is committed only if
// gen is still the controller's current generation.
func (c *Controller) runSequence(ctx context.Context, gen uint64, page int, from, to *string, appendMode bool) State {
	// 1. Cached summary. A missing record is a stale-id logic error, not a
	// network failure, and must not be retried.
	acct, err := c.store.GetByID(ctx, c.accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.commitState(gen, errorState(msgAccountNotFound, false))
		}
		c.logger.WithError(err).Error("account cache read failed")
		return c.commitState(gen, errorState(msgCacheFailure, true))
	}

	// 2. Extended details, read-through the cache. Enrichment is
	// best-effort and never fatal.
	enriched := acct.WithDetails(c.fetchDetails(ctx))

	// 3. One-shot favorite overlay.
	favID, err := c.store.FavoriteID(ctx)
	if err != nil {
		c.logger.WithError(err).Debug("favorite read failed")
		favID = nil
	}
	enriched.IsFavorite = favID != nil && *favID == c.accountID

	// 4. One transaction page for the requested cursor and filter bounds.
	pg, err := c.remote.GetTransactionsPage(ctx, c.accountID, page, from, to)
	if err != nil {
		c.logger.WithError(err).Warn("transactions page fetch failed", "page", page)
		// TODO: a failed LoadMore currently replaces an existing success
		// state with an error, discarding accumulated pages; pending a
		// product decision on keeping the prior state instead.
		return c.commitState(gen, errorState(msgNoConnection, true))
	}

	// 5-8. Merge, sort, group, publish.
	return c.commitSuccess(gen, enriched, pg, appendMode)
}

// fetchDetails serves extended details from the cache when possible, falling
// through to the remote API and populating the cache on success. Any failure
// returns nil so the caller degrades to the cached summary.
func (c *Controller) fetchDetails(ctx context.Context) *account.Details {
	if d, ok, err := c.details.Get(ctx, c.accountID); err != nil {
		c.logger.WithError(err).Debug("details cache read failed")
	} else if ok {
		return d
	}

	d, err := c.remote.GetAccountDetails(ctx, c.accountID)
	if err != nil {
		c.logger.WithError(err).Warn("details fetch failed, using cached summary only")
		return nil
	}

	if err := c.details.Set(ctx, c.accountID, d); err != nil {
		c.logger.WithError(err).Debug("details cache write failed")
	}
	return d
}

// commitState publishes a terminal state unless the run was superseded.
func (c *Controller) commitState(gen uint64, st State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed {
		return c.state
	}
	c.setStateLocked(st)
	return st
}

// commitSuccess merges the fetched page into the accumulated set, advances
// the cursor, and publishes the success state, unless the run was
// superseded.
func (c *Controller) commitSuccess(gen uint64, enriched *account.Account, pg *account.Page, appendMode bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed {
		return c.state
	}

	var all []account.Transaction
	if appendMode {
		all = append(all, c.accumulated...)
	}
	all = append(all, pg.Transactions...)
	c.accumulated = all

	hasMore := pg.HasMore()
	if hasMore {
		// The cursor follows the server-reported page, never the
		// requested index.
		c.nextPage = pg.CurrentPage + 1
	}

	acct := *enriched
	if c.favSeen {
		// A signal delivered during the run wins over the one-shot read.
		acct.IsFavorite = c.favoriteID != nil && *c.favoriteID == c.accountID
	}

	st := State{
		Phase:       PhaseSuccess,
		Account:     &acct,
		Sections:    account.GroupIntoSections(all),
		HasMore:     hasMore,
		IsFiltering: c.filter.IsFiltering(),
	}
	c.setStateLocked(st)
	return st
}

// watchFavorites applies favorite signal deliveries until the subscription
// channel closes.
func (c *Controller) watchFavorites(ch <-chan *string) {
	defer c.wg.Done()
	for fav := range ch {
		c.applyFavorite(fav)
	}
}

// applyFavorite patches the favorite flag onto the current success state
// without touching sections or pagination. Before the first success the
// value is buffered and overlaid when success is reached.
func (c *Controller) applyFavorite(fav *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.favSeen = true
	c.favoriteID = fav

	if c.state.Phase != PhaseSuccess {
		return
	}

	acct := *c.state.Account
	acct.IsFavorite = fav != nil && *fav == c.accountID

	st := c.state
	st.Account = &acct
	c.setStateLocked(st)
}

// setStateLocked records and broadcasts a state. c.mu must be held.
func (c *Controller) setStateLocked(st State) {
	c.state = st
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
