// Package syncer binds the reconciliation store to the identity boundary
// and to user write intents: it owns the standing repository subscription,
// dispatches optimistic writes, rolls them back on failure and translates
// repository errors into a small taxonomy the presentation layer can show.
package syncer

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/orcadive/divelog/internal/client/models"
	"github.com/orcadive/divelog/internal/client/repositories/cache"
	"github.com/orcadive/divelog/internal/client/repositories/entries"
	"github.com/orcadive/divelog/internal/client/store"
	"github.com/orcadive/divelog/internal/logging"
)

// State is the controller's position in the per-session lifecycle.
type State string

const (
	StateUnbound       State = "unbound"
	StateSubscribedOwn State = "subscribed_own"
	StateSubscribedAll State = "subscribed_all"
)

// Controller is the sync controller. It is the only writer of the
// reconciliation store; the presentation layer reads the store and calls
// the intent methods below.
//
// At most one standing subscription is live at any time. Tearing the old
// one down always completes before a new scope is established, and every
// snapshot callback is tagged with a generation so a leaked late delivery
// from a replaced subscription is dropped instead of resurrecting stale
// data.
type Controller struct {
	store *store.Store
	repo  entries.Repository
	cache cache.Repository
	log   logging.Logger
	now   func() time.Time

	mu                stdsync.Mutex
	requestTimeout    time.Duration
	session           *models.Session
	unsubscribe       func()
	gen               uint64
	seq               uint64
	lastErr           *ErrorInfo
	pendingCreates    map[string]struct{}
	deleteAfterCreate map[string]struct{}
}

// New builds a controller in the Unbound state. cache may be nil; cache
// failures are never allowed to fail an operation, they only degrade the
// offline fallback.
func New(st *store.Store, repo entries.Repository, c cache.Repository, log logging.Logger) *Controller {
	return &Controller{
		store:             st,
		repo:              repo,
		cache:             c,
		log:               log,
		now:               time.Now,
		pendingCreates:    make(map[string]struct{}),
		deleteAfterCreate: make(map[string]struct{}),
	}
}

// Store exposes the reconciliation store for read-only observation.
func (c *Controller) Store() *store.Store { return c.store }

// SetRequestTimeout bounds every one-shot repository call (create, update,
// delete, refresh queries) with the given deadline. Zero disables the
// bound. The standing subscription is never subject to it.
func (c *Controller) SetRequestTimeout(d time.Duration) {
	c.mu.Lock()
	c.requestTimeout = d
	c.mu.Unlock()
}

// reqCtx derives the context a one-shot repository call runs under. The
// caller must invoke the returned cancel once the call settles.
func (c *Controller) reqCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	c.mu.Lock()
	d := c.requestTimeout
	c.mu.Unlock()
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.session == nil:
		return StateUnbound
	case c.session.IsAdministrator:
		return StateSubscribedAll
	default:
		return StateSubscribedOwn
	}
}

// Entries returns the current store contents, newest first.
func (c *Controller) Entries() []*models.DiveEntry { return c.store.Entries() }

// SyncError returns the last surfaced failure, or nil. It is cleared by
// the next successful operation and replaced by the next failed one.
func (c *Controller) SyncError() *ErrorInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr == nil {
		return nil
	}
	info := *c.lastErr
	return &info
}

// SetSession is the identity boundary event. Passing nil signs out: the
// subscription is torn down and the store cleared before the call returns,
// so no residual entries of a previous user are ever observable. Passing a
// session re-scopes: any existing subscription is torn down first, the
// store is cleared, the per-user cache primes it, and a fresh subscription
// for the session's scope is established.
func (c *Controller) SetSession(ctx context.Context, sess *models.Session) error {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.gen++
	gen := c.gen
	c.session = sess
	c.lastErr = nil
	c.pendingCreates = make(map[string]struct{})
	c.deleteAfterCreate = make(map[string]struct{})
	c.mu.Unlock()

	c.store.Clear()
	if sess == nil {
		return nil
	}

	c.primeFromCache(ctx, gen, sess)

	scope := entries.Scope{All: sess.IsAdministrator}
	if !sess.IsAdministrator {
		scope.UserID = sess.UserID
	}
	unsub, err := c.repo.Subscribe(ctx, scope,
		func(list []*models.DiveEntry) { c.handleSnapshot(gen, sess, list) },
		func(err error) { c.handleSubscribeError(gen, err) },
	)
	if err != nil {
		return c.fail("subscribe", err)
	}

	c.mu.Lock()
	if gen != c.gen {
		// Re-scoped again while we were subscribing; this subscription
		// must not survive.
		c.mu.Unlock()
		unsub()
		return nil
	}
	c.unsubscribe = unsub
	c.mu.Unlock()

	c.log.Info(ctx, "subscription established",
		"user", sess.UserID, "admin", sess.IsAdministrator)
	return nil
}

// primeFromCache shows the user's last-known entry set until the first
// live snapshot supersedes it. Cache problems only log.
func (c *Controller) primeFromCache(ctx context.Context, gen uint64, sess *models.Session) {
	if c.cache == nil {
		return
	}
	cached, err := c.cache.Load(ctx, sess.UserID)
	if err != nil {
		c.log.Warn(ctx, "cache load failed", "error", err)
		return
	}
	if len(cached) == 0 {
		return
	}
	if seq, ok := c.nextSeq(gen); ok {
		c.store.ReplaceAll(seq, cached)
	}
}

// nextSeq allocates the next snapshot sequence number, refusing when the
// generation is no longer current.
func (c *Controller) nextSeq(gen uint64) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return 0, false
	}
	c.seq++
	return c.seq, true
}

func (c *Controller) handleSnapshot(gen uint64, sess *models.Session, list []*models.DiveEntry) {
	seq, ok := c.nextSeq(gen)
	if !ok {
		return
	}

	// A non-administrator's store must never contain foreign entries,
	// whatever the snapshot carried.
	if !sess.IsAdministrator {
		own := list[:0]
		for _, e := range list {
			if e.UserID == sess.UserID {
				own = append(own, e)
			}
		}
		list = own
	}

	if !c.store.ReplaceAll(seq, list) {
		return
	}
	c.persistOwn(sess, list)
}

// persistOwn mirrors the session user's slice of the applied snapshot into
// the offline cache.
func (c *Controller) persistOwn(sess *models.Session, list []*models.DiveEntry) {
	if c.cache == nil {
		return
	}
	own := make([]*models.DiveEntry, 0, len(list))
	for _, e := range list {
		if e.UserID == sess.UserID {
			own = append(own, e)
		}
	}
	if err := c.cache.ReplaceUser(context.Background(), sess.UserID, own); err != nil {
		c.log.Warn(context.Background(), "cache persist failed", "error", err)
	}
}

// handleSubscribeError flags degraded connectivity. The store keeps its
// last-known-good contents.
func (c *Controller) handleSubscribeError(gen uint64, err error) {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}
	_ = c.fail("subscribe", err)
}

// Refresh performs a one-shot query for the current scope and applies the
// result as a snapshot delivery.
func (c *Controller) Refresh(ctx context.Context) error {
	sess, gen := c.currentSession()
	if sess == nil {
		return c.fail("refresh", ErrUnauthenticated)
	}

	rctx, cancel := c.reqCtx(ctx)
	defer cancel()

	var (
		list []*models.DiveEntry
		err  error
	)
	if sess.IsAdministrator {
		list, err = c.repo.QueryAll(rctx)
	} else {
		list, err = c.repo.QueryOwn(rctx, sess.UserID)
	}
	if err != nil {
		return c.fail("refresh", err)
	}
	c.handleSnapshot(gen, sess, list)
	c.ok()
	return nil
}

// AddEntry creates a dive entry: optimistic insert first, then the
// repository request. A missing id is assigned client-side; a missing
// owner defaults to the session user. On failure the speculative record is
// rolled back and a typed error surfaced.
func (c *Controller) AddEntry(ctx context.Context, in *models.DiveEntry) error {
	sess, _ := c.currentSession()
	if sess == nil {
		return c.fail("add", ErrUnauthenticated)
	}

	e := in.Clone()
	if e.ID == "" {
		e.ID = models.NewEntryID()
	}
	if e.UserID == "" {
		e.UserID = sess.UserID
	}
	if e.UserID != sess.UserID && !sess.IsAdministrator {
		return c.fail("add", fmt.Errorf("%w: cannot create for another user", ErrPermissionDenied))
	}

	now := models.Timestamp(c.now())
	if e.CreatedAt == "" {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	if err := e.Validate(); err != nil {
		return c.fail("add", fmt.Errorf("%w: %v", ErrValidation, err))
	}

	c.store.ApplyOptimisticInsert(e)
	c.markPendingCreate(e.ID)

	rctx, cancel := c.reqCtx(ctx)
	stamp, err := c.repo.Create(rctx, e)
	cancel()
	deleteQueued := c.finishPendingCreate(e.ID)

	if err != nil {
		if !deleteQueued {
			c.store.Rollback(e.ID, nil)
		}
		return c.fail("add", err)
	}

	if deleteQueued {
		// The user deleted this entry while its create was in flight; the
		// outcome must be "absent" regardless of the create's success.
		dctx, dcancel := c.reqCtx(ctx)
		derr := c.repo.Delete(dctx, e.ID)
		dcancel()
		if derr != nil && !errors.Is(derr, entries.ErrNotFound) {
			return c.fail("delete", derr)
		}
		c.ok()
		return nil
	}

	// Reconcile the provisional timestamps with what the repository
	// actually assigned.
	e.CreatedAt = stamp.CreatedAt
	e.UpdatedAt = stamp.UpdatedAt
	c.store.ApplyOptimisticUpdate(e)
	c.cacheUpsert(sess, e)
	c.ok()
	return nil
}

// UpdateEntry mutates an existing entry. Ownership is immutable: the
// stored owner is kept whatever the input says, and only the owner (or an
// administrator) may update.
func (c *Controller) UpdateEntry(ctx context.Context, in *models.DiveEntry) error {
	sess, _ := c.currentSession()
	if sess == nil {
		return c.fail("update", ErrUnauthenticated)
	}

	prev, ok := c.store.Get(in.ID)
	if !ok {
		return c.fail("update", fmt.Errorf("%w: unknown entry id %q", ErrValidation, in.ID))
	}
	if prev.UserID != sess.UserID && !sess.IsAdministrator {
		return c.fail("update", fmt.Errorf("%w: not the owner", ErrPermissionDenied))
	}

	e := in.Clone()
	e.UserID = prev.UserID
	e.CreatedAt = prev.CreatedAt
	e.UpdatedAt = models.Timestamp(c.now())

	if err := e.Validate(); err != nil {
		return c.fail("update", fmt.Errorf("%w: %v", ErrValidation, err))
	}

	c.store.ApplyOptimisticUpdate(e)

	rctx, cancel := c.reqCtx(ctx)
	stamp, err := c.repo.Update(rctx, e)
	cancel()
	if err != nil {
		c.store.Rollback(e.ID, prev)
		return c.fail("update", err)
	}

	e.UpdatedAt = stamp.UpdatedAt
	c.store.ApplyOptimisticUpdate(e)
	c.cacheUpsert(sess, e)
	c.ok()
	return nil
}

// DeleteEntry removes an entry. If the entry's create request is still in
// flight, the delete is queued against it and reconciled to "absent" when
// the create settles.
func (c *Controller) DeleteEntry(ctx context.Context, id string) error {
	sess, _ := c.currentSession()
	if sess == nil {
		return c.fail("delete", ErrUnauthenticated)
	}

	if c.queueDeleteIfCreatePending(id) {
		c.store.ApplyOptimisticDelete(id)
		c.ok()
		return nil
	}

	prev, ok := c.store.Get(id)
	if !ok {
		return c.fail("delete", fmt.Errorf("%w: unknown entry id %q", ErrValidation, id))
	}
	if prev.UserID != sess.UserID && !sess.IsAdministrator {
		return c.fail("delete", fmt.Errorf("%w: not the owner", ErrPermissionDenied))
	}

	c.store.ApplyOptimisticDelete(id)

	rctx, cancel := c.reqCtx(ctx)
	err := c.repo.Delete(rctx, id)
	cancel()
	if err != nil && !errors.Is(err, entries.ErrNotFound) {
		c.store.Rollback(id, prev)
		return c.fail("delete", err)
	}
	c.cacheDelete(sess, id)
	c.ok()
	return nil
}

// ImportResult reports a bulk import outcome. Import is a sequence of
// adds, not a transaction: partial success is expected and reported.
type ImportResult struct {
	Succeeded int
	Failed    int
}

// ImportEntries dispatches one add per record. Records that fail local
// validation never reach the repository; they just count as failed.
func (c *Controller) ImportEntries(ctx context.Context, list []*models.DiveEntry) (ImportResult, error) {
	sess, _ := c.currentSession()
	if sess == nil {
		return ImportResult{}, c.fail("import", ErrUnauthenticated)
	}

	var res ImportResult
	for _, e := range list {
		if e == nil {
			res.Failed++
			continue
		}
		if err := c.AddEntry(ctx, e); err != nil {
			res.Failed++
			continue
		}
		res.Succeeded++
	}
	c.log.Info(ctx, "import finished", "succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}

// ClearAll deletes every entry in the current visibility set (own records,
// or all records for an administrator). Confirmation is the presentation
// layer's job, before this is called.
func (c *Controller) ClearAll(ctx context.Context) error {
	sess, _ := c.currentSession()
	if sess == nil {
		return c.fail("clear", ErrUnauthenticated)
	}

	var firstErr error
	for _, e := range c.store.Entries() {
		if err := c.DeleteEntry(ctx, e.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	if c.cache != nil && !sess.IsAdministrator {
		if err := c.cache.ClearUser(ctx, sess.UserID); err != nil {
			c.log.Warn(ctx, "cache clear failed", "error", err)
		}
	}
	c.ok()
	return nil
}

func (c *Controller) currentSession() (*models.Session, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.gen
}

func (c *Controller) markPendingCreate(id string) {
	c.mu.Lock()
	c.pendingCreates[id] = struct{}{}
	c.mu.Unlock()
}

// finishPendingCreate retires the pending marker and reports whether a
// delete was queued against the create while it was in flight.
func (c *Controller) finishPendingCreate(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pendingCreates, id)
	_, queued := c.deleteAfterCreate[id]
	delete(c.deleteAfterCreate, id)
	return queued
}

func (c *Controller) queueDeleteIfCreatePending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, pending := c.pendingCreates[id]; !pending {
		return false
	}
	c.deleteAfterCreate[id] = struct{}{}
	return true
}

func (c *Controller) cacheUpsert(sess *models.Session, e *models.DiveEntry) {
	if c.cache == nil || e.UserID != sess.UserID {
		return
	}
	if err := c.cache.Upsert(context.Background(), sess.UserID, e); err != nil {
		c.log.Warn(context.Background(), "cache upsert failed", "error", err)
	}
}

func (c *Controller) cacheDelete(sess *models.Session, id string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(context.Background(), sess.UserID, id); err != nil {
		c.log.Warn(context.Background(), "cache delete failed", "error", err)
	}
}

func (c *Controller) fail(op string, err error) error {
	info := &ErrorInfo{Kind: classify(err), Op: op, Message: err.Error()}
	c.mu.Lock()
	c.lastErr = info
	c.mu.Unlock()
	c.log.Error(context.Background(), "operation failed", "op", op, "kind", string(info.Kind), "error", err)
	return err
}

func (c *Controller) ok() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}
