// Package review tracks candidates awaiting human resolution as an
// explicit state machine. Claims are compare-and-swap on item state, so
// exactly one session owns an item at a time and concurrent or
// crash-recovered sessions detect races through domain.ErrStaleItem.
package review

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/ports"
)

type Queue struct {
	mu    sync.Mutex
	items map[string]*domain.ReviewItem
	store ports.ReviewStore
	now   func() time.Time
}

// NewQueue restores queue state from the store. Items left InProgress by
// a crashed session are released back to Pending.
func NewQueue(ctx context.Context, store ports.ReviewStore) (*Queue, error) {
	q := &Queue{
		items: make(map[string]*domain.ReviewItem),
		store: store,
		now:   time.Now,
	}
	if store == nil {
		return q, nil
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load review state: %w", err)
	}
	for _, it := range loaded {
		if it.Status == domain.ReviewInProgress {
			it.Status = domain.ReviewPending
			it.ClaimedAt = time.Time{}
		}
		q.items[it.ID] = it
	}
	return q, nil
}

// WithClock overrides the queue's clock; used by tests.
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// Enqueue registers a ReviewRequired decision as a Pending item.
func (q *Queue) Enqueue(ctx context.Context, rr domain.ReviewRequired) (*domain.ReviewItem, error) {
	item := &domain.ReviewItem{
		ID:         uuid.NewString(),
		Candidate:  rr.Candidate,
		BestMatch:  rr.BestMatch,
		Reason:     rr.Reason,
		Status:     domain.ReviewPending,
		EnqueuedAt: q.now(),
	}

	q.mu.Lock()
	q.items[item.ID] = item
	err := q.persistLocked(ctx)
	if err != nil {
		delete(q.items, item.ID)
	}
	q.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return item, nil
}

// NextPending returns the oldest Pending item without claiming it, or
// nil when the queue has none.
func (q *Queue) NextPending(_ context.Context) (*domain.ReviewItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var oldest *domain.ReviewItem
	for _, it := range q.items {
		if it.Status != domain.ReviewPending {
			continue
		}
		if oldest == nil || it.EnqueuedAt.Before(oldest.EnqueuedAt) {
			oldest = it
		}
	}
	if oldest == nil {
		return nil, nil
	}
	cp := *oldest
	return &cp, nil
}

// Claim transitions Pending -> InProgress atomically. Claiming an item
// that is InProgress or Resolved fails with domain.ErrStaleItem.
func (q *Queue) Claim(ctx context.Context, itemID string) (*domain.ReviewItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, ok := q.items[itemID]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "claim review item", fmt.Errorf("item %s", itemID))
	}
	if it.Status != domain.ReviewPending {
		return nil, domain.WrapError(domain.ErrStaleItem, "claim review item",
			fmt.Errorf("item %s is %s", itemID, it.Status))
	}
	it.Status = domain.ReviewInProgress
	it.ClaimedAt = q.now()
	if err := q.persistLocked(ctx); err != nil {
		it.Status = domain.ReviewPending
		it.ClaimedAt = time.Time{}
		return nil, err
	}
	cp := *it
	return &cp, nil
}

// Resolve transitions InProgress -> Resolved, recording the chosen type.
func (q *Queue) Resolve(ctx context.Context, itemID, typeID string, newType bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, err := q.inProgressLocked(itemID, "resolve review item")
	if err != nil {
		return err
	}
	it.Status = domain.ReviewResolved
	it.ResolvedAt = q.now()
	it.ResolvedAs = typeID
	it.NewType = newType
	return q.persistLocked(ctx)
}

// Defer returns an InProgress item to Pending (operator skipped it).
func (q *Queue) Defer(ctx context.Context, itemID string) error {
	return q.release(ctx, itemID, "defer review item")
}

// Release returns an InProgress item to Pending on cancellation, so a
// shutdown never leaves an item permanently claimed.
func (q *Queue) Release(ctx context.Context, itemID string) error {
	return q.release(ctx, itemID, "release review item")
}

func (q *Queue) release(ctx context.Context, itemID, op string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, err := q.inProgressLocked(itemID, op)
	if err != nil {
		return err
	}
	it.Status = domain.ReviewPending
	it.ClaimedAt = time.Time{}
	return q.persistLocked(ctx)
}

// Get returns a copy of the item by id.
func (q *Queue) Get(itemID string) (*domain.ReviewItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	it, ok := q.items[itemID]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get review item", fmt.Errorf("item %s", itemID))
	}
	cp := *it
	return &cp, nil
}

// Summary returns item counts by status.
func (q *Queue) Summary() map[domain.ReviewStatus]int {
	q.mu.Lock()
	defer q.mu.Unlock()

	counts := map[domain.ReviewStatus]int{
		domain.ReviewPending:    0,
		domain.ReviewInProgress: 0,
		domain.ReviewResolved:   0,
	}
	for _, it := range q.items {
		counts[it.Status]++
	}
	return counts
}

// Depth returns the number of Pending items; exported for the queue
// depth gauge.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, it := range q.items {
		if it.Status == domain.ReviewPending {
			n++
		}
	}
	return n
}

func (q *Queue) inProgressLocked(itemID, op string) (*domain.ReviewItem, error) {
	it, ok := q.items[itemID]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, op, fmt.Errorf("item %s", itemID))
	}
	if it.Status != domain.ReviewInProgress {
		return nil, domain.WrapError(domain.ErrStaleItem, op,
			fmt.Errorf("item %s is %s", itemID, it.Status))
	}
	return it, nil
}

func (q *Queue) persistLocked(ctx context.Context) error {
	if q.store == nil {
		return nil
	}
	items := make([]*domain.ReviewItem, 0, len(q.items))
	for _, it := range q.items {
		cp := *it
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].EnqueuedAt.Before(items[j].EnqueuedAt) })
	if err := q.store.Save(ctx, items); err != nil {
		return fmt.Errorf("persist review state: %w", err)
	}
	return nil
}
