package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/autofiler/autofiler/internal/core/classify"
	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/route"
)

type reviewFixture struct {
	*processFixture
	uc *ReviewUseCase
}

func newReviewFixture(t *testing.T, types ...*domain.DocumentType) *reviewFixture {
	t.Helper()

	ex := &extractorFake{
		text:       "nothing recognizable",
		extraction: domain.Extraction{Success: true},
	}
	pf := newProcessFixture(t, ex, types...)
	router := route.New("/filed", 0.75, 1, route.NamingDefaults{})
	return &reviewFixture{
		processFixture: pf,
		uc: NewReviewUseCase(
			pf.queue, pf.registry, router, pf.ledger, pf.uc,
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		),
	}
}

// enqueue runs a low-confidence file through the pipeline so a pending
// review item exists.
func (f *reviewFixture) enqueue(t *testing.T, path string) *domain.ReviewItem {
	t.Helper()
	if _, err := f.processFixture.uc.OnNewFile(context.Background(), path); err != nil {
		t.Fatalf("OnNewFile() error = %v", err)
	}
	item, err := f.uc.NextPendingItem(context.Background())
	if err != nil {
		t.Fatalf("NextPendingItem() error = %v", err)
	}
	return item
}

func TestResolveAssignFilesClaimedItem(t *testing.T) {
	f := newReviewFixture(t, w2Type())
	item := f.enqueue(t, "/intake/mystery.pdf")

	if _, err := f.uc.Claim(context.Background(), item.ID); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	filing, err := f.uc.ResolveAssign(context.Background(), item.ID, "w2")
	if err != nil {
		t.Fatalf("ResolveAssign() error = %v", err)
	}
	if filing == nil || filing.Destination == "" {
		t.Fatalf("expected filing result, got %+v", filing)
	}

	got, err := f.queue.Get(item.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != domain.ReviewResolved || got.ResolvedAs != "w2" {
		t.Fatalf("resolved item = %+v", got)
	}
	if f.ledger.resolved["/intake/mystery.pdf"] != "w2" {
		t.Fatalf("ledger must record the manual resolution")
	}
	if len(f.sidecars.written) != 1 {
		t.Fatalf("resolution must write a sidecar")
	}
	if f.sidecars.written[0].ReviewInfo["item_id"] != item.ID {
		t.Fatalf("sidecar review info = %+v", f.sidecars.written[0].ReviewInfo)
	}
}

func TestResolveAssignWithoutClaimFailsStale(t *testing.T) {
	f := newReviewFixture(t, w2Type())
	item := f.enqueue(t, "/intake/mystery.pdf")

	_, err := f.uc.ResolveAssign(context.Background(), item.ID, "w2")
	if !domain.IsKind(err, domain.ErrStaleItem) {
		t.Fatalf("expected ErrStaleItem for unclaimed item, got %v", err)
	}
}

func TestResolveAssignUnknownTypeFails(t *testing.T) {
	f := newReviewFixture(t, w2Type())
	item := f.enqueue(t, "/intake/mystery.pdf")
	if _, err := f.uc.Claim(context.Background(), item.ID); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	_, err := f.uc.ResolveAssign(context.Background(), item.ID, "nope")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got, _ := f.queue.Get(item.ID)
	if got.Status != domain.ReviewInProgress {
		t.Fatalf("failed resolution must keep the claim, status = %s", got.Status)
	}
}

func TestResolveCreateRegistersTypeAndMakesItVisible(t *testing.T) {
	f := newReviewFixture(t, w2Type())
	item := f.enqueue(t, "/intake/bill.pdf")
	if _, err := f.uc.Claim(context.Background(), item.ID); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	filing, err := f.uc.ResolveCreate(context.Background(), item.ID, domain.DocumentType{
		ID:                   "utility_bill",
		ContainerFormats:     []string{".pdf"},
		ContentKeywords:      []string{"amount due"},
		KeywordThreshold:     1,
		DestinationSubfolder: "Utilities",
		NamingPattern:        "{original_name}",
	})
	if err != nil {
		t.Fatalf("ResolveCreate() error = %v", err)
	}
	if filing == nil {
		t.Fatalf("expected filing result")
	}

	if _, err := f.registry.Get("utility_bill"); err != nil {
		t.Fatalf("created type must be registered, got %v", err)
	}
	// The very next classification pass sees the new type.
	cl := classify.New(domain.SignalWeights{domain.SignalKeyword: 1}, nil)
	best := cl.BestMatch(domain.Candidate{
		Extension:  ".pdf",
		Text:       "amount due: 42.00",
		Extraction: domain.Extraction{Success: true},
	}, f.registry.Snapshot())
	if best == nil || best.TypeID != "utility_bill" {
		t.Fatalf("new type not visible to classification, best = %+v", best)
	}

	got, _ := f.queue.Get(item.ID)
	if !got.NewType {
		t.Fatalf("resolution must mark the item as resolved with a new type")
	}
}

func TestReleaseReturnsClaimToPending(t *testing.T) {
	f := newReviewFixture(t, w2Type())
	item := f.enqueue(t, "/intake/mystery.pdf")
	if _, err := f.uc.Claim(context.Background(), item.ID); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	if err := f.uc.Release(context.Background(), item.ID); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	summary, err := f.uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary[domain.ReviewPending] != 1 || summary[domain.ReviewInProgress] != 0 {
		t.Fatalf("summary after release = %v", summary)
	}
}

func TestNextPendingItemOnEmptyQueueIsNotFound(t *testing.T) {
	f := newReviewFixture(t, w2Type())
	_, err := f.uc.NextPendingItem(context.Background())
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty queue, got %v", err)
	}
}
