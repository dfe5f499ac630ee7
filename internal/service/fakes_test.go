package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grievance-service/internal/ai"
	"grievance-service/internal/model"
	"grievance-service/internal/repository"
)

// fakeStore is an in-memory GrievanceStore. ApplyStatus checks that the
// entry's old status matches the stored status at apply time, so tests can
// detect lost-update races the way a serialization violation would surface
// in production.
type fakeStore struct {
	mu        sync.Mutex
	byRef     map[string]*model.Grievance
	history   map[uuid.UUID][]model.StatusHistoryEntry
	nextRef   int
	staleSeen bool
	createErr error
	applyErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byRef:   make(map[string]*model.Grievance),
		history: make(map[uuid.UUID][]model.StatusHistoryEntry),
	}
}

func (f *fakeStore) Create(ctx context.Context, grievance *model.Grievance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextRef++
	grievance.ID = uuid.New()
	grievance.Ref = fmt.Sprintf("GRV-%06d", f.nextRef)
	grievance.CreatedAt = time.Now()
	grievance.UpdatedAt = grievance.CreatedAt
	stored := *grievance
	f.byRef[grievance.Ref] = &stored
	return nil
}

func (f *fakeStore) GetByRef(ctx context.Context, ref string) (*model.Grievance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byRef[ref]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Grievance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Grievance
	for _, g := range f.byRef {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByDepartment(ctx context.Context, filter repository.GrievanceFilter) ([]model.Grievance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Grievance
	for _, g := range f.byRef {
		if filter.Department != "" && g.Department != filter.Department {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeStore) ApplyStatus(ctx context.Context, grievanceID uuid.UUID, newStatus model.Status, resolutionNote, proofURL *string, entry *model.StatusHistoryEntry) error {
	// Widen the race window so unserialized callers would actually collide.
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	for _, g := range f.byRef {
		if g.ID != grievanceID {
			continue
		}
		if entry.OldStatus == nil || *entry.OldStatus != g.Status {
			f.staleSeen = true
		}
		g.Status = newStatus
		if resolutionNote != nil {
			g.ResolutionNote = resolutionNote
		}
		if proofURL != nil {
			g.ProofURL = proofURL
		}
		g.UpdatedAt = time.Now()
		stored := *entry
		stored.CreatedAt = time.Now()
		f.history[grievanceID] = append(f.history[grievanceID], stored)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStore) historyFor(grievanceID uuid.UUID) []model.StatusHistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.StatusHistoryEntry(nil), f.history[grievanceID]...)
}

func (f *fakeStore) current(ref string) model.Grievance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byRef[ref]
}

type fakeLedger struct {
	store *fakeStore
}

func (f *fakeLedger) ListFor(ctx context.Context, grievanceID uuid.UUID) ([]model.StatusHistoryEntry, error) {
	return f.store.historyFor(grievanceID), nil
}

type fakeVerifier struct {
	mu      sync.Mutex
	verdict ai.Verdict
	err     error
	calls   int
}

func (f *fakeVerifier) VerifyClosure(ctx context.Context, description, resolutionNote, proofURL string) (ai.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.verdict, f.err
}

func (f *fakeVerifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls int
	last  model.Status
}

func (f *fakeNotifier) Notify(ctx context.Context, grievance *model.Grievance, newStatus model.Status, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = newStatus
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClassifier returns canned answers, or errors when failing is set.
type fakeClassifier struct {
	structured string
	department model.Department
	priority   model.Priority
	failing    bool
}

func (f *fakeClassifier) StructureGrievance(ctx context.Context, text, city, area string) (string, error) {
	if f.failing {
		return "", fmt.Errorf("ai unreachable")
	}
	return f.structured, nil
}

func (f *fakeClassifier) ClassifyDepartment(ctx context.Context, text string) (model.Department, error) {
	if f.failing {
		return "", fmt.Errorf("ai unreachable")
	}
	return f.department, nil
}

func (f *fakeClassifier) AssignPriority(ctx context.Context, text string) (model.Priority, error) {
	if f.failing {
		return "", fmt.Errorf("ai unreachable")
	}
	return f.priority, nil
}
