package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"grievance-service/internal/ai"
	"grievance-service/internal/model"
)

// ClosureVerifier is the AI gate consulted before a grievance may enter
// RESOLVED. A transport or service error must be treated as a rejection.
type ClosureVerifier interface {
	VerifyClosure(ctx context.Context, description, resolutionNote, proofURL string) (ai.Verdict, error)
}

// Notifier delivers a status-change message. Its outcome is advisory only.
type Notifier interface {
	Notify(ctx context.Context, grievance *model.Grievance, newStatus model.Status, note string) error
}

// WorkflowService is the single authority for accepting or rejecting status
// transitions. Nothing else writes grievance status.
type WorkflowService struct {
	grievances    GrievanceStore
	verifier      ClosureVerifier
	notifier      Notifier
	policy        TransitionPolicy
	notifyTimeout time.Duration
	log           zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewWorkflowService(
	grievances GrievanceStore,
	verifier ClosureVerifier,
	notifier Notifier,
	policy TransitionPolicy,
	notifyTimeout time.Duration,
	log zerolog.Logger,
) *WorkflowService {
	return &WorkflowService{
		grievances:    grievances,
		verifier:      verifier,
		notifier:      notifier,
		policy:        policy,
		notifyTimeout: notifyTimeout,
		log:           log,
		locks:         make(map[string]*sync.Mutex),
	}
}

type TransitionInput struct {
	Ref      string
	Target   model.Status
	Note     string
	ProofURL string
}

type TransitionResult struct {
	Grievance         *model.Grievance `json:"grievance"`
	NotificationSent  bool             `json:"notification_sent"`
	NotificationError string           `json:"notification_error,omitempty"`
}

// Transition validates and applies one status change. Transitions for the
// same grievance ref are serialized; different refs proceed independently.
// The record update and the ledger append commit as one unit, after which
// the citizen is notified best-effort.
func (s *WorkflowService) Transition(ctx context.Context, principal model.Principal, input TransitionInput) (*TransitionResult, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if !input.Target.Valid() {
		return nil, ErrInvalidStatus
	}

	lock := s.lockFor(input.Ref)
	lock.Lock()
	defer lock.Unlock()

	grievance, err := s.grievances.GetByRef(ctx, input.Ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if grievance.Status == input.Target {
		return nil, ErrNoOpTransition
	}
	if !s.policy.Allows(grievance.Status, input.Target) {
		return nil, ErrTransitionNotAllowed
	}

	note := strings.TrimSpace(input.Note)
	var resolutionNote, proofURL *string

	if input.Target == model.StatusResolved {
		proof := strings.TrimSpace(input.ProofURL)
		if proof == "" && grievance.ProofURL != nil {
			proof = *grievance.ProofURL
		}
		if note == "" || proof == "" {
			return nil, ErrMissingEvidence
		}

		verdict, verr := s.verifier.VerifyClosure(ctx, grievance.Description, note, proof)
		if verr != nil {
			s.log.Warn().Err(verr).Str("ref", grievance.Ref).Msg("closure verification unreachable, rejecting")
			return nil, fmt.Errorf("%w: service_unavailable", ErrVerificationRejected)
		}
		if !verdict.Approved {
			return nil, fmt.Errorf("%w: %s", ErrVerificationRejected, verdict.Reason)
		}

		resolutionNote = &note
		if strings.TrimSpace(input.ProofURL) != "" {
			proofURL = &proof
		}
	}

	oldStatus := grievance.Status
	entry := &model.StatusHistoryEntry{
		GrievanceID: grievance.ID,
		OldStatus:   &oldStatus,
		NewStatus:   input.Target,
		Note:        note,
		ActorID:     &principal.UserID,
	}

	if err := s.grievances.ApplyStatus(ctx, grievance.ID, input.Target, resolutionNote, proofURL, entry); err != nil {
		return nil, err
	}

	grievance.Status = input.Target
	if resolutionNote != nil {
		grievance.ResolutionNote = resolutionNote
	}
	if proofURL != nil {
		grievance.ProofURL = proofURL
	}

	s.log.Info().
		Str("ref", grievance.Ref).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(input.Target)).
		Stringer("actor", principal.UserID).
		Msg("status transition applied")

	result := &TransitionResult{Grievance: grievance}
	s.dispatchNotification(ctx, grievance, input.Target, note, result)
	return result, nil
}

// dispatchNotification runs after commit. The notification context is
// detached from the request's cancellation so an impatient client cannot
// abort a send already in flight.
func (s *WorkflowService) dispatchNotification(ctx context.Context, grievance *model.Grievance, newStatus model.Status, note string, result *TransitionResult) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(nctx, grievance, newStatus, note); err != nil {
		s.log.Warn().Err(err).Str("ref", grievance.Ref).Msg("status notification failed")
		result.NotificationError = err.Error()
		return
	}
	result.NotificationSent = true
}

func (s *WorkflowService) lockFor(ref string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[ref]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[ref] = lock
	}
	return lock
}
