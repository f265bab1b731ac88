// Package events runs the event workflow: every submitted name and
// description goes through the content filter, and the verdict decides
// whether the event is refused, queued for a moderator or published.
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamup/internal/metrics"
	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

// Store persists events.
type Store interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ReviewEvent(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error
	AddParticipant(ctx context.Context, eventID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error

	ListEventsByStatus(ctx context.Context, status string) ([]models.Event, error)
	SearchEventsByName(ctx context.Context, name string) ([]models.Event, error)
	ListEventsByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Event, error)
	ListEventsByType(ctx context.Context, typeID uuid.UUID) ([]models.Event, error)
	ListEventsByInterest(ctx context.Context, interestID uuid.UUID) ([]models.Event, error)
	ListEventsByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
}

// Notifier is told about review workflow transitions.
type Notifier interface {
	NotifyEventSubmitted(ctx context.Context, event *models.Event, author *models.User, verdict wordfilter.Verdict)
	NotifyEventApproved(ctx context.Context, event *models.Event, moderator *models.User)
	NotifyEventRejected(ctx context.Context, event *models.Event, moderator *models.User, reason string)
}

// Options configures a Service. Zero values pick defaults.
type Options struct {
	// MaxAge is how far in the past an event may be dated. Zero means
	// one calendar year.
	MaxAge   time.Duration
	Notifier Notifier
	Logger   *zap.Logger
}

// Outcome is the result of a create or update that passed the checks.
type Outcome struct {
	Event   *models.Event
	Verdict wordfilter.Verdict
}

// Queued reports whether the event waits for a moderator.
func (o *Outcome) Queued() bool {
	return o.Verdict.Classification == wordfilter.NeedsReview
}

// Service implements the event workflow.
type Service struct {
	store    Store
	filter   *wordfilter.Filter
	notifier Notifier
	log      *zap.Logger
	maxAge   time.Duration
	now      func() time.Time
}

// NewService creates an event service.
func NewService(store Store, filter *wordfilter.Filter, opts Options) *Service {
	s := &Service{
		store:    store,
		filter:   filter,
		notifier: opts.Notifier,
		log:      opts.Logger,
		maxAge:   opts.MaxAge,
		now:      time.Now,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Check classifies content without storing anything.
func (s *Service) Check(name, description string) wordfilter.Verdict {
	verdict := s.filter.Inspect(name, description)
	metrics.RecordContentCheck(verdict.Classification)
	return verdict
}

// screen runs the content and date checks shared by create and update.
// Forbidden words are reported before the date.
func (s *Service) screen(req *models.EventRequest, author uuid.UUID) (wordfilter.Verdict, error) {
	verdict := s.Check(req.Name, req.Description)
	if verdict.Classification == wordfilter.Blocked {
		s.log.Warn("event blocked by content filter",
			zap.Stringer("author_id", author),
			zap.String("word", verdict.Word),
			zap.String("field", string(verdict.Field)))
		return verdict, fmt.Errorf("%w: %q in %s", ErrForbiddenWords, verdict.Word, verdict.Field)
	}

	if !req.Time.After(s.oldestAllowed()) {
		s.log.Warn("event date too old",
			zap.Stringer("author_id", author),
			zap.Time("time", req.Time))
		return verdict, ErrEventTooOld
	}

	return verdict, nil
}

// oldestAllowed is the cutoff for event dates. Dates at or before it are
// refused.
func (s *Service) oldestAllowed() time.Time {
	now := s.now()
	if s.maxAge > 0 {
		return now.Add(-s.maxAge)
	}
	return now.AddDate(-1, 0, 0)
}

func statusFor(verdict wordfilter.Verdict) string {
	if verdict.Classification == wordfilter.NeedsReview {
		return models.StatusOnReview
	}
	return models.StatusPublished
}

func applyRequest(event *models.Event, req *models.EventRequest) {
	event.Name = strings.TrimSpace(req.Name)
	event.Description = strings.TrimSpace(req.Description)
	event.Place = strings.TrimSpace(req.Place)
	event.Time = req.Time
	event.EventTypeID = req.EventTypeID
	event.InterestIDs = req.InterestIDs
}

// Create screens and stores a new event authored by author.
func (s *Service) Create(ctx context.Context, author *models.User, req *models.EventRequest) (*Outcome, error) {
	s.log.Debug("create event requested", zap.Stringer("author_id", author.ID), zap.String("name", req.Name))

	verdict, err := s.screen(req, author.ID)
	if err != nil {
		return nil, err
	}

	event := &models.Event{AuthorID: author.ID, Status: statusFor(verdict)}
	applyRequest(event, req)

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	event.ParticipantIDs = []uuid.UUID{}

	s.afterSave(ctx, event, author, verdict)
	return &Outcome{Event: event, Verdict: verdict}, nil
}

// Update screens and stores new content for an existing event. Only the
// author or a moderator may update. A clean update publishes the event; a
// flagged one sends it back to review. Rejected and finished events are
// closed for edits.
func (s *Service) Update(ctx context.Context, editor *models.User, id uuid.UUID, req *models.EventRequest) (*Outcome, error) {
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(event, editor) {
		return nil, ErrNotPublished
	}
	if event.AuthorID != editor.ID && !editor.IsModerator() {
		return nil, ErrNotAllowed
	}
	switch event.Status {
	case models.StatusFinished:
		return nil, ErrEventFinished
	case models.StatusRejected:
		return nil, ErrEventRejected
	}

	verdict, err := s.screen(req, editor.ID)
	if err != nil {
		return nil, err
	}

	applyRequest(event, req)
	event.Status = statusFor(verdict)

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.afterSave(ctx, event, editor, verdict)
	return &Outcome{Event: event, Verdict: verdict}, nil
}

func (s *Service) afterSave(ctx context.Context, event *models.Event, author *models.User, verdict wordfilter.Verdict) {
	if verdict.Classification != wordfilter.NeedsReview {
		s.log.Debug("event published", zap.Stringer("event_id", event.ID))
		return
	}
	s.log.Info("event queued for review",
		zap.Stringer("event_id", event.ID),
		zap.String("word", verdict.Word),
		zap.String("field", string(verdict.Field)))
	s.notifier.NotifyEventSubmitted(ctx, event, author, verdict)
}

// Get returns an event. Events that are not public are only visible to
// their author and moderators; others get ErrNotPublished.
func (s *Service) Get(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Event, error) {
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(event, viewer) {
		return nil, ErrNotPublished
	}
	return event, nil
}

func visible(event *models.Event, viewer *models.User) bool {
	if event.IsPublished() || event.Status == models.StatusFinished {
		return true
	}
	return viewer != nil && (viewer.ID == event.AuthorID || viewer.IsModerator())
}

// Delete removes an event. Only the author or an admin may delete.
func (s *Service) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if !visible(event, user) {
		return ErrNotPublished
	}
	if event.AuthorID != user.ID && !user.IsAdmin() {
		return ErrNotAllowed
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.log.Info("event deleted", zap.Stringer("event_id", id), zap.Stringer("by", user.ID))
	return nil
}

// Join adds user to a published event. Joining twice is a no-op.
func (s *Service) Join(ctx context.Context, user *models.User, id uuid.UUID) (*models.Event, error) {
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(event, user) {
		return nil, ErrNotPublished
	}
	if !event.IsPublished() {
		return nil, ErrNotJoinable
	}
	if err := s.store.AddParticipant(ctx, id, user.ID); err != nil {
		return nil, err
	}
	return s.store.GetEventByID(ctx, id)
}

// Leave removes user from an event the user can see.
func (s *Service) Leave(ctx context.Context, user *models.User, id uuid.UUID) (*models.Event, error) {
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(event, user) {
		return nil, ErrNotPublished
	}
	if err := s.store.RemoveParticipant(ctx, id, user.ID); err != nil {
		return nil, err
	}
	return s.store.GetEventByID(ctx, id)
}

// Approve publishes an event waiting for review.
func (s *Service) Approve(ctx context.Context, moderator *models.User, id uuid.UUID) (*models.Event, error) {
	event, err := s.review(ctx, moderator, id, models.StatusPublished)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyEventApproved(ctx, event, moderator)
	return event, nil
}

// Reject refuses an event waiting for review. reason may be empty.
func (s *Service) Reject(ctx context.Context, moderator *models.User, id uuid.UUID, reason string) (*models.Event, error) {
	event, err := s.review(ctx, moderator, id, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyEventRejected(ctx, event, moderator, strings.TrimSpace(reason))
	return event, nil
}

func (s *Service) review(ctx context.Context, moderator *models.User, id uuid.UUID, status string) (*models.Event, error) {
	if !moderator.IsModerator() {
		return nil, ErrNotAllowed
	}
	event, err := s.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsOnReview() {
		return nil, ErrNotOnReview
	}
	if err := s.store.ReviewEvent(ctx, id, status, moderator.ID); err != nil {
		return nil, err
	}

	now := s.now()
	reviewer := moderator.ID
	event.Status = status
	event.ReviewedBy = &reviewer
	event.ReviewedAt = &now

	s.log.Info("event reviewed",
		zap.Stringer("event_id", id),
		zap.String("status", status),
		zap.Stringer("moderator_id", moderator.ID))
	return event, nil
}

// Published lists public events.
func (s *Service) Published(ctx context.Context) ([]models.Event, error) {
	return s.store.ListEventsByStatus(ctx, models.StatusPublished)
}

// Pending lists events waiting for review.
func (s *Service) Pending(ctx context.Context) ([]models.Event, error) {
	return s.store.ListEventsByStatus(ctx, models.StatusOnReview)
}

// SearchByName lists published events whose name contains name.
func (s *Service) SearchByName(ctx context.Context, name string) ([]models.Event, error) {
	return s.store.SearchEventsByName(ctx, strings.TrimSpace(name))
}

// ByAuthor lists an author's events. Only the author and moderators see
// the ones that are not public.
func (s *Service) ByAuthor(ctx context.Context, viewer *models.User, authorID uuid.UUID) ([]models.Event, error) {
	all, err := s.store.ListEventsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Event, 0, len(all))
	for i := range all {
		if visible(&all[i], viewer) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// ByType lists published events of an event type.
func (s *Service) ByType(ctx context.Context, typeID uuid.UUID) ([]models.Event, error) {
	return s.store.ListEventsByType(ctx, typeID)
}

// ByInterest lists published events tagged with an interest.
func (s *Service) ByInterest(ctx context.Context, interestID uuid.UUID) ([]models.Event, error) {
	return s.store.ListEventsByInterest(ctx, interestID)
}

// Joined lists events user takes part in.
func (s *Service) Joined(ctx context.Context, user *models.User) ([]models.Event, error) {
	return s.store.ListEventsByParticipant(ctx, user.ID)
}

type nopNotifier struct{}

func (nopNotifier) NotifyEventSubmitted(context.Context, *models.Event, *models.User, wordfilter.Verdict) {
}

func (nopNotifier) NotifyEventApproved(context.Context, *models.Event, *models.User) {}

func (nopNotifier) NotifyEventRejected(context.Context, *models.Event, *models.User, string) {}
