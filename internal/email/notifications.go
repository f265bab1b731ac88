package email

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamup/internal/config"
	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

// Recipients looks up who should receive a notification.
type Recipients interface {
	GetModeratorEmails(ctx context.Context) ([]string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier sends email about the event review workflow.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	db        Recipients
	log       *zap.Logger
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db Recipients, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		service:   NewService(cfg, logger),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
		log:       logger.Named("notifier"),
	}
}

// NotifyEventSubmitted tells moderators that an event waits for review.
func (n *Notifier) NotifyEventSubmitted(ctx context.Context, event *models.Event, author *models.User, verdict wordfilter.Verdict) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyModeratorsOnSubmit {
		return
	}

	emails, err := n.db.GetModeratorEmails(ctx)
	if err != nil {
		n.log.Error("failed to get moderator emails", zap.Error(err))
		return
	}
	if len(emails) == 0 {
		n.log.Warn("no moderators to notify", zap.Stringer("event_id", event.ID))
		return
	}

	subject, htmlBody, textBody := n.templates.EventSubmittedForReview(event, author, verdict)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}

// NotifyEventApproved tells the author their event was published.
func (n *Notifier) NotifyEventApproved(ctx context.Context, event *models.Event, moderator *models.User) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyAuthorOnApproval {
		return
	}

	author := n.author(ctx, event)
	if author == nil {
		return
	}

	subject, htmlBody, textBody := n.templates.EventApproved(event, moderator)
	n.service.SendAsync([]string{author.Email}, subject, htmlBody, textBody)
}

// NotifyEventRejected tells the author their event was rejected.
func (n *Notifier) NotifyEventRejected(ctx context.Context, event *models.Event, moderator *models.User, reason string) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyAuthorOnRejection {
		return
	}

	author := n.author(ctx, event)
	if author == nil {
		return
	}

	subject, htmlBody, textBody := n.templates.EventRejected(event, moderator, reason)
	n.service.SendAsync([]string{author.Email}, subject, htmlBody, textBody)
}

func (n *Notifier) author(ctx context.Context, event *models.Event) *models.User {
	author, err := n.db.GetUserByID(ctx, event.AuthorID)
	if err != nil {
		n.log.Error("failed to get event author", zap.Stringer("event_id", event.ID), zap.Error(err))
		return nil
	}
	if author.Email == "" {
		return nil
	}
	return author
}
