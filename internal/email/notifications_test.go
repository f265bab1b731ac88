package email

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"teamup/internal/config"
	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

type fakeRecipients struct {
	moderators []string
	modErr     error
	users      map[uuid.UUID]*models.User
}

func (f *fakeRecipients) GetModeratorEmails(context.Context) ([]string, error) {
	return f.moderators, f.modErr
}

func (f *fakeRecipients) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

// capture replaces the transport and returns a channel of recipient lists.
func capture(n *Notifier) <-chan []string {
	sent := make(chan []string, 4)
	n.service.deliver = func(to []string, _ []byte) error {
		sent <- to
		return nil
	}
	return sent
}

func expectSent(t *testing.T, sent <-chan []string, want []string) {
	t.Helper()
	select {
	case got := <-sent:
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("sent to %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("sent to %v, want %v", got, want)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no email sent")
	}
}

func expectNothingSent(t *testing.T, sent <-chan []string) {
	t.Helper()
	select {
	case got := <-sent:
		t.Fatalf("unexpected email to %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func notifierConfig() *config.Config {
	cfg := enabledConfig()
	cfg.EmailNotifyModeratorsOnSubmit = true
	cfg.EmailNotifyAuthorOnApproval = true
	cfg.EmailNotifyAuthorOnRejection = true
	return cfg
}

func TestNotifier_NotifyEventSubmitted(t *testing.T) {
	db := &fakeRecipients{moderators: []string{"mod@example.com", "admin@example.com"}}
	n := NewNotifier(notifierConfig(), db, nil)
	sent := capture(n)

	author := &models.User{Name: "Alice", Email: "alice@example.com"}
	n.NotifyEventSubmitted(context.Background(), testEvent(), author, wordfilter.Verdict{Word: "promo"})

	expectSent(t, sent, []string{"mod@example.com", "admin@example.com"})
}

func TestNotifier_NotifyEventSubmitted_Skips(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() *config.Config
		db   *fakeRecipients
	}{
		{
			name: "smtp disabled",
			cfg:  func() *config.Config { return &config.Config{EmailNotifyModeratorsOnSubmit: true} },
			db:   &fakeRecipients{moderators: []string{"mod@example.com"}},
		},
		{
			name: "toggle off",
			cfg: func() *config.Config {
				cfg := notifierConfig()
				cfg.EmailNotifyModeratorsOnSubmit = false
				return cfg
			},
			db: &fakeRecipients{moderators: []string{"mod@example.com"}},
		},
		{
			name: "no moderators",
			cfg:  notifierConfig,
			db:   &fakeRecipients{},
		},
		{
			name: "lookup fails",
			cfg:  notifierConfig,
			db:   &fakeRecipients{modErr: errors.New("db down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotifier(tt.cfg(), tt.db, nil)
			sent := capture(n)

			n.NotifyEventSubmitted(context.Background(), testEvent(), &models.User{}, wordfilter.Verdict{})

			expectNothingSent(t, sent)
		})
	}
}

func TestNotifier_NotifyEventApproved(t *testing.T) {
	author := &models.User{ID: uuid.New(), Email: "author@example.com"}
	db := &fakeRecipients{users: map[uuid.UUID]*models.User{author.ID: author}}
	n := NewNotifier(notifierConfig(), db, nil)
	sent := capture(n)

	event := testEvent()
	event.AuthorID = author.ID
	n.NotifyEventApproved(context.Background(), event, &models.User{Name: "Mod"})

	expectSent(t, sent, []string{"author@example.com"})
}

func TestNotifier_NotifyEventRejected(t *testing.T) {
	author := &models.User{ID: uuid.New(), Email: "author@example.com"}
	db := &fakeRecipients{users: map[uuid.UUID]*models.User{author.ID: author}}
	n := NewNotifier(notifierConfig(), db, nil)
	sent := capture(n)

	event := testEvent()
	event.AuthorID = author.ID
	n.NotifyEventRejected(context.Background(), event, &models.User{Name: "Mod"}, "spam")

	expectSent(t, sent, []string{"author@example.com"})
}

func TestNotifier_AuthorSkips(t *testing.T) {
	noEmail := &models.User{ID: uuid.New()}
	db := &fakeRecipients{users: map[uuid.UUID]*models.User{noEmail.ID: noEmail}}

	tests := []struct {
		name     string
		authorID uuid.UUID
	}{
		{"author without email", noEmail.ID},
		{"unknown author", uuid.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotifier(notifierConfig(), db, nil)
			sent := capture(n)

			event := testEvent()
			event.AuthorID = tt.authorID
			n.NotifyEventApproved(context.Background(), event, &models.User{})
			n.NotifyEventRejected(context.Background(), event, &models.User{}, "")

			expectNothingSent(t, sent)
		})
	}
}
