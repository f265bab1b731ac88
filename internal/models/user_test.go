package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin user", RoleAdmin, true},
		{"moderator", RoleModerator, false},
		{"regular user", RoleUser, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.IsAdmin(); got != tt.expected {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_IsModerator(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin user", RoleAdmin, true},
		{"moderator", RoleModerator, true},
		{"regular user", RoleUser, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.IsModerator(); got != tt.expected {
				t.Errorf("IsModerator() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_HasRole(t *testing.T) {
	user := &User{Role: RoleModerator}

	if !user.HasRole(RoleUser, RoleModerator) {
		t.Error("HasRole(user, moderator) = false, want true")
	}
	if user.HasRole(RoleAdmin) {
		t.Error("HasRole(admin) = true, want false")
	}
	if user.HasRole() {
		t.Error("HasRole() = true, want false")
	}
}

func TestUser_HomePath(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{RoleAdmin, "/admin"},
		{RoleModerator, "/moderator"},
		{RoleUser, "/user"},
		{"", "/user"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.HomePath(); got != tt.want {
				t.Errorf("HomePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range Roles {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "root", "ADMIN", "org_mod"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestEvent_HasParticipant(t *testing.T) {
	joined := uuid.New()
	other := uuid.New()
	event := &Event{ParticipantIDs: []uuid.UUID{joined}}

	if !event.HasParticipant(joined) {
		t.Error("HasParticipant(joined) = false, want true")
	}
	if event.HasParticipant(other) {
		t.Error("HasParticipant(other) = true, want false")
	}
}

func TestEvent_StatusPredicates(t *testing.T) {
	tests := []struct {
		status    string
		published bool
		onReview  bool
	}{
		{StatusPublished, true, false},
		{StatusOnReview, false, true},
		{StatusRejected, false, false},
		{StatusFinished, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			e := &Event{Status: tt.status}
			if got := e.IsPublished(); got != tt.published {
				t.Errorf("IsPublished() = %v, want %v", got, tt.published)
			}
			if got := e.IsOnReview(); got != tt.onReview {
				t.Errorf("IsOnReview() = %v, want %v", got, tt.onReview)
			}
		})
	}
}
