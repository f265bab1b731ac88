package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamup/internal/db"
	"teamup/internal/models"
)

// MemoryStore is an in-memory stand-in for *db.DB. It returns the same
// sentinel errors so handlers and services can be tested without Postgres.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]models.User
	events       map[uuid.UUID]models.Event
	eventTypes   map[uuid.UUID]models.EventType
	interests    map[uuid.UUID]models.Interest
	statuses     map[uuid.UUID]models.Status
	participants map[uuid.UUID][]uuid.UUID
}

// NewMemoryStore returns an empty store seeded with the workflow statuses.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		users:        make(map[uuid.UUID]models.User),
		events:       make(map[uuid.UUID]models.Event),
		eventTypes:   make(map[uuid.UUID]models.EventType),
		interests:    make(map[uuid.UUID]models.Interest),
		statuses:     make(map[uuid.UUID]models.Status),
		participants: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, name := range []string{models.StatusPublished, models.StatusOnReview, models.StatusRejected, models.StatusFinished} {
		id := uuid.New()
		m.statuses[id] = models.Status{ID: id, Name: name}
	}
	return m
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Users

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return db.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) UpsertUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	for id, u := range m.users {
		if u.Sub != "" && u.Sub == user.Sub {
			u.Email = user.Email
			u.Name = user.Name
			u.UpdatedAt = time.Now()
			m.users[id] = u
			*user = u
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	return m.CreateUser(ctx, user)
}

func (m *MemoryStore) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (m *MemoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.ID == id })
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *MemoryStore) GetUserBySub(_ context.Context, sub string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Sub != "" && u.Sub == sub })
}

func (m *MemoryStore) GetAllUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *MemoryStore) UpdateUserProfile(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[user.ID]
	if !ok {
		return db.ErrUserNotFound
	}
	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return db.ErrDuplicateEmail
		}
	}
	current.Email, current.Name, current.Login = user.Email, user.Name, user.Login
	current.City, current.Age, current.About = user.City, user.Age, user.About
	current.UpdatedAt = time.Now()
	user.UpdatedAt = current.UpdatedAt
	m.users[user.ID] = current
	return nil
}

func (m *MemoryStore) UpdateUserPassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return db.ErrUserNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *MemoryStore) UpdateUserRole(_ context.Context, id uuid.UUID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return db.ErrUserNotFound
	}
	u.Role = role
	m.users[id] = u
	return nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return db.ErrUserNotFound
	}
	delete(m.users, id)
	for eid, e := range m.events {
		if e.AuthorID == id {
			delete(m.events, eid)
			delete(m.participants, eid)
		}
	}
	return nil
}

func (m *MemoryStore) GetModeratorEmails(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var emails []string
	for _, u := range m.users {
		if u.IsModerator() && u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

// Events

func (m *MemoryStore) checkRefs(event *models.Event) error {
	if event.EventTypeID != nil {
		if _, ok := m.eventTypes[*event.EventTypeID]; !ok {
			return db.ErrUnknownReference
		}
	}
	for _, id := range event.InterestIDs {
		if _, ok := m.interests[id]; !ok {
			return db.ErrUnknownReference
		}
	}
	for _, s := range m.statuses {
		if s.Name == event.Status {
			return nil
		}
	}
	return db.ErrUnknownReference
}

func (m *MemoryStore) CreateEvent(_ context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkRefs(event); err != nil {
		return err
	}
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	stored.InterestIDs = append([]uuid.UUID{}, event.InterestIDs...)
	m.events[event.ID] = stored
	return nil
}

func (m *MemoryStore) UpdateEvent(_ context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.events[event.ID]
	if !ok {
		return db.ErrEventNotFound
	}
	if err := m.checkRefs(event); err != nil {
		return err
	}
	current.Name, current.Description, current.Place = event.Name, event.Description, event.Place
	current.Time, current.EventTypeID, current.Status = event.Time, event.EventTypeID, event.Status
	current.InterestIDs = append([]uuid.UUID{}, event.InterestIDs...)
	current.UpdatedAt = time.Now()
	event.UpdatedAt = current.UpdatedAt
	m.events[event.ID] = current
	return nil
}

func (m *MemoryStore) eventCopy(e models.Event) models.Event {
	e.InterestIDs = append([]uuid.UUID{}, e.InterestIDs...)
	e.ParticipantIDs = append([]uuid.UUID{}, m.participants[e.ID]...)
	return e
}

func (m *MemoryStore) GetEventByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, db.ErrEventNotFound
	}
	e = m.eventCopy(e)
	return &e, nil
}

func (m *MemoryStore) DeleteEvent(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return db.ErrEventNotFound
	}
	delete(m.events, id)
	delete(m.participants, id)
	return nil
}

func (m *MemoryStore) ReviewEvent(_ context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.Status != models.StatusOnReview {
		return db.ErrEventNotFound
	}
	now := time.Now()
	e.Status = status
	e.ReviewedBy = &reviewerID
	e.ReviewedAt = &now
	m.events[id] = e
	return nil
}

func (m *MemoryStore) AddParticipant(_ context.Context, eventID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; !ok {
		return db.ErrEventNotFound
	}
	for _, id := range m.participants[eventID] {
		if id == userID {
			return nil
		}
	}
	m.participants[eventID] = append(m.participants[eventID], userID)
	return nil
}

func (m *MemoryStore) RemoveParticipant(_ context.Context, eventID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.participants[eventID]
	for i, id := range ids {
		if id == userID {
			m.participants[eventID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) listEvents(match func(models.Event) bool) []models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Event{}
	for _, e := range m.events {
		if match(e) {
			out = append(out, m.eventCopy(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func (m *MemoryStore) ListEventsByStatus(_ context.Context, status string) ([]models.Event, error) {
	return m.listEvents(func(e models.Event) bool { return e.Status == status }), nil
}

func (m *MemoryStore) SearchEventsByName(_ context.Context, name string) ([]models.Event, error) {
	needle := strings.ToLower(name)
	return m.listEvents(func(e models.Event) bool {
		return e.IsPublished() && strings.Contains(strings.ToLower(e.Name), needle)
	}), nil
}

func (m *MemoryStore) ListEventsByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Event, error) {
	return m.listEvents(func(e models.Event) bool { return e.AuthorID == authorID }), nil
}

func (m *MemoryStore) ListEventsByType(_ context.Context, typeID uuid.UUID) ([]models.Event, error) {
	return m.listEvents(func(e models.Event) bool {
		return e.IsPublished() && e.EventTypeID != nil && *e.EventTypeID == typeID
	}), nil
}

func (m *MemoryStore) ListEventsByInterest(_ context.Context, interestID uuid.UUID) ([]models.Event, error) {
	return m.listEvents(func(e models.Event) bool {
		if !e.IsPublished() {
			return false
		}
		for _, id := range e.InterestIDs {
			if id == interestID {
				return true
			}
		}
		return false
	}), nil
}

func (m *MemoryStore) ListEventsByParticipant(_ context.Context, userID uuid.UUID) ([]models.Event, error) {
	m.mu.Lock()
	joined := make(map[uuid.UUID]bool)
	for eid, ids := range m.participants {
		for _, id := range ids {
			if id == userID {
				joined[eid] = true
			}
		}
	}
	m.mu.Unlock()
	return m.listEvents(func(e models.Event) bool { return joined[e.ID] }), nil
}

func (m *MemoryStore) FinishPastEvents(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.events {
		if e.IsPublished() && e.Time.Before(cutoff) {
			e.Status = models.StatusFinished
			m.events[id] = e
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountEventsByStatus(context.Context) ([]models.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64)
	for _, s := range m.statuses {
		counts[s.Name] = 0
	}
	for _, e := range m.events {
		counts[e.Status]++
	}
	out := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// Catalogs

func (m *MemoryStore) ListEventTypes(context.Context) ([]models.EventType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.EventType, 0, len(m.eventTypes))
	for _, t := range m.eventTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetEventType(_ context.Context, id uuid.UUID) (*models.EventType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.eventTypes[id]
	if !ok {
		return nil, db.ErrEventTypeNotFound
	}
	return &t, nil
}

func (m *MemoryStore) CreateEventType(_ context.Context, t *models.EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.eventTypes {
		if existing.Name == t.Name {
			return db.ErrDuplicateName
		}
	}
	t.ID = uuid.New()
	m.eventTypes[t.ID] = *t
	return nil
}

func (m *MemoryStore) UpdateEventType(_ context.Context, t *models.EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.eventTypes[t.ID]; !ok {
		return db.ErrEventTypeNotFound
	}
	for id, existing := range m.eventTypes {
		if id != t.ID && existing.Name == t.Name {
			return db.ErrDuplicateName
		}
	}
	m.eventTypes[t.ID] = *t
	return nil
}

func (m *MemoryStore) DeleteEventType(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.eventTypes[id]; !ok {
		return db.ErrEventTypeNotFound
	}
	delete(m.eventTypes, id)
	for eid, e := range m.events {
		if e.EventTypeID != nil && *e.EventTypeID == id {
			e.EventTypeID = nil
			m.events[eid] = e
		}
	}
	return nil
}

func (m *MemoryStore) ListInterests(context.Context) ([]models.Interest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Interest, 0, len(m.interests))
	for _, i := range m.interests {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *MemoryStore) GetInterest(_ context.Context, id uuid.UUID) (*models.Interest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.interests[id]
	if !ok {
		return nil, db.ErrInterestNotFound
	}
	return &i, nil
}

func (m *MemoryStore) CreateInterest(_ context.Context, i *models.Interest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.interests {
		if existing.Title == i.Title {
			return db.ErrDuplicateName
		}
	}
	i.ID = uuid.New()
	m.interests[i.ID] = *i
	return nil
}

func (m *MemoryStore) UpdateInterest(_ context.Context, i *models.Interest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interests[i.ID]; !ok {
		return db.ErrInterestNotFound
	}
	for id, existing := range m.interests {
		if id != i.ID && existing.Title == i.Title {
			return db.ErrDuplicateName
		}
	}
	m.interests[i.ID] = *i
	return nil
}

func (m *MemoryStore) DeleteInterest(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interests[id]; !ok {
		return db.ErrInterestNotFound
	}
	delete(m.interests, id)
	return nil
}

func (m *MemoryStore) ListStatuses(context.Context) ([]models.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Status, 0, len(m.statuses))
	for _, s := range m.statuses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetStatus(_ context.Context, id uuid.UUID) (*models.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[id]
	if !ok {
		return nil, db.ErrStatusNotFound
	}
	return &s, nil
}

func (m *MemoryStore) CreateStatus(_ context.Context, s *models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.statuses {
		if existing.Name == s.Name {
			return db.ErrDuplicateName
		}
	}
	s.ID = uuid.New()
	m.statuses[s.ID] = *s
	return nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, s *models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.statuses[s.ID]
	if !ok {
		return db.ErrStatusNotFound
	}
	if db.IsBuiltinStatus(current.Name) || db.IsBuiltinStatus(s.Name) {
		return db.ErrStatusProtected
	}
	for id, existing := range m.statuses {
		if id != s.ID && existing.Name == s.Name {
			return db.ErrDuplicateName
		}
	}
	m.statuses[s.ID] = *s
	for eid, e := range m.events {
		if e.Status == current.Name {
			e.Status = s.Name
			m.events[eid] = e
		}
	}
	return nil
}

func (m *MemoryStore) DeleteStatus(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.statuses[id]
	if !ok {
		return db.ErrStatusNotFound
	}
	if db.IsBuiltinStatus(current.Name) {
		return db.ErrStatusProtected
	}
	for _, e := range m.events {
		if e.Status == current.Name {
			return db.ErrStatusInUse
		}
	}
	delete(m.statuses, id)
	return nil
}
