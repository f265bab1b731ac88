package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
)

// eventColumns is the standard column list for event queries. Interests and
// participants are aggregated so a single row describes the whole event.
const eventColumns = `e.id, e.name, e.description, e.place, e.time, e.event_type_id, e.author_id, e.status,
	e.reviewed_by, e.reviewed_at, e.created_at, e.updated_at,
	COALESCE((SELECT array_agg(ei.interest_id) FROM event_interests ei WHERE ei.event_id = e.id), '{}'),
	COALESCE((SELECT array_agg(ep.user_id ORDER BY ep.joined_at) FROM event_participants ep WHERE ep.event_id = e.id), '{}')`

// scanEvent scans a row into an Event struct.
func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Place,
		&event.Time,
		&event.EventTypeID,
		&event.AuthorID,
		&event.Status,
		&event.ReviewedBy,
		&event.ReviewedAt,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.InterestIDs,
		&event.ParticipantIDs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// scanEvents scans multiple rows into a slice of Events.
func scanEvents(rows pgx.Rows) ([]models.Event, error) {
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

func (d *DB) queryEvents(ctx context.Context, where string, args ...any) ([]models.Event, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+eventColumns+` FROM events e `+where, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// CreateEvent inserts an event and its interests in one transaction.
func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	err := pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO events (name, description, place, time, event_type_id, author_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRow(ctx, query,
			event.Name,
			event.Description,
			event.Place,
			event.Time,
			event.EventTypeID,
			event.AuthorID,
			event.Status,
		).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return err
		}
		return replaceInterests(ctx, tx, event.ID, event.InterestIDs)
	})
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrUnknownReference
	}
	return err
}

// UpdateEvent updates the editable fields, status and interests of an event.
func (d *DB) UpdateEvent(ctx context.Context, event *models.Event) error {
	err := pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		query := `
			UPDATE events
			SET name = $1, description = $2, place = $3, time = $4, event_type_id = $5, status = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at
		`
		err := tx.QueryRow(ctx, query,
			event.Name,
			event.Description,
			event.Place,
			event.Time,
			event.EventTypeID,
			event.Status,
			event.ID,
		).Scan(&event.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}
		if err != nil {
			return err
		}
		return replaceInterests(ctx, tx, event.ID, event.InterestIDs)
	})
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrUnknownReference
	}
	return err
}

func replaceInterests(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, interestIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM event_interests WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	if len(interestIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO event_interests (event_id, interest_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`, eventID, interestIDs)
	return err
}

// GetEventByID retrieves an event by its UUID.
func (d *DB) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(d.Pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
}

// DeleteEvent deletes an event by ID.
func (d *DB) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListEventsByStatus returns events in a status, soonest first.
func (d *DB) ListEventsByStatus(ctx context.Context, status string) ([]models.Event, error) {
	return d.queryEvents(ctx, `WHERE e.status = $1 ORDER BY e.time ASC`, status)
}

// SearchEventsByName returns published events whose name contains name,
// case-insensitively.
func (d *DB) SearchEventsByName(ctx context.Context, name string) ([]models.Event, error) {
	return d.queryEvents(ctx,
		`WHERE e.status = $1 AND e.name ILIKE '%' || $2 || '%' ORDER BY e.time ASC`,
		models.StatusPublished, name)
}

// ListEventsByAuthor returns every event created by a user, newest first.
func (d *DB) ListEventsByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Event, error) {
	return d.queryEvents(ctx, `WHERE e.author_id = $1 ORDER BY e.created_at DESC`, authorID)
}

// ListEventsByType returns published events of an event type.
func (d *DB) ListEventsByType(ctx context.Context, typeID uuid.UUID) ([]models.Event, error) {
	return d.queryEvents(ctx,
		`WHERE e.status = $1 AND e.event_type_id = $2 ORDER BY e.time ASC`,
		models.StatusPublished, typeID)
}

// ListEventsByInterest returns published events tagged with an interest.
func (d *DB) ListEventsByInterest(ctx context.Context, interestID uuid.UUID) ([]models.Event, error) {
	return d.queryEvents(ctx, `
		WHERE e.status = $1
		  AND EXISTS (SELECT 1 FROM event_interests ei WHERE ei.event_id = e.id AND ei.interest_id = $2)
		ORDER BY e.time ASC`,
		models.StatusPublished, interestID)
}

// ListEventsByParticipant returns events a user has joined.
func (d *DB) ListEventsByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	return d.queryEvents(ctx, `
		WHERE EXISTS (SELECT 1 FROM event_participants ep WHERE ep.event_id = e.id AND ep.user_id = $1)
		ORDER BY e.time ASC`,
		userID)
}

// ReviewEvent moves an on-review event to status and records the reviewer.
// Returns ErrEventNotFound if the event does not exist or is not on review.
func (d *DB) ReviewEvent(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error {
	query := `
		UPDATE events
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	result, err := d.Pool.Exec(ctx, query, status, reviewerID, id, models.StatusOnReview)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// AddParticipant adds a user to an event. Joining twice is a no-op.
func (d *DB) AddParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, eventID, userID)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrEventNotFound
	}
	return err
}

// RemoveParticipant removes a user from an event. Leaving an event the user
// never joined is a no-op.
func (d *DB) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := d.Pool.Exec(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	return err
}

// FinishPastEvents marks published events that started before cutoff as
// finished and returns how many were changed.
func (d *DB) FinishPastEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE status = $2 AND time < $3
	`, models.StatusFinished, models.StatusPublished, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// CountEventsByStatus returns the number of events per status, including
// statuses with no events.
func (d *DB) CountEventsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT s.name, COUNT(e.id)
		FROM statuses s
		LEFT JOIN events e ON e.status = s.name
		GROUP BY s.name
		ORDER BY s.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
