package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
)

// builtinStatuses drive the event workflow and cannot be renamed or removed.
var builtinStatuses = map[string]bool{
	models.StatusPublished: true,
	models.StatusOnReview:  true,
	models.StatusRejected:  true,
	models.StatusFinished:  true,
}

// IsBuiltinStatus reports whether name is one of the workflow statuses.
func IsBuiltinStatus(name string) bool {
	return builtinStatuses[name]
}

// Event types

func (d *DB) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, name FROM event_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.EventType, error) {
		var t models.EventType
		err := row.Scan(&t.ID, &t.Name)
		return t, err
	})
}

func (d *DB) GetEventType(ctx context.Context, id uuid.UUID) (*models.EventType, error) {
	var t models.EventType
	err := d.Pool.QueryRow(ctx, `SELECT id, name FROM event_types WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DB) CreateEventType(ctx context.Context, t *models.EventType) error {
	err := d.Pool.QueryRow(ctx, `INSERT INTO event_types (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateName
	}
	return err
}

func (d *DB) UpdateEventType(ctx context.Context, t *models.EventType) error {
	result, err := d.Pool.Exec(ctx, `UPDATE event_types SET name = $1 WHERE id = $2`, t.Name, t.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEventTypeNotFound
	}
	return nil
}

// DeleteEventType removes an event type. Events of that type keep existing
// without a type.
func (d *DB) DeleteEventType(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM event_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEventTypeNotFound
	}
	return nil
}

// Interests

func (d *DB) ListInterests(ctx context.Context) ([]models.Interest, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, title, short_description FROM interests ORDER BY title`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Interest, error) {
		var i models.Interest
		err := row.Scan(&i.ID, &i.Title, &i.ShortDescription)
		return i, err
	})
}

func (d *DB) GetInterest(ctx context.Context, id uuid.UUID) (*models.Interest, error) {
	var i models.Interest
	err := d.Pool.QueryRow(ctx, `SELECT id, title, short_description FROM interests WHERE id = $1`, id).
		Scan(&i.ID, &i.Title, &i.ShortDescription)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInterestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (d *DB) CreateInterest(ctx context.Context, i *models.Interest) error {
	err := d.Pool.QueryRow(ctx,
		`INSERT INTO interests (title, short_description) VALUES ($1, $2) RETURNING id`,
		i.Title, i.ShortDescription).Scan(&i.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateName
	}
	return err
}

func (d *DB) UpdateInterest(ctx context.Context, i *models.Interest) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE interests SET title = $1, short_description = $2 WHERE id = $3`,
		i.Title, i.ShortDescription, i.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInterestNotFound
	}
	return nil
}

func (d *DB) DeleteInterest(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM interests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInterestNotFound
	}
	return nil
}

// Statuses

func (d *DB) ListStatuses(ctx context.Context) ([]models.Status, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, name FROM statuses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Status, error) {
		var s models.Status
		err := row.Scan(&s.ID, &s.Name)
		return s, err
	})
}

func (d *DB) GetStatus(ctx context.Context, id uuid.UUID) (*models.Status, error) {
	var s models.Status
	err := d.Pool.QueryRow(ctx, `SELECT id, name FROM statuses WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatusNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *DB) CreateStatus(ctx context.Context, s *models.Status) error {
	err := d.Pool.QueryRow(ctx, `INSERT INTO statuses (name) VALUES ($1) RETURNING id`, s.Name).Scan(&s.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateName
	}
	return err
}

// UpdateStatus renames a custom status. Events using it follow the rename.
func (d *DB) UpdateStatus(ctx context.Context, s *models.Status) error {
	current, err := d.GetStatus(ctx, s.ID)
	if err != nil {
		return err
	}
	if IsBuiltinStatus(current.Name) || IsBuiltinStatus(s.Name) {
		return ErrStatusProtected
	}

	_, err = d.Pool.Exec(ctx, `UPDATE statuses SET name = $1 WHERE id = $2`, s.Name, s.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateName
	}
	return err
}

// DeleteStatus removes a custom status that no event uses.
func (d *DB) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	current, err := d.GetStatus(ctx, id)
	if err != nil {
		return err
	}
	if IsBuiltinStatus(current.Name) {
		return ErrStatusProtected
	}

	_, err = d.Pool.Exec(ctx, `DELETE FROM statuses WHERE id = $1`, id)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrStatusInUse
	}
	return err
}
