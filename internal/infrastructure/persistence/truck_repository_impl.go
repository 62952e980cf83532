package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
)

type TruckRepository struct {
	db *sql.DB
}

func NewTruckRepository(db *sql.DB) *TruckRepository {
	return &TruckRepository{db: db}
}

func (r *TruckRepository) Create(ctx context.Context, e *entity.TruckEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = now()
	}
	e.RecordedAt = e.RecordedAt.UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO truck_entries (id, user_id, plate_number, direction, driver_name, note, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.UserID, e.PlateNumber, string(e.Direction), e.DriverName, e.Note, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert truck entry: %w", err)
	}
	return nil
}

func (r *TruckRepository) List(ctx context.Context, f entity.TruckFilter) ([]entity.TruckEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Direction != "" {
		args = append(args, string(f.Direction))
		where = append(where, fmt.Sprintf("direction = $%d", len(args)))
	}

	q := `SELECT id, user_id, plate_number, direction, driver_name, note, recorded_at FROM truck_entries`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, pageLimit(f.Limit), max(f.Offset, 0))
	q += fmt.Sprintf(` ORDER BY recorded_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list truck entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]entity.TruckEntry, 0)
	for rows.Next() {
		var (
			e   entity.TruckEntry
			dir string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.PlateNumber, &dir, &e.DriverName, &e.Note, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan truck entry: %w", err)
		}
		e.Direction = entity.Direction(dir)
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ repository.TruckRepository = (*TruckRepository)(nil)
