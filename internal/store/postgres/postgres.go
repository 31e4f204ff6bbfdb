// Package postgres implements the store interfaces on pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/model"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store"
)

type IdentityStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewStudentStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool, table: "students"}
}

func NewGuardStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool, table: "guards"}
}

func (s *IdentityStore) Create(ctx context.Context, identity model.Identity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+s.table+` (id, password_hash, created_at)
		VALUES ($1, $2, $3)
	`, identity.ID, identity.PasswordHash, identity.CreatedAt)
	return mapError(err)
}

func (s *IdentityStore) Get(ctx context.Context, id string) (model.Identity, error) {
	var identity model.Identity
	row := s.pool.QueryRow(ctx, `
		SELECT id, password_hash, created_at
		FROM `+s.table+`
		WHERE id = $1
	`, id)
	err := row.Scan(&identity.ID, &identity.PasswordHash, &identity.CreatedAt)
	return identity, mapError(err)
}

type GatePassStore struct {
	pool *pgxpool.Pool
}

func NewGatePassStore(pool *pgxpool.Pool) *GatePassStore {
	return &GatePassStore{pool: pool}
}

const gatePassColumns = `id, student_id, name, hostel_block, date, time, luggages, destination, purpose, status, created_at`

func (s *GatePassStore) Create(ctx context.Context, pass model.GatePass) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO gate_passes (`+gatePassColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, pass.ID, pass.StudentID, pass.Name, pass.HostelBlock, pass.Date, pass.Time,
		pass.Luggages, pass.Destination, pass.Purpose, string(pass.Status), pass.CreatedAt)
	return mapError(err)
}

func (s *GatePassStore) Get(ctx context.Context, id string) (model.GatePass, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+gatePassColumns+`
		FROM gate_passes
		WHERE id = $1
	`, id)
	return scanGatePass(row)
}

func (s *GatePassStore) ListByStudent(ctx context.Context, studentID string) ([]model.GatePass, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+gatePassColumns+`
		FROM gate_passes
		WHERE student_id = $1
		ORDER BY created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGatePasses(rows)
}

func (s *GatePassStore) ListPending(ctx context.Context) ([]model.GatePass, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+gatePassColumns+`
		FROM gate_passes
		WHERE status = $1
		ORDER BY date DESC
	`, string(model.StatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGatePasses(rows)
}

func (s *GatePassStore) HasPending(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM gate_passes WHERE student_id = $1 AND status = $2)
	`, studentID, string(model.StatusPending)).Scan(&exists)
	return exists, err
}

func (s *GatePassStore) UpdateStatus(ctx context.Context, id string, status model.Status) (model.GatePass, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE gate_passes
		SET status = $1
		WHERE id = $2
		RETURNING `+gatePassColumns+`
	`, string(status), id)
	return scanGatePass(row)
}

func (s *GatePassStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM gate_passes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanGatePass(row pgx.Row) (model.GatePass, error) {
	var pass model.GatePass
	err := row.Scan(
		&pass.ID,
		&pass.StudentID,
		&pass.Name,
		&pass.HostelBlock,
		&pass.Date,
		&pass.Time,
		&pass.Luggages,
		&pass.Destination,
		&pass.Purpose,
		&pass.Status,
		&pass.CreatedAt,
	)
	return pass, mapError(err)
}

func collectGatePasses(rows pgx.Rows) ([]model.GatePass, error) {
	passes := make([]model.GatePass, 0)
	for rows.Next() {
		pass, err := scanGatePass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}
	return passes, rows.Err()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}
