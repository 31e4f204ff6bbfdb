// Package workflow implements the gate-pass lifecycle: a record is created
// Pending by its student, resolved exactly once by a guard (Approved or
// Rejected), and may be deleted by its owner at any point.
package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/model"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store"
)

var (
	ErrMissingFields   = errors.New("workflow: missing fields")
	ErrInvalidDate     = errors.New("workflow: invalid date")
	ErrDateInPast      = errors.New("workflow: date in past")
	ErrPendingExists   = errors.New("workflow: pending request exists")
	ErrAlreadyResolved = errors.New("workflow: request already resolved")
	ErrNotOwner        = errors.New("workflow: not the owning student")
)

const dateLayout = "2006-01-02"

type Service struct {
	passes store.GatePassStore
}

func NewService(passes store.GatePassStore) *Service {
	return &Service{passes: passes}
}

// CreateInput carries the student-submitted form fields. Date uses the
// YYYY-MM-DD wire format.
type CreateInput struct {
	Name        string
	HostelBlock string
	Date        string
	Time        string
	Luggages    string
	Destination string
	Purpose     string
}

func (in *CreateInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.HostelBlock = strings.TrimSpace(in.HostelBlock)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Luggages = strings.TrimSpace(in.Luggages)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Purpose = strings.TrimSpace(in.Purpose)
}

// Create validates the form, applies the one-pending-per-student admission
// rule, and persists a new Pending record. The pending check here is
// check-then-act; the Postgres store backs it with a partial unique index.
func (s *Service) Create(ctx context.Context, studentID string, in CreateInput) (model.GatePass, error) {
	in.trim()
	if in.Name == "" || in.HostelBlock == "" || in.Date == "" || in.Time == "" ||
		in.Luggages == "" || in.Destination == "" || in.Purpose == "" {
		return model.GatePass{}, ErrMissingFields
	}

	date, err := time.ParseInLocation(dateLayout, in.Date, time.UTC)
	if err != nil {
		return model.GatePass{}, ErrInvalidDate
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return model.GatePass{}, ErrDateInPast
	}

	pending, err := s.passes.HasPending(ctx, studentID)
	if err != nil {
		return model.GatePass{}, err
	}
	if pending {
		return model.GatePass{}, ErrPendingExists
	}

	pass := model.GatePass{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Name:        in.Name,
		HostelBlock: in.HostelBlock,
		Date:        date,
		Time:        in.Time,
		Luggages:    in.Luggages,
		Destination: in.Destination,
		Purpose:     in.Purpose,
		Status:      model.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.passes.Create(ctx, pass); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.GatePass{}, ErrPendingExists
		}
		return model.GatePass{}, err
	}
	return pass, nil
}

// ListForStudent returns the student's own records, any status, newest
// created first.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]model.GatePass, error) {
	return s.passes.ListByStudent(ctx, studentID)
}

// ListPending returns every Pending record across students, latest leave
// date first.
func (s *Service) ListPending(ctx context.Context) ([]model.GatePass, error) {
	return s.passes.ListPending(ctx)
}

func (s *Service) Approve(ctx context.Context, id string) (model.GatePass, error) {
	return s.resolve(ctx, id, model.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (model.GatePass, error) {
	return s.resolve(ctx, id, model.StatusRejected)
}

func (s *Service) resolve(ctx context.Context, id string, status model.Status) (model.GatePass, error) {
	pass, err := s.passes.Get(ctx, id)
	if err != nil {
		return model.GatePass{}, err
	}
	if pass.Status.Resolved() {
		return model.GatePass{}, ErrAlreadyResolved
	}
	return s.passes.UpdateStatus(ctx, id, status)
}

// Delete removes a record. Only the owning student may delete, regardless
// of status.
func (s *Service) Delete(ctx context.Context, id, studentID string) error {
	pass, err := s.passes.Get(ctx, id)
	if err != nil {
		return err
	}
	if pass.StudentID != studentID {
		return ErrNotOwner
	}
	return s.passes.Delete(ctx, id)
}
