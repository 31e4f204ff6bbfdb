package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/model"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store/memory"
)

func validInput() CreateInput {
	return CreateInput{
		Name:        "Jayesh Patil",
		HostelBlock: "B",
		Date:        time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02"),
		Time:        "10:00",
		Luggages:    "one bag",
		Destination: "Home",
		Purpose:     "Festival",
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())

	pass, err := svc.Create(context.Background(), "s1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pass.Status != model.StatusPending {
		t.Fatalf("expected Pending, got %s", pass.Status)
	}
	if pass.ID == "" || pass.StudentID != "s1" {
		t.Fatalf("unexpected record: %+v", pass)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())

	in := validInput()
	in.Destination = "   "
	if _, err := svc.Create(context.Background(), "s1", in); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestCreateRejectsBadDates(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())

	in := validInput()
	in.Date = "25-01-2026"
	if _, err := svc.Create(context.Background(), "s1", in); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	in = validInput()
	in.Date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	if _, err := svc.Create(context.Background(), "s1", in); !errors.Is(err, ErrDateInPast) {
		t.Fatalf("expected ErrDateInPast, got %v", err)
	}
}

func TestCreateAcceptsToday(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())

	in := validInput()
	in.Date = time.Now().UTC().Format("2006-01-02")
	if _, err := svc.Create(context.Background(), "s1", in); err != nil {
		t.Fatalf("expected same-day date to be accepted, got %v", err)
	}
}

func TestAdmissionRule(t *testing.T) {
	passes := memory.NewGatePassStore()
	svc := NewService(passes)
	ctx := context.Background()

	first, err := svc.Create(ctx, "s1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Second request while one is outstanding is refused.
	if _, err := svc.Create(ctx, "s1", validInput()); !errors.Is(err, ErrPendingExists) {
		t.Fatalf("expected ErrPendingExists, got %v", err)
	}

	// Another student is not affected.
	if _, err := svc.Create(ctx, "s2", validInput()); err != nil {
		t.Fatalf("create for other student: %v", err)
	}

	// After resolution the student may submit again.
	if _, err := svc.Approve(ctx, first.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	second, err := svc.Create(ctx, "s1", validInput())
	if err != nil {
		t.Fatalf("create after approval: %v", err)
	}

	// And again after deleting the outstanding one.
	if err := svc.Delete(ctx, second.ID, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Create(ctx, "s1", validInput()); err != nil {
		t.Fatalf("create after delete: %v", err)
	}
}

func TestResolveTransitions(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())
	ctx := context.Background()

	pass, err := svc.Create(ctx, "s1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := svc.Approve(ctx, pass.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Fatalf("expected Approved, got %s", approved.Status)
	}

	// Approved is terminal: neither decision applies again.
	if _, err := svc.Approve(ctx, pass.ID); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	if _, err := svc.Reject(ctx, pass.ID); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestRejectTransition(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())
	ctx := context.Background()

	pass, err := svc.Create(ctx, "s1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := svc.Reject(ctx, pass.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.StatusRejected {
		t.Fatalf("expected Rejected, got %s", rejected.Status)
	}
	if _, err := svc.Approve(ctx, pass.ID); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestResolveUnknownRecord(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())

	if _, err := svc.Approve(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())
	ctx := context.Background()

	pass, err := svc.Create(ctx, "s1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, pass.ID, "s2"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// Deletion is allowed after resolution; ownership is the only gate.
	if _, err := svc.Approve(ctx, pass.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Delete(ctx, pass.ID, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, pass.ID, "s1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListScoping(t *testing.T) {
	svc := NewService(memory.NewGatePassStore())
	ctx := context.Background()

	mine, err := svc.Create(ctx, "s1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	theirs, err := svc.Create(ctx, "s2", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := svc.ListForStudent(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Fatalf("expected only own record, got %+v", listed)
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	// A resolved record leaves the pending list but stays in the owner's.
	if _, err := svc.Approve(ctx, theirs.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	pending, err = svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != mine.ID {
		t.Fatalf("expected only unresolved record pending, got %+v", pending)
	}
	listed, err = svc.ListForStudent(ctx, "s2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != model.StatusApproved {
		t.Fatalf("expected approved record in owner list, got %+v", listed)
	}
}

func TestListOrdering(t *testing.T) {
	passes := memory.NewGatePassStore()
	svc := NewService(passes)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		pass := model.GatePass{
			ID:        "p" + string(rune('0'+i)),
			StudentID: "s1",
			Status:    model.StatusPending,
			Date:      base.AddDate(0, 0, i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := passes.Create(ctx, pass); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	listed, err := svc.ListForStudent(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Fatalf("expected createdAt descending, got %+v", listed)
		}
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	for i := 1; i < len(pending); i++ {
		if pending[i].Date.After(pending[i-1].Date) {
			t.Fatalf("expected date descending, got %+v", pending)
		}
	}
}
