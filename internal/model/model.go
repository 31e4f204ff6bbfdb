package model

import "time"

// Role values carried in session tokens.
const (
	RoleStudent = "student"
	RoleGuard   = "guard"
)

// Status values for a gate-pass record. A record starts Pending and is
// resolved exactly once by a guard.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) Resolved() bool {
	return s == StatusApproved || s == StatusRejected
}

// Identity is a student or guard credential record. Students and guards
// live in separate namespaces; the same id may exist in both.
type Identity struct {
	ID           string
	PasswordHash string
	CreatedAt    time.Time
}

type GatePass struct {
	ID          string
	StudentID   string
	Name        string
	HostelBlock string
	Date        time.Time
	Time        string
	Luggages    string
	Destination string
	Purpose     string
	Status      Status
	CreatedAt   time.Time
}
