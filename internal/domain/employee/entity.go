package employee

import (
	"time"
)

type Employee struct {
	ID            int64
	FirstName     string
	PreferredName *string
	MiddleName    *string
	LastName      string
	Role          string // doubles as the work area, e.g. "Front" or "Back"
	PhoneNumber   *string
	Email         *string
	StartDate     *time.Time
	EndDate       *time.Time
	IsActive      bool
	Position      *string
	Address       *string
}

// DisplayName prefers the preferred name over the legal first name
func (e Employee) DisplayName() string {
	first := e.FirstName
	if e.PreferredName != nil && *e.PreferredName != "" {
		first = *e.PreferredName
	}
	if e.LastName == "" {
		return first
	}
	return first + " " + e.LastName
}

// MappedEmployee is an active employee together with their Clover employee id
type MappedEmployee struct {
	ID               int64
	Name             string
	WorkArea         string
	CloverEmployeeID string
}
