package model

import (
	"fmt"
	"strings"
	"time"
)

// EntityKind is the closed set of draggable entity tags. Drop-zone acceptance
// checks are set-membership tests over this tag, never dynamic inspection of
// the payload.
type EntityKind string

const (
	KindTask     EntityKind = "task"
	KindEmployee EntityKind = "employee"
	KindCrew     EntityKind = "crew"
	KindClient   EntityKind = "client"
	KindLocation EntityKind = "location"
)

func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTask:
		return KindTask, nil
	case KindEmployee:
		return KindEmployee, nil
	case KindCrew:
		return KindCrew, nil
	case KindClient:
		return KindClient, nil
	case KindLocation:
		return KindLocation, nil
	default:
		return "", fmt.Errorf("invalid entity kind: %q (expected task|employee|crew|client|location)", s)
	}
}

// Assignment is a scheduled entry in the canonical schedule store.
//
// Invariant: at most one of AssigneeID/CrewID is set. Date is date-only
// ("YYYY-MM-DD"); StartTime/EndTime are optional "HH:MM" values.
type Assignment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`

	Date      string  `json:"date"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`

	Completed bool `json:"completed"`

	AssigneeID       *string `json:"assigneeId,omitempty"`
	CrewID           *string `json:"crewId,omitempty"`
	LocationID       *string `json:"locationId,omitempty"`
	ClientID         *string `json:"clientId,omitempty"`
	ClientLocationID *string `json:"clientLocationId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	Archived bool   `json:"archived"`
}

// Crew is a named, ordered group of employees. Member order is meaningful
// (display order, lead first) and is preserved as stored.
type Crew struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	Archived  bool     `json:"archived"`
}

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ClientLocation struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Label    string `json:"label"`
	Address  string `json:"address,omitempty"`
}

// NormalizeDate strips any time-of-day information from a date string,
// returning a canonical "YYYY-MM-DD". Inputs from different collaborators may
// carry timestamps ("2025-06-01T09:30:00Z") or already be date-only; either
// way two values for the same calendar day normalize to the same string, so
// comparisons never loop on sub-day precision differences.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > 10 {
		s = s[:10]
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

// MinuteOfDay parses an "HH:MM" value into minutes since midnight.
// Returns false for empty or malformed input.
func MinuteOfDay(hm string) (int, bool) {
	hm = strings.TrimSpace(hm)
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// SameDay reports whether two date strings fall on the same calendar day
// after normalization.
func SameDay(a, b string) bool {
	na, nb := NormalizeDate(a), NormalizeDate(b)
	return na != "" && na == nb
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
