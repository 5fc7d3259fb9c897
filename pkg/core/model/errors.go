package model

import (
	"errors"
	"strings"
)

// ConflictType is the closed set of reasons a single (account, sprint)
// assignment can be rejected for business reasons.
type ConflictType string

const (
	ConflictCooldown ConflictType = "cooldown"
	ConflictLocation ConflictType = "location"
	ConflictSeasonal ConflictType = "seasonal"
	ConflictBlocking ConflictType = "blocking"
	ConflictOther    ConflictType = "other"
)

// AssignmentError is an expected per-pair business rejection from the
// sprint-assignment collaborator. It never triggers a transaction rollback;
// anything that is not an AssignmentError is treated as a system failure.
type AssignmentError struct {
	Type    ConflictType
	Message string
}

func (e *AssignmentError) Error() string {
	return e.Message
}

// NewAssignmentError builds a typed business rejection
func NewAssignmentError(t ConflictType, message string) *AssignmentError {
	return &AssignmentError{Type: t, Message: message}
}

// ClassifyConflict maps a failure to a ConflictType. Errors produced by the
// assignment collaborator carry the type directly; for anything else we fall
// back to case-insensitive message sniffing with a fixed priority order
// (cooldown, location, seasonal/month, block). The substring fallback is a
// best-effort heuristic kept for failures raised outside this module.
func ClassifyConflict(err error) ConflictType {
	var ae *AssignmentError
	if errors.As(err, &ae) {
		return ae.Type
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "cooldown"):
		return ConflictCooldown
	case strings.Contains(msg, "location"):
		return ConflictLocation
	case strings.Contains(msg, "seasonal"), strings.Contains(msg, "month"):
		return ConflictSeasonal
	case strings.Contains(msg, "block"):
		return ConflictBlocking
	}
	return ConflictOther
}
