package domain

import (
	"strings"
	"time"
)

// StatusType is ClickUp's classification of a custom status.
type StatusType string

const (
	StatusTypeOpen   StatusType = "open"
	StatusTypeCustom StatusType = "custom"
	StatusTypeDone   StatusType = "done"
	StatusTypeClosed StatusType = "closed"
)

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

type Task struct {
	Id         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	StatusType StatusType `json:"statusType"`
	Priority   Priority   `json:"priority,omitempty"`
	Assignees  []string   `json:"assignees,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	DateClosed *time.Time `json:"dateClosed,omitempty"`
}

// IsCompleted reports whether the task sits in a done or closed status.
func (t Task) IsCompleted() bool {
	return t.StatusType == StatusTypeDone || t.StatusType == StatusTypeClosed || t.DateClosed != nil
}

// IsOverdue reports whether an incomplete task's due date is before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate != nil && t.DueDate.Before(now)
}

func (t Task) IsHighPriority() bool {
	return t.Priority == PriorityUrgent || t.Priority == PriorityHigh
}

// ParsePriority normalizes a ClickUp priority label.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return p
	default:
		return PriorityNone
	}
}
