package project

import (
	"time"

	"github.com/rpggio/karte/internal/calendar"
)

// Status is the workflow state of a project.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDone, StatusOnHold, StatusCancelled}

var statusLabels = map[Status]string{
	StatusNotStarted: "未着手",
	StatusInProgress: "進行中",
	StatusDone:       "完了",
	StatusOnHold:     "保留",
	StatusCancelled:  "中止",
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the Japanese display label.
func (s Status) Label() string {
	return statusLabels[s]
}

// Priority ranks how urgent a project is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "低",
	PriorityMedium: "中",
	PriorityHigh:   "高",
	PriorityUrgent: "緊急",
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the Japanese display label.
func (p Priority) Label() string {
	return priorityLabels[p]
}

// Project is a tracked case (案件).
type Project struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Client    string         `json:"client,omitempty"`
	Owner     string         `json:"owner,omitempty"`
	Status    Status         `json:"status"`
	Priority  Priority       `json:"priority"`
	DueDate   *calendar.Date `json:"due_date,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsClosed reports whether the project is finished or cancelled. Closed
// projects are never overdue or due soon.
func (p *Project) IsClosed() bool {
	return p.Status == StatusDone || p.Status == StatusCancelled
}
