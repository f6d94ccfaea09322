// Package tracker exposes the typed operation surface of the taskwire
// daemon: issue CRUD, dependency edges, readiness queries, and project
// statistics. The Client resolves a workspace, acquires a pooled connection
// handle, and performs one wire exchange per call.
package tracker

import "time"

// Status is an issue lifecycle state.
type Status string

// Issue lifecycle states.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusClosed     Status = "closed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusClosed:
		return true
	}
	return false
}

// IssueType classifies an issue.
type IssueType string

// Issue classifications.
const (
	TypeBug     IssueType = "bug"
	TypeFeature IssueType = "feature"
	TypeTask    IssueType = "task"
	TypeEpic    IssueType = "epic"
	TypeChore   IssueType = "chore"
)

// Valid reports whether t is a known issue type.
func (t IssueType) Valid() bool {
	switch t {
	case TypeBug, TypeFeature, TypeTask, TypeEpic, TypeChore:
		return true
	}
	return false
}

// DepType classifies a dependency edge between two issues.
type DepType string

// Dependency edge types.
const (
	DepBlocks         DepType = "blocks"
	DepRelated        DepType = "related"
	DepParentChild    DepType = "parent-child"
	DepDiscoveredFrom DepType = "discovered-from"
)

// Valid reports whether d is a known dependency type.
func (d DepType) Valid() bool {
	switch d {
	case DepBlocks, DepRelated, DepParentChild, DepDiscoveredFrom:
		return true
	}
	return false
}

// Issue is the daemon's issue record.
type Issue struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Design             string     `json:"design,omitempty"`
	AcceptanceCriteria string     `json:"acceptance_criteria,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	ExternalRef        string     `json:"external_ref,omitempty"`
	Status             Status     `json:"status"`
	Priority           int        `json:"priority"`
	IssueType          IssueType  `json:"issue_type"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	Assignee           string     `json:"assignee,omitempty"`
	Labels             []string   `json:"labels,omitempty"`
	Dependencies       []string   `json:"dependencies,omitempty"`
	Dependents         []string   `json:"dependents,omitempty"`
}

// BlockedIssue is an issue together with the open issues blocking it.
type BlockedIssue struct {
	Issue
	BlockedBy []string `json:"blocked_by"`
}

// Stats summarizes a workspace's issues.
type Stats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Blocked    int `json:"blocked"`
	Closed     int `json:"closed"`
	Ready      int `json:"ready"`
}

// Pong is the daemon's answer to a liveness ping.
type Pong struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// ListFilters narrows a list query. Zero values mean "no filter".
type ListFilters struct {
	Status    Status
	IssueType IssueType
	Priority  *int
	Assignee  string
	Labels    []string
	Limit     int
}

func (f ListFilters) args() map[string]any {
	args := map[string]any{}
	if f.Status != "" {
		args["status"] = string(f.Status)
	}
	if f.IssueType != "" {
		args["issue_type"] = string(f.IssueType)
	}
	if f.Priority != nil {
		args["priority"] = *f.Priority
	}
	if f.Assignee != "" {
		args["assignee"] = f.Assignee
	}
	if len(f.Labels) > 0 {
		args["labels"] = f.Labels
	}
	if f.Limit > 0 {
		args["limit"] = f.Limit
	}
	return args
}

// ReadyFilters narrows a ready-work query.
type ReadyFilters struct {
	Assignee string
	Priority *int
	Limit    int
}

func (f ReadyFilters) args() map[string]any {
	args := map[string]any{}
	if f.Assignee != "" {
		args["assignee"] = f.Assignee
	}
	if f.Priority != nil {
		args["priority"] = *f.Priority
	}
	if f.Limit > 0 {
		args["limit"] = f.Limit
	}
	return args
}

// CreateFields describes a new issue. Title is required.
type CreateFields struct {
	Title              string
	Description        string
	Design             string
	AcceptanceCriteria string
	Notes              string
	ExternalRef        string
	Priority           *int
	IssueType          IssueType
	Assignee           string
	Labels             []string
}

func (f CreateFields) args() map[string]any {
	args := map[string]any{"title": f.Title}
	if f.Description != "" {
		args["description"] = f.Description
	}
	if f.Design != "" {
		args["design"] = f.Design
	}
	if f.AcceptanceCriteria != "" {
		args["acceptance_criteria"] = f.AcceptanceCriteria
	}
	if f.Notes != "" {
		args["notes"] = f.Notes
	}
	if f.ExternalRef != "" {
		args["external_ref"] = f.ExternalRef
	}
	if f.Priority != nil {
		args["priority"] = *f.Priority
	}
	if f.IssueType != "" {
		args["issue_type"] = string(f.IssueType)
	}
	if f.Assignee != "" {
		args["assignee"] = f.Assignee
	}
	if len(f.Labels) > 0 {
		args["labels"] = f.Labels
	}
	return args
}

// UpdateFields describes a partial update. Nil pointers leave the field
// untouched on the daemon side.
type UpdateFields struct {
	Title              *string
	Description        *string
	Design             *string
	AcceptanceCriteria *string
	Notes              *string
	ExternalRef        *string
	Status             *Status
	Priority           *int
	IssueType          *IssueType
	Assignee           *string
	Labels             *[]string
}

func (f UpdateFields) args() map[string]any {
	args := map[string]any{}
	if f.Title != nil {
		args["title"] = *f.Title
	}
	if f.Description != nil {
		args["description"] = *f.Description
	}
	if f.Design != nil {
		args["design"] = *f.Design
	}
	if f.AcceptanceCriteria != nil {
		args["acceptance_criteria"] = *f.AcceptanceCriteria
	}
	if f.Notes != nil {
		args["notes"] = *f.Notes
	}
	if f.ExternalRef != nil {
		args["external_ref"] = *f.ExternalRef
	}
	if f.Status != nil {
		args["status"] = string(*f.Status)
	}
	if f.Priority != nil {
		args["priority"] = *f.Priority
	}
	if f.IssueType != nil {
		args["issue_type"] = string(*f.IssueType)
	}
	if f.Assignee != nil {
		args["assignee"] = *f.Assignee
	}
	if f.Labels != nil {
		args["labels"] = *f.Labels
	}
	return args
}
