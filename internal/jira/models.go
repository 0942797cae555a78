package jira

import (
	"encoding/json"
	"fmt"
)

// FlexibleID unmarshals both string and numeric IDs; Jira Server and Cloud
// disagree on which one some endpoints return.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleID(n.String())
		return nil
	}

	return fmt.Errorf("id must be a string or number")
}

func (f FlexibleID) String() string {
	return string(f)
}

// Issue is a Jira issue as returned by the REST API.
type Issue struct {
	ID        FlexibleID `json:"id"`
	Key       string     `json:"key"`
	Fields    Fields     `json:"fields"`
	Changelog *Changelog `json:"changelog,omitempty"`
}

// Changelog is an issue's change history, present when the issue was
// fetched with expand=changelog.
type Changelog struct {
	Histories []ChangeHistory `json:"histories"`
}

// ChangeHistory is one changelog entry: who changed what, when.
type ChangeHistory struct {
	ID      FlexibleID   `json:"id,omitempty"`
	Created string       `json:"created"`
	Author  *User        `json:"author,omitempty"`
	Items   []ChangeItem `json:"items"`
}

// ChangeItem is a single field change within a history entry.
type ChangeItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString,omitempty"`
	ToString   string `json:"toString,omitempty"`
}

// Fields holds the issue field data this server exposes.
type Fields struct {
	Summary        string    `json:"summary"`
	Description    ADFText   `json:"description,omitempty"`
	IssueType      IssueType `json:"issuetype"`
	Project        Project   `json:"project"`
	Status         Status    `json:"status"`
	Priority       *Named    `json:"priority,omitempty"`
	Assignee       *User     `json:"assignee,omitempty"`
	Reporter       *User     `json:"reporter,omitempty"`
	Labels         []string  `json:"labels,omitempty"`
	Created        string    `json:"created,omitempty"`
	Updated        string    `json:"updated,omitempty"`
	DueDate        string    `json:"duedate,omitempty"`
	ResolutionDate string    `json:"resolutiondate,omitempty"`
}

// IssueType is a Jira issue type (Bug, Story, Task, ...).
type IssueType struct {
	ID   FlexibleID `json:"id,omitempty"`
	Name string     `json:"name"`
}

// Project is a Jira project reference.
type Project struct {
	ID   FlexibleID `json:"id,omitempty"`
	Key  string     `json:"key"`
	Name string     `json:"name,omitempty"`
}

// Status is an issue workflow status.
type Status struct {
	ID   FlexibleID `json:"id,omitempty"`
	Name string     `json:"name"`
}

// Named is a generic id/name pair (priority, resolution).
type Named struct {
	ID   FlexibleID `json:"id,omitempty"`
	Name string     `json:"name"`
}

// User is a Jira user reference.
type User struct {
	Name         string `json:"name,omitempty"`
	AccountID    string `json:"accountId,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// SearchResults is the response of a JQL search.
type SearchResults struct {
	Issues     []Issue `json:"issues"`
	Total      int     `json:"total"`
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
}

// IssueCreate is the request body for creating an issue.
type IssueCreate struct {
	Fields CreateFields `json:"fields"`
}

// CreateFields are the writable fields of a new issue.
type CreateFields struct {
	Project     Project   `json:"project"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	IssueType   IssueType `json:"issuetype"`
	Labels      []string  `json:"labels,omitempty"`
	Assignee    *User     `json:"assignee,omitempty"`
}

// IssueUpdate is the request body for updating an issue. Only non-zero
// fields are sent.
type IssueUpdate struct {
	Fields map[string]any `json:"fields"`
}

// Comment is an issue comment.
type Comment struct {
	ID      FlexibleID `json:"id"`
	Body    ADFText    `json:"body"`
	Author  *User      `json:"author,omitempty"`
	Created string     `json:"created,omitempty"`
}

// Transition is one available workflow transition for an issue.
type Transition struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
	To   *Status    `json:"to,omitempty"`
}

// transitionsResponse wraps the transitions list endpoint.
type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// Worklog is one logged work entry on an issue.
type Worklog struct {
	ID               FlexibleID `json:"id,omitempty"`
	Author           *User      `json:"author,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	Started          string     `json:"started,omitempty"`
	TimeSpent        string     `json:"timeSpent,omitempty"`
	TimeSpentSeconds int        `json:"timeSpentSeconds,omitempty"`
}

// worklogResponse wraps the worklog list endpoint.
type worklogResponse struct {
	Worklogs   []Worklog `json:"worklogs"`
	Total      int       `json:"total"`
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
}

// Myself is the authenticated user, used as a reachability probe.
type Myself struct {
	Name         string `json:"name,omitempty"`
	AccountID    string `json:"accountId,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}
