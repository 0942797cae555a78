package jira

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"mcpatlassian/pkg/timeutil"
)

// IssueDates collects the date information and status history of one issue.
type IssueDates struct {
	IssueKey       string              `json:"issue_key"`
	Created        *time.Time          `json:"created,omitempty"`
	Updated        *time.Time          `json:"updated,omitempty"`
	DueDate        *time.Time          `json:"due_date,omitempty"`
	ResolutionDate *time.Time          `json:"resolution_date,omitempty"`
	CurrentStatus  string              `json:"current_status,omitempty"`
	StatusChanges  []StatusChange      `json:"status_changes"`
	StatusSummary  []StatusTimeSummary `json:"status_summary"`
}

// StatusChange records one stay in a status: when the issue entered it,
// when it left (nil while current), and who moved it there.
type StatusChange struct {
	Status            string     `json:"status"`
	EnteredAt         time.Time  `json:"entered_at"`
	ExitedAt          *time.Time `json:"exited_at,omitempty"`
	DurationMinutes   *int       `json:"duration_minutes,omitempty"`
	DurationFormatted string     `json:"duration_formatted,omitempty"`
	TransitionedBy    string     `json:"transitioned_by,omitempty"`
}

// StatusTimeSummary aggregates the total time an issue spent in one status
// across all visits.
type StatusTimeSummary struct {
	Status                 string `json:"status"`
	TotalDurationMinutes   int    `json:"total_duration_minutes"`
	TotalDurationFormatted string `json:"total_duration_formatted"`
	VisitCount             int    `json:"visit_count"`
}

// GetIssueDates fetches an issue's dates together with its status change
// history and a per-status time summary derived from the changelog.
func (c *Client) GetIssueDates(ctx context.Context, issueKey string) (*IssueDates, error) {
	query := url.Values{}
	query.Set("expand", "changelog")
	query.Set("fields", "status,created,updated,duedate,resolutiondate")

	var issue Issue
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "?" + query.Encode()
	if err := c.rest.Get(ctx, "get_issue_dates", path, &issue); err != nil {
		return nil, err
	}

	dates := &IssueDates{
		IssueKey:      issueKey,
		CurrentStatus: issue.Fields.Status.Name,
		StatusChanges: []StatusChange{},
		StatusSummary: []StatusTimeSummary{},
	}
	dates.Created = parseOptionalDate(issue.Fields.Created)
	dates.Updated = parseOptionalDate(issue.Fields.Updated)
	dates.DueDate = parseOptionalDate(issue.Fields.DueDate)
	dates.ResolutionDate = parseOptionalDate(issue.Fields.ResolutionDate)

	if issue.Changelog != nil {
		dates.StatusChanges = statusChangesFromChangelog(issue.Changelog.Histories, dates.Created)
		dates.StatusSummary = summarizeStatusTimes(dates.StatusChanges)
	}

	return dates, nil
}

func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, ok, err := timeutil.ParseDate(value)
	if err != nil || !ok {
		return nil
	}
	return &parsed
}

type statusTransition struct {
	from string
	to   string
	at   time.Time
	by   string
}

// statusChangesFromChangelog turns changelog histories into a chronological
// list of status stays. The issue's creation opens the first stay when the
// first transition names the status it left.
func statusChangesFromChangelog(histories []ChangeHistory, created *time.Time) []StatusChange {
	var transitions []statusTransition
	for _, history := range histories {
		at := parseOptionalDate(history.Created)
		if at == nil {
			continue
		}
		var author string
		if history.Author != nil {
			author = history.Author.DisplayName
		}
		for _, item := range history.Items {
			if strings.EqualFold(item.Field, "status") {
				transitions = append(transitions, statusTransition{
					from: item.FromString,
					to:   item.ToString,
					at:   *at,
					by:   author,
				})
			}
		}
	}

	sort.Slice(transitions, func(i, j int) bool { return transitions[i].at.Before(transitions[j].at) })

	entries := []StatusChange{}

	// The stay in the initial status runs from creation to the first
	// transition. Nobody transitioned the issue into it.
	if created != nil && len(transitions) > 0 && transitions[0].from != "" {
		first := transitions[0]
		minutes := durationMinutes(*created, first.at)
		exited := first.at
		entries = append(entries, StatusChange{
			Status:            first.from,
			EnteredAt:         *created,
			ExitedAt:          &exited,
			DurationMinutes:   &minutes,
			DurationFormatted: timeutil.FormatDuration(minutes),
		})
	}

	for i, transition := range transitions {
		if transition.to == "" {
			continue
		}

		entry := StatusChange{
			Status:         transition.to,
			EnteredAt:      transition.at,
			TransitionedBy: transition.by,
		}
		if i+1 < len(transitions) {
			exited := transitions[i+1].at
			minutes := durationMinutes(transition.at, exited)
			entry.ExitedAt = &exited
			entry.DurationMinutes = &minutes
			entry.DurationFormatted = timeutil.FormatDuration(minutes)
		}
		entries = append(entries, entry)
	}

	return entries
}

// summarizeStatusTimes totals the time per status. The current status
// (no exit yet) counts as a visit without adding duration. Longest total
// first; name order breaks ties so output stays deterministic.
func summarizeStatusTimes(changes []StatusChange) []StatusTimeSummary {
	type totals struct {
		minutes int
		visits  int
	}
	byStatus := make(map[string]*totals)

	for _, change := range changes {
		t := byStatus[change.Status]
		if t == nil {
			t = &totals{}
			byStatus[change.Status] = t
		}
		switch {
		case change.DurationMinutes != nil:
			t.minutes += *change.DurationMinutes
			t.visits++
		case change.ExitedAt == nil:
			t.visits++
		}
	}

	summaries := make([]StatusTimeSummary, 0, len(byStatus))
	for status, t := range byStatus {
		summaries = append(summaries, StatusTimeSummary{
			Status:                 status,
			TotalDurationMinutes:   t.minutes,
			TotalDurationFormatted: timeutil.FormatDuration(t.minutes),
			VisitCount:             t.visits,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalDurationMinutes != summaries[j].TotalDurationMinutes {
			return summaries[i].TotalDurationMinutes > summaries[j].TotalDurationMinutes
		}
		return summaries[i].Status < summaries[j].Status
	})

	return summaries
}

func durationMinutes(start, end time.Time) int {
	return int(end.Sub(start).Minutes())
}
