// Package jira wraps the Jira REST API into a typed fetcher bound to one
// credential context.
package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mcpatlassian/internal/atlassian"
	"mcpatlassian/pkg/timeutil"
)

// DefaultSearchLimit caps search results when the caller does not ask for
// a specific page size.
const DefaultSearchLimit = 50

// Client is a Jira fetcher: one instance per credential context.
type Client struct {
	rest *atlassian.Client

	// projectsFilter restricts searches to these comma-separated project
	// keys unless the individual call overrides it.
	projectsFilter string
}

// NewClient builds a Jira fetcher. The httpClient must already carry
// authentication.
func NewClient(baseURL string, httpClient *http.Client, projectsFilter string) *Client {
	return &Client{
		rest:           atlassian.NewClient("jira", baseURL, httpClient),
		projectsFilter: projectsFilter,
	}
}

// BaseURL returns the Jira instance root.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL()
}

// Ping verifies the instance is reachable with the bound credentials.
// Used as the capability check that decides whether Jira counts as a
// configured service.
func (c *Client) Ping(ctx context.Context) error {
	var me Myself
	return c.rest.Get(ctx, "ping", "/rest/api/2/myself", &me)
}

// SearchIssues runs a JQL search. The configured projects filter, or the
// projectsFilter argument when non-empty, is merged into the query.
func (c *Client) SearchIssues(ctx context.Context, jql string, startAt, limit int, projectsFilter string) (*SearchResults, error) {
	filter := c.projectsFilter
	if projectsFilter != "" {
		filter = projectsFilter
	}
	jql = ApplyProjectsFilter(jql, filter)

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(limit))

	var results SearchResults
	if err := c.rest.Get(ctx, "search", "/rest/api/2/search?"+query.Encode(), &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// GetIssue retrieves one issue by key (e.g. "PROJ-123").
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	var issue Issue
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey)
	if err := c.rest.Get(ctx, "get_issue", path, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue creates a new issue and returns it with its assigned key.
func (c *Client) CreateIssue(ctx context.Context, create *IssueCreate) (*Issue, error) {
	var issue Issue
	if err := c.rest.Post(ctx, "create_issue", "/rest/api/2/issue", create, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue applies a partial field update to an issue.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, update *IssueUpdate) error {
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey)
	return c.rest.Put(ctx, "update_issue", path, update, nil)
}

// DeleteIssue deletes an issue by key.
func (c *Client) DeleteIssue(ctx context.Context, issueKey string) error {
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey)
	return c.rest.Delete(ctx, "delete_issue", path)
}

// AddComment adds a comment to an issue.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) (*Comment, error) {
	var comment Comment
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/comment"
	if err := c.rest.Post(ctx, "add_comment", path, map[string]string{"body": body}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetTransitions lists the workflow transitions currently available for an
// issue.
func (c *Client) GetTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	var resp transitionsResponse
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/transitions"
	if err := c.rest.Get(ctx, "get_transitions", path, &resp); err != nil {
		return nil, err
	}
	return resp.Transitions, nil
}

// TransitionIssue moves an issue through the workflow transition with the
// given id, optionally adding a comment in the same call.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionID, comment string) error {
	body := map[string]any{
		"transition": map[string]string{"id": transitionID},
	}
	if comment != "" {
		body["update"] = map[string]any{
			"comment": []map[string]any{
				{"add": map[string]string{"body": comment}},
			},
		}
	}

	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/transitions"
	return c.rest.Post(ctx, "transition_issue", path, body, nil)
}

// jiraTimeFormat is the timestamp layout the worklog API expects.
const jiraTimeFormat = "2006-01-02T15:04:05.000-0700"

// AddWorklog logs work on an issue. timeSpent uses Jira's notation
// ("1h 30m", "2d", "90s"); started accepts epoch milliseconds or common
// textual timestamps and is normalized to Jira's format.
func (c *Client) AddWorklog(ctx context.Context, issueKey, timeSpent, comment, started string) (*Worklog, error) {
	seconds := timeutil.ParseTimeSpent(timeSpent)
	if seconds <= 0 {
		return nil, fmt.Errorf("invalid time spent value: %q", timeSpent)
	}

	body := map[string]any{
		"timeSpentSeconds": seconds,
	}
	if comment != "" {
		body["comment"] = comment
	}
	if started != "" {
		if parsed, ok, err := timeutil.ParseDate(started); err == nil && ok {
			started = parsed.Format(jiraTimeFormat)
		}
		body["started"] = started
	}

	var worklog Worklog
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/worklog"
	if err := c.rest.Post(ctx, "add_worklog", path, body, &worklog); err != nil {
		return nil, err
	}
	return &worklog, nil
}

// GetWorklogs lists the work logged on an issue.
func (c *Client) GetWorklogs(ctx context.Context, issueKey string) ([]Worklog, error) {
	var resp worklogResponse
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/worklog"
	if err := c.rest.Get(ctx, "get_worklogs", path, &resp); err != nil {
		return nil, err
	}
	return resp.Worklogs, nil
}
