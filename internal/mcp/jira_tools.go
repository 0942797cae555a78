package mcp

import (
	"context"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"mcpatlassian/internal/jira"
	"mcpatlassian/internal/tools"
)

// jiraToolDefs returns every Jira tool the server knows about. Whether a
// tool ultimately appears to a client depends on the filter configuration,
// not on this list.
func jiraToolDefs() []toolDef {
	return []toolDef{
		{
			tool: mcplib.NewTool("jira_search",
				mcplib.WithDescription("Search Jira issues using JQL (Jira Query Language)."),
				mcplib.WithString("jql",
					mcplib.Description("JQL query string, e.g. 'project = PROJ AND status = \"In Progress\"'."),
					mcplib.Required(),
				),
				mcplib.WithNumber("limit",
					mcplib.Description("Maximum number of issues to return."),
					mcplib.DefaultNumber(jira.DefaultSearchLimit),
					mcplib.Min(1),
					mcplib.Max(100),
				),
				mcplib.WithNumber("start_at",
					mcplib.Description("Pagination offset of the first result."),
					mcplib.DefaultNumber(0),
					mcplib.Min(0),
				),
				mcplib.WithString("projects_filter",
					mcplib.Description("Comma-separated project keys to restrict the search to. Overrides the server-wide filter."),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "jira_search",
				Description: "Search Jira issues using JQL",
				Service:     tools.ServiceJira,
				Mutates:     false,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				jql := req.GetString("jql", "")
				limit := req.GetInt("limit", jira.DefaultSearchLimit)
				startAt := req.GetInt("start_at", 0)
				filter := req.GetString("projects_filter", "")
				return client.SearchIssues(ctx, jql, startAt, limit, filter)
			}),
		},
		{
			tool: mcplib.NewTool("jira_get_issue",
				mcplib.WithDescription("Get a single Jira issue by its key."),
				mcplib.WithString("issue_key",
					mcplib.Description("Issue key, e.g. 'PROJ-123'."),
					mcplib.Required(),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "jira_get_issue",
				Description: "Get a single Jira issue by key",
				Service:     tools.ServiceJira,
				Mutates:     false,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetIssue(ctx, req.GetString("issue_key", ""))
			}),
		},
		{
			tool: mcplib.NewTool("jira_create_issue",
				mcplib.WithDescription("Create a new Jira issue."),
				mcplib.WithString("project_key",
					mcplib.Description("Key of the project to create the issue in."),
					mcplib.Required(),
				),
				mcplib.WithString("summary",
					mcplib.Description("One-line summary of the issue."),
					mcplib.Required(),
				),
				mcplib.WithString("issue_type",
					mcplib.Description("Issue type name, e.g. 'Task', 'Bug', 'Story'."),
					mcplib.Required(),
				),
				mcplib.WithString("description",
					mcplib.Description("Full issue description."),
				),
				mcplib.WithString("labels",
					mcplib.Description("Comma-separated labels to apply."),
				),
			),
			desc: tools.Descriptor{
				Name:        "jira_create_issue",
				Description: "Create a new Jira issue",
				Service:     tools.ServiceJira,
				Mutates:     true,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				create := &jira.IssueCreate{
					Fields: jira.CreateFields{
						Project:     jira.Project{Key: req.GetString("project_key", "")},
						Summary:     req.GetString("summary", ""),
						Description: req.GetString("description", ""),
						IssueType:   jira.IssueType{Name: req.GetString("issue_type", "")},
						Labels:      splitCSV(req.GetString("labels", "")),
					},
				}
				return client.CreateIssue(ctx, create)
			}),
		},
		{
			tool: mcplib.NewTool("jira_update_issue",
				mcplib.WithDescription("Update fields on an existing Jira issue."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue to update."),
					mcplib.Required(),
				),
				mcplib.WithString("summary",
					mcplib.Description("New summary. Leave empty to keep the current one."),
				),
				mcplib.WithString("description",
					mcplib.Description("New description. Leave empty to keep the current one."),
				),
				mcplib.WithString("labels",
					mcplib.Description("Comma-separated labels that replace the current set."),
				),
			),
			desc: tools.Descriptor{
				Name:        "jira_update_issue",
				Description: "Update fields on an existing Jira issue",
				Service:     tools.ServiceJira,
				Mutates:     true,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				issueKey := req.GetString("issue_key", "")
				update := &jira.IssueUpdate{Fields: map[string]any{}}
				if v := req.GetString("summary", ""); v != "" {
					update.Fields["summary"] = v
				}
				if v := req.GetString("description", ""); v != "" {
					update.Fields["description"] = v
				}
				if v := req.GetString("labels", ""); v != "" {
					update.Fields["labels"] = splitCSV(v)
				}
				if err := client.UpdateIssue(ctx, issueKey, update); err != nil {
					return nil, err
				}
				return "Issue " + issueKey + " updated", nil
			}),
		},
		{
			tool: mcplib.NewTool("jira_delete_issue",
				mcplib.WithDescription("Delete a Jira issue permanently."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue to delete."),
					mcplib.Required(),
				),
				mcplib.WithDestructiveHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "jira_delete_issue",
				Description: "Delete a Jira issue permanently",
				Service:     tools.ServiceJira,
				Mutates:     true,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				issueKey := req.GetString("issue_key", "")
				if err := client.DeleteIssue(ctx, issueKey); err != nil {
					return nil, err
				}
				return "Issue " + issueKey + " deleted", nil
			}),
		},
		{
			tool: mcplib.NewTool("jira_add_comment",
				mcplib.WithDescription("Add a comment to a Jira issue."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue to comment on."),
					mcplib.Required(),
				),
				mcplib.WithString("comment",
					mcplib.Description("Comment body."),
					mcplib.Required(),
				),
			),
			desc: tools.Descriptor{
				Name:        "jira_add_comment",
				Description: "Add a comment to a Jira issue",
				Service:     tools.ServiceJira,
				Mutates:     true,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				return client.AddComment(ctx, req.GetString("issue_key", ""), req.GetString("comment", ""))
			}),
		},
		{
			tool: mcplib.NewTool("jira_get_transitions",
				mcplib.WithDescription("List the workflow transitions currently available for a Jira issue."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue."),
					mcplib.Required(),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "jira_get_transitions",
				Description: "List available workflow transitions for a Jira issue",
				Service:     tools.ServiceJira,
				Mutates:     false,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetTransitions(ctx, req.GetString("issue_key", ""))
			}),
		},
		{
			tool: mcplib.NewTool("jira_transition_issue",
				mcplib.WithDescription("Move a Jira issue through a workflow transition."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue to transition."),
					mcplib.Required(),
				),
				mcplib.WithString("transition_id",
					mcplib.Description("ID of the transition to perform, from jira_get_transitions."),
					mcplib.Required(),
				),
				mcplib.WithString("comment",
					mcplib.Description("Optional comment to add with the transition."),
				),
			),
			desc: tools.Descriptor{
				Name:        "jira_transition_issue",
				Description: "Move a Jira issue through a workflow transition",
				Service:     tools.ServiceJira,
				Mutates:     true,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				issueKey := req.GetString("issue_key", "")
				err := client.TransitionIssue(ctx, issueKey,
					req.GetString("transition_id", ""),
					req.GetString("comment", ""))
				if err != nil {
					return nil, err
				}
				return "Issue " + issueKey + " transitioned", nil
			}),
		},
		{
			tool: mcplib.NewTool("jira_add_worklog",
				mcplib.WithDescription("Log work time against a Jira issue."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue to log work on."),
					mcplib.Required(),
				),
				mcplib.WithString("time_spent",
					mcplib.Description("Time spent, e.g. '1h 30m', '2d', '90m', or a number of seconds with an 's' suffix."),
					mcplib.Required(),
				),
				mcplib.WithString("comment",
					mcplib.Description("Optional worklog comment."),
				),
				mcplib.WithString("started",
					mcplib.Description("When the work started, RFC 3339 or epoch milliseconds. Defaults to now."),
				),
			),
			desc: tools.Descriptor{
				Name:        "jira_add_worklog",
				Description: "Log work time against a Jira issue",
				Service:     tools.ServiceJira,
				Mutates:     true,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				return client.AddWorklog(ctx,
					req.GetString("issue_key", ""),
					req.GetString("time_spent", ""),
					req.GetString("comment", ""),
					req.GetString("started", ""))
			}),
		},
		{
			tool: mcplib.NewTool("jira_get_worklogs",
				mcplib.WithDescription("List the worklog entries recorded on a Jira issue."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue."),
					mcplib.Required(),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "jira_get_worklogs",
				Description: "List worklog entries recorded on a Jira issue",
				Service:     tools.ServiceJira,
				Mutates:     false,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetWorklogs(ctx, req.GetString("issue_key", ""))
			}),
		},
		{
			tool: mcplib.NewTool("jira_get_issue_dates",
				mcplib.WithDescription("Get the key dates of a Jira issue along with its status change history and time spent per status."),
				mcplib.WithString("issue_key",
					mcplib.Description("Key of the issue."),
					mcplib.Required(),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "jira_get_issue_dates",
				Description: "Get issue dates, status history, and time spent per status",
				Service:     tools.ServiceJira,
				Mutates:     false,
			},
			handler: jiraHandler(func(ctx context.Context, client *jira.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetIssueDates(ctx, req.GetString("issue_key", ""))
			}),
		},
	}
}

// splitCSV splits a comma-separated value into trimmed non-empty parts.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
