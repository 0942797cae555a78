package jira

import (
	"fmt"
	"strings"
)

// ApplyProjectsFilter merges a comma-separated list of project keys into a
// JQL query.
//
// Rules:
//   - empty filter leaves the query untouched
//   - empty query becomes a bare project clause
//   - a query starting with ORDER BY gets the project clause prepended
//   - a query already filtering on project is left alone
//   - anything else is wrapped and ANDed with the project clause
func ApplyProjectsFilter(jql, projectsFilter string) string {
	if projectsFilter == "" {
		return jql
	}

	var projects []string
	for _, p := range strings.Split(projectsFilter, ",") {
		if key := strings.TrimSpace(p); key != "" {
			projects = append(projects, key)
		}
	}
	if len(projects) == 0 {
		return jql
	}

	var projectClause string
	if len(projects) == 1 {
		projectClause = fmt.Sprintf("project = %q", projects[0])
	} else {
		quoted := make([]string, len(projects))
		for i, p := range projects {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		projectClause = fmt.Sprintf("project IN (%s)", strings.Join(quoted, ", "))
	}

	trimmed := strings.TrimSpace(jql)
	switch {
	case trimmed == "":
		return projectClause
	case strings.HasPrefix(strings.ToUpper(trimmed), "ORDER BY"):
		return projectClause + " " + trimmed
	case strings.Contains(strings.ToLower(trimmed), "project = ") ||
		strings.Contains(strings.ToLower(trimmed), "project in"):
		return trimmed
	default:
		return fmt.Sprintf("(%s) AND %s", trimmed, projectClause)
	}
}
