package confluence

import (
	"context"
	"errors"
	"net/url"
	"time"

	"mcpatlassian/internal/atlassian"
)

// PageViews holds view statistics for one page. The Analytics API this
// reads from exists on Confluence Cloud only.
type PageViews struct {
	PageID     string     `json:"page_id"`
	PageTitle  string     `json:"page_title,omitempty"`
	TotalViews int        `json:"total_views"`
	LastViewed *time.Time `json:"last_viewed,omitempty"`
}

type pageViewsResponse struct {
	Count    int    `json:"count"`
	LastSeen string `json:"lastSeen,omitempty"`
}

// GetPageViews fetches view statistics for a page. The page title is
// fetched best-effort when includeTitle is set. Credential rejections
// propagate; other upstream failures degrade to zero views, since
// Server and Data Center instances do not serve the Analytics API.
func (c *Client) GetPageViews(ctx context.Context, pageID string, includeTitle bool) (*PageViews, error) {
	views := &PageViews{PageID: pageID}

	if includeTitle {
		if page, err := c.GetPage(ctx, pageID); err == nil {
			views.PageTitle = page.Title
		}
	}

	var resp pageViewsResponse
	path := "/rest/api/analytics/content/" + url.PathEscape(pageID) + "/views"
	if err := c.rest.Get(ctx, "get_page_views", path, &resp); err != nil {
		var apiErr *atlassian.APIError
		if errors.As(err, &apiErr) && apiErr.IsAuthError() {
			return nil, err
		}
		return views, nil
	}

	views.TotalViews = resp.Count
	if resp.LastSeen != "" {
		if last, err := time.Parse(time.RFC3339, resp.LastSeen); err == nil {
			views.LastViewed = &last
		}
	}
	return views, nil
}
