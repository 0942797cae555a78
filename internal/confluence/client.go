// Package confluence wraps the Confluence REST API into a typed fetcher
// bound to one credential context.
package confluence

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"mcpatlassian/internal/atlassian"
)

// DefaultSearchLimit caps search results when the caller does not ask for
// a specific page size.
const DefaultSearchLimit = 25

// Client is a Confluence fetcher: one instance per credential context.
type Client struct {
	rest *atlassian.Client
}

// NewClient builds a Confluence fetcher. The httpClient must already carry
// authentication.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		rest: atlassian.NewClient("confluence", baseURL, httpClient),
	}
}

// BaseURL returns the Confluence instance root.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL()
}

// Ping verifies the instance is reachable with the bound credentials.
func (c *Client) Ping(ctx context.Context) error {
	var user CurrentUser
	return c.rest.Get(ctx, "ping", "/rest/api/user/current", &user)
}

// SearchPages runs a CQL search over content.
func (c *Client) SearchPages(ctx context.Context, cql string, limit int) (*SearchResults, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{}
	query.Set("cql", cql)
	query.Set("limit", strconv.Itoa(limit))

	var results SearchResults
	if err := c.rest.Get(ctx, "search", "/rest/api/content/search?"+query.Encode(), &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// GetPage retrieves a page with its storage-format body and version.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	query := url.Values{}
	query.Set("expand", "body.storage,version,space")

	var page Page
	path := "/rest/api/content/" + url.PathEscape(pageID) + "?" + query.Encode()
	if err := c.rest.Get(ctx, "get_page", path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePage creates a page in a space, optionally under a parent page.
func (c *Client) CreatePage(ctx context.Context, spaceKey, title, body, parentID string) (*Page, error) {
	create := pageCreate{
		Type:  "page",
		Title: title,
		Space: &Space{Key: spaceKey},
		Body: &Body{
			Storage: &Storage{Value: body, Representation: "storage"},
		},
	}
	if parentID != "" {
		create.Ancestors = []ancestor{{ID: parentID}}
	}

	var page Page
	if err := c.rest.Post(ctx, "create_page", "/rest/api/content", create, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage replaces a page's title and body. Confluence requires the
// next version number, so the current page is fetched first.
func (c *Client) UpdatePage(ctx context.Context, pageID, title, body string) (*Page, error) {
	current, err := c.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	nextVersion := 1
	if current.Version != nil {
		nextVersion = current.Version.Number + 1
	}
	if title == "" {
		title = current.Title
	}

	update := pageUpdate{
		Type:    "page",
		Title:   title,
		Version: &Version{Number: nextVersion},
		Body: &Body{
			Storage: &Storage{Value: body, Representation: "storage"},
		},
	}

	var page Page
	path := "/rest/api/content/" + url.PathEscape(pageID)
	if err := c.rest.Put(ctx, "update_page", path, update, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeletePage deletes a page by id.
func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	return c.rest.Delete(ctx, "delete_page", "/rest/api/content/"+url.PathEscape(pageID))
}

// AddComment attaches a comment to a page. The body is storage-format
// XHTML.
func (c *Client) AddComment(ctx context.Context, pageID, body string) (*Page, error) {
	create := pageCreate{
		Type:      "comment",
		Container: &container{ID: pageID, Type: "page"},
		Body: &Body{
			Storage: &Storage{Value: body, Representation: "storage"},
		},
	}

	var comment Page
	if err := c.rest.Post(ctx, "add_comment", "/rest/api/content", create, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetComments lists the comments on a page.
func (c *Client) GetComments(ctx context.Context, pageID string) ([]Page, error) {
	query := url.Values{}
	query.Set("expand", "body.storage,version")

	var results SearchResults
	path := "/rest/api/content/" + url.PathEscape(pageID) + "/child/comment?" + query.Encode()
	if err := c.rest.Get(ctx, "get_comments", path, &results); err != nil {
		return nil, err
	}
	return results.Results, nil
}

// GetChildren lists the direct child pages of a page.
func (c *Client) GetChildren(ctx context.Context, pageID string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var results SearchResults
	path := "/rest/api/content/" + url.PathEscape(pageID) + "/child/page?" + query.Encode()
	if err := c.rest.Get(ctx, "get_children", path, &results); err != nil {
		return nil, err
	}
	return results.Results, nil
}
