package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"mcpatlassian/internal/confluence"
	"mcpatlassian/internal/tools"
)

// confluenceToolDefs returns every Confluence tool the server knows about.
func confluenceToolDefs() []toolDef {
	return []toolDef{
		{
			tool: mcplib.NewTool("confluence_search",
				mcplib.WithDescription("Search Confluence content using CQL (Confluence Query Language)."),
				mcplib.WithString("cql",
					mcplib.Description("CQL query string, e.g. 'space = DOCS AND title ~ \"release\"'."),
					mcplib.Required(),
				),
				mcplib.WithNumber("limit",
					mcplib.Description("Maximum number of results to return."),
					mcplib.DefaultNumber(confluence.DefaultSearchLimit),
					mcplib.Min(1),
					mcplib.Max(100),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "confluence_search",
				Description: "Search Confluence content using CQL",
				Service:     tools.ServiceConfluence,
				Mutates:     false,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.SearchPages(ctx,
					req.GetString("cql", ""),
					req.GetInt("limit", confluence.DefaultSearchLimit))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_get_page",
				mcplib.WithDescription("Get a Confluence page by ID, including its storage-format body."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the page to fetch."),
					mcplib.Required(),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "confluence_get_page",
				Description: "Get a Confluence page by ID",
				Service:     tools.ServiceConfluence,
				Mutates:     false,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetPage(ctx, req.GetString("page_id", ""))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_create_page",
				mcplib.WithDescription("Create a new Confluence page."),
				mcplib.WithString("space_key",
					mcplib.Description("Key of the space to create the page in."),
					mcplib.Required(),
				),
				mcplib.WithString("title",
					mcplib.Description("Title of the new page."),
					mcplib.Required(),
				),
				mcplib.WithString("body",
					mcplib.Description("Page body in Confluence storage format."),
					mcplib.Required(),
				),
				mcplib.WithString("parent_id",
					mcplib.Description("Optional ID of a parent page to nest under."),
				),
			),
			desc: tools.Descriptor{
				Name:        "confluence_create_page",
				Description: "Create a new Confluence page",
				Service:     tools.ServiceConfluence,
				Mutates:     true,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.CreatePage(ctx,
					req.GetString("space_key", ""),
					req.GetString("title", ""),
					req.GetString("body", ""),
					req.GetString("parent_id", ""))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_update_page",
				mcplib.WithDescription("Update the body and optionally the title of a Confluence page."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the page to update."),
					mcplib.Required(),
				),
				mcplib.WithString("body",
					mcplib.Description("New page body in Confluence storage format."),
					mcplib.Required(),
				),
				mcplib.WithString("title",
					mcplib.Description("New title. Leave empty to keep the current one."),
				),
			),
			desc: tools.Descriptor{
				Name:        "confluence_update_page",
				Description: "Update the body of a Confluence page",
				Service:     tools.ServiceConfluence,
				Mutates:     true,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.UpdatePage(ctx,
					req.GetString("page_id", ""),
					req.GetString("title", ""),
					req.GetString("body", ""))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_delete_page",
				mcplib.WithDescription("Delete a Confluence page permanently."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the page to delete."),
					mcplib.Required(),
				),
				mcplib.WithDestructiveHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "confluence_delete_page",
				Description: "Delete a Confluence page permanently",
				Service:     tools.ServiceConfluence,
				Mutates:     true,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				pageID := req.GetString("page_id", "")
				if err := client.DeletePage(ctx, pageID); err != nil {
					return nil, err
				}
				return "Page " + pageID + " deleted", nil
			}),
		},
		{
			tool: mcplib.NewTool("confluence_add_comment",
				mcplib.WithDescription("Add a comment to a Confluence page."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the page to comment on."),
					mcplib.Required(),
				),
				mcplib.WithString("comment",
					mcplib.Description("Comment body in Confluence storage format."),
					mcplib.Required(),
				),
			),
			desc: tools.Descriptor{
				Name:        "confluence_add_comment",
				Description: "Add a comment to a Confluence page",
				Service:     tools.ServiceConfluence,
				Mutates:     true,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.AddComment(ctx,
					req.GetString("page_id", ""),
					req.GetString("comment", ""))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_get_comments",
				mcplib.WithDescription("List the comments on a Confluence page."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the page."),
					mcplib.Required(),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "confluence_get_comments",
				Description: "List the comments on a Confluence page",
				Service:     tools.ServiceConfluence,
				Mutates:     false,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetComments(ctx, req.GetString("page_id", ""))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_get_children",
				mcplib.WithDescription("List the direct child pages of a Confluence page."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the parent page."),
					mcplib.Required(),
				),
				mcplib.WithNumber("limit",
					mcplib.Description("Maximum number of children to return."),
					mcplib.DefaultNumber(confluence.DefaultSearchLimit),
					mcplib.Min(1),
					mcplib.Max(100),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "confluence_get_children",
				Description: "List the direct child pages of a Confluence page",
				Service:     tools.ServiceConfluence,
				Mutates:     false,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetChildren(ctx,
					req.GetString("page_id", ""),
					req.GetInt("limit", confluence.DefaultSearchLimit))
			}),
		},
		{
			tool: mcplib.NewTool("confluence_get_page_views",
				mcplib.WithDescription("Get view statistics for a Confluence page. Requires Confluence Cloud; other deployments report zero views."),
				mcplib.WithString("page_id",
					mcplib.Description("ID of the page."),
					mcplib.Required(),
				),
				mcplib.WithBoolean("include_title",
					mcplib.Description("Fetch and include the page title."),
					mcplib.DefaultBool(true),
				),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			desc: tools.Descriptor{
				Name:        "confluence_get_page_views",
				Description: "Get view statistics for a Confluence page",
				Service:     tools.ServiceConfluence,
				Mutates:     false,
			},
			handler: confluenceHandler(func(ctx context.Context, client *confluence.Client, req mcplib.CallToolRequest) (any, error) {
				return client.GetPageViews(ctx,
					req.GetString("page_id", ""),
					req.GetBool("include_title", true))
			}),
		},
	}
}
