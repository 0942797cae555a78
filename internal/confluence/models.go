package confluence

// Page is a Confluence content item (page or comment) as returned by the
// REST API.
type Page struct {
	ID      string   `json:"id"`
	Type    string   `json:"type,omitempty"`
	Status  string   `json:"status,omitempty"`
	Title   string   `json:"title"`
	Space   *Space   `json:"space,omitempty"`
	Version *Version `json:"version,omitempty"`
	Body    *Body    `json:"body,omitempty"`
	Links   *Links   `json:"_links,omitempty"`
}

// Space is a Confluence space reference.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Version tracks a page's edit revision. Updates must send the next
// number or Confluence rejects the write.
type Version struct {
	Number  int    `json:"number"`
	When    string `json:"when,omitempty"`
	Message string `json:"message,omitempty"`
}

// Body holds the page content in storage format.
type Body struct {
	Storage *Storage `json:"storage,omitempty"`
}

// Storage is Confluence's XHTML storage representation.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Links carries the web UI link for a content item.
type Links struct {
	WebUI string `json:"webui,omitempty"`
	Base  string `json:"base,omitempty"`
}

// SearchResults is the response of a CQL search.
type SearchResults struct {
	Results []Page `json:"results"`
	Start   int    `json:"start"`
	Limit   int    `json:"limit"`
	Size    int    `json:"size"`
}

// pageCreate is the request body for creating content.
type pageCreate struct {
	Type      string      `json:"type"`
	Title     string      `json:"title"`
	Space     *Space      `json:"space,omitempty"`
	Body      *Body       `json:"body,omitempty"`
	Ancestors []ancestor  `json:"ancestors,omitempty"`
	Container *container  `json:"container,omitempty"`
}

// pageUpdate is the request body for updating content.
type pageUpdate struct {
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Version *Version `json:"version"`
	Body    *Body    `json:"body"`
}

type ancestor struct {
	ID string `json:"id"`
}

type container struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// CurrentUser is the authenticated user, used as a reachability probe.
type CurrentUser struct {
	Username    string `json:"username,omitempty"`
	AccountID   string `json:"accountId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}
