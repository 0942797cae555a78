// Package tools holds the tool registry and the filter engine that computes
// which registered tools a given configuration actually exposes.
package tools

// Service identifies the Atlassian product a tool talks to.
type Service int

const (
	ServiceJira Service = iota
	ServiceConfluence
)

// String returns the lowercase service name used in tool tags and config.
func (s Service) String() string {
	switch s {
	case ServiceJira:
		return "jira"
	case ServiceConfluence:
		return "confluence"
	default:
		return "unknown"
	}
}

// Descriptor describes one registered tool: its unique name, the service it
// belongs to, and whether invoking it mutates server-side state.
type Descriptor struct {
	Name        string
	Description string
	Service     Service
	Mutates     bool
}

// Tags returns the descriptor's classification tags. Every tool carries its
// service name and exactly one of "read" or "write".
func (d Descriptor) Tags() []string {
	rw := "read"
	if d.Mutates {
		rw = "write"
	}
	return []string{d.Service.String(), rw}
}
