package tools

// FilterConfig captures the configuration that decides which registered
// tools are exposed. It is built once per process (or per session in
// multi-tenant HTTP mode) and never mutated afterwards.
type FilterConfig struct {
	// Enabled is an explicit allow-list of tool names. Empty means all
	// tools are eligible. Names that match no registered tool are ignored.
	Enabled []string

	// ReadOnly suppresses every tool that mutates state.
	ReadOnly bool

	// Services marks which Atlassian products are configured and
	// reachable. Tools of absent services are dropped.
	Services map[Service]bool
}

// EffectiveSet computes the set of exposed tools from the full descriptor
// list and a filter configuration.
//
// It is a pure function: no hidden state, identical inputs give identical
// output. The three predicates (allow-list, read-only, service
// availability) are independent and all must pass; their order does not
// affect the result. An empty result is valid and means no tools are
// exposed.
func EffectiveSet(all []Descriptor, cfg FilterConfig) map[string]Descriptor {
	var allowed map[string]bool
	if len(cfg.Enabled) > 0 {
		allowed = make(map[string]bool, len(cfg.Enabled))
		for _, name := range cfg.Enabled {
			allowed[name] = true
		}
	}

	effective := make(map[string]Descriptor)
	for _, desc := range all {
		if allowed != nil && !allowed[desc.Name] {
			continue
		}
		if cfg.ReadOnly && desc.Mutates {
			continue
		}
		if !cfg.Services[desc.Service] {
			continue
		}
		effective[desc.Name] = desc
	}
	return effective
}
