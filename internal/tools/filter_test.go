package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDescriptors() []Descriptor {
	return []Descriptor{
		{Name: "jira_search", Service: ServiceJira, Mutates: false},
		{Name: "jira_get_issue", Service: ServiceJira, Mutates: false},
		{Name: "jira_create_issue", Service: ServiceJira, Mutates: true},
		{Name: "confluence_search", Service: ServiceConfluence, Mutates: false},
		{Name: "confluence_create_page", Service: ServiceConfluence, Mutates: true},
	}
}

func bothServices() map[Service]bool {
	return map[Service]bool{ServiceJira: true, ServiceConfluence: true}
}

func TestEffectiveSetAllowList(t *testing.T) {
	// enabledNames = {"jira_get_issue"}, readOnly=false, both services
	// configured: the effective set is exactly that one tool.
	cfg := FilterConfig{
		Enabled:  []string{"jira_get_issue"},
		Services: bothServices(),
	}

	got := EffectiveSet(sampleDescriptors(), cfg)
	require.Len(t, got, 1)
	assert.Contains(t, got, "jira_get_issue")
}

func TestEffectiveSetUnknownNamesIgnored(t *testing.T) {
	cfg := FilterConfig{
		Enabled:  []string{"jira_search", "totally_unknown_tool"},
		Services: bothServices(),
	}

	got := EffectiveSet(sampleDescriptors(), cfg)
	require.Len(t, got, 1)
	assert.Contains(t, got, "jira_search")
}

func TestEffectiveSetReadOnly(t *testing.T) {
	// enabledNames unset, readOnly=true, only Jira configured: all Jira
	// read tools survive, every write tool is dropped.
	cfg := FilterConfig{
		ReadOnly: true,
		Services: map[Service]bool{ServiceJira: true},
	}

	got := EffectiveSet(sampleDescriptors(), cfg)
	assert.Contains(t, got, "jira_search")
	assert.Contains(t, got, "jira_get_issue")
	assert.NotContains(t, got, "jira_create_issue")
	assert.NotContains(t, got, "confluence_search")

	for _, desc := range got {
		assert.False(t, desc.Mutates, "read-only set must not contain %s", desc.Name)
	}
}

func TestEffectiveSetServiceAvailability(t *testing.T) {
	cfg := FilterConfig{
		Services: map[Service]bool{ServiceConfluence: true},
	}

	got := EffectiveSet(sampleDescriptors(), cfg)
	assert.Contains(t, got, "confluence_search")
	assert.Contains(t, got, "confluence_create_page")
	for name, desc := range got {
		assert.Equal(t, ServiceConfluence, desc.Service, "unexpected tool %s", name)
	}
}

func TestEffectiveSetCanBeEmpty(t *testing.T) {
	// Filtering away everything is not an error.
	cfg := FilterConfig{
		Enabled:  []string{"jira_create_issue"},
		ReadOnly: true,
		Services: bothServices(),
	}

	got := EffectiveSet(sampleDescriptors(), cfg)
	assert.Empty(t, got)
}

func TestEffectiveSetNoServicesConfigured(t *testing.T) {
	got := EffectiveSet(sampleDescriptors(), FilterConfig{})
	assert.Empty(t, got)
}

func TestEffectiveSetIdempotent(t *testing.T) {
	cfg := FilterConfig{
		Enabled:  []string{"jira_search", "confluence_search", "jira_create_issue"},
		ReadOnly: true,
		Services: bothServices(),
	}

	first := EffectiveSet(sampleDescriptors(), cfg)
	second := EffectiveSet(sampleDescriptors(), cfg)
	assert.Equal(t, first, second)
}

func TestEffectiveSetPredicatesIntersect(t *testing.T) {
	tests := []struct {
		name string
		cfg  FilterConfig
		want []string
	}{
		{
			name: "all filters pass everything through",
			cfg:  FilterConfig{Services: bothServices()},
			want: []string{"jira_search", "jira_get_issue", "jira_create_issue", "confluence_search", "confluence_create_page"},
		},
		{
			name: "allow-list and read-only combine",
			cfg: FilterConfig{
				Enabled:  []string{"jira_search", "jira_create_issue"},
				ReadOnly: true,
				Services: bothServices(),
			},
			want: []string{"jira_search"},
		},
		{
			name: "allow-list and service availability combine",
			cfg: FilterConfig{
				Enabled:  []string{"jira_search", "confluence_search"},
				Services: map[Service]bool{ServiceJira: true},
			},
			want: []string{"jira_search"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveSet(sampleDescriptors(), tt.cfg)
			require.Len(t, got, len(tt.want))
			for _, name := range tt.want {
				assert.Contains(t, got, name)
			}
		})
	}
}
