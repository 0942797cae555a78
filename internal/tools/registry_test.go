package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{Name: "jira_get_issue", Service: ServiceJira}
	handler := func() {}

	require.NoError(t, r.Register(desc, handler))

	got, err := r.Lookup("jira_get_issue")
	require.NoError(t, err)
	assert.Equal(t, desc, got.Descriptor)
	assert.NotNil(t, got.Handler)
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{Name: "jira_search", Service: ServiceJira}
	require.NoError(t, r.Register(desc, nil))

	err := r.Register(desc, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))
}

func TestMustRegister(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{Name: "jira_search", Service: ServiceJira}
	assert.NotPanics(t, func() {
		r.MustRegister(desc, nil)
	})

	assert.Panics(t, func() {
		r.MustRegister(desc, nil)
	})
}

func TestRegisterEmptyName(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Descriptor{}, nil)
	assert.Error(t, err)
}

func TestLookupUnknownName(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("no_such_tool")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	// ErrNotFound and ErrToolNotAvailable must stay distinguishable.
	assert.False(t, errors.Is(err, ErrToolNotAvailable))
}

func TestAllSortedByName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Descriptor{Name: "jira_search", Service: ServiceJira}, nil))
	require.NoError(t, r.Register(Descriptor{Name: "confluence_search", Service: ServiceConfluence}, nil))
	require.NoError(t, r.Register(Descriptor{Name: "jira_get_issue", Service: ServiceJira}, nil))

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "confluence_search", all[0].Name)
	assert.Equal(t, "jira_get_issue", all[1].Name)
	assert.Equal(t, "jira_search", all[2].Name)
}

func TestDescriptorTags(t *testing.T) {
	read := Descriptor{Name: "jira_search", Service: ServiceJira, Mutates: false}
	write := Descriptor{Name: "confluence_create_page", Service: ServiceConfluence, Mutates: true}

	assert.Equal(t, []string{"jira", "read"}, read.Tags())
	assert.Equal(t, []string{"confluence", "write"}, write.Tags())
}
