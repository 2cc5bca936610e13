package rest

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCollectRequestBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/collect", strings.NewReader(`{"season":"2024-25","quick_test":true}`))

	season, opts := parseCollectRequest(r)
	assert.Equal(t, "2024-25", season)
	require.NotNil(t, opts)
	assert.True(t, opts.QuickTest)
}

func TestParseCollectRequestQuery(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/collect?season=2023-24&quick_test=1", nil)

	season, opts := parseCollectRequest(r)
	assert.Equal(t, "2023-24", season)
	require.NotNil(t, opts)
	assert.True(t, opts.QuickTest)
}

func TestParseCollectRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/collect?season=2024-25", nil)

	season, opts := parseCollectRequest(r)
	assert.Equal(t, "2024-25", season)
	assert.Nil(t, opts, "absent quick_test leaves the configured default in force")

	r = httptest.NewRequest("POST", "/api/v1/collect", strings.NewReader(`{"season":"2024-25","quick_test":false}`))
	_, opts = parseCollectRequest(r)
	require.NotNil(t, opts)
	assert.False(t, opts.QuickTest, "an explicit false overrides a quick-test default")
}

func TestRouterRegistersTeamReadRoutes(t *testing.T) {
	s := NewServer("0", nil, nil, nil)

	var templates []string
	router := s.server.Handler.(*mux.Router)
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			templates = append(templates, tmpl)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Contains(t, templates, "/api/v1/collect")
	assert.Contains(t, templates, "/api/v1/teams/{teamID}/injuries")
	assert.Contains(t, templates, "/api/v1/teams/{teamID}/rest")
	assert.Contains(t, templates, "/api/v1/teams/{teamID}/games/recent")
}
