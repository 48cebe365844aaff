// File: internal/sonar/client_test.go
package sonar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/hotspot-cli/internal/sonar"
)

func newTestClient(t *testing.T, serverURL, token string) *sonar.Client {
	t.Helper()
	c, err := sonar.NewClient(sonar.ClientConfig{
		BaseURL: serverURL,
		Token:   token,
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsInvalidURL(t *testing.T) {
	for name, raw := range map[string]string{
		"bad scheme": "ftp://host:21",
		"no scheme":  "localhost:9000",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := sonar.NewClient(sonar.ClientConfig{BaseURL: raw})
			assert.Error(t, err)
		})
	}
}

func TestSearch_SendsAuthAndPagingParams(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"p":       r.URL.Query().Get("p"),
			"ps":      r.URL.Query().Get("ps"),
			"project": r.URL.Query().Get("project"),
		}
		assert.Equal(t, "/api/hotspots/search", r.URL.Path)
		_ = json.NewEncoder(w).Encode(&sonar.SearchResponse{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "squ_testtoken")
	_, err := c.Search(context.Background(), "pf", 3, 500)
	require.NoError(t, err)

	assert.Equal(t, "Bearer squ_testtoken", gotAuth)
	assert.Equal(t, map[string]string{"p": "3", "ps": "500", "project": "pf"}, gotQuery)
}

func TestSearch_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(&sonar.SearchResponse{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	_, err := c.Search(context.Background(), "pf", 1, 500)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestSearch_NonSuccessStatusIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient privileges", http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	resp, err := c.Search(context.Background(), "pf", 1, 500)

	require.Error(t, err)
	assert.Nil(t, resp)

	var statusErr *sonar.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hotspots": "not-an-array"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	_, err := c.Search(context.Background(), "pf", 1, 500)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed search response")
}

func TestSearch_DecodesOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"paging": {"pageIndex": 1, "pageSize": 500, "total": 1},
			"hotspots": [{"ruleKey": "go:S2068", "component": "pf:main.go", "line": 42, "message": "m"}],
			"components": [{"key": "pf:main.go", "longName": "cmd/main.go"}]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	resp, err := c.Search(context.Background(), "pf", 1, 500)
	require.NoError(t, err)

	require.Len(t, resp.Hotspots, 1)
	h := resp.Hotspots[0]
	assert.Equal(t, "go:S2068", h.RuleKey)
	require.NotNil(t, h.Line)
	assert.Equal(t, 42, *h.Line)
	// Omitted optional fields stay empty; the aggregator substitutes.
	assert.Empty(t, h.Status)
	assert.Empty(t, h.VulnerabilityProbability)
	assert.Empty(t, h.SecurityCategory)
}

// TestFetchAll_OverHTTP drives the full paginated loop against a real
// HTTP server, two pages deep.
func TestFetchAll_OverHTTP(t *testing.T) {
	page := func(n, index, total int) *sonar.SearchResponse {
		resp := &sonar.SearchResponse{Paging: sonar.Paging{PageIndex: index, PageSize: 5, Total: total}}
		for i := 0; i < n; i++ {
			line := i + 1
			resp.Hotspots = append(resp.Hotspots, sonar.Hotspot{
				RuleKey:   "go:S4830",
				Component: "pf:tls.go",
				Line:      &line,
				Message:   "server certificates should be verified",
			})
		}
		return resp
	}

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		p, err := strconv.Atoi(r.URL.Query().Get("p"))
		require.NoError(t, err)
		switch p {
		case 1:
			_ = json.NewEncoder(w).Encode(page(5, 1, 7))
		case 2:
			_ = json.NewEncoder(w).Encode(page(2, 2, 7))
		default:
			t.Errorf("unexpected page request: %d", p)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	f := sonar.NewFetcher(c, "pf", 5, nil)
	rs, err := f.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	assert.Len(t, rs.Hotspots, 7)
	assert.Equal(t, sonar.Paging{PageIndex: 2, PageSize: 5, Total: 7}, rs.Paging)
}

func TestFetchAll_TransportFailureOnSecondPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") == "1" {
			resp := &sonar.SearchResponse{Paging: sonar.Paging{PageIndex: 1, PageSize: 1, Total: 2}}
			line := 10
			resp.Hotspots = []sonar.Hotspot{{RuleKey: "r", Component: "c", Line: &line, Message: "m"}}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	f := sonar.NewFetcher(c, "pf", 1, nil)
	rs, err := f.FetchAll(context.Background())

	require.Error(t, err)
	assert.Nil(t, rs)
	assert.Equal(t, sonar.StateFailed, f.State())
}

func TestSearch_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "pf", 1, 500)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
