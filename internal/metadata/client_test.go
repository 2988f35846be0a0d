package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctree/internal/doctype"
)

type fakeAPI struct {
	t *testing.T

	mu        sync.Mutex
	authSeen  []string
	fieldReqs []string

	mainNames  []string
	childNames []string
	fields     map[string][]map[string]any
}

func (f *fakeAPI) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/resource/DocType", f.handleDoctypes)
	mux.HandleFunc("/api/resource/DocField", f.handleFields)
	return httptest.NewServer(mux)
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
	f.mu.Unlock()
}

// Handlers run on server goroutines, so they stick to assert, which
// only records failures.
func parseFilters(t *testing.T, r *http.Request) [][]string {
	var filters [][]string
	assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters))
	return filters
}

func (f *fakeAPI) handleDoctypes(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	filters := parseFilters(f.t, r)
	if !assert.Len(f.t, filters, 2) {
		http.Error(w, "bad filters", http.StatusBadRequest)
		return
	}
	assert.Equal(f.t, []string{"module", "=", "Highways"}, filters[0])
	assert.Equal(f.t, "istable", filters[1][0])

	names := f.mainNames
	if filters[1][1] == "=" {
		names = f.childNames
	}
	rows := make([]map[string]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, map[string]string{"name": n})
	}
	writeData(w, rows)
}

func (f *fakeAPI) handleFields(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	assert.Equal(f.t, "DocType", r.URL.Query().Get("parent"))

	var want []string
	assert.NoError(f.t, json.Unmarshal([]byte(r.URL.Query().Get("fields")), &want))
	assert.Equal(f.t, []string{"fieldname", "label", "fieldtype", "options", "hidden"}, want)

	filters := parseFilters(f.t, r)
	if !assert.NotEmpty(f.t, filters) {
		http.Error(w, "bad filters", http.StatusBadRequest)
		return
	}
	assert.Equal(f.t, "parent", filters[0][0])
	name := filters[0][2]
	excluded := make([]string, 0, 3)
	for _, fl := range filters[1:] {
		excluded = append(excluded, fl[2])
	}
	assert.ElementsMatch(f.t, []string{"Section Break", "Column Break", "Tab Break"}, excluded)

	f.mu.Lock()
	f.fieldReqs = append(f.fieldReqs, name)
	f.mu.Unlock()
	writeData(w, f.fields[name])
}

func writeData(w http.ResponseWriter, rows any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": rows})
}

func TestFetchDefinitions(t *testing.T) {
	api := &fakeAPI{
		t:          t,
		mainNames:  []string{"Contract", "City"},
		childNames: []string{"Contract Item", "Contract"},
		fields: map[string][]map[string]any{
			"Contract": {
				{"fieldname": "supplier", "label": "Fornecedor", "fieldtype": "Data", "options": "", "hidden": 0},
				{"fieldname": "secret", "label": "Interno", "fieldtype": "Data", "options": "", "hidden": 1},
				{"fieldname": "items", "label": "Itens", "fieldtype": "Table", "options": "Contract Item", "hidden": 0},
			},
			"City":          {},
			"Contract Item": {{"fieldname": "qty", "label": "Quantidade", "fieldtype": "Int", "options": "", "hidden": 0}},
		},
	}
	srv := api.server()
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/resource/", "token abc:123", WithWorkers(3))
	require.NoError(t, err)

	defs, err := client.FetchDefinitions(context.Background(), "Highways")
	require.NoError(t, err)

	require.Len(t, defs, 3, "duplicate listings collapse to one definition")
	assert.Equal(t, "Contract", defs[0].Name)
	assert.Equal(t, "City", defs[1].Name)
	assert.Equal(t, "Contract Item", defs[2].Name)

	require.Len(t, defs[0].Fields, 2, "hidden fields are dropped")
	assert.Equal(t, "supplier", defs[0].Fields[0].Fieldname)
	assert.Equal(t, doctype.Field{
		Fieldname: "items", Label: "Itens", Fieldtype: "Table", Options: "Contract Item",
	}, defs[0].Fields[1])
	assert.Empty(t, defs[1].Fields)

	api.mu.Lock()
	auths := append([]string(nil), api.authSeen...)
	fieldReqs := append([]string(nil), api.fieldReqs...)
	api.mu.Unlock()

	for _, auth := range auths {
		assert.Equal(t, "token abc:123", auth, "token goes out verbatim")
	}
	assert.ElementsMatch(t, []string{"Contract", "City", "Contract Item"}, fieldReqs)
}

func TestFetchDefinitionsEmptyModule(t *testing.T) {
	api := &fakeAPI{t: t, fields: map[string][]map[string]any{}}
	srv := api.server()
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/resource", "t")
	require.NoError(t, err)

	defs, err := client.FetchDefinitions(context.Background(), "Highways")
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestFetchDefinitionsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprintln(w, `{"exc_type":"PermissionError"}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/resource", "bad token")
	require.NoError(t, err)

	_, err = client.FetchDefinitions(context.Background(), "Highways")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "listDoctypes", httpErr.Op)
	assert.Contains(t, httpErr.Snippet, "PermissionError")
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("", "t")
	require.Error(t, err)

	_, err = NewClient("   ", "t")
	require.Error(t, err)

	c, err := NewClient("host.example.com/api/resource", "t")
	require.NoError(t, err)
	assert.Equal(t, "https", c.baseURL.Scheme)
	assert.Equal(t, "/api/resource", c.baseURL.Path)
}

func TestFetchFieldsOrderPreserved(t *testing.T) {
	api := &fakeAPI{
		t:          t,
		mainNames:  []string{"A", "B", "C", "D", "E"},
		childNames: nil,
		fields: map[string][]map[string]any{
			"A": {{"fieldname": "a1", "label": "A1", "fieldtype": "Data", "options": "", "hidden": 0}},
			"B": {}, "C": {}, "D": {}, "E": {},
		},
	}
	srv := api.server()
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/resource", "t", WithWorkers(5))
	require.NoError(t, err)

	defs, err := client.FetchDefinitions(context.Background(), "Highways")
	require.NoError(t, err)

	got := make([]string, len(defs))
	for i, d := range defs {
		got[i] = d.Name
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, got,
		"concurrent field fetches keep the listing order")
}
