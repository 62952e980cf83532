package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

func newFakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestUserIndex_NilClientIsNoop(t *testing.T) {
	x := NewUserIndex(nil, "users")
	assert.NoError(t, x.Index(context.Background(), &entity.User{ID: "u1"}))
	docs, err := x.Search(context.Background(), "ana", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUserIndex_IndexOmitsPassword(t *testing.T) {
	var body map[string]any
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/_doc/u1", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	x := NewUserIndex(es, "users")
	u := &entity.User{ID: "u1", Email: "ana@factory.test", Password: "secret-hash", Role: entity.RoleAccountant, UpdatedAt: time.Now()}

	require.NoError(t, x.Index(context.Background(), u))
	assert.Equal(t, "ana@factory.test", body["email"])
	assert.Equal(t, "accountant", body["role"])
	assert.NotContains(t, body, "password")
}

func TestUserIndex_Search(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/_search", r.URL.Path)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"u1","_source":{"id":"u1","email":"ana@factory.test","name":"Ana","role":"accountant"}}]}}`))
	})
	x := NewUserIndex(es, "users")

	docs, err := x.Search(context.Background(), "ana", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ana", docs[0].Name)
}

func TestUserIndex_SearchErrorStatus(t *testing.T) {
	es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	x := NewUserIndex(es, "users")
	_, err := x.Search(context.Background(), "ana", 5)
	assert.Error(t, err)
}
