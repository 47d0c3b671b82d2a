package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxadmin/pkg/platform/sentinel"
)

func newRegistryServer(t *testing.T, citizens []CitizenRecord) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/citizen", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(citizens))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientLookup(t *testing.T) {
	srv := newRegistryServer(t, []CitizenRecord{
		{NIK: "3174012345670001", Name: "Adi Nugroho", Gender: "male", DateOfBirth: "1990-01-15"},
		{NIK: "3174012345670002", Name: "Siti Rahma", Gender: "female", DateOfBirth: "1988-06-02"},
	})
	client := NewHTTPClient(srv.URL, time.Second)

	citizen, err := client.Lookup(context.Background(), "3174012345670002")
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", citizen.Name)
	assert.Equal(t, "female", citizen.Gender)
	assert.Equal(t, "1988-06-02", citizen.DateOfBirth)
}

func TestHTTPClientLookupMatchesCaseInsensitively(t *testing.T) {
	srv := newRegistryServer(t, []CitizenRecord{{NIK: "AB123", Name: "Adi"}})
	client := NewHTTPClient(srv.URL, time.Second)

	citizen, err := client.Lookup(context.Background(), "ab123")
	require.NoError(t, err)
	assert.Equal(t, "Adi", citizen.Name)
}

func TestHTTPClientLookupMiss(t *testing.T) {
	srv := newRegistryServer(t, []CitizenRecord{{NIK: "AB123", Name: "Adi"}})
	client := NewHTTPClient(srv.URL, time.Second)

	_, err := client.Lookup(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestHTTPClientRegistryFailure(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)
		client := NewHTTPClient(srv.URL, time.Second)

		_, err := client.Lookup(context.Background(), "AB123")
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		t.Cleanup(srv.Close)
		client := NewHTTPClient(srv.URL, time.Second)

		_, err := client.Lookup(context.Background(), "AB123")
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		client := NewHTTPClient(srv.URL, time.Second)

		_, err := client.Lookup(context.Background(), "AB123")
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

func TestStaticClient(t *testing.T) {
	client := NewStaticClient(CitizenRecord{NIK: "AB123", Name: "Adi"})

	citizen, err := client.Lookup(context.Background(), "ab123")
	require.NoError(t, err)
	assert.Equal(t, "Adi", citizen.Name)

	_, err = client.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
