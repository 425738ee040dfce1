package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfon/eureka/internal/feed"
)

func TestFetchPage(t *testing.T) {
	t.Run("sends cursor and limit", func(t *testing.T) {
		var gotQuery map[string][]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			next := "20"
			json.NewEncoder(w).Encode(feed.Page{
				Items:      []feed.Idea{{ID: 11, ProjectName: "GreenGrid"}},
				NextCursor: &next,
			})
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		page, err := c.FetchPage(context.Background(), "10", 10)
		require.NoError(t, err)

		assert.Equal(t, []string{"10"}, gotQuery["cursor"])
		assert.Equal(t, []string{"10"}, gotQuery["limit"])
		require.Len(t, page.Items, 1)
		assert.Equal(t, 11, page.Items[0].ID)
		require.NotNil(t, page.NextCursor)
		assert.Equal(t, "20", *page.NextCursor)
	})

	t.Run("omits an empty cursor", func(t *testing.T) {
		var gotQuery map[string][]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(feed.Page{Items: []feed.Idea{}})
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		page, err := c.FetchPage(context.Background(), "", 10)
		require.NoError(t, err)

		assert.NotContains(t, gotQuery, "cursor")
		assert.Empty(t, page.Items)
		assert.Nil(t, page.NextCursor)
	})

	t.Run("maps 401 to ErrUnauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		_, err = c.FetchPage(context.Background(), "", 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Failed to load ideas"}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		_, err = c.FetchPage(context.Background(), "", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}

func TestEstablishSession(t *testing.T) {
	t.Run("stores the session cookie for later requests", func(t *testing.T) {
		var feedCookie string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/set-token":
				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "tok-1", req["idToken"])
				http.SetCookie(w, &http.Cookie{Name: "idToken", Value: req["idToken"], Path: "/"})
				w.WriteHeader(http.StatusNoContent)
			case "/api/ideas":
				if cookie, err := r.Cookie("idToken"); err == nil {
					feedCookie = cookie.Value
				}
				json.NewEncoder(w).Encode(feed.Page{Items: []feed.Idea{}})
			}
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		require.NoError(t, c.EstablishSession(context.Background(), "tok-1"))

		_, err = c.FetchPage(context.Background(), "", 10)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", feedCookie)
	})

	t.Run("rejected token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		assert.ErrorIs(t, c.EstablishSession(context.Background(), "bad"), ErrUnauthorized)
	})
}

func TestClearSession(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	require.NoError(t, c.ClearSession(context.Background()))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestRegisterUsername(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ada", req["username"])
			json.NewEncoder(w).Encode(map[string]bool{"success": true})
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		assert.NoError(t, c.RegisterUsername(context.Background(), "tok-1", "ada"))
	})

	t.Run("conflict maps to ErrUsernameTaken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Username already exists"}`, http.StatusConflict)
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		err = c.RegisterUsername(context.Background(), "tok-1", "ada")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("bad token maps to ErrUnauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c, err := New(srv.URL)
		require.NoError(t, err)

		err = c.RegisterUsername(context.Background(), "bad", "ada")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestSubmitIdea(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var idea feed.Idea
		require.NoError(t, json.NewDecoder(r.Body).Decode(&idea))
		assert.Equal(t, "GreenGrid", idea.ProjectName)
		json.NewEncoder(w).Encode(map[string]int{"id": 42})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	id, err := c.SubmitIdea(context.Background(), &feed.Idea{ProjectName: "GreenGrid"})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}
