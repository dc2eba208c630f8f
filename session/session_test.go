package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MusicStore/cart"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(rdb, time.Hour)
}

func TestSessionSlots(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()
	s := store.Open("abc", "")

	got, err := s.Get(ctx, "CartId")
	if err != nil || got != "" {
		t.Fatalf("unset slot = %q, %v", got, err)
	}

	if err := s.Set(ctx, "CartId", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := s.Get(ctx, "CartId"); got != "value" {
		t.Fatalf("Get = %q", got)
	}
	if ttl := mr.TTL("session:abc"); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("session:abc") {
		t.Fatal("session should be gone after Clear")
	}
}

func TestResolveOwnerKeyWithRedisSession(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	t.Run("anonymous visitor keeps one uuid", func(t *testing.T) {
		s := store.Open("anon-session", "")
		first, err := cart.ResolveOwnerKey(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		second, _ := cart.ResolveOwnerKey(ctx, store.Open("anon-session", ""))
		if first == "" || first != second {
			t.Fatalf("keys differ: %q %q", first, second)
		}
	})

	t.Run("signed in visitor uses the user name", func(t *testing.T) {
		key, err := cart.ResolveOwnerKey(ctx, store.Open("user-session", "alice"))
		if err != nil || key != "alice" {
			t.Fatalf("key = %q, %v", key, err)
		}
	})

	t.Run("bound key survives", func(t *testing.T) {
		s := store.Open("bound-session", "")
		_, _ = cart.ResolveOwnerKey(ctx, s)
		if err := cart.BindOwnerKey(ctx, s, "bob"); err != nil {
			t.Fatal(err)
		}
		key, _ := cart.ResolveOwnerKey(ctx, store.Open("bound-session", "bob"))
		if key != "bob" {
			t.Fatalf("key = %q, want bob", key)
		}
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, store := newTestStore(t)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			c.Set("Username", c.GetHeader("X-User"))
		}
	})
	router.Use(Middleware(store, "session_id", false))
	router.GET("/", func(c *gin.Context) {
		s, ok := FromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, s.ID()+"|"+s.UserName())
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session_id" || cookies[0].Value == "" {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}
	id := cookies[0].Value
	if w.Body.String() != id+"|" {
		t.Fatalf("body = %q", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: id})
	req.Header.Set("X-User", "alice")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() != id+"|alice" {
		t.Fatalf("existing session not reused: %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "not-a-uuid"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() == "not-a-uuid|" {
		t.Fatal("malformed session id must be replaced")
	}
}
