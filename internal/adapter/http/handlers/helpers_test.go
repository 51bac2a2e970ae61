package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"clean_cloak/internal/adapter/http/middleware"
	"clean_cloak/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

var (
	clientActor  = entities.Actor{ID: "client-1", Role: entities.RoleClient}
	cleanerActor = entities.Actor{ID: "cleaner-1", Role: entities.RoleCleaner}
	adminActor   = entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}
)

// newRouter registers h under method/path, authenticating every request as actor when it is non-zero.
func newRouter(actor entities.Actor, method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if actor.ID != "" {
			c.Set(middleware.ContextActor, actor)
		}
		c.Next()
	}, h)
	return r
}

func perform(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", w.Body.String(), err)
	}
	return body
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, w.Code, w.Body.String())
	}
}
