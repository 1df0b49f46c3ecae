package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
	"realestate/internal/auth"
	"realestate/internal/models"
	"realestate/internal/store/storetest"
)

const testSecret = "test-secret"

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(true), Recovery())
	r.GET("/test", append(handlers, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "role": user.Role})
	})...)
	return r
}

func createUser(t *testing.T, db *storetest.DB, role string, active bool) (models.User, string) {
	t.Helper()
	user := models.User{Name: "Tester", Email: role + "@example.com", Role: role, IsActive: active}
	if err := db.Stores().Users.Create(context.Background(), &user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, err := auth.IssueAccessToken(user.ID, role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return user, token
}

func doRequest(r http.Handler, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestProtectRejectsMissingAndInvalidTokens(t *testing.T) {
	db := storetest.New()
	r := newTestRouter(Protect(db.Stores().Users, testSecret))

	for _, token := range []string{"", "garbage"} {
		w, body := doRequest(r, token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, w.Code)
		}
		if body["success"] != false || body["error"] != notAuthorized {
			t.Fatalf("unexpected envelope %v", body)
		}
	}
}

func TestProtectRejectsDeactivatedUser(t *testing.T) {
	db := storetest.New()
	_, token := createUser(t, db, models.RoleUser, false)
	r := newTestRouter(Protect(db.Stores().Users, testSecret))

	w, _ := doRequest(r, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestProtectRejectsTokenOfDeletedUser(t *testing.T) {
	db := storetest.New()
	user, token := createUser(t, db, models.RoleUser, true)
	if _, err := db.Stores().Users.DeleteCascade(context.Background(), user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	r := newTestRouter(Protect(db.Stores().Users, testSecret))

	w, body := doRequest(r, token)
	if w.Code != http.StatusUnauthorized || body["error"] != "User not found" {
		t.Fatalf("expected 401 user not found, got %d %v", w.Code, body)
	}
}

func TestAuthorizeDistinguishesForbidden(t *testing.T) {
	db := storetest.New()
	_, userToken := createUser(t, db, models.RoleUser, true)
	_, adminToken := createUser(t, db, models.RoleAdmin, true)
	r := newTestRouter(Protect(db.Stores().Users, testSecret), AdminOnly())

	w, body := doRequest(r, userToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", w.Code)
	}
	if body["error"] != "User role 'user' is not authorized to access this route" {
		t.Fatalf("unexpected message %v", body["error"])
	}

	w, body = doRequest(r, adminToken)
	if w.Code != http.StatusOK || body["role"] != "admin" {
		t.Fatalf("expected admin to pass, got %d %v", w.Code, body)
	}
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	db := storetest.New()
	_, token := createUser(t, db, models.RoleUser, true)
	r := newTestRouter(OptionalAuth(db.Stores().Users, testSecret))

	w, body := doRequest(r, "garbage")
	if w.Code != http.StatusOK || body["authenticated"] != false {
		t.Fatalf("expected anonymous pass-through, got %d %v", w.Code, body)
	}

	w, body = doRequest(r, token)
	if w.Code != http.StatusOK || body["authenticated"] != true {
		t.Fatalf("expected authenticated pass-through, got %d %v", w.Code, body)
	}
}

func TestErrorHandlerHidesInternalMessagesInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		production bool
		want       string
	}{
		{true, genericServerError},
		{false, "db exploded"},
	} {
		r := gin.New()
		r.Use(ErrorHandler(tc.production))
		r.GET("/test", func(c *gin.Context) {
			abortWith(c, errors.New("db exploded"))
		})

		w, body := doRequest(r, "")
		if w.Code != http.StatusInternalServerError || body["error"] != tc.want {
			t.Fatalf("production=%v: got %d %v", tc.production, w.Code, body)
		}
	}
}

func TestErrorHandlerKeepsTypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(true))
	r.GET("/test", func(c *gin.Context) {
		abortWith(c, apperr.NotFound("Property", "42"))
	})

	w, body := doRequest(r, "")
	if w.Code != http.StatusNotFound || body["error"] != "Property not found with id of 42" {
		t.Fatalf("unexpected response %d %v", w.Code, body)
	}
}

func TestRecoveryProducesEnvelope(t *testing.T) {
	r := newTestRouter(func(c *gin.Context) { panic("boom") })

	w, body := doRequest(r, "")
	if w.Code != http.StatusInternalServerError || body["success"] != false {
		t.Fatalf("expected 500 envelope, got %d %v", w.Code, body)
	}
}

func TestRequestLoggerSetsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w, _ := doRequest(r, "")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected %s header", RequestIDHeader)
	}
}
