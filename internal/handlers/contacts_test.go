package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"realestate/internal/middleware"
	"realestate/internal/models"
	"realestate/internal/store"
	"realestate/internal/store/mocks"
	"realestate/internal/store/storetest"
)

func contactRouter(stores store.Stores) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(false))
	r.GET("/api/contact/:id", GetContact(stores))
	return r
}

func TestGetContactMarksReadAndPopulatesReplier(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := mocks.NewMockContactStore(ctrl)

	db := storetest.New()
	stores := db.Stores()
	stores.Contacts = contacts

	admin := models.User{Name: "Admin", Email: "admin@example.com", Phone: "555", Role: models.RoleAdmin, IsActive: true}
	if err := stores.Users.Create(context.Background(), &admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	id := primitive.NewObjectID()
	repliedAt := time.Now().UTC()
	contacts.EXPECT().
		MarkRead(gomock.Any(), id).
		Return(models.Contact{
			ID:           id,
			Name:         "Alice",
			Email:        "alice@example.com",
			Subject:      "Viewing",
			Message:      "Can I visit on Sunday?",
			Status:       models.ContactStatusReplied,
			Replied:      true,
			ReplyMessage: "Yes",
			RepliedAt:    &repliedAt,
			RepliedBy:    &admin.ID,
		}, nil)

	w := httptest.NewRecorder()
	contactRouter(stores).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact/"+id.Hex(), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool               `json:"success"`
		Data    models.ContactView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Success || resp.Data.RepliedBy == nil {
		t.Fatalf("expected populated repliedBy, got %s", w.Body.String())
	}
	if resp.Data.RepliedBy.Name != "Admin" || resp.Data.RepliedBy.Phone != "" {
		t.Fatalf("expected replier name without phone, got %+v", resp.Data.RepliedBy)
	}
}

func TestGetContactNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := mocks.NewMockContactStore(ctrl)
	stores := storetest.New().Stores()
	stores.Contacts = contacts

	id := primitive.NewObjectID()
	contacts.EXPECT().MarkRead(gomock.Any(), id).Return(models.Contact{}, store.ErrNotFound)

	w := httptest.NewRecorder()
	contactRouter(stores).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact/"+id.Hex(), nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["success"] != false || resp["error"] != "Contact message not found with id of "+id.Hex() {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetContactRejectsMalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	stores := storetest.New().Stores()
	stores.Contacts = mocks.NewMockContactStore(ctrl)

	w := httptest.NewRecorder()
	contactRouter(stores).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact/not-an-id", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", w.Code)
	}
}

func TestGetContactStoreFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := mocks.NewMockContactStore(ctrl)
	stores := storetest.New().Stores()
	stores.Contacts = contacts

	id := primitive.NewObjectID()
	contacts.EXPECT().MarkRead(gomock.Any(), id).Return(models.Contact{}, errors.New("socket closed"))

	w := httptest.NewRecorder()
	contactRouter(stores).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact/"+id.Hex(), nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestEnsureDBConnectionReportsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	pinger := mocks.NewMockPinger(ctrl)
	pinger.EXPECT().Ping(gomock.Any()).Return(errors.New("no reachable servers"))

	err := ensureDBConnection(context.Background(), pinger)
	if err == nil || err.(interface{ Status() int }).Status() != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 error, got %v", err)
	}
}
