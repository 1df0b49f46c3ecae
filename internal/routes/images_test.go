package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"realestate/internal/models"
)

type upload struct {
	name string
	body string
}

func (e *testEnv) upload(path, token string, files ...upload) *httptest.ResponseRecorder {
	e.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("images", f.name)
		if err != nil {
			e.t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte(f.body))
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) storedFiles() int {
	e.t.Helper()
	entries, err := os.ReadDir(e.uploads)
	if err != nil {
		e.t.Fatalf("read upload dir: %v", err)
	}
	return len(entries)
}

func imagesOf(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	images, ok := body["data"].(map[string]interface{})["images"].([]interface{})
	if !ok {
		t.Fatalf("expected images in %v", body["data"])
	}
	return images
}

func TestUploadAndDeletePropertyImages(t *testing.T) {
	e := newTestEnv(t)
	owner, ownerToken := e.user("Owner", "owner@example.com", models.RoleUser)
	_, otherToken := e.user("Other", "other@example.com", models.RoleUser)
	p := e.listing(owner.ID, "Photogenic", models.PropertyTypeHouse, 1, true)
	path := "/api/properties/" + p.ID.Hex() + "/images"

	body := e.expect(e.upload(path, ownerToken, upload{"front.PNG", "png-bytes"}, upload{"garden.jpg", "jpg-bytes"}), http.StatusOK)
	images := imagesOf(t, body)
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %v", images)
	}
	first := images[0].(map[string]interface{})
	publicID := first["publicId"].(string)
	if filepath.Ext(publicID) != ".png" || first["url"] != "http://api.test/uploads/"+publicID {
		t.Fatalf("unexpected image record %v", first)
	}
	if e.storedFiles() != 2 {
		t.Fatalf("expected 2 stored files, got %d", e.storedFiles())
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+publicID, nil))
	if w.Code != http.StatusOK || w.Body.String() != "png-bytes" {
		t.Fatalf("expected stored image to be served, got %d %q", w.Code, w.Body.String())
	}

	body = e.expect(e.upload(path, ownerToken, upload{"ok.webp", "webp"}, upload{"anim.gif", "gif"}), http.StatusBadRequest)
	if body["error"] != "unsupported image type: .gif" {
		t.Fatalf("unexpected error %v", body["error"])
	}
	if e.storedFiles() != 2 {
		t.Fatalf("rejected batch must store nothing, got %d files", e.storedFiles())
	}

	body = e.expect(e.upload(path, otherToken, upload{"intruder.png", "png"}), http.StatusForbidden)
	if body["error"] != "User not authorized to update this property" {
		t.Fatalf("unexpected error %v", body["error"])
	}
	if e.storedFiles() != 2 {
		t.Fatalf("forbidden upload must store nothing, got %d files", e.storedFiles())
	}

	e.expect(e.upload(path, ownerToken), http.StatusBadRequest)

	e.expect(e.do(http.MethodDelete, path+"/"+publicID, otherToken, nil), http.StatusForbidden)
	e.expect(e.do(http.MethodDelete, path+"/missing.png", ownerToken, nil), http.StatusNotFound)
	e.expect(e.do(http.MethodDelete, path+"/bad..png", ownerToken, nil), http.StatusBadRequest)

	body = e.expect(e.do(http.MethodDelete, path+"/"+publicID, ownerToken, nil), http.StatusOK)
	if images := imagesOf(t, body); len(images) != 1 {
		t.Fatalf("expected 1 image left, got %v", images)
	}
	if _, err := os.Stat(filepath.Join(e.uploads, publicID)); !os.IsNotExist(err) {
		t.Fatalf("expected stored file removed, stat err=%v", err)
	}
	e.expect(e.do(http.MethodDelete, path+"/"+publicID, ownerToken, nil), http.StatusNotFound)
}
