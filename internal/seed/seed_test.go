package seed

import (
	"context"
	"testing"

	"realestate/internal/auth"
	"realestate/internal/models"
	"realestate/internal/store"
	"realestate/internal/store/storetest"
)

func TestApplySeedFile(t *testing.T) {
	f, err := Load("testdata/seed.yaml")
	if err != nil {
		t.Fatalf("load seed failed: %v", err)
	}

	ctx := context.Background()
	db := storetest.New()
	stores := db.Stores()

	res, err := Apply(ctx, stores, f)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if res != (Result{Users: 3, Properties: 3, Contacts: 2}) {
		t.Fatalf("unexpected result: %+v", res)
	}

	admin, err := stores.Users.FindByEmail(ctx, "admin@newdayrealty.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != models.RoleAdmin || !admin.IsActive {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if !auth.CheckPassword(admin.PasswordHash, "admin123") {
		t.Fatal("expected admin password to be hashed from seed")
	}

	jane, err := stores.Users.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("jane not created: %v", err)
	}
	if jane.Role != models.RoleUser {
		t.Fatalf("expected default role user, got %q", jane.Role)
	}

	owned, err := stores.Properties.List(ctx, store.PropertyFilter{Owner: &admin.ID}, store.ListOptions{Page: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if owned.Total != 2 {
		t.Fatalf("expected admin to own 2 properties, got %d", owned.Total)
	}
	for _, p := range owned.Items {
		if p.Floors != 1 || p.AreaUnit != models.AreaUnitSqft {
			t.Fatalf("expected defaults applied, got floors=%d areaUnit=%q", p.Floors, p.AreaUnit)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	f, err := Load("testdata/seed.yaml")
	if err != nil {
		t.Fatalf("load seed failed: %v", err)
	}
	ctx := context.Background()
	stores := storetest.New().Stores()

	if _, err := Apply(ctx, stores, f); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	f.Contacts = nil
	res, err := Apply(ctx, stores, f)
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if res.Users != 0 || res.Properties != 0 {
		t.Fatalf("expected nothing new on second apply, got %+v", res)
	}
}

func TestParseRejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing password", "users:\n  - email: a@example.com\n"},
		{"unknown role", "users:\n  - email: a@example.com\n    password: x\n    role: root\n"},
		{"unknown type", "properties:\n  - owner: a@example.com\n    type: Castle\n"},
		{"missing owner", "properties:\n  - type: Villa\n"},
		{"bad yaml", "users: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestApplyRejectsUnknownOwner(t *testing.T) {
	f, err := Parse([]byte("properties:\n  - owner: nobody@example.com\n    title: Lost\n    type: Land\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := Apply(context.Background(), storetest.New().Stores(), f); err == nil {
		t.Fatal("expected unknown owner to fail")
	}
}
