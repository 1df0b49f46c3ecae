package maintenance

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
	"realestate/internal/store/storetest"
)

func seedOwner(t *testing.T, db *storetest.DB, email string, listings int) models.User {
	t.Helper()
	ctx := context.Background()
	user := models.User{Name: "Owner", Email: email, Role: models.RoleUser, IsActive: true}
	if err := db.Stores().Users.Create(ctx, &user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	for i := 0; i < listings; i++ {
		p := models.Property{Title: "Listing", Type: models.PropertyTypeHouse, Owner: user.ID, Approved: true, IsActive: true}
		if err := db.Stores().Properties.Create(ctx, &p); err != nil {
			t.Fatalf("create property failed: %v", err)
		}
	}
	return user
}

func countOwned(t *testing.T, db *storetest.DB, owner primitive.ObjectID) int64 {
	t.Helper()
	n, err := db.Stores().Properties.Count(context.Background(), store.PropertyFilter{Owner: &owner})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestSweeperFinishesInterruptedCascade(t *testing.T) {
	ctx := context.Background()
	db := storetest.New()
	stores := db.Stores()
	victim := seedOwner(t, db, "victim@example.com", 3)
	keeper := seedOwner(t, db, "keeper@example.com", 2)

	db.InterruptCascade = true
	if _, err := stores.Users.DeleteCascade(ctx, victim.ID); !errors.Is(err, storetest.ErrInterrupted) {
		t.Fatalf("expected interrupted cascade, got %v", err)
	}
	db.InterruptCascade = false

	if _, err := stores.Users.FindByID(ctx, victim.ID); err != nil {
		t.Fatalf("expected user to survive the interrupted cascade, got %v", err)
	}

	res, err := NewSweeper(stores.Users, stores.Properties).Run(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if res.Users != 1 {
		t.Fatalf("expected 1 finished user delete, got %+v", res)
	}
	if _, err := stores.Users.FindByID(ctx, victim.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected user to be gone after sweep, got %v", err)
	}
	if n := countOwned(t, db, victim.ID); n != 0 {
		t.Fatalf("expected no properties for deleted user, got %d", n)
	}
	if n := countOwned(t, db, keeper.ID); n != 2 {
		t.Fatalf("expected other owner to keep 2 properties, got %d", n)
	}
}

func TestSweeperRemovesOrphanedProperties(t *testing.T) {
	ctx := context.Background()
	db := storetest.New()
	stores := db.Stores()
	keeper := seedOwner(t, db, "keeper@example.com", 1)

	ghost := primitive.NewObjectID()
	db.Insert(models.Property{Title: "Orphan 1", Owner: ghost})
	db.Insert(models.Property{Title: "Orphan 2", Owner: ghost})

	res, err := NewSweeper(stores.Users, stores.Properties).Run(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if res.Properties != 2 || res.Users != 0 {
		t.Fatalf("expected 2 orphaned properties removed, got %+v", res)
	}
	if n := countOwned(t, db, ghost); n != 0 {
		t.Fatalf("expected orphans to be removed, got %d", n)
	}
	if n := countOwned(t, db, keeper.ID); n != 1 {
		t.Fatalf("expected owned property to remain, got %d", n)
	}
}

func TestSweeperNoopOnConsistentData(t *testing.T) {
	db := storetest.New()
	stores := db.Stores()
	seedOwner(t, db, "owner@example.com", 2)

	res, err := NewSweeper(stores.Users, stores.Properties).Run(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if res != (Result{}) {
		t.Fatalf("expected nothing removed, got %+v", res)
	}
}

func TestStartRejectsInvalidCron(t *testing.T) {
	db := storetest.New()
	s := NewSweeper(db.Stores().Users, db.Stores().Properties)
	if err := s.Start(context.Background(), "not a cron"); err == nil {
		t.Fatal("expected invalid cron expression to fail")
	}
	if err := s.Start(context.Background(), ""); err != nil {
		t.Fatalf("expected empty spec to be accepted, got %v", err)
	}
	if err := s.Start(context.Background(), "@every 1h"); err != nil {
		t.Fatalf("expected valid spec, got %v", err)
	}
	s.Stop()
}
