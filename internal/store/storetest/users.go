package storetest

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

type UserStore struct{ db *DB }

var _ store.UserStore = UserStore{}

func (s UserStore) Create(_ context.Context, user *models.User) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range db.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	now := db.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	db.users = append(db.users, cloneUser(*user))
	return nil
}

func (s UserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.userIndex(id)
	if i < 0 {
		return models.User{}, store.ErrNotFound
	}
	return cloneUser(s.db.users[i]), nil
}

func (s UserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s UserStore) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	for _, id := range ids {
		if i := s.db.userIndex(id); i >= 0 {
			out[id] = s.db.users[i].Summary()
		}
	}
	return out, nil
}

func (s UserStore) ExistingIDs(_ context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []primitive.ObjectID{}
	for _, id := range ids {
		if s.db.userIndex(id) >= 0 {
			out = append(out, id)
		}
	}
	return out, nil
}

func matchUser(u models.User, f store.UserFilter) bool {
	if u.PendingDeletion {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if !matchBool(u.IsActive, f.IsActive) {
		return false
	}
	if f.CreatedSince != nil && u.CreatedAt.Before(*f.CreatedSince) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Search)) &&
		!strings.Contains(u.Email, strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func userField(u models.User, name string) any {
	switch name {
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "role":
		return u.Role
	case "isActive":
		return u.IsActive
	case "updatedAt":
		return u.UpdatedAt
	default:
		return u.CreatedAt
	}
}

func (s UserStore) List(_ context.Context, filter store.UserFilter, opts store.ListOptions) (store.Page[models.User], error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	matches := []models.User{}
	for _, u := range s.db.users {
		if matchUser(u, filter) {
			matches = append(matches, cloneUser(u))
		}
	}
	return paginate(matches, opts, userField, []store.SortField{{Field: "createdAt", Desc: true}}), nil
}

func (s UserStore) Count(_ context.Context, filter store.UserFilter) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, u := range s.db.users {
		if matchUser(u, filter) {
			n++
		}
	}
	return n, nil
}

func (s UserStore) Update(_ context.Context, id primitive.ObjectID, update store.UserUpdate) (models.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.userIndex(id)
	if i < 0 {
		return models.User{}, store.ErrNotFound
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		for j, u := range db.users {
			if j != i && u.Email == email {
				return models.User{}, store.ErrDuplicate
			}
		}
		db.users[i].Email = email
	}
	u := &db.users[i]
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	u.UpdatedAt = db.now()
	return cloneUser(*u), nil
}

func (s UserStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.userIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.users[i].PasswordHash = hash
	s.db.users[i].UpdatedAt = s.db.now()
	return nil
}

func (s UserStore) ToggleActive(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.userIndex(id)
	if i < 0 {
		return models.User{}, store.ErrNotFound
	}
	s.db.users[i].IsActive = !s.db.users[i].IsActive
	s.db.users[i].UpdatedAt = s.db.now()
	return cloneUser(s.db.users[i]), nil
}

func (s UserStore) AddFavorite(_ context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.userIndex(userID)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	if !s.db.users[i].HasFavorite(propertyID) {
		s.db.users[i].Favorites = append(s.db.users[i].Favorites, propertyID)
	}
	return cloneIDs(s.db.users[i].Favorites), nil
}

func (s UserStore) RemoveFavorite(_ context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.userIndex(userID)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	kept := []primitive.ObjectID{}
	for _, id := range s.db.users[i].Favorites {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	s.db.users[i].Favorites = kept
	return cloneIDs(kept), nil
}

func (s UserStore) DeleteCascade(_ context.Context, id primitive.ObjectID) (int64, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.userIndex(id)
	if i < 0 {
		return 0, store.ErrNotFound
	}
	db.users[i].PendingDeletion = true

	var removed int64
	kept := db.properties[:0]
	for _, p := range db.properties {
		if p.Owner == id {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	db.properties = kept

	if db.InterruptCascade {
		return removed, ErrInterrupted
	}
	db.users = append(db.users[:i], db.users[i+1:]...)
	return removed, nil
}

func (s UserStore) PendingDeletion(context.Context) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []primitive.ObjectID{}
	for _, u := range s.db.users {
		if u.PendingDeletion {
			out = append(out, u.ID)
		}
	}
	return out, nil
}
