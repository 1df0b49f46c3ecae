// Package maintenance finishes cascading user deletes that were interrupted
// and removes listings whose owner no longer exists.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/store"
)

// Result counts what one sweep removed.
type Result struct {
	Users      int
	Properties int64
}

type Sweeper struct {
	users      store.UserStore
	properties store.PropertyStore
	cron       *cron.Cron
}

func NewSweeper(users store.UserStore, properties store.PropertyStore) *Sweeper {
	return &Sweeper{
		users:      users,
		properties: properties,
		cron:       cron.New(),
	}
}

// Run completes every pending user delete, then drops orphaned listings.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	var res Result

	pending, err := s.users.PendingDeletion(ctx)
	if err != nil {
		return res, fmt.Errorf("list pending deletions: %w", err)
	}
	for _, id := range pending {
		removed, err := s.users.DeleteCascade(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return res, fmt.Errorf("finish delete of user %s: %w", id.Hex(), err)
		}
		res.Users++
		res.Properties += removed
	}

	owners, err := s.properties.DistinctOwners(ctx)
	if err != nil {
		return res, fmt.Errorf("list owners: %w", err)
	}
	existing, err := s.users.ExistingIDs(ctx, owners)
	if err != nil {
		return res, fmt.Errorf("resolve owners: %w", err)
	}
	orphans := missing(owners, existing)
	if len(orphans) > 0 {
		removed, err := s.properties.DeleteByOwners(ctx, orphans)
		if err != nil {
			return res, fmt.Errorf("delete orphaned properties: %w", err)
		}
		res.Properties += removed
	}

	if res.Users > 0 || res.Properties > 0 {
		log.Printf("[SWEEP] [INFO] removed %d users and %d properties", res.Users, res.Properties)
	}
	return res, nil
}

// Start schedules Run on spec. An empty spec schedules nothing.
func (s *Sweeper) Start(ctx context.Context, spec string) error {
	if spec == "" {
		return nil
	}
	log.Printf("[SWEEP] [INFO] scheduling sweep with cron: %s", spec)
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Run(ctx); err != nil {
			log.Printf("[SWEEP] [ERROR] scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func missing(all, present []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(present))
	for _, id := range present {
		seen[id] = true
	}
	var out []primitive.ObjectID
	for _, id := range all {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
