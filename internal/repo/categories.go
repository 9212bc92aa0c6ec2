package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"fintrack/internal/bus"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type CategoryRepo struct {
	store  *storage.Store
	bus    bus.Bus
	logger *log.Logger
}

// GetAll returns the user's categories ordered by name.
func (r *CategoryRepo) GetAll(ctx context.Context, userID string) ([]core.Category, error) {
	categories, err := storage.ReadList[core.Category](ctx, r.store, userID, KindCategories)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, userID, id string) (core.Category, error) {
	categories, err := r.GetAll(ctx, userID)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
}

func (r *CategoryRepo) Upsert(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	c.UserID = userID
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	categories, err := storage.ReadList[core.Category](ctx, r.store, userID, KindCategories)
	if err != nil {
		return core.Category{}, fmt.Errorf("load categories: %w", err)
	}
	categories = replaceOrAppend(categories, func(x core.Category) string { return x.ID }, c, c.ID)

	if err := storage.WriteList(ctx, r.store, userID, KindCategories, categories); err != nil {
		return core.Category{}, fmt.Errorf("save categories: %w", err)
	}

	publish(ctx, r.bus, r.logger, userID)
	return c, nil
}

func (r *CategoryRepo) Remove(ctx context.Context, userID, id string) error {
	categories, err := storage.ReadList[core.Category](ctx, r.store, userID, KindCategories)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	categories, removed := removeByID(categories, func(x core.Category) string { return x.ID }, id)
	if !removed {
		return nil
	}
	if err := storage.WriteList(ctx, r.store, userID, KindCategories, categories); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	publish(ctx, r.bus, r.logger, userID)
	return nil
}
