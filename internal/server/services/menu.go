package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/dmitrijs2005/bhojanbox/internal/server/cache"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/repomanager"
	"golang.org/x/sync/singleflight"
)

// MenuService serves the catalog. Listings go through the cache when one is
// configured; any cache failure falls back to the database.
type MenuService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.MenuCache
	images      ImageSigner
	logger      logging.Logger
	sfg         singleflight.Group
}

// NewMenuService builds a MenuService. menuCache and images may be nil.
func NewMenuService(db *sql.DB, m repomanager.RepositoryManager, menuCache cache.MenuCache, images ImageSigner, logger logging.Logger) *MenuService {
	return &MenuService{
		db:          db,
		repomanager: m,
		cache:       menuCache,
		images:      images,
		logger:      logger.With("module", "menu"),
	}
}

func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	v, err, _ := s.sfg.Do("items", func() (any, error) {
		// Shared by every coalesced caller, so one cancellation must not fail them all.
		ctx := context.WithoutCancel(ctx)
		if s.cache != nil {
			items, err := s.cache.Items(ctx)
			if err == nil {
				return items, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.logger.Warn(ctx, "menu cache read failed", "error", err)
			}
		}

		items, err := s.repomanager.Menu(s.db).ListItems(ctx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetItems(ctx, items); err != nil {
				s.logger.Warn(ctx, "menu cache write failed", "error", err)
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, v.([]models.MenuItem)), nil
}

func (s *MenuService) Categories(ctx context.Context) ([]models.Category, error) {
	v, err, _ := s.sfg.Do("categories", func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if s.cache != nil {
			cats, err := s.cache.Categories(ctx)
			if err == nil {
				return cats, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.logger.Warn(ctx, "category cache read failed", "error", err)
			}
		}

		cats, err := s.repomanager.Menu(s.db).ListCategories(ctx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.SetCategories(ctx, cats); err != nil {
				s.logger.Warn(ctx, "category cache write failed", "error", err)
			}
		}
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Category), nil
}

// Search matches query against names and descriptions. A blank query
// returns the whole menu.
func (s *MenuService) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	items, err := s.repomanager.Menu(s.db).Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, items), nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.repomanager.Menu(s.db).GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	resolved := s.withImages(ctx, []models.MenuItem{*item})
	return &resolved[0], nil
}

// InvalidateCache drops cached listings, e.g. after migrations changed the
// menu.
func (s *MenuService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

// withImages returns a copy of items with presigned links for items that
// store an object key. Signing failures keep the stored ImageURL.
func (s *MenuService) withImages(ctx context.Context, items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, len(items))
	copy(out, items)
	if s.images == nil {
		return out
	}
	for i := range out {
		if out[i].ImageKey == "" {
			continue
		}
		url, err := s.images.SignGet(ctx, out[i].ImageKey)
		if err != nil {
			s.logger.Warn(ctx, "image presign failed", "item", out[i].ID, "error", err)
			continue
		}
		out[i].ImageURL = url
	}
	return out
}
