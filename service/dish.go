package service

import (
	"context"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/repository"
	"go.uber.org/zap"
)

// DishService serves dishes and keeps the cached submenu and menu counts
// current
type DishService struct {
	base[model.Dish]
	submenuRepo *repository.Repository[model.Submenu]
	submenus    *cache.Repository[model.Submenu]
	menuRepo    *repository.Repository[model.Menu]
	menus       *cache.Repository[model.Menu]
}

// Create stores a new dish under submenuID, caches it and refreshes the
// cached submenu and menu
func (s *DishService) Create(ctx context.Context, submenuID uint, payload model.DishPayload) (*model.Dish, error) {
	dish, err := s.repo.Create(ctx, payload, &submenuID)
	if err != nil {
		return nil, err
	}
	s.cache.SetObj(ctx, dish)
	s.refreshAncestors(ctx, dish.SubmenuID)
	return dish, nil
}

// Update applies payload to the dish with id and recaches it
func (s *DishService) Update(ctx context.Context, id uint, payload model.DishPayload) (*model.Dish, error) {
	dish, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.cache.SetObj(ctx, dish)
	return dish, nil
}

// Delete removes the dish with id, evicts it and refreshes the cached
// submenu and menu
func (s *DishService) Delete(ctx context.Context, id uint) (*model.Dish, error) {
	dish, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.DeleteObj(ctx, dish)
	s.refreshAncestors(ctx, dish.SubmenuID)
	return dish, nil
}

// ListBySubmenu returns the dishes of submenuID ordered by id, read from
// the store
func (s *DishService) ListBySubmenu(ctx context.Context, submenuID uint) ([]model.Dish, error) {
	return s.repo.GetAllByAttributes(ctx, repository.Filters{"submenu_id": submenuID}, false)
}

func (s *DishService) refreshAncestors(ctx context.Context, submenuID uint) {
	sub := refresh(ctx, s.submenuRepo, s.submenus, submenuID, s.log)
	if sub == nil {
		if s.menus.Enabled() {
			// the owning menu is unknown without the submenu
			s.log.Warn("menu refresh skipped", zap.Uint("submenu_id", submenuID))
		}
		return
	}
	refresh(ctx, s.menuRepo, s.menus, sub.MenuID, s.log)
}
