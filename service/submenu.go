package service

import (
	"context"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/repository"
)

// SubmenuService serves submenus and keeps the cached parent menu's counts
// current
type SubmenuService struct {
	base[model.Submenu]
	menuRepo *repository.Repository[model.Menu]
	menus    *cache.Repository[model.Menu]
	dishes   *cache.Repository[model.Dish]
}

// Create stores a new submenu under menuID, caches it and refreshes the
// cached menu
func (s *SubmenuService) Create(ctx context.Context, menuID uint, payload model.SubmenuPayload) (*model.Submenu, error) {
	sub, err := s.repo.Create(ctx, payload, &menuID)
	if err != nil {
		return nil, err
	}
	s.cache.SetObj(ctx, sub)
	refresh(ctx, s.menuRepo, s.menus, sub.MenuID, s.log)
	return sub, nil
}

// Update applies payload to the submenu with id. Counts do not change, so
// only the submenu itself is recached.
func (s *SubmenuService) Update(ctx context.Context, id uint, payload model.SubmenuPayload) (*model.Submenu, error) {
	sub, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.cache.SetObj(ctx, sub)
	return sub, nil
}

// Delete removes the submenu with id and its dishes, evicts them and
// refreshes the cached menu
func (s *SubmenuService) Delete(ctx context.Context, id uint) (*model.Submenu, error) {
	sub, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range sub.Dishes {
		s.dishes.DeleteObj(ctx, &sub.Dishes[i])
	}
	s.cache.DeleteObj(ctx, sub)
	refresh(ctx, s.menuRepo, s.menus, sub.MenuID, s.log)
	return sub, nil
}

// ListByMenu returns the submenus of menuID ordered by id, read from the
// store
func (s *SubmenuService) ListByMenu(ctx context.Context, menuID uint) ([]model.Submenu, error) {
	return s.repo.GetAllByAttributes(ctx, repository.Filters{"menu_id": menuID}, false)
}
