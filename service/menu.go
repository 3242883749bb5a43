package service

import (
	"context"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/model"
)

// MenuService serves menus. Menus have no ancestors; deleting one evicts
// its whole subtree.
type MenuService struct {
	base[model.Menu]
	submenus *cache.Repository[model.Submenu]
	dishes   *cache.Repository[model.Dish]
}

// Create stores a new menu and caches it
func (s *MenuService) Create(ctx context.Context, payload model.MenuPayload) (*model.Menu, error) {
	menu, err := s.repo.Create(ctx, payload, nil)
	if err != nil {
		return nil, err
	}
	s.cache.SetObj(ctx, menu)
	return menu, nil
}

// Update applies payload to the menu with id and recaches it
func (s *MenuService) Update(ctx context.Context, id uint, payload model.MenuPayload) (*model.Menu, error) {
	menu, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.cache.SetObj(ctx, menu)
	return menu, nil
}

// Delete removes the menu with id together with its submenus and dishes,
// and evicts all of them from the cache
func (s *MenuService) Delete(ctx context.Context, id uint) (*model.Menu, error) {
	menu, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range menu.Submenus {
		sub := &menu.Submenus[i]
		for j := range sub.Dishes {
			s.dishes.DeleteObj(ctx, &sub.Dishes[j])
		}
		s.submenus.DeleteObj(ctx, sub)
	}
	s.cache.DeleteObj(ctx, menu)
	return menu, nil
}
