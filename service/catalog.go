package service

import (
	"context"
	"time"

	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/repository"
	"gorm.io/gorm"
)

// Catalog bundles the three entity services over one store session and one
// cache client
type Catalog struct {
	Menus    *MenuService
	Submenus *SubmenuService
	Dishes   *DishService

	db       *gorm.DB
	menus    *cache.Repository[model.Menu]
	submenus *cache.Repository[model.Submenu]
	dishes   *cache.Repository[model.Dish]
	log      logger.Logger
}

// New builds the catalog. rdb may be nil, which disables caching.
func New(db *gorm.DB, rdb cache.Redis, ttl time.Duration, log logger.Logger) *Catalog {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	c := &Catalog{
		menus:    cache.NewRepository[model.Menu](rdb, MenuNamespace, ttl, log),
		submenus: cache.NewRepository[model.Submenu](rdb, SubmenuNamespace, ttl, log),
		dishes:   cache.NewRepository[model.Dish](rdb, DishNamespace, ttl, log),
		log:      log,
	}
	c.bind(db)
	return c
}

func (c *Catalog) bind(db *gorm.DB) {
	c.db = db
	menuRepo := repository.NewMenuRepository(db)
	submenuRepo := repository.NewSubmenuRepository(db)
	dishRepo := repository.NewDishRepository(db)
	svcLog := c.log.Named("service")

	c.Menus = &MenuService{
		base:     base[model.Menu]{repo: menuRepo, cache: c.menus, log: svcLog.Named(MenuNamespace)},
		submenus: c.submenus,
		dishes:   c.dishes,
	}
	c.Submenus = &SubmenuService{
		base:     base[model.Submenu]{repo: submenuRepo, cache: c.submenus, log: svcLog.Named(SubmenuNamespace)},
		menuRepo: menuRepo,
		menus:    c.menus,
		dishes:   c.dishes,
	}
	c.Dishes = &DishService{
		base:        base[model.Dish]{repo: dishRepo, cache: c.dishes, log: svcLog.Named(DishNamespace)},
		submenuRepo: submenuRepo,
		submenus:    c.submenus,
		menuRepo:    menuRepo,
		menus:       c.menus,
	}
}

// WithTx returns a catalog whose services run against tx and share this
// catalog's cache
func (c *Catalog) WithTx(tx *gorm.DB) *Catalog {
	cp := &Catalog{
		menus:    c.menus,
		submenus: c.submenus,
		dishes:   c.dishes,
		log:      c.log,
	}
	cp.bind(tx)
	return cp
}

// Transaction runs fn with a catalog bound to a new store transaction. The
// transaction commits when fn returns nil and rolls back otherwise; cache
// writes made by fn are not undone.
func (c *Catalog) Transaction(ctx context.Context, fn func(tx *Catalog) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(c.WithTx(tx))
	})
}

// Reset deletes every menu, and through the cascade the whole catalog, then
// flushes the cache store
func (c *Catalog) Reset(ctx context.Context) error {
	if _, err := c.Menus.repo.DeleteAll(ctx); err != nil {
		return err
	}
	c.menus.Flush(ctx)
	return nil
}

// Flush clears the cache store
func (c *Catalog) Flush(ctx context.Context) {
	c.menus.Flush(ctx)
}

// FullTree returns every menu with its submenus and their dishes, read from
// the store
func (c *Catalog) FullTree(ctx context.Context) ([]model.Menu, error) {
	return c.Menus.repo.GetAll(ctx, false)
}
