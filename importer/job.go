// Package importer rebuilds the catalog from an xlsx file.
//
// A run replaces the whole catalog: inside one store transaction it deletes
// every menu, flushes the cache and recreates the file's menus, submenus and
// dishes in file order through the catalog services. The cache is flushed
// again once the transaction ends, committed or rolled back, so neither rows
// of the old catalog nor entries written by a failed run remain.
package importer

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/service"
	"go.uber.org/zap"
)

// Result summarizes one run
type Result struct {
	Skipped  bool `json:"skipped"`
	Menus    int  `json:"menus"`
	Submenus int  `json:"submenus"`
	Dishes   int  `json:"dishes"`
}

// Job imports the configured file into a catalog
type Job struct {
	cfg     *Config
	catalog *service.Catalog
	log     logger.Logger
	now     func() time.Time

	mu sync.Mutex
}

// New creates the job
func New(cfg *Config, catalog *service.Catalog, log logger.Logger) (*Job, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Job{
		cfg:     cfg,
		catalog: catalog,
		log:     log.Named("importer"),
		now:     time.Now,
	}, nil
}

// IsModified reports whether the file was modified within the configured
// interval
func (j *Job) IsModified() (bool, error) {
	info, err := os.Stat(j.cfg.Path)
	if err != nil {
		return false, ErrOpen(j.cfg.Path, err)
	}
	return j.now().Sub(info.ModTime()) <= j.cfg.Interval, nil
}

// Run imports the file when it was recently modified, or unconditionally
// when force is set
func (j *Job) Run(ctx context.Context, force bool) (*Result, error) {
	if !force {
		modified, err := j.IsModified()
		if err != nil {
			return nil, err
		}
		if !modified {
			j.log.Debug("file not modified, import skipped", zap.String("path", j.cfg.Path))
			return &Result{Skipped: true}, nil
		}
	}
	doc, err := ReadFile(j.cfg.Path, j.cfg.Sheet)
	if err != nil {
		return nil, err
	}
	return j.Import(ctx, doc)
}

// Import replaces the catalog with doc. An empty document changes nothing.
func (j *Job) Import(ctx context.Context, doc Document) (*Result, error) {
	if len(doc) == 0 {
		j.log.Info("document is empty, import skipped")
		return &Result{Skipped: true}, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	start := time.Now()
	err := j.catalog.Transaction(ctx, func(tx *service.Catalog) error {
		if err := tx.Reset(ctx); err != nil {
			return err
		}
		return fill(ctx, tx, doc)
	})
	if err != nil {
		// entries cached by the rolled back run must not outlive it
		j.catalog.Flush(ctx)
		j.log.Error("import failed", zap.Error(err))
		return nil, ErrImport(err)
	}
	// reads served while the transaction was open may have cached rows it
	// deleted
	j.catalog.Flush(ctx)

	res := &Result{}
	res.Menus, res.Submenus, res.Dishes = doc.Counts()
	j.log.Info("catalog imported",
		zap.Int("menus", res.Menus),
		zap.Int("submenus", res.Submenus),
		zap.Int("dishes", res.Dishes),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func fill(ctx context.Context, c *service.Catalog, doc Document) error {
	for _, m := range doc {
		menu, err := c.Menus.Create(ctx, model.MenuPayload{
			Title:       model.String(m.Title),
			Description: model.String(m.Description),
		})
		if err != nil {
			return ErrRecord("menu", m.Title, err)
		}
		for _, s := range m.Submenus {
			sub, err := c.Submenus.Create(ctx, menu.ID, model.SubmenuPayload{
				Title:       model.String(s.Title),
				Description: model.String(s.Description),
			})
			if err != nil {
				return ErrRecord("submenu", s.Title, err)
			}
			for _, d := range s.Dishes {
				price := d.Price
				_, err := c.Dishes.Create(ctx, sub.ID, model.DishPayload{
					Title:       model.String(d.Title),
					Description: model.String(d.Description),
					Price:       &price,
				})
				if err != nil {
					return ErrRecord("dish", d.Title, err)
				}
			}
		}
	}
	return nil
}
