package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dailyyoga/menuhub/model"
	"github.com/dailyyoga/menuhub/repository"
	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, unprocessable(name + " must be a positive integer")
	}
	return uint(v), nil
}

func pathIDs(r *http.Request, names ...string) ([]uint, error) {
	ids := make([]uint, len(names))
	for i, name := range names {
		v, err := pathID(r, name)
		if err != nil {
			return nil, err
		}
		ids[i] = v
	}
	return ids, nil
}

// decode reads a JSON body into dst and validates it
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is required")
		}
		return badRequest("malformed request body: " + err.Error())
	}
	return s.validate.Struct(dst)
}

// submenuOf returns the submenu with submenuID when it belongs to menuID
func (s *Server) submenuOf(ctx context.Context, menuID, submenuID uint) (*model.Submenu, error) {
	sub, _, err := s.catalog.Submenus.GetOr404(ctx, submenuID)
	if err != nil {
		return nil, err
	}
	if sub.MenuID != menuID {
		return nil, repository.NotFound(repository.SubmenuNotFound)
	}
	return sub, nil
}

// dishOf returns the dish with dishID when it belongs to submenuID of menuID
func (s *Server) dishOf(ctx context.Context, menuID, submenuID, dishID uint) (*model.Dish, error) {
	dish, _, err := s.catalog.Dishes.GetOr404(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if dish.SubmenuID != submenuID {
		return nil, repository.NotFound(repository.DishNotFound)
	}
	if _, err := s.submenuOf(ctx, menuID, submenuID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.NotFound(repository.DishNotFound)
		}
		return nil, err
	}
	return dish, nil
}

// menus

func (s *Server) listMenus(w http.ResponseWriter, r *http.Request) {
	menus, _, err := s.catalog.Menus.GetAll(r.Context(), false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapAll(menus, toMenu))
}

func (s *Server) createMenu(w http.ResponseWriter, r *http.Request) {
	var in menuIn
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	menu, err := s.catalog.Menus.Create(r.Context(), in.payload())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMenu(menu))
}

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	menu, _, err := s.catalog.Menus.GetOr404(r.Context(), menuID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMenu(menu))
}

func (s *Server) updateMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in model.MenuPayload
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	menu, err := s.catalog.Menus.Update(r.Context(), menuID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMenu(menu))
}

func (s *Server) deleteMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.catalog.Menus.Delete(r.Context(), menuID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deleted("menu"))
}

// submenus

func (s *Server) listSubmenus(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	subs, err := s.catalog.Submenus.ListByMenu(r.Context(), menuID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapAll(subs, toSubmenu))
}

func (s *Server) createSubmenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in submenuIn
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.catalog.Submenus.Create(r.Context(), menuID, in.payload())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSubmenu(sub))
}

func (s *Server) getSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.submenuOf(r.Context(), ids[0], ids[1])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSubmenu(sub))
}

func (s *Server) updateSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in model.SubmenuPayload
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.submenuOf(r.Context(), ids[0], ids[1]); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.catalog.Submenus.Update(r.Context(), ids[1], in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSubmenu(sub))
}

func (s *Server) deleteSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.submenuOf(r.Context(), ids[0], ids[1]); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.catalog.Submenus.Delete(r.Context(), ids[1]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deleted("submenu"))
}

// dishes

func (s *Server) listDishes(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dishes, err := s.catalog.Dishes.ListBySubmenu(r.Context(), ids[1])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapAll(dishes, toDish))
}

func (s *Server) createDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in dishIn
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.submenuOf(r.Context(), ids[0], ids[1]); err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.catalog.Dishes.Create(r.Context(), ids[1], in.payload())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toDish(dish))
}

func (s *Server) getDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.dishOf(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDish(dish))
}

func (s *Server) updateDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in model.DishPayload
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.dishOf(r.Context(), ids[0], ids[1], ids[2]); err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.catalog.Dishes.Update(r.Context(), ids[2], in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDish(dish))
}

func (s *Server) deleteDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.dishOf(r.Context(), ids[0], ids[1], ids[2]); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.catalog.Dishes.Delete(r.Context(), ids[2]); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deleted("dish"))
}

// catalog wide

func (s *Server) fullList(w http.ResponseWriter, r *http.Request) {
	menus, err := s.catalog.FullTree(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTree(menus))
}

func (s *Server) synchronize(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		s.writeError(w, r, &requestError{status: http.StatusServiceUnavailable, detail: "synchronization is not configured"})
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	res, err := s.sync.Run(r.Context(), force)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type healthOut struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	out := healthOut{Status: "ok"}
	status := http.StatusOK
	if len(s.checks) > 0 {
		out.Checks = make(map[string]string, len(s.checks))
	}
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			out.Checks[name] = err.Error()
			out.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		out.Checks[name] = "ok"
	}
	s.writeJSON(w, status, out)
}
