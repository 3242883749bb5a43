package httpapi_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dailyyoga/menuhub/httpapi"
	"github.com/dailyyoga/menuhub/importer"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/service"
	"github.com/dailyyoga/menuhub/testsupport"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fakeSync struct {
	force bool
	err   error
}

func (f *fakeSync) Run(_ context.Context, force bool) (*importer.Result, error) {
	f.force = force
	if f.err != nil {
		return nil, f.err
	}
	return &importer.Result{Menus: 1, Submenus: 2, Dishes: 3}, nil
}

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T, opts ...httpapi.Option) *client {
	gdb := testsupport.NewDB(t)
	rdb, _ := testsupport.NewRedis(t)
	catalog := service.New(gdb, rdb, time.Hour, logger.NewNop())

	s, err := httpapi.New(nil, catalog, logger.NewNop(), opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

// do sends body (if any) and decodes the response into a generic value
func (c *client) do(method, path, body string) (int, any) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.srv.URL+"/api/v1"+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out any
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (c *client) object(method, path, body string, want int) map[string]any {
	c.t.Helper()
	status, out := c.do(method, path, body)
	require.Equal(c.t, want, status, "%s %s -> %v", method, path, out)
	obj, ok := out.(map[string]any)
	require.True(c.t, ok, "expected an object, got %v", out)
	return obj
}

func (c *client) list(path string) []any {
	c.t.Helper()
	status, out := c.do(http.MethodGet, path, "")
	require.Equal(c.t, http.StatusOK, status)
	items, ok := out.([]any)
	require.True(c.t, ok, "expected a list, got %v", out)
	return items
}

func TestScenario(t *testing.T) {
	c := newClient(t)

	menu := c.object(http.MethodPost, "/menus", `{"title":"My menu 1","description":"My menu description 1"}`, http.StatusCreated)
	assert.Equal(t, "1", menu["id"])
	assert.Equal(t, "My menu 1", menu["title"])
	assert.EqualValues(t, 0, menu["submenus_count"])
	assert.EqualValues(t, 0, menu["dishes_count"])

	sub := c.object(http.MethodPost, "/menus/1/submenus", `{"title":"My submenu 1","description":"My submenu description 1"}`, http.StatusCreated)
	assert.Equal(t, "1", sub["id"])
	assert.EqualValues(t, 0, sub["dishes_count"])

	dish := c.object(http.MethodPost, "/menus/1/submenus/1/dishes", `{"title":"My dish 1","description":"My dish description 1","price":"12.50"}`, http.StatusCreated)
	assert.Equal(t, "1", dish["id"])
	assert.Equal(t, "12.50", dish["price"])

	menu = c.object(http.MethodGet, "/menus/1", "", http.StatusOK)
	assert.EqualValues(t, 1, menu["submenus_count"])
	assert.EqualValues(t, 1, menu["dishes_count"])

	sub = c.object(http.MethodGet, "/menus/1/submenus/1", "", http.StatusOK)
	assert.EqualValues(t, 1, sub["dishes_count"])

	resp := c.object(http.MethodDelete, "/menus/1/submenus/1", "", http.StatusOK)
	assert.Equal(t, true, resp["status"])
	assert.Equal(t, "The submenu has been deleted", resp["message"])

	menu = c.object(http.MethodGet, "/menus/1", "", http.StatusOK)
	assert.EqualValues(t, 0, menu["submenus_count"])
	assert.EqualValues(t, 0, menu["dishes_count"])

	assert.Empty(t, c.list("/menus/1/submenus/1/dishes"))
	assert.Empty(t, c.list("/menus/1/submenus"))

	resp = c.object(http.MethodDelete, "/menus/1", "", http.StatusOK)
	assert.Equal(t, "The menu has been deleted", resp["message"])
	assert.Empty(t, c.list("/menus"))
}

func TestMenus_CRUD(t *testing.T) {
	c := newClient(t)

	assert.Empty(t, c.list("/menus"))

	c.object(http.MethodPost, "/menus", `{"title":"Lunch","description":"noon"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus", `{"title":"Dinner","description":"evening"}`, http.StatusCreated)

	menus := c.list("/menus")
	require.Len(t, menus, 2)
	assert.Equal(t, "Lunch", menus[0].(map[string]any)["title"])

	updated := c.object(http.MethodPatch, "/menus/1", `{"description":"x"}`, http.StatusOK)
	assert.Equal(t, "Lunch", updated["title"])
	assert.Equal(t, "x", updated["description"])

	got := c.object(http.MethodGet, "/menus/1", "", http.StatusOK)
	assert.Equal(t, "x", got["description"])

	// the cached list reflects the update
	menus = c.list("/menus")
	require.Len(t, menus, 2)
	assert.Equal(t, "x", menus[0].(map[string]any)["description"])
}

func TestErrors(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodPost, "/menus", `{"title":"Lunch","description":"noon"}`, http.StatusCreated)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		detail string
	}{
		{"missing menu", http.MethodGet, "/menus/7", "", http.StatusNotFound, "menu not found"},
		{"missing submenu", http.MethodGet, "/menus/1/submenus/7", "", http.StatusNotFound, "submenu not found"},
		{"missing dish", http.MethodGet, "/menus/1/submenus/1/dishes/7", "", http.StatusNotFound, "dish not found"},
		{"delete missing menu", http.MethodDelete, "/menus/7", "", http.StatusNotFound, "menu not found"},
		{"update missing menu", http.MethodPatch, "/menus/7", `{"title":"x"}`, http.StatusNotFound, "menu not found"},
		{"duplicate title", http.MethodPost, "/menus", `{"title":"Lunch","description":"again"}`, http.StatusBadRequest, "menu with this title already exists"},
		{"submenu of missing menu", http.MethodPost, "/menus/9/submenus", `{"title":"Soups","description":"hot"}`, http.StatusNotFound, "menu not found"},
		{"missing title", http.MethodPost, "/menus", `{"description":"no title"}`, http.StatusUnprocessableEntity, "title is required"},
		{"title too long", http.MethodPost, "/menus", `{"title":"` + strings.Repeat("a", 257) + `","description":"d"}`, http.StatusUnprocessableEntity, "title must be at most 256 characters"},
		{"empty title", http.MethodPost, "/menus", `{"title":"","description":"d"}`, http.StatusUnprocessableEntity, "title must not be empty"},
		{"blank title on update", http.MethodPatch, "/menus/1", `{"title":""}`, http.StatusUnprocessableEntity, "title must not be empty"},
		{"malformed body", http.MethodPost, "/menus", `{"title":`, http.StatusBadRequest, ""},
		{"invalid id", http.MethodGet, "/menus/abc", "", http.StatusUnprocessableEntity, "menu_id must be a positive integer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, out := c.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, status)
			body, ok := out.(map[string]any)
			require.True(t, ok)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, body["detail"])
			} else {
				assert.NotEmpty(t, body["detail"])
			}
		})
	}
}

func TestDish_Validation(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodPost, "/menus", `{"title":"Lunch","description":"noon"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus/1/submenus", `{"title":"Soups","description":"hot"}`, http.StatusCreated)

	body := c.object(http.MethodPost, "/menus/1/submenus/1/dishes", `{"title":"Borscht","description":"beet","price":"-1"}`, http.StatusUnprocessableEntity)
	assert.Equal(t, "price must be greater than or equal to 0", body["detail"])

	dish := c.object(http.MethodPost, "/menus/1/submenus/1/dishes", `{"title":"Borscht","description":"beet"}`, http.StatusCreated)
	assert.Equal(t, "0.00", dish["price"])

	dish = c.object(http.MethodPatch, "/menus/1/submenus/1/dishes/1", `{"price":7.5}`, http.StatusOK)
	assert.Equal(t, "7.50", dish["price"])
	assert.Equal(t, "Borscht", dish["title"])
}

func TestNestedPathsMustMatch(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodPost, "/menus", `{"title":"Lunch","description":"noon"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus", `{"title":"Dinner","description":"evening"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus/1/submenus", `{"title":"Soups","description":"hot"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus/1/submenus/1/dishes", `{"title":"Borscht","description":"beet","price":"5"}`, http.StatusCreated)

	body := c.object(http.MethodGet, "/menus/2/submenus/1", "", http.StatusNotFound)
	assert.Equal(t, "submenu not found", body["detail"])

	body = c.object(http.MethodGet, "/menus/2/submenus/1/dishes/1", "", http.StatusNotFound)
	assert.Equal(t, "dish not found", body["detail"])

	c.object(http.MethodDelete, "/menus/2/submenus/1", "", http.StatusNotFound)
	c.object(http.MethodPost, "/menus/2/submenus/1/dishes", `{"title":"Other","description":"d"}`, http.StatusNotFound)

	// nothing was removed by the rejected delete
	c.object(http.MethodGet, "/menus/1/submenus/1/dishes/1", "", http.StatusOK)
}

func TestFullList(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodPost, "/menus", `{"title":"Lunch","description":"noon"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus/1/submenus", `{"title":"Soups","description":"hot"}`, http.StatusCreated)
	c.object(http.MethodPost, "/menus/1/submenus/1/dishes", `{"title":"Borscht","description":"beet","price":"5"}`, http.StatusCreated)

	menus := c.list("/menus-full-list")
	require.Len(t, menus, 1)
	subs := menus[0].(map[string]any)["submenus"].([]any)
	require.Len(t, subs, 1)
	dishes := subs[0].(map[string]any)["dishes"].([]any)
	require.Len(t, dishes, 1)
	assert.Equal(t, "5.00", dishes[0].(map[string]any)["price"])
}

func TestSynchronize(t *testing.T) {
	sync := &fakeSync{}
	c := newClient(t, httpapi.WithSynchronizer(sync))

	res := c.object(http.MethodGet, "/synchronize?force=true", "", http.StatusOK)
	assert.True(t, sync.force)
	assert.EqualValues(t, 3, res["dishes"])

	sync.err = errors.New("disk on fire")
	res = c.object(http.MethodGet, "/synchronize", "", http.StatusInternalServerError)
	assert.False(t, sync.force)
	assert.Equal(t, "internal server error", res["detail"])
}

func TestSynchronize_NotConfigured(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodGet, "/synchronize", "", http.StatusServiceUnavailable)
}

func TestHealth(t *testing.T) {
	c := newClient(t,
		httpapi.WithHealthCheck("db", func(context.Context) error { return nil }),
	)
	body := c.object(http.MethodGet, "/health", "", http.StatusOK)
	assert.Equal(t, "ok", body["status"])

	c = newClient(t,
		httpapi.WithHealthCheck("redis", func(context.Context) error { return errors.New("down") }),
	)
	body = c.object(http.MethodGet, "/health", "", http.StatusServiceUnavailable)
	assert.Equal(t, "down", body["checks"].(map[string]any)["redis"])
}

func TestUnknownRoute(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodGet, "/nowhere", "", http.StatusNotFound)
}

func TestMenus_BlankTitleKeepsStoredTitle(t *testing.T) {
	c := newClient(t)
	c.object(http.MethodPost, "/menus", `{"title":"Lunch","description":"noon"}`, http.StatusCreated)

	c.object(http.MethodPatch, "/menus/1", `{"title":""}`, http.StatusUnprocessableEntity)

	got := c.object(http.MethodGet, "/menus/1", "", http.StatusOK)
	assert.Equal(t, "Lunch", got["title"])
}

func newServer(t *testing.T, addr string) *httpapi.Server {
	t.Helper()
	catalog := service.New(testsupport.NewDB(t), nil, time.Hour, logger.NewNop())
	s, err := httpapi.New(&httpapi.Config{Addr: addr}, catalog, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestServe_ListenerFailureIsReturned(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := newServer(t, ln.Addr().String())

	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "address already in use")
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not report the failed listener")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := newServer(t, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop after cancellation")
	}
}
