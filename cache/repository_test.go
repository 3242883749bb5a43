package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dailyyoga/menuhub/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func (i item) GetID() uint { return i.ID }

func newItems(t *testing.T) (*Repository[item], Redis) {
	rdb, _ := setupTestRedis(t)
	return NewRepository[item](rdb, "menu", time.Hour, logger.NewNop()), rdb
}

func TestRepository_Key(t *testing.T) {
	r := NewRepository[item](nil, "submenu", time.Hour, logger.NewNop())

	assert.Equal(t, "submenu:", r.Prefix())
	assert.Equal(t, "submenu:7", r.Key(uint(7)))
	assert.Equal(t, "submenu:7", r.Key(7))
	assert.Equal(t, "submenu:7", r.Key("7"))
	assert.Equal(t, "submenu:7", r.Key("submenu:7"))
}

func TestRepository_NilClientIsNoop(t *testing.T) {
	r := NewRepository[item](nil, "menu", time.Hour, logger.NewNop())
	ctx := context.Background()

	assert.False(t, r.Enabled())
	r.SetObj(ctx, &item{ID: 1})
	r.SetAll(ctx, []item{{ID: 1}})
	r.DeleteObj(ctx, &item{ID: 1})
	r.Invalidate(ctx, 1)
	r.Flush(ctx)
	assert.Nil(t, r.GetObj(ctx, 1))
	assert.Nil(t, r.GetAll(ctx))
}

func TestRepository_SetGetDelete(t *testing.T) {
	r, _ := newItems(t)
	ctx := context.Background()

	assert.Nil(t, r.GetObj(ctx, 1))

	r.SetObj(ctx, &item{ID: 1, Title: "Lunch"})
	got := r.GetObj(ctx, 1)
	require.NotNil(t, got)
	assert.Equal(t, "Lunch", got.Title)
	assert.Equal(t, got, r.GetObj(ctx, "menu:1"))

	r.DeleteObj(ctx, &item{ID: 1})
	assert.Nil(t, r.GetObj(ctx, 1))
}

func TestRepository_UndecodableIsMiss(t *testing.T) {
	r, rdb := newItems(t)
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, "menu:1", "{not json", 0).Err())
	assert.Nil(t, r.GetObj(ctx, 1))
}

func TestRepository_GetAllNeedsCompleteNamespace(t *testing.T) {
	r, _ := newItems(t)
	ctx := context.Background()

	// a single read-through entry is not the whole namespace
	r.SetObj(ctx, &item{ID: 2, Title: "Dinner"})
	assert.Nil(t, r.GetAll(ctx))

	r.SetAll(ctx, []item{{ID: 2, Title: "Dinner"}, {ID: 1, Title: "Lunch"}})
	all := r.GetAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, uint(1), all[0].ID)
	assert.Equal(t, uint(2), all[1].ID)

	// writes of new members keep the namespace complete
	r.SetObj(ctx, &item{ID: 3, Title: "Breakfast"})
	assert.Len(t, r.GetAll(ctx), 3)

	// deleting a removed object keeps it complete
	r.DeleteObj(ctx, &item{ID: 3})
	assert.Len(t, r.GetAll(ctx), 2)

	// invalidating an existing object does not
	r.Invalidate(ctx, 2)
	assert.Nil(t, r.GetAll(ctx))
}

func TestRepository_GetAllAllOrNothing(t *testing.T) {
	r, rdb := newItems(t)
	ctx := context.Background()

	r.SetAll(ctx, []item{{ID: 1}, {ID: 2}})
	require.NoError(t, rdb.Set(ctx, "menu:3", "garbage", time.Hour).Err())

	assert.Nil(t, r.GetAll(ctx))
}

func TestRepository_GetAllEmptyNamespace(t *testing.T) {
	r, _ := newItems(t)
	ctx := context.Background()

	r.SetAll(ctx, []item{{ID: 1}})
	r.DeleteObj(ctx, &item{ID: 1})

	assert.Nil(t, r.GetAll(ctx))
}

func TestRepository_NamespacesAreIsolated(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	ctx := context.Background()
	menus := NewRepository[item](rdb, "menu", time.Hour, logger.NewNop())
	submenus := NewRepository[item](rdb, "submenu", time.Hour, logger.NewNop())

	menus.SetAll(ctx, []item{{ID: 1, Title: "menu"}})
	submenus.SetAll(ctx, []item{{ID: 1, Title: "submenu"}, {ID: 2, Title: "submenu 2"}})

	assert.Len(t, menus.GetAll(ctx), 1)
	assert.Len(t, submenus.GetAll(ctx), 2)
	assert.Equal(t, "menu", menus.GetObj(ctx, 1).Title)
}

func TestRepository_ExpiredEntriesAreAbsent(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	r := NewRepository[item](rdb, "dish", time.Minute, logger.NewNop())
	ctx := context.Background()

	r.SetAll(ctx, []item{{ID: 1}, {ID: 2}})
	require.NotNil(t, r.GetObj(ctx, 1))

	mr.FastForward(time.Minute + time.Second)

	assert.Nil(t, r.GetObj(ctx, 1))
	assert.Nil(t, r.GetAll(ctx))
}

func TestRepository_Flush(t *testing.T) {
	r, rdb := newItems(t)
	ctx := context.Background()

	r.SetAll(ctx, []item{{ID: 1}})
	require.NoError(t, rdb.Set(ctx, "dish:1", "x", 0).Err())

	r.Flush(ctx)

	n, err := rdb.DBSize(ctx).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
