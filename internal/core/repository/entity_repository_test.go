package repository

import (
	"context"
	"mdstore/internal/core/model"
	"mdstore/internal/kv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var seed = model.AdminUser{Email: "admin@mdfine.com", Password: "admin123"}

func newTestRepo(t *testing.T) (EntityRepository, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	return NewEntityRepository(store, seed, zap.NewNop()), store
}

func TestLoadAllDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)

	snap, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.NotNil(t, snap.Users)
	assert.Empty(t, snap.Products)
	assert.Equal(t, []model.AdminUser{seed}, snap.AdminUsers)
}

func TestLoadAllMalformedDegrades(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kv.KeyUsers, []byte(`{not json`)))
	require.NoError(t, store.Set(ctx, kv.KeyProducts, []byte(`"a string"`)))
	require.NoError(t, store.Set(ctx, kv.KeyAdminUsers, []byte(`[{"email":`)))

	snap, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Products)
	assert.Equal(t, []model.AdminUser{seed}, snap.AdminUsers)
}

func TestLoadAdminUsersKeepsStoredEmptyList(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kv.KeyAdminUsers, []byte(`[]`)))
	admins, err := repo.LoadAdminUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestSaveUsersRoundTrip(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	raw := `[{"fullName":"Ana Cruz","name":"Ana","email":"ana@x.com","address":"Manila","phone":"0917","password":"secret1",` +
		`"orders":[{"id":"MD11111","date":"2024-05-01T10:00:00.000Z","timestamp":1714557600000,"total":150.5,"status":"To Ship",` +
		`"items":[{"id":2,"name":"Ring","price":75.25,"category":"rings","description":"gold","image":"ring.jpg","quantity":2}],` +
		`"rated":true,"rating":4,"review":"nice","refund_status":"requested"},` +
		`{"id":"MD22222","date":"5/2/2024, 9:00:00 AM","total":10,"status":"Completed","items":[],"rated":false,"rating":0,"review":""}]},` +
		`{"fullName":"Ben","name":"Ben","email":"ben@x.com","address":"","phone":"","password":"pw","orders":[]}]`
	require.NoError(t, store.Set(ctx, kv.KeyUsers, []byte(raw)))

	first, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveUsers(ctx, first.Users))

	stored, err := store.Get(ctx, kv.KeyUsers)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(stored))

	second, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(first.Users, second.Users); diff != "" {
		t.Errorf("users changed across save/load (-first +second):\n%s", diff)
	}
}

func TestSaveProductsAndAdmins(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	products := []model.Product{{ID: 1, Name: "Necklace", Price: 99.5, Category: "necklaces"}}
	admins := []model.AdminUser{seed, {Email: "ops@mdfine.com", Password: "pw"}}
	require.NoError(t, repo.SaveProducts(ctx, products))
	require.NoError(t, repo.SaveAdminUsers(ctx, admins))

	snap, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, snap.Products)
	assert.Equal(t, admins, snap.AdminUsers)
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveUsers(ctx, nil))
	data, err := store.Get(ctx, kv.KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
