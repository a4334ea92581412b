package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/models"
)

func TestSettingRepositoryUpsertInsertsThenReplaces(t *testing.T) {
	db := setupRepoTestDB(t, &models.Setting{})
	repo := NewSettingRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), "store.name", datatypes.JSON(`"Aurine"`)))

	stored, err := repo.Get(context.Background(), "store.name")
	require.NoError(t, err)
	require.JSONEq(t, `"Aurine"`, string(stored.Value))

	require.NoError(t, repo.Upsert(context.Background(), "store.name", datatypes.JSON(`"Aurine Fine Jewelry"`)))

	replaced, err := repo.Get(context.Background(), "store.name")
	require.NoError(t, err)
	require.JSONEq(t, `"Aurine Fine Jewelry"`, string(replaced.Value))

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1, "upsert must not duplicate the key")
}

func TestSettingRepositoryScalarValuesRoundTrip(t *testing.T) {
	db := setupRepoTestDB(t, &models.Setting{})
	repo := NewSettingRepository(db)

	// bare scalars must survive the text column, not just objects
	require.NoError(t, repo.Upsert(context.Background(), "inventory.low_stock_threshold", datatypes.JSON(`1`)))
	require.NoError(t, repo.Upsert(context.Background(), "store.tagline", datatypes.JSON(`"handmade"`)))
	require.NoError(t, repo.Upsert(context.Background(), "store.maintenance", datatypes.JSON(`false`)))

	threshold, err := repo.Get(context.Background(), "inventory.low_stock_threshold")
	require.NoError(t, err)
	require.JSONEq(t, `1`, string(threshold.Value))

	tagline, err := repo.Get(context.Background(), "store.tagline")
	require.NoError(t, err)
	require.JSONEq(t, `"handmade"`, string(tagline.Value))

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestSettingRepositoryListAllOrdersByKey(t *testing.T) {
	db := setupRepoTestDB(t, &models.Setting{})
	repo := NewSettingRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), "store.shipping", datatypes.JSON(`{"flat_rate":5}`)))
	require.NoError(t, repo.Upsert(context.Background(), "store.contact", datatypes.JSON(`{"email":"hi@example.com"}`)))

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "store.contact", all[0].Key)
	require.Equal(t, "store.shipping", all[1].Key)
}

func TestSettingRepositoryDelete(t *testing.T) {
	db := setupRepoTestDB(t, &models.Setting{})
	repo := NewSettingRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), "store.theme", datatypes.JSON(`"dark"`)))
	require.NoError(t, repo.Delete(context.Background(), "store.theme"))

	_, err := repo.Get(context.Background(), "store.theme")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.ErrorIs(t, repo.Delete(context.Background(), "store.theme"), gorm.ErrRecordNotFound)
}
