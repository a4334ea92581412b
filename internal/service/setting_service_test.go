package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

func newSettingFixture(t *testing.T, activity ActivityRecorder) (SettingService, repository.SettingRepository) {
	t.Helper()
	db := setupServiceTestDB(t, &models.Setting{})
	repo := repository.NewSettingRepository(db)
	svc, err := NewSettingService(repo, activity, testLogger())
	require.NoError(t, err)
	return svc, repo
}

func TestSettingServiceSetRecordsAbsenceAsPrevious(t *testing.T) {
	memRepo := &memoryActivityRepo{}
	recorder := NewActivityService(memRepo, nil, 0, testLogger())
	svc, _ := newSettingFixture(t, recorder)

	stored, err := svc.Set(context.Background(), "store.theme", json.RawMessage(`"dark"`), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)
	require.JSONEq(t, `"dark"`, string(stored.Value))

	require.Len(t, memRepo.entries, 1)
	entry := memRepo.entries[0]
	require.Equal(t, models.ActionSettingsChanged, entry.Action)
	require.Equal(t, models.EntitySettings, entry.EntityType)
	require.NotNil(t, entry.EntityID)
	require.Equal(t, "store.theme", *entry.EntityID)
	require.True(t, entry.CanRevert)
	require.Empty(t, entry.PreviousData, "a brand new key has no previous value")
}

func TestSettingServiceSetCapturesPreviousValue(t *testing.T) {
	memRepo := &memoryActivityRepo{}
	recorder := NewActivityService(memRepo, nil, 0, testLogger())
	svc, _ := newSettingFixture(t, recorder)

	_, err := svc.Set(context.Background(), "store.theme", json.RawMessage(`"dark"`), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Set(context.Background(), "store.theme", json.RawMessage(`"light"`), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)

	entry := memRepo.entries[len(memRepo.entries)-1]
	require.JSONEq(t, `"dark"`, string(entry.PreviousData))
	require.JSONEq(t, `"light"`, string(entry.NewData))
}

func TestSettingServiceSetRejectsInvalidJSON(t *testing.T) {
	svc, _ := newSettingFixture(t, nil)

	_, err := svc.Set(context.Background(), "store.theme", json.RawMessage(`{not json`), ActivityActor{ID: 1, Role: "admin"})
	require.ErrorIs(t, err, ErrSettingInvalidJSON)
}

func TestSettingServiceSetEnforcesKnownKeySchemas(t *testing.T) {
	svc, _ := newSettingFixture(t, nil)

	_, err := svc.Set(context.Background(), "store.shipping", json.RawMessage(`{"flat_rate":-5}`), ActivityActor{ID: 1, Role: "admin"})
	require.ErrorIs(t, err, ErrSettingSchemaFailed)

	_, err = svc.Set(context.Background(), "store.shipping", json.RawMessage(`{"flat_rate":5,"free_above":100}`), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)
}

func TestSettingServiceSetMultipleLogsOneCombinedEntry(t *testing.T) {
	memRepo := &memoryActivityRepo{}
	recorder := NewActivityService(memRepo, nil, 0, testLogger())
	svc, _ := newSettingFixture(t, recorder)

	values := map[string]json.RawMessage{
		"store.theme":    json.RawMessage(`"dark"`),
		"store.currency": json.RawMessage(`"EUR"`),
	}
	result, err := svc.SetMultiple(context.Background(), values, ActivityActor{ID: 4, Role: "admin"})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	require.Len(t, memRepo.entries, 1, "a batch write logs a single entry")
	entry := memRepo.entries[0]
	require.Nil(t, entry.EntityID, "a combined entry targets no single key")
	require.True(t, entry.CanRevert)

	var logged map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(entry.NewData, &logged))
	require.Len(t, logged, 2)
	require.JSONEq(t, `"EUR"`, string(logged["store.currency"]))
}

func TestSettingServiceSetMultipleTrimsKeys(t *testing.T) {
	memRepo := &memoryActivityRepo{}
	recorder := NewActivityService(memRepo, nil, 0, testLogger())
	svc, repo := newSettingFixture(t, recorder)

	values := map[string]json.RawMessage{
		" store.theme ":  json.RawMessage(`"dark"`),
		"store.currency": json.RawMessage(`"EUR"`),
	}
	result, err := svc.SetMultiple(context.Background(), values, ActivityActor{ID: 4, Role: "admin"})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	stored, err := repo.Get(context.Background(), "store.theme")
	require.NoError(t, err)
	require.JSONEq(t, `"dark"`, string(stored.Value))

	// the logged map carries the trimmed keys the rows were written under
	var logged map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(memRepo.entries[0].NewData, &logged))
	require.Contains(t, logged, "store.theme")
	require.NotContains(t, logged, " store.theme ")
}

func TestSettingServiceSetMultiplePartialFailure(t *testing.T) {
	memRepo := &memoryActivityRepo{}
	recorder := NewActivityService(memRepo, nil, 0, testLogger())
	svc, repo := newSettingFixture(t, recorder)

	values := map[string]json.RawMessage{
		"a.first":  json.RawMessage(`1`),
		"b.second": json.RawMessage(`{broken`),
		"c.third":  json.RawMessage(`3`),
	}
	_, err := svc.SetMultiple(context.Background(), values, ActivityActor{ID: 4, Role: "admin"})
	require.Error(t, err)

	var partial *PartialApplyError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, []string{"a.first"}, partial.Applied)
	require.Equal(t, "b.second", partial.FailedKey)
	require.ErrorIs(t, partial, ErrSettingInvalidJSON)

	// keys before the failure stay written, keys after never ran
	stored, err := repo.Get(context.Background(), "a.first")
	require.NoError(t, err)
	require.JSONEq(t, `1`, string(stored.Value))

	_, err = repo.Get(context.Background(), "c.third")
	require.Error(t, err)

	require.Empty(t, memRepo.entries, "failed batches are not logged")
}

func TestSettingServiceUnset(t *testing.T) {
	memRepo := &memoryActivityRepo{}
	recorder := NewActivityService(memRepo, nil, 0, testLogger())
	svc, _ := newSettingFixture(t, recorder)

	_, err := svc.Set(context.Background(), "store.banner_text", json.RawMessage(`"sale"`), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)

	require.NoError(t, svc.Unset(context.Background(), "store.banner_text", ActivityActor{ID: 1, Role: "admin"}))

	entry := memRepo.entries[len(memRepo.entries)-1]
	require.JSONEq(t, `"sale"`, string(entry.PreviousData))
	require.True(t, entry.CanRevert)

	require.ErrorIs(t, svc.Unset(context.Background(), "store.banner_text", ActivityActor{ID: 1, Role: "admin"}), ErrSettingNotFound)

	_, err = svc.Get(context.Background(), "store.banner_text")
	require.ErrorIs(t, err, ErrSettingNotFound)
}
