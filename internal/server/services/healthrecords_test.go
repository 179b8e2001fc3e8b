package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRecordCreate_DefaultsRecordedAtToNow(t *testing.T) {
	e := newTestEnv(t)
	uid := e.register(t, "a@x.io")

	rec, err := e.records.Create(context.Background(), uid, models.HealthRecordInput{
		SystolicBP: intp(120), DiastolicBP: intp(80), Notes: strp("morning"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, uid, rec.UserID)
	assert.Equal(t, fixedNow, rec.RecordedAt)
	assert.Equal(t, fixedNow, rec.CreatedAt)
	assert.Nil(t, rec.Weight)
}

func TestHealthRecordCreate_KeepsClientTimestamp(t *testing.T) {
	e := newTestEnv(t)
	uid := e.register(t, "a@x.io")

	at := time.Date(2024, 6, 1, 7, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	rec, err := e.records.Create(context.Background(), uid, models.HealthRecordInput{Weight: floatp(71.2), RecordedAt: &at})
	require.NoError(t, err)

	assert.True(t, at.Equal(rec.RecordedAt))
	assert.Equal(t, time.UTC, rec.RecordedAt.Location())
}

func TestHealthRecordCreate_RejectsImplausibleVitals(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.records.Create(context.Background(), "u", models.HealthRecordInput{HeartRate: intp(-5)})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestHealthRecords_CrossUserIsolation(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice@x.io")
	bob := e.register(t, "bob@x.io")

	rec := e.addRecord(t, alice, fixedNow.Add(-time.Hour))

	_, err := e.records.Get(context.Background(), bob, rec.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.ErrorIs(t, e.records.Delete(context.Background(), bob, rec.ID), common.ErrNotFound)

	list, err := e.records.List(context.Background(), bob, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := e.records.Get(context.Background(), alice, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestHealthRecords_ListNewestFirstAndWindow(t *testing.T) {
	e := newTestEnv(t)
	uid := e.register(t, "a@x.io")

	old := e.addRecord(t, uid, fixedNow.AddDate(0, 0, -40))
	mid := e.addRecord(t, uid, fixedNow.AddDate(0, 0, -10))
	newest := e.addRecord(t, uid, fixedNow.Add(-time.Minute))

	all, err := e.records.List(context.Background(), uid, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{newest.ID, mid.ID, old.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	recent, err := e.records.List(context.Background(), uid, 30)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, newest.ID, recent[0].ID)

	_, err = e.records.List(context.Background(), uid, -1)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = e.records.List(context.Background(), uid, MaxWindowDays+1)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestHealthRecords_DeleteIsHard(t *testing.T) {
	e := newTestEnv(t)
	uid := e.register(t, "a@x.io")
	rec := e.addRecord(t, uid, fixedNow)

	require.NoError(t, e.records.Delete(context.Background(), uid, rec.ID))

	_, err := e.records.Get(context.Background(), uid, rec.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, e.records.Delete(context.Background(), uid, rec.ID), common.ErrNotFound)
}
