package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

func openTestLocal(t *testing.T) (*Local, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orthoprice.db")
	l, err := OpenLocal(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, path
}

func TestLocal_SeedsOnFirstUse(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	patients, err := l.Patients().List(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 3)
	assert.Equal(t, "João Silva", patients[0].Name)

	materials, err := l.Materials().List(ctx)
	require.NoError(t, err)
	assert.Len(t, materials, 4)

	procedures, err := l.Procedures().List(ctx)
	require.NoError(t, err)
	assert.Len(t, procedures, 2)
}

func TestLocal_SeedNotReappliedOnceSlotExists(t *testing.T) {
	l, path := openTestLocal(t)
	ctx := context.Background()

	// Empty the patients slot entirely, then reopen.
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, l.Patients().Delete(ctx, id))
	}
	require.NoError(t, l.Close())

	reopened, err := OpenLocal(path, 0)
	require.NoError(t, err)
	defer reopened.Close()

	patients, err := reopened.Patients().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients, "an existing (even empty) slot must not be reseeded")
}

func TestLocal_CreateAssignsUniqueIDs(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	seen := map[string]bool{}
	existing, err := l.Patients().List(ctx)
	require.NoError(t, err)
	for _, p := range existing {
		seen[p.ID] = true
	}

	for i := 0; i < 20; i++ {
		p, err := l.Patients().Create(ctx, clinic.Fields{"name": "Ana", "age": 30})
		require.NoError(t, err)
		require.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "id %q reused", p.ID)
		seen[p.ID] = true
	}
}

func TestLocal_CreateCoercion(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	created, err := l.Patients().Create(ctx, clinic.Fields{"name": "João", "age": "35"})
	require.NoError(t, err)
	assert.Equal(t, 35, created.Age)
	assert.Equal(t, 0, created.Loyalty)

	got, err := l.Patients().Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)
}

func TestLocal_GetAbsentReturnsNil(t *testing.T) {
	l, _ := openTestLocal(t)

	p, err := l.Patients().Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLocal_UpdateIsFullReplace(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	created, err := l.Patients().Create(ctx, clinic.Fields{"name": "Pedro", "age": 42, "loyalty": 7})
	require.NoError(t, err)

	// The update payload omits loyalty; the stored record must not
	// keep the stale value.
	updated, err := l.Patients().Update(ctx, created.ID, clinic.Fields{"name": "Pedro Costa", "age": 43})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 0, updated.Loyalty)

	got, err := l.Patients().Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, clinic.Patient{ID: created.ID, Name: "Pedro Costa", Age: 43, Loyalty: 0}, *got)
}

func TestLocal_UpdateAbsentIsNotFound(t *testing.T) {
	l, _ := openTestLocal(t)

	_, err := l.Materials().Update(context.Background(), "999", clinic.Fields{"name": "Fio", "quantity": 1, "value": 2.5})
	require.Error(t, err)
	assert.True(t, clinic.IsNotFound(err))
}

func TestLocal_DeleteIsIdempotent(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.Materials().Delete(ctx, "1"))
	require.NoError(t, l.Materials().Delete(ctx, "1"), "second delete of the same id is a silent no-op")
	require.NoError(t, l.Materials().Delete(ctx, "never-existed"))

	m, err := l.Materials().Get(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestLocal_ValidationErrorBeforeWrite(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	_, err := l.Patients().Create(ctx, clinic.Fields{"age": 20})
	assert.True(t, clinic.IsValidation(err))

	patients, listErr := l.Patients().List(ctx)
	require.NoError(t, listErr)
	assert.Len(t, patients, 3, "failed create must not touch the collection")
}

func TestLocal_ProcedureEnrichment(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	// Seed procedure "1" references materials "1" and "2".
	e, err := l.Procedures().Get(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Len(t, e.Resolved, 2)
	require.NotNil(t, e.Resolved[0].Material)
	assert.Equal(t, "Anestésico", e.Resolved[0].Material.Name)
	assert.Equal(t, 2, e.Resolved[0].Quantity)

	// The join reflects the materials collection as it is now.
	_, err = l.Materials().Update(ctx, "1", clinic.Fields{"name": "Anestésico Forte", "quantity": 40, "value": 18.0})
	require.NoError(t, err)
	e, err = l.Procedures().Get(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, e.Resolved[0].Material)
	assert.Equal(t, "Anestésico Forte", e.Resolved[0].Material.Name, "enrichment is recomputed on every read")
}

func TestLocal_EnrichmentSurvivesDanglingReference(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	created, err := l.Procedures().Create(ctx, clinic.Fields{
		"name":     "Extração",
		"duration": 60,
		"materials": []any{
			map[string]any{"materialId": "99", "quantidade": 1},
		},
	})
	require.NoError(t, err)

	e, err := l.Procedures().Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, e.Resolved, 1)
	assert.Nil(t, e.Resolved[0].Material)
	assert.Equal(t, 1, e.Resolved[0].Quantity, "usage quantity intact when the reference dangles")

	// Same shape when a referenced material is deleted after the fact.
	require.NoError(t, l.Materials().Delete(ctx, "3"))
	e2, err := l.Procedures().Get(ctx, "2") // seed procedure using material "3"
	require.NoError(t, err)
	require.Len(t, e2.Resolved, 1)
	assert.Nil(t, e2.Resolved[0].Material)
}

func TestLocal_ListByPatient(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	mine, err := l.Procedures().ListByPatient(ctx, "1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Restauração Simples", mine[0].Name)

	none, err := l.Procedures().ListByPatient(ctx, "no-such-patient")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLocal_DeleteThenGetStaysAbsent(t *testing.T) {
	l, _ := openTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.Patients().Delete(ctx, "2"))
	for i := 0; i < 3; i++ {
		p, err := l.Patients().Get(ctx, "2")
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func TestOpen_StrategySelection(t *testing.T) {
	_, err := Open(Options{Strategy: "elsewhere"})
	require.Error(t, err)

	_, err = Open(Options{Strategy: StrategyRemote})
	require.Error(t, err, "remote needs a base URL")

	_, err = Open(Options{Strategy: StrategyLocal})
	require.Error(t, err, "local needs a path")

	st, err := Open(Options{Strategy: StrategyLocal, Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	require.NoError(t, st.Close())
}
