package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return store
}

func TestOpenSeedsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	_, err := Open(path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, collection := range []string{"patients", "doctors", "appointments", "users"} {
		assert.JSONEq(t, "[]", string(doc[collection]), collection)
	}
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestMutationSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := Open(path)
	require.NoError(t, err)

	patient := model.Patient{ID: model.NewID(), Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"}
	require.NoError(t, store.update("patient_create", func(doc *document) error {
		doc.Patients = append(doc.Patients, patient)
		return nil
	}))

	reopened, err := Open(path)
	require.NoError(t, err)

	var got []model.Patient
	reopened.view(func(doc *document) { got = append(got, doc.Patients...) })
	require.Len(t, got, 1)
	assert.Equal(t, patient, got[0])
}

func TestRejectedMutationChangesNothing(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.update("patient_create", func(doc *document) error {
		doc.Patients = append(doc.Patients, model.Patient{ID: "p1", Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"})
		return nil
	}))

	err := store.update("patient_create", func(doc *document) error {
		doc.Patients = append(doc.Patients, model.Patient{ID: "p2"})
		return errors.Conflict("duplicate")
	})
	require.Error(t, err)

	store.view(func(doc *document) {
		assert.Len(t, doc.Patients, 1)
		assert.Equal(t, "p1", doc.Patients[0].ID)
	})
}

func TestFailedFlushDiscardsMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.update("patient_create", func(doc *document) error {
		doc.Patients = append(doc.Patients, model.Patient{ID: "p1", Name: "Alice", Email: "a@x.com", DOB: "1990-01-01"})
		return nil
	}))

	// Make the rename step fail: a directory now squats on the store path.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))

	err = store.update("patient_create", func(doc *document) error {
		doc.Patients = append(doc.Patients, model.Patient{ID: "p2", Name: "Bob", Email: "b@x.com", DOB: "1980-01-01"})
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInternal))

	// The in-memory state must behave as if the mutation never happened.
	store.view(func(doc *document) {
		require.Len(t, doc.Patients, 1)
		assert.Equal(t, "p1", doc.Patients[0].ID)
	})
}

func TestViewDoesNotMutate(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.update("doctor_create", func(doc *document) error {
		doc.Doctors = append(doc.Doctors, model.Doctor{ID: "d1", Name: "Bob", Specialty: "Cardiology"})
		return nil
	}))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	store.view(func(doc *document) {})
	store.view(func(doc *document) {})

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping())

	require.NoError(t, os.Remove(store.Path()))
	assert.Error(t, store.Ping())
}
