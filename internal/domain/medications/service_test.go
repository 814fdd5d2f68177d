package medications_test

import (
	"context"
	"testing"

	"medalert/internal/adapters/storage/memory"
	"medalert/internal/domain/medications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *medications.Service {
	return medications.NewService(memory.NewMedicationsRepo())
}

func validInput() medications.CreateInput {
	return medications.CreateInput{
		Name:      "Aspirin",
		Dosage:    "100mg",
		Time:      "08:00",
		Frequency: "Daily",
		Notes:     "Take with food",
	}
}

func TestCreate_TimeValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	invalid := []string{"25:00", "9:30", "0960", "24:00", "08:60", "8:5", "0800", "", "aa:bb"}
	for _, v := range invalid {
		in := validInput()
		in.Time = v
		_, err := svc.Create(ctx, "owner-1", in)
		assert.ErrorIs(t, err, medications.ErrInvalidInput, "time %q should be rejected", v)
	}

	valid := []string{"00:00", "08:00", "12:34", "19:59", "20:00", "23:59"}
	for _, v := range valid {
		in := validInput()
		in.Time = v
		_, err := svc.Create(ctx, "owner-1", in)
		assert.NoError(t, err, "time %q should be accepted", v)
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, tc := range []struct {
		name  string
		mut   func(*medications.CreateInput)
	}{
		{"empty name", func(in *medications.CreateInput) { in.Name = "  " }},
		{"empty dosage", func(in *medications.CreateInput) { in.Dosage = "" }},
		{"empty frequency", func(in *medications.CreateInput) { in.Frequency = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, err := svc.Create(ctx, "owner-1", in)
			assert.ErrorIs(t, err, medications.ErrInvalidInput)
		})
	}

	// Notes es opcional.
	in := validInput()
	in.Notes = ""
	_, err := svc.Create(ctx, "owner-1", in)
	assert.NoError(t, err)
}

func TestUpdate_PartialAndRevalidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	m, err := svc.Create(ctx, "owner-1", validInput())
	require.NoError(t, err)

	// Update parcial: solo dosage, el resto queda igual.
	dosage := "200mg"
	updated, err := svc.Update(ctx, "owner-1", m.ID, medications.UpdateInput{Dosage: &dosage})
	require.NoError(t, err)
	assert.Equal(t, "200mg", updated.Dosage)
	assert.Equal(t, "Aspirin", updated.Name)
	assert.Equal(t, "08:00", updated.Time)

	// La hora solo se revalida si viene.
	bad := "9:30"
	_, err = svc.Update(ctx, "owner-1", m.ID, medications.UpdateInput{Time: &bad})
	assert.ErrorIs(t, err, medications.ErrInvalidInput)

	good := "21:15"
	updated, err = svc.Update(ctx, "owner-1", m.ID, medications.UpdateInput{Time: &good})
	require.NoError(t, err)
	assert.Equal(t, "21:15", updated.Time)
}

func TestOwnershipIsolation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	m, err := svc.Create(ctx, "owner-a", validInput())
	require.NoError(t, err)

	// B no puede leer, editar ni borrar lo de A.
	_, err = svc.Get(ctx, "owner-b", m.ID)
	assert.ErrorIs(t, err, medications.ErrForbidden)

	name := "Stolen"
	_, err = svc.Update(ctx, "owner-b", m.ID, medications.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, medications.ErrForbidden)

	err = svc.Delete(ctx, "owner-b", m.ID)
	assert.ErrorIs(t, err, medications.ErrForbidden)

	// El listado de B no incluye nada de A.
	list, err := svc.ListByOwner(ctx, "owner-b")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete_SecondDeleteNotFound(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	m, err := svc.Create(ctx, "owner-1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner-1", m.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "owner-1", m.ID), medications.ErrNotFound)
}

func TestListByOwner_NewestFirst(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "owner-1", validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Ibuprofen"
	second, err := svc.Create(ctx, "owner-1", in)
	require.NoError(t, err)

	list, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
