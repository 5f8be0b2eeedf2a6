package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterService(t *testing.T) {
	svc := NewRegisterService(&fakeRegisterRepo{s: newStore()})
	ctx := tenantCtx()

	front, err := svc.CreateRegister(ctx, " Front till ", ptr("Counter 1"))
	require.NoError(t, err)
	assert.Equal(t, "Front till", front.Name)
	assert.True(t, front.IsActive)

	_, err = svc.CreateRegister(ctx, "Front till", nil)
	requireAppError(t, err, statusConflict)
	_, err = svc.CreateRegister(ctx, "   ", nil)
	requireAppError(t, err, statusBadRequest)

	back, err := svc.CreateRegister(ctx, "Back till", nil)
	require.NoError(t, err)

	_, err = svc.UpdateRegister(ctx, &UpdateRegisterInput{ID: back.ID, Name: ptr("Front till")})
	requireAppError(t, err, statusConflict)

	renamed, err := svc.UpdateRegister(ctx, &UpdateRegisterInput{ID: back.ID, Name: ptr("Store room"), Location: ptr("Rear")})
	require.NoError(t, err)
	assert.Equal(t, "Store room", renamed.Name)
	assert.Equal(t, "Rear", *renamed.Location)

	require.NoError(t, svc.DeactivateRegister(ctx, back.ID))

	active, err := svc.ListRegisters(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, front.ID, active[0].ID)

	all, err := svc.ListRegisters(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	requireAppError(t, svc.DeactivateRegister(ctx, uuid.New()), statusNotFound)
}
