package vehicletypes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/taxigov/fare-platform/pkg/common"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateVehicleType(ctx context.Context, vt *VehicleType) error {
	args := m.Called(ctx, vt)
	return args.Error(0)
}

func (m *mockRepository) GetVehicleTypeByID(ctx context.Context, id uuid.UUID) (*VehicleType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VehicleType), args.Error(1)
}

func (m *mockRepository) ListVehicleTypes(ctx context.Context, limit, offset int, includeInactive bool) ([]*VehicleType, int64, error) {
	args := m.Called(ctx, limit, offset, includeInactive)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*VehicleType), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) UpdateVehicleType(ctx context.Context, vt *VehicleType) error {
	args := m.Called(ctx, vt)
	return args.Error(0)
}

func (m *mockRepository) DeactivateVehicleType(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateVehicleType(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	repo.On("CreateVehicleType", mock.Anything, mock.AnythingOfType("*vehicletypes.VehicleType")).Return(nil)

	vt, err := service.CreateVehicleType(context.Background(), &CreateVehicleTypeRequest{
		Name:     "Standard",
		Capacity: 4,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Standard", vt.Name)
	assert.True(t, vt.IsActive)
	repo.AssertExpectations(t)
}

func TestGetVehicleTypeByID_NotFound(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	id := uuid.New()

	repo.On("GetVehicleTypeByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := service.GetVehicleTypeByID(context.Background(), id)

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateVehicleType_PartialPatch(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	existing := &VehicleType{ID: uuid.New(), Name: "Standard", Capacity: 4, IsActive: true}
	newName := "Premium"

	repo.On("GetVehicleTypeByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("UpdateVehicleType", mock.Anything, existing).Return(nil)

	updated, err := service.UpdateVehicleType(context.Background(), existing.ID, &UpdateVehicleTypeRequest{
		Name: &newName,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Premium", updated.Name)
	assert.Equal(t, 4, updated.Capacity)
}

func TestDeactivateVehicleType_NotFound(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	id := uuid.New()

	repo.On("GetVehicleTypeByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	err := service.DeactivateVehicleType(context.Background(), id)

	assert.ErrorIs(t, err, common.ErrNotFound)
	repo.AssertNotCalled(t, "DeactivateVehicleType", mock.Anything, mock.Anything)
}

func TestLookupVehicleType(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	existing := &VehicleType{ID: uuid.New(), Name: "Moto", Capacity: 1, IsActive: true}

	repo.On("GetVehicleTypeByID", mock.Anything, existing.ID).Return(existing, nil)

	name, err := service.LookupVehicleType(context.Background(), existing.ID)

	assert.NoError(t, err)
	assert.Equal(t, "Moto", name)
}
