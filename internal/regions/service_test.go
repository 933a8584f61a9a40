package regions

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

func (m *mockRepository) CreateRegion(ctx context.Context, region *Region) error {
	args := m.Called(ctx, region)
	return args.Error(0)
}

func (m *mockRepository) GetRegionByID(ctx context.Context, id uuid.UUID) (*Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Region), args.Error(1)
}

func (m *mockRepository) ListRegions(ctx context.Context, limit, offset int, includeInactive bool) ([]*Region, int64, error) {
	args := m.Called(ctx, limit, offset, includeInactive)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Region), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) UpdateRegion(ctx context.Context, region *Region) error {
	args := m.Called(ctx, region)
	return args.Error(0)
}

func (m *mockRepository) DeleteRegion(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) CountFareMultipliers(ctx context.Context, regionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, regionID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateRegion(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	repo.On("CreateRegion", mock.Anything, mock.AnythingOfType("*regions.Region")).Return(nil)

	region, err := service.CreateRegion(context.Background(), &CreateRegionRequest{
		Name: "Dakar",
		Code: "DKR",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Dakar", region.Name)
	assert.True(t, region.IsActive)
}

func TestGetRegionByID_NotFound(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	id := uuid.New()

	repo.On("GetRegionByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := service.GetRegionByID(context.Background(), id)

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteRegion_BlockedByMultipliers(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	existing := &Region{ID: uuid.New(), Name: "Dakar", Code: "DKR", IsActive: true}

	repo.On("GetRegionByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("CountFareMultipliers", mock.Anything, existing.ID).Return(int64(2), nil)

	err := service.DeleteRegion(context.Background(), existing.ID)

	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "DeleteRegion", mock.Anything, mock.Anything)
}

func TestDeleteRegion_NoDependents(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	existing := &Region{ID: uuid.New(), Name: "Thies", Code: "THS", IsActive: true}

	repo.On("GetRegionByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("CountFareMultipliers", mock.Anything, existing.ID).Return(int64(0), nil)
	repo.On("DeleteRegion", mock.Anything, existing.ID).Return(nil)

	err := service.DeleteRegion(context.Background(), existing.ID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLookupRegion(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	existing := &Region{ID: uuid.New(), Name: "Saint-Louis", Code: "STL", IsActive: true}

	repo.On("GetRegionByID", mock.Anything, existing.ID).Return(existing, nil)

	name, err := service.LookupRegion(context.Background(), existing.ID)

	assert.NoError(t, err)
	assert.Equal(t, "Saint-Louis", name)
}
