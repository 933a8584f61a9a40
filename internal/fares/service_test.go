package fares

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/taxigov/fare-platform/pkg/common"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateFareRate(ctx context.Context, rate *FareRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *mockRepository) GetFareRateByID(ctx context.Context, id uuid.UUID) (*FareRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FareRate), args.Error(1)
}

func (m *mockRepository) ListFareRates(ctx context.Context, filter FareRateFilter, limit, offset int) ([]*FareRate, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*FareRate), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) UpdateFareRate(ctx context.Context, rate *FareRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *mockRepository) DeleteFareRate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) HasActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, vehicleTypeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID, asOf time.Time) (*FareRate, error) {
	args := m.Called(ctx, vehicleTypeID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FareRate), args.Error(1)
}

func (m *mockRepository) ListActiveFareRateDetails(ctx context.Context, asOf time.Time) ([]*FareRateWithVehicleType, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*FareRateWithVehicleType), args.Error(1)
}

func (m *mockRepository) CreateRegionalMultiplier(ctx context.Context, multiplier *RegionalFareMultiplier) error {
	args := m.Called(ctx, multiplier)
	return args.Error(0)
}

func (m *mockRepository) GetRegionalMultiplierByID(ctx context.Context, id uuid.UUID) (*RegionalFareMultiplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RegionalFareMultiplier), args.Error(1)
}

func (m *mockRepository) ListRegionalMultipliers(ctx context.Context, filter MultiplierFilter, limit, offset int) ([]*RegionalFareMultiplier, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*RegionalFareMultiplier), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) UpdateRegionalMultiplier(ctx context.Context, multiplier *RegionalFareMultiplier) error {
	args := m.Called(ctx, multiplier)
	return args.Error(0)
}

func (m *mockRepository) DeleteRegionalMultiplier(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) HasActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, regionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID, asOf time.Time) (*RegionalFareMultiplier, error) {
	args := m.Called(ctx, regionID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RegionalFareMultiplier), args.Error(1)
}

func (m *mockRepository) GetStatistics(ctx context.Context, now time.Time) (*FareStatistics, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FareStatistics), args.Error(1)
}

type mockVehicleTypeDirectory struct {
	mock.Mock
}

func (m *mockVehicleTypeDirectory) LookupVehicleType(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type mockRegionDirectory struct {
	mock.Mock
}

func (m *mockRegionDirectory) LookupRegion(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func newTestService() (*Service, *mockRepository, *mockVehicleTypeDirectory, *mockRegionDirectory) {
	repo := &mockRepository{}
	vehicleTypes := &mockVehicleTypeDirectory{}
	regions := &mockRegionDirectory{}
	return NewService(repo, vehicleTypes, regions, nil), repo, vehicleTypes, regions
}

func TestCreateFareRate_Defaults(t *testing.T) {
	service, repo, vehicleTypes, _ := newTestService()
	vehicleTypeID := uuid.New()

	vehicleTypes.On("LookupVehicleType", mock.Anything, vehicleTypeID).Return("Standard", nil)
	repo.On("HasActiveFareRate", mock.Anything, vehicleTypeID).Return(false, nil)
	repo.On("CreateFareRate", mock.Anything, mock.AnythingOfType("*fares.FareRate")).Return(nil)

	rate, err := service.CreateFareRate(context.Background(), &CreateFareRateRequest{
		VehicleTypeID: vehicleTypeID,
		BaseFare:      500,
		PerKmRate:     70,
	}, nil)

	assert.NoError(t, err)
	assert.True(t, rate.IsActive)
	assert.Equal(t, 1.0, rate.NightMultiplier)
	assert.False(t, rate.EffectiveFrom.IsZero())
	assert.Nil(t, rate.EffectiveUntil)
	repo.AssertExpectations(t)
}

func TestCreateFareRate_ConflictWhenActiveExists(t *testing.T) {
	service, repo, vehicleTypes, _ := newTestService()
	vehicleTypeID := uuid.New()

	vehicleTypes.On("LookupVehicleType", mock.Anything, vehicleTypeID).Return("Standard", nil)
	repo.On("HasActiveFareRate", mock.Anything, vehicleTypeID).Return(true, nil)

	_, err := service.CreateFareRate(context.Background(), &CreateFareRateRequest{
		VehicleTypeID: vehicleTypeID,
		BaseFare:      500,
		PerKmRate:     70,
	}, nil)

	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "CreateFareRate", mock.Anything, mock.Anything)
}

func TestCreateFareRate_InactiveSkipsConflictCheck(t *testing.T) {
	service, repo, vehicleTypes, _ := newTestService()
	vehicleTypeID := uuid.New()
	inactive := false

	vehicleTypes.On("LookupVehicleType", mock.Anything, vehicleTypeID).Return("Standard", nil)
	repo.On("CreateFareRate", mock.Anything, mock.AnythingOfType("*fares.FareRate")).Return(nil)

	rate, err := service.CreateFareRate(context.Background(), &CreateFareRateRequest{
		VehicleTypeID: vehicleTypeID,
		BaseFare:      500,
		PerKmRate:     70,
		IsActive:      &inactive,
	}, nil)

	assert.NoError(t, err)
	assert.False(t, rate.IsActive)
	repo.AssertNotCalled(t, "HasActiveFareRate", mock.Anything, mock.Anything)
}

func TestCreateFareRate_UnknownVehicleType(t *testing.T) {
	service, repo, vehicleTypes, _ := newTestService()
	vehicleTypeID := uuid.New()

	vehicleTypes.On("LookupVehicleType", mock.Anything, vehicleTypeID).
		Return("", common.NewNotFoundError("vehicle type not found"))

	_, err := service.CreateFareRate(context.Background(), &CreateFareRateRequest{
		VehicleTypeID: vehicleTypeID,
		BaseFare:      500,
		PerKmRate:     70,
	}, nil)

	assert.ErrorIs(t, err, common.ErrNotFound)
	repo.AssertNotCalled(t, "HasActiveFareRate", mock.Anything, mock.Anything)
}

func TestUpdateFareRate_NotFound(t *testing.T) {
	service, repo, _, _ := newTestService()
	id := uuid.New()

	repo.On("GetFareRateByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := service.UpdateFareRate(context.Background(), id, &UpdateFareRateRequest{})

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateFareRate_ReactivationSkipsConflictCheck(t *testing.T) {
	service, repo, _, _ := newTestService()
	existing := testRate(500, 70, 1.2)
	existing.IsActive = false
	active := true

	repo.On("GetFareRateByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("UpdateFareRate", mock.Anything, existing).Return(nil)

	updated, err := service.UpdateFareRate(context.Background(), existing.ID, &UpdateFareRateRequest{
		IsActive: &active,
	})

	assert.NoError(t, err)
	assert.True(t, updated.IsActive)
	repo.AssertNotCalled(t, "HasActiveFareRate", mock.Anything, mock.Anything)
}

func TestUpdateFareRate_PartialPatch(t *testing.T) {
	service, repo, _, _ := newTestService()
	existing := testRate(500, 70, 1.2)
	newBaseFare := int64(600)

	repo.On("GetFareRateByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("UpdateFareRate", mock.Anything, existing).Return(nil)

	updated, err := service.UpdateFareRate(context.Background(), existing.ID, &UpdateFareRateRequest{
		BaseFare: &newBaseFare,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(600), updated.BaseFare)
	assert.Equal(t, int64(70), updated.PerKmRate)
	assert.Equal(t, 1.2, updated.NightMultiplier)
}

func TestDeleteFareRate_NotFound(t *testing.T) {
	service, repo, _, _ := newTestService()
	id := uuid.New()

	repo.On("GetFareRateByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	err := service.DeleteFareRate(context.Background(), id)

	assert.ErrorIs(t, err, common.ErrNotFound)
	repo.AssertNotCalled(t, "DeleteFareRate", mock.Anything, mock.Anything)
}

func TestGetActiveFareRateByVehicleType_NoneApplies(t *testing.T) {
	service, repo, _, _ := newTestService()
	vehicleTypeID := uuid.New()

	repo.On("GetActiveFareRate", mock.Anything, vehicleTypeID, mock.AnythingOfType("time.Time")).
		Return(nil, pgx.ErrNoRows)

	_, err := service.GetActiveFareRateByVehicleType(context.Background(), vehicleTypeID)

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCalculateFare_NoActiveRate(t *testing.T) {
	service, repo, _, _ := newTestService()
	vehicleTypeID := uuid.New()

	repo.On("GetActiveFareRate", mock.Anything, vehicleTypeID, mock.AnythingOfType("time.Time")).
		Return(nil, pgx.ErrNoRows)

	_, err := service.CalculateFare(context.Background(), &FareCalculationRequest{
		VehicleTypeID: vehicleTypeID,
		Distance:      10.5,
	})

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCalculateFare_RegionWithoutMultiplier(t *testing.T) {
	service, repo, _, _ := newTestService()
	rate := testRate(500, 70, 1.2)
	regionID := uuid.New()

	repo.On("GetActiveFareRate", mock.Anything, rate.VehicleTypeID, mock.AnythingOfType("time.Time")).
		Return(rate, nil)
	repo.On("GetActiveRegionalMultiplier", mock.Anything, regionID, mock.AnythingOfType("time.Time")).
		Return(nil, pgx.ErrNoRows)

	result, err := service.CalculateFare(context.Background(), &FareCalculationRequest{
		VehicleTypeID: rate.VehicleTypeID,
		Distance:      10.5,
		WaitingTime:   15,
		RegionID:      &regionID,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1310), result.TotalFare)
	assert.Nil(t, result.RegionalMultiplier)
}

func TestCalculateFare_WithRegionalMultiplier(t *testing.T) {
	service, repo, _, _ := newTestService()
	rate := testRate(500, 70, 1.2)
	regionID := uuid.New()
	multiplier := testMultiplier(regionID, 1.15)

	repo.On("GetActiveFareRate", mock.Anything, rate.VehicleTypeID, mock.AnythingOfType("time.Time")).
		Return(rate, nil)
	repo.On("GetActiveRegionalMultiplier", mock.Anything, regionID, mock.AnythingOfType("time.Time")).
		Return(multiplier, nil)

	result, err := service.CalculateFare(context.Background(), &FareCalculationRequest{
		VehicleTypeID: rate.VehicleTypeID,
		Distance:      10.5,
		WaitingTime:   15,
		RegionID:      &regionID,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1507), result.TotalFare)
	assert.Equal(t, 1.15, *result.RegionalMultiplier)
}

func TestCreateRegionalMultiplier_ConflictWhenActiveExists(t *testing.T) {
	service, repo, _, regions := newTestService()
	regionID := uuid.New()

	regions.On("LookupRegion", mock.Anything, regionID).Return("Dakar", nil)
	repo.On("HasActiveRegionalMultiplier", mock.Anything, regionID).Return(true, nil)

	_, err := service.CreateRegionalMultiplier(context.Background(), &CreateRegionalMultiplierRequest{
		RegionID:   regionID,
		Multiplier: floatPtr(1.15),
	}, nil)

	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "CreateRegionalMultiplier", mock.Anything, mock.Anything)
}

func TestCreateRegionalMultiplier_Defaults(t *testing.T) {
	service, repo, _, regions := newTestService()
	regionID := uuid.New()

	regions.On("LookupRegion", mock.Anything, regionID).Return("Dakar", nil)
	repo.On("HasActiveRegionalMultiplier", mock.Anything, regionID).Return(false, nil)
	repo.On("CreateRegionalMultiplier", mock.Anything, mock.AnythingOfType("*fares.RegionalFareMultiplier")).Return(nil)

	multiplier, err := service.CreateRegionalMultiplier(context.Background(), &CreateRegionalMultiplierRequest{
		RegionID: regionID,
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1.0, multiplier.Multiplier)
	assert.True(t, multiplier.IsActive)
}

func TestGetFareRatesByRegion_AppliesMultiplier(t *testing.T) {
	service, repo, _, _ := newTestService()
	regionID := uuid.New()
	multiplier := testMultiplier(regionID, 1.15)

	rate := testRate(500, 70, 1.2)
	details := []*FareRateWithVehicleType{
		{FareRate: *rate, VehicleTypeName: "Standard"},
	}

	repo.On("ListActiveFareRateDetails", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(details, nil)
	repo.On("GetActiveRegionalMultiplier", mock.Anything, regionID, mock.AnythingOfType("time.Time")).
		Return(multiplier, nil)

	previews, err := service.GetFareRatesByRegion(context.Background(), regionID)

	assert.NoError(t, err)
	assert.Len(t, previews, 1)
	assert.Equal(t, int64(575), previews[0].BaseFare)
	// 70 * 1.15 is 80.5 and rounds up
	assert.Equal(t, int64(81), previews[0].PerKmRate)
	assert.Equal(t, "Standard", previews[0].VehicleTypeName)
	assert.Equal(t, 1.15, *previews[0].RegionalMultiplier)
}

func TestGetFareRatesByRegion_NoMultiplierLeavesRatesUnchanged(t *testing.T) {
	service, repo, _, _ := newTestService()
	regionID := uuid.New()

	rate := testRate(500, 70, 1.2)
	details := []*FareRateWithVehicleType{
		{FareRate: *rate, VehicleTypeName: "Standard"},
	}

	repo.On("ListActiveFareRateDetails", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(details, nil)
	repo.On("GetActiveRegionalMultiplier", mock.Anything, regionID, mock.AnythingOfType("time.Time")).
		Return(nil, pgx.ErrNoRows)

	previews, err := service.GetFareRatesByRegion(context.Background(), regionID)

	assert.NoError(t, err)
	assert.Len(t, previews, 1)
	assert.Equal(t, int64(500), previews[0].BaseFare)
	assert.Equal(t, int64(70), previews[0].PerKmRate)
	assert.Nil(t, previews[0].RegionalMultiplier)
}

func TestGetFareStatistics(t *testing.T) {
	service, repo, _, _ := newTestService()
	stats := &FareStatistics{
		FareRates: FareRateStats{Total: 12, Active: 4, Inactive: 8},
	}

	repo.On("GetStatistics", mock.Anything, mock.AnythingOfType("time.Time")).Return(stats, nil)

	result, err := service.GetFareStatistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), result.FareRates.Total)
	assert.Equal(t, int64(4), result.FareRates.Active)
}
