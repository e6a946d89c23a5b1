package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/nattawatz/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockSeatMultiplierRepository struct {
	mock.Mock
}

func (m *MockSeatMultiplierRepository) GetByClass(ctx context.Context, class domain.SeatClass) (*domain.SeatMultiplier, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMultiplier), args.Error(1)
}

func (m *MockSeatMultiplierRepository) List(ctx context.Context) ([]domain.SeatMultiplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SeatMultiplier), args.Error(1)
}

type MockMultiplierCache struct {
	mock.Mock
}

func (m *MockMultiplierCache) GetMultiplier(ctx context.Context, class domain.SeatClass) (float64, bool, error) {
	args := m.Called(ctx, class)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockMultiplierCache) SetMultiplier(ctx context.Context, class domain.SeatClass, multiplier float64, ttl time.Duration) error {
	args := m.Called(ctx, class, multiplier, ttl)
	return args.Error(0)
}

func TestResolver_Resolve(t *testing.T) {
	testCases := []struct {
		name       string
		basePrice  int64
		class      domain.SeatClass
		multiplier float64
		want       int64
	}{
		{"economy", 100000, domain.SeatClassEconomy, 1.0, 100000},
		{"business", 100000, domain.SeatClassBusiness, 1.5, 150000},
		{"first class", 100000, domain.SeatClassFirstClass, 2.0, 200000},
		{"rounds to nearest cent", 9999, domain.SeatClassBusiness, 1.5, 14999},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flightRepo := &MockFlightRepository{}
			multiplierRepo := &MockSeatMultiplierRepository{}
			ctx := context.Background()

			flightRepo.On("GetByID", ctx, int64(3)).Return(&domain.Flight{ID: 3, BasePriceCents: tc.basePrice}, nil).Once()
			multiplierRepo.On("GetByClass", ctx, tc.class).Return(&domain.SeatMultiplier{Class: tc.class, Multiplier: tc.multiplier}, nil).Once()

			resolver := NewResolver(flightRepo, multiplierRepo, nil, 0)
			amount, err := resolver.Resolve(ctx, 3, tc.class)

			assert.NoError(t, err)
			assert.Equal(t, tc.want, amount)
		})
	}
}

func TestResolver_Resolve_FlightNotFound(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	multiplierRepo := &MockSeatMultiplierRepository{}
	ctx := context.Background()

	flightRepo.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrFlightNotFound).Once()

	resolver := NewResolver(flightRepo, multiplierRepo, nil, 0)
	_, err := resolver.Resolve(ctx, 404, domain.SeatClassEconomy)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	multiplierRepo.AssertNotCalled(t, "GetByClass", mock.Anything, mock.Anything)
}

func TestResolver_Resolve_UnknownClassHasNoFallback(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	multiplierRepo := &MockSeatMultiplierRepository{}
	ctx := context.Background()

	flightRepo.On("GetByID", ctx, int64(3)).Return(&domain.Flight{ID: 3, BasePriceCents: 100000}, nil).Once()
	multiplierRepo.On("GetByClass", ctx, domain.SeatClass("Premium")).Return(nil, domain.ErrMultiplierNotFound).Once()

	resolver := NewResolver(flightRepo, multiplierRepo, nil, 0)
	_, err := resolver.Resolve(ctx, 3, domain.SeatClass("Premium"))

	assert.ErrorIs(t, err, domain.ErrMultiplierNotFound)
}

func TestResolver_Resolve_CacheHitSkipsRepository(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	multiplierRepo := &MockSeatMultiplierRepository{}
	multiplierCache := &MockMultiplierCache{}
	ctx := context.Background()

	flightRepo.On("GetByID", ctx, int64(3)).Return(&domain.Flight{ID: 3, BasePriceCents: 100000}, nil).Once()
	multiplierCache.On("GetMultiplier", ctx, domain.SeatClassBusiness).Return(1.5, true, nil).Once()

	resolver := NewResolver(flightRepo, multiplierRepo, multiplierCache, 10*time.Minute)
	amount, err := resolver.Resolve(ctx, 3, domain.SeatClassBusiness)

	assert.NoError(t, err)
	assert.Equal(t, int64(150000), amount)
	multiplierRepo.AssertNotCalled(t, "GetByClass", mock.Anything, mock.Anything)
}

func TestResolver_Resolve_CacheMissFillsCache(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	multiplierRepo := &MockSeatMultiplierRepository{}
	multiplierCache := &MockMultiplierCache{}
	ctx := context.Background()

	flightRepo.On("GetByID", ctx, int64(3)).Return(&domain.Flight{ID: 3, BasePriceCents: 100000}, nil).Once()
	multiplierCache.On("GetMultiplier", ctx, domain.SeatClassEconomy).Return(0.0, false, nil).Once()
	multiplierRepo.On("GetByClass", ctx, domain.SeatClassEconomy).Return(&domain.SeatMultiplier{Class: domain.SeatClassEconomy, Multiplier: 1.0}, nil).Once()
	multiplierCache.On("SetMultiplier", ctx, domain.SeatClassEconomy, 1.0, 10*time.Minute).Return(nil).Once()

	resolver := NewResolver(flightRepo, multiplierRepo, multiplierCache, 10*time.Minute)
	amount, err := resolver.Resolve(ctx, 3, domain.SeatClassEconomy)

	assert.NoError(t, err)
	assert.Equal(t, int64(100000), amount)
	multiplierCache.AssertExpectations(t)
}
