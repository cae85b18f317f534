package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/models"
)

type userMocks struct {
	factory     *MockUnitOfWorkFactory
	uow         *MockUnitOfWork
	userRepo    *MockUserRepository
	balanceRepo *MockBalanceRepository
	publisher   *MockEventPublisher
}

func newUserMocks(ctx context.Context) *userMocks {
	m := &userMocks{
		factory:     &MockUnitOfWorkFactory{},
		uow:         &MockUnitOfWork{},
		userRepo:    &MockUserRepository{},
		balanceRepo: &MockBalanceRepository{},
		publisher:   &MockEventPublisher{},
	}
	m.uow.SetRepositories(m.userRepo, m.balanceRepo, nil, nil, nil, m.publisher)
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func TestUserService_GetOrCreateByWallet_ExistingUser(t *testing.T) {
	ctx := context.Background()
	m := newUserMocks(ctx)

	existing := &models.User{ID: "user-1", WalletAddress: "wallet-1", CreatedAt: time.Now()}
	m.userRepo.On("GetByWalletAddress", ctx, "wallet-1").Return(existing, nil)

	service := NewUserService(m.factory)
	user, err := service.GetOrCreateByWallet(ctx, "wallet-1")
	require.NoError(t, err)
	assert.Equal(t, existing, user)

	m.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestUserService_GetOrCreateByWallet_FirstConnect(t *testing.T) {
	ctx := context.Background()
	m := newUserMocks(ctx)

	created := &models.User{ID: "user-2", WalletAddress: "wallet-2", CreatedAt: time.Now()}
	m.userRepo.On("GetByWalletAddress", ctx, "wallet-2").Return(nil, nil)
	m.userRepo.On("Create", ctx, "wallet-2").Return(created, nil)
	m.publisher.On("Publish", events.UserCreatedEvent{UserID: "user-2", WalletAddress: "wallet-2"}).Return()
	m.uow.On("Commit").Return(nil)

	service := NewUserService(m.factory)
	user, err := service.GetOrCreateByWallet(ctx, "wallet-2")
	require.NoError(t, err)
	assert.Equal(t, created, user)

	m.uow.AssertCalled(t, "Commit")
	m.publisher.AssertExpectations(t)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newUserMocks(ctx)

	m.userRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	service := NewUserService(m.factory)
	_, err := service.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	m := newUserMocks(ctx)

	user := &models.User{ID: "user-1", WalletAddress: "wallet-1"}
	balance := &models.Balance{UserID: "user-1", Available: 90000, Locked: 10000}
	stats := &models.UserStats{TotalBets: 5, WonBets: 2, TotalWagered: 50000, TotalReturn: 66000}

	m.userRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	m.balanceRepo.On("GetByUserID", ctx, "user-1").Return(balance, nil)
	m.userRepo.On("GetStats", ctx, "user-1").Return(stats, nil)

	service := NewUserService(m.factory)
	profile, err := service.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user, profile.User)
	assert.Equal(t, int64(100000), profile.Balance.Total())
	assert.Equal(t, int64(16000), profile.Stats.Profit())
	assert.Equal(t, 32.0, profile.Stats.ROI())
}
