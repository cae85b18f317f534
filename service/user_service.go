package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/models"
)

// UserService implements user lookup and first-connect provisioning
type UserService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) *UserService {
	return &UserService{uowFactory: uowFactory}
}

// GetOrCreateByWallet returns the user for a wallet address, provisioning
// a new user with a zeroed balance on first connect
func (s *UserService) GetOrCreateByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByWalletAddress(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:        user.ID,
		WalletAddress: user.WalletAddress,
	})

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
		"wallet": walletAddress,
	}).Info("User created")

	return user, nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Profile is a user together with balance and betting statistics
type Profile struct {
	User    *models.User
	Balance *models.Balance
	Stats   *models.UserStats
}

// GetProfile returns the user's profile view
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	balance, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := uow.UserRepository().GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Balance: balance, Stats: stats}, nil
}
