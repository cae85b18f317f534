package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/events"
	"github.com/jaffarkeikei/vector-markets/models"
)

// WalletService implements funds movement on and off the platform. Every
// operation pairs its balance mutation with a ledger entry in one
// transaction.
type WalletService struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory) *WalletService {
	return &WalletService{uowFactory: uowFactory}
}

// GetBalance returns the user's current balance
func (s *WalletService) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, ErrUserNotFound
	}

	return balance, nil
}

// Deposit credits available funds, recording the on-chain transfer hash
func (s *WalletService) Deposit(ctx context.Context, userID string, amount int64, txHash string) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeDeposit, amount, &txHash,
		func(uow UnitOfWork) error {
			return uow.BalanceRepository().Credit(ctx, userID, amount)
		})
}

// Withdraw debits available funds, recording the on-chain transfer hash
func (s *WalletService) Withdraw(ctx context.Context, userID string, amount int64, txHash string) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeWithdrawal, -amount, &txHash,
		func(uow UnitOfWork) error {
			return uow.BalanceRepository().Debit(ctx, userID, amount)
		})
}

// MoveToYield moves available funds into the yield position
func (s *WalletService) MoveToYield(ctx context.Context, userID string, amount int64) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeYieldDeposit, -amount, nil,
		func(uow UnitOfWork) error {
			return uow.BalanceRepository().MoveToYield(ctx, userID, amount)
		})
}

// WithdrawFromYield returns funds from the yield position to available
func (s *WalletService) WithdrawFromYield(ctx context.Context, userID string, amount int64) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeYieldWithdraw, amount, nil,
		func(uow UnitOfWork) error {
			return uow.BalanceRepository().ReturnFromYield(ctx, userID, amount)
		})
}

// ListTransactions returns the user's ledger entries, newest first
func (s *WalletService) ListTransactions(ctx context.Context, userID string, txType models.TransactionType, limit, offset int) ([]*models.Transaction, int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}
	defer uow.Rollback()

	return uow.TransactionRepository().ListByUser(ctx, userID, txType, limit, offset)
}

// move runs one balance mutation plus its ledger entry in a transaction.
// amount is the signed ledger amount; the mutation callback receives the
// magnitude through its closure.
func (s *WalletService) move(ctx context.Context, userID string, txType models.TransactionType, amount int64, txHash *string, mutate func(UnitOfWork) error) (*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := mutate(uow); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			balance, balErr := uow.BalanceRepository().GetByUserID(ctx, userID)
			if balErr != nil {
				return nil, balErr
			}
			required := amount
			if required < 0 {
				required = -required
			}
			return nil, &InsufficientBalanceError{Available: balance.Available, Required: required}
		}
		if errors.Is(err, ErrBalanceNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	txn := &models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		TxHash: txHash,
	}
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BalanceChangedEvent{
		UserID:          userID,
		TransactionType: txType,
		Amount:          amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"type":   txType,
		"amount": amount,
	}).Info("Balance updated")

	return txn, nil
}
