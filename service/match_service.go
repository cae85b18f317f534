package service

import (
	"context"

	"github.com/jaffarkeikei/vector-markets/models"
)

// MatchService implements match and market browsing
type MatchService struct {
	uowFactory UnitOfWorkFactory
}

// NewMatchService creates a new match service
func NewMatchService(uowFactory UnitOfWorkFactory) *MatchService {
	return &MatchService{uowFactory: uowFactory}
}

// ListMatches returns matches narrowed by the filter
func (s *MatchService) ListMatches(ctx context.Context, filter models.MatchFilter) ([]*models.Match, int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}
	defer uow.Rollback()

	return uow.MarketRepository().ListMatches(ctx, filter)
}

// GetMatchDetail returns a match with its open markets and outcomes
func (s *MatchService) GetMatchDetail(ctx context.Context, matchID string) (*models.MatchDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	detail, err := uow.MarketRepository().GetMatchDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrMatchNotFound
	}

	return detail, nil
}
