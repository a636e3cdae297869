package services

import (
	"carelink/config"
	"carelink/internal/database"
	"carelink/internal/events"
	"carelink/internal/repositories"
)

type Service struct {
	Token          *TokenService
	Transaction    *TransactionService
	Access         *AccessService
	Recommendation *RecommendationService
	Scheduler      *SchedulerService
}

func New(
	db database.DB,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
) (Service, error) {
	tokenService, err := NewTokenService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Token:          tokenService,
		Transaction:    NewTransactionService(db),
		Access:         NewAccessService(repos),
		Recommendation: NewRecommendationService(repos, eventBus),
		Scheduler:      NewSchedulerService(),
	}, nil
}
