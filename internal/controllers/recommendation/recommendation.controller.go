package recommendationController

import (
	"carelink/internal/database"
	"carelink/internal/events"
	. "carelink/internal/models"
	"carelink/internal/repositories"
	"carelink/internal/services"
	"context"
	"encoding/json"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempts at the compare-and-set status update before giving up.
const maxStatusRetries = 3

var (
	ErrNotFound      = errors.New("recommendation not found")
	ErrInvalidAction = errors.New("invalid interaction action")
	ErrConflict      = errors.New("status update conflict")
)

// errStatusContended aborts one transaction attempt so the retry loop
// can re-read the row. Never escapes RecordInteraction.
var errStatusContended = errors.New("status contended")

// transactionExecutor is the slice of TransactionService this
// controller needs.
type transactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type RecommendationController struct {
	recommendationRepo    repositories.RecommendationRepository
	interactionRepo       repositories.InteractionRepository
	recommendationService *services.RecommendationService
	transactionService    transactionExecutor
	eventBus              *events.EventBus
	db                    database.DB
	log                   logger.Logger
}

func marshalMetadata(metadata map[string]any) (datatypes.JSON, error) {
	if len(metadata) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}

type RecordInteractionRequest struct {
	Action   InteractionAction `json:"action"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

type RecordInteractionResponse struct {
	Recommendation *Recommendation            `json:"recommendation"`
	Interaction    *RecommendationInteraction `json:"interaction"`
}

type RecommendationControllerInterface interface {
	ListForUser(
		ctx context.Context,
		user *User,
		status *RecommendationStatus,
	) ([]*Recommendation, error)
	RecordInteraction(
		ctx context.Context,
		user *User,
		recommendationID uuid.UUID,
		request *RecordInteractionRequest,
	) (*RecordInteractionResponse, error)
	ListInteractions(
		ctx context.Context,
		user *User,
		recommendationID uuid.UUID,
	) ([]*RecommendationInteraction, error)
	Refresh(ctx context.Context, user *User) ([]*Recommendation, error)
	AdminDelete(ctx context.Context, recommendationID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	db database.DB,
) RecommendationControllerInterface {
	return &RecommendationController{
		recommendationRepo:    repos.Recommendation,
		interactionRepo:       repos.Interaction,
		recommendationService: services.Recommendation,
		transactionService:    services.Transaction,
		eventBus:              eventBus,
		db:                    db,
		log:                   logger.New("recommendationController"),
	}
}

// ListForUser returns the caller's own recommendations, optionally
// filtered by status. Recommendations are not delegation-eligible, so
// there is no patient resolution here.
func (c *RecommendationController) ListForUser(
	ctx context.Context,
	user *User,
	status *RecommendationStatus,
) ([]*Recommendation, error) {
	return c.recommendationRepo.ListByUser(ctx, user.ID, status)
}

// RecordInteraction appends the interaction and advances the status
// per the transition table. The interaction row is written even when
// the action does not move the status, so terminal recommendations
// still accumulate history.
//
// The status write is compare-and-set against the status read at the
// start of the attempt. A lost race rolls the attempt back, including
// its interaction row, and retries from a fresh read. Exhausting the
// retries surfaces ErrConflict.
func (c *RecommendationController) RecordInteraction(
	ctx context.Context,
	user *User,
	recommendationID uuid.UUID,
	request *RecordInteractionRequest,
) (*RecordInteractionResponse, error) {
	log := c.log.Function("RecordInteraction")

	if !request.Action.IsValid() {
		return nil, log.ErrorWithType(
			ErrInvalidAction,
			"unknown interaction action",
			"action", request.Action,
			"recommendationID", recommendationID,
		)
	}

	metadata, err := marshalMetadata(request.Metadata)
	if err != nil {
		return nil, log.Err("failed to marshal interaction metadata", err)
	}

	var recommendation *Recommendation
	var interaction *RecommendationInteraction

	for attempt := 0; attempt < maxStatusRetries; attempt++ {
		recommendation, err = c.recommendationRepo.GetByID(ctx, nil, recommendationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, log.ErrorWithType(
					ErrNotFound,
					"recommendation not found",
					"recommendationID", recommendationID,
				)
			}
			return nil, log.Err("failed to get recommendation", err, "recommendationID", recommendationID)
		}

		// Ownership is reported as not-found so callers cannot probe
		// for other users' recommendation ids.
		if recommendation.UserID != user.ID {
			return nil, log.ErrorWithType(
				ErrNotFound,
				"recommendation does not belong to user",
				"recommendationID", recommendationID,
				"userID", user.ID,
			)
		}

		from := recommendation.Status
		to := NextStatus(from, request.Action)

		interaction = &RecommendationInteraction{
			RecommendationID: recommendationID,
			Action:           request.Action,
			Metadata:         metadata,
		}

		err = c.transactionService.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
			if err := c.interactionRepo.Create(txCtx, tx, interaction); err != nil {
				return err
			}

			if to == from {
				return nil
			}

			updated, err := c.recommendationRepo.UpdateStatusCAS(txCtx, tx, recommendationID, from, to)
			if err != nil {
				return err
			}
			if !updated {
				return errStatusContended
			}

			return nil
		})
		if err == nil {
			if to != from {
				recommendation.Status = to
				c.recommendationRepo.ClearUserCache(ctx, user.ID)
				c.publishStatusChanged(user.ID, recommendationID, from, to)
			}

			return &RecordInteractionResponse{
				Recommendation: recommendation,
				Interaction:    interaction,
			}, nil
		}
		if !errors.Is(err, errStatusContended) {
			return nil, err
		}

		log.Warn(
			"status update contended, retrying",
			"recommendationID", recommendationID,
			"attempt", attempt+1,
		)
	}

	return nil, log.ErrorWithType(
		ErrConflict,
		"status update retries exhausted",
		"recommendationID", recommendationID,
		"action", request.Action,
	)
}

func (c *RecommendationController) ListInteractions(
	ctx context.Context,
	user *User,
	recommendationID uuid.UUID,
) ([]*RecommendationInteraction, error) {
	log := c.log.Function("ListInteractions")

	recommendation, err := c.recommendationRepo.GetByID(ctx, nil, recommendationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "recommendation not found")
		}
		return nil, log.Err("failed to get recommendation", err, "recommendationID", recommendationID)
	}

	if recommendation.UserID != user.ID {
		return nil, log.ErrorWithType(ErrNotFound, "recommendation does not belong to user")
	}

	return c.interactionRepo.ListByRecommendation(ctx, recommendationID)
}

// Refresh re-runs generation for the caller on demand. Generation is
// idempotent, so a refresh with no new lab signal is a no-op.
func (c *RecommendationController) Refresh(
	ctx context.Context,
	user *User,
) ([]*Recommendation, error) {
	return c.recommendationService.GenerateForPatient(ctx, user.ID)
}

// AdminDelete removes a recommendation and its interaction history.
// The admin middleware gates access; the ownership check is skipped
// deliberately.
func (c *RecommendationController) AdminDelete(
	ctx context.Context,
	recommendationID uuid.UUID,
) error {
	log := c.log.Function("AdminDelete")

	interactionCount, err := c.interactionRepo.CountByRecommendation(ctx, recommendationID)
	if err != nil {
		log.Warn(
			"failed to count interactions before delete",
			"recommendationID", recommendationID,
			"error", err,
		)
	}

	err = c.recommendationRepo.DeleteCascade(ctx, recommendationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(ErrNotFound, "recommendation not found")
		}
		return err
	}

	log.Info(
		"recommendation deleted",
		"recommendationID", recommendationID,
		"interactionsRemoved", interactionCount,
	)
	return nil
}

func (c *RecommendationController) publishStatusChanged(
	userID, recommendationID uuid.UUID,
	from, to RecommendationStatus,
) {
	if c.eventBus == nil {
		return
	}

	err := c.eventBus.Publish(events.RECOMMENDATIONS_CHANNEL, events.Event{
		Type:   events.RECOMMENDATION_STATUS_CHANGED,
		UserID: &userID,
		Data: map[string]any{
			"recommendationId": recommendationID,
			"from":             from,
			"to":               to,
		},
	})
	if err != nil {
		c.log.Warn("failed to publish status change", "recommendationID", recommendationID, "error", err)
	}

	if err := c.eventBus.PublishCacheInvalidation(userID); err != nil {
		c.log.Warn("failed to publish cache invalidation", "userID", userID, "error", err)
	}
}
