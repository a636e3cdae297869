package labController

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"carelink/internal/repositories"
	"carelink/internal/services"
	"context"
	"errors"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MaxIndicatorsPerResult = 200

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("lab result not found")
)

// LabController records structured lab panels and triggers
// recommendation generation on intake. Lab data is patient-only: no
// capability exists for it, so no patient resolution happens here.
type LabController struct {
	labResultRepo         repositories.LabResultRepository
	recommendationService *services.RecommendationService
	transactionService    *services.TransactionService
	db                    database.DB
	log                   logger.Logger
}

type IndicatorInput struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Value         decimal.Decimal  `json:"value"`
	Unit          string           `json:"unit,omitempty"`
	ReferenceLow  *decimal.Decimal `json:"referenceLow,omitempty"`
	ReferenceHigh *decimal.Decimal `json:"referenceHigh,omitempty"`
}

type SubmitResultRequest struct {
	LabName     string           `json:"labName,omitempty"`
	CollectedAt string           `json:"collectedAt"`
	Indicators  []IndicatorInput `json:"indicators"`
}

type SubmitResultResponse struct {
	Result          *LabResult        `json:"result"`
	Recommendations []*Recommendation `json:"recommendations"`
}

type LabControllerInterface interface {
	SubmitResult(
		ctx context.Context,
		user *User,
		request *SubmitResultRequest,
	) (*SubmitResultResponse, error)
	GetResult(ctx context.Context, user *User, resultID uuid.UUID) (*LabResult, error)
	ListResults(ctx context.Context, user *User) ([]*LabResult, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) LabControllerInterface {
	return &LabController{
		labResultRepo:         repos.LabResult,
		recommendationService: services.Recommendation,
		transactionService:    services.Transaction,
		db:                    db,
		log:                   logger.New("labController"),
	}
}

// SubmitResult stores the panel and runs recommendation generation
// against the patient's refreshed signal set. The panel write commits
// before generation runs; a generation failure leaves the panel
// stored and is retried by the nightly sweep.
func (c *LabController) SubmitResult(
	ctx context.Context,
	user *User,
	request *SubmitResultRequest,
) (*SubmitResultResponse, error) {
	log := c.log.Function("SubmitResult")

	collectedAt, err := parseCollectedAt(request.CollectedAt)
	if err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid collectedAt", "error", err)
	}

	if len(request.Indicators) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "at least one indicator is required")
	}

	if len(request.Indicators) > MaxIndicatorsPerResult {
		return nil, log.ErrorWithType(
			ErrValidation,
			"too many indicators",
			"count", len(request.Indicators),
			"max", MaxIndicatorsPerResult,
		)
	}

	indicators := make([]LabIndicator, 0, len(request.Indicators))
	abnormal := 0
	for _, input := range request.Indicators {
		if input.Code == "" || input.Name == "" {
			return nil, log.ErrorWithType(ErrValidation, "indicator code and name are required")
		}

		indicator := LabIndicator{
			Code:          input.Code,
			Name:          input.Name,
			Value:         input.Value,
			Unit:          input.Unit,
			ReferenceLow:  input.ReferenceLow,
			ReferenceHigh: input.ReferenceHigh,
		}
		indicator.Status = indicator.ResolveStatus()
		if indicator.Status.IsAbnormal() {
			abnormal++
		}
		indicators = append(indicators, indicator)
	}

	result := &LabResult{
		UserID:      user.ID,
		LabName:     request.LabName,
		CollectedAt: collectedAt,
		Indicators:  indicators,
	}

	err = c.transactionService.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		return c.labResultRepo.Create(txCtx, tx, result)
	})
	if err != nil {
		return nil, err
	}

	recommendations, err := c.recommendationService.GenerateForPatient(ctx, user.ID)
	if err != nil {
		log.Warn(
			"generation failed after lab intake, sweep will retry",
			"userID", user.ID,
			"labResultID", result.ID,
			"error", err,
		)
		recommendations = nil
	}

	log.Info(
		"lab result recorded",
		"userID", user.ID,
		"labResultID", result.ID,
		"indicators", len(indicators),
		"abnormalIndicators", abnormal,
		"recommendationsCreated", len(recommendations),
	)

	return &SubmitResultResponse{
		Result:          result,
		Recommendations: recommendations,
	}, nil
}

func (c *LabController) GetResult(
	ctx context.Context,
	user *User,
	resultID uuid.UUID,
) (*LabResult, error) {
	log := c.log.Function("GetResult")

	result, err := c.labResultRepo.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(ErrNotFound, "lab result not found", "resultID", resultID)
		}
		return nil, log.Err("failed to get lab result", err, "resultID", resultID)
	}

	if result.UserID != user.ID {
		return nil, log.ErrorWithType(
			ErrNotFound,
			"lab result does not belong to user",
			"resultID", resultID,
			"userID", user.ID,
		)
	}

	return result, nil
}

func (c *LabController) ListResults(
	ctx context.Context,
	user *User,
) ([]*LabResult, error) {
	return c.labResultRepo.ListByUser(ctx, user.ID)
}

func parseCollectedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("collectedAt is required")
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("invalid collectedAt format, expected RFC3339")
	}

	if t.After(time.Now()) {
		return time.Time{}, errors.New("collectedAt cannot be in the future")
	}

	return t, nil
}
