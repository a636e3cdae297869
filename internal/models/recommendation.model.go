package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RecommendationStatus string

const (
	RecommendationStatusActive    RecommendationStatus = "ACTIVE"
	RecommendationStatusViewed    RecommendationStatus = "VIEWED"
	RecommendationStatusClicked   RecommendationStatus = "CLICKED"
	RecommendationStatusPurchased RecommendationStatus = "PURCHASED"
	RecommendationStatusDismissed RecommendationStatus = "DISMISSED"
)

// IsTerminal reports whether no further action can change the status.
func (s RecommendationStatus) IsTerminal() bool {
	return s == RecommendationStatusPurchased || s == RecommendationStatusDismissed
}

type RecommendationType string

const (
	RecommendationTypeSupplement  RecommendationType = "supplement"
	RecommendationTypeLabRetest   RecommendationType = "lab_retest"
	RecommendationTypeClinicVisit RecommendationType = "clinic_visit"
)

type InteractionAction string

const (
	InteractionActionView     InteractionAction = "view"
	InteractionActionClick    InteractionAction = "click"
	InteractionActionPurchase InteractionAction = "purchase"
	InteractionActionDismiss  InteractionAction = "dismiss"
)

// IsValid reports whether the action is one of the four known values.
func (a InteractionAction) IsValid() bool {
	switch a {
	case InteractionActionView, InteractionActionClick,
		InteractionActionPurchase, InteractionActionDismiss:
		return true
	}
	return false
}

// NextStatus applies the lifecycle transition table. Status only ever
// moves forward along ACTIVE -> VIEWED -> CLICKED -> PURCHASED, or
// sideways into DISMISSED from ACTIVE/VIEWED. Terminal states and
// backward moves absorb the action unchanged; purchase skips
// intermediate states from any non-terminal status.
func NextStatus(current RecommendationStatus, action InteractionAction) RecommendationStatus {
	if current.IsTerminal() {
		return current
	}

	switch action {
	case InteractionActionView:
		if current == RecommendationStatusActive {
			return RecommendationStatusViewed
		}
	case InteractionActionClick:
		if current == RecommendationStatusActive || current == RecommendationStatusViewed {
			return RecommendationStatusClicked
		}
	case InteractionActionPurchase:
		return RecommendationStatusPurchased
	case InteractionActionDismiss:
		if current == RecommendationStatusActive || current == RecommendationStatusViewed {
			return RecommendationStatusDismissed
		}
	}

	return current
}

// Recommendation is a suggested product or service tied to a patient,
// produced by the generator from abnormal lab findings. Two rows
// sharing (UserID, Type, Title, CompanyID) are the same logical
// recommendation; the store enforces uniqueness of that key while a
// row is in a non-terminal status.
type Recommendation struct {
	BaseUUIDModel
	UserID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"userId"`
	User       User                 `gorm:"foreignKey:UserID"        json:"user"`
	Type       RecommendationType   `gorm:"type:varchar(20);not null" json:"type"`
	Title      string               `gorm:"type:text;not null"        json:"title"`
	CompanyID  *uuid.UUID           `gorm:"type:uuid"                 json:"companyId,omitempty"`
	ProductID  *uuid.UUID           `gorm:"type:uuid"                 json:"productId,omitempty"`
	AnalysisID *uuid.UUID           `gorm:"type:uuid;index"           json:"analysisId,omitempty"`
	Status     RecommendationStatus `gorm:"type:varchar(10);not null;default:'ACTIVE'" json:"status"`
	Metadata   datatypes.JSON       `gorm:"type:jsonb"                json:"metadata,omitempty"`

	Interactions []RecommendationInteraction `gorm:"foreignKey:RecommendationID;constraint:OnDelete:CASCADE" json:"interactions,omitempty"`
}

// RecommendationInteraction is one user-initiated event against a
// recommendation. Rows are append-only; even actions that do not
// change status are recorded.
type RecommendationInteraction struct {
	BaseUUIDModel
	RecommendationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"recommendationId"`
	Recommendation   Recommendation    `gorm:"foreignKey:RecommendationID" json:"-"`
	Action           InteractionAction `gorm:"type:varchar(10);not null"   json:"action"`
	Metadata         datatypes.JSON    `gorm:"type:jsonb"                  json:"metadata,omitempty"`
}
