package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		current  RecommendationStatus
		action   InteractionAction
		expected RecommendationStatus
	}{
		{RecommendationStatusActive, InteractionActionView, RecommendationStatusViewed},
		{RecommendationStatusActive, InteractionActionClick, RecommendationStatusClicked},
		{RecommendationStatusActive, InteractionActionPurchase, RecommendationStatusPurchased},
		{RecommendationStatusActive, InteractionActionDismiss, RecommendationStatusDismissed},

		{RecommendationStatusViewed, InteractionActionView, RecommendationStatusViewed},
		{RecommendationStatusViewed, InteractionActionClick, RecommendationStatusClicked},
		{RecommendationStatusViewed, InteractionActionPurchase, RecommendationStatusPurchased},
		{RecommendationStatusViewed, InteractionActionDismiss, RecommendationStatusDismissed},

		{RecommendationStatusClicked, InteractionActionView, RecommendationStatusClicked},
		{RecommendationStatusClicked, InteractionActionClick, RecommendationStatusClicked},
		{RecommendationStatusClicked, InteractionActionPurchase, RecommendationStatusPurchased},
		{RecommendationStatusClicked, InteractionActionDismiss, RecommendationStatusClicked},

		{RecommendationStatusPurchased, InteractionActionView, RecommendationStatusPurchased},
		{RecommendationStatusPurchased, InteractionActionClick, RecommendationStatusPurchased},
		{RecommendationStatusPurchased, InteractionActionPurchase, RecommendationStatusPurchased},
		{RecommendationStatusPurchased, InteractionActionDismiss, RecommendationStatusPurchased},

		{RecommendationStatusDismissed, InteractionActionView, RecommendationStatusDismissed},
		{RecommendationStatusDismissed, InteractionActionClick, RecommendationStatusDismissed},
		{RecommendationStatusDismissed, InteractionActionPurchase, RecommendationStatusDismissed},
		{RecommendationStatusDismissed, InteractionActionDismiss, RecommendationStatusDismissed},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"_"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.expected, NextStatus(tt.current, tt.action))
		})
	}
}

func TestNextStatus_Deterministic(t *testing.T) {
	// Applying the same action twice from the resulting state must be
	// stable: the table never cycles.
	statuses := []RecommendationStatus{
		RecommendationStatusActive,
		RecommendationStatusViewed,
		RecommendationStatusClicked,
		RecommendationStatusPurchased,
		RecommendationStatusDismissed,
	}
	actions := []InteractionAction{
		InteractionActionView,
		InteractionActionClick,
		InteractionActionPurchase,
		InteractionActionDismiss,
	}

	for _, status := range statuses {
		for _, action := range actions {
			next := NextStatus(status, action)
			assert.Equal(t, next, NextStatus(next, action),
				"status %s action %s", status, action)
		}
	}
}

func TestRecommendationStatus_IsTerminal(t *testing.T) {
	assert.False(t, RecommendationStatusActive.IsTerminal())
	assert.False(t, RecommendationStatusViewed.IsTerminal())
	assert.False(t, RecommendationStatusClicked.IsTerminal())
	assert.True(t, RecommendationStatusPurchased.IsTerminal())
	assert.True(t, RecommendationStatusDismissed.IsTerminal())
}

func TestInteractionAction_IsValid(t *testing.T) {
	assert.True(t, InteractionActionView.IsValid())
	assert.True(t, InteractionActionClick.IsValid())
	assert.True(t, InteractionActionPurchase.IsValid())
	assert.True(t, InteractionActionDismiss.IsValid())
	assert.False(t, InteractionAction("like").IsValid())
	assert.False(t, InteractionAction("").IsValid())
}
