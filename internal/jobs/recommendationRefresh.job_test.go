package jobs

import (
	"testing"
	"time"

	"carelink/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationRefreshJob_Name(t *testing.T) {
	job := NewRecommendationRefreshJob(nil, nil, services.Daily)
	assert.Equal(t, "DailyRecommendationRefresh", job.Name())
}

func TestRecommendationRefreshJob_Schedule(t *testing.T) {
	job := NewRecommendationRefreshJob(nil, nil, services.Daily)
	assert.Equal(t, services.Daily, job.Schedule())
}

func TestSweepWindow(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, sweepWindow)
}
