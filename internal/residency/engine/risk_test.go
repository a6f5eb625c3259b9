package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daywise/internal/residency/models"
)

func TestClassifyRisk_BandBoundaries(t *testing.T) {
	// Both endpoints of every band, with the default amber threshold of 15.
	tests := []struct {
		name      string
		remaining int
		want      models.RiskLevel
	}{
		{"deep overrun is red", -30, models.RiskRed},
		{"zero remaining is red", 0, models.RiskRed},
		{"one remaining is amber", 1, models.RiskAmber},
		{"threshold remaining is amber", 15, models.RiskAmber},
		{"one past threshold is green", 16, models.RiskGreen},
		{"large budget is green", 90, models.RiskGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRisk(tt.remaining, models.DefaultAmberThresholdDays))
		})
	}
}

func TestClassifyRisk_DefaultUsageBands(t *testing.T) {
	// Phrased in days used against the default 90 limit: 90 used is the first
	// red value, 75 used the first amber, 74 used still green.
	assert.Equal(t, models.RiskRed, ClassifyRisk(90-90, 15))
	assert.Equal(t, models.RiskAmber, ClassifyRisk(90-75, 15))
	assert.Equal(t, models.RiskGreen, ClassifyRisk(90-74, 15))
}
