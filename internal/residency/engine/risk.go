package engine

import "daywise/internal/residency/models"

// ClassifyRisk maps a remaining-day budget to a severity tier:
//
//	remaining <= 0                      -> red
//	0 < remaining <= amberThresholdDays -> amber
//	remaining > amberThresholdDays      -> green
//
// With defaults (limit 90, threshold 15): 90 days used is the first red
// value, 75 used is the first amber value, 74 used is green. The bands have
// no gaps or overlaps at the boundaries.
func ClassifyRisk(daysRemaining, amberThresholdDays int) models.RiskLevel {
	switch {
	case daysRemaining <= 0:
		return models.RiskRed
	case daysRemaining <= amberThresholdDays:
		return models.RiskAmber
	default:
		return models.RiskGreen
	}
}
