package service

import (
	"math"

	"rpe/internal/models"
)

// Pure score aggregation over raw evaluation rows. Absence of data is a valid
// state here, never an error: functions return nil (or 0 for the cycle-wide
// average) when there is nothing to aggregate.

// round1 rounds half away from zero to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds half away from zero to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AverageSelfScore returns the mean of the completed per-criterion self
// scores, rounded to one decimal, or nil when no rows exist.
func AverageSelfScore(rows []models.SelfEvaluation) *float64 {
	if len(rows) == 0 {
		return nil
	}

	var sum float64
	for _, row := range rows {
		sum += row.Score
	}

	avg := round1(sum / float64(len(rows)))
	return &avg
}

// AveragePeerScore returns the mean of the general scores given by peers,
// rounded to one decimal, or nil when no rows exist.
func AveragePeerScore(rows []models.PeerEvaluation) *float64 {
	if len(rows) == 0 {
		return nil
	}

	var sum float64
	for _, row := range rows {
		sum += row.GeneralScore
	}

	avg := round1(sum / float64(len(rows)))
	return &avg
}

// LeaderCompositeScore returns the mean of the four leader sub-scores,
// rounded to one decimal, or nil when the evaluation is absent.
func LeaderCompositeScore(ev *models.LeaderEvaluation) *float64 {
	if ev == nil {
		return nil
	}

	sum := ev.DeliveryScore + ev.ProactivityScore + ev.CollaborationScore + ev.SkillScore
	avg := round1(sum / 4)
	return &avg
}

// DirectReportCompositeScore returns the mean of the four upward-evaluation
// sub-scores, rounded to one decimal, or nil when the evaluation is absent.
func DirectReportCompositeScore(ev *models.DirectReportEvaluation) *float64 {
	if ev == nil {
		return nil
	}

	sum := ev.VisionScore + ev.InspirationScore + ev.DevelopmentScore + ev.FeedbackScore
	avg := round1(sum / 4)
	return &avg
}

// CycleOverallAverage returns the mean of every leader sub-score in a cycle
// (sum over all four dimensions divided by count*4), rounded to two decimals.
// Zero when the cycle has no leader evaluations.
func CycleOverallAverage(evaluations []models.LeaderEvaluation) float64 {
	if len(evaluations) == 0 {
		return 0
	}

	var sum float64
	for _, ev := range evaluations {
		sum += ev.DeliveryScore + ev.ProactivityScore + ev.CollaborationScore + ev.SkillScore
	}

	return round2(sum / (float64(len(evaluations)) * 4))
}
