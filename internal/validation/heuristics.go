package validation

import (
	"fmt"
	"math"

	"kidlearn_backend/internal/model"
)

// heuristicChecks are plausibility signals for the anomaly review
// pipeline. They never block persistence; a failed heuristic becomes a
// warning on the result, nothing more.
func heuristicChecks(p *model.ProgressUpdatePayload, t Thresholds) []ConsistencyCheckResult {
	return []ConsistencyCheckResult{
		checkScoreHelpPlausibility(p, t),
		checkQuickPerfectScore(p, t),
	}
}

// checkScoreHelpPlausibility caps how high a score plausibly is when the
// child leaned heavily on help. Each help request knocks the expected
// ceiling down, up to a limit.
func checkScoreHelpPlausibility(p *model.ProgressUpdatePayload, t Thresholds) ConsistencyCheckResult {
	if p.Score == nil || p.HelpRequestsCount == nil {
		return passed(CheckScoreHelpPlausible, "score or help request count absent")
	}
	penalty := math.Min(float64(*p.HelpRequestsCount)*t.HelpPenaltyPerRequest, t.HelpPenaltyCap)
	ceiling := 100 - penalty
	if *p.Score > ceiling+t.HelpScoreTolerance {
		return failed(CheckScoreHelpPlausible,
			fmt.Sprintf("score %g is above the plausible ceiling %g for %d help requests",
				*p.Score, ceiling, *p.HelpRequestsCount),
			map[string]interface{}{
				"score":             *p.Score,
				"ceiling":           ceiling,
				"helpRequestsCount": *p.HelpRequestsCount,
			})
	}
	return passed(CheckScoreHelpPlausible, "score plausible for the amount of help used")
}

func checkQuickPerfectScore(p *model.ProgressUpdatePayload, t Thresholds) ConsistencyCheckResult {
	if p.Score == nil {
		return passed(CheckQuickPerfectScore, "no score reported")
	}
	if p.TimeSpent < t.QuickCompletionSeconds && *p.Score >= t.SuspiciousScore {
		return failed(CheckQuickPerfectScore,
			fmt.Sprintf("score %g in %ds is too fast to have engaged with the content", *p.Score, p.TimeSpent),
			map[string]interface{}{"score": *p.Score, "timeSpent": p.TimeSpent})
	}
	return passed(CheckQuickPerfectScore, "completion speed plausible for the score")
}
