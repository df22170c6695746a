package validation

import "kidlearn_backend/internal/model"

// allowedTransitions is the progress status state machine. COMPLETED is
// not absorbing: re-attempting a finished activity moves it back to
// IN_PROGRESS.
var allowedTransitions = map[model.ProgressStatus][]model.ProgressStatus{
	model.StatusNotStarted: {model.StatusInProgress, model.StatusCompleted},
	model.StatusInProgress: {model.StatusCompleted, model.StatusPaused, model.StatusNotStarted},
	model.StatusCompleted:  {model.StatusInProgress},
	model.StatusPaused:     {model.StatusInProgress, model.StatusCompleted, model.StatusNotStarted},
}

func IsValidTransition(current, requested model.ProgressStatus) bool {
	if current == requested {
		return true
	}
	for _, next := range allowedTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}
