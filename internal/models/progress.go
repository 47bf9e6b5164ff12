package models

import "math"

// ProjectState is the derived overall state of a project
type ProjectState string

const (
	ProjectNotStarted ProjectState = "not_started"
	ProjectInProgress ProjectState = "in_progress"
	ProjectCompleted  ProjectState = "completed"
)

// Progress is a live summary of a project's tasks. It is never stored.
type Progress struct {
	Total      int
	Completed  int
	Percentage int
	State      ProjectState
}

// CompletionPercentage rounds 100*completed/total half up.
// A project without tasks is at 0.
func CompletionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// CompletionRatio is the completed share as a percentage with one decimal
func CompletionRatio(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return RoundTenth(float64(completed) / float64(total) * 100)
}

// RoundTenth rounds to one decimal place, halves away from zero
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ProgressOf derives completion and state from a project's tasks.
// Tasks must have their status loaded for the in-progress rule.
func ProgressOf(tasks []Task) Progress {
	p := Progress{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			p.Completed++
		}
	}
	p.Percentage = CompletionPercentage(p.Completed, p.Total)
	p.State = projectState(tasks, p.Percentage)
	return p
}

func projectState(tasks []Task, percentage int) ProjectState {
	if len(tasks) == 0 {
		return ProjectNotStarted
	}
	if percentage == 100 {
		return ProjectCompleted
	}
	// An incomplete task that has left Not Started marks the project active
	// even when nothing is finished yet.
	for i := range tasks {
		if !tasks[i].Completed && tasks[i].Status != nil && !tasks[i].IsNotStarted() {
			return ProjectInProgress
		}
	}
	if percentage > 0 {
		return ProjectInProgress
	}
	return ProjectNotStarted
}
