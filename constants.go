package main

type Mode int

const (
	ModeLevelSelect Mode = iota
	ModePlaying
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmRestart
	ConfirmLeaveLevel
	ConfirmDeleteLevel
)

type EventKind int

const (
	EventLevelLoaded EventKind = iota
	EventDrawingStarted
	EventPointAdded
	EventLineCommitted
	EventLineRejected
	EventDrawingCancelled
	EventLifeLost
	EventAttemptRestarted
	EventLevelComplete
	EventLineUndone
	EventLineRedone
	EventAttemptConcluded
)

type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectNoDot
	RejectSameDot
	RejectColorMismatch
	RejectOverlap
)

const (
	noDot            = -1
	defaultMaxLives  = 3
	defaultDotRadius = 20.0
	gridSpacing      = 50.0
	lineWidth        = 8.0
)

func (k EventKind) String() string {
	switch k {
	case EventLevelLoaded:
		return "level_loaded"
	case EventDrawingStarted:
		return "drawing_started"
	case EventPointAdded:
		return "point_added"
	case EventLineCommitted:
		return "line_committed"
	case EventLineRejected:
		return "line_rejected"
	case EventDrawingCancelled:
		return "drawing_cancelled"
	case EventLifeLost:
		return "life_lost"
	case EventAttemptRestarted:
		return "attempt_restarted"
	case EventLevelComplete:
		return "level_complete"
	case EventLineUndone:
		return "line_undone"
	case EventLineRedone:
		return "line_redone"
	case EventAttemptConcluded:
		return "attempt_concluded"
	default:
		return "unknown"
	}
}

func (r RejectReason) String() string {
	switch r {
	case RejectNoDot:
		return "missed the target dot"
	case RejectSameDot:
		return "ended on the starting dot"
	case RejectColorMismatch:
		return "colors don't match"
	case RejectOverlap:
		return "crossed another line"
	default:
		return ""
	}
}
