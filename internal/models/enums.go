package models

// Priority is the urgency of a task or the default of a project
type Priority string

const (
	PriorityLow     Priority = "low"
	PriorityMedium  Priority = "medium"
	PriorityHigh    Priority = "high"
	PriorityLeisure Priority = "leisure"
)

// Priorities lists every valid priority, most urgent first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityLeisure}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityLeisure:
		return true
	}
	return false
}

// Rank orders priorities for sorting; higher is more urgent
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Color is one of the fixed project palette entries
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// Colors is the project palette in display order
var Colors = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorGray}

// Valid reports whether c is in the palette
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Hex returns the terminal color used when rendering c
func (c Color) Hex() string {
	switch c {
	case ColorRed:
		return "#f7768e"
	case ColorOrange:
		return "#ff9e64"
	case ColorYellow:
		return "#e0af68"
	case ColorGreen:
		return "#9ece6a"
	case ColorBlue:
		return "#7aa2f7"
	case ColorPurple:
		return "#bb9af7"
	case ColorPink:
		return "#ff79c6"
	case ColorGray:
		return "#565f89"
	}
	return ""
}

// CommentStatus tracks whether a comment still needs attention
type CommentStatus string

const (
	CommentOpen     CommentStatus = "open"
	CommentClosed   CommentStatus = "closed"
	CommentResolved CommentStatus = "resolved"
)

// Valid reports whether s is a known comment status
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentOpen, CommentClosed, CommentResolved:
		return true
	}
	return false
}

// Unresolved reports whether the comment blocks task deletion
func (s CommentStatus) Unresolved() bool {
	return s == CommentOpen
}
