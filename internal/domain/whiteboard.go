package domain

import "time"

// Point is a single coordinate in a stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawElement is one shape or stroke on a whiteboard. Elements are embedded
// in a WhiteboardState and have no independent lifecycle.
type DrawElement struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"` // pen, rectangle, circle or text
	Points      []Point `json:"points,omitempty"`
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Text        string  `json:"text,omitempty"`
	UserID      string  `json:"userId,omitempty"`
}

// WhiteboardState is the persisted canvas snapshot for one blackboard.
// It is mutated by full-snapshot replace, never merged.
type WhiteboardState struct {
	BlackboardID string        `json:"blackboardId"`
	Elements     []DrawElement `json:"elements"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
