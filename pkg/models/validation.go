package models

import "time"

// BuildResult is the outcome of one project build.
type BuildResult struct {
	Success   bool          `json:"success"`
	BuildTool string        `json:"build_tool"`
	Output    string        `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// ValidationResult compares violation counts before and after a round of
// applied fixes. Fixed and New are never negative.
type ValidationResult struct {
	Category         string      `json:"category,omitempty"`
	ViolationsBefore int         `json:"violations_before"`
	ViolationsAfter  int         `json:"violations_after"`
	Fixed            int         `json:"fixed"`
	New              int         `json:"new"`
	Build            BuildResult `json:"build"`
	Success          bool        `json:"success"`
	Message          string      `json:"message,omitempty"`
}
