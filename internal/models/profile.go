// internal/models/profile.go
package models

// StudentProfile is the fully populated survey input for one session.
type StudentProfile struct {
	Name        string        `json:"name"`
	Major       string        `json:"major"`
	Institution string        `json:"institution"`
	Scores      SubtestScores `json:"scores"`
	Psychology  Psychology    `json:"psychology"`
	Behavior    Behavior      `json:"behavior"`
}

// Psychology holds the four 1-5 self ratings.
type Psychology struct {
	Focus       int `json:"focus" validate:"required"`
	Confidence  int `json:"confidence" validate:"required"`
	Anxiety     int `json:"anxiety" validate:"required"`
	Distraction int `json:"distraction" validate:"required"`
}

// Behavior holds the five ordinal study-habit ratings (1-5).
type Behavior struct {
	StudyHours    int `json:"studyHours" validate:"required"`
	StudyDays     int `json:"studyDays" validate:"required"`
	Practice      int `json:"practice" validate:"required"`
	MockFrequency int `json:"mockFrequency" validate:"required"`
	Review        int `json:"review" validate:"required"`
}
