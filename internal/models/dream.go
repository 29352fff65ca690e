package models

import "time"

// SleepQuality grades the night of sleep a dream was recorded in.
type SleepQuality string

const (
	SleepExcellent SleepQuality = "excellent"
	SleepGood      SleepQuality = "good"
	SleepFair      SleepQuality = "fair"
	SleepPoor      SleepQuality = "poor"
)

// Mood is the dreamer's reported mood.
type Mood string

const (
	MoodVeryPositive Mood = "very_positive"
	MoodPositive     Mood = "positive"
	MoodNeutral      Mood = "neutral"
	MoodNegative     Mood = "negative"
	MoodVeryNegative Mood = "very_negative"
)

// DreamPrivacy controls who can read a dream entry.
type DreamPrivacy string

const (
	DreamPrivate DreamPrivacy = "private"
	DreamPublic  DreamPrivacy = "public"
	DreamFriends DreamPrivacy = "friends"
)

// Dream is a journal entry owned by a user. Dreams are managed through the
// user routes only; deleting a user removes all of their dreams.
type Dream struct {
	ID           int          `json:"id"`
	UserID       int          `json:"userId"`
	Title        string       `json:"title,omitempty"`
	Content      string       `json:"content"`
	DreamDate    time.Time    `json:"dreamDate"`
	SleepQuality SleepQuality `json:"sleepQuality"`
	Mood         Mood         `json:"mood"`
	Emotions     StringList   `json:"emotions"`
	Tags         StringList   `json:"tags"`
	IsLucid      bool         `json:"isLucid"`
	Privacy      DreamPrivacy `json:"privacy"`
	IsAnalyzed   bool         `json:"isAnalyzed"`
	AnalyzedAt   *time.Time   `json:"analyzedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
