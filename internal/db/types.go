package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a stored account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Analysis represents one stored pattern analysis. Report holds the full
// report JSON; the summary columns are denormalized for cheap listing.
type Analysis struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	SourceName        string    `json:"source_name"`
	SourceURL         string    `json:"source_url,omitempty"`
	Title             string    `json:"title,omitempty"`
	Report            []byte    `json:"-"`
	Sizes             []string  `json:"sizes"`
	RowsParsed        int       `json:"rows_parsed"`
	StitchCountErrors int       `json:"stitch_count_errors"`
	TotalWarnings     int       `json:"total_warnings"`
	CreatedAt         time.Time `json:"created_at"`
}

// AnalysisInput carries the fields needed to persist a finished analysis.
type AnalysisInput struct {
	UserID            uuid.UUID
	SourceName        string
	SourceURL         string
	Title             string
	Report            []byte
	Sizes             []string
	RowsParsed        int
	StitchCountErrors int
	TotalWarnings     int
}
