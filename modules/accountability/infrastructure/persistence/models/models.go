package models

import (
	"time"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SecretHash     string    `json:"secret_hash"`
	Role           string    `json:"role"`
	MunicipalityID string    `json:"municipality_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type Municipality struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         int    `json:"category"`
	SupervisorID     string `json:"supervisor_id"`
	RepresentativeID string `json:"representative_id"`
}

type Convocation struct {
	ID             string          `json:"id"`
	OpeningDate    time.Time       `json:"opening_date"`
	ClosingDate    time.Time       `json:"closing_date"`
	Description    string          `json:"description"`
	StatusOverride *string         `json:"status_override"`
	Documents      []DocumentEntry `json:"documents"`
}

type Presentation struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Status         string          `json:"status"`
	ConvocationID  string          `json:"convocation_id"`
	AuthorID       string          `json:"author_id"`
	MunicipalityID string          `json:"municipality_id"`
	Documents      []DocumentEntry `json:"documents"`
}

type DocumentEntry struct {
	Name string `json:"name"`
	Flag bool   `json:"flag"`
}
