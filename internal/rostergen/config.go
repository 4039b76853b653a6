package rostergen

import "time"

// Config holds settings shared by the rostergen commands.
type Config struct {
	BaseURL    string        // Base URL of a running teamforge server
	Scope      string        // Tournament scope to submit to
	Players    int           // Number of players to generate
	TeamSize   int           // Players per team for local balancing
	Runs       int           // Run count; zero uses the server or balancer default
	Seed       int64         // Seed for roster generation and local balancing; zero is time-based
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file to write the generated roster to
	Invalid    int           // Number of players to give an out of range rating
}

// Player is a generated roster entry in the teamforge request shape.
type Player struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// Team is one team in a balancing report.
type Team struct {
	TeamID        string   `json:"team_id"`
	RatingSum     float64  `json:"rating_sum"`
	AverageRating float64  `json:"average_rating"`
	MemberIDs     []string `json:"member_ids"`
}

// Report summarizes one balancing, local or remote.
type Report struct {
	Scope         string
	Generation    string
	Players       int
	Teams         []Team
	Spread        float64
	RunsRequested int
	RunsExecuted  int
	Truncated     bool
	Duration      time.Duration
}
