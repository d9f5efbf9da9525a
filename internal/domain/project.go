package domain

import "time"

// Project is a portfolio project record.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageurl"`
	GithubURL   string    `json:"githuburl"`
	LiveLink    string    `json:"livelink"`
	CreatedAt   time.Time `json:"created_at"`
}
