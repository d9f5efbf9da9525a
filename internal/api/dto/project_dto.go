package dto

// AddProjectRequest payload for new project records. ImageURL and LiveLink
// are optional; the service substitutes placeholders.
type AddProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"imageurl"`
	GithubURL   string `json:"githuburl" validate:"required"`
	LiveLink    string `json:"livelink"`
}
