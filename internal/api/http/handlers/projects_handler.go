package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/projects-backend/internal/api/dto"
	"github.com/spec-kit/projects-backend/internal/service"
	apperrors "github.com/spec-kit/projects-backend/pkg/util/errorutil"
)

// ProjectsHandler exposes project storage endpoints.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs the handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projectService}
}

// Add handles POST /addProject. The route sits behind the auth middleware.
func (h *ProjectsHandler) Add(c *fiber.Ctx) error {
	var req dto.AddProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("title, description and githuburl are required")
	}

	err := h.projects.Add(c.UserContext(), service.NewProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		GithubURL:   req.GithubURL,
		LiveLink:    req.LiveLink,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Project Insertion Successful"})
}

// List handles GET /projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(projects)
}
