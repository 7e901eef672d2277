package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
)

type ResultHandler struct {
	resumeRepo repositories.ResumeRepository
}

func NewResultHandler(resumeRepo repositories.ResumeRepository) *ResultHandler {
	return &ResultHandler{
		resumeRepo: resumeRepo,
	}
}

// HandleGetResult handles GET /resumes/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	resume, status, err := findResume(c, h.resumeRepo)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := models.ResumeResponse{
		ID:       resume.ID.String(),
		UserID:   resume.UserID,
		FileName: resume.FileName,
		Status:   string(resume.Status),
	}

	if resume.Status == models.StatusCompleted {
		response.Keywords = resume.Keywords
		response.Analysis = resume.Analysis
		response.JDComparison = resume.JDComparison
	}

	if resume.Status == models.StatusFailed && resume.ErrorMessage != "" {
		response.ErrorMessage = &resume.ErrorMessage
	}

	return c.JSON(response)
}

// findResume resolves the :id route param, returning the HTTP status to use on failure.
func findResume(c *fiber.Ctx, repo repositories.ResumeRepository) (*models.Resume, int, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.StatusBadRequest, errors.New("Invalid resume ID format")
	}

	resume, err := repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrResumeNotFound) {
			return nil, fiber.StatusNotFound, errors.New("Resume not found")
		}
		return nil, fiber.StatusInternalServerError, errors.New("Failed to load resume")
	}

	return resume, fiber.StatusOK, nil
}
