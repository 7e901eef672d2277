package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
	"alfredoptarigan/resume-insight/internal/services"
)

type UploadHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
}

func NewUploadHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /resumes. The analysis runs asynchronously; the
// response only carries the queued record.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	mimeType, err := services.MimeTypeForFile(file.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Please upload a .pdf, .docx or .txt file.",
		})
	}

	key, err := h.storageService.SaveFile(c.UserContext(), file, "resume")
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFile) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	userID := c.FormValue("user_id")
	if userID == "" {
		userID = models.DefaultUserID
	}

	resume := &models.Resume{
		ID:        uuid.New(),
		UserID:    userID,
		FileName:  file.Filename,
		ObjectKey: key,
		MimeType:  mimeType,
		Status:    models.StatusQueued,
	}

	if err := h.resumeRepo.Create(c.UserContext(), resume); err != nil {
		// Cleanup uploaded file if database insert fails
		if delErr := h.storageService.Delete(c.UserContext(), key); delErr != nil {
			log.Printf("⚠️  Failed to clean up %s: %v\n", key, delErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume record",
		})
	}

	h.worker.EnqueueJob(resume.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.UploadResponse{
		ID:       resume.ID.String(),
		FileName: resume.FileName,
		MimeType: resume.MimeType,
		Status:   string(resume.Status),
	})
}
