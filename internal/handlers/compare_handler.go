package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
	"alfredoptarigan/resume-insight/internal/services"
)

const defaultSimilarLimit = 5

type JDHandler struct {
	resumeRepo  repositories.ResumeRepository
	analyzer    services.AnalyzerService
	maxFileSize int64
}

func NewJDHandler(
	resumeRepo repositories.ResumeRepository,
	analyzer services.AnalyzerService,
	maxFileSize int64,
) *JDHandler {
	return &JDHandler{
		resumeRepo:  resumeRepo,
		analyzer:    analyzer,
		maxFileSize: maxFileSize,
	}
}

// HandleCompare handles POST /resumes/:id/compare-jd. The job description comes
// either as a "jd" file or as a "jd_text" form field.
func (h *JDHandler) HandleCompare(c *fiber.Ctx) error {
	resume, status, err := findResume(c, h.resumeRepo)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if resume.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume analysis is %s; compare once it is completed", resume.Status),
		})
	}

	doc, err := h.jdDocument(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	jdText, err := h.analyzer.ExtractJD(c.UserContext(), doc)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.analyzer.MatchAgainstJD(c.UserContext(), resume.Keywords, jdText)
	if err != nil {
		log.Printf("❌ Comparison failed for resume %s: %v\n", resume.ID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.resumeRepo.UpdateComparison(c.UserContext(), resume.ID, result); err != nil {
		log.Printf("⚠️  Failed to persist comparison for resume %s: %v\n", resume.ID, err)
	}

	return c.JSON(models.CompareResponse{
		ResumeID:     resume.ID.String(),
		JDComparison: *result,
	})
}

// HandleSimilar handles GET /resumes/:id/similar-jds
func (h *JDHandler) HandleSimilar(c *fiber.Ctx) error {
	resume, status, err := findResume(c, h.resumeRepo)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if resume.Status != models.StatusCompleted || resume.TextContent == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Resume analysis is not completed yet",
		})
	}

	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit <= 0 || limit > 50 {
		limit = defaultSimilarLimit
	}

	results, err := h.analyzer.SimilarJDs(c.UserContext(), resume.TextContent, limit)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.SimilarJDsResponse{
		ResumeID: resume.ID.String(),
		Results:  results,
	})
}

func (h *JDHandler) jdDocument(c *fiber.Ctx) (models.Document, error) {
	if file, err := c.FormFile("jd"); err == nil {
		return h.fileDocument(file)
	}

	if text := c.FormValue("jd_text"); text != "" {
		return models.NewTextDocument(text), nil
	}

	return models.Document{}, errors.New("provide a 'jd' file or a 'jd_text' field")
}

func (h *JDHandler) fileDocument(file *multipart.FileHeader) (models.Document, error) {
	if file.Size > h.maxFileSize {
		return models.Document{}, fmt.Errorf("JD file too large. Max size: %d bytes", h.maxFileSize)
	}

	mimeType, err := services.MimeTypeForFile(file.Filename)
	if err != nil {
		return models.Document{}, err
	}

	src, err := file.Open()
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if mimeType == "text/plain" {
		doc := models.NewTextDocument(string(data))
		doc.FileName = file.Filename
		return doc, nil
	}
	return models.NewFileDocument(data, mimeType, file.Filename), nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInsufficientText),
		errors.Is(err, services.ErrExtractionFailure),
		errors.Is(err, services.ErrUnsupportedFile):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrIndexDisabled),
		errors.Is(err, repositories.ErrResumeNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
