package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the resume endpoints on router (normally the /api/v1 group).
func RegisterRoutes(router fiber.Router, upload *UploadHandler, result *ResultHandler, jd *JDHandler) {
	resumes := router.Group("/resumes")
	resumes.Post("/", upload.HandleUpload)
	resumes.Get("/:id", result.HandleGetResult)
	resumes.Post("/:id/compare-jd", jd.HandleCompare)
	resumes.Get("/:id/similar-jds", jd.HandleSimilar)
}
