package models

type UploadResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Status   string `json:"status"`
}

type ResumeResponse struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	FileName     string       `json:"file_name"`
	Status       string       `json:"status"`
	Keywords     []string     `json:"keywords,omitempty"`
	Analysis     *Analysis    `json:"analysis,omitempty"`
	JDComparison *MatchResult `json:"jd_comparison,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
}

type CompareResponse struct {
	ResumeID     string      `json:"resume_id"`
	JDComparison MatchResult `json:"jd_comparison"`
}

type SimilarJD struct {
	ContentHash string  `json:"content_hash"`
	Score       float32 `json:"score"`
	Excerpt     string  `json:"excerpt"`
}

type SimilarJDsResponse struct {
	ResumeID string      `json:"resume_id"`
	Results  []SimilarJD `json:"results"`
}
