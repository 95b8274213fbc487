package model

type PdfSummary struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Summary string `json:"summary"`
	// KeyInsights is nil unless the generating user's plan tier qualified at
	// creation time. At most 5 entries.
	KeyInsights []string `json:"key_insights,omitempty"`
	PdfPath     string   `json:"pdf_path"`
	Filename    string   `json:"filename"`
	Filesize    int64    `json:"filesize"`
	SummaryType string   `json:"summary_type"`
	Ctime       int64    `json:"ctime"`
}
