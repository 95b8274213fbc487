package model

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	PlanID string `json:"plan_id"`
	// PdfCount is only meaningful relative to PdfCountResetAt; once the reset
	// timestamp is in the past the counter is stale and rolls over on the next
	// admission check.
	PdfCount        int   `json:"pdf_count"`
	PdfCountResetAt int64 `json:"pdf_count_reset_at"` // unix milli, 0 = unset
	Ctime           int64 `json:"ctime"`
	Mtime           int64 `json:"mtime"`
}
