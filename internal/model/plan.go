package model

type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	PdfLimit    int      `json:"pdf_limit"` // negative = unlimited
	TierRank    int      `json:"tier_rank"`
	IsActive    int      `json:"is_active"`
	Features    []string `json:"features"`
}

func (p *Plan) Unlimited() bool {
	return p.PdfLimit < 0
}
