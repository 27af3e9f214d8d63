package models

import "gorm.io/gorm"

// Well-known status slugs. Applications, interviews and predicted candidates
// share the status table.
const (
	StatusApplied   = "applied"
	StatusInterview = "interview"
	StatusHired     = "hired"
	StatusRejected  = "rejected"
	ResultPending   = "pending"
	ResultPassed    = "passed"
	ResultFailed    = "failed"
	StatusPredicted = "predicted"
	StatusEvaluated = "evaluated"
)

func SeedStatuses(db *gorm.DB) error {
	seed := []Status{
		{Title: "Applied", Slug: StatusApplied},
		{Title: "Interview", Slug: StatusInterview},
		{Title: "Hired", Slug: StatusHired},
		{Title: "Rejected", Slug: StatusRejected},
		{Title: "Pending", Slug: ResultPending},
		{Title: "Passed", Slug: ResultPassed},
		{Title: "Failed", Slug: ResultFailed},
		{Title: "Predicted", Slug: StatusPredicted},
		{Title: "Evaluated", Slug: StatusEvaluated},
	}
	for _, s := range seed {
		s := s
		if err := db.Where("slug = ?", s.Slug).FirstOrCreate(&s).Error; err != nil {
			return err
		}
	}
	return nil
}
