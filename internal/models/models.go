package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleAdmin     = "admin"
	RoleRecruiter = "Recruiter"
	RoleUser      = "user"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email,omitempty"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role,omitempty"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"-"`
	JTI       string `gorm:"index;not null"  json:"-"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type PasswordResetToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"-"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Used      bool   `gorm:"default:false"   json:"used"`
}

type Company struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
	Slug string `gorm:"uniqueIndex;not null"     json:"slug"`
}

type Department struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"uniqueIndex;not null"     json:"title"`
	Slug  string `gorm:"uniqueIndex;not null"     json:"slug"`
}

// Status doubles as application status, interview result and predicted
// candidate status. One tag table, distinguished by slug.
type Status struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"not null"                 json:"title"`
	Slug  string `gorm:"uniqueIndex;not null"     json:"slug"`
}

type Job struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Title    string `gorm:"not null" json:"title"`
	Location string `gorm:"not null" json:"location"`
	// Wire format uses this spelling, typo included.
	Responsiblities string    `gorm:"not null" json:"responsiblities"`
	Qualification   string    `gorm:"not null" json:"qualification"`
	NiceToHaves     string    `json:"nice_to_haves"`
	EndDate         time.Time `gorm:"not null" json:"end_date"`

	CompanyID    uint       `gorm:"index;not null" json:"-"`
	Company      Company    `json:"company"`
	DepartmentID uint       `gorm:"index;not null" json:"-"`
	Department   Department `json:"department"`
	RecruiterID  *uint      `gorm:"index" json:"-"`
	Recruiter    *User      `json:"recruiter"`
}

type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name        string   `gorm:"not null" json:"name"`
	Email       string   `gorm:"not null" json:"email"`
	Residence   string   `gorm:"not null" json:"residence"`
	CoverLetter string   `json:"cover_letter"`
	Resume      *string  `json:"resume"`
	MatchScore  *float64 `json:"match_score"`

	JobID    uint   `gorm:"index;not null" json:"-"`
	Job      Job    `json:"job"`
	StatusID uint   `gorm:"index;not null" json:"-"`
	Status   Status `json:"status"`
}

type Interview struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ApplicationID uint        `gorm:"uniqueIndex;not null" json:"-"`
	Application   Application `json:"application"`

	Date     *time.Time `json:"date"`
	ResultID uint       `gorm:"index;not null" json:"-"`
	Result   Status     `json:"result"`

	ExternalMeetingLink *string        `json:"external_meeting_link"`
	InterviewVideo      *string        `json:"interview_video"`
	AnalysisData        datatypes.JSON `json:"analysis_data,omitempty"`
	InterviewQuestions  datatypes.JSON `json:"interview_questions,omitempty"`
}

type PredictedCandidate struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	InterviewID uint      `gorm:"uniqueIndex;not null" json:"-"`
	Interview   Interview `json:"interview"`

	StatusID uint   `gorm:"index;not null" json:"-"`
	Status   Status `json:"status"`

	EvaluationScore *float64       `json:"evaluation_score"`
	EvaluationData  datatypes.JSON `json:"evaluation_data"`
}

type InterviewQuestion struct {
	Category string `json:"category"`
	Question string `json:"question"`
}
