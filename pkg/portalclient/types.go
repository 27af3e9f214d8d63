package portalclient

import "time"

type loginResponse struct {
	Access string `json:"access"`
	Role   string `json:"role"`
}

func (r *loginResponse) validate() error {
	if r.Access == "" || r.Role == "" {
		return ErrValidation
	}
	return nil
}

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *SignupResult) validate() error {
	if s.ID == 0 || s.Username == "" {
		return ErrValidation
	}
	return nil
}

type ResetPasswordInput struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type Company struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (c *Company) validate() error {
	if c.ID == 0 || c.Name == "" || c.Slug == "" {
		return ErrValidation
	}
	return nil
}

type Department struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (d *Department) validate() error {
	if d.ID == 0 || d.Title == "" || d.Slug == "" {
		return ErrValidation
	}
	return nil
}

type Status struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Job struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	// The wire format carries the misspelled field; it is part of the
	// API contract now.
	Responsiblities string     `json:"responsiblities"`
	Qualification   string     `json:"qualification"`
	NiceToHaves     string     `json:"nice_to_haves"`
	EndDate         time.Time  `json:"end_date"`
	Company         Company    `json:"company"`
	Department      Department `json:"department"`
}

func (j *Job) validate() error {
	if j.ID == 0 || j.Title == "" {
		return ErrValidation
	}
	return nil
}

type Application struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Residence   string   `json:"residence"`
	CoverLetter string   `json:"cover_letter"`
	Resume      *string  `json:"resume"`
	MatchScore  *float64 `json:"match_score"`
	Job         Job      `json:"job"`
	Status      Status   `json:"status"`
}

func (a *Application) validate() error {
	if a.ID == 0 || a.Name == "" || a.Email == "" {
		return ErrValidation
	}
	return nil
}

type Interview struct {
	ID                  uint        `json:"id"`
	Application         Application `json:"application"`
	Date                *time.Time  `json:"date"`
	Result              Status      `json:"result"`
	ExternalMeetingLink *string     `json:"external_meeting_link"`
	InterviewVideo      *string     `json:"interview_video"`
}

func (i *Interview) validate() error {
	if i.ID == 0 {
		return ErrValidation
	}
	return nil
}

type PredictedCandidate struct {
	ID              uint      `json:"id"`
	Interview       Interview `json:"interview"`
	Status          Status    `json:"status"`
	EvaluationScore *float64  `json:"evaluation_score"`
}

func (p *PredictedCandidate) validate() error {
	if p.ID == 0 {
		return ErrValidation
	}
	return nil
}

// Inputs for the write operations.

type CompanyInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type DepartmentInput struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type JobInput struct {
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	Responsiblities string    `json:"responsiblities"`
	Qualification   string    `json:"qualification"`
	NiceToHaves     string    `json:"nice_to_haves"`
	EndDate         time.Time `json:"end_date"`
	CompanyID       uint      `json:"company_id"`
	DepartmentID    uint      `json:"department_id"`
}

type ApplicationInput struct {
	Name        string
	Email       string
	Residence   string
	CoverLetter string
	JobID       uint
	ResumePath  string
}

type InterviewInput struct {
	ApplicationID       uint       `json:"application_id"`
	Date                *time.Time `json:"date"`
	ExternalMeetingLink *string    `json:"external_meeting_link"`
}

type InterviewPatch struct {
	Date                *time.Time `json:"date,omitempty"`
	ExternalMeetingLink *string    `json:"external_meeting_link,omitempty"`
	Result              *string    `json:"result,omitempty"`
}

type EvaluationQuestion struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}

type EvaluationInput struct {
	Questions []EvaluationQuestion `json:"questions"`
	Comments  string               `json:"comments"`
}

type EvaluationResult struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	Status       string  `json:"status"`
	AverageScore float64 `json:"average_score"`
}

type GenerateQuestionsResult struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Category string `json:"category"`
	Question string `json:"question"`
}
