package transport

import "time"

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	Role         string
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type CompanyRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CompanyPatchRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type DepartmentRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type DepartmentPatchRequest struct {
	Title *string `json:"title"`
	Slug  *string `json:"slug"`
}

type JobRequest struct {
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	Responsiblities string    `json:"responsiblities"`
	Qualification   string    `json:"qualification"`
	NiceToHaves     string    `json:"nice_to_haves"`
	EndDate         time.Time `json:"end_date"`
	CompanyID       uint      `json:"company_id"`
	DepartmentID    uint      `json:"department_id"`
}

type JobPatchRequest struct {
	Title           *string    `json:"title"`
	Location        *string    `json:"location"`
	Responsiblities *string    `json:"responsiblities"`
	Qualification   *string    `json:"qualification"`
	NiceToHaves     *string    `json:"nice_to_haves"`
	EndDate         *time.Time `json:"end_date"`
	CompanyID       *uint      `json:"company_id"`
	DepartmentID    *uint      `json:"department_id"`
}

type ApplicationPatchRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Residence   *string `json:"residence"`
	CoverLetter *string `json:"cover_letter"`
	JobID       *uint   `json:"job_id"`
}

type InterviewRequest struct {
	ApplicationID       uint       `json:"application_id"`
	Date                *time.Time `json:"date"`
	ExternalMeetingLink *string    `json:"external_meeting_link"`
}

type InterviewPatchRequest struct {
	ApplicationID       *uint      `json:"application_id"`
	Date                *time.Time `json:"date"`
	ExternalMeetingLink *string    `json:"external_meeting_link"`
	ResultSlug          *string    `json:"result"`
}

type EvaluationQuestion struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}

type Evaluation struct {
	Questions []EvaluationQuestion `json:"questions"`
	Comments  string               `json:"comments"`
}

type EvaluationRequest struct {
	EvaluationData Evaluation `json:"evaluation_data"`
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
	Questions []GeneratedQuestion `json:"questions,omitempty"`
}

type GeneratedQuestion struct {
	Category string `json:"category"`
	Question string `json:"question"`
}
