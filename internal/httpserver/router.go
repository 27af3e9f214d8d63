package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smarthr/portal/internal/middleware"
	"github.com/smarthr/portal/internal/models"
)

type Deps struct {
	Auth        *AuthHTTP
	Company     *CompanyHTTP
	Department  *DepartmentHTTP
	Job         *JobHTTP
	Application *ApplicationHTTP
	Interview   *InterviewHTTP
	Predicted   *PredictedHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/jwt/create", d.Auth.Login)
	auth.POST("/jwt/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/users", d.Auth.Signup)
	auth.POST("/users/reset_password", d.Auth.ForgotPassword)
	auth.POST("/users/reset_password_confirm", d.Auth.ResetPassword)

	api := e.Group("/api")

	// Candidates browse jobs and apply without an account.
	api.GET("/job", d.Job.GetJobs)
	api.GET("/job/search", d.Job.SearchJobs)
	api.GET("/job/:id", d.Job.GetJob)
	api.GET("/company", d.Company.GetCompanies)
	api.GET("/company/:id", d.Company.GetCompany)
	api.GET("/department", d.Department.GetDepartments)
	api.GET("/department/:id", d.Department.GetDepartment)
	api.POST("/application", d.Application.CreateApplication)

	private := api.Group("", middleware.AccessJWT(d.JWTSecret),
		middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin))

	private.POST("/company", d.Company.CreateCompany)
	private.PATCH("/company/:id", d.Company.PatchCompany)
	private.DELETE("/company/:id", d.Company.DeleteCompany)

	private.POST("/department", d.Department.CreateDepartment)
	private.PATCH("/department/:id", d.Department.PatchDepartment)
	private.DELETE("/department/:id", d.Department.DeleteDepartment)

	private.POST("/job", d.Job.CreateJob)
	private.PATCH("/job/:id", d.Job.PatchJob)
	private.DELETE("/job/:id", d.Job.DeleteJob)

	private.GET("/application", d.Application.GetApplications)
	private.GET("/application/:id", d.Application.GetApplication)
	private.PATCH("/application/:id", d.Application.PatchApplication)
	private.DELETE("/application/:id", d.Application.DeleteApplication)

	private.GET("/interview", d.Interview.GetInterviews)
	private.GET("/interview/:id", d.Interview.GetInterview)
	private.POST("/interview", d.Interview.CreateInterview)
	private.PATCH("/interview/:id", d.Interview.PatchInterview)
	private.DELETE("/interview/:id", d.Interview.DeleteInterview)
	private.POST("/interview/:id/upload-recording", d.Interview.UploadRecording)
	private.POST("/interview/:id/analyze-recording", d.Interview.AnalyzeRecording)
	private.POST("/interview/:id/generate-questions", d.Interview.GenerateQuestions)

	private.GET("/predicted-candidates", d.Predicted.GetPredictedList)
	private.GET("/predicted-candidates/:id", d.Predicted.GetPredicted)
	private.POST("/predicted-candidates/:id/evaluate", d.Predicted.Evaluate)
	private.DELETE("/predicted-candidates/:id", d.Predicted.DeletePredicted)
}
