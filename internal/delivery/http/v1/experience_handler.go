package v1

import (
	"encoding/json"
	"net/http"

	"interview-tayari/internal/delivery/http/request"
	"interview-tayari/internal/delivery/http/response"
	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ExperienceHandler struct {
	submissionUC domain.SubmissionUsecase
	listingUC    domain.ListingUsecase
	exportUC     domain.ExportUsecase
}

func NewExperienceHandler(public *gin.RouterGroup, protected *gin.RouterGroup, submissionUC domain.SubmissionUsecase, listingUC domain.ListingUsecase, exportUC domain.ExportUsecase) {
	handler := &ExperienceHandler{
		submissionUC: submissionUC,
		listingUC:    listingUC,
		exportUC:     exportUC,
	}

	publicExperiences := public.Group("/experiences")
	{
		publicExperiences.GET("", handler.List)
		publicExperiences.GET("/export", handler.Export)
	}

	protected.POST("/experiences", handler.Submit)
}

type ListResponse struct {
	Experiences []domain.InterviewExperience `json:"experiences"`
	Companies   []string                     `json:"companies"`
	Count       int                          `json:"count"`
}

// List godoc
// @Summary      List interview experiences
// @Description  Newest first. company is matched as a substring, experience is one of 0-2, 3-5, 5-7, 7+ and q searches company, name, country and questions.
// @Tags         experiences
// @Produce      json
// @Param        company     query     string  false  "Company contains"
// @Param        experience  query     string  false  "Experience bucket"
// @Param        q           query     string  false  "Free text"
// @Success      200  {object}  response.Response{data=ListResponse}
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /experiences [get]
func (h *ExperienceHandler) List(c *gin.Context) {
	var query domain.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(request.BindError(err))
		return
	}

	rows, err := h.listingUC.Search(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Experiences retrieved"
	if len(rows) == 0 {
		message = "No experiences found"
	}
	response.Success(c, http.StatusOK, message, ListResponse{
		Experiences: rows,
		Companies:   h.listingUC.Companies(rows),
		Count:       len(rows),
	})
}

// Export godoc
// @Summary      Export interview experiences
// @Description  Same filters as the listing. format is xlsx (default) or csv.
// @Tags         experiences
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /experiences/export [get]
func (h *ExperienceHandler) Export(c *gin.Context) {
	var query domain.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(request.BindError(err))
		return
	}

	format := c.DefaultQuery("format", "xlsx")
	data, filename, err := h.exportUC.Export(c.Request.Context(), query, format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == "csv" {
		contentType = "text/csv; charset=utf-8"
	}
	response.Attachment(c, filename, contentType, data)
}

type SubmitExperienceRequest struct {
	CompanyName string `form:"company_name" binding:"max=120,no_emoji"`
	Experience  string `form:"experience" binding:"max=8"`
	CTC         string `form:"ctc" binding:"max=8"`
	Country     string `form:"country" binding:"max=80,valid_name"`
	DisplayName string `form:"display_name" binding:"max=80,valid_name"`
	// Questions is a JSON array of QuestionInput.
	Questions string `form:"questions"`
}

type QuestionInput struct {
	Text       string              `json:"text"`
	Type       domain.QuestionType `json:"type" binding:"question_type"`
	Difficulty domain.Difficulty   `json:"difficulty" binding:"difficulty"`
}

// Submit godoc
// @Summary      Share an interview experience
// @Description  Multipart form with the company details, a JSON encoded questions array and the verification screenshot (JPEG or PNG, max 5MB).
// @Tags         experiences
// @Accept       multipart/form-data
// @Produce      json
// @Param        company_name  formData  string  true   "Company"
// @Param        experience    formData  string  true   "Years of experience"
// @Param        ctc           formData  string  true   "CTC in LPA"
// @Param        country       formData  string  true   "Country"
// @Param        display_name  formData  string  false  "Shown name"
// @Param        questions     formData  string  true   "JSON array of {text,type,difficulty}"
// @Param        verification  formData  file    true   "Verification screenshot"
// @Success      201  {object}  response.Response{data=domain.InterviewExperience}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /experiences [post]
// @Security     BearerAuth
func (h *ExperienceHandler) Submit(c *gin.Context) {
	var req SubmitExperienceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(request.BindError(err))
		return
	}

	var questions []QuestionInput
	if req.Questions != "" {
		if err := json.Unmarshal([]byte(req.Questions), &questions); err != nil {
			c.Error(apperror.BadRequest("questions must be a JSON array"))
			return
		}
	}
	for i := range questions {
		if err := binding.Validator.ValidateStruct(&questions[i]); err != nil {
			c.Error(request.BindError(err))
			return
		}
	}

	verification, err := request.Attachment(c, "verification")
	if err != nil {
		c.Error(err)
		return
	}

	draft := domain.NewDraft()
	draft.UpdateCompany(domain.CompanyDetails{
		CompanyName: req.CompanyName,
		Experience:  req.Experience,
		CTC:         req.CTC,
		Country:     req.Country,
		DisplayName: req.DisplayName,
	})
	draft.AttachVerification(verification)
	draft.Questions = make([]domain.QuestionDraft, len(questions))
	for i, q := range questions {
		draft.Questions[i] = domain.QuestionDraft{Text: q.Text, Type: q.Type, Difficulty: q.Difficulty}
	}

	stored, err := h.submissionUC.Submit(c.Request.Context(), draft)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Experience shared successfully!", stored)
}
