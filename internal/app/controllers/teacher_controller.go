package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/services"
	"github.com/devansh/fms/internal/middleware"
)

// TeacherController handles the teacher dashboard: subject list, review
// windows and received feedback
type TeacherController struct {
	subjectService  *services.SubjectService
	feedbackService *services.FeedbackService
	reportService   *services.ReportService
	logger          zerolog.Logger
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(
	subjectService *services.SubjectService,
	feedbackService *services.FeedbackService,
	reportService *services.ReportService,
	logger zerolog.Logger,
) *TeacherController {
	return &TeacherController{
		subjectService:  subjectService,
		feedbackService: feedbackService,
		reportService:   reportService,
		logger:          logger,
	}
}

// ListSubjects returns the caller's subjects
func (c *TeacherController) ListSubjects(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	subjects, err := c.subjectService.List(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, dto.NewSubjectResponse(s))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}

// CreateSubject adds a subject to the caller's list
func (c *TeacherController) CreateSubject(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Create(ctx.Request.Context(), teacherID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("teacherID", teacherID).
		Str("subject", subject.Name).
		Msg("Subject created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewSubjectResponse(*subject)))
}

// ToggleSubject opens or closes one subject's review window
func (c *TeacherController) ToggleSubject(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ToggleSubjectRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.subjectService.SetOpen(ctx.Request.Context(), teacherID, id, req.IsOpen); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Subject updated"}))
}

// DeleteSubject removes a subject from the caller's list
func (c *TeacherController) DeleteSubject(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.subjectService.Delete(ctx.Request.Context(), teacherID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Subject deleted"}))
}

// ToggleReview flips the caller's global review flag
func (c *TeacherController) ToggleReview(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	var req dto.ToggleReviewRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.subjectService.SetReviewOpen(ctx.Request.Context(), teacherID, req.IsReviewOpen); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("teacherID", teacherID).
		Bool("isReviewOpen", req.IsReviewOpen).
		Msg("Review flag updated")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Review flag updated"}))
}

// ListFeedback returns the feedback the caller has received, optionally
// narrowed to one rating value via ?rating=
func (c *TeacherController) ListFeedback(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	rating, _ := strconv.Atoi(ctx.DefaultQuery("rating", "0"))

	feedback, err := c.feedbackService.ForTeacher(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.FeedbackResponse, 0, len(feedback))
	for _, fb := range feedback {
		if rating >= 1 && rating <= 5 && fb.Rating != rating {
			continue
		}
		out = append(out, dto.NewFeedbackResponse(fb))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}

// Analytics returns the caller's rating aggregates
func (c *TeacherController) Analytics(ctx *gin.Context) {
	teacherID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	analytics, err := c.reportService.TeacherAnalytics(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(analytics))
}
