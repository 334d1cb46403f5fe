package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/services"
	"github.com/devansh/fms/internal/middleware"
)

// StudentController handles the student portal: eligible teachers, feedback
// submission and submission history
type StudentController struct {
	feedbackService *services.FeedbackService
	logger          zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(feedbackService *services.FeedbackService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// EligibleTeachers lists the teachers and subjects the caller may review now
func (c *StudentController) EligibleTeachers(ctx *gin.Context) {
	studentID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	teachers, err := c.feedbackService.EligibleTeachers(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teachers))
}

// SubmitFeedback records one rating for an open subject
func (c *StudentController) SubmitFeedback(ctx *gin.Context) {
	studentID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	fb, err := c.feedbackService.Submit(ctx.Request.Context(), studentID, &req)
	if err != nil {
		c.logger.Warn().Err(err).
			Int64("teacherID", req.TeacherID).
			Str("subject", req.Subject).
			Msg("Feedback submission rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewFeedbackResponse(fb)))
}

// History returns the caller's own submissions
func (c *StudentController) History(ctx *gin.Context) {
	studentID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	feedback, err := c.feedbackService.History(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.FeedbackResponse, 0, len(feedback))
	for _, fb := range feedback {
		out = append(out, dto.NewFeedbackResponse(fb))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}

// Stats returns the caller's own submission counters
func (c *StudentController) Stats(ctx *gin.Context) {
	studentID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	stats, err := c.feedbackService.StudentStats(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}
