package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devansh/fms/internal/app/auth"
	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/app/services"
	"github.com/devansh/fms/internal/middleware"
	"github.com/devansh/fms/internal/pkg/helpers"
)

// DepartmentController handles the department dashboard: session catalog,
// teacher and student provisioning, promotion batches and department reports
type DepartmentController struct {
	authzService     *auth.AuthorizationService
	approvalService  *services.ApprovalService
	accountService   *services.AccountService
	sessionService   *services.SessionService
	subjectService   *services.SubjectService
	promotionService *services.PromotionService
	feedbackService  *services.FeedbackService
	reportService    *services.ReportService
	accountRepo      *repositories.AccountRepository
	logger           zerolog.Logger
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(
	authzService *auth.AuthorizationService,
	approvalService *services.ApprovalService,
	accountService *services.AccountService,
	sessionService *services.SessionService,
	subjectService *services.SubjectService,
	promotionService *services.PromotionService,
	feedbackService *services.FeedbackService,
	reportService *services.ReportService,
	accountRepo *repositories.AccountRepository,
	logger zerolog.Logger,
) *DepartmentController {
	return &DepartmentController{
		authzService:     authzService,
		approvalService:  approvalService,
		accountService:   accountService,
		sessionService:   sessionService,
		subjectService:   subjectService,
		promotionService: promotionService,
		feedbackService:  feedbackService,
		reportService:    reportService,
		accountRepo:      accountRepo,
		logger:           logger,
	}
}

// resolveDepartment returns the department account the caller operates as.
// Department users act as themselves; an admin names the department with the
// "department" query parameter.
func (c *DepartmentController) resolveDepartment(ctx *gin.Context) (*models.Account, bool) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return nil, false
	}

	caller, err := c.accountRepo.GetByID(ctx.Request.Context(), accountID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}

	if caller.Department != nil {
		return caller, true
	}

	if caller.Role == models.RoleAdmin {
		code := ctx.Query("department")
		if code == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Department query parameter is required")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return nil, false
		}
		dept, err := c.accountRepo.GetDepartmentByCode(ctx.Request.Context(), code)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return nil, false
		}
		return dept, true
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Department account required")
	ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	return nil, false
}

// ListSessions returns the department's session catalog
func (c *DepartmentController) ListSessions(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	sessions, err := c.sessionService.List(ctx.Request.Context(), dept.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.NewSessionResponse(s))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}

// CreateSession registers an academic session on the department
func (c *DepartmentController) CreateSession(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	session, err := c.sessionService.Create(ctx.Request.Context(), dept.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("session", session.Name).
		Str("degree", string(session.Degree)).
		Int64("departmentID", dept.ID).
		Msg("Session registered")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewSessionResponse(*session)))
}

// ActivateSession makes one session the live one for its degree
func (c *DepartmentController) ActivateSession(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.sessionService.Activate(ctx.Request.Context(), dept.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Session activated"}))
}

// DeleteSession removes a session from the catalog
func (c *DepartmentController) DeleteSession(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.sessionService.Delete(ctx.Request.Context(), dept.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Session deleted"}))
}

// ListPending returns the department's own pending accounts, optionally
// narrowed to one role
func (c *DepartmentController) ListPending(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	accounts, total, err := c.approvalService.ListPending(ctx.Request.Context(),
		models.Role(ctx.Query("role")), dept.Department.DeptID, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(
		dto.NewAccountResponses(accounts),
		helpers.NewPaginationInfo(int64(total), page, size)))
}

// ApproveAccount approves a pending account registered under the caller's
// department
func (c *DepartmentController) ApproveAccount(ctx *gin.Context) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.authzService.CanDecideAccount(ctx.Request.Context(), accountID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	account, err := c.approvalService.Approve(ctx.Request.Context(), id)
	if err != nil {
		c.logger.Warn().Err(err).Int64("accountID", id).Msg("Approval failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("accountID", id).Str("role", string(account.Role)).Msg("Account approved")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAccountResponse(account)))
}

// RejectAccount declines and removes a pending account registered under the
// caller's department
func (c *DepartmentController) RejectAccount(ctx *gin.Context) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.authzService.CanDecideAccount(ctx.Request.Context(), accountID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.approvalService.Reject(ctx.Request.Context(), id); err != nil {
		c.logger.Warn().Err(err).Int64("accountID", id).Msg("Rejection failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("accountID", id).Msg("Account rejected and removed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Account rejected"}))
}

// CreateTeacher provisions a teacher under the department
func (c *DepartmentController) CreateTeacher(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	var req dto.CreateTeacherRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	account, err := c.accountService.CreateTeacher(ctx.Request.Context(), dept.Department.DeptID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teacherID", account.ID).Str("department", dept.Department.DeptID).Msg("Teacher provisioned")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewAccountResponse(account)))
}

// ListTeachers lists the department's teachers
func (c *DepartmentController) ListTeachers(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	accounts, total, err := c.accountService.List(ctx.Request.Context(), repositories.AccountFilter{
		Role:           models.RoleTeacher,
		DepartmentCode: dept.Department.DeptID,
	}, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(
		dto.NewAccountResponses(accounts),
		helpers.NewPaginationInfo(int64(total), page, size)))
}

// DeleteTeacher removes a teacher of the department
func (c *DepartmentController) DeleteTeacher(ctx *gin.Context) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.authzService.CanManageTeacher(ctx.Request.Context(), accountID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.accountService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Teacher deleted"}))
}

// manageTeacher resolves the :id route parameter to a teacher the caller may
// manage
func (c *DepartmentController) manageTeacher(ctx *gin.Context) (int64, bool) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return 0, false
	}
	teacherID, ok := parseIDParam(ctx, "id")
	if !ok {
		return 0, false
	}

	if err := c.authzService.CanManageTeacher(ctx.Request.Context(), accountID, teacherID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return teacherID, true
}

// ListTeacherSubjects returns one teacher's subject list
func (c *DepartmentController) ListTeacherSubjects(ctx *gin.Context) {
	teacherID, ok := c.manageTeacher(ctx)
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

// CreateTeacherSubject adds a subject to one of the department's teachers
func (c *DepartmentController) CreateTeacherSubject(ctx *gin.Context) {
	teacherID, ok := c.manageTeacher(ctx)
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

// ToggleTeacherSubject opens or closes a subject's review window on behalf of
// the teacher
func (c *DepartmentController) ToggleTeacherSubject(ctx *gin.Context) {
	teacherID, ok := c.manageTeacher(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	var req dto.ToggleSubjectRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.subjectService.SetOpen(ctx.Request.Context(), teacherID, subjectID, req.IsOpen); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Subject updated"}))
}

// DeleteTeacherSubject removes a subject from one of the department's teachers
func (c *DepartmentController) DeleteTeacherSubject(ctx *gin.Context) {
	teacherID, ok := c.manageTeacher(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	if err := c.subjectService.Delete(ctx.Request.Context(), teacherID, subjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Subject deleted"}))
}

// ToggleTeacherReview flips a teacher's global review flag on the teacher's
// behalf
func (c *DepartmentController) ToggleTeacherReview(ctx *gin.Context) {
	teacherID, ok := c.manageTeacher(ctx)
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

// CreateStudent provisions a student under the active session
func (c *DepartmentController) CreateStudent(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	account, err := c.accountService.CreateStudent(ctx.Request.Context(), dept.Department.DeptID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewAccountResponse(account)))
}

// BulkCreateStudents provisions many students at once
func (c *DepartmentController) BulkCreateStudents(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	var req dto.BulkStudentsRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result := c.accountService.BulkCreateStudents(ctx.Request.Context(), dept.Department.DeptID, &req)

	c.logger.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Str("department", dept.Department.DeptID).
		Msg("Bulk student provisioning finished")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// ListStudents lists the department's students with session, degree and
// semester filters
func (c *DepartmentController) ListStudents(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	semester, _ := strconv.Atoi(ctx.Query("semester"))

	accounts, total, err := c.accountService.List(ctx.Request.Context(), repositories.AccountFilter{
		Role:           models.RoleStudent,
		DepartmentCode: dept.Department.DeptID,
		Session:        ctx.Query("session"),
		Degree:         ctx.Query("degree"),
		Semester:       semester,
	}, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(
		dto.NewAccountResponses(accounts),
		helpers.NewPaginationInfo(int64(total), page, size)))
}

// DeleteStudent removes a student of the department
func (c *DepartmentController) DeleteStudent(ctx *gin.Context) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.authzService.CanManageStudent(ctx.Request.Context(), accountID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := c.accountService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted"}))
}

// shiftStudents runs a promotion batch after filtering the list down to
// students the caller may manage. Ownership failures are tallied like any
// other per-row failure.
func (c *DepartmentController) shiftStudents(ctx *gin.Context, delta int) {
	accountID, ok := callerAccountID(ctx)
	if !ok {
		return
	}

	var req dto.PromotionRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	allowed := make([]int64, 0, len(req.StudentIDs))
	denied := &dto.PromotionResponse{}
	for _, id := range req.StudentIDs {
		if err := c.authzService.CanManageStudent(ctx.Request.Context(), accountID, id); err != nil {
			denied.Failed++
			denied.FailedIDs = append(denied.FailedIDs, id)
			continue
		}
		allowed = append(allowed, id)
	}

	result := c.promotionService.Shift(ctx.Request.Context(), allowed, delta)
	result.Failed += denied.Failed
	result.FailedIDs = append(result.FailedIDs, denied.FailedIDs...)

	c.logger.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Int("delta", delta).
		Msg("Student level shift finished")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// PromoteStudents moves the listed students up one semester
func (c *DepartmentController) PromoteStudents(ctx *gin.Context) {
	c.shiftStudents(ctx, 1)
}

// DemoteStudents moves the listed students down one semester
func (c *DepartmentController) DemoteStudents(ctx *gin.Context) {
	c.shiftStudents(ctx, -1)
}

// ListFeedback returns all feedback for the department's teachers
func (c *DepartmentController) ListFeedback(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	feedback, err := c.feedbackService.ForDepartment(ctx.Request.Context(), dept.Department.DeptID)
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

// Analytics returns the department dashboard aggregates
func (c *DepartmentController) Analytics(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	analytics, err := c.reportService.DepartmentAnalytics(ctx.Request.Context(), dept.Department.DeptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(analytics))
}

// Export returns the raw feedback rows for the department
func (c *DepartmentController) Export(ctx *gin.Context) {
	dept, ok := c.resolveDepartment(ctx)
	if !ok {
		return
	}

	rows, err := c.reportService.Dump(ctx.Request.Context(), dept.Department.DeptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rows))
}
