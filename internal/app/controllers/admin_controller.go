package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/app/services"
	"github.com/devansh/fms/internal/middleware"
	"github.com/devansh/fms/internal/pkg/helpers"
)

// AdminController handles the approval queue, system stats, roster imports
// and account administration
type AdminController struct {
	approvalService *services.ApprovalService
	accountService  *services.AccountService
	rosterService   *services.RosterService
	reportService   *services.ReportService
	logger          zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	approvalService *services.ApprovalService,
	accountService *services.AccountService,
	rosterService *services.RosterService,
	reportService *services.ReportService,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		approvalService: approvalService,
		accountService:  accountService,
		rosterService:   rosterService,
		reportService:   reportService,
		logger:          logger,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListPending returns accounts awaiting a decision. Supports role and
// department query filters.
func (c *AdminController) ListPending(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	accounts, total, err := c.approvalService.ListPending(ctx.Request.Context(),
		models.Role(ctx.Query("role")), ctx.Query("department"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(
		dto.NewAccountResponses(accounts),
		helpers.NewPaginationInfo(int64(total), page, size)))
}

// Approve moves a pending account to approved
func (c *AdminController) Approve(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
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

// Reject declines and removes a pending account
func (c *AdminController) Reject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
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

// ListAccounts lists accounts with role, status and department filters
func (c *AdminController) ListAccounts(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	semester, _ := strconv.Atoi(ctx.Query("semester"))
	filter := repositories.AccountFilter{
		Role:           models.Role(ctx.Query("role")),
		Status:         models.Status(ctx.Query("status")),
		DepartmentCode: ctx.Query("department"),
		Session:        ctx.Query("session"),
		Degree:         ctx.Query("degree"),
		Semester:       semester,
	}

	accounts, total, err := c.accountService.List(ctx.Request.Context(), filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(
		dto.NewAccountResponses(accounts),
		helpers.NewPaginationInfo(int64(total), page, size)))
}

// DeleteAccount removes an account outright
func (c *AdminController) DeleteAccount(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.accountService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("accountID", id).Msg("Account deleted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Account deleted"}))
}

// Stats returns the dashboard counters
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.accountService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// SystemSummary returns the full admin export payload
func (c *AdminController) SystemSummary(ctx *gin.Context) {
	stats, err := c.accountService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summary, err := c.reportService.SystemSummary(ctx.Request.Context(), stats)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summary))
}

// DepartmentComparison ranks departments by mean rating
func (c *AdminController) DepartmentComparison(ctx *gin.Context) {
	rows, err := c.reportService.DepartmentComparison(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rows))
}

// FeedbackDump returns the raw feedback export, optionally scoped to one
// department
func (c *AdminController) FeedbackDump(ctx *gin.Context) {
	rows, err := c.reportService.Dump(ctx.Request.Context(), ctx.Query("department"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rows))
}

// ListRoster returns the student roster
func (c *AdminController) ListRoster(ctx *gin.Context) {
	entries, err := c.rosterService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

// UpsertRosterEntry adds or replaces one roster record
func (c *AdminController) UpsertRosterEntry(ctx *gin.Context) {
	var req dto.RosterEntryRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	entry, err := c.rosterService.Upsert(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entry))
}

// BulkImportRoster imports many roster records, tallying failures per row
func (c *AdminController) BulkImportRoster(ctx *gin.Context) {
	var req dto.BulkRosterRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result := c.rosterService.BulkImport(ctx.Request.Context(), &req)

	c.logger.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Roster import finished")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// DeleteRosterEntry removes one roster record
func (c *AdminController) DeleteRosterEntry(ctx *gin.Context) {
	if err := c.rosterService.Delete(ctx.Request.Context(), ctx.Param("regNum")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Roster entry deleted"}))
}
