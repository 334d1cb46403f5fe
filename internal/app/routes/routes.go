package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devansh/fms/internal/app/controllers"
	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/middleware"
	"github.com/devansh/fms/internal/pkg/ws"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	departmentController *controllers.DepartmentController,
	teacherController *controllers.TeacherController,
	studentController *controllers.StudentController,
	wsHandler *ws.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	authenticated.Use(authMiddleware.ApprovedAccountRequired())

	// Admin portal: approval queue, accounts, roster, system reports
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/pending", adminController.ListPending)
		admin.POST("/accounts/:id/approve", adminController.Approve)
		admin.POST("/accounts/:id/reject", adminController.Reject)
		admin.GET("/accounts", adminController.ListAccounts)
		admin.DELETE("/accounts/:id", adminController.DeleteAccount)

		admin.GET("/stats", adminController.Stats)
		admin.GET("/reports/summary", adminController.SystemSummary)
		admin.GET("/reports/departments", adminController.DepartmentComparison)
		admin.GET("/reports/feedback", adminController.FeedbackDump)

		admin.GET("/roster", adminController.ListRoster)
		admin.POST("/roster", adminController.UpsertRosterEntry)
		admin.POST("/roster/bulk", adminController.BulkImportRoster)
		admin.DELETE("/roster/:regNum", adminController.DeleteRosterEntry)
	}

	// Department portal: own approval queue, sessions, provisioning,
	// subject management, promotion, reports
	department := authenticated.Group("/department")
	department.Use(authMiddleware.RoleRequired(models.RoleDepartment))
	{
		department.GET("/pending", departmentController.ListPending)
		department.POST("/accounts/:id/approve", departmentController.ApproveAccount)
		department.POST("/accounts/:id/reject", departmentController.RejectAccount)

		department.GET("/sessions", departmentController.ListSessions)
		department.POST("/sessions", departmentController.CreateSession)
		department.POST("/sessions/:id/activate", departmentController.ActivateSession)
		department.DELETE("/sessions/:id", departmentController.DeleteSession)

		department.GET("/teachers", departmentController.ListTeachers)
		department.POST("/teachers", departmentController.CreateTeacher)
		department.DELETE("/teachers/:id", departmentController.DeleteTeacher)
		department.GET("/teachers/:id/subjects", departmentController.ListTeacherSubjects)
		department.POST("/teachers/:id/subjects", departmentController.CreateTeacherSubject)
		department.PATCH("/teachers/:id/subjects/:subjectId", departmentController.ToggleTeacherSubject)
		department.DELETE("/teachers/:id/subjects/:subjectId", departmentController.DeleteTeacherSubject)
		department.PATCH("/teachers/:id/review", departmentController.ToggleTeacherReview)

		department.GET("/students", departmentController.ListStudents)
		department.POST("/students", departmentController.CreateStudent)
		department.POST("/students/bulk", departmentController.BulkCreateStudents)
		department.DELETE("/students/:id", departmentController.DeleteStudent)
		department.POST("/students/promote", departmentController.PromoteStudents)
		department.POST("/students/demote", departmentController.DemoteStudents)

		department.GET("/feedback", departmentController.ListFeedback)
		department.GET("/analytics", departmentController.Analytics)
		department.GET("/export", departmentController.Export)
	}

	// Teacher portal: subjects, review windows, received feedback
	teacher := authenticated.Group("/teacher")
	teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/subjects", teacherController.ListSubjects)
		teacher.POST("/subjects", teacherController.CreateSubject)
		teacher.PATCH("/subjects/:id", teacherController.ToggleSubject)
		teacher.DELETE("/subjects/:id", teacherController.DeleteSubject)
		teacher.PATCH("/review", teacherController.ToggleReview)

		teacher.GET("/feedback", teacherController.ListFeedback)
		teacher.GET("/analytics", teacherController.Analytics)
	}

	// Student portal: eligibility, submission, history
	student := authenticated.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/teachers", studentController.EligibleTeachers)
		student.POST("/feedback", studentController.SubmitFeedback)
		student.GET("/feedback", studentController.History)
		student.GET("/stats", studentController.Stats)
	}

	// Live dashboard stream for teachers, departments and admins
	authenticated.GET("/ws/feedback", wsHandler.HandleConnection)
}
