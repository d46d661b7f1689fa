package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/meric/acadbatch/internal/app/controllers"
	"github.com/meric/acadbatch/internal/middleware"
	"github.com/meric/acadbatch/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	rollController *controllers.RollController,
	electiveController *controllers.ElectiveController,
	recordController *controllers.RecordController,
	catalogController *controllers.CatalogController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Catalog routes (read-only, any authenticated role)
		batches := authenticated.Group("/batches")
		{
			batches.GET("", catalogController.ListBatches)
			batches.GET("/:id/students", catalogController.ListBatchStudents)

			// Roll management is restricted to staff
			batchesStaffProtected := batches.Group("")
			batchesStaffProtected.Use(authMiddleware.RequireRoles(auth.RoleTeacher, auth.RoleAdmin))
			{
				batchesStaffProtected.POST("/:id/recalculate", rollController.Recalculate)
			}
		}

		authenticated.GET("/subjects", catalogController.ListSubjects)

		// Student membership routes (staff only)
		students := authenticated.Group("/students")
		students.Use(authMiddleware.RequireRoles(auth.RoleTeacher, auth.RoleAdmin))
		{
			students.POST("/assign", rollController.AssignMembership)
		}

		// Elective routes (students act on their own enrollment)
		electives := authenticated.Group("/electives")
		electives.Use(authMiddleware.RequireRoles(auth.RoleStudent))
		{
			electives.GET("", electiveController.ListAvailable)
			electives.POST("", electiveController.Select)
		}

		// Record routes (staff only)
		recordsStaffProtected := authenticated.Group("")
		recordsStaffProtected.Use(authMiddleware.RequireRoles(auth.RoleTeacher, auth.RoleAdmin))
		{
			recordsStaffProtected.POST("/attendance", recordController.UpsertAttendance)
			recordsStaffProtected.GET("/attendance/summary", recordController.AttendanceSummary)
			recordsStaffProtected.POST("/marks", recordController.UpsertMarks)
		}
	}
}
