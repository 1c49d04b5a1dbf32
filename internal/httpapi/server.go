// Package httpapi exposes the REST/JSON API consumed by the browser client.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employeeManagement/internal/metrics"
	"employeeManagement/internal/service"
	"employeeManagement/internal/storage"
	"employeeManagement/models"
	"employeeManagement/repository"
)

// Deps bundles what the handlers need. Payslips and Metrics may be nil.
type Deps struct {
	DB          *sql.DB
	Auth        *service.AuthService
	Employees   repository.EmployeeRepositoryI
	Lookup      repository.LookupRepositoryI
	Attendance  repository.AttendanceRepositoryI
	Leaves      repository.LeaveRepositoryI
	Payroll     repository.PayrollRepositoryI
	Payslips    storage.PayslipStore
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	CORSOrigins []string
}

// NewDeps wires the SQL-backed repositories for d.
func NewDeps(d *sql.DB, authSvc *service.AuthService, logger *zap.Logger) Deps {
	return Deps{
		DB:         d,
		Auth:       authSvc,
		Employees:  repository.NewEmployeeRepository(d),
		Lookup:     repository.NewLookupRepository(d),
		Attendance: repository.NewAttendanceRepository(d),
		Leaves:     repository.NewLeaveRepository(d),
		Payroll:    repository.NewPayrollRepository(d),
		Logger:     logger,
	}
}

type handler struct {
	Deps
	logger *zap.Logger
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &handler{Deps: d, logger: d.Logger.Named("http")}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), h.accessLog(), h.observe())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Employee Management System API"})
	})
	r.GET("/healthz", h.healthz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.POST("/login", h.login)
	api.POST("/signup", h.optionalAuth(), h.signup)

	authed := api.Group("", h.authenticate())
	authed.POST("/logout", h.logout)
	authed.GET("/me", h.me)

	employees := authed.Group("/employees")
	employees.GET("", h.listEmployees)
	employees.GET("/:id", h.getEmployee)
	employees.POST("", h.requireRole(models.RoleAdmin, models.RoleManager), h.createEmployee)
	employees.PUT("/:id", h.requireRole(models.RoleAdmin), h.updateEmployee)
	employees.DELETE("/:id", h.requireRole(models.RoleAdmin), h.deleteEmployee)

	authed.GET("/departments", h.listDepartments)
	authed.GET("/roles", h.listRoles)
	authed.GET("/leave-types", h.listLeaveTypes)

	authed.GET("/attendance", h.listAttendance)
	authed.POST("/attendance", h.createAttendance)

	leaves := authed.Group("/leaves")
	leaves.GET("", h.listLeaves)
	leaves.GET("/types", h.listLeaveTypes)
	leaves.POST("", h.createLeave)
	leaves.PUT("/:id", h.requireRole(models.RoleAdmin, models.RoleManager), h.updateLeave)

	payroll := authed.Group("/payroll")
	payroll.GET("", h.listPayroll)
	payroll.POST("", h.requireRole(models.RoleAdmin, models.RoleManager), h.createPayroll)
	payroll.POST("/:id/payslip", h.requireRole(models.RoleAdmin, models.RoleManager), h.uploadPayslip)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{nextPageHeader, requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (h *handler) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	err := h.DB.PingContext(ctx)
	if h.Metrics != nil {
		h.Metrics.SetDBUp(err == nil)
	}
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StartHTTP starts serving h on addr and returns a shutdown function.
func StartHTTP(addr string, h http.Handler, logger *zap.Logger) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":5000"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
		}
	}()
	return srv.Shutdown, nil
}
