package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/teachers"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/logger"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/metrics"
)

// TeacherHandler serves the teacher account routes used by the SPA.
type TeacherHandler struct {
	svc     *teachers.Service
	timeout time.Duration
}

func NewTeacherHandler(svc *teachers.Service, timeout time.Duration) *TeacherHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TeacherHandler{svc: svc, timeout: timeout}
}

// Register mounts the teacher routes. signIn middleware (rate limiting) runs
// only in front of the sign-in route.
func (h *TeacherHandler) Register(r gin.IRouter, signIn ...gin.HandlerFunc) {
	api := r.Group("/api")
	api.POST("/register-teacher", h.RegisterTeacher)
	api.POST("/signin-teacher", chain(signIn, h.SignIn)...)
	api.GET("/teacher/:registerNumber", h.Get)
	api.PUT("/teacher/:registerNumber", h.Update)
	api.DELETE("/teacher/:registerNumber", h.Delete)
	api.GET("/teachers", h.List)
}

// chain returns mw followed by h without aliasing mw's backing array.
func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

func (h *TeacherHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *TeacherHandler) RegisterTeacher(c *gin.Context) {
	var req teachers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.Registrations.WithLabelValues(metrics.OutcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rn, err := h.svc.Register(ctx, req)
	if err != nil {
		var verr *teachers.ValidationError
		if errors.As(err, &verr) {
			metrics.Registrations.WithLabelValues(metrics.OutcomeRejected).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error()})
			return
		}
		metrics.Registrations.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Errorf("register teacher: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering teacher"})
		return
	}
	metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Teacher registered successfully", "registerNumber": rn})
}

type signInRequest struct {
	RegisterNumber string `json:"registerNumber"`
	Password       string `json:"password"`
}

func (h *TeacherHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.SignIns.WithLabelValues(metrics.OutcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid registration number or password."})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.SignIn(ctx, req.RegisterNumber, req.Password); err != nil {
		if errors.Is(err, teachers.ErrInvalidCredentials) {
			metrics.SignIns.WithLabelValues(metrics.OutcomeRejected).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid registration number or password."})
			return
		}
		metrics.SignIns.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Errorf("sign-in %s: %v", req.RegisterNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again later."})
		return
	}
	metrics.SignIns.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sign-in successful!"})
}

func (h *TeacherHandler) Get(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	t, err := h.svc.Get(ctx, c.Param("registerNumber"))
	if err != nil {
		if errors.Is(err, teachers.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Teacher not found"})
			return
		}
		logger.Errorf("get teacher %s: %v", c.Param("registerNumber"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching teacher data"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TeacherHandler) Update(c *gin.Context) {
	var req teachers.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rn := c.Param("registerNumber")
	t, err := h.svc.Update(ctx, rn, req)
	if err != nil {
		var verr *teachers.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error()})
		case errors.Is(err, teachers.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Teacher not found"})
		default:
			logger.Errorf("update teacher %s: %v", rn, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating teacher"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Teacher updated successfully", "teacher": t})
}

func (h *TeacherHandler) Delete(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	rn := c.Param("registerNumber")
	if err := h.svc.Delete(ctx, rn); err != nil {
		if errors.Is(err, teachers.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Teacher not found"})
			return
		}
		logger.Errorf("delete teacher %s: %v", rn, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting teacher"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Teacher deleted successfully"})
}

func (h *TeacherHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		logger.Errorf("list teachers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching teachers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": list})
}
