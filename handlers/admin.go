package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/admins"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/config"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/sessions"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/teachers"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/tokens"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/logger"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/metrics"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/middleware"
)

// AdminRequest is the body of POST /api/admin-auth
type AdminRequest struct {
	AdminID       string `json:"adminId"`
	AdminPassword string `json:"adminPassword"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AdminHandler holds dependencies for the admin routes. sessionsSvc and
// blacklist may be nil; tokens are only issued when a JWT secret is configured.
type AdminHandler struct {
	cfg         *config.Config
	adminsSvc   *admins.Service
	teachersSvc *teachers.Service
	sessionsSvc *sessions.Service
	blacklist   *sessions.Blacklist
	verifier    *tokens.Verifier
	timeout     time.Duration
}

func NewAdminHandler(cfg *config.Config, a *admins.Service, t *teachers.Service, s *sessions.Service, bl *sessions.Blacklist) *AdminHandler {
	h := &AdminHandler{cfg: cfg, adminsSvc: a, teachersSvc: t, sessionsSvc: s, blacklist: bl, timeout: cfg.Server.RequestTimeout}
	if h.timeout <= 0 {
		h.timeout = 10 * time.Second
	}
	if cfg.JWT.Secret != "" {
		h.verifier = tokens.NewVerifier(cfg.JWT.Secret)
	}
	return h
}

// Register mounts /api/admin-auth and, when tokens can be issued, the
// bearer-protected /api/admin routes. login middleware runs only in front
// of /api/admin-auth.
func (h *AdminHandler) Register(r gin.IRouter, login ...gin.HandlerFunc) {
	api := r.Group("/api")
	api.POST("/admin-auth", chain(login, h.Authenticate)...)
	if h.verifier == nil {
		return
	}
	adm := api.Group("/admin")
	adm.POST("/refresh", h.Refresh)
	adm.POST("/logout", h.Logout)
	var revocations middleware.Revocations
	if h.blacklist != nil {
		revocations = h.blacklist
	}
	adm.GET("/teachers", middleware.AuthMiddleware(h.verifier, revocations), middleware.RequireRole(tokens.RoleAdmin), h.ListTeachers)
}

func (h *AdminHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// Authenticate checks admin credentials and returns the teacher list (when
// enabled) together with freshly issued tokens.
func (h *AdminHandler) Authenticate(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AdminLogins.WithLabelValues(metrics.OutcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid admin ID or password."})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.adminsSvc.Authenticate(ctx, req.AdminID, req.AdminPassword)
	if err != nil {
		if errors.Is(err, admins.ErrInvalidCredentials) {
			metrics.AdminLogins.WithLabelValues(metrics.OutcomeRejected).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid admin ID or password."})
			return
		}
		metrics.AdminLogins.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Errorf("admin auth %s: %v", req.AdminID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again later."})
		return
	}

	resp := gin.H{"success": true}
	if h.cfg.Admin.IncludeTeachers {
		list, err := h.teachersSvc.List(ctx)
		if err != nil {
			metrics.AdminLogins.WithLabelValues(metrics.OutcomeError).Inc()
			logger.Errorf("admin auth: list teachers: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again later."})
			return
		}
		resp["teachers"] = list
	}

	if h.verifier != nil {
		access, err := tokens.GenerateAccessToken(h.cfg, a.AdminID, tokens.RoleAdmin, h.cfg.JWT.AccessTokenTTL)
		if err != nil {
			metrics.AdminLogins.WithLabelValues(metrics.OutcomeError).Inc()
			logger.Errorf("admin auth: access token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again later."})
			return
		}
		resp["accessToken"] = access
		resp["expiresIn"] = int(h.cfg.JWT.AccessTokenTTL.Seconds())
		if h.sessionsSvc != nil {
			rft, err := h.sessionsSvc.CreateSession(ctx, a.AdminID, tokens.RoleAdmin, h.cfg.JWT.RefreshTokenTTL)
			if err != nil {
				metrics.AdminLogins.WithLabelValues(metrics.OutcomeError).Inc()
				logger.Errorf("admin auth: create session: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error. Please try again later."})
				return
			}
			resp["refreshToken"] = rft
		}
	}
	metrics.AdminLogins.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Infof("admin %s authenticated", a.AdminID)
	c.JSON(http.StatusOK, resp)
}

// ListTeachers is the bearer-protected replacement for the list embedded in
// the admin-auth response.
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	list, err := h.teachersSvc.List(ctx)
	if err != nil {
		logger.Errorf("admin list teachers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching teachers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": list})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AdminHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "refreshToken is required"})
		return
	}
	if h.sessionsSvc == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	sess, err := h.sessionsSvc.ValidateRefresh(ctx, req.RefreshToken)
	if err != nil {
		logger.Errorf("refresh: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, sess.Subject, sess.Role, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("refresh: access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "expiresIn": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and blacklists the presented access
// token for the rest of its lifetime. The access token is only revoked when it
// belongs to the same subject as the refresh session.
func (h *AdminHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "refreshToken is required"})
		return
	}
	if h.sessionsSvc == nil {
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	sess, err := h.sessionsSvc.ValidateRefresh(ctx, req.RefreshToken)
	if err != nil {
		logger.Errorf("logout: lookup session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to remove session"})
		return
	}

	if at, ok := middleware.BearerToken(c); ok && sess != nil && h.blacklist != nil {
		if sub, exp, err := h.tokenOwner(ctx, at); err != nil {
			logger.Debugf("logout: ignoring unverifiable bearer token: %v", err)
		} else if sub != sess.Subject {
			logger.Warnf("logout: bearer subject %q does not own session of %q; not revoking", sub, sess.Subject)
		} else if ttl := time.Until(exp); ttl > 0 {
			if err := h.blacklist.Revoke(ctx, at, ttl); err != nil {
				logger.Errorf("logout: blacklist: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to blacklist access token"})
				return
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(ctx, req.RefreshToken); err != nil {
		logger.Errorf("logout: delete session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// tokenOwner verifies raw and returns its sub and exp claims.
func (h *AdminHandler) tokenOwner(ctx context.Context, raw string) (string, time.Time, error) {
	tok, err := h.verifier.Verify(ctx, raw)
	if err != nil {
		return "", time.Time{}, err
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		return "", time.Time{}, err
	}
	exp, err := h.verifier.ExpiresAt(raw)
	if err != nil {
		return "", time.Time{}, err
	}
	sub, _ := claims["sub"].(string)
	return sub, exp, nil
}
