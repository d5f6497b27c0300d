package healthadmin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/handler"
	"github.com/aarogyacheck/clearance-api/internal/middleware"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/service/account"
	"github.com/aarogyacheck/clearance-api/internal/service/warning"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
)

type Handler struct {
	warnings *warning.Service
	accounts *account.Service
	jwtSvc   auth.JWTService
	authMW   *middleware.AuthMiddleware
}

func NewHandler(warnings *warning.Service, accounts *account.Service, jwtSvc auth.JWTService, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{warnings: warnings, accounts: accounts, jwtSvc: jwtSvc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admins := r.Group("/health-admin")
	{
		admins.POST("/login", h.Login)

		authed := admins.Group("", h.authMW.RequireRole(auth.RoleHealthAdmin))
		{
			authed.GET("/disapproved-travelers", h.ListDisapproved)
			authed.GET("/traveler/:id", h.Traveler)
			authed.POST("/update-qr/:id", h.IssueWarning)
			authed.GET("/download-warning-letter/:id", h.WarningLetter)
			authed.POST("/logout", h.authMW.Logout)
		}
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.CredentialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("id and password required"))
		return
	}

	if err := h.accounts.VerifyHealthAdmin(c.Request.Context(), req.ID, req.Password); err != nil {
		handler.RespondError(c, err)
		return
	}

	token, err := h.jwtSvc.Generate(auth.RoleHealthAdmin, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "Login successful",
		"token":   token,
	}))
}

func (h *Handler) ListDisapproved(c *gin.Context) {
	travelers, err := h.warnings.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"travelers": travelers}))
}

func (h *Handler) Traveler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid traveler id"))
		return
	}

	t, err := h.warnings.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"traveler": t}))
}

// IssueWarning generates the warning notice with its embedded QR code,
// marks the traveler record, and emails the letter to the traveler.
func (h *Handler) IssueWarning(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid traveler id"))
		return
	}

	if err := h.warnings.Issue(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "QR code generated and warning letter sent",
	}))
}

func (h *Handler) WarningLetter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid traveler id"))
		return
	}

	doc, filename, err := h.warnings.Letter(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}
