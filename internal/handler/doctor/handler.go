package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/handler"
	"github.com/aarogyacheck/clearance-api/internal/middleware"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/service/account"
	"github.com/aarogyacheck/clearance-api/internal/service/application"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
)

type Handler struct {
	apps     *application.Service
	accounts *account.Service
	jwtSvc   auth.JWTService
	authMW   *middleware.AuthMiddleware
}

func NewHandler(apps *application.Service, accounts *account.Service, jwtSvc auth.JWTService, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{apps: apps, accounts: accounts, jwtSvc: jwtSvc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctor")
	{
		doctors.POST("/login", h.Login)

		authed := doctors.Group("", h.authMW.RequireRole(auth.RoleDoctor))
		{
			authed.GET("/migrants", h.ListPending)
			authed.GET("/medical-report/:id", h.MedicalReport)
			authed.POST("/decision/:id", h.Decide)
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

	if err := h.accounts.VerifyDoctor(c.Request.Context(), req.ID, req.Password); err != nil {
		handler.RespondError(c, err)
		return
	}

	token, err := h.jwtSvc.Generate(auth.RoleDoctor, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "Login successful",
		"token":   token,
	}))
}

// ListPending returns applications still awaiting the medical gate,
// optionally filtered by a national id substring.
func (h *Handler) ListPending(c *gin.Context) {
	apps, err := h.apps.ListDoctorPending(c.Request.Context(), c.Query("national_id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	views := make([]*model.ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, app.View(true))
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"migrants": views}))
}

func (h *Handler) MedicalReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid application id"))
		return
	}

	path, err := h.apps.MedicalReportPath(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.File(path)
}

func (h *Handler) Decide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid application id"))
		return
	}

	var req model.DoctorDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("decision is required"))
		return
	}

	doctorID := c.GetString(middleware.CtxActorID)
	if err := h.apps.DoctorDecide(c.Request.Context(), id, doctorID, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "Decision recorded",
	}))
}
