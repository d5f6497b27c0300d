package migrant

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/handler"
	"github.com/aarogyacheck/clearance-api/internal/middleware"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/service/application"
	"github.com/aarogyacheck/clearance-api/internal/service/warning"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
)

type Handler struct {
	apps     *application.Service
	warnings *warning.Service
	jwtSvc   auth.JWTService
	authMW   *middleware.AuthMiddleware
}

func NewHandler(apps *application.Service, warnings *warning.Service, jwtSvc auth.JWTService, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{apps: apps, warnings: warnings, jwtSvc: jwtSvc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	migrants := r.Group("/migrant")
	{
		migrants.POST("/apply", h.Apply)
		migrants.POST("/login", h.Login)

		authed := migrants.Group("", h.authMW.RequireRole(auth.RoleMigrant))
		{
			authed.GET("/status", h.Status)
			authed.GET("/download-clearance", h.DownloadClearance)
			authed.GET("/download-health-warning", h.DownloadHealthWarning)
			authed.POST("/logout", h.authMW.Logout)
		}
	}
}

// Apply submits (or resubmits) a travel application. The medical report
// upload is optional.
func (h *Handler) Apply(c *gin.Context) {
	var req model.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("all fields are required"))
		return
	}

	report, _ := c.FormFile("medical_report")

	app, err := h.apps.Submit(c.Request.Context(), &req, report)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	token, err := h.jwtSvc.Generate(auth.RoleMigrant, app.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"message":    "Application submitted",
		"migrant_id": app.ID.String(),
		"token":      token,
	}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.MigrantLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("email and national id required"))
		return
	}

	app, err := h.apps.Login(c.Request.Context(), req.Email, req.NationalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	token, err := h.jwtSvc.Generate(auth.RoleMigrant, app.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message":    "Login successful",
		"migrant_id": app.ID.String(),
		"token":      token,
	}))
}

func (h *Handler) Status(c *gin.Context) {
	id, err := h.sessionApplicationID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid session"))
		return
	}

	app, err := h.apps.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	// Never expose the report path to the applicant.
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"migrant": app.View(false)}))
}

func (h *Handler) DownloadClearance(c *gin.Context) {
	id, err := h.sessionApplicationID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid session"))
		return
	}

	doc, err := h.apps.Clearance(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="travel_clearance.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) DownloadHealthWarning(c *gin.Context) {
	id, err := h.sessionApplicationID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid session"))
		return
	}

	app, err := h.apps.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	doc, filename, err := h.warnings.LetterForNationalID(c.Request.Context(), app.NationalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) sessionApplicationID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(middleware.CtxActorID))
}
