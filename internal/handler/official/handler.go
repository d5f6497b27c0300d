package official

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
	officials := r.Group("/official")
	{
		officials.POST("/login", h.Login)

		authed := officials.Group("", h.authMW.RequireRole(auth.RoleOfficial))
		{
			authed.POST("/create-doctor", h.CreateDoctor)
			authed.GET("/migrants", h.ListDoctorApproved)
			authed.POST("/decision/:id", h.Decide)
			authed.GET("/approval-letter/:id", h.ApprovalLetter)
			authed.POST("/logout", h.authMW.Logout)
		}
	}
}

type loginForm struct {
	ID       string `form:"id" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login is multipart: credentials plus a mandatory verification card upload.
func (h *Handler) Login(c *gin.Context) {
	var req loginForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("id and password required"))
		return
	}

	card, _ := c.FormFile("verification_card")

	if err := h.accounts.VerifyOfficial(c.Request.Context(), req.ID, req.Password, card); err != nil {
		handler.RespondError(c, err)
		return
	}

	token, err := h.jwtSvc.Generate(auth.RoleOfficial, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "Login successful",
		"token":   token,
	}))
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("doctor id and password (min 6 chars) required"))
		return
	}

	officialID := c.GetString(middleware.CtxActorID)
	if err := h.accounts.CreateDoctor(c.Request.Context(), &req, officialID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"message": "Doctor account created",
	}))
}

// ListDoctorApproved returns applications that cleared the medical gate.
// The deciding doctor's identity is not the official's concern.
func (h *Handler) ListDoctorApproved(c *gin.Context) {
	apps, err := h.apps.ListDoctorApproved(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	views := make([]*model.ApplicationView, 0, len(apps))
	for _, app := range apps {
		v := app.View(false)
		v.DoctorID = ""
		views = append(views, v)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"migrants": views}))
}

type decisionForm struct {
	Decision model.ApprovalStatus `form:"decision" binding:"required"`
}

// Decide is multipart: the approval letter upload is required when the
// decision is APPROVED.
func (h *Handler) Decide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid application id"))
		return
	}

	var req decisionForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("decision is required"))
		return
	}

	letter, _ := c.FormFile("approval_letter")

	officialID := c.GetString(middleware.CtxActorID)
	if err := h.apps.OfficialDecide(c.Request.Context(), id, officialID, req.Decision, letter); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "Decision recorded",
	}))
}

func (h *Handler) ApprovalLetter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid application id"))
		return
	}

	path, err := h.apps.ApprovalLetterPath(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.File(path)
}
