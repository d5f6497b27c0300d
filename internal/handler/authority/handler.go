package authority

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aarogyacheck/clearance-api/internal/handler"
	"github.com/aarogyacheck/clearance-api/internal/middleware"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/service/account"
	"github.com/aarogyacheck/clearance-api/internal/service/scan"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
)

type Handler struct {
	scans    *scan.Service
	accounts *account.Service
	jwtSvc   auth.JWTService
	authMW   *middleware.AuthMiddleware
}

func NewHandler(scans *scan.Service, accounts *account.Service, jwtSvc auth.JWTService, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{scans: scans, accounts: accounts, jwtSvc: jwtSvc, authMW: authMW}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authorities := r.Group("/authority")
	{
		authorities.POST("/login", h.Login)

		authed := authorities.Group("", h.authMW.RequireRole(auth.RoleAuthority))
		{
			authed.GET("/disapproved-travelers", h.ListTravelers)
			authed.POST("/scan-qr", h.ScanQR)
			authed.POST("/levy-penalty", h.LevyPenalty)
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

	if err := h.accounts.VerifyAuthority(c.Request.Context(), req.ID, req.Password); err != nil {
		handler.RespondError(c, err)
		return
	}

	token, err := h.jwtSvc.Generate(auth.RoleAuthority, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"message": "Login successful",
		"token":   token,
	}))
}

// ListTravelers exposes the minimal checkpoint view of flagged travelers.
func (h *Handler) ListTravelers(c *gin.Context) {
	views, err := h.scans.ListTravelers(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"travelers": views}))
}

func (h *Handler) ScanQR(c *gin.Context) {
	var req model.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("qr_data is required"))
		return
	}

	verdict, err := h.scans.Verify(c.Request.Context(), req.QRData)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(verdict))
}

func (h *Handler) LevyPenalty(c *gin.Context) {
	var req model.LevyPenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("national_id and amount are required"))
		return
	}

	authorityID := c.GetString(middleware.CtxActorID)
	record, err := h.scans.Levy(c.Request.Context(), &req, authorityID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"message": "Penalty levied",
		"penalty": record,
	}))
}
