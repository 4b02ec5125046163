package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/application/services"
	"filelink-api/internal/infrastructure/jwt"
	dtopremium "filelink-api/internal/interface/api/rest/dto/premium"
	"filelink-api/internal/interface/api/rest/middleware"
	"filelink-api/internal/interface/api/rest/validator"
)

type PremiumController struct {
	premiumService ports.PremiumService
	logger         *zap.Logger
	now            func() time.Time
}

// NewPremiumController exposes the admin-only premium grant surface.
func NewPremiumController(
	r *gin.Engine,
	premiumService ports.PremiumService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *PremiumController {
	pc := &PremiumController{
		premiumService: premiumService,
		logger:         logger,
		now:            time.Now,
	}

	admin := r.Group(RouteUserPremium, middleware.AuthMiddleware(jwtService), middleware.RequireRole(services.RoleAdmin))
	admin.GET("", pc.GetPremiumHandler)
	admin.PUT("", pc.GrantPremiumHandler)
	admin.DELETE("", pc.RevokePremiumHandler)

	return pc
}

func (pc *PremiumController) GetPremiumHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := pc.premiumService.Status(c.Request.Context(), id)
	if err != nil {
		respondError(c, pc.logger, "Status()", err)
		return
	}

	c.JSON(http.StatusOK, dtopremium.ToResponseGrant(*g, pc.now()))
}

func (pc *PremiumController) GrantPremiumHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dtopremium.GrantRequest
	if c.Request.ContentLength != 0 {
		if err = c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}
	}
	days := services.DefaultPremiumDays
	if req.DurationDays != nil {
		days = *req.DurationDays
	}

	g, err := pc.premiumService.GrantPremium(c.Request.Context(), id, days)
	if err != nil {
		respondError(c, pc.logger, "GrantPremium()", err)
		return
	}

	c.JSON(http.StatusOK, dtopremium.ToResponseGrant(*g, pc.now()))
}

func (pc *PremiumController) RevokePremiumHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err = pc.premiumService.RevokePremium(c.Request.Context(), id); err != nil {
		respondError(c, pc.logger, "RevokePremium()", err)
		return
	}

	c.Status(http.StatusNoContent)
}
