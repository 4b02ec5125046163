package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain/session"
	"filelink-api/internal/infrastructure/jwt"
	dtosession "filelink-api/internal/interface/api/rest/dto/session"
	"filelink-api/internal/interface/api/rest/middleware"
	"filelink-api/internal/interface/api/rest/validator"
)

type SessionController struct {
	sessionService ports.SessionService
	logger         *zap.Logger
}

func NewSessionController(
	r *gin.Engine,
	sessionService ports.SessionService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *SessionController {
	sc := &SessionController{
		sessionService: sessionService,
		logger:         logger,
	}

	auth := middleware.AuthMiddleware(jwtService)
	r.POST(RouteSessions, auth, sc.CreateSessionHandler)
	r.GET(RouteSession, auth, sc.GetSessionHandler)
	r.PATCH(RouteSession, auth, sc.UpdateSessionHandler)

	return sc
}

func (sc *SessionController) CreateSessionHandler(c *gin.Context) {
	var req dtosession.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if req.SessionID != "" && !validator.IsSessionID(req.SessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is malformed"})
		return
	}
	if errs := validator.ValidateSessionFields(req.Fields); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	s, err := sc.sessionService.CreateSession(c.Request.Context(), req.SessionID, session.Fields(req.Fields))
	if err != nil {
		respondError(c, sc.logger, "CreateSession()", err)
		return
	}

	c.JSON(http.StatusCreated, dtosession.ToResponseSession(*s))
}

func (sc *SessionController) GetSessionHandler(c *gin.Context) {
	id := c.Param("session_id")
	if !validator.IsSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is malformed"})
		return
	}

	s, err := sc.sessionService.FindSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, sc.logger, "FindSession()", err)
		return
	}

	c.JSON(http.StatusOK, dtosession.ToResponseSession(*s))
}

func (sc *SessionController) UpdateSessionHandler(c *gin.Context) {
	id := c.Param("session_id")
	if !validator.IsSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is malformed"})
		return
	}

	var req dtosession.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateSessionFields(req.Fields); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	s, err := sc.sessionService.UpdateSession(c.Request.Context(), id, session.Fields(req.Fields))
	if err != nil {
		respondError(c, sc.logger, "UpdateSession()", err)
		return
	}

	c.JSON(http.StatusOK, dtosession.ToResponseSession(*s))
}
