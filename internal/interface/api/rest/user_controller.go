package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/jwt"
	dtouser "filelink-api/internal/interface/api/rest/dto/user"
	"filelink-api/internal/interface/api/rest/middleware"
	"filelink-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.GET(RouteUser, middleware.AuthMiddleware(jwtService), uc.GetUserHandler)
	r.PUT(RouteUser, middleware.AuthMiddleware(jwtService), uc.UpsertUserHandler)

	return uc
}

func userIDOf(id int64) user.ID { return user.ID(id) }

func (uc *UserController) GetUserHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, uc.logger, "FindUserByID()", err)
		return
	}

	c.JSON(http.StatusOK, dtouser.ToResponseUser(*u))
}

// UpsertUserHandler creates the user or merges the non-null fields.
func (uc *UserController) UpsertUserHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dtouser.Request
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	u, err := uc.userService.UpsertUser(c.Request.Context(), dtouser.ToDomainPatch(id, req))
	if err != nil {
		respondError(c, uc.logger, "UpsertUser()", err)
		return
	}

	c.JSON(http.StatusOK, dtouser.ToResponseUser(*u))
}
