package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/application/services"
	"filelink-api/internal/infrastructure/jwt"
	dtofile "filelink-api/internal/interface/api/rest/dto/file"
	"filelink-api/internal/interface/api/rest/middleware"
	"filelink-api/internal/interface/api/rest/validator"
)

type FileController struct {
	fileService ports.FileService
	logger      *zap.Logger
}

func NewFileController(
	r *gin.Engine,
	fileService ports.FileService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *FileController {
	fc := &FileController{
		fileService: fileService,
		logger:      logger,
	}

	auth := middleware.AuthMiddleware(jwtService)

	r.GET(RouteLanding, fc.LandingHandler)
	r.GET(RouteFile, fc.GetFileHandler)
	r.POST(RouteFiles, auth, fc.UploadHandler)
	r.GET(RouteFileLink, auth, fc.LinkHandler)
	r.POST(RouteFileDownloads, auth, fc.DownloadHandler)
	r.DELETE(RouteFile, auth, middleware.RequireRole(services.RoleAdmin), fc.DeleteFileHandler)
	r.GET(RouteUserFiles, auth, fc.GetUserFilesHandler)

	return fc
}

func (fc *FileController) fileID(c *gin.Context) (string, bool) {
	id := c.Param("file_id")
	if !validator.IsFileID(id) {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": validator.ErrInvalidFileID.Error()},
		)
		return "", false
	}
	return id, true
}

func (fc *FileController) UploadHandler(c *gin.Context) {
	var req dtofile.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateUpload(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	links, err := fc.fileService.Upload(c.Request.Context(), userIDOf(req.UserID), dtofile.ToDomainUpload(req))
	if err != nil {
		respondError(c, fc.logger, "Upload()", err)
		return
	}

	c.JSON(http.StatusCreated, dtofile.ToResponseLinks(*links))
}

func (fc *FileController) GetFileHandler(c *gin.Context) {
	id, ok := fc.fileID(c)
	if !ok {
		return
	}

	f, err := fc.fileService.GetFile(c.Request.Context(), id)
	if err != nil {
		respondError(c, fc.logger, "GetFile()", err)
		return
	}

	c.JSON(http.StatusOK, dtofile.ToResponseFile(*f))
}

// LinkHandler is link retrieval for the requesting user given in ?user_id.
func (fc *FileController) LinkHandler(c *gin.Context) {
	id, ok := fc.fileID(c)
	if !ok {
		return
	}
	requester, err := validator.ParseUserID(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	links, err := fc.fileService.RetrieveLink(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, fc.logger, "RetrieveLink()", err)
		return
	}

	c.JSON(http.StatusOK, dtofile.ToResponseLinks(*links))
}

func (fc *FileController) DownloadHandler(c *gin.Context) {
	id, ok := fc.fileID(c)
	if !ok {
		return
	}

	var req dtofile.DownloadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}
	}

	count, err := fc.fileService.RecordDownload(c.Request.Context(), id, userIDOf(req.UserID))
	if err != nil {
		respondError(c, fc.logger, "RecordDownload()", err)
		return
	}

	c.JSON(http.StatusOK, dtofile.DownloadResponse{FileID: id, DownloadCount: count})
}

func (fc *FileController) DeleteFileHandler(c *gin.Context) {
	id, ok := fc.fileID(c)
	if !ok {
		return
	}

	if err := fc.fileService.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, fc.logger, "SoftDelete()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (fc *FileController) GetUserFilesHandler(c *gin.Context) {
	owner, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files, err := fc.fileService.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondError(c, fc.logger, "ListByOwner()", err)
		return
	}

	c.JSON(http.StatusOK, dtofile.ResponseData{
		Data: dtofile.ToResponseFiles(files),
	})
}

// LandingHandler serves the timed redirect page for a file.
func (fc *FileController) LandingHandler(c *gin.Context) {
	id, ok := fc.fileID(c)
	if !ok {
		return
	}

	page, err := fc.fileService.BuildLandingPage(c.Request.Context(), id, fc.fileService.Handle())
	if err != nil {
		respondError(c, fc.logger, "BuildLandingPage()", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
