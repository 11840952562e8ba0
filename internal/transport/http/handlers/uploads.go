package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// UploadHandler exposes file upload endpoints for avatars, logos, and
// report attachments.
type UploadHandler struct {
	uploads *usecase.UploadService
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(uploads *usecase.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// RegisterRoutes binds upload routes. All require authentication.
func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads/avatar", h.uploadAvatar)
	r.POST("/uploads/logo", h.uploadLogo)
	r.POST("/uploads/attachment", h.uploadAttachment)
}

var uploadErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrUnauthorized, Status: http.StatusUnauthorized, Message: "authentication required"},
	{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
	{Err: usecase.ErrUploadFailed, Status: http.StatusBadGateway, Message: "upload failed"},
}

type uploadFn func(c *gin.Context, data []byte, contentType, fileName string) (string, error)

func (h *UploadHandler) handleUpload(c *gin.Context, fn uploadFn) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "missing file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unreadable file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unreadable file"))
		return
	}

	url, err := fn(c, data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		RespondWithMappedError(c, err, uploadErrorCases, http.StatusInternalServerError, "upload failed")
		return
	}

	c.JSON(http.StatusOK, UploadResponse{URL: url})
}

func (h *UploadHandler) uploadAvatar(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	h.handleUpload(c, func(c *gin.Context, data []byte, contentType, fileName string) (string, error) {
		return h.uploads.UploadAvatar(c.Request.Context(), principal, data, contentType, fileName)
	})
}

func (h *UploadHandler) uploadLogo(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	h.handleUpload(c, func(c *gin.Context, data []byte, contentType, fileName string) (string, error) {
		return h.uploads.UploadLogo(c.Request.Context(), principal, data, contentType, fileName)
	})
}

func (h *UploadHandler) uploadAttachment(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	h.handleUpload(c, func(c *gin.Context, data []byte, contentType, fileName string) (string, error) {
		return h.uploads.UploadAttachment(c.Request.Context(), principal, data, contentType, fileName)
	})
}
