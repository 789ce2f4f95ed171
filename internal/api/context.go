package api

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Amaytushin/Ratatouille-tusul/internal/middleware"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

// callerFrom returns the identity set by the auth middleware, or nil.
func callerFrom(c *gin.Context) *service.Caller {
	userID, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &service.Caller{UserID: userID, IsStaff: middleware.IsStaff(c)}
}

func presenterFor(c *gin.Context, images types.ImageURLer) *types.Presenter {
	return types.NewPresenter(images, types.NewRequestContext(c.Request))
}

// idParam parses the :id path parameter, replying 400 when it is not a
// positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: "id must be a positive integer", Code: CodeValidation})
		return 0, false
	}
	return uint(id), true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formUpload opens the named file part. It returns nil when the part is
// absent; the caller closes the returned closer.
func formUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*service.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	upload := &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return upload, func() { file.Close() }, nil
}

// protect prepends the guard chain to a handler.
func protect(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, h)
}
