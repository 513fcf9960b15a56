// Package common holds what every handler package shares: the service
// dependencies, paging and path parameters, and multipart uploads.
package common

import (
	"mime/multipart"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/pkg/errors"

	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/utils"
)

// Deps is set once at startup, before the server accepts requests.
var Deps *deps.Deps

// Limits caps multipart uploads, in bytes.
var Limits = struct {
	Video int64
	Image int64
}{Video: 512 << 20, Image: 8 << 20}

// Page reads ?page= and ?limit=, defaulting to the first page of ten and
// capping the size.
func Page(c *app.RequestContext) (compose.PageRequest, error) {
	page := utils.ConvertStringToIntDefault(c.Query("page"), constants.DefaultPageNum)
	limit := utils.ConvertStringToIntDefault(c.Query("limit"), constants.DefaultPageSize)
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	return compose.NewPageRequest(page, limit)
}

// PathID parses a reference from the route parameter name.
func PathID(c *app.RequestContext, name string) (int64, error) {
	id, err := compose.ParseRef(c.Param(name))
	if err != nil {
		return 0, errno.ParamErr.WithMessage("invalid " + name)
	}
	return id, nil
}

// Upload opens the multipart file field. It returns nil without error when
// the request is not multipart or the field is absent. The caller closes the
// returned file.
func Upload(c *app.RequestContext, field string, maxSize int64) (*oss.Upload, multipart.File, error) {
	if !strings.HasPrefix(string(c.ContentType()), "multipart/form-data") {
		return nil, nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, errno.ParamErr.WithMessage("multipart form expected")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil, nil
	}
	fh := files[0]
	if maxSize > 0 && fh.Size > maxSize {
		return nil, nil, errno.ParamErr.WithMessage(field + " is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open upload %s", field)
	}
	return &oss.Upload{Body: f, Size: fh.Size, ContentType: fh.Header.Get("Content-Type")}, f, nil
}

// Close closes every non nil file.
func Close(files ...multipart.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}
