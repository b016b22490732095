// Package request holds helpers shared by the API and page handlers for
// reading request bodies.
package request

import (
	"fmt"
	"io"
	"mime/multipart"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
	"interview-tayari/pkg/security"

	"github.com/gin-gonic/gin"
)

// MaxMultipartMemory bounds the in-memory part of multipart forms: one
// verification screenshot plus per-question files.
const MaxMultipartMemory = 32 << 20

// Attachment reads the uploaded file of field. It returns nil without error
// when the field is absent or empty.
func Attachment(c *gin.Context, field string) (*domain.Attachment, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, nil
	}
	return ReadFile(fh)
}

// ReadFile loads fh into memory, rejecting files over the image size limit.
func ReadFile(fh *multipart.FileHeader) (*domain.Attachment, error) {
	if fh.Size > security.MaxImageSize {
		return nil, apperror.BadRequest("File size must be less than 5MB")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("Could not read %s", fh.Filename))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, security.MaxImageSize+1))
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("Could not read %s", fh.Filename))
	}
	if len(data) > security.MaxImageSize {
		return nil, apperror.BadRequest("File size must be less than 5MB")
	}

	return &domain.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
