package services

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
)

// MaxImageSize is the per-file cap for avatars and review photos.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Image is a validated upload ready to be handed to a FileStore.
type Image struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// OpenImage checks size, extension and sniffed content type of an
// uploaded file and assigns it a random name.
func OpenImage(header *multipart.FileHeader) (*Image, error) {
	if header.Size > MaxImageSize {
		return nil, apperrors.BadRequest("File too large (max 5MB)")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	wantType, ok := allowedImageTypes[ext]
	if !ok {
		return nil, apperrors.BadRequest("Only .jpg, .jpeg and .png images are allowed")
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, apperrors.BadRequest("File too large (max 5MB)")
	}
	if http.DetectContentType(data) != wantType {
		return nil, apperrors.BadRequest("File content does not match its extension")
	}

	return &Image{
		Name:        uuid.NewString() + ext,
		ContentType: wantType,
		Body:        bytes.NewReader(data),
	}, nil
}
