package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	perfumeImageFolder   = "perfumes"
	profilePictureFolder = "profile_pictures"
	maxImageUploadBytes  = 5 << 20
	imageDeleteTimeout   = 30 * time.Second
)

var errImagesDisabled = errors.New("image uploads are not configured")

// imageStore hosts uploaded images and returns their public URL.
type imageStore interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error)
	Delete(ctx context.Context, photoURL string) error
}

type cloudinaryImages struct {
	cld *cloudinary.Cloudinary
}

func (c *cloudinaryImages) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		Overwrite:      api.Bool(true),
		Transformation: "c_limit,w_1200,q_auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (c *cloudinaryImages) Delete(ctx context.Context, photoURL string) error {
	publicID, err := extractPublicIDFromURL(photoURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	_, err = c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo from Cloudinary: %w", err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// extractPublicIDFromURL turns
// https://res.cloudinary.com/<cloud>/image/upload/<transformations>/v123/folder/name.jpg
// into folder/name.
func extractPublicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part != "upload" || i+1 >= len(pathParts) {
			continue
		}
		rest := pathParts[i+1:]
		for j, seg := range rest {
			if versionSegment.MatchString(seg) {
				rest = rest[j+1:]
				break
			}
		}
		if len(rest) == 0 {
			break
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id)), nil
	}

	return "", errors.New("failed to extract public ID from URL")
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// readImageUpload returns the image sent in the multipart form field.
// The caller closes the returned file.
func readImageUpload(w http.ResponseWriter, r *http.Request, field string) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		return nil, fmt.Errorf("unable to parse form, file size limit is %dMB", maxImageUploadBytes>>20)
	}

	file, fileHeader, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %q file", field)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		file.Close()
		return nil, fmt.Errorf("only JPEG, PNG and WebP images are allowed")
	}
	return file, nil
}
