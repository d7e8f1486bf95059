package media

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/config"
)

// MediaService signs direct-to-Cloudinary uploads and destroys assets when
// their item goes away. Clients upload straight to Cloudinary with the
// signed parameters; the API never proxies image bytes.
type MediaService struct {
	cfg *config.Config
	cld *cloudinary.Cloudinary
}

func NewMediaService(cfg *config.Config) (*MediaService, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryConfig.CloudName,
		cfg.CloudinaryConfig.APIKey,
		cfg.CloudinaryConfig.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &MediaService{cfg: cfg, cld: cld}, nil
}

// UploadParams returns the signed parameter set for one direct upload.
func (s *MediaService) UploadParams(c fiber.Ctx) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("upload_preset", s.cfg.CloudinaryConfig.UploadPreset)

	signature, err := api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
	if err != nil {
		return apperr.Internal(err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"timestamp":     timestamp,
		"signature":     signature,
		"api_key":       s.cfg.CloudinaryConfig.APIKey,
		"cloud_name":    s.cfg.CloudinaryConfig.CloudName,
		"upload_preset": s.cfg.CloudinaryConfig.UploadPreset,
	})
}

// DestroyImages removes the assets behind the given delivery URLs. Best
// effort: failures are logged and never surfaced to the caller.
func (s *MediaService) DestroyImages(ctx context.Context, urls []string) {
	for _, u := range urls {
		publicID := publicIDFromURL(u)
		if publicID == "" {
			continue
		}
		if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
			log.Printf("cloudinary destroy %s: %v", publicID, err)
		}
	}
}

// publicIDFromURL extracts the public id from a Cloudinary delivery URL:
// everything after /upload/, minus the version segment and the extension.
func publicIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	_, after, ok := strings.Cut(u.Path, "/upload/")
	if !ok {
		return ""
	}

	parts := strings.Split(after, "/")
	for len(parts) > 1 && (isVersionSegment(parts[0]) || strings.Contains(parts[0], ",")) {
		parts = parts[1:]
	}

	id := strings.Join(parts, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
