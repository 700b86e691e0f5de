package media_storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/foliolab/folio-api/internal/application/service"
	"github.com/foliolab/folio-api/internal/config"
)

// cloudinaryRelocator stores profile media in two areas of one Cloudinary
// account: privateRoot for owned originals and publicRoot for published
// copies. References held by profiles are storage paths, never delivery URLs.
type cloudinaryRelocator struct {
	cld         *cloudinary.Cloudinary
	httpClient  *http.Client
	privateRoot string
	publicRoot  string
}

func NewCloudinaryRelocator(cfg config.Config) (service.Relocator, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Println("connect Cloudinary successfully.")
	return &cloudinaryRelocator{
		cld:         cld,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		privateRoot: cfg.Cloudinary.PrivateRoot,
		publicRoot:  cfg.Cloudinary.PublicRoot,
	}, nil
}

func (a *cloudinaryRelocator) Relocate(ctx context.Context, url string, pathPrefix string, filename string) (string, error) {
	body, err := a.open(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	folder := fmt.Sprintf("%s/%s", a.privateRoot, pathPrefix)
	_, err = a.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:  filename,
		Folder:    folder,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	return fmt.Sprintf("%s/%s", folder, filename), nil
}

func (a *cloudinaryRelocator) Promote(ctx context.Context, path string) (string, error) {
	srcURL, err := a.deliveryURL(path)
	if err != nil {
		return "", err
	}

	rel := strings.TrimPrefix(path, a.privateRoot+"/")
	publicID := fmt.Sprintf("%s/%s", a.publicRoot, rel)
	_, err = a.cld.Upload.Upload(ctx, srcURL, uploader.UploadParams{
		PublicID:  publicID,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to promote cloudinary asset: %w", err)
	}
	return publicID, nil
}

func (a *cloudinaryRelocator) DeleteFolder(ctx context.Context, prefix string) error {
	return a.deleteByPrefix(ctx, fmt.Sprintf("%s/%s", a.privateRoot, prefix))
}

func (a *cloudinaryRelocator) DeletePublicFolder(ctx context.Context, prefix string) error {
	return a.deleteByPrefix(ctx, fmt.Sprintf("%s/%s", a.publicRoot, prefix))
}

func (a *cloudinaryRelocator) deleteByPrefix(ctx context.Context, prefix string) error {
	_, err := a.cld.Admin.DeleteAssetsByPrefix(ctx, admin.DeleteAssetsByPrefixParams{
		Prefix: api.CldAPIArray{prefix},
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary prefix %s: %w", prefix, err)
	}
	return nil
}

// open yields the source bytes for a relocation. A remote URL is downloaded;
// an internal storage path is resolved to its delivery URL first, which
// covers re-homing guest media during a transfer.
func (a *cloudinaryRelocator) open(ctx context.Context, src string) (io.ReadCloser, error) {
	url := src
	if !strings.HasPrefix(src, "http") {
		resolved, err := a.deliveryURL(src)
		if err != nil {
			return nil, err
		}
		url = resolved
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("media download returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (a *cloudinaryRelocator) deliveryURL(path string) (string, error) {
	img, err := a.cld.Image(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve asset %s: %w", path, err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build delivery url for %s: %w", path, err)
	}
	return url, nil
}
