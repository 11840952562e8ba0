package upload

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/infra/config"
)

// CloudinaryClient uploads files to Cloudinary via unsigned upload presets
// and implements port.UploadSink.
type CloudinaryClient struct {
	httpClient *resty.Client
	cfg        config.UploadSettings
	logger     *zap.Logger
}

// NewCloudinaryClient constructs an upload client for the configured cloud.
func NewCloudinaryClient(cfg config.UploadSettings, logger *zap.Logger) (*CloudinaryClient, error) {
	if cfg.CloudName == "" {
		return nil, fmt.Errorf("upload: cloud_name is required")
	}
	if cfg.UploadPreset == "" {
		return nil, fmt.Errorf("upload: upload_preset is required")
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)

	return &CloudinaryClient{
		httpClient: client,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file as a multipart form and returns the hosted URL.
func (c *CloudinaryClient) Upload(ctx context.Context, data []byte, contentType, folder, publicID string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("upload: empty file")
	}
	if c.cfg.MaxFileBytes > 0 && int64(len(data)) > c.cfg.MaxFileBytes {
		return "", fmt.Errorf("upload: file exceeds %d bytes", c.cfg.MaxFileBytes)
	}

	endpoint := fmt.Sprintf("%s/%s/auto/upload", c.cfg.BaseURL, c.cfg.CloudName)

	var result uploadResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", publicID, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"upload_preset": c.cfg.UploadPreset,
			"folder":        folder,
			"public_id":     publicID,
		}).
		SetResult(&result).
		SetError(&result).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}

	if resp.IsError() {
		if result.Error.Message != "" {
			return "", fmt.Errorf("upload rejected: %s", result.Error.Message)
		}
		return "", fmt.Errorf("upload rejected: status %d", resp.StatusCode())
	}

	if result.SecureURL == "" {
		return "", fmt.Errorf("upload: response missing secure_url")
	}

	c.logger.Debug("file uploaded",
		zap.String("folder", folder),
		zap.String("public_id", result.PublicID),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)),
	)

	return result.SecureURL, nil
}

var _ port.UploadSink = (*CloudinaryClient)(nil)
