// Package media stores listing photos on Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrDisabled = errors.New("image storage is not configured")

type Asset struct {
	PublicID string
	URL      string
	Width    int
	Height   int
	Bytes    int
}

type Store interface {
	Upload(ctx context.Context, folder string, file io.Reader) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string // root folder, e.g. "zillowlike"
}

type cloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cfg Config) (Store, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("creating cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, folder string, file io.Reader) (*Asset, error) {
	if s.folder != "" {
		folder = s.folder + "/" + folder
	}
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	slog.DebugContext(ctx, "image uploaded", "public_id", resp.PublicID, "bytes", resp.Bytes)
	return &Asset{
		PublicID: resp.PublicID,
		URL:      resp.SecureURL,
		Width:    resp.Width,
		Height:   resp.Height,
		Bytes:    resp.Bytes,
	}, nil
}

// Destroy treats an already-missing asset as success.
func (s *cloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Result)
	}
	return nil
}

type disabledStore struct{}

// NewDisabled returns a Store whose every call fails with ErrDisabled.
func NewDisabled() Store {
	return disabledStore{}
}

func (disabledStore) Upload(context.Context, string, io.Reader) (*Asset, error) {
	return nil, ErrDisabled
}

func (disabledStore) Destroy(context.Context, string) error {
	return ErrDisabled
}
