package service

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
	"github.com/kenijima/chainmark/internal/repository"
)

// Watermarker applies the watermark to raw image bytes and returns the
// watermarked image and the extracted watermark, both base64-encoded.
type Watermarker interface {
	Apply(ctx context.Context, imageBytes []byte) (watermarked, mark string, err error)
}

// Pinner is the content store the pipeline writes to and reads from.
type Pinner interface {
	PinBase64(ctx context.Context, base64Data string) (string, error)
	CatAsBase64(ctx context.Context, cid string) (string, error)
}

// ImageService runs the submission pipeline: watermark, pin, record.
type ImageService struct {
	users      repository.UserRepository
	images     repository.ImageRepository
	watermarks Watermarker
	store      Pinner
	logger     *zap.Logger
}

func NewImageService(users repository.UserRepository, images repository.ImageRepository, watermarks Watermarker, store Pinner, logger *zap.Logger) *ImageService {
	return &ImageService{users: users, images: images, watermarks: watermarks, store: store, logger: logger}
}

// Submit watermarks the image, pins the watermarked copy and records
// the submission against the user. A failure after pinning leaves the
// content pinned but unrecorded; pins are never rolled back.
func (s *ImageService) Submit(ctx context.Context, username, base64Image string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(base64Image)
	if err != nil {
		return "", apperr.DecodeBytes(err)
	}

	watermarked, mark, err := s.watermarks.Apply(ctx, raw)
	if err != nil {
		return "", err
	}

	cid, err := s.store.PinBase64(ctx, watermarked)
	if err != nil {
		return "", err
	}

	user, err := s.users.SelectByUsername(username)
	if err != nil {
		return "", apperr.Database(err)
	}
	if user == nil {
		return "", apperr.UserNotFound()
	}

	if err := s.images.RecordSubmission(ctx, user.ID, cid, mark); err != nil {
		return "", apperr.Database(err)
	}

	s.logger.Info("Image submitted",
		zap.String("username", username),
		zap.String("cid", cid))

	return cid, nil
}

// Fetch returns the pinned content as base64.
func (s *ImageService) Fetch(ctx context.Context, cid string) (string, error) {
	return s.store.CatAsBase64(ctx, cid)
}
