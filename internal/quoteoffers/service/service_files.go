package service

import (
	"context"
	"time"

	"quoteoffer_backend/internal/events"
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/transport"
	"quoteoffer_backend/internal/storage"
	"quoteoffer_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgStorageDisabled = "file storage is not configured"

// SetStorage injects the object storage backend and target bucket for
// offer attachments.
func (s *Service) SetStorage(svc storage.StorageService, bucket string) {
	s.storage = svc
	s.bucket = bucket
}

// PresignUpload returns a presigned PUT URL for a new attachment. The offer
// must exist; attachments are allowed in every lifecycle state.
func (s *Service) PresignUpload(ctx context.Context, offerID string, req transport.PresignUploadRequest) (*transport.PresignUploadResponse, error) {
	if s.storage == nil {
		return nil, apperr.Internal(msgStorageDisabled)
	}
	if _, err := s.store.GetByID(ctx, offerID); err != nil {
		return nil, err
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, s.bucket, offerID, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, err.Error(), err)
	}

	return &transport.PresignUploadResponse{
		UploadURL: presigned.URL,
		ObjectKey: presigned.FileKey,
		ExpiresIn: int(time.Until(presigned.ExpiresAt).Seconds()),
	}, nil
}

// ConfirmAttachment registers an uploaded object on the offer.
func (s *Service) ConfirmAttachment(ctx context.Context, offerID string, req transport.ConfirmAttachmentRequest) (*repository.QuoteOffer, error) {
	offer, err := s.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	file := repository.AttachedFile{
		ID:          uuid.New().String(),
		FileName:    req.FileName,
		ObjectKey:   req.ObjectKey,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedAt:  time.Now().UTC(),
	}
	offer.Files = append(offer.Files, file)
	offer.UpdatedAt = file.UploadedAt

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.publish(ctx, events.FileAttached{
		BaseEvent: events.NewBaseEvent(),
		OfferID:   offer.ID,
		FileID:    file.ID,
		FileName:  file.FileName,
		SizeBytes: file.SizeBytes,
	})

	return offer, nil
}

// FileDownloadURL returns a presigned GET URL for an existing attachment.
func (s *Service) FileDownloadURL(ctx context.Context, offerID, fileID string) (*transport.DownloadURLResponse, error) {
	if s.storage == nil {
		return nil, apperr.Internal(msgStorageDisabled)
	}

	offer, err := s.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	file := findFile(offer, fileID)
	if file == nil {
		return nil, apperr.NotFound("attachment not found")
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, file.ObjectKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to generate download URL", err)
	}

	return &transport.DownloadURLResponse{
		DownloadURL: presigned.URL,
		ExpiresIn:   int(time.Until(presigned.ExpiresAt).Seconds()),
	}, nil
}

// RemoveFile deletes the stored object and unlinks it from the offer.
// The object delete runs first; if unlinking then fails the attachment record
// keeps pointing at a missing object, which a later delete retry clears.
func (s *Service) RemoveFile(ctx context.Context, offerID, fileID string) (*repository.QuoteOffer, error) {
	offer, err := s.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	file := findFile(offer, fileID)
	if file == nil {
		return nil, apperr.NotFound("attachment not found")
	}

	if s.storage != nil {
		if err := s.storage.DeleteObject(ctx, s.bucket, file.ObjectKey); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to delete stored object", err)
		}
	}

	kept := offer.Files[:0]
	for _, f := range offer.Files {
		if f.ID != fileID {
			kept = append(kept, f)
		}
	}
	offer.Files = kept
	offer.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func findFile(offer *repository.QuoteOffer, fileID string) *repository.AttachedFile {
	for i := range offer.Files {
		if offer.Files[i].ID == fileID {
			return &offer.Files[i]
		}
	}
	return nil
}
