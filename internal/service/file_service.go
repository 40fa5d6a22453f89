package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/mapper"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService handles file attachments on work orders. Bytes go to the
// configured storage backend, metadata to the database.
type FileService struct {
	fileRepo  *repository.WorkOrderFileRepository
	orderRepo *repository.WorkOrderRepository
	storage   storage.Storage
	logger    *zap.Logger
}

func NewFileService(
	fileRepo *repository.WorkOrderFileRepository,
	orderRepo *repository.WorkOrderRepository,
	storage storage.Storage,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		orderRepo: orderRepo,
		storage:   storage,
		logger:    logger,
	}
}

func (s *FileService) Upload(ctx context.Context, workOrderID uuid.UUID, fileName, contentType string, fileType domain.WorkOrderFileType, uploadedBy string, data io.Reader) (*domain.WorkOrderFileDTO, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if fileType == "" {
		fileType = domain.FileTypeOther
	}
	if !fileType.IsValid() {
		return nil, fmt.Errorf("%w: unknown file type %q", ErrInvalidInput, fileType)
	}

	if _, err := s.orderRepo.GetByID(ctx, workOrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	storagePath, size, err := s.storage.Upload(ctx, fileName, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &domain.WorkOrderFile{
		WorkOrderID: workOrderID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		FileType:    fileType,
		UploadedBy:  uploadedBy,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Metadata write failed; don't leave an orphaned blob behind.
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up stored file after metadata error",
				zap.String("storage_path", storagePath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", file.ID.String()),
		zap.String("work_order_id", workOrderID.String()),
		zap.String("file_name", fileName),
		zap.Int64("size", size))

	dto := mapper.ToWorkOrderFileDTO(file)
	return &dto, nil
}

// Download returns the file metadata and a reader over its content.
// The caller is responsible for closing the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.WorkOrderFile, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}

	return file, reader, nil
}

func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	// Delete from storage first; a stale metadata row is worse than an
	// orphaned blob.
	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storage_path", file.StoragePath),
			zap.Error(err))
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}

	s.logger.Info("file deleted",
		zap.String("file_id", id.String()),
		zap.String("work_order_id", file.WorkOrderID.String()))

	return nil
}

func (s *FileService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.WorkOrderFileDTO, error) {
	if _, err := s.orderRepo.GetByID(ctx, workOrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	files, err := s.fileRepo.ListByWorkOrderID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.WorkOrderFileDTO, len(files))
	for i, file := range files {
		dtos[i] = mapper.ToWorkOrderFileDTO(&file)
	}
	return dtos, nil
}
