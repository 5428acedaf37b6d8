package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/IshratJahanEkra/BodyId/internal/converter"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/domain/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrHistoryNotFound = errors.New("medical history not found")
	ErrEmptyHistory    = errors.New("history needs a description or a file")
)

type HistoryUsecase interface {
	// Upload stores a history entry. The file is optional: a description-only
	// entry is valid, as is a bare document.
	Upload(ctx context.Context, patientID uuid.UUID, req *dto.UploadHistoryRequest, file []byte) (*dto.HistoryResponse, error)

	List(ctx context.Context, patientID uuid.UUID) (*dto.HistoryListResponse, error)
	Get(ctx context.Context, patientID uuid.UUID, id uuid.UUID) (*dto.HistoryResponse, error)
}

type historyUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	historyRepo repository.HistoryRepository
	userRepo    repository.UserRepository
	storage     service.FileStorage
}

func NewHistoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	historyRepo repository.HistoryRepository,
	userRepo repository.UserRepository,
	storage service.FileStorage,
) HistoryUsecase {
	return &historyUsecase{
		db:          db,
		log:         log,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		storage:     storage,
	}
}

func (u *historyUsecase) Upload(ctx context.Context, patientID uuid.UUID, req *dto.UploadHistoryRequest, file []byte) (*dto.HistoryResponse, error) {
	if req.Description == "" && len(file) == 0 {
		return nil, ErrEmptyHistory
	}

	history := &entity.MedicalHistory{
		PatientID:   patientID,
		Description: req.Description,
	}

	if len(file) > 0 {
		if u.storage == nil {
			return nil, service.ErrStorageNotConfigured
		}

		patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), patientID)
		if err != nil {
			u.log.Warnf("Failed to find patient: %+v", err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrUserNotFound
		}
		if patient.BodyID == nil {
			return nil, ErrPatientProfileIncomplete
		}

		folder := fmt.Sprintf("bodyid/%s/history", *patient.BodyID)
		uploaded, err := u.storage.Upload(ctx, file, folder)
		if err != nil {
			u.log.Warnf("Failed to upload history file: %+v", err)
			return nil, err
		}
		history.FileURL = uploaded.URL
	}

	if err := u.historyRepo.Create(u.db.WithContext(ctx), history); err != nil {
		u.log.Warnf("Failed to create medical history: %+v", err)
		return nil, err
	}

	return converter.HistoryToResponse(history), nil
}

func (u *historyUsecase) List(ctx context.Context, patientID uuid.UUID) (*dto.HistoryListResponse, error) {
	histories, err := u.historyRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list medical histories: %+v", err)
		return nil, err
	}

	return &dto.HistoryListResponse{
		Histories: converter.HistoriesToResponses(histories),
		Total:     len(histories),
	}, nil
}

func (u *historyUsecase) Get(ctx context.Context, patientID uuid.UUID, id uuid.UUID) (*dto.HistoryResponse, error) {
	history, err := u.historyRepo.FindByIDAndPatient(u.db.WithContext(ctx), id, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical history: %+v", err)
		return nil, err
	}
	if history == nil {
		return nil, ErrHistoryNotFound
	}

	return converter.HistoryToResponse(history), nil
}
