package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	ErrRecordNotFound     = errors.New("record not found")
	ErrRecordAccessDenied = errors.New("you do not have access to this record")
	ErrEmptyFile          = errors.New("uploaded file is empty")
)

type RecordUsecase interface {
	Upload(ctx context.Context, patientID uuid.UUID, req *dto.UploadRecordRequest, file []byte, fileType string) (*dto.RecordResponse, error)
	List(ctx context.Context, patientID uuid.UUID) (*dto.RecordListResponse, error)

	// Get returns the record when the requester owns it or it was shared
	// with them.
	Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.RecordResponse, error)

	Delete(ctx context.Context, patientID uuid.UUID, id uuid.UUID) error
	Share(ctx context.Context, patientID uuid.UUID, recordID uuid.UUID, doctorBMDCID string) (*dto.RecordResponse, error)
	Unshare(ctx context.Context, patientID uuid.UUID, recordID uuid.UUID, doctorBMDCID string) (*dto.RecordResponse, error)
}

type recordUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	recordRepo   repository.RecordRepository
	userRepo     repository.UserRepository
	storage      service.FileStorage
	auditService service.AuditService
}

func NewRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.RecordRepository,
	userRepo repository.UserRepository,
	storage service.FileStorage,
	auditService service.AuditService,
) RecordUsecase {
	return &recordUsecase{
		db:           db,
		log:          log,
		recordRepo:   recordRepo,
		userRepo:     userRepo,
		storage:      storage,
		auditService: auditService,
	}
}

func (u *recordUsecase) Upload(ctx context.Context, patientID uuid.UUID, req *dto.UploadRecordRequest, file []byte, fileType string) (*dto.RecordResponse, error) {
	if len(file) == 0 {
		return nil, ErrEmptyFile
	}
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

	folder := fmt.Sprintf("bodyid/%s/records", *patient.BodyID)
	uploaded, err := u.storage.Upload(ctx, file, folder)
	if err != nil {
		u.log.Warnf("Failed to upload record file: %+v", err)
		return nil, err
	}

	record := &entity.Record{
		PatientID:    patientID,
		Title:        req.Title,
		Description:  req.Description,
		FileURL:      uploaded.URL,
		FilePublicID: uploaded.PublicID,
		FileType:     fileType,
		Tags:         parseTags(req.Tags),
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.recordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create record: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &patientID, entity.AuditActionRecordUpload, entity.JSON{
		"record_id": record.ID.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.RecordToResponse(record), nil
}

func (u *recordUsecase) List(ctx context.Context, patientID uuid.UUID) (*dto.RecordListResponse, error) {
	records, err := u.recordRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list records: %+v", err)
		return nil, err
	}

	return &dto.RecordListResponse{
		Records: converter.RecordsToResponses(records),
		Total:   len(records),
	}, nil
}

func (u *recordUsecase) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.RecordResponse, error) {
	record, err := u.recordRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	if record.PatientID != userID && !record.SharedWithUser(userID) {
		return nil, ErrRecordAccessDenied
	}

	return converter.RecordToResponse(record), nil
}

func (u *recordUsecase) Delete(ctx context.Context, patientID uuid.UUID, id uuid.UUID) error {
	record, err := u.recordRepo.FindByIDAndPatient(u.db.WithContext(ctx), id, patientID)
	if err != nil {
		u.log.Warnf("Failed to find record: %+v", err)
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}

	if err := u.recordRepo.Delete(u.db.WithContext(ctx), record.ID); err != nil {
		u.log.Warnf("Failed to delete record: %+v", err)
		return err
	}

	// The database row is the source of truth; a stranded blob is only noise.
	if u.storage != nil && record.FilePublicID != "" {
		if err := u.storage.Destroy(ctx, record.FilePublicID); err != nil {
			u.log.Warnf("Failed to delete stored file %s: %+v", record.FilePublicID, err)
		}
	}

	return nil
}

func (u *recordUsecase) Share(ctx context.Context, patientID uuid.UUID, recordID uuid.UUID, doctorBMDCID string) (*dto.RecordResponse, error) {
	record, doctor, err := u.findRecordAndDoctor(ctx, patientID, recordID, doctorBMDCID)
	if err != nil {
		return nil, err
	}

	if !record.SharedWithUser(doctor.ID) {
		// Association.Append also attaches the doctor to record.SharedWith.
		if err := u.recordRepo.AddShare(u.db.WithContext(ctx), record, doctor); err != nil {
			u.log.Warnf("Failed to share record: %+v", err)
			return nil, err
		}
	}

	u.auditService.Log(u.db.WithContext(ctx), &patientID, entity.AuditActionRecordShare, entity.JSON{
		"record_id": record.ID.String(),
		"doctor_id": doctor.ID.String(),
	})

	return converter.RecordToResponse(record), nil
}

func (u *recordUsecase) Unshare(ctx context.Context, patientID uuid.UUID, recordID uuid.UUID, doctorBMDCID string) (*dto.RecordResponse, error) {
	record, doctor, err := u.findRecordAndDoctor(ctx, patientID, recordID, doctorBMDCID)
	if err != nil {
		return nil, err
	}

	if err := u.recordRepo.RemoveShare(u.db.WithContext(ctx), record, doctor); err != nil {
		u.log.Warnf("Failed to unshare record: %+v", err)
		return nil, err
	}

	remaining := record.SharedWith[:0]
	for _, shared := range record.SharedWith {
		if shared.ID != doctor.ID {
			remaining = append(remaining, shared)
		}
	}
	record.SharedWith = remaining

	return converter.RecordToResponse(record), nil
}

func (u *recordUsecase) findRecordAndDoctor(ctx context.Context, patientID, recordID uuid.UUID, doctorBMDCID string) (*entity.Record, *entity.User, error) {
	record, err := u.recordRepo.FindByIDAndPatient(u.db.WithContext(ctx), recordID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find record: %+v", err)
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, ErrRecordNotFound
	}

	doctor, err := u.userRepo.FindDoctorByBMDC(u.db.WithContext(ctx), doctorBMDCID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by BMDC: %+v", err)
		return nil, nil, err
	}
	if doctor == nil {
		return nil, nil, ErrDoctorNotFound
	}

	return record, doctor, nil
}

func parseTags(raw string) entity.StringList {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tags entity.StringList
	for _, tag := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
