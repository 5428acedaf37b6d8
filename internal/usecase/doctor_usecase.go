package usecase

import (
	"context"
	"errors"

	"github.com/IshratJahanEkra/BodyId/internal/converter"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound   = errors.New("no patient found for this body ID")
	ErrNoSharedTreatment = errors.New("you have no appointment with this patient")
)

type DoctorUsecase interface {
	// GetPatientRecords resolves a patient by body ID and returns the records
	// visible to the doctor. Requires at least one appointment between the
	// two, regardless of its status.
	GetPatientRecords(ctx context.Context, doctorID uuid.UUID, bodyID string) (*dto.PatientRecordsResponse, error)

	// ListSharedRecords lists records any patient has shared with the doctor.
	ListSharedRecords(ctx context.Context, doctorID uuid.UUID) (*dto.RecordListResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	recordRepo      repository.RecordRepository
	historyRepo     repository.HistoryRepository
	appointmentRepo repository.AppointmentRepository
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	recordRepo repository.RecordRepository,
	historyRepo repository.HistoryRepository,
	appointmentRepo repository.AppointmentRepository,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		recordRepo:      recordRepo,
		historyRepo:     historyRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (u *doctorUsecase) GetPatientRecords(ctx context.Context, doctorID uuid.UUID, bodyID string) (*dto.PatientRecordsResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.userRepo.FindPatientByBodyID(db, bodyID)
	if err != nil {
		u.log.Warnf("Failed to find patient by body ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	treated, err := u.appointmentRepo.ExistsForDoctorAndPatient(db, doctorID, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to check treatment relationship: %+v", err)
		return nil, err
	}
	if !treated {
		return nil, ErrNoSharedTreatment
	}

	records, err := u.recordRepo.FindSharedWith(db, doctorID, &patient.ID)
	if err != nil {
		u.log.Warnf("Failed to load shared records: %+v", err)
		return nil, err
	}

	histories, err := u.historyRepo.FindByPatientID(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to load patient histories: %+v", err)
		return nil, err
	}

	return &dto.PatientRecordsResponse{
		Patient:   *converter.UserToResponse(patient),
		Records:   converter.RecordsToResponses(records),
		Histories: converter.HistoriesToResponses(histories),
	}, nil
}

func (u *doctorUsecase) ListSharedRecords(ctx context.Context, doctorID uuid.UUID) (*dto.RecordListResponse, error) {
	records, err := u.recordRepo.FindSharedWith(u.db.WithContext(ctx), doctorID, nil)
	if err != nil {
		u.log.Warnf("Failed to list shared records: %+v", err)
		return nil, err
	}

	return &dto.RecordListResponse{
		Records: converter.RecordsToResponses(records),
		Total:   len(records),
	}, nil
}
