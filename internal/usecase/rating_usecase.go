package usecase

import (
	"context"
	"errors"

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
	ErrInvalidStars           = errors.New("stars must be between 0 and 5")
	ErrAppointmentNotRateable = errors.New("appointment cannot be rated in its current status")
	ErrAlreadyRated           = errors.New("appointment has already been rated")
)

type RatingUsecase interface {
	Submit(ctx context.Context, patientID uuid.UUID, req *dto.SubmitRatingRequest) (*dto.RatingResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.RatingListResponse, error)
}

type ratingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	ratingRepo      repository.RatingRepository
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
}

func NewRatingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ratingRepo repository.RatingRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) RatingUsecase {
	return &ratingUsecase{
		db:              db,
		log:             log,
		ratingRepo:      ratingRepo,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		auditService:    auditService,
	}
}

func (u *ratingUsecase) Submit(ctx context.Context, patientID uuid.UUID, req *dto.SubmitRatingRequest) (*dto.RatingResponse, error) {
	stars := *req.Stars
	if stars < 0 || stars > 5 {
		return nil, ErrInvalidStars
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// The triple lookup doubles as the ownership check: the appointment must
	// belong to this patient and this doctor.
	appointment, err := u.appointmentRepo.FindForRating(tx, req.AppointmentID, patientID, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointment for rating: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.Rateable() {
		return nil, ErrAppointmentNotRateable
	}

	existing, err := u.ratingRepo.FindByAppointmentID(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to check existing rating: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRated
	}

	rating := &entity.Rating{
		DoctorID:      req.DoctorID,
		PatientID:     patientID,
		AppointmentID: req.AppointmentID,
		Stars:         stars,
		Comment:       req.Comment,
		Anonymous:     true,
	}

	if err := u.ratingRepo.Create(tx, rating); err != nil {
		// Two submissions racing past the pre-check land on the unique index.
		if isDuplicateKeyError(err, "appointment") {
			return nil, ErrAlreadyRated
		}
		u.log.Warnf("Failed to create rating: %+v", err)
		return nil, err
	}

	affected, err := u.userRepo.ApplyRating(tx, req.DoctorID, stars)
	if err != nil {
		u.log.Warnf("Failed to apply rating to doctor aggregate: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDoctorNotFound
	}

	u.auditService.Log(tx, &patientID, entity.AuditActionRatingSubmit, entity.JSON{
		"appointment_id": req.AppointmentID.String(),
		"doctor_id":      req.DoctorID.String(),
		"stars":          stars,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.RatingToResponse(rating), nil
}

func (u *ratingUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.RatingListResponse, error) {
	ratings, err := u.ratingRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list ratings: %+v", err)
		return nil, err
	}

	return &dto.RatingListResponse{
		Ratings: converter.RatingsToResponses(ratings),
		Total:   len(ratings),
	}, nil
}
