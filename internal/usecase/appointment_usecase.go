package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrDoctorNotFound             = errors.New("doctor not found")
	ErrInvalidConsultationFee     = errors.New("doctor has no valid consultation fee")
	ErrPatientProfileIncomplete   = errors.New("patient has no body ID")
	ErrRoleCannotListAppointments = errors.New("role cannot list appointments")
	ErrScheduleInPast             = errors.New("scheduled time must be in the future")
	ErrAppointmentNotFound        = errors.New("appointment not found")
	ErrNotAppointmentParticipant  = errors.New("you are not a participant of this appointment")
	ErrInvalidStatus              = errors.New("invalid appointment status")
	ErrInvalidTransition          = errors.New("status transition not allowed")
	ErrStatusNotAllowedForRole    = errors.New("your role cannot set this status")
	ErrAppointmentNotConfirmed    = errors.New("appointment is not confirmed")
)

// statusTransitions is the forward edge set of the appointment lifecycle.
// The paid status is reachable only through the payment path, never through
// the status endpoint.
var statusTransitions = map[entity.AppointmentStatus][]entity.AppointmentStatus{
	entity.AppointmentStatusPending: {
		entity.AppointmentStatusPaid,
		entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusRejected,
		entity.AppointmentStatusCancelled,
	},
	entity.AppointmentStatusPaid: {
		entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusRejected,
		entity.AppointmentStatusCancelled,
	},
	entity.AppointmentStatusConfirmed: {
		entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled,
	},
}

func transitionAllowed(from, to entity.AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type AppointmentUsecase interface {
	Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context, userID uuid.UUID, role string) (*dto.AppointmentListResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error)
	AddVisitNotes(ctx context.Context, doctorID uuid.UUID, id uuid.UUID, req *dto.VisitNotesRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	recordRepo      repository.RecordRepository
	historyRepo     repository.HistoryRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	recordRepo repository.RecordRepository,
	historyRepo repository.HistoryRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		recordRepo:      recordRepo,
		historyRepo:     historyRepo,
		auditService:    auditService,
	}
}

func (u *appointmentUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !req.ScheduledAt.After(time.Now()) {
		return nil, ErrScheduleInPast
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.userRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || !patient.IsPatient() {
		return nil, ErrUserNotFound
	}
	if patient.BodyID == nil {
		return nil, ErrPatientProfileIncomplete
	}

	doctor, err := u.userRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}
	if !doctor.ConsultationFee.IsPositive() {
		return nil, ErrInvalidConsultationFee
	}

	appointment := &entity.Appointment{
		PatientID:   patientID,
		DoctorID:    doctor.ID,
		BodyID:      *patient.BodyID,
		RequestedAt: time.Now(),
		ScheduledAt: req.ScheduledAt,
		Status:      entity.AppointmentStatusPending,
		Payment: entity.PaymentInfo{
			Amount:   doctor.ConsultationFee,
			Provider: entity.PaymentProviderStripe,
		},
	}

	// Attachments must belong to the requesting patient; unknown or foreign
	// ids fail the whole request.
	for _, recordID := range req.AttachedRecordIDs {
		record, err := u.recordRepo.FindByIDAndPatient(tx, recordID, patientID)
		if err != nil {
			u.log.Warnf("Failed to find attached record: %+v", err)
			return nil, err
		}
		if record == nil {
			return nil, ErrRecordNotFound
		}
		appointment.Records = append(appointment.Records, *record)
	}

	for _, historyID := range req.AttachedHistories {
		history, err := u.historyRepo.FindByIDAndPatient(tx, historyID, patientID)
		if err != nil {
			u.log.Warnf("Failed to find attached history: %+v", err)
			return nil, err
		}
		if history == nil {
			return nil, ErrHistoryNotFound
		}
		appointment.Histories = append(appointment.Histories, *history)
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &patientID, entity.AuditActionAppointmentCreate, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      doctor.ID.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Patient = *patient
	appointment.Doctor = *doctor

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) List(ctx context.Context, userID uuid.UUID, role string) (*dto.AppointmentListResponse, error) {
	var (
		appointments []entity.Appointment
		err          error
	)

	switch role {
	case entity.RoleDoctor:
		appointments, err = u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), userID)
	case entity.RolePatient:
		appointments, err = u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	default:
		return nil, ErrRoleCannotListAppointments
	}

	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if role != entity.RoleAdmin && appointment.PatientID != userID && appointment.DoctorID != userID {
		return nil, ErrNotAppointmentParticipant
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	if !entity.ValidAppointmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := u.authorizeStatusChange(appointment, userID, role, status); err != nil {
		return nil, err
	}

	if !transitionAllowed(appointment.Status, status) {
		return nil, ErrInvalidTransition
	}

	affected, err := u.appointmentRepo.UpdateStatus(tx, id, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	u.auditService.Log(tx, &userID, entity.AuditActionAppointmentStatus, entity.JSON{
		"appointment_id": id.String(),
		"from":           string(appointment.Status),
		"to":             string(status),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = status
	return converter.AppointmentToResponse(appointment), nil
}

// authorizeStatusChange enforces who may set what: the assigned doctor moves
// the appointment forward or rejects it, the owning patient may only cancel,
// and admins are unrestricted.
func (u *appointmentUsecase) authorizeStatusChange(appointment *entity.Appointment, userID uuid.UUID, role string, status entity.AppointmentStatus) error {
	switch role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleDoctor:
		if appointment.DoctorID != userID {
			return ErrNotAppointmentParticipant
		}
		switch status {
		case entity.AppointmentStatusConfirmed, entity.AppointmentStatusRejected, entity.AppointmentStatusCompleted:
			return nil
		}
		return ErrStatusNotAllowedForRole
	case entity.RolePatient:
		if appointment.PatientID != userID {
			return ErrNotAppointmentParticipant
		}
		if status == entity.AppointmentStatusCancelled {
			return nil
		}
		return ErrStatusNotAllowedForRole
	}

	return ErrStatusNotAllowedForRole
}

func (u *appointmentUsecase) AddVisitNotes(ctx context.Context, doctorID uuid.UUID, id uuid.UUID, req *dto.VisitNotesRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotAppointmentParticipant
	}
	if appointment.Status != entity.AppointmentStatusConfirmed && appointment.Status != entity.AppointmentStatusCompleted {
		return nil, ErrAppointmentNotConfirmed
	}

	if _, err := u.appointmentRepo.SetVisitNotes(tx, id, req.DoctorNotes, req.PrescriptionURL); err != nil {
		u.log.Warnf("Failed to set visit notes: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Recording the visit also completes the appointment.
	appointment.Status = entity.AppointmentStatusCompleted
	appointment.DoctorNotes = req.DoctorNotes
	appointment.PrescriptionURL = req.PrescriptionURL
	return converter.AppointmentToResponse(appointment), nil
}
