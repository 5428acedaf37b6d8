package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppointmentUsecase(db *gorm.DB) AppointmentUsecase {
	return NewAppointmentUsecase(
		db,
		quietLogger(),
		repository.NewAppointmentRepository(),
		repository.NewUserRepository(),
		repository.NewRecordRepository(),
		repository.NewHistoryRepository(),
		newAuditService(),
	)
}

func TestCreateAppointment(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "100", "BID-20240101-0001")
	doctor := seedDoctor(t, db, "BMDC-100", decimal.NewFromInt(750))

	appointment, err := uc.Create(context.Background(), patient.ID, &dto.CreateAppointmentRequest{
		DoctorID:    doctor.ID,
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.AppointmentStatusPending), appointment.Status)
	assert.Equal(t, "BID-20240101-0001", appointment.BodyID)
	assert.True(t, decimal.NewFromInt(750).Equal(appointment.Payment.Amount))
	assert.False(t, appointment.Payment.Paid)
}

func TestCreateAppointmentRejectsPastSchedule(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "101", "BID-20240101-0002")
	doctor := seedDoctor(t, db, "BMDC-101", decimal.NewFromInt(500))

	_, err := uc.Create(context.Background(), patient.ID, &dto.CreateAppointmentRequest{
		DoctorID:    doctor.ID,
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrScheduleInPast)
}

func TestCreateAppointmentRejectsUnknownDoctor(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "102", "BID-20240101-0003")

	_, err := uc.Create(context.Background(), patient.ID, &dto.CreateAppointmentRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateAppointmentRejectsForeignAttachment(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "103", "BID-20240101-0004")
	other := seedPatient(t, db, "104", "BID-20240101-0005")
	doctor := seedDoctor(t, db, "BMDC-103", decimal.NewFromInt(500))

	record := &entity.Record{
		PatientID: other.ID,
		Title:     "Blood work",
		FileURL:   "https://files.example.com/blood.pdf",
	}
	require.NoError(t, db.Create(record).Error)

	_, err := uc.Create(context.Background(), patient.ID, &dto.CreateAppointmentRequest{
		DoctorID:          doctor.ID,
		ScheduledAt:       time.Now().Add(time.Hour),
		AttachedRecordIDs: dto.UUIDList{record.ID},
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateStatusDoctorConfirmsPaidAppointment(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "105", "BID-20240101-0006")
	doctor := seedDoctor(t, db, "BMDC-105", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPaid)

	updated, err := uc.UpdateStatus(context.Background(), doctor.ID, entity.RoleDoctor, appointment.ID, entity.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), updated.Status)
}

func TestUpdateStatusPatientCanOnlyCancel(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "106", "BID-20240101-0007")
	doctor := seedDoctor(t, db, "BMDC-106", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	_, err := uc.UpdateStatus(context.Background(), patient.ID, entity.RolePatient, appointment.ID, entity.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusNotAllowedForRole)

	updated, err := uc.UpdateStatus(context.Background(), patient.ID, entity.RolePatient, appointment.ID, entity.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), updated.Status)
}

func TestUpdateStatusRejectsNonParticipant(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "107", "BID-20240101-0008")
	doctor := seedDoctor(t, db, "BMDC-107", decimal.NewFromInt(500))
	stranger := seedDoctor(t, db, "BMDC-108", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPaid)

	_, err := uc.UpdateStatus(context.Background(), stranger.ID, entity.RoleDoctor, appointment.ID, entity.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotAppointmentParticipant)
}

func TestUpdateStatusRejectsTerminalTransitions(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "109", "BID-20240101-0009")
	doctor := seedDoctor(t, db, "BMDC-109", decimal.NewFromInt(500))

	for _, status := range []entity.AppointmentStatus{
		entity.AppointmentStatusCompleted,
		entity.AppointmentStatusRejected,
		entity.AppointmentStatusCancelled,
	} {
		appointment := seedAppointment(t, db, patient, doctor, status)
		_, err := uc.UpdateStatus(context.Background(), doctor.ID, entity.RoleDoctor, appointment.ID, entity.AppointmentStatusConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", status)
	}
}

func TestUpdateStatusRejectsDirectPaid(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "110", "BID-20240101-0010")
	doctor := seedDoctor(t, db, "BMDC-110", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	// Only admins may force the paid status through this endpoint.
	_, err := uc.UpdateStatus(context.Background(), doctor.ID, entity.RoleDoctor, appointment.ID, entity.AppointmentStatusPaid)
	assert.ErrorIs(t, err, ErrStatusNotAllowedForRole)

	_, err = uc.UpdateStatus(context.Background(), patient.ID, entity.RolePatient, appointment.ID, entity.AppointmentStatusPaid)
	assert.ErrorIs(t, err, ErrStatusNotAllowedForRole)
}

func TestListAppointmentsByRole(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "111", "BID-20240101-0011")
	other := seedPatient(t, db, "112", "BID-20240101-0012")
	doctor := seedDoctor(t, db, "BMDC-111", decimal.NewFromInt(500))

	seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)
	seedAppointment(t, db, other, doctor, entity.AppointmentStatusPending)

	patientList, err := uc.List(context.Background(), patient.ID, entity.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, 1, patientList.Total)

	doctorList, err := uc.List(context.Background(), doctor.ID, entity.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, 2, doctorList.Total)
}

func TestAddVisitNotesCompletesAppointment(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "113", "BID-20240101-0013")
	doctor := seedDoctor(t, db, "BMDC-113", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusConfirmed)

	updated, err := uc.AddVisitNotes(context.Background(), doctor.ID, appointment.ID, &dto.VisitNotesRequest{
		DoctorNotes:     "Prescribed rest and fluids",
		PrescriptionURL: "https://files.example.com/rx.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), updated.Status)
	assert.Equal(t, "Prescribed rest and fluids", updated.DoctorNotes)

	var stored entity.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, entity.AppointmentStatusCompleted, stored.Status)
}

func TestAddVisitNotesRequiresConfirmed(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "114", "BID-20240101-0014")
	doctor := seedDoctor(t, db, "BMDC-114", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	_, err := uc.AddVisitNotes(context.Background(), doctor.ID, appointment.ID, &dto.VisitNotesRequest{DoctorNotes: "notes"})
	assert.ErrorIs(t, err, ErrAppointmentNotConfirmed)
}

func TestCreateAppointmentRejectsZeroFeeDoctor(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "115", "BID-20240101-0015")
	doctor := seedDoctor(t, db, "BMDC-115", decimal.Zero)

	_, err := uc.Create(context.Background(), patient.ID, &dto.CreateAppointmentRequest{
		DoctorID:    doctor.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidConsultationFee)
}

func TestUpdateStatusDoctorConfirmsUnpaidAppointment(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	patient := seedPatient(t, db, "116", "BID-20240101-0016")
	doctor := seedDoctor(t, db, "BMDC-116", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	updated, err := uc.UpdateStatus(context.Background(), doctor.ID, entity.RoleDoctor, appointment.ID, entity.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), updated.Status)
}

func TestListAppointmentsRejectsOtherRoles(t *testing.T) {
	db := newTestDB(t)
	uc := newAppointmentUsecase(db)

	_, err := uc.List(context.Background(), uuid.New(), entity.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleCannotListAppointments)
}
