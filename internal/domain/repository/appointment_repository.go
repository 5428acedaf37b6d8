package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)

	// FindForRating loads the appointment only when the (id, patient, doctor)
	// triple matches, so a patient cannot rate someone else's appointment.
	FindForRating(db *gorm.DB, id, patientID, doctorID uuid.UUID) (*entity.Appointment, error)

	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)

	// MarkPaid flips the embedded payment sub-record to paid and moves the
	// status to paid, but only when payment_paid is still false. Returns the
	// number of rows affected: 0 means the appointment was already paid (or
	// does not exist).
	MarkPaid(db *gorm.DB, id uuid.UUID, amount decimal.Decimal, provider, paymentID string) (int64, error)

	SetVisitNotes(db *gorm.DB, id uuid.UUID, notes, prescriptionURL string) (int64, error)
	ExistsForDoctorAndPatient(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error)
}
