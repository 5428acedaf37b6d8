package usecase

import (
	"context"
	"testing"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDoctorUsecase(db *gorm.DB) DoctorUsecase {
	return NewDoctorUsecase(
		db,
		quietLogger(),
		repository.NewUserRepository(),
		repository.NewRecordRepository(),
		repository.NewHistoryRepository(),
		repository.NewAppointmentRepository(),
	)
}

func TestGetPatientRecordsRequiresAppointment(t *testing.T) {
	db := newTestDB(t)
	uc := newDoctorUsecase(db)

	doctor := seedDoctor(t, db, "BMDC-500", decimal.NewFromInt(500))
	seedPatient(t, db, "500", "BID-20240101-0400")

	_, err := uc.GetPatientRecords(context.Background(), doctor.ID, "BID-20240101-0400")
	assert.ErrorIs(t, err, ErrNoSharedTreatment)
}

func TestGetPatientRecordsByBodyID(t *testing.T) {
	db := newTestDB(t)
	uc := newDoctorUsecase(db)

	doctor := seedDoctor(t, db, "BMDC-501", decimal.NewFromInt(500))
	patient := seedPatient(t, db, "501", "BID-20240101-0401")
	seedAppointment(t, db, patient, doctor, entity.AppointmentStatusConfirmed)

	historyUC := NewHistoryUsecase(db, quietLogger(), repository.NewHistoryRepository(), repository.NewUserRepository(), &fakeStorage{})
	_, err := historyUC.Upload(context.Background(), patient.ID, &dto.UploadHistoryRequest{Description: "Asthma since 2015"}, nil)
	require.NoError(t, err)

	recordUC := newRecordUsecase(db, &fakeStorage{})
	shared, err := recordUC.Upload(context.Background(), patient.ID, &dto.UploadRecordRequest{Title: "Chest X-ray"}, []byte("img"), "image/png")
	require.NoError(t, err)
	_, err = recordUC.Upload(context.Background(), patient.ID, &dto.UploadRecordRequest{Title: "Private note"}, []byte("img"), "image/png")
	require.NoError(t, err)
	_, err = recordUC.Share(context.Background(), patient.ID, shared.ID, "BMDC-501")
	require.NoError(t, err)

	got, err := uc.GetPatientRecords(context.Background(), doctor.ID, "BID-20240101-0401")
	require.NoError(t, err)

	assert.Equal(t, patient.ID, got.Patient.ID)

	// Only the shared record is visible; the history is always included.
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Chest X-ray", got.Records[0].Title)
	require.Len(t, got.Histories, 1)
	assert.Equal(t, "Asthma since 2015", got.Histories[0].Description)
}

func TestGetPatientRecordsUnknownBodyID(t *testing.T) {
	db := newTestDB(t)
	uc := newDoctorUsecase(db)

	doctor := seedDoctor(t, db, "BMDC-502", decimal.NewFromInt(500))

	_, err := uc.GetPatientRecords(context.Background(), doctor.ID, "BID-20240101-9999")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestListSharedRecordsAcrossPatients(t *testing.T) {
	db := newTestDB(t)
	uc := newDoctorUsecase(db)

	doctor := seedDoctor(t, db, "BMDC-503", decimal.NewFromInt(500))
	first := seedPatient(t, db, "502", "BID-20240101-0402")
	second := seedPatient(t, db, "503", "BID-20240101-0403")

	recordUC := newRecordUsecase(db, &fakeStorage{})
	for _, patient := range []struct {
		title string
		owner *entity.User
	}{
		{title: "Lab report", owner: first},
		{title: "MRI scan", owner: second},
	} {
		record, err := recordUC.Upload(context.Background(), patient.owner.ID, &dto.UploadRecordRequest{Title: patient.title}, []byte("img"), "image/png")
		require.NoError(t, err)
		_, err = recordUC.Share(context.Background(), patient.owner.ID, record.ID, "BMDC-503")
		require.NoError(t, err)
	}

	list, err := uc.ListSharedRecords(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}
