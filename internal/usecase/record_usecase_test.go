package usecase

import (
	"context"
	"testing"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRecordUsecase(db *gorm.DB, storage service.FileStorage) RecordUsecase {
	return NewRecordUsecase(
		db,
		quietLogger(),
		repository.NewRecordRepository(),
		repository.NewUserRepository(),
		storage,
		newAuditService(),
	)
}

func TestUploadRecordStoresUnderBodyIDFolder(t *testing.T) {
	db := newTestDB(t)
	storage := &fakeStorage{}
	uc := newRecordUsecase(db, storage)

	patient := seedPatient(t, db, "400", "BID-20240101-0300")

	record, err := uc.Upload(context.Background(), patient.ID, &dto.UploadRecordRequest{
		Title: "Blood work",
		Tags:  "blood, glucose",
	}, []byte("pdf-bytes"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, 1, storage.uploads)
	assert.Contains(t, record.FileURL, "bodyid/BID-20240101-0300/records/")
	assert.Equal(t, []string{"blood", "glucose"}, record.Tags)
	assert.Equal(t, patient.ID, record.PatientID)
}

func TestUploadRecordRejectsEmptyFile(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	patient := seedPatient(t, db, "401", "BID-20240101-0301")

	_, err := uc.Upload(context.Background(), patient.ID, &dto.UploadRecordRequest{}, nil, "application/pdf")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestUploadRecordRequiresBodyID(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	patient := seedPatient(t, db, "402", "BID-20240101-0302")
	require.NoError(t, db.Model(patient).Update("body_id", nil).Error)

	_, err := uc.Upload(context.Background(), patient.ID, &dto.UploadRecordRequest{}, []byte("data"), "image/png")
	assert.ErrorIs(t, err, ErrPatientProfileIncomplete)
}

func TestUploadRecordWithoutStorageConfigured(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, nil)

	patient := seedPatient(t, db, "403", "BID-20240101-0303")

	_, err := uc.Upload(context.Background(), patient.ID, &dto.UploadRecordRequest{}, []byte("data"), "image/png")
	assert.ErrorIs(t, err, service.ErrStorageNotConfigured)
}

func TestGetRecordAccessControl(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	owner := seedPatient(t, db, "404", "BID-20240101-0304")
	stranger := seedPatient(t, db, "405", "BID-20240101-0305")
	doctor := seedDoctor(t, db, "BMDC-400", decimal.NewFromInt(500))

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{Title: "X-ray"}, []byte("img"), "image/png")
	require.NoError(t, err)

	// Owner always reads their own record.
	got, err := uc.Get(context.Background(), owner.ID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "X-ray", got.Title)

	// A user the record was never shared with is denied.
	_, err = uc.Get(context.Background(), stranger.ID, record.ID)
	assert.ErrorIs(t, err, ErrRecordAccessDenied)
	_, err = uc.Get(context.Background(), doctor.ID, record.ID)
	assert.ErrorIs(t, err, ErrRecordAccessDenied)

	// Sharing grants the doctor read access.
	_, err = uc.Share(context.Background(), owner.ID, record.ID, "BMDC-400")
	require.NoError(t, err)

	got, err = uc.Get(context.Background(), doctor.ID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}

func TestShareRecordIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	owner := seedPatient(t, db, "406", "BID-20240101-0306")
	seedDoctor(t, db, "BMDC-401", decimal.NewFromInt(500))

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{}, []byte("img"), "image/png")
	require.NoError(t, err)

	shared, err := uc.Share(context.Background(), owner.ID, record.ID, "BMDC-401")
	require.NoError(t, err)
	require.Len(t, shared.SharedWith, 1)

	shared, err = uc.Share(context.Background(), owner.ID, record.ID, "BMDC-401")
	require.NoError(t, err)
	assert.Len(t, shared.SharedWith, 1)
}

func TestShareRecordRejectsUnknownDoctor(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	owner := seedPatient(t, db, "407", "BID-20240101-0307")

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{}, []byte("img"), "image/png")
	require.NoError(t, err)

	_, err = uc.Share(context.Background(), owner.ID, record.ID, "BMDC-MISSING")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestShareRecordRejectsForeignRecord(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	owner := seedPatient(t, db, "408", "BID-20240101-0308")
	other := seedPatient(t, db, "409", "BID-20240101-0309")
	seedDoctor(t, db, "BMDC-402", decimal.NewFromInt(500))

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{}, []byte("img"), "image/png")
	require.NoError(t, err)

	_, err = uc.Share(context.Background(), other.ID, record.ID, "BMDC-402")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUnshareRecordRevokesAccess(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	owner := seedPatient(t, db, "410", "BID-20240101-0310")
	doctor := seedDoctor(t, db, "BMDC-403", decimal.NewFromInt(500))

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{}, []byte("img"), "image/png")
	require.NoError(t, err)

	_, err = uc.Share(context.Background(), owner.ID, record.ID, "BMDC-403")
	require.NoError(t, err)

	unshared, err := uc.Unshare(context.Background(), owner.ID, record.ID, "BMDC-403")
	require.NoError(t, err)
	assert.Empty(t, unshared.SharedWith)

	_, err = uc.Get(context.Background(), doctor.ID, record.ID)
	assert.ErrorIs(t, err, ErrRecordAccessDenied)
}

func TestDeleteRecordDestroysStoredFile(t *testing.T) {
	db := newTestDB(t)
	storage := &fakeStorage{}
	uc := newRecordUsecase(db, storage)

	owner := seedPatient(t, db, "411", "BID-20240101-0311")

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{}, []byte("img"), "image/png")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), owner.ID, record.ID))
	assert.Len(t, storage.destroyed, 1)

	_, err = uc.Get(context.Background(), owner.ID, record.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	list, err := uc.List(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestDeleteRecordRejectsForeignPatient(t *testing.T) {
	db := newTestDB(t)
	uc := newRecordUsecase(db, &fakeStorage{})

	owner := seedPatient(t, db, "412", "BID-20240101-0312")
	other := seedPatient(t, db, "413", "BID-20240101-0313")

	record, err := uc.Upload(context.Background(), owner.ID, &dto.UploadRecordRequest{}, []byte("img"), "image/png")
	require.NoError(t, err)

	err = uc.Delete(context.Background(), other.ID, record.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
