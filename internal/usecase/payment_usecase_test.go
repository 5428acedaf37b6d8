package usecase

import (
	"context"
	"testing"

	"github.com/IshratJahanEkra/BodyId/config"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentUsecase(db *gorm.DB, gateway service.PaymentGateway, fakeEnabled bool) PaymentUsecase {
	return NewPaymentUsecase(
		config.AppConfig{FakePaymentEnabled: fakeEnabled},
		db,
		quietLogger(),
		repository.NewAppointmentRepository(),
		repository.NewPaymentRepository(),
		gateway,
		newAuditService(),
	)
}

func TestCreateIntent(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	uc := newPaymentUsecase(db, gateway, false)

	patient := seedPatient(t, db, "200", "BID-20240101-0100")
	doctor := seedDoctor(t, db, "BMDC-200", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	intent, err := uc.CreateIntent(context.Background(), patient.ID, &dto.CreateIntentRequest{
		AppointmentID: appointment.ID,
		Amount:        decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_test_secret", intent.ClientSecret)
	assert.Equal(t, int64(50000), gateway.lastAmount)
}

func TestCreateIntentRejectsAmountMismatch(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{}, false)

	patient := seedPatient(t, db, "201", "BID-20240101-0101")
	doctor := seedDoctor(t, db, "BMDC-201", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	_, err := uc.CreateIntent(context.Background(), patient.ID, &dto.CreateIntentRequest{
		AppointmentID: appointment.ID,
		Amount:        decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestCreateIntentRejectsForeignPatient(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{}, false)

	patient := seedPatient(t, db, "202", "BID-20240101-0102")
	other := seedPatient(t, db, "203", "BID-20240101-0103")
	doctor := seedDoctor(t, db, "BMDC-202", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	_, err := uc.CreateIntent(context.Background(), other.ID, &dto.CreateIntentRequest{
		AppointmentID: appointment.ID,
		Amount:        decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, ErrNotAppointmentParticipant)
}

func TestWebhookMarksAppointmentPaid(t *testing.T) {
	db := newTestDB(t)

	patient := seedPatient(t, db, "204", "BID-20240101-0104")
	doctor := seedDoctor(t, db, "BMDC-204", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	gateway := &fakeGateway{event: &service.PaymentEvent{
		Type:          service.EventPaymentSucceeded,
		PaymentID:     "pi_123",
		AppointmentID: appointment.ID.String(),
		AmountMinor:   50000,
	}}
	uc := newPaymentUsecase(db, gateway, false)

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	var stored entity.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, entity.AppointmentStatusPaid, stored.Status)
	assert.True(t, stored.Payment.Paid)
	assert.True(t, decimal.NewFromInt(500).Equal(stored.Payment.Amount))
	require.NotNil(t, stored.Payment.PaymentID)
	assert.Equal(t, "pi_123", *stored.Payment.PaymentID)
}

func TestWebhookPaysAtMostOnce(t *testing.T) {
	db := newTestDB(t)

	patient := seedPatient(t, db, "205", "BID-20240101-0105")
	doctor := seedDoctor(t, db, "BMDC-205", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	gateway := &fakeGateway{event: &service.PaymentEvent{
		Type:          service.EventPaymentSucceeded,
		PaymentID:     "pi_first",
		AppointmentID: appointment.ID.String(),
		AmountMinor:   50000,
	}}
	uc := newPaymentUsecase(db, gateway, false)

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	// A redelivered event must not overwrite the recorded payment.
	gateway.event.PaymentID = "pi_second"
	require.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	var stored entity.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, "pi_first", *stored.Payment.PaymentID)
}

func TestWebhookSwallowsUnknownAppointment(t *testing.T) {
	db := newTestDB(t)

	gateway := &fakeGateway{event: &service.PaymentEvent{
		Type:          service.EventPaymentSucceeded,
		PaymentID:     "pi_orphan",
		AppointmentID: uuid.New().String(),
		AmountMinor:   50000,
	}}
	uc := newPaymentUsecase(db, gateway, false)

	assert.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{rejectPayload: true}, false)

	err := uc.HandleWebhook(context.Background(), []byte("{}"), "bad")
	assert.ErrorIs(t, err, service.ErrInvalidSignature)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{event: &service.PaymentEvent{Type: "payment_intent.created"}}, false)

	assert.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestFakePayment(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{}, true)

	patient := seedPatient(t, db, "206", "BID-20240101-0106")
	doctor := seedDoctor(t, db, "BMDC-206", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	result, err := uc.FakePayment(context.Background(), patient.ID, &dto.FakePaymentRequest{
		AppointmentID: appointment.ID,
		Amount:        decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.AppointmentStatusPaid), result.AppointmentStatus)
	assert.Equal(t, entity.PaymentProviderFake, result.Payment.Provider)
	assert.Regexp(t, `^FAKE-\d+$`, result.Payment.TransactionID)

	// An audit row is written for the transaction.
	var payments []entity.Payment
	require.NoError(t, db.Find(&payments, "appointment_id = ?", appointment.ID).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, entity.PaymentStatusSuccess, payments[0].Status)
}

func TestFakePaymentConflictsWhenAlreadyPaid(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{}, true)

	patient := seedPatient(t, db, "207", "BID-20240101-0107")
	doctor := seedDoctor(t, db, "BMDC-207", decimal.NewFromInt(500))
	appointment := seedAppointment(t, db, patient, doctor, entity.AppointmentStatusPending)

	req := &dto.FakePaymentRequest{AppointmentID: appointment.ID, Amount: decimal.NewFromInt(500)}

	_, err := uc.FakePayment(context.Background(), patient.ID, req)
	require.NoError(t, err)

	_, err = uc.FakePayment(context.Background(), patient.ID, req)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestFakePaymentDisabled(t *testing.T) {
	db := newTestDB(t)
	uc := newPaymentUsecase(db, &fakeGateway{}, false)

	patient := seedPatient(t, db, "208", "BID-20240101-0108")

	_, err := uc.FakePayment(context.Background(), patient.ID, &dto.FakePaymentRequest{
		AppointmentID: uuid.New(),
		Amount:        decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, ErrPaymentDisabled)
}
