package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IshratJahanEkra/BodyId/config"
	"github.com/IshratJahanEkra/BodyId/internal/converter"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/domain/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPaymentDisabled    = errors.New("fake payment is not enabled")
	ErrAlreadyPaid        = errors.New("appointment is already paid")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrAmountMismatch     = errors.New("payment amount does not match the consultation fee")
	ErrAppointmentNotOpen = errors.New("appointment is not awaiting payment")
)

type PaymentUsecase interface {
	CreateIntent(ctx context.Context, patientID uuid.UUID, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error)

	// HandleWebhook processes a raw processor webhook. Signature failures are
	// returned as service.ErrInvalidSignature; events for unknown or already
	// paid appointments are logged and swallowed so the processor does not
	// retry them forever.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	FakePayment(ctx context.Context, patientID uuid.UUID, req *dto.FakePaymentRequest) (*dto.FakePaymentResponse, error)
}

type paymentUsecase struct {
	cfg             config.AppConfig
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	paymentRepo     repository.PaymentRepository
	gateway         service.PaymentGateway
	auditService    service.AuditService
}

func NewPaymentUsecase(
	cfg config.AppConfig,
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	paymentRepo repository.PaymentRepository,
	gateway service.PaymentGateway,
	auditService service.AuditService,
) PaymentUsecase {
	return &paymentUsecase{
		cfg:             cfg,
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		gateway:         gateway,
		auditService:    auditService,
	}
}

func (u *paymentUsecase) CreateIntent(ctx context.Context, patientID uuid.UUID, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotAppointmentParticipant
	}
	if appointment.Payment.Paid {
		return nil, ErrAlreadyPaid
	}
	if appointment.Status != entity.AppointmentStatusPending {
		return nil, ErrAppointmentNotOpen
	}
	if appointment.Payment.Amount.IsPositive() && !req.Amount.Equal(appointment.Payment.Amount) {
		return nil, ErrAmountMismatch
	}

	amountMinor := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	_, clientSecret, err := u.gateway.CreateIntent(amountMinor, appointment.ID.String())
	if err != nil {
		u.log.Warnf("Failed to create payment intent: %+v", err)
		return nil, err
	}

	return &dto.CreateIntentResponse{ClientSecret: clientSecret}, nil
}

func (u *paymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != service.EventPaymentSucceeded {
		u.log.Infof("Ignoring webhook event: type=%s", event.Type)
		return nil
	}

	appointmentID, err := uuid.Parse(event.AppointmentID)
	if err != nil {
		u.log.Warnf("Webhook intent %s carries no usable appointment id: %+v", event.PaymentID, err)
		return nil
	}

	amount := decimal.NewFromInt(event.AmountMinor).Div(decimal.NewFromInt(100))

	return u.markPaid(ctx, appointmentID, amount, entity.PaymentProviderStripe, event.PaymentID, true)
}

func (u *paymentUsecase) FakePayment(ctx context.Context, patientID uuid.UUID, req *dto.FakePaymentRequest) (*dto.FakePaymentResponse, error) {
	if !u.cfg.FakePaymentEnabled {
		return nil, ErrPaymentDisabled
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotAppointmentParticipant
	}

	transactionID := fmt.Sprintf("FAKE-%d", time.Now().UnixMilli())

	if err := u.markPaid(ctx, appointment.ID, req.Amount, entity.PaymentProviderFake, transactionID, false); err != nil {
		return nil, err
	}

	payment := &entity.Payment{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Amount:        req.Amount,
		Provider:      entity.PaymentProviderFake,
		TransactionID: transactionID,
		Paid:          true,
		Status:        entity.PaymentStatusSuccess,
	}

	if err := u.paymentRepo.Create(u.db.WithContext(ctx), payment); err != nil {
		u.log.Warnf("Failed to record fake payment: %+v", err)
		return nil, err
	}

	u.auditService.Log(u.db.WithContext(ctx), &patientID, entity.AuditActionPaymentFake, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"transaction_id": transactionID,
	})

	return &dto.FakePaymentResponse{
		AppointmentStatus: string(entity.AppointmentStatusPaid),
		Payment:           *converter.PaymentToResponse(payment),
	}, nil
}

// markPaid is the single convergence point for the webhook and the demo
// shortcut. The conditional update in the repository guarantees the paid flag
// flips at most once; swallowConflict controls whether an already paid
// appointment is an error or a logged no-op.
func (u *paymentUsecase) markPaid(ctx context.Context, appointmentID uuid.UUID, amount decimal.Decimal, provider, paymentID string, swallowConflict bool) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.appointmentRepo.MarkPaid(tx, appointmentID, amount, provider, paymentID)
	if err != nil {
		u.log.Warnf("Failed to mark appointment paid: %+v", err)
		return err
	}

	if affected == 0 {
		if swallowConflict {
			u.log.Warnf("Payment %s for appointment %s ignored: already paid or unknown", paymentID, appointmentID)
			return nil
		}
		return ErrAlreadyPaid
	}

	u.auditService.Log(tx, nil, entity.AuditActionPaymentConfirm, entity.JSON{
		"appointment_id": appointmentID.String(),
		"provider":       provider,
		"payment_id":     paymentID,
		"amount":         amount.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Appointment paid: id=%s, provider=%s", appointmentID, provider)
	return nil
}
