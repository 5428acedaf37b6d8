package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/IshratJahanEkra/BodyId/config"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"
	"github.com/IshratJahanEkra/BodyId/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.MedicalHistory{},
		&entity.Record{},
		&entity.Appointment{},
		&entity.Rating{},
		&entity.Payment{},
		&entity.AuditLog{},
	))

	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func seedPatient(t *testing.T, db *gorm.DB, nid, bodyID string) *entity.User {
	t.Helper()

	user := &entity.User{
		Role:         entity.RolePatient,
		Name:         "Test Patient",
		NID:          &nid,
		Email:        fmt.Sprintf("patient-%s@example.com", nid),
		PasswordHash: hashPassword(t, "password123"),
		BodyID:       &bodyID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDoctor(t *testing.T, db *gorm.DB, bmdcID string, fee decimal.Decimal) *entity.User {
	t.Helper()

	user := &entity.User{
		Role:            entity.RoleDoctor,
		Name:            "Test Doctor",
		BMDCID:          &bmdcID,
		Email:           fmt.Sprintf("doctor-%s@example.com", bmdcID),
		PasswordHash:    hashPassword(t, "password123"),
		Specialty:       "Cardiology",
		ConsultationFee: fee,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAppointment(t *testing.T, db *gorm.DB, patient, doctor *entity.User, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()

	appointment := &entity.Appointment{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		BodyID:      *patient.BodyID,
		RequestedAt: time.Now(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      status,
		Payment: entity.PaymentInfo{
			Amount:   doctor.ConsultationFee,
			Provider: entity.PaymentProviderStripe,
		},
	}
	require.NoError(t, db.Create(appointment).Error)
	return appointment
}

// fakeGateway is an in-memory PaymentGateway for tests.
type fakeGateway struct {
	intents       int
	lastAmount    int64
	event         *service.PaymentEvent
	rejectPayload bool
}

func (g *fakeGateway) CreateIntent(amountMinor int64, appointmentID string) (string, string, error) {
	g.intents++
	g.lastAmount = amountMinor
	return "pi_test", "pi_test_secret", nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (*service.PaymentEvent, error) {
	if g.rejectPayload {
		return nil, service.ErrInvalidSignature
	}
	return g.event, nil
}

// fakeStorage is an in-memory FileStorage for tests.
type fakeStorage struct {
	uploads   int
	destroyed []string
	fail      bool
}

func (s *fakeStorage) Upload(ctx context.Context, data []byte, folder string) (*service.UploadedFile, error) {
	if s.fail {
		return nil, errors.New("storage unavailable")
	}
	s.uploads++
	publicID := fmt.Sprintf("%s/file-%d", folder, s.uploads)
	return &service.UploadedFile{
		URL:      "https://files.example.com/" + publicID,
		PublicID: publicID,
	}, nil
}

func (s *fakeStorage) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

// fakeExtractor returns canned OCR text.
type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

// fakeAnalyzer returns canned analysis results.
type fakeAnalyzer struct {
	analysis *service.ReportAnalysis
	reminder string
	err      error
}

func (a *fakeAnalyzer) AnalyzeMedicalText(ctx context.Context, text string) (*service.ReportAnalysis, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.analysis, nil
}

func (a *fakeAnalyzer) PrescriptionSafety(ctx context.Context, prescriptionText, historySummary string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return a.reminder, nil
}

func newAuditService() service.AuditService {
	return service.NewAuditService(quietLogger(), repository.NewAuditLogRepository())
}
