package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}
