package database

import (
	"context"
	"errors"

	"github.com/sanigest/sanigest/internal/common/cnst"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store implements the Database interface on a gorm connection. The same
// implementation serves postgres, mysql and sqlite; the dialector is chosen
// by the factory.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ Database = (*Store)(nil)

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a transaction carried by the context.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextWithTx(ctx, tx))
	})
}

// notFound maps gorm's missing-record error onto the shared sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cnst.ErrNotFound
	}
	return err
}

// --- Organizations ---

func (s *Store) CreateOrganization(ctx context.Context, org *Organization) error {
	err := dbFromContext(ctx, s.db).Create(org).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return cnst.ErrDuplicateSubdomain
	}
	return err
}

func (s *Store) GetOrganizationByID(ctx context.Context, id uint) (*Organization, error) {
	var org Organization
	if err := dbFromContext(ctx, s.db).First(&org, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

func (s *Store) GetOrganizationBySubdomain(ctx context.Context, subdomain string) (*Organization, error) {
	var org Organization
	err := dbFromContext(ctx, s.db).Where("subdomain = ?", subdomain).First(&org).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, org *Organization) error {
	return dbFromContext(ctx, s.db).Save(org).Error
}

func (s *Store) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, s.db).
		Model(&Organization{}).
		Where("subdomain = ?", subdomain).
		Count(&count).Error
	return count > 0, err
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	err := dbFromContext(ctx, s.db).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return cnst.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := dbFromContext(ctx, s.db).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := dbFromContext(ctx, s.db).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByVerifyToken(ctx context.Context, token string) (*User, error) {
	var user User
	err := dbFromContext(ctx, s.db).
		Where("verify_token = ? AND verify_token <> ''", token).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	var user User
	err := dbFromContext(ctx, s.db).
		Where("reset_token = ? AND reset_token <> ''", token).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *User) error {
	// Save writes all fields so cleared tokens and zeroed counters persist.
	return dbFromContext(ctx, s.db).Save(user).Error
}

func (s *Store) ListUsersByOrg(ctx context.Context, orgID uint) ([]*User, error) {
	var users []*User
	err := dbFromContext(ctx, s.db).
		Where("org_id = ?", orgID).
		Order("created_at asc").
		Find(&users).Error
	return users, err
}

func (s *Store) CountUsersByOrg(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := dbFromContext(ctx, s.db).
		Model(&User{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	return count, err
}

// --- Delivery records ---

func (s *Store) CreateDelivery(ctx context.Context, rec *DeliveryRecord) error {
	return dbFromContext(ctx, s.db).Create(rec).Error
}

func (s *Store) GetDelivery(ctx context.Context, orgID, id uint) (*DeliveryRecord, error) {
	var rec DeliveryRecord
	err := dbFromContext(ctx, s.db).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (s *Store) ListDeliveries(ctx context.Context, orgID uint, f DeliveryFilter, p Pagination) ([]*DeliveryRecord, int64, error) {
	p.Normalize()
	q := dbFromContext(ctx, s.db).Model(&DeliveryRecord{}).Where("org_id = ?", orgID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Supplier != "" {
		q = q.Where("supplier = ?", f.Supplier)
	}
	if !f.From.IsZero() {
		q = q.Where("delivery_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("delivery_date <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []*DeliveryRecord
	err := q.Order("created_at desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&recs).Error
	return recs, total, err
}

func (s *Store) UpdateDelivery(ctx context.Context, rec *DeliveryRecord) error {
	return dbFromContext(ctx, s.db).Save(rec).Error
}

func (s *Store) DeleteDelivery(ctx context.Context, orgID, id uint) error {
	res := dbFromContext(ctx, s.db).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&DeliveryRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return cnst.ErrNotFound
	}
	return nil
}

// --- Storage records ---

func (s *Store) CreateStorageRecord(ctx context.Context, rec *StorageRecord) error {
	return dbFromContext(ctx, s.db).Create(rec).Error
}

func (s *Store) GetStorageRecord(ctx context.Context, orgID, id uint) (*StorageRecord, error) {
	var rec StorageRecord
	err := dbFromContext(ctx, s.db).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (s *Store) ListStorageRecords(ctx context.Context, orgID uint, f StorageFilter, p Pagination) ([]*StorageRecord, int64, error) {
	p.Normalize()
	q := dbFromContext(ctx, s.db).Model(&StorageRecord{}).Where("org_id = ?", orgID)
	if f.Unit != "" {
		q = q.Where("unit = ?", f.Unit)
	}
	if !f.From.IsZero() {
		q = q.Where("recorded_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("recorded_at <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []*StorageRecord
	err := q.Order("created_at desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&recs).Error
	return recs, total, err
}

func (s *Store) UpdateStorageRecord(ctx context.Context, rec *StorageRecord) error {
	return dbFromContext(ctx, s.db).Save(rec).Error
}

func (s *Store) DeleteStorageRecord(ctx context.Context, orgID, id uint) error {
	res := dbFromContext(ctx, s.db).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&StorageRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return cnst.ErrNotFound
	}
	return nil
}

// --- Incidents ---

func (s *Store) CreateIncident(ctx context.Context, inc *Incident) error {
	return dbFromContext(ctx, s.db).Create(inc).Error
}

func (s *Store) GetIncident(ctx context.Context, orgID, id uint) (*Incident, error) {
	var inc Incident
	err := dbFromContext(ctx, s.db).
		Preload("Actions").
		Where("org_id = ? AND id = ? AND is_deleted = ?", orgID, id, false).
		First(&inc).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &inc, nil
}

func (s *Store) ListIncidents(ctx context.Context, orgID uint, f IncidentFilter, p Pagination) ([]*Incident, int64, error) {
	p.Normalize()
	q := dbFromContext(ctx, s.db).
		Model(&Incident{}).
		Where("org_id = ? AND is_deleted = ?", orgID, false)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Severity != "" {
		q = q.Where("severity = ?", f.Severity)
	}
	if !f.From.IsZero() {
		q = q.Where("detected_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("detected_at <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var incs []*Incident
	err := q.Preload("Actions").
		Order("created_at desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&incs).Error
	return incs, total, err
}

func (s *Store) UpdateIncident(ctx context.Context, inc *Incident) error {
	return dbFromContext(ctx, s.db).Omit("Actions").Save(inc).Error
}

func (s *Store) SoftDeleteIncident(ctx context.Context, orgID, id uint) error {
	res := dbFromContext(ctx, s.db).
		Model(&Incident{}).
		Where("org_id = ? AND id = ? AND is_deleted = ?", orgID, id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return cnst.ErrNotFound
	}
	return nil
}

func (s *Store) CreateCorrectiveAction(ctx context.Context, action *CorrectiveAction) error {
	return dbFromContext(ctx, s.db).Create(action).Error
}

func (s *Store) GetCorrectiveAction(ctx context.Context, orgID, incidentID, actionID uint) (*CorrectiveAction, error) {
	var action CorrectiveAction
	err := dbFromContext(ctx, s.db).
		Where("org_id = ? AND incident_id = ? AND id = ?", orgID, incidentID, actionID).
		First(&action).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &action, nil
}

func (s *Store) UpdateCorrectiveAction(ctx context.Context, action *CorrectiveAction) error {
	return dbFromContext(ctx, s.db).Save(action).Error
}

// --- Technical sheets ---

func (s *Store) CreateTechnicalSheet(ctx context.Context, sheet *TechnicalSheet) error {
	return dbFromContext(ctx, s.db).Create(sheet).Error
}

func (s *Store) GetTechnicalSheet(ctx context.Context, orgID, id uint) (*TechnicalSheet, error) {
	var sheet TechnicalSheet
	err := dbFromContext(ctx, s.db).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&sheet).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sheet, nil
}

func (s *Store) ListTechnicalSheets(ctx context.Context, orgID uint, f SheetFilter, p Pagination) ([]*TechnicalSheet, int64, error) {
	p.Normalize()
	q := dbFromContext(ctx, s.db).Model(&TechnicalSheet{}).Where("org_id = ?", orgID)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sheets []*TechnicalSheet
	err := q.Order("created_at desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&sheets).Error
	return sheets, total, err
}

func (s *Store) UpdateTechnicalSheet(ctx context.Context, sheet *TechnicalSheet) error {
	return dbFromContext(ctx, s.db).Save(sheet).Error
}

func (s *Store) DeleteTechnicalSheet(ctx context.Context, orgID, id uint) error {
	res := dbFromContext(ctx, s.db).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&TechnicalSheet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return cnst.ErrNotFound
	}
	return nil
}
