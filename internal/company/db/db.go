// Package db is the persistence layer for the seeded entities. It wraps a
// GORM connection to postgres, mysql, sqlserver or sqlite.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/populate/internal/company/errors"
	"github.com/gartstein/populate/internal/company/models"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file for the sqlite driver.
	Path     string
	LogLevel string
}

var logLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

// Dialector returns the GORM dialector matching cfg.Driver.
func Dialector(cfg *Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
		return mysql.Open(dsn), nil
	case "sqlserver":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
		return sqlserver.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", e.ErrInvalidInput, cfg.Driver)
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = logger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		// The seeding run is strictly serial; one connection is all it uses.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	repo := &Repository{db: db}
	if err := repo.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// Migrate creates or updates the companies, offices and employees tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Company{}, &models.Office{}, &models.Employee{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Reset empties the three tables in one transaction, children first.
// Head office references are cleared before any office is removed so the
// delete order never trips a constraint.
func (r *Repository) Reset(ctx context.Context) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Model(&models.Company{}).
			Where("head_office_id IS NOT NULL").
			Update("head_office_id", nil).Error; err != nil {
			return fmt.Errorf("detach head offices: %w", err)
		}

		all := tx.db.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.Employee{}).Error; err != nil {
			return fmt.Errorf("clear employees: %w", err)
		}
		if err := all.Delete(&models.Office{}).Error; err != nil {
			return fmt.Errorf("clear offices: %w", err)
		}
		if err := all.Delete(&models.Company{}).Error; err != nil {
			return fmt.Errorf("clear companies: %w", err)
		}
		return nil
	})
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Offices").Create(company).Error
}

func (r *Repository) CreateOffice(ctx context.Context, office *models.Office) error {
	if office.ID == uuid.Nil {
		office.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Employees").Create(office).Error
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

// SetHeadOffice points the company at one of its own offices.
func (r *Repository) SetHeadOffice(ctx context.Context, companyID, officeID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", companyID).
		Where("EXISTS (SELECT 1 FROM offices WHERE offices.id = ? AND offices.company_id = ?)", officeID, companyID).
		Update("head_office_id", officeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows also happens when the reference already holds officeID.
	if _, err := r.GetCompany(ctx, companyID); err != nil {
		return err
	}
	var owned int64
	if err := r.db.WithContext(ctx).Model(&models.Office{}).
		Where("id = ? AND company_id = ?", officeID, companyID).
		Count(&owned).Error; err != nil {
		return err
	}
	if owned == 0 {
		return fmt.Errorf("%w: office %s does not belong to company %s", e.ErrInvalidInput, officeID, companyID)
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&companies).Error
	return companies, err
}

func (r *Repository) ListOffices(ctx context.Context) ([]models.Office, error) {
	var offices []models.Office
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&offices).Error
	return offices, err
}

func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&employees).Error
	return employees, err
}

// Stats counts the rows of the three seeded tables.
func (r *Repository) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Company{}).Count(&stats.Companies).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Office{}).Count(&stats.Offices).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Employee{}).Count(&stats.Employees).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
