package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/loki1512/MS-Fitness-Gym/internal/config"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	// MaxTxAttempts bounds WithRetry.
	MaxTxAttempts = 3
)

// Open connects to the configured database and applies pool settings.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if !cfg.IsProduction() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLife)

	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return gormmysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Models lists every table owned by the application, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Role{},
		&models.User{},
		&models.Plan{},
		&models.Membership{},
		&models.Payment{},
	}
}

// Migrate creates or updates the schema and seeds the fixed role set.
func Migrate(db *gorm.DB) error {
	start := time.Now()
	if err := db.AutoMigrate(Models()...); err != nil {
		logger.DBLog("automigrate", "", time.Since(start), err)
		return fmt.Errorf("automigrate: %w", err)
	}

	// At most one current membership per user. Partial indexes are PostgreSQL only.
	if db.Dialector.Name() == DriverPostgres {
		err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_memberships_user_current
			ON memberships (user_id) WHERE status IN ('Active', 'Expiring')`).Error
		if err != nil {
			return fmt.Errorf("create current membership index: %w", err)
		}
	}

	if err := SeedRoles(db); err != nil {
		return err
	}

	logger.DBLog("automigrate", "", time.Since(start), nil)
	return nil
}

// SeedRoles inserts the admin, manager and member roles if they are missing.
func SeedRoles(db *gorm.DB) error {
	for name, description := range models.RoleDescriptions {
		role := models.Role{Name: name, Description: description}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

// IsRetryable reports serialization failures and deadlocks, which are safe to
// retry as a whole transaction.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// IsUniqueViolation reports a unique constraint failure from either driver.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// WithRetry runs fn inside a transaction, retrying it when the database
// reports a retryable conflict.
func WithRetry(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= MaxTxAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		logger.CtxWarn(ctx, "retrying transaction", "attempt", attempt, "error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
		}
	}
	return err
}
