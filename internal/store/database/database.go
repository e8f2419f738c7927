// Package database opens the gorm connection backing the swap projection.
package database

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// New opens the configured database and exits the process if it cannot.
func New(appConfig *config.AppConfig, logger *logger.Logger) *gorm.DB {
	db, err := Open(appConfig.Database)
	if err != nil {
		logger.Fatal("failed to open database connection", map[string]string{
			"driver": appConfig.Database.Driver,
			"error":  err.Error(),
		})
	}

	logger.Info("database connected", map[string]string{
		"driver": appConfig.Database.Driver,
	})
	return db
}

func Open(conn config.DBConnection) (*gorm.DB, error) {
	cfg := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch strings.ToLower(conn.Driver) {
	case DriverSQLite:
		return openSQLite(conn.SQLitePath, cfg)
	case DriverPostgres, "":
		return gorm.Open(postgres.Open(PostgresDSN(conn)), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conn.Driver)
	}
}

// openSQLite pins in-memory databases to one connection, since every new
// connection to ":memory:" would see an empty database.
func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	memory := path == "" || path == ":memory:" || strings.Contains(path, "mode=memory")
	if path == "" {
		path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, err
	}
	if memory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenInMemory returns an empty private sqlite database.
func OpenInMemory() (*gorm.DB, error) {
	return Open(config.DBConnection{Driver: DriverSQLite, SQLitePath: ":memory:"})
}

func PostgresDSN(conn config.DBConnection) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		conn.Host,
		conn.User,
		conn.Pass,
		conn.Name,
		conn.Port,
		conn.SSLMode,
	)
}

// Ping checks the underlying connection.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
