package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the database driver and its connection parameters.
type Config struct {
	Driver string

	// sqlite
	Path string

	// postgres
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres connection string in key=value format.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Open connects using the configured driver.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch cfg.Driver {
	case DriverSQLite, "":
		if cfg.Path == "" {
			cfg.Path = "./out/restopos.db"
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			log.Printf("layer=kit component=db method=Open path=%s err=%v", cfg.Path, err)
			return nil, errors.Join(ErrInternal, err)
		}
		conn, err := gorm.Open(sqlite.Open(cfg.Path), gormCfg)
		if err != nil {
			log.Printf("layer=kit component=db method=Open driver=sqlite err=%v", err)
			return nil, errors.Join(ErrInternal, err)
		}
		return conn, nil
	case DriverPostgres:
		conn, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			log.Printf("layer=kit component=db method=Open driver=postgres err=%v", err)
			return nil, errors.Join(ErrInternal, err)
		}
		return conn, nil
	default:
		return nil, errors.Join(ErrInvalid, fmt.Errorf("unknown driver %q", cfg.Driver))
	}
}

// Migrate runs AutoMigrate for the given models.
func Migrate(conn *gorm.DB, models ...any) error {
	if err := conn.AutoMigrate(models...); err != nil {
		log.Printf("layer=kit component=db method=Migrate err=%v", err)
		return errors.Join(ErrInternal, err)
	}
	return nil
}
