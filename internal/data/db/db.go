package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/envutil"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New connects to the configured database. Postgres is the default;
// DB_DRIVER=sqlite opens a local file for development without a server.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := strings.ToLower(envutil.GetEnv("DB_DRIVER", "postgres", log))
	switch driver {
	case "sqlite":
		path := envutil.GetEnv("SQLITE_PATH", "courseforge.db", log)
		serviceLog.Info("Connecting to SQLite", "path", path)
		gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		return &Service{db: gdb, log: serviceLog}, nil
	case "postgres":
		host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
		port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
		user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
		password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
		name := envutil.GetEnv("POSTGRES_NAME", "courseforge", log)

		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		serviceLog.Info("Connecting to Postgres", "host", host, "database", name)
		gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
		}
		return &Service{db: gdb, log: serviceLog}, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	return s.db.AutoMigrate(
		&coursedom.Course{},
		&coursedom.Module{},
		&coursedom.Lesson{},
		&coursedom.Quiz{},
		&coursedom.Question{},
		&coursedom.VideoAsset{},
	)
}
