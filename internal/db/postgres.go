package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sparklab/ideahub-backend/internal/platform/envutil"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/types"
)

// PostgresService owns the gorm handle. It is constructed once in main and
// passed down explicitly; nothing else opens connections.
type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "ideahub")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...", "host", host, "db", name)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	return AutoMigrateAll(s.db)
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrateAll is exported separately so tests can migrate an in-memory
// sqlite handle with the same model set.
func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.User{},
		&types.ProjectIdea{},
		&types.Feedback{},
	)
}
