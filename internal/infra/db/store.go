package db

import (
	"fmt"
	"strings"

	"github.com/muzansiddig/Veritas-Legal/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{DB: gdb}, nil
}

// Migrate creates or updates the schema for all models.
func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(
		&FirmModel{},
		&UserModel{},
		&CaseModel{},
		&CaseChainSeqModel{},
		&EvidenceModel{},
		&CustodyLogModel{},
		&SystemAuditModel{},
		&TaskModel{},
		&CalendarEventModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&AnalysisJobModel{},
	)
}
