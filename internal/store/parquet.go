package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Layer file names inside the parquet directory.
const (
	BronzeCustomerFile      = "bronze_customer.parquet"
	BronzeCustomerMonthFile = "bronze_customer_month.parquet"
	SilverCustomerFile      = "silver_customer.parquet"
	SilverCustomerMonthFile = "silver_customer_month.parquet"
	GoldMasterFile          = "gold_master.parquet"
	TrainingSetFile         = "training_set.parquet"
)

// ParquetStore writes and reads layer boundary files. Each layer lands as
// one parquet file so a run can be resumed or inspected at any boundary.
type ParquetStore struct {
	dir    string
	logger *logger.Logger
}

func NewParquetStore(dir string, log *logger.Logger) *ParquetStore {
	return &ParquetStore{dir: dir, logger: log}
}

// Path returns the absolute path of a layer file.
func (s *ParquetStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteRows writes rows as one parquet file, replacing any previous file.
func WriteRows[T any](s *ParquetStore, name string, rows []T) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create parquet dir: %w", err)
	}

	path := s.Path(name)
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"file": name,
		"rows": len(rows),
	}).Info("parquet file written")
	return nil
}

// ReadRows reads a full layer file back.
func ReadRows[T any](s *ParquetStore, name string) ([]T, error) {
	rows, err := parquet.ReadFile[T](s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return rows, nil
}
