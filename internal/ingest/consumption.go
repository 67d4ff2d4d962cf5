package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// ConsumptionFile is the hourly meter extract, too large to hold in memory.
const ConsumptionFile = "consumption.csv.gz"

// ConsumptionReader streams the hourly consumption extract in fixed-size
// chunks so a full run never materializes the whole file. Plain and
// gzip-compressed files are both accepted.
type ConsumptionReader struct {
	chunkSize int
	logger    *logger.Logger
}

func NewConsumptionReader(chunkSize int, log *logger.Logger) *ConsumptionReader {
	return &ConsumptionReader{chunkSize: chunkSize, logger: log}
}

// Stream calls visit once per chunk, in file order. A visit error aborts
// the stream. Rows with an unparseable timestamp or empty customer id are
// skipped and counted, not fatal.
func (r *ConsumptionReader) Stream(path string, visit func([]contracts.Reading) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open consumption: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open consumption gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	reader := csv.NewReader(src)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read consumption header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	idID, ok1 := index["customer_id"]
	idTS, ok2 := index["timestamp"]
	idElec, ok3 := index["elec_kwh"]
	idGas, ok4 := index["gas_m3"]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return fmt.Errorf("consumption header missing required columns: %v", header)
	}

	chunk := make([]contracts.Reading, 0, r.chunkSize)
	var rows, skipped int

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := visit(chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read consumption: %w", err)
		}
		rows++

		id := strings.TrimSpace(record[idID])
		ts := parseTimestamp(record[idTS])
		if id == "" || ts == nil {
			skipped++
			continue
		}

		chunk = append(chunk, contracts.Reading{
			CustomerID: id,
			Timestamp:  *ts,
			ElecKWh:    cellFloat(record, idElec),
			GasM3:      cellFloat(record, idGas),
		})
		if len(chunk) >= r.chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	r.logger.WithFields(map[string]interface{}{
		"rows":    rows,
		"skipped": skipped,
	}).Info("consumption stream done")
	return nil
}

func parseTimestamp(s string) *time.Time {
	return parseDate(s)
}

func cellFloat(record []string, i int) float64 {
	if i >= len(record) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0
	}
	return v
}
