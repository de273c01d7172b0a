package csvfile

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/pkg/errors"
	"go.uber.org/zap"
)

const progressEvery = 100000

type complaintReader struct {
	columns []string
	logger  *zap.Logger
}

// NewComplaintReader создает читатель CSV с фиксированным набором колонок жалоб
func NewComplaintReader(logger *zap.Logger) repository.ComplaintSource {
	return &complaintReader{
		columns: domain.ComplaintColumns,
		logger:  logger,
	}
}

// Read читает файл целиком. Битые строки пропускаются и считаются, но не
// прерывают чтение.
func (r *complaintReader) Read(ctx context.Context, path string) ([]domain.RawComplaint, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return r.ReadFrom(ctx, file)
}

// ReadFrom читает CSV из произвольного io.Reader
func (r *complaintReader) ReadFrom(ctx context.Context, src io.Reader) ([]domain.RawComplaint, int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, errors.ErrMissingHeader
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Индексы нужных колонок; отсутствующие колонки читаются как пустые
	colIndex := make(map[string]int, len(r.columns))
	headerWidth := len(header)
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		for _, wanted := range r.columns {
			if col == wanted {
				colIndex[wanted] = i
			}
		}
	}

	missing := make([]string, 0)
	for _, wanted := range r.columns {
		if _, ok := colIndex[wanted]; !ok {
			missing = append(missing, wanted)
		}
	}
	if len(missing) > 0 {
		r.logger.Warn("CSV is missing expected columns", zap.Strings("columns", missing))
	}

	var (
		rows      []domain.RawComplaint
		malformed int
		line      = 1
		startTime = time.Now()
	)

	for {
		if line%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, malformed, err
			}
			r.logger.Debug("CSV read progress",
				zap.Int("lines", line),
				zap.Duration("elapsed", time.Since(startTime)))
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++

		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				malformed++
				continue
			}
			return nil, malformed, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		if len(record) > headerWidth {
			malformed++
			continue
		}

		fields := make(map[string]string, len(colIndex))
		for col, idx := range colIndex {
			if idx < len(record) {
				fields[col] = record[idx]
			}
		}
		rows = append(rows, domain.RawComplaint{Line: line, Fields: fields})
	}

	r.logger.Info("CSV loaded",
		zap.Int("rows", len(rows)),
		zap.Int("malformed_lines", malformed),
		zap.Duration("elapsed", time.Since(startTime)))

	return rows, malformed, nil
}
