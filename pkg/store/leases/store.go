package leases

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/bm-billing/pkg/adapters"
	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/de-tools/bm-billing/pkg/models/store"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Reader turns a lease usage export into validated domain leases.
type Reader struct {
	validate *validator.Validate
}

func NewReader() *Reader {
	return &Reader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ReadFile loads the export at path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]domain.Lease, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lease file: %w", err)
	}
	defer f.Close()

	return r.Read(ctx, f)
}

// Read decodes a JSON array of lease records. Records that are malformed or
// expire before they start are logged and skipped.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]domain.Lease, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(src).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode lease records: %w", err)
	}
	return r.Parse(ctx, raw), nil
}

// Parse validates already split raw records.
func (r *Reader) Parse(ctx context.Context, raw []json.RawMessage) []domain.Lease {
	logger := zerolog.Ctx(ctx)

	leases := make([]domain.Lease, 0, len(raw))
	for i, msg := range raw {
		var record store.LeaseRecord
		if err := json.Unmarshal(msg, &record); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Ignoring malformed node lease record")
			continue
		}

		if err := r.validate.Struct(record); err != nil {
			logger.Warn().Err(err).Int("index", i).Str("uuid", record.UUID).Msg("Ignoring invalid node lease record")
			continue
		}

		lease, err := adapters.MapStoreLeaseRecordToDomain(record)
		if err != nil {
			logger.Warn().Err(err).Str("uuid", record.UUID).
				Msgf("Ignoring node lease with invalid times: UUID %s", record.UUID)
			continue
		}
		leases = append(leases, lease)
	}

	logger.Info().Int("records", len(raw)).Int("accepted", len(leases)).Msg("lease records loaded")
	return leases
}
