package adapters

import (
	"fmt"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/de-tools/bm-billing/pkg/models/store"
)

// MapStoreLeaseRecordToDomain parses the record timestamps and enforces
// expire >= start.
func MapStoreLeaseRecordToDomain(record store.LeaseRecord) (domain.Lease, error) {
	start, err := ParseTime(record.StartTime)
	if err != nil {
		return domain.Lease{}, fmt.Errorf("start time: %w", err)
	}

	lease := domain.Lease{
		ID:            record.UUID,
		Resource:      record.Resource,
		ResourceClass: record.ResourceClass,
		StartTime:     start,
	}
	if record.Project != nil {
		lease.Project = *record.Project
	}

	if record.ExpireTime != nil && *record.ExpireTime != "" {
		expire, err := ParseTime(*record.ExpireTime)
		if err != nil {
			return domain.Lease{}, fmt.Errorf("expire time: %w", err)
		}
		if expire.Before(start) {
			return domain.Lease{}, fmt.Errorf("expire time %s is before start time %s", expire, start)
		}
		lease.ExpireTime = &expire
	}

	return lease, nil
}
