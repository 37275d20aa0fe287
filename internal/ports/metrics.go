package ports

import (
	"time"

	"github.com/adpilot/marketops/internal/domain"
)

// MetricsRecorder receives operational measurements from the application and
// worker loops. Implementations must be safe for concurrent use; callers treat
// a nil recorder as disabled.
type MetricsRecorder interface {
	RecordSyncRun(outcome string, campaignsUpserted, leadsUpserted int)
	ObservePlatformCall(platform domain.Platform, start time.Time, err error)
	RecordOutboxBatch(published, deadLettered int)
}
