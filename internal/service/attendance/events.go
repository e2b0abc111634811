package attendance

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/sse"
)

// EventDatasetReloaded is published with the new DatasetInfo after each load.
const EventDatasetReloaded = "dataset_reloaded"

// NotifyReloads publishes every successful load of store to hub.
func NotifyReloads(store *RecordStore, hub *sse.Hub, loc *time.Location) {
	store.OnLoad(func(ds *attendance.Dataset) {
		info := NewDatasetInfo(ds, loc)
		delivered := hub.Publish(sse.Event{Name: EventDatasetReloaded, Data: info})
		slog.Debug("Dataset reload published", "version", info.Version, "subscribers", delivered)
	})
}
