package storage

import (
	"fmt"
	"path"
	"time"
)

// BuildSnapshotKey names one inventory export, partitioned by day so
// object listings stay cheap as snapshots accumulate.
func BuildSnapshotKey(at time.Time) string {
	ts := at.UTC()
	return path.Join(
		"exports",
		"inventory",
		fmt.Sprintf("date=%04d-%02d-%02d", ts.Year(), ts.Month(), ts.Day()),
		fmt.Sprintf("inventory-%s.parquet", ts.Format("20060102T150405Z")),
	)
}
