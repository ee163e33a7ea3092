package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder records database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

const startTimeKey = "metrics:start_time"

func markStart(tx *gorm.DB) {
	tx.InstanceSet(startTimeKey, time.Now())
}

func recordAs(recorder MetricsRecorder, operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		start, ok := tx.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), tx.Error)
	}
}

// RegisterMetricsCallbacks times every select, insert, update and delete
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	cb := db.Callback()

	_ = cb.Query().Before("gorm:query").Register("metrics:query_before", markStart)
	_ = cb.Query().After("gorm:query").Register("metrics:query_after", recordAs(recorder, "select"))

	_ = cb.Create().Before("gorm:create").Register("metrics:create_before", markStart)
	_ = cb.Create().After("gorm:create").Register("metrics:create_after", recordAs(recorder, "insert"))

	_ = cb.Update().Before("gorm:update").Register("metrics:update_before", markStart)
	_ = cb.Update().After("gorm:update").Register("metrics:update_after", recordAs(recorder, "update"))

	_ = cb.Delete().Before("gorm:delete").Register("metrics:delete_before", markStart)
	_ = cb.Delete().After("gorm:delete").Register("metrics:delete_after", recordAs(recorder, "delete"))
}

// StartDBStatsCollector publishes pool stats every interval until done is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
