package metrics

import (
	"database/sql"
	"strings"
	"time"
)

var knownDBOperations = map[string]bool{
	"create": true,
	"query":  true,
	"update": true,
	"delete": true,
	"row":    true,
	"raw":    true,
}

// UpdateDBStats publishes a sql.DBStats snapshot. The pool reports wait
// totals since it was opened, so only the growth since the previous snapshot
// is added to the wait counters.
func (m *Metrics) UpdateDBStats(stats interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		s, ok := stats.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(s.OpenConnections))
		m.DBConnectionsInUse.Set(float64(s.InUse))
		m.DBConnectionsIdle.Set(float64(s.Idle))
		m.DBConnectionsMax.Set(float64(s.MaxOpenConnections))

		m.dbStatsMu.Lock()
		defer m.dbStatsMu.Unlock()
		if d := s.WaitCount - m.lastWaitCount; d > 0 {
			m.DBConnectionWaitTotal.Add(float64(d))
		}
		if d := s.WaitDuration - m.lastWaitDuration; d > 0 {
			m.DBConnectionWaitDuration.Add(d.Seconds())
		}
		m.lastWaitCount = s.WaitCount
		m.lastWaitDuration = s.WaitDuration
	})
}

// RecordDBQuery records the duration of one gorm statement and counts failures
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		if !knownDBOperations[operation] {
			operation = "other"
		}
		if table == "" {
			table = "unknown"
		}

		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
