package metrics

// IncrementProjectCreated increments project creation counter
func (m *Metrics) IncrementProjectCreated() {
	m.safeExecute("IncrementProjectCreated", func() {
		m.ProjectCreatedTotal.Inc()
	})
}

// IncrementUpdateCreated increments update creation counter
func (m *Metrics) IncrementUpdateCreated() {
	m.safeExecute("IncrementUpdateCreated", func() {
		m.UpdateCreatedTotal.Inc()
	})
}

// RecordMediaStored counts media stored on the given backend ("s3" or "local")
func (m *Metrics) RecordMediaStored(backend string, n int) {
	m.safeExecute("RecordMediaStored", func() {
		m.MediaStoredTotal.WithLabelValues(backend).Add(float64(n))
	})
}

// RecordMediaCleanupFailure counts a media file left behind in storage
func (m *Metrics) RecordMediaCleanupFailure(backend string) {
	m.safeExecute("RecordMediaCleanupFailure", func() {
		m.MediaCleanupFailures.WithLabelValues(backend).Inc()
	})
}

// RecordRollback counts a rolled back transaction
func (m *Metrics) RecordRollback(operation string) {
	m.safeExecute("RecordRollback", func() {
		m.TransactionRollbacks.WithLabelValues(operation).Inc()
	})
}

// AddStagedFilesSwept counts abandoned staged uploads removed by the sweeper
func (m *Metrics) AddStagedFilesSwept(n int) {
	m.safeExecute("AddStagedFilesSwept", func() {
		m.StagedFilesSweptTotal.Add(float64(n))
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}

// SetUpdatesTotal sets total updates gauge
func (m *Metrics) SetUpdatesTotal(count int64) {
	m.safeExecute("SetUpdatesTotal", func() {
		m.UpdatesTotal.Set(float64(count))
	})
}

// SetMediaTotal sets total media gauge
func (m *Metrics) SetMediaTotal(count int64) {
	m.safeExecute("SetMediaTotal", func() {
		m.MediaTotal.Set(float64(count))
	})
}
