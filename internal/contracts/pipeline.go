package contracts

import "time"

// LayerStatus is the outcome of one pipeline layer.
type LayerStatus struct {
	Layer      string        `json:"layer"` // bronze, silver, gold
	Rows       int           `json:"rows"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Succeeded  bool          `json:"succeeded"`
	Error      string        `json:"error,omitempty"`
	OutputPath string        `json:"output_path,omitempty"`
}

// RunManifest records one bronze→silver→gold run. Persisted to the run
// cache so the API and CLI can report the latest run without re-reading
// layer files.
type RunManifest struct {
	RunID      string        `json:"run_id"`
	AsOfDate   time.Time     `json:"as_of_date"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Layers     []LayerStatus `json:"layers"`
	Succeeded  bool          `json:"succeeded"`
	Error      string        `json:"error,omitempty"`
}

// Succeed marks the manifest finished without error.
func (m *RunManifest) Succeed(at time.Time) {
	m.FinishedAt = at
	m.Succeeded = true
}

// Fail marks the manifest finished with err.
func (m *RunManifest) Fail(at time.Time, err error) {
	m.FinishedAt = at
	m.Succeeded = false
	if err != nil {
		m.Error = err.Error()
	}
}

// QualityReport is the result of per-layer data-quality checks. Elevated
// null rates and duplicate keys are reported here, not raised: only grain
// violations stop a run.
type QualityReport struct {
	Layer         string             `json:"layer"`
	RowCount      int                `json:"row_count"`
	ColumnCount   int                `json:"column_count"`
	NullRates     map[string]float64 `json:"null_rates"`
	DuplicateKeys int                `json:"duplicate_keys"`
	Issues        []string           `json:"issues"`
	Passed        bool               `json:"passed"`
}
