package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordIndicators(_ *IndicatorEvent) error           { return nil }
func (n *NoopRecorder) RecordCorrelation(_ *CorrelationEvent) error        { return nil }
func (n *NoopRecorder) RecordPortfolio(_ *PortfolioEvent) error            { return nil }
func (n *NoopRecorder) RecentSnapshots(string, int) ([]SnapshotRow, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                       { return nil }
