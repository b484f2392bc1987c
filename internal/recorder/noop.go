package recorder

import "TrendSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ []*ScanRecord) error        { return nil }
func (n *NoopRecorder) RecordSignal(_ *model.TradeSignal) error { return nil }
func (n *NoopRecorder) RecordTrade(_ *model.ClosedTrade) error  { return nil }
func (n *NoopRecorder) Close() error                            { return nil }
