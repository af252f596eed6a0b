package core

// RiskStream is the external collaborator that supplies scorecards to the
// views. Delivery cadence and recovery are up to the implementation.
type RiskStream interface {
	// CurrentData returns a copy of the latest scorecards in stream order.
	CurrentData() []Scorecard

	// Subscribe registers fn to be called with the new scorecards whenever
	// they change. The returned cancel func is safe to call more than once.
	Subscribe(fn func([]Scorecard)) (cancel func())

	// ConnectionStatus reports the current status of the stream.
	ConnectionStatus() ConnectionStatus
}

// WritableRiskStream is a RiskStream whose data can be replaced directly.
type WritableRiskStream interface {
	RiskStream

	// SetData replaces the current scorecards and notifies subscribers.
	SetData(records []Scorecard)
}
