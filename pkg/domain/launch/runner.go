package launch

// TestRunner is the delegated discovery/execution service. Both calls are
// synchronous and all-or-nothing; any error is a fault for the classifier.
type TestRunner interface {
	Discover(opts *Options) (*DiscoverySummary, error)
	Execute(opts *Options) (*ExecutionSummary, error)
}
