package contract

import (
	"fmt"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	infraPlugin "github.com/felixgeelhaar/testlaunch/pkg/plugin"
)

// ContractSuite runs all contract assertions against an engine.
type ContractSuite struct {
	loader *infraPlugin.Loader
}

// NewContractSuite creates a new contract suite.
func NewContractSuite() *ContractSuite {
	return &ContractSuite{
		loader: infraPlugin.NewLoader(nil),
	}
}

// SuiteResult aggregates results from running the full contract suite.
type SuiteResult struct {
	Results []Result
	Passed  int
	Failed  int
}

func (sr *SuiteResult) add(result Result) {
	sr.Results = append(sr.Results, result)
	if result.Passed {
		sr.Passed++
	} else {
		sr.Failed++
	}
}

// RunWithEngine runs the contract suite against an already-loaded engine.
func (s *ContractSuite) RunWithEngine(e engine.TestEngine) *SuiteResult {
	assertions := []func(engine.TestEngine) Result{
		AssertDescriptor,
		AssertInitWithBadConfig,
		AssertDiscoverReportsEngine,
		AssertDiscoveryTreeConsistent,
		AssertExecuteCoversDiscovery,
		AssertUnmatchedSelectorIsEmpty,
	}

	sr := &SuiteResult{}
	for _, assert := range assertions {
		sr.add(assert(e))
	}
	return sr
}

// RunBinary loads an engine plugin binary and runs the full contract suite.
// Init is exercised through the loader, since a loaded plugin is already
// initialized.
func (s *ContractSuite) RunBinary(path string, config map[string]string) (*SuiteResult, error) {
	defer s.loader.Cleanup()

	badConfig := Result{Name: "InitWithBadConfig", Passed: true, Message: "Load correctly failed for fail=true config"}
	if _, err := s.loader.Load(path, map[string]string{"fail": "true"}); err == nil {
		badConfig = Result{Name: "InitWithBadConfig", Passed: false, Message: "expected Load to fail with fail=true config"}
	}
	s.loader.Cleanup()

	e, err := s.loader.Load(path, config)
	if err != nil {
		return nil, fmt.Errorf("load plugin: %w", err)
	}

	sr := &SuiteResult{}
	for _, r := range s.RunWithEngine(e).Results {
		if r.Name == badConfig.Name {
			r = badConfig
		}
		sr.add(r)
	}
	return sr, nil
}
