package engine

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// TestEngine is the interface engines must implement.
type TestEngine interface {
	// Descriptor returns the engine's identity and optional provenance.
	Descriptor() Descriptor

	// Discover enumerates the tests matching req without running them.
	Discover(req *Request) (*DiscoveryReport, error)

	// Execute runs the tests matching req.
	Execute(req *Request) (*ExecutionReport, error)
}

// Configurable is implemented by engines that accept plugin configuration
// from the launcher's config file before first use.
type Configurable interface {
	Init(config map[string]string) error
}

// EnginePlugin is the implementation of plugin.Plugin so we can serve/consume this.
type EnginePlugin struct {
	Impl TestEngine
}

func (p *EnginePlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &EngineRPCServer{Impl: p.Impl}, nil
}

func (p *EnginePlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &EngineRPCClient{Client: c}, nil
}

// EngineRPCClient talks to an engine served from another process.
// Unlike TestEngine, every call can fail, including Describe.
type EngineRPCClient struct{ Client *rpc.Client }

func (g *EngineRPCClient) Init(config map[string]string) error {
	var resp interface{}
	return g.Client.Call("Plugin.Init", config, &resp)
}

func (g *EngineRPCClient) Describe() (Descriptor, error) {
	var resp Descriptor
	err := g.Client.Call("Plugin.Descriptor", new(interface{}), &resp)
	return resp, err
}

func (g *EngineRPCClient) Discover(req *Request) (*DiscoveryReport, error) {
	var resp DiscoveryReport
	if err := g.Client.Call("Plugin.Discover", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *EngineRPCClient) Execute(req *Request) (*ExecutionReport, error) {
	var resp ExecutionReport
	if err := g.Client.Call("Plugin.Execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type EngineRPCServer struct{ Impl TestEngine }

func (s *EngineRPCServer) Init(config map[string]string, resp *interface{}) error {
	if c, ok := s.Impl.(Configurable); ok {
		return c.Init(config)
	}
	return nil
}

func (s *EngineRPCServer) Descriptor(args interface{}, resp *Descriptor) error {
	*resp = s.Impl.Descriptor()
	return nil
}

func (s *EngineRPCServer) Discover(req *Request, resp *DiscoveryReport) error {
	report, err := s.Impl.Discover(req)
	if report != nil {
		*resp = *report
	}
	return err
}

func (s *EngineRPCServer) Execute(req *Request, resp *ExecutionReport) error {
	report, err := s.Impl.Execute(req)
	if report != nil {
		*resp = *report
	}
	return err
}
