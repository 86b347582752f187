package plugin

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"
)

var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TESTLAUNCH_ENGINE",
	MagicCookieValue: "testlaunch",
}

// EngineKey is the name engines are served and dispensed under.
const EngineKey = "engine"

var PluginMap = map[string]goplugin.Plugin{
	EngineKey: &engine.EnginePlugin{},
}

// Loader starts engine plugin binaries and keeps their processes until
// Cleanup. Every Load starts its own process, so one binary can back
// several engines with different configuration.
type Loader struct {
	plugins     []*goplugin.Client
	logger      hclog.Logger
	retryConfig retry.Config
}

// NewLoader creates a loader. A nil logger discards plugin output.
func NewLoader(logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{
		logger: logger,
		retryConfig: retry.Config{
			MaxAttempts:   2,
			InitialDelay:  50 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Load starts the plugin at path, hands it config and fetches its descriptor.
func (l *Loader) Load(path string, config map[string]string) (engine.TestEngine, error) {
	absPath, err := validatePath(path)
	if err != nil {
		return nil, err
	}
	retryer := retry.New[*started](l.retryConfig)
	proc, err := retryer.Do(context.Background(), func(ctx context.Context) (*started, error) {
		return l.start(absPath)
	})
	if err != nil {
		return nil, err
	}
	rpcEngine := proc.engine

	if config == nil {
		config = map[string]string{}
	}
	if err := rpcEngine.Init(config); err != nil {
		l.kill(proc.client)
		return nil, fmt.Errorf("failed to initialize engine plugin: %w", err)
	}

	desc, err := rpcEngine.Describe()
	if err != nil {
		l.kill(proc.client)
		return nil, fmt.Errorf("failed to describe engine plugin: %w", err)
	}
	if desc.ID == "" {
		l.kill(proc.client)
		return nil, fmt.Errorf("engine plugin %s reported an empty id", absPath)
	}

	l.logger.Debug("engine plugin loaded", "path", absPath, "engine", desc.ID)
	return &remoteEngine{client: rpcEngine, desc: desc}, nil
}

// started is a running plugin process and its dispensed engine.
type started struct {
	client *goplugin.Client
	engine *engine.EngineRPCClient
}

func (l *Loader) start(absPath string) (*started, error) {
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(absPath),
		Logger:          l.logger,
		AllowedProtocols: []goplugin.Protocol{
			goplugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to create plugin client: %w", err)
	}

	raw, err := rpcClient.Dispense(EngineKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	rpcEngine, ok := raw.(*engine.EngineRPCClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin dispensed unexpected type %T", raw)
	}

	l.plugins = append(l.plugins, client)
	return &started{client: client, engine: rpcEngine}, nil
}

func (l *Loader) kill(client *goplugin.Client) {
	client.Kill()
	for i, c := range l.plugins {
		if c == client {
			l.plugins = append(l.plugins[:i], l.plugins[i+1:]...)
			break
		}
	}
}

// Cleanup kills every plugin process started by this loader.
func (l *Loader) Cleanup() {
	for _, client := range l.plugins {
		client.Kill()
	}
	l.plugins = nil
}

func validatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid plugin path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("plugin not found: %s", absPath)
		}
		return "", fmt.Errorf("cannot access plugin: %w", err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("plugin path is a directory: %s", absPath)
	}

	// Check executable permission on Unix systems
	if runtime.GOOS != "windows" {
		if info.Mode()&0111 == 0 {
			return "", fmt.Errorf("plugin is not executable: %s", absPath)
		}
	}
	return absPath, nil
}

// remoteEngine adapts an RPC client to engine.TestEngine with the
// descriptor fetched once at load time.
type remoteEngine struct {
	client *engine.EngineRPCClient
	desc   engine.Descriptor
}

func (e *remoteEngine) Descriptor() engine.Descriptor { return e.desc }

func (e *remoteEngine) Discover(req *engine.Request) (*engine.DiscoveryReport, error) {
	return e.client.Discover(req)
}

func (e *remoteEngine) Execute(req *engine.Request) (*engine.ExecutionReport, error) {
	return e.client.Execute(req)
}
