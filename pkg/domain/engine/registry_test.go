package engine_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

type stubEngine struct {
	desc engine.Descriptor
}

func (s *stubEngine) Descriptor() engine.Descriptor { return s.desc }

func (s *stubEngine) Discover(req *engine.Request) (*engine.DiscoveryReport, error) {
	return &engine.DiscoveryReport{EngineID: s.desc.ID}, nil
}

func (s *stubEngine) Execute(req *engine.Request) (*engine.ExecutionReport, error) {
	return &engine.ExecutionReport{EngineID: s.desc.ID}, nil
}

func stub(id string) engine.TestEngine {
	return &stubEngine{desc: engine.Descriptor{ID: id}}
}

type failingRegistry struct{ err error }

func (f failingRegistry) LoadAll() ([]engine.TestEngine, error) { return nil, f.err }

type closingRegistry struct {
	engine.StaticRegistry
	closed bool
}

func (c *closingRegistry) Close() error {
	c.closed = true
	return nil
}

func ids(engines []engine.TestEngine) []string {
	out := make([]string, len(engines))
	for i, e := range engines {
		out[i] = e.Descriptor().ID
	}
	return out
}

func TestStaticRegistry(t *testing.T) {
	r := engine.NewStaticRegistry(stub("b"), stub("a"))

	engines, err := r.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(engines) != 2 {
		t.Fatalf("expected 2 engines, got %d", len(engines))
	}

	// mutating the returned slice must not affect the registry
	engines[0] = stub("z")
	again, _ := r.LoadAll()
	if again[0].Descriptor().ID != "b" {
		t.Fatalf("registry was mutated through LoadAll result: %v", ids(again))
	}
}

func TestCompositeRegistry(t *testing.T) {
	t.Run("merges members", func(t *testing.T) {
		c := engine.CompositeRegistry{
			engine.NewStaticRegistry(stub("a")),
			engine.NewStaticRegistry(stub("b"), stub("c")),
		}
		engines, err := c.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		if len(engines) != 3 {
			t.Fatalf("expected 3 engines, got %v", ids(engines))
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		c := engine.CompositeRegistry{
			engine.NewStaticRegistry(stub("a")),
			engine.NewStaticRegistry(stub("a")),
		}
		_, err := c.LoadAll()
		if !errors.Is(err, engine.ErrDuplicateEngine) {
			t.Fatalf("expected ErrDuplicateEngine, got %v", err)
		}
	})

	t.Run("propagates member errors", func(t *testing.T) {
		boom := errors.New("boom")
		c := engine.CompositeRegistry{engine.NewStaticRegistry(stub("a")), failingRegistry{err: boom}}
		if _, err := c.LoadAll(); !errors.Is(err, boom) {
			t.Fatalf("expected member error, got %v", err)
		}
	})

	t.Run("closes closable members", func(t *testing.T) {
		closable := &closingRegistry{}
		c := engine.CompositeRegistry{engine.NewStaticRegistry(), closable}
		if err := c.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !closable.closed {
			t.Fatal("expected member to be closed")
		}
	})
}

func TestSortByID(t *testing.T) {
	engines := []engine.TestEngine{stub("c-engine"), stub("a-engine"), stub("b-engine")}
	engine.SortByID(engines)
	got := ids(engines)
	want := []string{"a-engine", "b-engine", "c-engine"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortByID = %v, want %v", got, want)
		}
	}
}
