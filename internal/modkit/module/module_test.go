package module

import (
	"context"
	"testing"

	phttp "lectern/internal/platform/net/http"
)

type runner interface{ Run(context.Context) error }

type noopRunner struct{}

func (noopRunner) Run(context.Context) error { return nil }

type warmPorts struct {
	Runner runner
	hidden runner
}

type stubModule struct{ ports any }

func (s stubModule) MountRoutes(phttp.Router) {}
func (s stubModule) Ports() any               { return s.ports }
func (s stubModule) Name() string             { return "warm" }

func TestPortsOf(t *testing.T) {
	t.Parallel()
	direct := stubModule{ports: warmPorts{Runner: noopRunner{}}}
	if _, ok := PortsOf[warmPorts](direct); !ok {
		t.Fatalf("ports value itself should match")
	}
	if r, ok := PortsOf[runner](direct); !ok || r == nil {
		t.Fatalf("exported field should match")
	}
	if _, ok := PortsOf[runner](stubModule{ports: &warmPorts{Runner: noopRunner{}}}); !ok {
		t.Fatalf("pointer ports should be walked")
	}
	if _, ok := PortsOf[runner](stubModule{ports: warmPorts{hidden: noopRunner{}}}); ok {
		t.Fatalf("unexported fields must be skipped")
	}
	if _, ok := PortsOf[runner](stubModule{}); ok {
		t.Fatalf("nil ports should not match")
	}
	if _, ok := PortsOf[runner](stubModule{ports: (*warmPorts)(nil)}); ok {
		t.Fatalf("typed nil ports should not match")
	}
}

func TestMustPortsOf_PanicsWithName(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		if r != "module: requested port not found on module warm" {
			t.Fatalf("panic = %v", r)
		}
	}()
	MustPortsOf[runner](stubModule{ports: 3})
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("warm", warmPorts{Runner: noopRunner{}})
	if p, ok := PortsAs[warmPorts]("warm"); !ok || p.Runner == nil {
		t.Fatalf("PortsAs = %+v %v", p, ok)
	}
	if _, ok := PortsAs[int]("warm"); ok {
		t.Fatalf("wrong type should not match")
	}
	if _, ok := PortsAs[warmPorts]("documents"); ok {
		t.Fatalf("unknown name should not match")
	}
	Register("warm", 7)
	if v, ok := PortsAs[int]("warm"); !ok || v != 7 {
		t.Fatalf("re-register should replace, got %v", v)
	}
}
