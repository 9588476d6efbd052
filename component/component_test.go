package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "model", health: Health{Name: "model", Status: StatusHealthy}}

	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "model"}
	r.Register(c)

	err := r.Register(&mockComponent{name: "model"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "model"}
	r.Register(c)

	got := r.Get("model")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "model" {
		t.Errorf("expected 'model', got %q", got.Name())
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry()
	got := r.Get("missing")
	if got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{
		name: "model", startOrder: &order,
		health: Health{Name: "model", Status: StatusHealthy},
	})
	r.Register(&mockComponent{
		name: "server", startOrder: &order,
		health: Health{Name: "server", Status: StatusHealthy},
	})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(order))
	}
	if order[0] != "model" || order[1] != "server" {
		t.Errorf("expected start order [model, server], got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "model", startErr: fmt.Errorf("binary not found")})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "model", stopOrder: &order, health: Health{Name: "model", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "server", stopOrder: &order, health: Health{Name: "server", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "metrics", stopOrder: &order, health: Health{Name: "metrics", Status: StatusHealthy}})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != "metrics" || order[1] != "server" || order[2] != "model" {
		t.Errorf("expected reverse stop order [metrics, server, model], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "model", stopOrder: &order})

	// Don't start, then stop
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name: "model", stopErr: fmt.Errorf("stop failed"),
		health: Health{Name: "model", Status: StatusHealthy},
	})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name:   "model",
		health: Health{Name: "model", Status: StatusHealthy, Message: "loaded"},
	})
	r.Register(&mockComponent{
		name:   "server",
		health: Health{Name: "server", Status: StatusUnhealthy, Message: "not listening"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected model healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected server unhealthy, got %s", results[1].Status)
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}

func TestStartAllRollsBackOnFailure(t *testing.T) {
	r := NewRegistry()
	started := []string{}
	stopped := []string{}

	r.Register(&mockComponent{name: "model", startOrder: &started, stopOrder: &stopped})
	r.Register(&mockComponent{name: "server", startOrder: &started, stopOrder: &stopped, startErr: fmt.Errorf("no free port")})
	r.Register(&mockComponent{name: "late", startOrder: &started, stopOrder: &stopped})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StartAll")
	}
	if !strings.Contains(err.Error(), "failed to start server") {
		t.Errorf("expected failing component in error, got %v", err)
	}
	if len(started) != 2 {
		t.Errorf("expected later components not to start, got %v", started)
	}
	if len(stopped) != 1 || stopped[0] != "model" {
		t.Errorf("expected started components to be stopped, got %v", stopped)
	}

	// A second StopAll has nothing left to stop.
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(stopped) != 1 {
		t.Errorf("expected no further stops, got %v", stopped)
	}
}

func TestAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "model"})
	r.Register(&mockComponent{name: "server"})

	all := r.All()
	if len(all) != 2 || all[0].Name() != "model" || all[1].Name() != "server" {
		t.Errorf("expected registration order, got %v", all)
	}
}
