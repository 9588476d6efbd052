package testutil

import (
	"context"

	"github.com/kbukum/whisperd/component"
)

// StaticComponent is a component with fixed lifecycle results, useful for
// exercising the registry and bootstrap without real infrastructure.
type StaticComponent struct {
	ComponentName string
	StartErr      error
	StopErr       error
	Status        component.HealthStatus

	Started bool
	Stopped bool
}

var _ component.Component = (*StaticComponent)(nil)

// NewStaticComponent returns a healthy component named name.
func NewStaticComponent(name string) *StaticComponent {
	return &StaticComponent{ComponentName: name, Status: component.StatusHealthy}
}

func (c *StaticComponent) Name() string { return c.ComponentName }

func (c *StaticComponent) Start(ctx context.Context) error {
	if c.StartErr != nil {
		return c.StartErr
	}
	c.Started = true
	return nil
}

func (c *StaticComponent) Stop(ctx context.Context) error {
	c.Stopped = true
	return c.StopErr
}

func (c *StaticComponent) Health(ctx context.Context) component.Health {
	return component.Health{Name: c.ComponentName, Status: c.Status}
}
