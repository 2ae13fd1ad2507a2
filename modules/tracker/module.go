package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// TrackerModule owns task lists and tasks and applies the lifecycle rules.
type TrackerModule struct {
	db       *gorm.DB
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*TrackerModule)(nil)
var _ mono.ServiceProviderModule = (*TrackerModule)(nil)
var _ mono.EventEmitterModule = (*TrackerModule)(nil)
var _ mono.HealthCheckableModule = (*TrackerModule)(nil)

// NewModule creates a new TrackerModule on a migrated database.
func NewModule(db *gorm.DB) *TrackerModule {
	return &TrackerModule{db: db}
}

// Name returns the module name.
func (m *TrackerModule) Name() string {
	return "tracker"
}

// SetEventBus receives the event bus used to publish tracker events.
func (m *TrackerModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events published by this module.
func (m *TrackerModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskAssignedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TasksOverdueV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TrackerModule) RegisterServices(container mono.ServiceContainer) error {
	if m.service == nil {
		m.service = m.newService()
	}

	regs := []struct {
		name     string
		register func() error
	}{
		{"create-task-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task-list", json.Unmarshal, json.Marshal, m.createTaskList)
		}},
		{"list-task-lists", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-task-lists", json.Unmarshal, json.Marshal, m.listTaskLists)
		}},
		{"get-task-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-task-list", json.Unmarshal, json.Marshal, m.getTaskList)
		}},
		{"update-task-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task-list", json.Unmarshal, json.Marshal, m.updateTaskList)
		}},
		{"delete-task-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task-list", json.Unmarshal, json.Marshal, m.deleteTaskList)
		}},
		{"task-list-stats", func() error {
			return helper.RegisterTypedRequestReplyService(container, "task-list-stats", json.Unmarshal, json.Marshal, m.taskListStats)
		}},
		{"create-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task", json.Unmarshal, json.Marshal, m.createTask)
		}},
		{"get-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-task", json.Unmarshal, json.Marshal, m.getTask)
		}},
		{"update-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task", json.Unmarshal, json.Marshal, m.updateTask)
		}},
		{"delete-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask)
		}},
		{"assign-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "assign-task", json.Unmarshal, json.Marshal, m.assignTask)
		}},
		{"transition-status", func() error {
			return helper.RegisterTypedRequestReplyService(container, "transition-status", json.Unmarshal, json.Marshal, m.transitionStatus)
		}},
		{"list-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks)
		}},
		{"overdue-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "overdue-tasks", json.Unmarshal, json.Marshal, m.overdueTasks)
		}},
		{"remind-overdue", func() error {
			return helper.RegisterTypedRequestReplyService(container, "remind-overdue", json.Unmarshal, json.Marshal, m.remindOverdue)
		}},
	}

	for _, r := range regs {
		if err := r.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", r.name, err)
		}
	}

	log.Printf("[tracker] Registered %d services", len(regs))
	return nil
}

// Start initializes the tracker module.
func (m *TrackerModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}
	if m.eventBus == nil {
		log.Println("[tracker] Warning: eventBus not set, events will not be published")
	}
	// The event bus may arrive after services were registered.
	m.service = m.newService()
	log.Println("[tracker] Module started")
	return nil
}

// Stop shuts down the module. The database is owned by the caller.
func (m *TrackerModule) Stop(_ context.Context) error {
	log.Println("[tracker] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TrackerModule) Health(_ context.Context) mono.HealthStatus {
	if err := storage.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"events_enabled": m.eventBus != nil,
		},
	}
}

func (m *TrackerModule) newService() *Service {
	var publisher EventPublisher
	if m.eventBus != nil {
		publisher = busPublisher{bus: m.eventBus}
	}
	return NewService(NewRepository(m.db), task.NewEngine(nil), publisher)
}
