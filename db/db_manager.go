package db

import (
	"context"
	"sync"

	"picfolio/internal/logger"
	"picfolio/models"
)

// Operation represents a database operation that needs to be executed
type Operation struct {
	Execute func() error
	Result  chan error
}

// DBManager manages serialized write access to the database.
// SQLite allows one writer at a time, so writes funnel through one goroutine.
type DBManager struct {
	opQueue  chan Operation
	stopping chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewDBManager creates a new database manager
func NewDBManager() *DBManager {
	m := &DBManager{
		opQueue:  make(chan Operation, 100),
		stopping: make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	go m.worker()
	logger.Debug("Database access manager started")

	return m
}

// worker processes operations one at a time
func (m *DBManager) worker() {
	defer close(m.stopped)
	for {
		select {
		case op := <-m.opQueue:
			op.Result <- op.Execute()
		case <-m.stopping:
			return
		}
	}
}

// ExecuteOperation queues a write and waits for its result.
func (m *DBManager) ExecuteOperation(ctx context.Context, execute func() error) error {
	resultChan := make(chan error, 1)
	select {
	case m.opQueue <- Operation{Execute: execute, Result: resultChan}:
	case <-m.stopping:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-resultChan:
		return err
	case <-m.stopped:
		select {
		case err := <-resultChan:
			return err
		default:
			return ErrManagerStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the database manager and waits for the worker to exit.
func (m *DBManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopping) })
	<-m.stopped
}

// CreateUser serializes user inserts
func (m *DBManager) CreateUser(ctx context.Context, repo UserRepository, user *models.User) error {
	return m.ExecuteOperation(ctx, func() error {
		return repo.Create(ctx, user)
	})
}

// CreateEventLog serializes access to event log creation
func (m *DBManager) CreateEventLog(ctx context.Context, repo EventLogRepository, eventLog *models.EventLog) error {
	return m.ExecuteOperation(ctx, func() error {
		return repo.Create(ctx, eventLog)
	})
}
