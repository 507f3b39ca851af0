package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Store states reported by the health monitor.
const (
	StateUnknown = "unknown"
	StateUp      = "up"
	StateDown    = "down"
)

// DefaultSchedule is used when no schedule is configured.
const DefaultSchedule = "@every 30s"

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the latest result of a store check.
type HealthStatus struct {
	Store     string    `json:"store"`
	CheckedAt time.Time `json:"checkedAt"`
	Latency   string    `json:"latency,omitempty"`
}

// HealthMonitor periodically pings the store on a cron schedule and keeps
// the last result for the health endpoint.
type HealthMonitor struct {
	pinger  Pinger
	timeout time.Duration
	cron    *cron.Cron
	now     func() time.Time

	mu     sync.RWMutex
	status HealthStatus
}

// NewHealthMonitor creates a monitor for pinger. schedule accepts standard
// cron expressions and descriptors such as "@every 30s".
func NewHealthMonitor(pinger Pinger, schedule string, timeout time.Duration) (*HealthMonitor, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid health check schedule %q: %w", schedule, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	m := &HealthMonitor{
		pinger:  pinger,
		timeout: timeout,
		cron:    cron.New(),
		now:     time.Now,
		status:  HealthStatus{Store: StateUnknown},
	}
	m.cron.Schedule(sched, cron.FuncJob(func() { m.Check(context.Background()) }))
	return m, nil
}

// Start runs one check immediately, then continues on the schedule.
func (m *HealthMonitor) Start() {
	log.Info().Msg("Starting store health monitor...")
	m.Check(context.Background())
	m.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish.
func (m *HealthMonitor) Stop() {
	<-m.cron.Stop().Done()
	log.Info().Msg("Stopped store health monitor.")
}

// Check pings the store once and records the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := m.now()
	err := m.pinger.Ping(ctx)
	status := HealthStatus{
		Store:     StateUp,
		CheckedAt: start.UTC(),
		Latency:   m.now().Sub(start).String(),
	}
	if err != nil {
		status.Store = StateDown
		log.Warn().Err(err).Msg("Store health check failed")
	}

	m.mu.Lock()
	previous := m.status.Store
	m.status = status
	m.mu.Unlock()

	if previous == StateDown && status.Store == StateUp {
		log.Info().Msg("Store is reachable again")
	}
	return status
}

// Status returns the latest recorded check.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
