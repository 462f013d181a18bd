// Package janitor runs the periodic reaping jobs: sessions idle past the
// session timeout are disconnected through the processor (so their room
// memberships cascade), and rooms idle past the room timeout are removed.
package janitor

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/metrics"
)

// Config tunes the reaping cadence and cutoffs.
type Config struct {
	// Interval between sweeps.
	Interval time.Duration

	// SessionIdle is the inactivity cutoff for sessions.
	SessionIdle time.Duration

	// RoomIdle is the inactivity cutoff for rooms.
	RoomIdle time.Duration
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.SessionIdle <= 0 {
		c.SessionIdle = 30 * time.Minute
	}
	if c.RoomIdle <= 0 {
		c.RoomIdle = 60 * time.Minute
	}
}

// Janitor owns the cron scheduler and the two sweep jobs.
type Janitor struct {
	cron     *cron.Cron
	sessions *session.Registry
	rooms    *lobby.Registry
	proc     *processor.Processor
	metrics  metrics.LobbyMetrics
	cfg      Config
}

// New builds a janitor over the registries. The processor is required: the
// session sweep goes through its disconnect path so room memberships
// cascade exactly like a transport drop.
func New(sessions *session.Registry, rooms *lobby.Registry, proc *processor.Processor, m metrics.LobbyMetrics, cfg Config) *Janitor {
	cfg.applyDefaults()
	if m == nil {
		m = metrics.NopLobby()
	}
	return &Janitor{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		rooms:    rooms,
		proc:     proc,
		metrics:  m,
		cfg:      cfg,
	}
}

// Start schedules the sweeps and runs the scheduler.
func (j *Janitor) Start() error {
	spec := fmt.Sprintf("@every %s", j.cfg.Interval)
	if _, err := j.cron.AddFunc(spec, j.reapSessions); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	if _, err := j.cron.AddFunc(spec, j.reapRooms); err != nil {
		return fmt.Errorf("schedule room sweep: %w", err)
	}
	j.cron.Start()
	logger.Info("Janitor started", "interval", j.cfg.Interval,
		"session_idle", j.cfg.SessionIdle, "room_idle", j.cfg.RoomIdle)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	logger.Info("Janitor stopped")
}

// reapSessions disconnects sessions idle past the cutoff. The cutoff logic
// lives in the session registry; the processor cascades the room leaves so
// the fan-out matches any other disconnect.
func (j *Janitor) reapSessions() {
	reaped := j.proc.ReapIdleSessions(j.cfg.SessionIdle)
	if reaped > 0 {
		j.metrics.RecordReaped("session", reaped)
		logger.Info("Idle sessions reaped", "count", reaped)
	}
}

// reapRooms removes rooms idle past the cutoff and clears the room binding
// from any member session that still carries it.
func (j *Janitor) reapRooms() {
	snaps := j.rooms.Reap(j.cfg.RoomIdle)
	for _, snap := range snaps {
		for _, m := range snap.Members {
			if s, err := j.sessions.Get(m.SessionID); err == nil {
				s.UnbindRoom(snap.ID)
			}
		}
	}
	if len(snaps) > 0 {
		j.metrics.RecordReaped("room", len(snaps))
		j.metrics.SetActiveRooms(j.rooms.Count())
		logger.Info("Idle rooms reaped", "count", len(snaps))
	}
}
