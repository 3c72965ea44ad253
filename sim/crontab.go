package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Admitter accepts admission requests. Kernel implements it.
type Admitter interface {
	Run(path string, priority int)
}

// ScheduledJob is an admission request deferred to a given tick.
type ScheduledJob struct {
	Tick     int64
	Path     string
	Priority int
}

// Crontab runs deferred admission requests when the clock reaches their tick.
// Several jobs may share a tick; they run in registration order.
type Crontab struct {
	admitter Admitter
	jobs     map[int64][]ScheduledJob
	pending  int
	nextTick int64 // first tick not yet seen
}

// NewCrontab creates an empty crontab submitting to admitter.
// The caller subscribes it to the clock.
func NewCrontab(admitter Admitter) *Crontab {
	return &Crontab{admitter: admitter, jobs: make(map[int64][]ScheduledJob)}
}

// AddJob registers a job for tick. Ticks that already went by are rejected.
func (c *Crontab) AddJob(tick int64, path string, priority int) error {
	if tick < c.nextTick {
		return fmt.Errorf("crontab: tick %d already passed (next tick is %d)", tick, c.nextTick)
	}
	job := ScheduledJob{Tick: tick, Path: path, Priority: priority}
	c.jobs[tick] = append(c.jobs[tick], job)
	c.pending++
	logrus.Infof("Crontab: added job %s (priority %d) at tick %d", path, priority, tick)
	return nil
}

// Pending returns the number of jobs not yet run.
func (c *Crontab) Pending() int {
	return c.pending
}

// Tick runs every job registered for tick.
func (c *Crontab) Tick(tick int64) {
	c.nextTick = tick + 1
	jobs, ok := c.jobs[tick]
	if !ok {
		return
	}
	delete(c.jobs, tick)
	for _, job := range jobs {
		c.pending--
		logrus.Infof("[tick %07d] Crontab: running job %s (priority %d)", tick, job.Path, job.Priority)
		c.admitter.Run(job.Path, job.Priority)
	}
}
