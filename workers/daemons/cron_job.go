package daemons

import (
	"time"

	"github.com/nubex/bankcore/jobs"
	"github.com/nubex/bankcore/jobs/cron"
)

type CronJob struct {
	Running bool
	Jobs    []jobs.Job
}

func NewCronJob() *CronJob {
	jobs := []jobs.Job{&cron.MarketPriceJob{}}

	return &CronJob{Running: true, Jobs: jobs}
}

func (c *CronJob) Stop() {
	c.Running = false
}

func (c *CronJob) Start() {
	for _, job := range c.Jobs {
		go c.Process(job)
	}

	for {
		time.Sleep(1 * time.Second)
	}
}

func (c *CronJob) Process(job jobs.Job) {
	for {
		if !c.Running {
			break
		}

		job.Process()
	}
}
