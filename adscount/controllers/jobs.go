package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adscount/adscount/config"
	"adscount/adscount/services/batch"
	"adscount/adscount/sources/table"
	"adscount/adscount/utils/logging"
	"adscount/adscount/utils/types"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrJobNotPending = errors.New("job already started")
	ErrJobNotDone    = errors.New("job has no result yet")
)

type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// JobSnapshot is the JSON view of a job.
type JobSnapshot struct {
	ID      string     `json:"id"`
	Status  JobStatus  `json:"status"`
	Current int        `json:"current"`
	Total   int        `json:"total"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
	Preview [][]string `json:"preview,omitempty"`
}

const previewRows = 5

type job struct {
	mu         sync.Mutex
	snap       JobSnapshot
	inputPath  string
	outputPath string
	subs       []chan types.ProgressEvent
}

func (j *job) snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.snap
}

// publish updates the job state and fans the event out to subscribers.
// Slow subscribers lose events rather than stall the batch.
func (j *job) publish(ev types.ProgressEvent) {
	j.mu.Lock()
	j.snap.Current, j.snap.Total, j.snap.Message = ev.Current, ev.Total, ev.Message
	subs := make([]chan types.ProgressEvent, len(j.subs))
	copy(subs, j.subs)
	j.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (j *job) finish(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.snap.Status = JobFailed
		j.snap.Error = err.Error()
	} else {
		j.snap.Status = JobDone
	}
	for _, ch := range j.subs {
		close(ch)
	}
	j.subs = nil
}

// JobsController tracks scrape jobs for the upload/run/download flow. Jobs
// live in memory and their files in a temp dir; nothing survives a restart.
type JobsController struct {
	cfg  config.Config
	dir  string
	mu   sync.Mutex
	jobs map[string]*job
}

func NewJobsController(cfg config.Config) (*JobsController, error) {
	dir, err := os.MkdirTemp("", "adscount-jobs-")
	if err != nil {
		return nil, fmt.Errorf("create jobs dir: %w", err)
	}
	return &JobsController{cfg: cfg, dir: dir, jobs: make(map[string]*job)}, nil
}

// CreateJob stores an uploaded CSV and registers a pending job. The table is
// validated up front so a missing URL column fails at upload, not mid-run.
func (c *JobsController) CreateJob(upload io.Reader) (JobSnapshot, error) {
	id := uuid.New().String()
	inputPath := filepath.Join(c.dir, id+"-input.csv")

	f, err := os.Create(inputPath)
	if err != nil {
		return JobSnapshot{}, fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(f, upload); err != nil {
		f.Close()
		return JobSnapshot{}, fmt.Errorf("store upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return JobSnapshot{}, fmt.Errorf("store upload: %w", err)
	}

	tbl, err := table.Load(inputPath)
	if err != nil {
		return JobSnapshot{}, err
	}
	if _, err := tbl.DetectURLColumn(); err != nil {
		return JobSnapshot{}, err
	}

	preview := [][]string{tbl.Header}
	for i := 0; i < len(tbl.Records) && i < previewRows; i++ {
		preview = append(preview, tbl.Records[i])
	}

	j := &job{
		snap: JobSnapshot{
			ID:      id,
			Status:  JobPending,
			Total:   len(tbl.Records),
			Preview: preview,
		},
		inputPath:  inputPath,
		outputPath: filepath.Join(c.dir, id+"-output.csv"),
	}
	c.mu.Lock()
	c.jobs[id] = j
	c.mu.Unlock()

	logging.AppLogger.Info("job created", zap.String("job_id", id), zap.Int("rows", len(tbl.Records)))
	return j.snapshot(), nil
}

// StartJob launches the batch in the background; each job runs at most once.
func (c *JobsController) StartJob(id string) (JobSnapshot, error) {
	j, ok := c.get(id)
	if !ok {
		return JobSnapshot{}, ErrJobNotFound
	}

	j.mu.Lock()
	if j.snap.Status != JobPending {
		j.mu.Unlock()
		return JobSnapshot{}, ErrJobNotPending
	}
	j.snap.Status = JobRunning
	j.mu.Unlock()

	go c.run(j)
	return j.snapshot(), nil
}

func (c *JobsController) run(j *job) {
	id := j.snapshot().ID
	err := batch.RunFile(context.Background(), c.cfg, j.inputPath, j.outputPath, func(current, total int, message string) {
		j.publish(types.ProgressEvent{Current: current, Total: total, Message: message})
	})
	if err != nil {
		logging.ErrorLogger.Error("job failed", zap.String("job_id", id), zap.Error(err))
	}
	j.finish(err)
}

func (c *JobsController) Snapshot(id string) (JobSnapshot, error) {
	j, ok := c.get(id)
	if !ok {
		return JobSnapshot{}, ErrJobNotFound
	}
	return j.snapshot(), nil
}

// Subscribe returns a channel of progress events for a job. The channel is
// closed when the job finishes; for an already-finished job it starts closed.
func (c *JobsController) Subscribe(id string) (<-chan types.ProgressEvent, func(), error) {
	j, ok := c.get(id)
	if !ok {
		return nil, nil, ErrJobNotFound
	}

	ch := make(chan types.ProgressEvent, 16)
	j.mu.Lock()
	if j.snap.Status == JobDone || j.snap.Status == JobFailed {
		close(ch)
		j.mu.Unlock()
		return ch, func() {}, nil
	}
	j.subs = append(j.subs, ch)
	j.mu.Unlock()

	cancel := func() {
		j.mu.Lock()
		defer j.mu.Unlock()
		for i, sub := range j.subs {
			if sub == ch {
				j.subs = append(j.subs[:i], j.subs[i+1:]...)
				return
			}
		}
	}
	return ch, cancel, nil
}

// ResultPath returns the output CSV path for a finished job.
func (c *JobsController) ResultPath(id string) (string, error) {
	j, ok := c.get(id)
	if !ok {
		return "", ErrJobNotFound
	}
	if j.snapshot().Status != JobDone {
		return "", ErrJobNotDone
	}
	return j.outputPath, nil
}

func (c *JobsController) get(id string) (*job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	j, ok := c.jobs[id]
	return j, ok
}
