// Package kanban holds the status board of one project: tasks partitioned
// into the four fixed columns, with optimistic status transitions.
//
// A transition is written locally before the backend is asked. When the
// backend refuses, the task goes back to the status it had, unless a later
// transition on the same task has happened since.
package kanban

import (
	"context"
	"errors"
	"fmt"

	"github.com/existflow/rbacconsole/internal/model"
)

var (
	ErrUnknownTask   = errors.New("task is not on this board")
	ErrSameStatus    = errors.New("task already has that status")
	ErrInvalidStatus = errors.New("not a board status")
)

// TaskLister loads a project's tasks
type TaskLister interface {
	ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
}

// StatusUpdater persists a status change
type StatusUpdater interface {
	UpdateTaskStatus(ctx context.Context, id string, status model.Status) error
}

// Column is one status bucket
type Column struct {
	Status model.Status
	Tasks  []model.Task
}

// Partition splits tasks into the four columns in fixed order. Order within
// a column follows the input; tasks with any other status are left out.
func Partition(tasks []model.Task) []Column {
	cols := make([]Column, len(model.Statuses))
	index := make(map[model.Status]int, len(model.Statuses))
	for i, s := range model.Statuses {
		cols[i] = Column{Status: s}
		index[s] = i
	}

	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

// Option is a destination control for a task
type Option struct {
	Status  model.Status
	Enabled bool
}

// Options lists one control per status; the task's own status is disabled.
func Options(t model.Task) []Option {
	opts := make([]Option, len(model.Statuses))
	for i, s := range model.Statuses {
		opts[i] = Option{Status: s, Enabled: s != t.Status}
	}
	return opts
}

// Transition records one optimistic status change
type Transition struct {
	TaskID string
	From   model.Status
	To     model.Status
	seq    uint64
	epoch  uint64
}

// Board is the local copy of a project's tasks
type Board struct {
	projectID string
	tasks     []model.Task
	loaded    bool
	seq       map[string]uint64
	pending   map[string]int
	// epoch advances on every Replace; transitions from an older epoch
	// never touch the list.
	epoch uint64
}

// New creates an empty board for projectID
func New(projectID string) *Board {
	return &Board{
		projectID: projectID,
		seq:       make(map[string]uint64),
		pending:   make(map[string]int),
	}
}

// ProjectID returns the project the board shows
func (b *Board) ProjectID() string {
	return b.projectID
}

// Loaded reports whether the initial fetch has completed
func (b *Board) Loaded() bool {
	return b.loaded
}

// Replace swaps the whole task list, as the initial load does. Transitions
// issued before the swap are forgotten.
func (b *Board) Replace(tasks []model.Task) {
	b.tasks = append([]model.Task(nil), tasks...)
	b.loaded = true
	b.epoch++
	b.pending = make(map[string]int)
}

// Fetch loads the project's tasks and replaces the board's list
func (b *Board) Fetch(ctx context.Context, lister TaskLister) error {
	tasks, err := lister.ListTasksByProject(ctx, b.projectID)
	if err != nil {
		return fmt.Errorf("load tasks for %s: %w", b.projectID, err)
	}
	b.Replace(tasks)
	return nil
}

// Tasks returns a copy of the local list
func (b *Board) Tasks() []model.Task {
	return append([]model.Task(nil), b.tasks...)
}

// Columns partitions the local list
func (b *Board) Columns() []Column {
	return Partition(b.tasks)
}

// Task looks up a task by id
func (b *Board) Task(id string) (model.Task, bool) {
	if i := b.find(id); i >= 0 {
		return b.tasks[i], true
	}
	return model.Task{}, false
}

// Pending reports whether a transition on id awaits the backend
func (b *Board) Pending(id string) bool {
	return b.pending[id] > 0
}

func (b *Board) find(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Move writes status to in the local list and returns the transition the
// caller must commit.
func (b *Board) Move(id string, to model.Status) (Transition, error) {
	if !to.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	i := b.find(id)
	if i < 0 {
		return Transition{}, ErrUnknownTask
	}
	from := b.tasks[i].Status
	if from == to {
		return Transition{}, ErrSameStatus
	}

	b.seq[id]++
	b.pending[id]++
	b.tasks[i].Status = to
	return Transition{TaskID: id, From: from, To: to, seq: b.seq[id], epoch: b.epoch}, nil
}

// Settle records the backend's answer to tr. On failure the task returns to
// tr.From if tr is still its latest transition and the list has not been
// replaced since; the return value says whether that happened.
func (b *Board) Settle(tr Transition, err error) (rolledBack bool) {
	if tr.epoch != b.epoch {
		return false
	}
	if b.pending[tr.TaskID] > 0 {
		b.pending[tr.TaskID]--
	}
	if err == nil {
		return false
	}

	i := b.find(tr.TaskID)
	if i < 0 || b.seq[tr.TaskID] != tr.seq {
		return false
	}
	b.tasks[i].Status = tr.From
	return true
}

// Commit sends tr to the backend and settles it. It does not touch the
// board until the call returns, so callers on a single event loop should
// run Send in the background and Settle on the loop instead.
func (b *Board) Commit(ctx context.Context, updater StatusUpdater, tr Transition) error {
	err := Send(ctx, updater, tr)
	b.Settle(tr, err)
	return err
}

// Send performs the backend call for tr without touching any board
func Send(ctx context.Context, updater StatusUpdater, tr Transition) error {
	if err := updater.UpdateTaskStatus(ctx, tr.TaskID, tr.To); err != nil {
		return fmt.Errorf("move %s to %s: %w", tr.TaskID, tr.To, err)
	}
	return nil
}
