package asset

import "github.com/google/uuid"

// TaskID identifies the smallest unit of asset work. It embeds the
// owning RequestID so a bare task id can be traced back to its request
// without a side table.
type TaskID struct {
	uuid.UUID
	Request RequestID
}

func newTaskID(rid RequestID) TaskID {
	return TaskID{UUID: uuid.New(), Request: rid}
}

// CommandKind distinguishes the four task shapes.
type CommandKind int

const (
	CmdEnumerate CommandKind = iota
	CmdRead
	CmdLoad
	CmdFree
)

// Command is the unit of work a task performs; Read/Load/Free carry the
// target asset id, Enumerate is global.
type Command struct {
	Kind CommandKind
	ID   ID
}

func (c Command) equal(o Command) bool { return c.Kind == o.Kind && c.ID == o.ID }

type taskState int

const (
	taskPending taskState = iota
	taskProcessing
	taskDone
)

// task is the scheduler's internal bookkeeping for one unit of work.
type task struct {
	id      TaskID
	command Command
	deps    map[TaskID]struct{}
	state   taskState
}

func (t *task) runnable() bool {
	return t.state == taskPending && len(t.deps) == 0
}
