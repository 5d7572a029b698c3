package asset

import "fmt"

// Task is the read-only view of a unit of work handed to the hub by
// peek. Commands name Enumerate (global) or Read/Load/Free of an id.
type Task struct {
	ID      TaskID
	Command Command
}

// PeekResult is the outcome of one Scheduler.Peek call.
type PeekResult struct {
	kind   peekKind
	task   Task
	taskID TaskID
	err    error
}

type peekKind int

const (
	peekPeeked peekKind = iota
	peekEmptyUnwrap
	peekNoPendingTasks
	peekUnwrapFailed
)

func (p PeekResult) IsPeeked() (Task, bool)        { return p.task, p.kind == peekPeeked }
func (p PeekResult) IsEmptyUnwrap() (TaskID, bool) { return p.taskID, p.kind == peekEmptyUnwrap }
func (p PeekResult) IsNoPendingTasks() bool        { return p.kind == peekNoPendingTasks }
func (p PeekResult) IsUnwrapFailed() (TaskID, error, bool) {
	return p.taskID, p.err, p.kind == peekUnwrapFailed
}

// DoneResult is the outcome of one Scheduler.TaskFinished call.
type DoneResult struct {
	RequestFinished bool
	Request         RequestID
	Err             error
}

type promiseState int

const (
	promisePending promiseState = iota
	promiseUnwrapped
)

type promise struct {
	state   promiseState
	request RequestID
	req     Request
	tasks   []*task
}

// Scheduler lowers a FIFO queue of user requests into runnable task DAGs
// and hands one runnable task at a time to the hub.
type Scheduler struct {
	promises []*promise
	peekable bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Request enqueues a user intent and returns its id. Requests are
// guaranteed to be processed in the order they were enqueued.
func (s *Scheduler) Request(req Request) RequestID {
	rid := newRequestID()
	s.promises = append(s.promises, &promise{state: promisePending, request: rid, req: req})
	s.peekable = true
	return rid
}

type taskConstructor func(rid RequestID, reg *Registry, id ID, deps map[TaskID]struct{}) ([]*task, error)

func (s *Scheduler) collectTasksForAsset(
	rid RequestID, id ID, reg *Registry, withDeps bool, stack []ID, ctor taskConstructor,
) ([]*task, error) {
	for _, seen := range stack {
		if seen == id {
			return nil, newErr("schedule", KindCircularDependency, string(id))
		}
	}

	var tasks []*task
	deps := make(map[TaskID]struct{})

	if withDeps {
		stack = append(stack, id)
		header, err := reg.GetHeader(id)
		if err != nil {
			return nil, err
		}
		for _, dep := range header.Dependencies {
			depTasks, err := s.collectTasksForAsset(rid, dep, reg, true, stack, ctor)
			if err != nil {
				return nil, err
			}
			for _, t := range depTasks {
				deps[t.id] = struct{}{}
			}
			tasks = append(tasks, depTasks...)
		}
		stack = stack[:len(stack)-1]
	}

	own, err := ctor(rid, reg, id, deps)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, own...)
	return tasks, nil
}

// collectTasksForQuery resolves a query to ids, lowers each into tasks,
// then merges tasks sharing an identical command: their dependency sets
// are unioned and dangling references to the merged-away id are
// rewritten to the surviving one.
func (s *Scheduler) collectTasksForQuery(
	rid RequestID, q Query, reg *Registry, withDeps bool, ctor taskConstructor,
) ([]*task, error) {
	ids := q.resolve(reg)

	var all []*task
	for _, id := range ids {
		tasks, err := s.collectTasksForAsset(rid, id, reg, withDeps, nil, ctor)
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
	}

	// Merge by command, unioning dependency sets.
	byCommand := make(map[Command]*task)
	var order []Command
	oldToSurvivor := make(map[TaskID]TaskID)
	for _, t := range all {
		if existing, ok := byCommand[t.command]; ok {
			for dep := range t.deps {
				existing.deps[dep] = struct{}{}
			}
			oldToSurvivor[t.id] = existing.id
		} else {
			merged := &task{id: t.id, command: t.command, deps: map[TaskID]struct{}{}, state: taskPending}
			for dep := range t.deps {
				merged.deps[dep] = struct{}{}
			}
			byCommand[t.command] = merged
			order = append(order, t.command)
			oldToSurvivor[t.id] = t.id
		}
	}

	// Build a lookup from any original task id to its command, so
	// dependency references (which point at original ids) can be
	// rewritten to the surviving merged task for that command.
	idToCommand := make(map[TaskID]Command)
	for _, t := range all {
		idToCommand[t.id] = t.command
	}

	merged := make([]*task, 0, len(order))
	for _, cmd := range order {
		t := byCommand[cmd]
		rewritten := make(map[TaskID]struct{}, len(t.deps))
		for dep := range t.deps {
			survivorCmd := idToCommand[dep]
			rewritten[byCommand[survivorCmd].id] = struct{}{}
		}
		t.deps = rewritten
		merged = append(merged, t)
	}

	return merged, nil
}

func readConstructor(rid RequestID, reg *Registry, id ID, deps map[TaskID]struct{}) ([]*task, error) {
	st, err := reg.GetState(id)
	if err != nil {
		return nil, err
	}
	if st.Kind == StateEmpty {
		return []*task{{id: newTaskID(rid), command: Command{Kind: CmdRead, ID: id}, deps: deps, state: taskPending}}, nil
	}
	return nil, nil
}

func loadConstructor(rid RequestID, reg *Registry, id ID, deps map[TaskID]struct{}) ([]*task, error) {
	st, err := reg.GetState(id)
	if err != nil {
		return nil, err
	}
	switch st.Kind {
	case StateEmpty:
		readTask := &task{id: newTaskID(rid), command: Command{Kind: CmdRead, ID: id}, deps: deps, state: taskPending}
		loadDeps := map[TaskID]struct{}{readTask.id: {}}
		loadTask := &task{id: newTaskID(rid), command: Command{Kind: CmdLoad, ID: id}, deps: loadDeps, state: taskPending}
		return []*task{readTask, loadTask}, nil
	case StateLoaded:
		// Already loaded: a no-op, never issuing Read I/O against a live asset.
		return nil, nil
	default: // StateRead
		return []*task{{id: newTaskID(rid), command: Command{Kind: CmdLoad, ID: id}, deps: deps, state: taskPending}}, nil
	}
}

func loadNoDepsConstructor(rid RequestID, reg *Registry, id ID, _ map[TaskID]struct{}) ([]*task, error) {
	st, err := reg.GetState(id)
	if err != nil {
		return nil, err
	}
	if st.Kind == StateLoaded {
		return nil, nil
	}
	return loadConstructor(rid, reg, id, map[TaskID]struct{}{})
}

func freeConstructor(rid RequestID, reg *Registry, id ID, deps map[TaskID]struct{}) ([]*task, error) {
	st, err := reg.GetState(id)
	if err != nil {
		return nil, err
	}
	if st.Kind == StateLoaded {
		return []*task{{id: newTaskID(rid), command: Command{Kind: CmdFree, ID: id}, deps: deps, state: taskPending}}, nil
	}
	return nil, nil
}

func (s *Scheduler) unwrap(rid RequestID, req Request, reg *Registry) ([]*task, error) {
	switch req.Kind {
	case RequestEnumerate:
		return []*task{{id: newTaskID(rid), command: Command{Kind: CmdEnumerate}, deps: map[TaskID]struct{}{}, state: taskPending}}, nil
	case RequestRead:
		return s.collectTasksForQuery(rid, req.Query, reg, true, readConstructor)
	case RequestReadNoDeps:
		return s.collectTasksForQuery(rid, req.Query, reg, false, readConstructor)
	case RequestLoad:
		return s.collectTasksForQuery(rid, req.Query, reg, true, loadConstructor)
	case RequestLoadNoDeps:
		return s.collectTasksForQuery(rid, req.Query, reg, false, loadNoDepsConstructor)
	case RequestFree:
		return s.collectTasksForQuery(rid, req.Query, reg, true, freeConstructor)
	case RequestFreeNoDeps:
		return s.collectTasksForQuery(rid, req.Query, reg, false, freeConstructor)
	default:
		return nil, fmt.Errorf("unknown request kind %d", req.Kind)
	}
}

// Peek selects the next runnable task, in FIFO request order. It never
// blocks: when nothing is runnable it returns NoPendingTasks and clears
// the internal peekable flag until TaskFinished re-arms it.
func (s *Scheduler) Peek(reg *Registry) PeekResult {
	if !s.peekable {
		return PeekResult{kind: peekNoPendingTasks}
	}

	if len(s.promises) == 0 {
		s.peekable = false
		return PeekResult{kind: peekNoPendingTasks}
	}

	head := s.promises[0]
	if head.state == promisePending {
		tasks, err := s.unwrap(head.request, head.req, reg)
		if err != nil {
			return PeekResult{kind: peekUnwrapFailed, taskID: newTaskID(head.request), err: err}
		}
		if len(tasks) == 0 {
			return PeekResult{kind: peekEmptyUnwrap, taskID: newTaskID(head.request)}
		}
		head.state = promiseUnwrapped
		head.tasks = tasks
	}

	for _, t := range head.tasks {
		if t.runnable() {
			t.state = taskProcessing
			return PeekResult{kind: peekPeeked, task: Task{ID: t.id, Command: t.command}}
		}
	}

	s.peekable = false
	return PeekResult{kind: peekNoPendingTasks}
}

// TaskFinished marks a task done (or failed) and, if it was the last
// task of its owning request, pops the request and reports completion.
func (s *Scheduler) TaskFinished(tid TaskID, result error) DoneResult {
	s.peekable = true
	rid := tid.Request

	index := -1
	for i, p := range s.promises {
		if p.request == rid {
			index = i
			break
		}
	}
	if index == -1 {
		return DoneResult{RequestFinished: true, Request: rid,
			Err: newErr("task_finished", KindUnknownRequest, rid.String())}
	}

	p := s.promises[index]

	// A promise still Pending here means its unwrap produced zero tasks
	// (PeekEmptyUnwrap) or failed (PeekUnwrapFailed): tid is a synthetic
	// id with no matching entry in p.tasks. Finish the request directly
	// rather than searching a task list that was never populated.
	if p.state == promisePending {
		s.promises = append(s.promises[:index], s.promises[index+1:]...)
		if result != nil {
			return DoneResult{RequestFinished: true, Request: rid, Err: result}
		}
		return DoneResult{RequestFinished: true, Request: rid}
	}

	if result == nil {
		taskIndex := -1
		for i, t := range p.tasks {
			if t.id == tid {
				taskIndex = i
				break
			}
		}
		if taskIndex == -1 {
			s.promises = append(s.promises[:index], s.promises[index+1:]...)
			return DoneResult{RequestFinished: true, Request: rid,
				Err: newErr("task_finished", KindUnknownTask, tid.String())}
		}

		p.tasks[taskIndex].state = taskDone
		done := p.tasks[taskIndex].id
		for _, t := range p.tasks {
			delete(t.deps, done)
		}

		allDone := true
		for _, t := range p.tasks {
			if t.state != taskDone {
				allDone = false
				break
			}
		}
		if !allDone {
			return DoneResult{}
		}
	}

	s.promises = append(s.promises[:index], s.promises[index+1:]...)
	if result != nil {
		return DoneResult{RequestFinished: true, Request: rid,
			Err: wrapErr("task_finished", KindTaskFailed, tid.String(), result)}
	}
	return DoneResult{RequestFinished: true, Request: rid}
}
