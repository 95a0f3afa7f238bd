// Package asyncrt implements the narrow concurrency seam of the
// runtime: native "spawn" primitives run on fresh goroutines
// exchanging only serializable values; tasks and channels are exposed
// to scripts as plain maps carrying an opaque numeric id, resolved
// through a registry guarded by a mutex.
package asyncrt

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mochacinno-dev/zephyr/internal/evaluator"
)

const pollInterval = 2 * time.Millisecond

type task struct {
	mu     sync.Mutex
	done   bool
	result evaluator.Value // always an Ok(...)/Err(...) Result
}

func (t *task) finish(v evaluator.Value) {
	t.mu.Lock()
	t.result = v
	t.done = true
	t.mu.Unlock()
}

func (t *task) poll() (evaluator.Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.done
}

type channel struct {
	queue    chan evaluator.Value
	capacity int // 0 == unbounded (backed by a 4096-slot buffer)
}

// runtime holds the task/channel registries and implements
// evaluator.AsyncRuntime so the core evaluator can resolve the
// `await` keyword without depending on this package.
type runtime struct {
	taskMu     sync.Mutex
	tasks      map[uint64]*task
	taskSeq    uint64
	chanMu     sync.Mutex
	channels   map[uint64]*channel
	chanSeq    uint64
}

// Register wires the async native functions and concurrency runtime
// onto interp.
func Register(interp *evaluator.Interpreter) {
	rt := &runtime{
		tasks:    make(map[uint64]*task),
		channels: make(map[uint64]*channel),
	}
	interp.Async = rt
	for name, fn := range rt.table() {
		interp.RegisterNative(name, fn)
	}
}

func (rt *runtime) newTask() (uint64, *task) {
	id := atomic.AddUint64(&rt.taskSeq, 1)
	t := &task{}
	rt.taskMu.Lock()
	rt.tasks[id] = t
	rt.taskMu.Unlock()
	return id, t
}

func (rt *runtime) lookupTask(id uint64) (*task, bool) {
	rt.taskMu.Lock()
	defer rt.taskMu.Unlock()
	t, ok := rt.tasks[id]
	return t, ok
}

func taskHandle(id uint64) evaluator.Value {
	m := evaluator.NewMap()
	m.Set("__task_id", &evaluator.Int{Value: int64(id)})
	m.Set("__is_task", &evaluator.Bool{Value: true})
	return m
}

func taskID(v evaluator.Value) (uint64, bool) {
	m, ok := v.(*evaluator.Map)
	if !ok {
		return 0, false
	}
	isTask, ok := m.Get("__is_task")
	if !ok || !evaluator.Truthy(isTask) {
		return 0, false
	}
	idv, ok := m.Get("__task_id")
	if !ok {
		return 0, false
	}
	iv, ok := idv.(*evaluator.Int)
	if !ok {
		return 0, false
	}
	return uint64(iv.Value), true
}

// Await implements evaluator.AsyncRuntime: busy-wait (poll + sleep) on
// a single task's completion, or a List of tasks in sequence.
func (rt *runtime) Await(v evaluator.Value) (evaluator.Value, error) {
	if list, ok := v.(*evaluator.List); ok {
		out := make([]evaluator.Value, len(list.Elems))
		for i, e := range list.Elems {
			r, err := rt.Await(e)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &evaluator.List{Elems: out}, nil
	}
	id, ok := taskID(v)
	if !ok {
		// Not a task handle: awaiting an already-resolved value is a
		// no-op pass-through.
		return v, nil
	}
	t, ok := rt.lookupTask(id)
	if !ok {
		return evaluator.ErrOf(&evaluator.String{Value: "await: unknown task"}), nil
	}
	for {
		if result, done := t.poll(); done {
			return result, nil
		}
		time.Sleep(pollInterval)
	}
}

func (rt *runtime) awaitAny(args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("await_any: expected 1 argument, got %d", len(args))
	}
	list, ok := args[0].(*evaluator.List)
	if !ok {
		return nil, fmt.Errorf("await_any: expected a List of tasks")
	}
	ids := make([]uint64, 0, len(list.Elems))
	for _, e := range list.Elems {
		if id, ok := taskID(e); ok {
			ids = append(ids, id)
		}
	}
	for {
		for _, id := range ids {
			if t, ok := rt.lookupTask(id); ok {
				if result, done := t.poll(); done {
					return result, nil
				}
			}
		}
		time.Sleep(pollInterval)
	}
}

func (rt *runtime) awaitTimeout(args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("await_timeout: expected 2 arguments, got %d", len(args))
	}
	id, ok := taskID(args[0])
	if !ok {
		return nil, fmt.Errorf("await_timeout: expected a task handle")
	}
	ms, ok := args[1].(*evaluator.Int)
	if !ok {
		return nil, fmt.Errorf("await_timeout: expected an Int millisecond budget")
	}
	t, ok := rt.lookupTask(id)
	if !ok {
		return evaluator.ErrOf(&evaluator.String{Value: "await_timeout: unknown task"}), nil
	}
	deadline := time.Now().Add(time.Duration(ms.Value) * time.Millisecond)
	for time.Now().Before(deadline) {
		if result, done := t.poll(); done {
			return result, nil
		}
		time.Sleep(pollInterval)
	}
	return evaluator.ErrOf(&evaluator.String{Value: "timeout"}), nil
}

func (rt *runtime) table() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		"spawn_http":      rt.spawnHTTP,
		"spawn_http_post": rt.spawnHTTPPost,
		"spawn_exec":      rt.spawnExec,
		"sleep_async":     rt.sleepAsync,
		"await":           rt.awaitFn,
		"await_all":       rt.awaitAll,
		"await_any":       rt.awaitAny,
		"await_timeout":   rt.awaitTimeout,
		"task_is_done":    rt.taskIsDone,
		"channel":         rt.channelFn,
		"channel_bounded":  rt.channelBounded,
		"chan_send":       rt.chanSend,
		"chan_recv":       rt.chanRecv,
		"chan_try_recv":   rt.chanTryRecv,
	}
}

func (rt *runtime) awaitFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("await: expected 1 argument, got %d", len(args))
	}
	return rt.Await(args[0])
}

func (rt *runtime) awaitAll(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("await_all: expected 1 argument, got %d", len(args))
	}
	return rt.Await(args[0])
}

func (rt *runtime) taskIsDone(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("task_is_done: expected 1 argument, got %d", len(args))
	}
	id, ok := taskID(args[0])
	if !ok {
		return nil, fmt.Errorf("task_is_done: expected a task handle")
	}
	t, ok := rt.lookupTask(id)
	if !ok {
		return &evaluator.Bool{Value: false}, nil
	}
	_, done := t.poll()
	return &evaluator.Bool{Value: done}, nil
}

// spawn_http/spawn_http_post/spawn_exec/sleep_async run their work on
// a fresh goroutine and immediately return a task handle; they never
// touch evaluator state.

func (rt *runtime) spawnHTTP(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("spawn_http: expected 1 argument, got %d", len(args))
	}
	url, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("spawn_http: expected a String URL")
	}
	id, t := rt.newTask()
	go func() {
		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Get(url.Value)
		if err != nil {
			t.finish(evaluator.ErrOf(&evaluator.String{Value: err.Error()}))
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.finish(evaluator.ErrOf(&evaluator.String{Value: err.Error()}))
			return
		}
		t.finish(evaluator.OkOf(&evaluator.String{Value: string(b)}))
	}()
	return taskHandle(id), nil
}

func (rt *runtime) spawnHTTPPost(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("spawn_http_post: expected at least 2 arguments, got %d", len(args))
	}
	url, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("spawn_http_post: expected a String URL")
	}
	body, ok := args[1].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("spawn_http_post: expected a String body")
	}
	id, t := rt.newTask()
	go func() {
		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Post(url.Value, "application/json", strings.NewReader(body.Value))
		if err != nil {
			t.finish(evaluator.ErrOf(&evaluator.String{Value: err.Error()}))
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.finish(evaluator.ErrOf(&evaluator.String{Value: err.Error()}))
			return
		}
		t.finish(evaluator.OkOf(&evaluator.String{Value: string(b)}))
	}()
	return taskHandle(id), nil
}

func (rt *runtime) spawnExec(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("spawn_exec: expected 1 argument, got %d", len(args))
	}
	cmdline, ok := args[0].(*evaluator.String)
	if !ok {
		return nil, fmt.Errorf("spawn_exec: expected a String command")
	}
	id, t := rt.newTask()
	go func() {
		cmd := exec.Command("sh", "-c", cmdline.Value)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out
		if err := cmd.Run(); err != nil {
			t.finish(evaluator.ErrOf(&evaluator.String{Value: err.Error()}))
			return
		}
		t.finish(evaluator.OkOf(&evaluator.String{Value: out.String()}))
	}()
	return taskHandle(id), nil
}

func (rt *runtime) sleepAsync(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sleep_async: expected 1 argument, got %d", len(args))
	}
	ms, ok := args[0].(*evaluator.Int)
	if !ok {
		return nil, fmt.Errorf("sleep_async: expected an Int millisecond duration")
	}
	id, t := rt.newTask()
	go func() {
		time.Sleep(time.Duration(ms.Value) * time.Millisecond)
		t.finish(evaluator.OkOf(evaluator.NilValue))
	}()
	return taskHandle(id), nil
}

// ---- channels ----

func (rt *runtime) newChannel(capacity int) uint64 {
	id := atomic.AddUint64(&rt.chanSeq, 1)
	bufSize := capacity
	if bufSize == 0 {
		bufSize = 4096 // practically unbounded for script-level use
	}
	ch := &channel{queue: make(chan evaluator.Value, bufSize), capacity: capacity}
	rt.chanMu.Lock()
	rt.channels[id] = ch
	rt.chanMu.Unlock()
	return id
}

func (rt *runtime) lookupChannel(id uint64) (*channel, bool) {
	rt.chanMu.Lock()
	defer rt.chanMu.Unlock()
	ch, ok := rt.channels[id]
	return ch, ok
}

func channelHandle(id uint64) evaluator.Value {
	m := evaluator.NewMap()
	m.Set("__channel_id", &evaluator.Int{Value: int64(id)})
	m.Set("__is_channel", &evaluator.Bool{Value: true})
	return m
}

func channelID(v evaluator.Value) (uint64, bool) {
	m, ok := v.(*evaluator.Map)
	if !ok {
		return 0, false
	}
	isChan, ok := m.Get("__is_channel")
	if !ok || !evaluator.Truthy(isChan) {
		return 0, false
	}
	idv, ok := m.Get("__channel_id")
	if !ok {
		return 0, false
	}
	iv, ok := idv.(*evaluator.Int)
	if !ok {
		return 0, false
	}
	return uint64(iv.Value), true
}

func (rt *runtime) channelFn(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	return channelHandle(rt.newChannel(0)), nil
}

func (rt *runtime) channelBounded(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("channel_bounded: expected 1 argument, got %d", len(args))
	}
	n, ok := args[0].(*evaluator.Int)
	if !ok {
		return nil, fmt.Errorf("channel_bounded: expected an Int capacity")
	}
	return channelHandle(rt.newChannel(int(n.Value))), nil
}

func (rt *runtime) chanSend(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("chan_send: expected 2 arguments, got %d", len(args))
	}
	id, ok := channelID(args[0])
	if !ok {
		return nil, fmt.Errorf("chan_send: expected a channel handle")
	}
	ch, ok := rt.lookupChannel(id)
	if !ok {
		return evaluator.ErrOf(&evaluator.String{Value: "chan_send: unknown channel"}), nil
	}
	select {
	case ch.queue <- args[1]:
		return evaluator.OkOf(evaluator.NilValue), nil
	default:
		return evaluator.ErrOf(&evaluator.String{Value: "channel_send: would exceed capacity"}), nil
	}
}

func (rt *runtime) chanRecv(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("chan_recv: expected 1 argument, got %d", len(args))
	}
	id, ok := channelID(args[0])
	if !ok {
		return nil, fmt.Errorf("chan_recv: expected a channel handle")
	}
	ch, ok := rt.lookupChannel(id)
	if !ok {
		return nil, fmt.Errorf("chan_recv: unknown channel")
	}
	return <-ch.queue, nil
}

func (rt *runtime) chanTryRecv(interp *evaluator.Interpreter, args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("chan_try_recv: expected 1 argument, got %d", len(args))
	}
	id, ok := channelID(args[0])
	if !ok {
		return nil, fmt.Errorf("chan_try_recv: expected a channel handle")
	}
	ch, ok := rt.lookupChannel(id)
	if !ok {
		return evaluator.ErrOf(evaluator.NilValue), nil
	}
	select {
	case v := <-ch.queue:
		return evaluator.OkOf(v), nil
	default:
		return evaluator.ErrOf(evaluator.NilValue), nil
	}
}
