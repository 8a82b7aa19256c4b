// Package signals dispatches process signals to registered handlers:
// SIGHUP to reload handlers, SIGINT and SIGTERM to interrupt handlers.
// Call Handle in its own goroutine; StopHandle makes it return.
package signals

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// sigChan is buffered so a signal delivered while no receiver is ready is kept.
var sigChan = make(chan os.Signal, 1)

// Handler is a function called when a signal is received.
type Handler func()

// HandlerID identifies a registered handler for deregistration.
type HandlerID int

type registeredHandler struct {
	id HandlerID
	fn Handler
}

// handlerList is a set of handlers for one signal class.
type handlerList struct {
	kind     string
	handlers []registeredHandler
}

var (
	mu           sync.RWMutex
	nextID       HandlerID
	stopOnce     sync.Once
	reloaders    = &handlerList{kind: "reload"}
	interrupters = &handlerList{kind: "interrupt"}
)

func (l *handlerList) add(f Handler) HandlerID {
	if f == nil {
		return -1
	}
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	l.handlers = append(l.handlers, registeredHandler{id: id, fn: f})
	return id
}

func (l *handlerList) remove(id HandlerID) {
	mu.Lock()
	defer mu.Unlock()
	for i, h := range l.handlers {
		if h.id == id {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			return
		}
	}
}

// run calls every handler in registration order. A panicking handler is
// reported on stderr and does not stop the others.
func (l *handlerList) run() {
	mu.RLock()
	snapshot := make([]registeredHandler, len(l.handlers))
	copy(snapshot, l.handlers)
	mu.RUnlock()

	for _, h := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "signals: panic in %s handler: %v\n", l.kind, r)
				}
			}()
			h.fn()
		}()
	}
}

func (l *handlerList) len() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(l.handlers)
}

// RegisterReloadHandler registers a handler called on SIGHUP.
// Nil handlers are ignored and return -1.
func RegisterReloadHandler(f Handler) HandlerID {
	return reloaders.add(f)
}

// DeregisterReloadHandler removes a reload handler by ID.
func DeregisterReloadHandler(id HandlerID) {
	reloaders.remove(id)
}

// RegisterInterruptHandler registers a handler called on SIGINT or SIGTERM.
// Nil handlers are ignored and return -1.
func RegisterInterruptHandler(f Handler) HandlerID {
	return interrupters.add(f)
}

// DeregisterInterruptHandler removes an interrupt handler by ID.
func DeregisterInterruptHandler(id HandlerID) {
	interrupters.remove(id)
}

func handleReload() {
	reloaders.run()
}

func handleInterrupted() {
	interrupters.run()
}

// StopHandle stops signal delivery and makes Handle return.
// Safe to call multiple times.
func StopHandle() {
	stopOnce.Do(func() {
		signal.Stop(sigChan)
		close(sigChan)
	})
}
