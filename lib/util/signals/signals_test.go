package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetHandlers clears both handler lists for the duration of a test.
func resetHandlers(t *testing.T) {
	t.Helper()
	mu.Lock()
	savedReload, savedInterrupt := reloaders.handlers, interrupters.handlers
	reloaders.handlers, interrupters.handlers = nil, nil
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		reloaders.handlers, interrupters.handlers = savedReload, savedInterrupt
		mu.Unlock()
	})
}

func TestRegisterReloadHandler(t *testing.T) {
	resetHandlers(t)

	called := false
	RegisterReloadHandler(func() { called = true })
	assert.Equal(t, 1, reloaders.len())

	handleReload()
	assert.True(t, called)
}

func TestRegisterInterruptHandlerOrder(t *testing.T) {
	resetHandlers(t)

	var order []int
	RegisterInterruptHandler(func() { order = append(order, 1) })
	RegisterInterruptHandler(func() { order = append(order, 2) })
	RegisterInterruptHandler(func() { order = append(order, 3) })

	handleInterrupted()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestNilHandlersIgnored(t *testing.T) {
	resetHandlers(t)

	assert.Equal(t, HandlerID(-1), RegisterReloadHandler(nil))
	assert.Equal(t, HandlerID(-1), RegisterInterruptHandler(nil))
	assert.Equal(t, 0, reloaders.len())
	assert.Equal(t, 0, interrupters.len())
}

func TestDeregister(t *testing.T) {
	resetHandlers(t)

	calls := 0
	id := RegisterInterruptHandler(func() { calls++ })
	keep := RegisterReloadHandler(func() { calls += 10 })

	DeregisterInterruptHandler(id)
	DeregisterInterruptHandler(id) // second removal is a no-op
	handleInterrupted()
	assert.Equal(t, 0, calls)

	handleReload()
	assert.Equal(t, 10, calls)

	DeregisterReloadHandler(keep)
	assert.Equal(t, 0, reloaders.len())
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	resetHandlers(t)

	ran := false
	RegisterInterruptHandler(func() { panic("boom") })
	RegisterInterruptHandler(func() { ran = true })

	assert.NotPanics(t, handleInterrupted)
	assert.True(t, ran)
}
