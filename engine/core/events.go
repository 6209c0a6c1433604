package core

import "sync"

// EventContext carries the payload of a fired event. The string fields are
// used by the asset pipeline (source identifier and failure message); the
// numeric lanes are free for application codes.
type EventContext struct {
	Source  string
	Message string

	U32 [4]uint32
	F32 [4]float32
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A raw asset load resolved successfully.
	/* Context usage:
	 * Source  = source identifier
	 * U32[0]  = handle index
	 * U32[1]  = handle generation
	 */
	EVENT_CODE_ASSET_LOADED SystemEventCode = 0x02

	// A raw asset load resolved with an error.
	/* Context usage:
	 * Source  = source identifier
	 * Message = wrapped failure message
	 * U32[0]  = handle index
	 * U32[1]  = handle generation
	 */
	EVENT_CODE_ASSET_FAILED SystemEventCode = 0x03

	// An asset batch finished parsing and its combine callback ran.
	/* Context usage:
	 * Source  = batch id
	 * U32[0]  = number of distinct sources in the batch
	 */
	EVENT_CODE_BATCH_COMPLETED SystemEventCode = 0x04

	// An asset file changed on disk (hot reload).
	/* Context usage:
	 * Source = changed path, relative to the assets dir
	 */
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x05

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 4096

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

var onceEvent sync.Once
var isInitialized bool = false
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func EventSystemInitialize() bool {
	if isInitialized {
		return false
	}
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	isInitialized = true
	return true
}

func EventSystemShutdown() error {
	if !isInitialized {
		return nil
	}
	// Free the events arrays. Any objects pointed to should be destroyed on their own.
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		if len(eventState.registered[i].events) != 0 {
			eventState.registered[i].events = nil
		}
	}
	return nil
}

// Register to listen for when events are sent with the provided code. Events with duplicate
// listener/callback combos will not be registered again and will cause this to return false.
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}
	for _, e := range eventState.registered[code].events {
		if e.listener == listener {
			LogWarn("event listener already registered for code %d", code)
			return false
		}
	}
	// If at this point, no duplicate was found. Proceed with registration.
	event := &registeredEvent{
		listener: listener,
		callback: onEvent,
	}
	eventState.registered[code].events = append(eventState.registered[code].events, event)
	return true
}

// Unregister from listening for when events are sent with the provided code. If no matching
// registration is found, this function returns false.
func EventUnregister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !isInitialized {
		return false
	}

	// On nothing is registered for the code, boot out.
	if len(eventState.registered[code].events) == 0 {
		return false
	}

	for i, e := range eventState.registered[code].events {
		if e.listener == listener && e.callback != nil {
			// Found one, remove it
			events := eventState.registered[code].events
			eventState.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

// Fires an event to listeners of the given code. If an event handler returns
// true, the event is considered handled and is not passed on to any more listeners.
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if !isInitialized {
		return false
	}
	// If nothing is registered for the code, boot out.
	if len(eventState.registered[code].events) == 0 {
		return false
	}
	for _, e := range eventState.registered[code].events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	// Not handled.
	return false
}
