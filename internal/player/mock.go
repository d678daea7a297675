package player

import "time"

// Mock is a test double for the audio device.
type Mock struct {
	state    State
	loaded   string
	position time.Duration
	duration time.Duration

	loadErr error
	playErr error

	loadCalls []string
	playCalls int
	seekCalls []time.Duration

	events chan Event
}

// NewMock creates a new mock device for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		events: make(chan Event, eventBufferSize),
	}
}

func (m *Mock) Load(url string) error {
	m.loadCalls = append(m.loadCalls, url)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = url
	m.position = 0
	m.state = Paused
	return nil
}

func (m *Mock) Play() error {
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.loaded == "" {
		return errNothingLoaded
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.loaded = ""
	m.position = 0
	m.duration = 0
	m.state = Stopped
}

func (m *Mock) Seek(pos time.Duration) {
	m.seekCalls = append(m.seekCalls, pos)
	if m.loaded != "" {
		m.position = pos
	}
}

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) State() State { return m.state }

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	m.state = Stopped
	return nil
}

// Test helpers

func (m *Mock) SetLoadError(err error) { m.loadErr = err }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

func (m *Mock) Loaded() string { return m.loaded }

func (m *Mock) LoadCalls() []string { return m.loadCalls }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

// SimulateTimeUpdate pushes a timeupdate event as the real device would.
func (m *Mock) SimulateTimeUpdate(pos, dur time.Duration) {
	m.position = pos
	m.duration = dur
	select {
	case m.events <- Event{Kind: EventTimeUpdate, Position: pos, Duration: dur}:
	default:
	}
}

// SimulateFinished pushes an end-of-song event.
func (m *Mock) SimulateFinished() {
	select {
	case m.events <- Event{Kind: EventFinished, Position: m.duration, Duration: m.duration}:
	default:
	}
}
