package player

import (
	"errors"
	"testing"
	"time"
)

func TestMock_LoadPlayPause(t *testing.T) {
	m := NewMock()

	if m.State() != Stopped {
		t.Fatalf("initial state = %v, want Stopped", m.State())
	}

	if err := m.Load("/media/a.mp3"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.State() != Paused {
		t.Errorf("state after Load = %v, want Paused", m.State())
	}
	if m.Loaded() != "/media/a.mp3" {
		t.Errorf("Loaded() = %q", m.Loaded())
	}

	if err := m.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if m.State() != Playing {
		t.Errorf("state after Play = %v, want Playing", m.State())
	}

	m.Pause()
	if m.State() != Paused {
		t.Errorf("state after Pause = %v, want Paused", m.State())
	}
}

func TestMock_PlayWithoutLoad(t *testing.T) {
	m := NewMock()
	if err := m.Play(); err == nil {
		t.Error("Play without Load should fail")
	}
}

func TestMock_PlayError(t *testing.T) {
	m := NewMock()
	boom := errors.New("device busy")
	m.SetPlayError(boom)
	_ = m.Load("/media/a.mp3")

	if err := m.Play(); !errors.Is(err, boom) {
		t.Errorf("Play error = %v, want boom", err)
	}
}

func TestMock_Events(t *testing.T) {
	m := NewMock()
	_ = m.Load("/media/a.mp3")

	m.SimulateTimeUpdate(5*time.Second, 60*time.Second)

	select {
	case e := <-m.Events():
		if e.Kind != EventTimeUpdate || e.Position != 5*time.Second || e.Duration != 60*time.Second {
			t.Errorf("event = %+v", e)
		}
	default:
		t.Fatal("expected a buffered timeupdate event")
	}

	m.SimulateFinished()
	select {
	case e := <-m.Events():
		if e.Kind != EventFinished {
			t.Errorf("event kind = %v, want EventFinished", e.Kind)
		}
	default:
		t.Fatal("expected a buffered finished event")
	}
}
