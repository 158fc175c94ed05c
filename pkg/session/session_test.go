package session

import (
	"net"
	"testing"
	"time"

	"mudforge/pkg/telnet"
	"mudforge/pkg/world"
)

func newTestSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close() })

	// drain negotiation bytes continuously so conn writes never block
	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	conn := telnet.NewConn(server, 20*time.Millisecond)
	s := New(conn, time.Hour)
	t.Cleanup(func() { s.Close() })
	return s, client
}

func TestSessionStartsConnecting(t *testing.T) {
	s, _ := newTestSession(t)
	if s.State() != StateConnecting {
		t.Fatalf("expected StateConnecting, got %v", s.State())
	}
}

func TestSessionAskRoutesNextLineToCallback(t *testing.T) {
	s, _ := newTestSession(t)

	var got string
	s.Ask(func(line string) { got = line })

	handlerCalled := false
	s.Dispatch("hello", func(line string) { handlerCalled = true })

	if got != "hello" {
		t.Fatalf("expected ask callback to receive line, got %q", got)
	}
	if handlerCalled {
		t.Fatal("expected normal handler to be bypassed while ask is pending")
	}
}

func TestSessionDispatchResumesNormalHandlerAfterAsk(t *testing.T) {
	s, _ := newTestSession(t)
	s.Ask(func(line string) {})
	s.Dispatch("first", func(line string) {})

	var second string
	s.Dispatch("second", func(line string) { second = line })
	if second != "second" {
		t.Fatalf("expected normal delivery to resume, got %q", second)
	}
}

func TestSessionAskYesNoRecognizesAffirmatives(t *testing.T) {
	s, _ := newTestSession(t)

	for _, in := range []string{"y", "Y", "yes", " YES "} {
		var answer bool
		s.AskYesNo(func(yes bool) { answer = yes })
		s.Dispatch(in, func(line string) {})
		if !answer {
			t.Fatalf("expected %q to be treated as affirmative", in)
		}
	}

	var answer bool
	s.AskYesNo(func(yes bool) { answer = yes })
	s.Dispatch("nope", func(line string) {})
	if answer {
		t.Fatal("expected non-affirmative input to resolve false")
	}
}

func TestRenderPromptSubstitutesPlaceholders(t *testing.T) {
	race := &world.Archetype{MaxHealth: world.AttributeGrowth{Start: 50}, MaxMana: world.AttributeGrowth{Start: 20}}
	m := world.NewMob("bob", "Bob", "Bob stands here.", "", race, nil)
	m.Current.Health = 30
	m.Current.Mana = 10
	m.Current.Exhaustion = 5
	m.Experience = 250

	got := RenderPrompt("%hh/%HHhp %mm/%MMmp e:%ee xp:%xp/%XX>", m)
	want := "30/50hp 10/20mp e:5 xp:250/2000>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderPromptPassesThroughWithoutMob(t *testing.T) {
	got := RenderPrompt("%hh/%HHhp> ", nil)
	if got != "%hh/%HHhp> " {
		t.Fatalf("expected template unchanged without a mob, got %q", got)
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
	if s.State() != StateDisconnected {
		t.Fatalf("expected StateDisconnected, got %v", s.State())
	}
}
