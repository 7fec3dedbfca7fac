package game

import (
	"fmt"
	"testing"
)

func TestLogAppendAndCallback(t *testing.T) {
	l := NewLog()

	var seen []Message
	l.OnMessage = func(m Message) { seen = append(seen, m) }

	l.Add(ChannelCustomer, "Maya", "love it already")
	l.System("commission started")

	msgs := l.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Sender != "Maya" || msgs[0].Channel != ChannelCustomer {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Sender != "Shop" || msgs[1].Channel != ChannelSystem {
		t.Errorf("system message = %+v", msgs[1])
	}
	if len(seen) != 2 {
		t.Errorf("callback fired %d times, want 2", len(seen))
	}
}

func TestLogEvictsOldest(t *testing.T) {
	l := NewLog()
	for i := 0; i < 150; i++ {
		l.Add(ChannelStudio, "Me", fmt.Sprintf("msg %d", i))
	}

	msgs := l.Messages()
	if len(msgs) != 100 {
		t.Fatalf("retained %d messages, want 100", len(msgs))
	}
	if msgs[0].Text != "msg 50" {
		t.Errorf("oldest retained = %q, want %q", msgs[0].Text, "msg 50")
	}
	if msgs[len(msgs)-1].Text != "msg 149" {
		t.Errorf("newest retained = %q", msgs[len(msgs)-1].Text)
	}
}

func TestLogClear(t *testing.T) {
	l := NewLog()
	l.System("hello")
	l.Clear()
	if got := len(l.Messages()); got != 0 {
		t.Errorf("messages after clear = %d, want 0", got)
	}
}
