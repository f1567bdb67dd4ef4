package docs

import (
	"strings"
	"testing"
)

func TestTopicsAreSortedAndReadable(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for i, topic := range topics {
		if i > 0 && topics[i-1] >= topic {
			t.Fatalf("topics not sorted: %v", topics)
		}
		body, ok := Get(topic)
		if !ok || !strings.HasPrefix(body, "# ") {
			t.Fatalf("topic %q should start with a heading, got ok=%v body=%q", topic, ok, body)
		}
	}
}

func TestGet(t *testing.T) {
	if _, ok := Get(" TUI "); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	for _, topic := range []string{"", "nope", "../docs", "content/tui"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("expected %q to be unknown", topic)
		}
	}
}
