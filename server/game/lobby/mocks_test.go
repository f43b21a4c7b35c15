package lobby

import (
	"context"

	"github.com/jacobpatterson1549/grab/game/message"
)

// mockRunner runs by storing the in channel and sharing the out channel.
type mockRunner struct {
	in  <-chan message.Message
	out chan message.Message
}

func (m *mockRunner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	m.in = in
	m.out = make(chan message.Message)
	return m.out
}
