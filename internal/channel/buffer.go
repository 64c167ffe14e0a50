// Package channel holds per-channel state owned by the chat layer: the
// rolling message buffer consulted by summarization and the community-type
// setting that selects the assistant's default context.
package channel

import "sync"

// MaxBufferMessages is the number of recent messages retained per channel
// for summarization.
const MaxBufferMessages = 50

// Message is one buffered channel message.
type Message struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// MessageBuffer stores the last N messages per channel in memory. It is
// goroutine-safe and uses a ring buffer internally.
type MessageBuffer struct {
	mu      sync.RWMutex
	buffers map[string]*ringBuffer // channelID -> ring buffer
}

// ringBuffer is a fixed-size circular buffer of Message.
type ringBuffer struct {
	items []Message
	pos   int
	count int
}

// NewMessageBuffer creates a new empty MessageBuffer.
func NewMessageBuffer() *MessageBuffer {
	return &MessageBuffer{
		buffers: make(map[string]*ringBuffer),
	}
}

// Add appends a message to the channel's ring buffer. If the buffer is full,
// the oldest message is overwritten.
func (mb *MessageBuffer) Add(channelID string, msg Message) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	rb, ok := mb.buffers[channelID]
	if !ok {
		rb = &ringBuffer{
			items: make([]Message, MaxBufferMessages),
		}
		mb.buffers[channelID] = rb
	}

	rb.items[rb.pos] = msg
	rb.pos = (rb.pos + 1) % MaxBufferMessages
	if rb.count < MaxBufferMessages {
		rb.count++
	}
}

// Recent returns up to n of the channel's most recent messages in
// chronological order (oldest first). n <= 0 returns everything buffered.
func (mb *MessageBuffer) Recent(channelID string, n int) []Message {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	rb, ok := mb.buffers[channelID]
	if !ok {
		return []Message{}
	}

	count := rb.count
	if n > 0 && n < count {
		count = n
	}

	result := make([]Message, count)
	// The oldest wanted message sits count slots behind the write position.
	start := (rb.pos - count + MaxBufferMessages) % MaxBufferMessages
	for i := 0; i < count; i++ {
		result[i] = rb.items[(start+i)%MaxBufferMessages]
	}
	return result
}

// Remove deletes the buffer for a channel.
func (mb *MessageBuffer) Remove(channelID string) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	delete(mb.buffers, channelID)
}
