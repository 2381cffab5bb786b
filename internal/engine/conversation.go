// Package engine drives the bounded-context agent loop: rounds of model
// calls and sequential tool dispatch, with write-triggered memory
// compaction keeping the conversation small.
package engine

// Conversation is the ordered sequence of messages that forms the model's
// input context. It always begins with exactly one system message followed
// by the initial task message; compaction replaces everything after those
// two wholesale.
type Conversation struct {
	msgs []ChatMessage
}

// NewConversation creates a conversation seeded with the system prompt and
// the initial task message.
func NewConversation(systemPrompt, initialTask string) *Conversation {
	return &Conversation{
		msgs: []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: initialTask},
		},
	}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg ChatMessage) { c.msgs = append(c.msgs, msg) }

// Len returns the current message count.
func (c *Conversation) Len() int { return len(c.msgs) }

// Messages returns a copy of the conversation suitable for a provider call.
func (c *Conversation) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// SetSystem refreshes the system message in place. The ledgers live outside
// the conversation and are re-injected through the system prompt each round,
// so compaction can never lose them.
func (c *Conversation) SetSystem(content string) {
	if len(c.msgs) > 0 && c.msgs[0].Role == RoleSystem {
		c.msgs[0].Content = content
	}
}

// InitialTask returns the fixed task message that is never evicted.
func (c *Conversation) InitialTask() string {
	if len(c.msgs) > 1 {
		return c.msgs[1].Content
	}
	return ""
}

// DropInvalid removes empty or malformed messages and returns how many were
// dropped. The system and initial task messages are never removed.
func (c *Conversation) DropInvalid() int {
	if len(c.msgs) <= 2 {
		return 0
	}
	kept := c.msgs[:2]
	dropped := 0
	for _, m := range c.msgs[2:] {
		if err := m.Validate(); err != nil {
			dropped++
			continue
		}
		kept = append(kept, m)
	}
	c.msgs = kept
	return dropped
}

// Replace swaps the whole conversation for the given messages. Used by the
// compaction engine, which rebuilds the retained set from scratch.
func (c *Conversation) Replace(msgs []ChatMessage) {
	c.msgs = append(c.msgs[:0:0], msgs...)
}
