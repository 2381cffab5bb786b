package engine

import "testing"

func TestConversation_SeedAndSetSystem(t *testing.T) {
	c := NewConversation("sys v1", "do the task")
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if got := c.InitialTask(); got != "do the task" {
		t.Errorf("InitialTask() = %q", got)
	}

	c.SetSystem("sys v2")
	msgs := c.Messages()
	if msgs[0].Content != "sys v2" {
		t.Errorf("system message = %q, want refreshed content", msgs[0].Content)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d after SetSystem, want 2", c.Len())
	}
}

func TestConversation_DropInvalid(t *testing.T) {
	c := NewConversation("sys", "task")
	c.Append(ChatMessage{Role: RoleAssistant, Content: "fine"})
	c.Append(ChatMessage{Role: RoleAssistant, Content: "   "})
	c.Append(ChatMessage{Role: "tool", Content: "unknown role"})
	c.Append(ChatMessage{Role: RoleUser, Content: "also fine"})

	dropped := c.DropInvalid()
	if dropped != 2 {
		t.Errorf("DropInvalid() = %d, want 2", dropped)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}

func TestConversation_MessagesIsCopy(t *testing.T) {
	c := NewConversation("sys", "task")
	msgs := c.Messages()
	msgs[0].Content = "mutated"
	if c.Messages()[0].Content != "sys" {
		t.Error("Messages() exposed internal slice")
	}
}
