package cooking

import "time"

// Role 發言者
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn 一則對話
type Turn struct {
	Seq  int       `json:"seq"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Conversation 只能附加的對話紀錄，非併發安全，由 Session 的鎖保護
type Conversation struct {
	turns []Turn
	now   func() time.Time
}

// NewConversation 以一則助理問候開始
func NewConversation(greeting string) *Conversation {
	c := &Conversation{now: time.Now}
	c.Reset(greeting)
	return c
}

// Append 新增一則對話並回傳
func (c *Conversation) Append(role Role, text string) Turn {
	turn := Turn{
		Seq:  len(c.turns) + 1,
		Role: role,
		Text: text,
		At:   c.now(),
	}
	c.turns = append(c.turns, turn)
	return turn
}

// Reset 清空後只留下問候
func (c *Conversation) Reset(greeting string) {
	c.turns = nil
	c.Append(RoleAssistant, greeting)
}

// Turns 回傳複本
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	return len(c.turns)
}
