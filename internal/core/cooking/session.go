package cooking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cookmate/internal/core/recipe"
	"cookmate/internal/pkg/common"

	"go.uber.org/zap"
)

const assistantFallback = "I'm having trouble connecting to my knowledge service right now. Please ask about specific steps or ingredients instead."

// Assistant 生成式助理
type Assistant interface {
	IsConfigured() bool
	Respond(ctx context.Context, prompt, recipeName string) (string, error)
	WelcomeMessage(ctx context.Context, recipeName string) string
}

// Session 單一食譜的烹飪會話，指令逐一處理完畢才接受下一個
type Session struct {
	ID string

	mu           sync.Mutex
	detail       recipe.RecipeDetail
	step         int
	conversation *Conversation
	greeting     string
	assistant    Assistant
	createdAt    time.Time
	lastActive   atomic.Int64
}

// Snapshot 會話目前狀態
type Snapshot struct {
	ID           string             `json:"id"`
	RecipeID     string             `json:"recipeId"`
	RecipeName   string             `json:"recipeName"`
	CurrentStep  int                `json:"currentStep"`
	TotalSteps   int                `json:"totalSteps"`
	Complete     bool               `json:"complete"`
	Step         *recipe.RecipeStep `json:"step,omitempty"`
	Conversation []Turn             `json:"conversation"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Reply 一次指令的結果
type Reply struct {
	Command string   `json:"command"`
	Message string   `json:"message"`
	Session Snapshot `json:"session"`
}

// NewSession 建立會話並產生問候語
func NewSession(ctx context.Context, id string, detail recipe.RecipeDetail, assistant Assistant) *Session {
	s := &Session{
		ID:        id,
		detail:    detail,
		assistant: assistant,
		createdAt: time.Now(),
	}
	s.greeting = s.welcome(ctx)
	s.conversation = NewConversation(s.greeting)
	s.touch()
	return s
}

func (s *Session) welcome(ctx context.Context) string {
	if s.assistant == nil || !s.assistant.IsConfigured() {
		return fmt.Sprintf("Welcome! I'll help you cook %s. We'll go through %d steps together. Say 'start' when you're ready to begin.",
			s.detail.Name, len(s.detail.Steps))
	}
	return s.assistant.WelcomeMessage(ctx, s.detail.Name)
}

// Handle 處理使用者輸入的文字
func (s *Session) Handle(ctx context.Context, text string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	cmd := ParseCommand(text)
	s.conversation.Append(RoleUser, text)
	return s.apply(ctx, cmd)
}

// Act 處理導覽按鈕，不記錄使用者發言
func (s *Session) Act(ctx context.Context, kind CommandKind) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	return s.apply(ctx, Command{Kind: kind})
}

func (s *Session) apply(ctx context.Context, cmd Command) Reply {
	out := Transition(s.step, &s.detail, cmd.Kind)
	s.step = out.State

	message := out.Message
	if out.Delegate {
		message = s.ask(ctx, cmd.Text)
	}

	s.conversation.Append(RoleAssistant, message)
	common.LogDebug("烹飪指令處理完成",
		zap.String("session_id", s.ID),
		zap.String("command", cmd.Kind.String()),
		zap.Int("step", s.step),
	)

	return Reply{
		Command: cmd.Kind.String(),
		Message: message,
		Session: s.snapshot(),
	}
}

// ask 交給助理回答，失敗時使用固定訊息且不重試
func (s *Session) ask(ctx context.Context, question string) string {
	if s.assistant == nil || !s.assistant.IsConfigured() {
		return offlineMessage(s.step, len(s.detail.Steps))
	}

	text, err := s.assistant.Respond(ctx, assistantPrompt(s.step, &s.detail, question), s.detail.Name)
	if err != nil || strings.TrimSpace(text) == "" {
		common.LogWarn("助理回覆失敗，使用預設訊息",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
		return assistantFallback
	}
	return text
}

// Reset 回到準備階段，對話只留下問候
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()

	s.step = 0
	s.conversation.Reset(s.greeting)
	return s.snapshot()
}

// Snapshot 取得目前狀態
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	n := len(s.detail.Steps)
	snap := Snapshot{
		ID:           s.ID,
		RecipeID:     s.detail.ID,
		RecipeName:   s.detail.Name,
		CurrentStep:  s.step,
		TotalSteps:   n,
		Complete:     n > 0 && s.step == n,
		Conversation: s.conversation.Turns(),
		CreatedAt:    s.createdAt,
	}
	if s.step > 0 {
		step := s.detail.Steps[s.step-1]
		snap.Step = &step
	}
	return snap
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive 最後一次處理指令的時間
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}
