package cooking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cookmate/internal/core/recipe"
	"cookmate/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pastaDetail() *recipe.RecipeDetail {
	return recipe.NewDetail(recipe.Recipe{
		ID:           "52771",
		Name:         "Pasta",
		Instructions: "1. Boil water. 2. Add pasta. 3. Drain.",
		Ingredients: []recipe.Ingredient{
			{Name: "Pasta", Measure: "200g"},
			{Name: "Salt", Measure: "1 tsp"},
		},
	})
}

type fakeAssistant struct {
	configured bool
	reply      string
	err        error
	prompts    []string
}

func (f *fakeAssistant) IsConfigured() bool { return f.configured }

func (f *fakeAssistant) Respond(ctx context.Context, prompt, recipeName string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeAssistant) WelcomeMessage(ctx context.Context, recipeName string) string {
	return "Let's cook " + recipeName + "!"
}

func TestParseCommandPrecedence(t *testing.T) {
	cases := map[string]CommandKind{
		"Start":                             CommandStart,
		"let's begin":                       CommandStart,
		"next":                              CommandNext,
		"what's next? how hot should it be": CommandNext,
		"go back":                           CommandPrevious,
		"Previous step please":              CommandPrevious,
		"repeat that":                       CommandRepeat,
		"repeat the ingredients":            CommandIngredients,
		"What do I need again?":             CommandIngredients,
		"list the ingredients again":        CommandIngredients,
		"can I add salt again?":             CommandFreeText,
		"INGREDIENTS":                       CommandIngredients,
		"What do I need?":                   CommandIngredients,
		"start over, what's next":           CommandStart,
		"can I use butter instead of oil?":  CommandFreeText,
	}
	for text, want := range cases {
		assert.Equal(t, want, ParseCommand(text).Kind, text)
	}
}

func TestParseAction(t *testing.T) {
	kind, ok := ParseAction("Next")
	assert.True(t, ok)
	assert.Equal(t, CommandNext, kind)

	_, ok = ParseAction("ingredients")
	assert.False(t, ok)
}

func TestTransitionWalkthrough(t *testing.T) {
	detail := pastaDetail()
	require.Len(t, detail.Steps, 3)

	state := 0
	var states []int
	var last Outcome
	for _, kind := range []CommandKind{CommandStart, CommandNext, CommandNext, CommandNext} {
		last = Transition(state, detail, kind)
		state = last.State
		states = append(states, state)
	}

	assert.Equal(t, []int{1, 2, 3, 3}, states)
	assert.Equal(t, "That was the last step! You've completed the recipe.", last.Message)
}

func TestTransitionMessages(t *testing.T) {
	detail := pastaDetail()

	out := Transition(0, detail, CommandStart)
	assert.Equal(t, "Great! Let's start cooking. Step 1: Boil water.", out.Message)

	out = Transition(2, detail, CommandStart)
	assert.Equal(t, 2, out.State)
	assert.Equal(t, "We're already on step 2 of 3.", out.Message)

	out = Transition(1, detail, CommandNext)
	assert.Equal(t, "Step 2: Add pasta.", out.Message)

	out = Transition(3, detail, CommandPrevious)
	assert.Equal(t, 2, out.State)
	assert.Equal(t, "Going back to Step 2: Add pasta.", out.Message)

	out = Transition(1, detail, CommandPrevious)
	assert.Equal(t, 0, out.State)
	assert.Contains(t, out.Message, "back to the beginning")

	out = Transition(0, detail, CommandPrevious)
	assert.Equal(t, 0, out.State)
	assert.Contains(t, out.Message, "already at the beginning")

	out = Transition(0, detail, CommandRepeat)
	assert.Equal(t, "We haven't started yet. Say 'start' when you're ready to begin cooking Pasta.", out.Message)

	out = Transition(3, detail, CommandRepeat)
	assert.Equal(t, 3, out.State)
	assert.Equal(t, "Step 3: Drain.", out.Message)

	out = Transition(2, detail, CommandIngredients)
	assert.Equal(t, 2, out.State)
	assert.Equal(t, "For this recipe, you'll need: Pasta: 200g, Salt: 1 tsp", out.Message)

	out = Transition(2, detail, CommandFreeText)
	assert.True(t, out.Delegate)
	assert.Equal(t, 2, out.State)
}

func TestTransitionWithoutSteps(t *testing.T) {
	detail := recipe.NewDetail(recipe.Recipe{Name: "Toast"})

	out := Transition(0, detail, CommandStart)
	assert.Equal(t, 0, out.State)
	assert.NotEmpty(t, out.Message)

	out = Transition(0, detail, CommandNext)
	assert.Equal(t, 0, out.State)
}

func TestSessionGreetingAndOfflineAnswer(t *testing.T) {
	s := NewSession(context.Background(), "s1", *pastaDetail(), nil)

	snap := s.Snapshot()
	require.Len(t, snap.Conversation, 1)
	assert.Equal(t, "Welcome! I'll help you cook Pasta. We'll go through 3 steps together. Say 'start' when you're ready to begin.", snap.Conversation[0].Text)

	reply := s.Handle(context.Background(), "how do I know the water is ready?")
	assert.Equal(t, "free_text", reply.Command)
	assert.Equal(t, "I'm a simple cooking assistant. You're preparing to start. Try asking about ingredients or using the navigation buttons.", reply.Message)

	s.Handle(context.Background(), "start")
	reply = s.Handle(context.Background(), "hmm?")
	assert.Contains(t, reply.Message, "on step 1 of 3")
	assert.Len(t, reply.Session.Conversation, 7)
}

func TestSessionAssistantFailureKeepsState(t *testing.T) {
	assistant := &fakeAssistant{configured: true, err: errors.New("quota")}
	s := NewSession(context.Background(), "s1", *pastaDetail(), assistant)
	assert.Equal(t, "Let's cook Pasta!", s.Snapshot().Conversation[0].Text)

	s.Act(context.Background(), CommandStart)
	reply := s.Handle(context.Background(), "is it salty enough?")

	assert.Equal(t, assistantFallback, reply.Message)
	assert.Equal(t, 1, reply.Session.CurrentStep)
}

func TestSessionAssistantPromptCarriesStep(t *testing.T) {
	assistant := &fakeAssistant{configured: true, reply: "Use a big pot."}
	s := NewSession(context.Background(), "s1", *pastaDetail(), assistant)

	reply := s.Handle(context.Background(), "which pot?")
	assert.Equal(t, "Use a big pot.", reply.Message)
	require.Len(t, assistant.prompts, 1)
	assert.True(t, strings.HasPrefix(assistant.prompts[0], "Recipe: Pasta. Current step: Preparation of 3. Recipe overview: 1. Boil water."))
	assert.True(t, strings.HasSuffix(assistant.prompts[0], "...\n\nUser question: which pot?"))

	s.Act(context.Background(), CommandStart)
	s.Handle(context.Background(), "which pot?")
	assert.Contains(t, assistant.prompts[1], "Current step: 1 of 3. Current step instructions: Boil water.")
}

func TestSessionReset(t *testing.T) {
	s := NewSession(context.Background(), "s1", *pastaDetail(), nil)
	s.Act(context.Background(), CommandStart)
	s.Act(context.Background(), CommandNext)

	snap := s.Reset()
	assert.Equal(t, 0, snap.CurrentStep)
	require.Len(t, snap.Conversation, 1)
	assert.Equal(t, RoleAssistant, snap.Conversation[0].Role)
}

func TestSessionSnapshotComplete(t *testing.T) {
	s := NewSession(context.Background(), "s1", *pastaDetail(), nil)
	var reply Reply
	for range 3 {
		reply = s.Act(context.Background(), CommandNext)
	}
	assert.True(t, reply.Session.Complete)
	require.NotNil(t, reply.Session.Step)
	assert.Equal(t, 3, reply.Session.Step.Number)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(config.SessionConfig{IdleTTL: time.Hour, MaxSessions: 2}, nil)
	t.Cleanup(m.Close)
	ctx := context.Background()

	s1, err := m.Create(ctx, *pastaDetail())
	require.NoError(t, err)
	_, err = m.Create(ctx, *pastaDetail())
	require.NoError(t, err)

	_, err = m.Create(ctx, *pastaDetail())
	assert.ErrorIs(t, err, ErrTooManySessions)

	got, err := m.Get(s1.ID)
	require.NoError(t, err)
	assert.Same(t, s1, got)

	require.NoError(t, m.Delete(s1.ID))
	_, err = m.Get(s1.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(s1.ID), ErrSessionNotFound)
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	m := NewManager(config.SessionConfig{IdleTTL: time.Minute}, nil)
	t.Cleanup(m.Close)

	s, err := m.Create(context.Background(), *pastaDetail())
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, m.evictIdle())
	assert.Equal(t, 0, m.Count())

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
