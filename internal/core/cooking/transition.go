package cooking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"cookmate/internal/core/recipe"
)

const overviewLimit = 200

// Outcome 狀態轉換結果
type Outcome struct {
	State   int
	Message string
	// Delegate 為 true 時訊息需交給助理產生
	Delegate bool
}

// Transition 純函式：依目前步驟與指令計算新步驟與回覆。
// state 範圍為 0（準備中）到 len(steps)（完成）。
func Transition(state int, detail *recipe.RecipeDetail, kind CommandKind) Outcome {
	n := len(detail.Steps)

	switch kind {
	case CommandStart:
		if state != 0 {
			return Outcome{State: state, Message: fmt.Sprintf("We're already on step %d of %d.", state, n)}
		}
		if n == 0 {
			return Outcome{State: 0, Message: fmt.Sprintf("%s doesn't have any steps to walk through.", detail.Name)}
		}
		return Outcome{State: 1, Message: "Great! Let's start cooking. Step 1: " + detail.Steps[0].Description}

	case CommandNext:
		if state >= n {
			return Outcome{State: state, Message: "That was the last step! You've completed the recipe."}
		}
		step := detail.Steps[state]
		return Outcome{State: state + 1, Message: fmt.Sprintf("Step %d: %s", step.Number, step.Description)}

	case CommandPrevious:
		switch {
		case state > 1:
			step := detail.Steps[state-2]
			return Outcome{State: state - 1, Message: fmt.Sprintf("Going back to Step %d: %s", step.Number, step.Description)}
		case state == 1:
			return Outcome{State: 0, Message: "Let's go back to the beginning. Say 'start' when you're ready."}
		default:
			return Outcome{State: 0, Message: "We're already at the beginning. Say 'start' when you're ready."}
		}

	case CommandRepeat:
		if state == 0 {
			return Outcome{State: 0, Message: fmt.Sprintf("We haven't started yet. Say 'start' when you're ready to begin cooking %s.", detail.Name)}
		}
		step := detail.Steps[state-1]
		return Outcome{State: state, Message: fmt.Sprintf("Step %d: %s", step.Number, step.Description)}

	case CommandIngredients:
		return Outcome{State: state, Message: ingredientsMessage(detail.Ingredients)}

	default:
		return Outcome{State: state, Delegate: true}
	}
}

func ingredientsMessage(ingredients []recipe.Ingredient) string {
	if len(ingredients) == 0 {
		return "This recipe doesn't list any ingredients."
	}
	parts := make([]string, len(ingredients))
	for i, ing := range ingredients {
		parts[i] = ing.Name + ": " + ing.Measure
	}
	return "For this recipe, you'll need: " + strings.Join(parts, ", ")
}

// assistantPrompt 附上食譜與目前步驟的提問內容
func assistantPrompt(state int, detail *recipe.RecipeDetail, question string) string {
	n := len(detail.Steps)

	var sb strings.Builder
	sb.WriteString("Recipe: " + detail.Name + ". ")
	if state == 0 {
		sb.WriteString(fmt.Sprintf("Current step: Preparation of %d. ", n))
		sb.WriteString("Recipe overview: " + truncate(detail.Instructions, overviewLimit) + "...")
	} else {
		sb.WriteString(fmt.Sprintf("Current step: %d of %d. ", state, n))
		sb.WriteString("Current step instructions: " + detail.Steps[state-1].Description)
	}
	sb.WriteString("\n\nUser question: " + question)
	return sb.String()
}

// offlineMessage 助理未設定時的固定回覆
func offlineMessage(state, n int) string {
	where := "preparing to start"
	if state > 0 {
		where = fmt.Sprintf("on step %d of %d", state, n)
	}
	return fmt.Sprintf("I'm a simple cooking assistant. You're %s. Try asking about ingredients or using the navigation buttons.", where)
}

// truncate 以字元為單位截斷
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
