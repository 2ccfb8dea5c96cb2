// Package cooking 實作逐步烹飪導覽：指令解析、步驟狀態轉換、對話紀錄與會話管理。
package cooking

import "strings"

// CommandKind 指令種類
type CommandKind int

const (
	CommandFreeText CommandKind = iota
	CommandStart
	CommandNext
	CommandPrevious
	CommandRepeat
	CommandIngredients
)

// String returns the command name used by the API.
func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandRepeat:
		return "repeat"
	case CommandIngredients:
		return "ingredients"
	default:
		return "free_text"
	}
}

// Command 解析後的使用者指令
type Command struct {
	Kind CommandKind
	Text string
}

type commandRule struct {
	kind     CommandKind
	keywords []string
}

// commandRules 依優先順序比對，先命中者勝出
var commandRules = []commandRule{
	{CommandStart, []string{"start", "begin"}},
	{CommandNext, []string{"next"}},
	{CommandPrevious, []string{"previous", "back"}},
	{CommandIngredients, []string{"ingredients", "what do i need"}},
	{CommandRepeat, []string{"repeat"}},
}

// ParseCommand 將輸入轉小寫後以子字串比對關鍵字，都不符合時為自由提問
func ParseCommand(text string) Command {
	lower := strings.ToLower(text)
	for _, rule := range commandRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return Command{Kind: rule.kind, Text: text}
			}
		}
	}
	return Command{Kind: CommandFreeText, Text: text}
}

// buttonActions 可直接觸發的導覽按鈕
var buttonActions = map[string]CommandKind{
	"start":    CommandStart,
	"next":     CommandNext,
	"previous": CommandPrevious,
	"repeat":   CommandRepeat,
}

// ParseAction 解析按鈕名稱
func ParseAction(action string) (CommandKind, bool) {
	kind, ok := buttonActions[strings.ToLower(strings.TrimSpace(action))]
	return kind, ok
}
