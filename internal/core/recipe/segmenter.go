package recipe

import (
	"regexp"
	"strings"
)

var (
	// 編號步驟標記，例如 "1. "、"12.\n"
	numberedMarker = regexp.MustCompile(`\d+\.\s+`)
	// 句尾標點後接空白
	sentenceEnd = regexp.MustCompile(`[.!?]\s+`)
)

// Segment 將料理說明切成有序步驟。
// 有編號標記時依標記切分，否則依句尾標點切分；結果只取決於輸入文字。
func Segment(instructions string) []RecipeStep {
	var pieces []string
	if numberedMarker.MatchString(instructions) {
		pieces = splitNumbered(instructions)
	} else {
		pieces = splitSentences(instructions)
	}

	steps := make([]RecipeStep, 0, len(pieces))
	for _, piece := range pieces {
		steps = append(steps, RecipeStep{
			Number:      len(steps) + 1,
			Description: withPeriod(piece),
		})
	}
	return steps
}

func splitNumbered(text string) []string {
	// 標記前的文字自成第一步
	return nonEmpty(numberedMarker.Split(text, -1))
}

func splitSentences(text string) []string {
	// 標點連同後面的空白一起丟掉，句號由 withPeriod 補回
	return nonEmpty(sentenceEnd.Split(text, -1))
}

func nonEmpty(pieces []string) []string {
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func withPeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
