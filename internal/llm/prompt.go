package llm

import (
	"strings"
	"unicode/utf8"
)

// SystemDirective is the coaching persona sent ahead of every request
const SystemDirective = `You are an AI fitness and nutrition coach. Your role is to:
1. Provide personalized workout and diet plans based on user goals and constraints
2. Consider user's medical conditions, injuries, and dietary restrictions
3. Track and analyze user progress
4. Provide motivation and guidance
5. Answer fitness and nutrition related questions
Always prioritize user safety and health.`

const (
	WorkoutPlanInstruction = "Please generate a detailed workout plan for me."
	DietPlanInstruction    = "Please generate a detailed diet plan for me."
)

// truncationMarker is appended when the user context exceeds its budget
const truncationMarker = "\n[context truncated]"

// BuildMessages creates the ordered instruction sequence: persona, user
// context, then the caller's message.
func BuildMessages(userContext, message string) []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemDirective},
		{Role: RoleSystem, Content: "User Context:\n" + userContext},
		{Role: RoleUser, Content: message},
	}
}

// TruncateRunes bounds s to at most max runes, cutting on a rune boundary
// and marking the cut. The marker counts towards the budget.
func TruncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	keep := max - utf8.RuneCountInString(truncationMarker)
	if keep <= 0 {
		return string([]rune(s)[:max])
	}

	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == keep {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString(truncationMarker)
	return b.String()
}

// Clip shortens s to max runes with a trailing ellipsis
func Clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
