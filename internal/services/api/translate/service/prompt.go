package service

import "cronslate/internal/adapters/model"

// systemPrompt pins the model to a bare five-field answer so the validator
// can stay strict. The refusal word must match the cronspec sentinel
const systemPrompt = `You translate natural-language scheduling phrases into Unix cron expressions.

Rules:
- Respond with exactly one standard five-field cron expression (minute hour day-of-month month day-of-week) and nothing else.
- No code fences, no quotes, no explanation, no leading words.
- If the phrase does not describe a recurring schedule, respond with the single word: invalid`

func messagesFor(in string) []model.Message {
	return []model.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: in},
	}
}
