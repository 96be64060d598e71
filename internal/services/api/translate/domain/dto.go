// Package domain holds DTOs and ports for the translate service
package domain

// TranslateInput is the request payload
type TranslateInput struct {
	Input string `json:"input" validate:"required" example:"every weekday at 9am"`
}

// TranslationResult is the successful translation payload
// Input echoes the normalized form the translation was produced from
type TranslationResult struct {
	Cron  string `json:"cron" example:"0 9 * * 1-5"`
	Model string `json:"model" example:"gpt-4.1-mini"`
	Input string `json:"input" example:"every weekday at 9am"`
}
