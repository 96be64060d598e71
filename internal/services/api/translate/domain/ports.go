package domain

import "context"

// TranslatorPort turns a free-text scheduling phrase into a cron expression.
// callerID feeds quota admission, which runs after the phrase is normalized
// so malformed input never spends quota
type TranslatorPort interface {
	Translate(ctx context.Context, callerID, raw string) (TranslationResult, error)
}
