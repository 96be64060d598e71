package domain

import "context"

// AdmitterPort gates a request before any model spend
// a nil return means admitted; denials are rate-limit errors carrying
// the deny kind and a usage snapshot in their details
type AdmitterPort interface {
	Admit(ctx context.Context, callerID string) error
}

// UsagePort reports current quota state without mutating it
type UsagePort interface {
	Usage(ctx context.Context) Usage
}
