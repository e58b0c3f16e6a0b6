package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotJSON indicates a response that was required to be strict JSON could
// not be parsed as such.
var ErrNotJSON = errors.New("ai response is not valid json")
