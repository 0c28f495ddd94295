package gemini

import "errors"

// ErrNoClient is returned when the pool yields a key with no client behind it.
var ErrNoClient = errors.New("no Gemini client for API key")
