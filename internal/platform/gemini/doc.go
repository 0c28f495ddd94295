// Package gemini implements generation.Generator on Google's Gemini API.
//
// Each attempt takes the next key from a keypool.Pool, so retries and
// concurrent requests spread across every configured credential. Transient
// failures are retried with exponential backoff and jitter; blocked content
// and malformed responses are returned at once.
package gemini
