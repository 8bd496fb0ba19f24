// Package sanitize provides HTML sanitization for admin-entered hotel
// content. Uses bluemonday to strip dangerous HTML (script tags, event
// handlers, javascript: URLs) while preserving safe formatting, so hotel
// titles and descriptions are safe to render in the browser client.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for sanitizing hotel content.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// The admin editor emits classes for text alignment and emphasis.
		policy.AllowAttrs("class").Globally()
	})
	return policy
}

// HTML sanitizes hotel rich-text content by stripping dangerous elements
// while preserving safe formatting tags. This MUST be called on all
// admin-provided HTML before storing it in the database.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return getPolicy().Sanitize(input)
}
