// Package types defines the gateway's public wire format: the Gemini-style
// request and response bodies and the uniform error envelope.
package types
