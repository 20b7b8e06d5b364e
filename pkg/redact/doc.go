// Package redact masks password-like values before they are rendered into
// diagnostic reports.
//
// Two forms are supported: key-based redaction of flat maps and value
// redaction inside URL query strings.
//
//	redact.Map(map[string]any{"login": "bob", "password": "secret"})
//	// map[login:bob password:*****]
//
//	redact.QueryString("foo=1&password=abc&bar=2")
//	// foo=1&password=*****&bar=2
//
// Redaction is not recursive. Callers that need nested maps redacted walk them
// and call Map on each level. Both functions are idempotent.
package redact
