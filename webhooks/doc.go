// Package webhooks registers platform webhook subscriptions and dispatches
// verified deliveries to local handlers.
//
// Registration checks for an existing remote subscription by topic, creates
// or updates it through the Admin GraphQL API and, once the platform confirms
// it, maps the canonical topic to a handler in a Registry. Dispatch verifies
// the base64 HMAC-SHA256 signature over the raw body before looking up the
// handler, and runs the handler before returning a status.
//
// Two registrations racing for the same topic can both reach the platform;
// the registry keeps whichever write lands last.
package webhooks
