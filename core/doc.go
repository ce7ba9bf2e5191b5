// Package core holds the shared webhook contracts: configuration and its
// layered resolution, the handler and GraphQL client shapes, topic and
// delivery method normalization, and the WEBHOOK_* error envelope. It must
// not depend on the webhooks, transport, or store packages.
package core
