package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RegisterWebhookMessage]   = (*RegisterWebhookCommand)(nil)
	_ gocmd.Commander[AddHandlerMessage]        = (*AddHandlerCommand)(nil)
	_ gocmd.Commander[DeleteLedgerEntryMessage] = (*DeleteLedgerEntryCommand)(nil)
)
