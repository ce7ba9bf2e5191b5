package webhooks

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-shopify-webhooks/core"
)

const operationDispatch = "dispatch"

var requiredHeaders = []string{
	core.HeaderHMAC,
	core.HeaderTopic,
	core.HeaderShopDomain,
}

// Process authenticates an inbound delivery and runs the handler mapped to its
// topic. Missing headers are reported as an error before any signature work.
// A bad signature and a topic without a handler both produce 403; otherwise
// the handler runs synchronously and the result is 200.
func (s *Service) Process(ctx context.Context, msg core.InboundMessage) (result core.DispatchResult, err error) {
	if s == nil || s.registry == nil {
		return core.DispatchResult{}, internalError("webhooks: service is not configured", nil)
	}
	startedAt := s.now()
	fields := map[string]any{}
	defer func() {
		status := ""
		if err == nil && result.StatusCode != http.StatusOK {
			status = "rejected"
		}
		fields["status_code"] = result.StatusCode
		s.observeOperation(ctx, startedAt, operationDispatch, status, err, fields)
	}()

	values, missing := requiredHeaderValues(msg.Headers)
	if len(missing) > 0 {
		return core.DispatchResult{}, webhookError(
			fmt.Sprintf("webhooks: missing one or more of the required HTTP headers to process webhooks: [%s]", strings.Join(missing, ", ")),
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			core.WebhookErrorMissingHeaders,
			map[string]any{"missing_headers": missing},
		)
	}

	signature := values[core.HeaderHMAC]
	rawTopic := values[core.HeaderTopic]
	domain := values[core.HeaderShopDomain]
	topic := core.CanonicalTopic(rawTopic)
	fields["topic"] = topic
	fields["shop"] = domain

	if !s.activeVerifier().Verify(msg.Body, signature) {
		fields["reason"] = "signature_mismatch"
		return forbidden(), nil
	}

	entry, ok := s.registry.FindByTopic(topic)
	if !ok || entry.Handler == nil {
		fields["reason"] = "no_handler"
		return forbidden(), nil
	}

	entry.Handler(ctx, topic, domain, msg.Body)
	return core.DispatchResult{StatusCode: http.StatusOK, Headers: map[string]string{}}, nil
}

func forbidden() core.DispatchResult {
	return core.DispatchResult{StatusCode: http.StatusForbidden, Headers: map[string]string{}}
}

// requiredHeaderValues matches header names case-insensitively and returns
// every required header that is absent or blank.
func requiredHeaderValues(headers map[string]string) (map[string]string, []string) {
	values := make(map[string]string, len(requiredHeaders))
	missing := []string{}
	for _, name := range requiredHeaders {
		value := headerValue(headers, name)
		if value == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = value
	}
	return values, missing
}

func headerValue(headers map[string]string, name string) string {
	if value, ok := headers[name]; ok {
		return strings.TrimSpace(value)
	}
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
