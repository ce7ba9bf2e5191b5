package webhooks

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-shopify-webhooks/core"
)

const operationRegister = "register"

// Register makes sure the platform delivers topic to the address derived from
// req.Path and maps the topic to req.Handler once the platform confirms it.
//
// For HTTP delivery the address is https://<host_name><path>; for event-bus
// delivery the path is the ARN. When the existing subscription already points
// at the address no mutation is issued and the result payload is empty.
// Transport failures are returned as errors; a response without the expected
// webhookSubscription node is reported as Success=false.
func (s *Service) Register(ctx context.Context, req core.RegisterRequest) (result core.RegisterResult, err error) {
	if s == nil || s.registry == nil || s.clientFactory == nil {
		return core.RegisterResult{}, internalError("webhooks: service is not configured", nil)
	}
	startedAt := s.now()
	method := req.DeliveryMethod.Normalize()
	fields := map[string]any{
		"topic":           core.CanonicalTopic(req.Topic),
		"shop":            strings.TrimSpace(req.Shop),
		"delivery_method": string(method),
	}
	defer func() {
		status := ""
		if err == nil && !result.Success {
			status = "rejected"
		}
		s.observeOperation(ctx, startedAt, operationRegister, status, err, fields)
	}()

	if err := validateRegisterRequest(req, method); err != nil {
		return core.RegisterResult{}, err
	}

	address := s.targetAddress(req.Path, method)
	fields["address"] = address

	client, err := s.clientFactory(req.Shop, req.AccessToken)
	if err != nil {
		return core.RegisterResult{}, err
	}

	existingPayload, err := client.Query(ctx, BuildExistenceQuery(req.Topic))
	if err != nil {
		return core.RegisterResult{}, webhookWrapError(
			err,
			goerrors.CategoryExternal,
			"webhooks: look up existing subscription",
			http.StatusBadGateway,
			core.WebhookErrorExternalFailure,
			map[string]any{"topic": fields["topic"], "shop": fields["shop"]},
		)
	}

	existing, found := parseExistingSubscription(existingPayload)
	if found && existing.Address == address {
		fields["already_registered"] = true
		s.registry.Upsert(Entry{Topic: req.Topic, Path: req.Path, Handler: req.Handler})
		return core.RegisterResult{Success: true, Result: map[string]any{}}, nil
	}

	mutation := BuildUpsertMutation(req.Topic, address, method, existing.ID)
	payload, err := client.Query(ctx, mutation)
	if err != nil {
		return core.RegisterResult{}, webhookWrapError(
			err,
			goerrors.CategoryExternal,
			"webhooks: upsert subscription",
			http.StatusBadGateway,
			core.WebhookErrorExternalFailure,
			map[string]any{"topic": fields["topic"], "shop": fields["shop"], "mutation": mutation.OperationName},
		)
	}
	fields["mutation"] = mutation.OperationName

	remoteID, ok := mutationSucceeded(payload, mutation.OperationName)
	if !ok {
		if userErrors := mutationUserErrors(payload, mutation.OperationName); len(userErrors) > 0 {
			fields["user_errors"] = userErrors
		}
		return core.RegisterResult{Success: false, Result: payload}, nil
	}

	s.registry.Upsert(Entry{Topic: req.Topic, Path: req.Path, Handler: req.Handler})
	fields["remote_subscription_id"] = remoteID

	if s.recorder != nil {
		_, recordErr := s.recorder.Record(ctx, core.SubscriptionRecord{
			Shop:                 strings.TrimSpace(req.Shop),
			Topic:                core.CanonicalTopic(req.Topic),
			Address:              address,
			DeliveryMethod:       method,
			RemoteSubscriptionID: remoteID,
		})
		if recordErr != nil {
			// ledger failures never fail a confirmed registration
			s.log(ctx, "warn", "register ledger write failed", map[string]any{
				"topic": fields["topic"],
				"shop":  fields["shop"],
				"error": recordErr.Error(),
			})
		}
	}

	return core.RegisterResult{Success: true, Result: payload}, nil
}

func (s *Service) targetAddress(path string, method core.DeliveryMethod) string {
	if method == core.DeliveryMethodEventBridge {
		return strings.TrimSpace(path)
	}
	return s.config.CallbackAddress(path)
}

func validateRegisterRequest(req core.RegisterRequest, method core.DeliveryMethod) error {
	missing := []string{}
	if strings.TrimSpace(req.Topic) == "" {
		missing = append(missing, "topic")
	}
	if strings.TrimSpace(req.Path) == "" {
		missing = append(missing, "path")
	}
	if strings.TrimSpace(req.Shop) == "" {
		missing = append(missing, "shop")
	}
	if strings.TrimSpace(req.AccessToken) == "" {
		missing = append(missing, "access_token")
	}
	if req.Handler == nil {
		missing = append(missing, "handler")
	}
	if len(missing) > 0 {
		return badInput(
			fmt.Sprintf("webhooks: register request is missing %s", strings.Join(missing, ", ")),
			map[string]any{"missing_fields": missing},
		)
	}
	if !method.Valid() {
		return badInput(
			fmt.Sprintf("webhooks: unsupported delivery method %q", string(method)),
			map[string]any{"delivery_method": string(method)},
		)
	}
	return nil
}
