package webhooks

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-shopify-webhooks/core"
)

const existenceQuery = `query webhookSubscriptionByTopic($topics: [WebhookSubscriptionTopic!]) {
  webhookSubscriptions(first: 1, topics: $topics) {
    edges {
      node {
        id
        endpoint {
          __typename
          ... on WebhookHttpEndpoint {
            callbackUrl
          }
          ... on WebhookEventBridgeEndpoint {
            arn
          }
        }
      }
    }
  }
}`

// mutationSpec describes one of the four upsert mutations.
type mutationSpec struct {
	name       string
	inputType  string
	addressArg string
	update     bool
}

func resolveMutation(method core.DeliveryMethod, update bool) mutationSpec {
	spec := mutationSpec{
		name:       "webhookSubscriptionCreate",
		inputType:  "WebhookSubscriptionInput",
		addressArg: "callbackUrl",
		update:     update,
	}
	if method.Normalize() == core.DeliveryMethodEventBridge {
		spec.name = "eventBridgeWebhookSubscriptionCreate"
		spec.inputType = "EventBridgeWebhookSubscriptionInput"
		spec.addressArg = "arn"
	}
	if update {
		spec.name = strings.TrimSuffix(spec.name, "Create") + "Update"
	}
	return spec
}

// MutationName returns the mutation used for a delivery method and whether an
// existing subscription is updated.
func MutationName(method core.DeliveryMethod, update bool) string {
	return resolveMutation(method, update).name
}

// BuildExistenceQuery looks up the first subscription for a topic.
func BuildExistenceQuery(topic string) core.GraphQLRequest {
	return core.GraphQLRequest{
		Query:         existenceQuery,
		OperationName: "webhookSubscriptionByTopic",
		Variables: map[string]any{
			"topics": []string{core.CanonicalTopic(topic)},
		},
	}
}

// BuildUpsertMutation creates a subscription when existingID is empty and
// updates that subscription otherwise.
func BuildUpsertMutation(topic string, address string, method core.DeliveryMethod, existingID string) core.GraphQLRequest {
	existingID = strings.TrimSpace(existingID)
	spec := resolveMutation(method, existingID != "")

	variables := map[string]any{
		"webhookSubscription": map[string]any{spec.addressArg: address},
	}
	var signature, arguments string
	if spec.update {
		variables["id"] = existingID
		signature = fmt.Sprintf("$id: ID!, $webhookSubscription: %s!", spec.inputType)
		arguments = "id: $id, webhookSubscription: $webhookSubscription"
	} else {
		variables["topic"] = core.CanonicalTopic(topic)
		signature = fmt.Sprintf("$topic: WebhookSubscriptionTopic!, $webhookSubscription: %s!", spec.inputType)
		arguments = "topic: $topic, webhookSubscription: $webhookSubscription"
	}

	query := fmt.Sprintf(`mutation %s(%s) {
  %s(%s) {
    userErrors {
      field
      message
    }
    webhookSubscription {
      id
    }
  }
}`, spec.name, signature, spec.name, arguments)

	return core.GraphQLRequest{
		Query:         query,
		OperationName: spec.name,
		Variables:     variables,
	}
}

type existingSubscription struct {
	ID      string
	Address string
}

// parseExistingSubscription reads the first edge of an existence query
// payload. A payload without edges means no subscription exists.
func parseExistingSubscription(payload map[string]any) (existingSubscription, bool) {
	connection := nestedMap(payload, "data", "webhookSubscriptions")
	edges, _ := connection["edges"].([]any)
	if len(edges) == 0 {
		return existingSubscription{}, false
	}
	edge, _ := edges[0].(map[string]any)
	node := nestedMap(edge, "node")
	id, _ := node["id"].(string)
	if strings.TrimSpace(id) == "" {
		return existingSubscription{}, false
	}

	out := existingSubscription{ID: id}
	endpoint := nestedMap(node, "endpoint")
	for _, key := range []string{"callbackUrl", "arn"} {
		if value, ok := endpoint[key].(string); ok && value != "" {
			out.Address = value
			break
		}
	}
	if out.Address == "" {
		// older API versions expose callbackUrl directly on the node
		out.Address, _ = node["callbackUrl"].(string)
	}
	return out, true
}

// mutationSucceeded reports whether data.<name>.webhookSubscription is set.
func mutationSucceeded(payload map[string]any, name string) (string, bool) {
	subscription := nestedMap(payload, "data", name, "webhookSubscription")
	if subscription == nil {
		return "", false
	}
	id, _ := subscription["id"].(string)
	return id, true
}

func mutationUserErrors(payload map[string]any, name string) []any {
	errs, _ := nestedMap(payload, "data", name)["userErrors"].([]any)
	return errs
}

func nestedMap(root map[string]any, path ...string) map[string]any {
	current := root
	for _, key := range path {
		if current == nil {
			return nil
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
