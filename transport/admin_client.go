package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-shopify-webhooks/core"
)

const HeaderAccessToken = "X-Shopify-Access-Token"

type AdminClientConfig struct {
	APIVersion string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	// EndpointFor overrides the Admin GraphQL URL for a shop, mostly for tests.
	EndpointFor func(shop string, apiVersion string) string
}

// AdminClient is a GraphQL client bound to one shop and access token.
type AdminClient struct {
	Shop        string
	AccessToken string
	Endpoint    string
	Timeout     time.Duration
	Adapter     core.TransportAdapter
}

// NewAdminClientFactory returns a factory building clients that share one
// HTTP client.
func NewAdminClientFactory(cfg AdminClientConfig) core.GraphQLClientFactory {
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = core.DefaultAPIVersion
	}
	endpointFor := cfg.EndpointFor
	if endpointFor == nil {
		endpointFor = AdminGraphQLEndpoint
	}
	adapter := NewGraphQLAdapter("", cfg.HTTPClient)

	return func(shop string, accessToken string) (core.GraphQLClient, error) {
		normalized, err := NormalizeShopDomain(shop)
		if err != nil {
			return nil, err
		}
		accessToken = strings.TrimSpace(accessToken)
		if accessToken == "" {
			return nil, transportError(
				"transport: access token is required",
				goerrors.CategoryBadInput,
				http.StatusBadRequest,
				map[string]any{"shop": normalized},
			)
		}
		return &AdminClient{
			Shop:        normalized,
			AccessToken: accessToken,
			Endpoint:    endpointFor(normalized, version),
			Timeout:     cfg.Timeout,
			Adapter:     adapter,
		}, nil
	}
}

func AdminGraphQLEndpoint(shop string, apiVersion string) string {
	return (&url.URL{
		Scheme: "https",
		Host:   shop,
		Path:   "/admin/api/" + strings.TrimSpace(apiVersion) + "/graphql.json",
	}).String()
}

func (c *AdminClient) Query(ctx context.Context, req core.GraphQLRequest) (map[string]any, error) {
	if c == nil || c.Adapter == nil {
		return nil, transportError(
			"transport: admin client is not configured",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	metadata := map[string]any{metadataQuery: req.Query}
	if req.OperationName != "" {
		metadata[metadataOperationName] = req.OperationName
	}
	if req.Variables != nil {
		metadata[metadataVariables] = req.Variables
	}

	response, err := c.Adapter.Do(ctx, core.TransportRequest{
		URL:      c.Endpoint,
		Headers:  map[string]string{HeaderAccessToken: c.AccessToken},
		Metadata: metadata,
		Timeout:  c.Timeout,
	})
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		category, code := goerrors.CategoryExternal, http.StatusBadGateway
		if response.StatusCode == http.StatusTooManyRequests {
			category, code = goerrors.CategoryRateLimit, http.StatusTooManyRequests
		}
		return nil, transportError(
			fmt.Sprintf("transport: admin api responded with status %d", response.StatusCode),
			category,
			code,
			map[string]any{
				"shop":           c.Shop,
				"status_code":    response.StatusCode,
				"operation_name": req.OperationName,
			},
		)
	}

	var payload map[string]any
	if err := json.Unmarshal(response.Body, &payload); err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: decode graphql response",
			http.StatusBadGateway,
			map[string]any{"shop": c.Shop, "operation_name": req.OperationName},
		)
	}
	if errs, ok := payload["errors"]; ok && !isEmpty(errs) {
		return nil, transportError(
			"transport: graphql query returned errors",
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"shop":           c.Shop,
				"operation_name": req.OperationName,
				"errors":         errs,
			},
		)
	}
	return payload, nil
}

// NormalizeShopDomain reduces a shop reference to a bare lowercase host.
func NormalizeShopDomain(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", transportError(
			"transport: shop domain is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	if strings.Contains(trimmed, "://") {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return "", transportWrapError(
				err,
				goerrors.CategoryBadInput,
				"transport: parse shop domain",
				http.StatusBadRequest,
				map[string]any{"shop": value},
			)
		}
		trimmed = parsed.Host
	}
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" || strings.ContainsAny(trimmed, "/?#@ ") {
		return "", transportError(
			"transport: invalid shop domain",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"shop": value},
		)
	}
	return trimmed, nil
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	case string:
		return strings.TrimSpace(typed) == ""
	default:
		return false
	}
}

var _ core.GraphQLClient = (*AdminClient)(nil)
