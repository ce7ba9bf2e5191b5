package webhooks

import (
	"errors"
	"io"
	"net/http"

	"github.com/goliatone/go-shopify-webhooks/core"
)

// HTTPHandler serves webhook deliveries for every path held by the registry.
func (s *Service) HTTPHandler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

func (s *Service) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.IsWebhookPath(r.URL.Path) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	reader := io.Reader(r.Body)
	if limit := s.config.MaxBodyBytes; limit > 0 {
		reader = http.MaxBytesReader(w, r.Body, limit)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.Process(r.Context(), core.InboundMessage{
		Headers: flattenRequestHeaders(r.Header),
		Body:    body,
	})
	if err != nil {
		writeProcessError(w, err)
		return
	}

	for key, value := range result.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(result.StatusCode)
}

// writeProcessError names the missing headers to the sender; any other failure
// is reported by status text only.
func writeProcessError(w http.ResponseWriter, err error) {
	if IsMissingHeadersError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func flattenRequestHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) == 0 {
			continue
		}
		out[key] = values[0]
	}
	return out
}
