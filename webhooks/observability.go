package webhooks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-shopify-webhooks/core"
)

func (s *Service) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	status string,
	err error,
	fields map[string]any,
) {
	if s == nil {
		return
	}
	if status == "" {
		status = "success"
		if err != nil {
			status = "failure"
		}
	}
	elapsed := s.now().Sub(startedAt).Milliseconds()

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = elapsed
	if err != nil {
		contextFields["error"] = err.Error()
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	if topic := strings.TrimSpace(fmt.Sprint(contextFields["topic"])); topic != "" && topic != "<nil>" {
		tags["topic"] = topic
	}

	if s.metrics != nil {
		s.metrics.IncCounter(ctx, "webhooks."+operation+".total", 1, tags)
		s.metrics.ObserveHistogram(ctx, "webhooks."+operation+".duration_ms", float64(elapsed), tags)
	}

	switch {
	case err != nil:
		s.log(ctx, "error", operation+" failed", contextFields)
	case status == "success":
		s.log(ctx, "info", operation+" succeeded", contextFields)
	default:
		s.log(ctx, "warn", operation+" "+status, contextFields)
	}
}

func (s *Service) log(ctx context.Context, level string, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
