package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrEmptyQuery is returned when there is nothing to ask the assistant.
var ErrEmptyQuery = errors.New("query must not be empty")

// Advisor answers assistant requests, preferring the remote Gateway and
// falling back to canned answers when it is disabled or failing.
type Advisor struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewAdvisor returns an Advisor. A nil gateway disables remote calls.
func NewAdvisor(g Gateway, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{gateway: g, logger: logger}
}

// AnalyzeSymptoms returns an analysis and whether it is the canned fallback.
func (a *Advisor) AnalyzeSymptoms(ctx context.Context, req SymptomRequest) (SymptomAnalysis, bool, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return SymptomAnalysis{}, false, ErrEmptyQuery
	}
	if a.gateway != nil {
		analysis, err := a.gateway.AnalyzeSymptoms(ctx, req)
		if err == nil {
			return analysis, false, nil
		}
		a.logger.WarnContext(ctx, "Symptom analysis failed, using fallback", slog.Any("err", err))
	}
	return FallbackAnalysis(), true, nil
}

// Chat returns a reply to query and whether it is a canned fallback.
func (a *Advisor) Chat(ctx context.Context, query string) (string, bool, error) {
	if strings.TrimSpace(query) == "" {
		return "", false, ErrEmptyQuery
	}
	if a.gateway != nil {
		reply, err := a.gateway.Chat(ctx, query)
		if err == nil {
			return reply, false, nil
		}
		a.logger.WarnContext(ctx, "Chat failed, using fallback", slog.Any("err", err))
	}
	return FallbackReply(query), true, nil
}

// IdentifyMedicine returns what the gateway makes of description and whether
// it is the canned fallback.
func (a *Advisor) IdentifyMedicine(ctx context.Context, description string) (MedicineInfo, bool, error) {
	if strings.TrimSpace(description) == "" {
		return MedicineInfo{}, false, ErrEmptyQuery
	}
	if a.gateway != nil {
		info, err := a.gateway.IdentifyMedicine(ctx, description)
		if err == nil {
			return info, false, nil
		}
		a.logger.WarnContext(ctx, "Medicine identification failed, using fallback", slog.Any("err", err))
	}
	return FallbackMedicineInfo(), true, nil
}
