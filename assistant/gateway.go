// Package assistant is the boundary to the external generative health
// assistant. The remote service is opaque: this package only moves requests
// and responses across the wire and falls back to canned answers when the
// service cannot be reached.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SymptomRequest describes the person asking for a symptom analysis.
type SymptomRequest struct {
	Symptoms   string   `json:"symptoms"`
	Age        int      `json:"age"`
	Conditions []string `json:"conditions,omitempty"`
}

// SymptomAnalysis is the gateway's answer to a SymptomRequest.
type SymptomAnalysis struct {
	PossibleConditions   []string `json:"possibleConditions"`
	RecommendedMedicines []string `json:"recommendedMedicines"`
	SelfCareAdvice       []string `json:"selfCareAdvice"`
	WhenToSeeDoctor      string   `json:"whenToSeeDoctor"`
}

// MedicineInfo is what the gateway knows about a medicine it identified from a
// description of its packaging or the pill itself.
type MedicineInfo struct {
	Name             string   `json:"name"`
	ActiveIngredient string   `json:"activeIngredient"`
	Dosage           string   `json:"dosage"`
	Usages           []string `json:"usages"`
	SideEffects      []string `json:"sideEffects"`
	Interactions     []string `json:"interactions"`
	Precautions      []string `json:"precautions"`
}

// Gateway is the external assistant service.
type Gateway interface {
	AnalyzeSymptoms(ctx context.Context, req SymptomRequest) (SymptomAnalysis, error)
	Chat(ctx context.Context, query string) (string, error)
	IdentifyMedicine(ctx context.Context, description string) (MedicineInfo, error)
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway responded with status %d: %s", e.Code, e.Body)
}

// HTTPGateway talks JSON over HTTP to the service rooted at BaseURL.
//
// Each attempt gets its own Timeout. Transport errors and 5xx responses are
// retried up to Retries more times, waiting Backoff, then twice that, between
// attempts. 4xx responses are returned immediately.
type HTTPGateway struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// NewHTTPGateway returns a gateway with sane defaults for everything but the
// endpoint and key.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  http.DefaultClient,
		Timeout: 10 * time.Second,
		Retries: 2,
		Backoff: 250 * time.Millisecond,
	}
}

// AnalyzeSymptoms posts req to /symptoms.
func (g *HTTPGateway) AnalyzeSymptoms(ctx context.Context, req SymptomRequest) (SymptomAnalysis, error) {
	var out SymptomAnalysis
	if err := g.post(ctx, "/symptoms", req, &out); err != nil {
		return SymptomAnalysis{}, err
	}
	return out, nil
}

// Chat posts query to /chat. An empty reply is an error.
func (g *HTTPGateway) Chat(ctx context.Context, query string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	if err := g.post(ctx, "/chat", map[string]string{"query": query}, &out); err != nil {
		return "", err
	}
	if out.Reply == "" {
		return "", errors.New("gateway returned an empty reply")
	}
	return out.Reply, nil
}

// IdentifyMedicine posts description to /identify. A response without a name
// is an error.
func (g *HTTPGateway) IdentifyMedicine(ctx context.Context, description string) (MedicineInfo, error) {
	var out MedicineInfo
	if err := g.post(ctx, "/identify", map[string]string{"description": description}, &out); err != nil {
		return MedicineInfo{}, err
	}
	if strings.TrimSpace(out.Name) == "" {
		return MedicineInfo{}, errors.New("gateway identified no medicine")
	}
	return out, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("while encoding request: %w", err)
	}

	wait := g.Backoff
	var lastErr error
	for attempt := 0; attempt <= g.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		retry, err := g.attempt(ctx, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("while calling %s%s: %w", g.BaseURL, path, lastErr)
}

// attempt performs one request. retry reports whether a failure is worth
// another attempt.
func (g *HTTPGateway) attempt(ctx context.Context, path string, body []byte, out any) (retry bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode >= 500, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("while decoding response: %w", err)
	}
	return false, nil
}
