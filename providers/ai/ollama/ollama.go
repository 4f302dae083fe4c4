package ollama

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/structguard/internal/utils"
	"github.com/leofalp/structguard/providers/ai"
	"github.com/leofalp/structguard/providers/observability"
)

const (
	providerName   = "ollama"
	defaultBaseURL = "http://localhost:11434"
	chatEndpoint   = "/api/chat"
)

// OllamaProvider implements [ai.Provider] for Ollama's native chat API.
type OllamaProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*OllamaProvider)(nil)

// New returns an OllamaProvider pointed at OLLAMA_HOST, or
// http://localhost:11434 when unset. A bare host:port is accepted.
func New() *OllamaProvider {
	return &OllamaProvider{
		baseURL: normalizeBaseURL(os.Getenv("OLLAMA_HOST")),
		client:  &http.Client{},
	}
}

func normalizeBaseURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return defaultBaseURL
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host
}

func (p *OllamaProvider) Name() string {
	return providerName
}

// WithAPIKey sets a Bearer token for authenticating proxies.
func (p *OllamaProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

func (p *OllamaProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = normalizeBaseURL(baseURL)
	return p
}

func (p *OllamaProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage posts the request to /api/chat and waits for the full reply.
func (p *OllamaProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if request.Model == "" {
		return nil, fmt.Errorf("ollama: model is required")
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
		)
	}

	body := requestFromGeneric(request)
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Trace(ctx, "Ollama provider preparing request",
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Float64(observability.AttrLLMTemperature, float64(*body.Options.Temperature)),
		)
	}

	httpResponse, resp, err := utils.DoPostSync[chatResponse](ctx, p.client, p.baseURL+chatEndpoint, p.apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("ollama: empty response: %s", httpResponse.Status)
	}

	result := responseToGeneric(*resp)
	if result.Model == "" {
		result.Model = request.Model
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
			observability.Int(observability.AttrHTTPStatusCode, httpResponse.StatusCode),
		)
	}

	return result, nil
}
