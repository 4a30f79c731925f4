package organize

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// classificationSchema constrains Gemini's structured output to an array of
// {id, category, tags} objects with the category limited to the taxonomy.
var classificationSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":       {Type: genai.TypeString},
			"category": {Type: genai.TypeString, Enum: Categories},
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"id", "category", "tags"},
	},
}

// GeminiProvider dispatches chunks to the Google Gemini API using
// schema-constrained JSON output.
type GeminiProvider struct {
	apiKey string
	model  string
}

func newGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, &ProviderError{Provider: ProviderGemini, Kind: KindConfig,
			Message: "Gemini API key is not configured"}
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Dispatch(ctx context.Context, chunk []WorkItem, existingCategories []string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", p.wrapError(err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = classificationSchema
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt(existingCategories))},
	}

	log.Debugf("Dispatching %d items to Gemini model %s", len(chunk), p.model)
	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt(chunk)))
	if err != nil {
		return "", p.wrapError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// wrapError tags a Gemini failure with its kind. Context cancellation passes
// through untouched so the orchestrator can tell a user abort from a failure.
func (p *GeminiProvider) wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider: ProviderGemini,
			Kind:     kindForStatus(apiErr.Code),
			Status:   apiErr.Code,
			Message:  apiErr.Message,
		}
	}
	return &ProviderError{Provider: ProviderGemini, Kind: KindUnavailable, Message: err.Error()}
}
