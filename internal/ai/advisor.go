package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"retailsage/internal/config"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"
)

// Generator is the single hosted-model call both flows go through. It exists
// so tests can substitute a fake for the Gemini client.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return resp.Text(), nil
}

// Advisor wraps the two AI flows: schema-validated pass-throughs to a hosted
// model. No retrieval, no caching, no retries.
type Advisor struct {
	gen      Generator
	validate *validator.Validate
}

// NewAdvisor creates an Advisor backed by the Gemini API.
func NewAdvisor(ctx context.Context, cfg config.AIConfig) (*Advisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	return NewAdvisorWithGenerator(&geminiGenerator{client: client, model: cfg.Model}), nil
}

// NewAdvisorWithGenerator creates an Advisor over a custom Generator.
func NewAdvisorWithGenerator(gen Generator) *Advisor {
	return &Advisor{
		gen:      gen,
		validate: validator.New(),
	}
}

// SuggestProductDetailsInput is the input for SuggestProductDetails.
type SuggestProductDetailsInput struct {
	ProductName string `validate:"required"`
}

// SuggestProductDetailsOutput carries the model's suggestions.
type SuggestProductDetailsOutput struct {
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required"`
}

const suggestProductDetailsPrompt = `You are an expert in retail product management.

Based on the product name provided, suggest a suitable category and a compelling, brief description.

Product Name: %s

The category should be one of the following: Groceries, Apparel, Electronics, Cafe, Fuel, Books, Home Goods, Other.
The description should be one short sentence.`

var suggestProductDetailsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category": {
			Type:        genai.TypeString,
			Description: "A suitable category for the product.",
		},
		"description": {
			Type:        genai.TypeString,
			Description: "A concise and appealing description for the product.",
		},
	},
	Required: []string{"category", "description"},
}

// SuggestProductDetails asks the model for a category and description for a
// product name. Single call, no retry.
func (a *Advisor) SuggestProductDetails(ctx context.Context, input SuggestProductDetailsInput) (*SuggestProductDetailsOutput, error) {
	if err := a.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	prompt := fmt.Sprintf(suggestProductDetailsPrompt, input.ProductName)
	raw, err := a.gen.Generate(ctx, prompt, suggestProductDetailsSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest product details: %w", err)
	}

	var out SuggestProductDetailsOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if err := a.validate.Struct(out); err != nil {
		return nil, fmt.Errorf("model response missing fields: %w", err)
	}

	return &out, nil
}

// AnalyzeRiskInput bundles the operational data for risk analysis, each as a
// JSON string.
type AnalyzeRiskInput struct {
	SalesData    string `validate:"required,json"`
	StockLevels  string `validate:"required,json"`
	SpoilageData string `validate:"required,json"`
}

// AnalyzeRiskOutput is the model's assessment.
type AnalyzeRiskOutput struct {
	RiskAssessment string   `json:"riskAssessment" validate:"required"`
	HighRiskAreas  []string `json:"highRiskAreas"`
}

const analyzeRiskPrompt = `You are a risk assessment expert in the retail industry.

You will analyze the provided sales data, stock levels, and spoilage data to identify potential risks.

Sales Data: %s
Stock Levels: %s
Spoilage Data: %s

Based on this information, provide a comprehensive risk assessment and highlight areas identified as high risk.

Consider factors such as sales trends, inventory turnover, and spoilage rates to determine the overall risk level.

Ensure that your assessment is clear, concise, and actionable, providing specific recommendations for mitigating identified risks.

Format the riskAssessment as a detailed paragraph. Format the highRiskAreas as a list of strings.`

var analyzeRiskSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"riskAssessment": {
			Type:        genai.TypeString,
			Description: "A comprehensive risk assessment based on the provided data.",
		},
		"highRiskAreas": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List of areas identified as high risk.",
		},
	},
	Required: []string{"riskAssessment", "highRiskAreas"},
}

// AnalyzeRisk asks the model for a risk assessment over sales, stock and
// spoilage data. Single call, no retry.
func (a *Advisor) AnalyzeRisk(ctx context.Context, input AnalyzeRiskInput) (*AnalyzeRiskOutput, error) {
	if err := a.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	prompt := fmt.Sprintf(analyzeRiskPrompt, input.SalesData, input.StockLevels, input.SpoilageData)
	raw, err := a.gen.Generate(ctx, prompt, analyzeRiskSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze risk: %w", err)
	}

	var out AnalyzeRiskOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if err := a.validate.Struct(out); err != nil {
		return nil, fmt.Errorf("model response missing fields: %w", err)
	}

	return &out, nil
}
