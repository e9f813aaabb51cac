// Package bedrock uses an AWS Bedrock model to split raw contact name
// strings that rule-based cleaning could not make sense of. All data stays
// within AWS - no external API calls.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

const nameRepairSystem = `You split raw contact name strings into a first and last name.
Reply with a single JSON object {"first": "...", "last": "..."} and nothing else.
Use lowercase ASCII letters only. Drop titles, credentials, company names, and
anything that is not part of the person's name. If the string contains no usable
person name, return {"first": "", "last": ""}.`

// NameRepairer asks a Bedrock model to recover first/last name parts from
// strings the deterministic cleaner gave up on.
type NameRepairer struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
}

// NewNameRepairer creates a repairer from configuration, loading AWS
// credentials from the default chain.
func NewNameRepairer(ctx context.Context, cfg config.BedrockConfig) (*NameRepairer, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}

	logger.Info("bedrock_repairer_ready", "model_id", modelID, "region", region)
	return &NameRepairer{
		client:    bedrockruntime.NewFromConfig(awsCfg),
		modelID:   modelID,
		maxTokens: maxTokens,
	}, nil
}

type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
	Temperature      float64         `json:"temperature"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// RepairName sends the raw string to the model and returns the recovered
// first and last name. The bool is false when the model found no usable
// name. Callers should still run the result through the normal name
// standardization path.
func (r *NameRepairer) RepairName(ctx context.Context, raw string) (string, string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false, nil
	}

	requestBody, err := json.Marshal(buildNameRequest(raw, r.maxTokens))
	if err != nil {
		return "", "", false, fmt.Errorf("marshaling request: %w", err)
	}

	output, err := r.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(r.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		return "", "", false, fmt.Errorf("invoking model: %w", err)
	}

	var parsed claudeResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return "", "", false, fmt.Errorf("parsing response: %w", err)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	first, last, ok := parseNameAnswer(text)
	if !ok {
		logger.Debug("bedrock_repair_no_name", "raw", logger.RedactName(raw))
	}
	return first, last, ok, nil
}

func buildNameRequest(raw string, maxTokens int) claudeRequest {
	return claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		System:           nameRepairSystem,
		Messages: []claudeMessage{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: "Raw name: " + raw}},
		}},
		Temperature: 0,
	}
}

// parseNameAnswer pulls the JSON object out of the model's reply. Models
// sometimes wrap the object in prose or a code fence, so it scans for the
// outermost braces instead of unmarshaling the whole reply.
func parseNameAnswer(text string) (string, string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", "", false
	}

	var answer struct {
		First string `json:"first"`
		Last  string `json:"last"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &answer); err != nil {
		return "", "", false
	}

	first := strings.ToLower(strings.TrimSpace(answer.First))
	last := strings.ToLower(strings.TrimSpace(answer.Last))
	if first == "" {
		return "", "", false
	}
	return first, last, true
}
