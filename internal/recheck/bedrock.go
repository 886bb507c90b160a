package recheck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ppiankov/copywatch/internal/model"
)

// BedrockJudgeConfig holds parameters for an AWS Bedrock judge.
type BedrockJudgeConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
}

// BedrockJudge asks an Anthropic model on AWS Bedrock for a judgment.
// Credentials come from the default AWS chain.
type BedrockJudge struct {
	client  *bedrockruntime.Client
	modelID string
	maxTok  int
}

// NewBedrockJudge resolves AWS configuration and creates the judge.
func NewBedrockJudge(ctx context.Context, cfg BedrockJudgeConfig) (*BedrockJudge, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("bedrock model id is required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &BedrockJudge{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		maxTok:  cfg.MaxTokens,
	}, nil
}

// anthropicRequest is the Bedrock-native Anthropic messages payload.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Judge invokes the model and parses the judgment.
func (j *BedrockJudge) Judge(ctx context.Context, policyBrief, text string) (*model.CheckResult, error) {
	payload, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        j.maxTok,
		System:           judgeInstructions + "\n\n" + policyBrief,
		Messages:         []anthropicMessage{{Role: "user", Content: text}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode bedrock payload: %w", err)
	}

	out, err := j.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(j.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke failed: %w", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decode bedrock response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty bedrock response")
	}

	return ParseJudgment(resp.Content[0].Text)
}
