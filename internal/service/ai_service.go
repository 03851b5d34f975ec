package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"learnflow_backend/internal/config"
	"learnflow_backend/internal/util"
	"learnflow_backend/pkg/logger"
	"learnflow_backend/pkg/monitoring"
	"learnflow_backend/pkg/tracing"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// GenerationRequest 一次结构化生成调用的参数
type GenerationRequest struct {
	Schema      OutputSchema
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// StructuredGenerator 根据 prompt 和 schema 生成对象并解码到 out。
// 返回的错误都包装了 util.ErrGenerationFailed。
type StructuredGenerator interface {
	GenerateObject(ctx context.Context, req GenerationRequest, out interface{}) error
}

type AIService struct {
	mu       sync.RWMutex
	config   config.AIConfig
	client   *http.Client
	validate *validator.Validate
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config:   cfg,
		client:   &http.Client{Timeout: cfg.Timeout()},
		validate: validator.New(),
	}
}

// UpdateConfig 配置热更新时替换模型、地址和密钥
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: cfg.Timeout()}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
	Strict bool                   `json:"strict"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat responseFormat  `json:"response_format"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func generationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrGenerationFailed, fmt.Sprintf(format, args...))
}

func (s *AIService) GenerateObject(ctx context.Context, req GenerationRequest, out interface{}) (err error) {
	ctx, span := tracing.Tracer.Start(ctx, "ai.generate_object")
	span.SetAttributes(
		attribute.String("ai.schema", req.Schema.Name),
		attribute.Int("ai.max_tokens", req.MaxTokens),
		attribute.Float64("ai.temperature", req.Temperature),
	)
	start := time.Now()
	defer func() {
		monitoring.ObserveGeneration(req.Schema.Name, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Log.Warn("Structured generation failed",
				zap.String("schema", req.Schema.Name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
		}
		span.End()
	}()

	cfg, client := s.snapshot()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return generationError("AI API key is not configured")
	}

	body := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    []AIChatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaFormat{
				Name:   req.Schema.Name,
				Schema: req.Schema.Definition,
				Strict: true,
			},
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return generationError("encode request: %v", err)
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return generationError("build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		return generationError("request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return generationError("read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return generationError("AI API error (status %d): %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return generationError("decode response: %v", err)
	}
	if completion.Error != nil {
		return generationError("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return generationError("no choices returned")
	}

	choice := completion.Choices[0]
	if choice.Message.Refusal != "" {
		return generationError("model refused: %s", choice.Message.Refusal)
	}
	if choice.FinishReason == "length" {
		return generationError("output truncated at %d tokens", req.MaxTokens)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return generationError("empty output")
	}

	if err := json.Unmarshal([]byte(choice.Message.Content), out); err != nil {
		return generationError("decode %s output: %v", req.Schema.Name, err)
	}
	if err := s.validate.Struct(out); err != nil {
		return generationError("invalid %s output: %v", req.Schema.Name, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
