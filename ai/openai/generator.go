package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/zhangxiaofan-star/AICam/ai"
)

// systemPrompt instructs the model to answer strictly from the supplied
// knowledge context, matching the behavior of the original advisor.
const systemPrompt = `你是一个加工工艺专家。请基于提供的知识库信息回答用户问题。
要求：
1. 严格基于提供的知识库内容回答
2. 回答要准确、简洁、结构化
3. 如果知识库中没有相关信息，请明确说明
4. 使用中文回答`

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.LLMHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.LLMModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// GenerateAnswer sends the knowledge context plus question to the chat
// model and returns its response verbatim. The call is bounded by the
// configured request timeout; expiry surfaces as an error so the caller
// can descend the fallback chain.
func (g *Generator) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	g.logger.Debug("generating answer", "questionLength", len(question), "contextLength", len(contextText))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	system := systemPrompt
	if contextText != "" {
		system = systemPrompt + "\n\n知识库内容：\n" + contextText
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(question)},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.3))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}
