package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultChatModel    = "gpt-4o"
	DefaultSummaryModel = "gpt-4o-mini"
	openAIProvider      = "OpenAI"
)

type OpenAIOptions struct {
	BaseURL      string
	ChatModel    string
	SummaryModel string
	MaxRetries   int
}

type OpenAIClient struct {
	client       *openai.Client
	model        string
	summaryModel string
}

func NewOpenAIClient(apiKey string, opts OpenAIOptions) *OpenAIClient {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		options = append(options, option.WithBaseURL(opts.BaseURL))
	}
	if opts.ChatModel == "" {
		opts.ChatModel = DefaultChatModel
	}
	if opts.SummaryModel == "" {
		opts.SummaryModel = DefaultSummaryModel
	}

	client := openai.NewClient(options...)
	return &OpenAIClient{
		client:       &client,
		model:        opts.ChatModel,
		summaryModel: opts.SummaryModel,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (*model.Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toOpenAIMessages(req.System, req.Messages),
	}
	if len(req.Tools) > 0 {
		params.Tools = toOpenAITools(req.Tools)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	message := resp.Choices[0].Message
	out := &model.Message{
		Role:    model.RoleAssistant,
		Content: message.Content,
	}
	for _, toolCall := range message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			ID:        toolCall.ID,
			Name:      toolCall.Function.Name,
			Arguments: toolCall.Function.Arguments,
		})
	}

	return out, nil
}

func (c *OpenAIClient) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	req = req.WithDefaults()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.summaryModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt(req)),
			openai.UserMessage(formatItems(req.Items)),
		},
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	text := trimCodeFence(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("empty summary from openai")
	}

	return &SummaryResult{Text: text, ModelUsed: c.summaryModel}, nil
}

func toOpenAIMessages(system []string, messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(system)+len(messages))
	for _, s := range system {
		out = append(out, openai.SystemMessage(s))
	}

	for _, m := range messages {
		switch m.Role {
		case model.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case model.RoleAssistant:
			param := openai.AssistantMessage(m.Content)
			for _, call := range m.ToolCalls {
				param.OfAssistant.ToolCalls = append(param.OfAssistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: call.Arguments,
						},
					},
				})
			}
			out = append(out, param)
		case model.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func toOpenAITools(tools []ToolDefinition) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        t.Name,
					Description: openai.String(t.Description),
					Parameters:  openai.FunctionParameters(t.Parameters),
				},
			},
		})
	}
	return out
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		return &ProviderError{
			Provider:   openAIProvider,
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    message,
			Quota:      isQuotaSignal(apiErr.StatusCode, apiErr.Code, apiErr.Type),
		}
	}
	return fmt.Errorf("openai request failed: %w", err)
}
