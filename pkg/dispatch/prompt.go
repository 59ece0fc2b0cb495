package dispatch

import (
	"github.com/minhyannv/cyberguard-go/pkg/config"
	"github.com/openai/openai-go"
)

// SystemPrompt frames every request. It is sent verbatim as the first message.
const SystemPrompt = `You are CyberGuard AI, a cybersecurity expert assistant. Follow these guidelines:
- Provide accurate, technical information about cybersecurity
- Include security best practices and potential risks
- Format responses in clear, readable markdown
- Use code blocks for commands and configurations
- Be concise but thorough in explanations
- If a query is not security-related, politely redirect to security topics`

// BuildMessages returns the system message followed by exactly one user message.
// No earlier turns are ever included.
func BuildMessages(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(SystemPrompt),
		openai.UserMessage(prompt),
	}
}

// BuildParams assembles a fresh chat completion request for prompt.
func BuildParams(cfg config.Config, prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(cfg.Model),
		Messages:    BuildMessages(prompt),
		MaxTokens:   openai.Int(cfg.MaxTokens),
		Temperature: openai.Float(cfg.Temperature),
	}
}
