package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// MockModel answers offline with the first line of context found in the
// prompt, or "I don't know." when there is none.
type MockModel struct{}

var _ llms.Model = (*MockModel)(nil)

func NewMockModel() *MockModel {
	return &MockModel{}
}

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}
	if prompt.Len() == 0 {
		return nil, fmt.Errorf("empty prompt")
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: mockAnswer(prompt.String()), StopReason: "stop"}},
	}, nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func mockAnswer(prompt string) string {
	_, after, found := strings.Cut(prompt, "Context:")
	if !found {
		return "I don't know."
	}
	retrieved, _, _ := strings.Cut(after, "\nAnswer:")
	for _, line := range strings.Split(retrieved, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "I don't know."
}
