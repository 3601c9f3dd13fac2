package mock

import "context"

// MockGenerator is a test double for ai.Generator.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, the generator echoes the context it was given.
	GenerateAnswerFunc func(ctx context.Context, question, contextText string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default echo behavior.
// Returns the concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer returns the injected behavior's answer, or echoes the
// assembled context so tests can assert on what was retrieved.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, contextText)
	}

	if contextText == "" {
		return "no context for: " + question, nil
	}
	return contextText, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
}
