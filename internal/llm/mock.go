package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response      string
	Err           error
	Embedding     []float32
	EmbeddingErr  error
	GenerateCalls int
	LastPrompt    string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	return m.Response, m.Err
}

func (m *MockClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return m.Embedding, m.EmbeddingErr
}
