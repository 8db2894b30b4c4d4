package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error
	// Hook opcional para controlar cada llamada (p.ej. simular latencia o timeouts).
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return m.Response, m.Err
}
