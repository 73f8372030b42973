package tubetrends

import (
	"context"
	"errors"
	"fmt"
)

// fakeLLM implements LanguageModel for tests. It counts calls and
// delegates to the configured complete function.
type fakeLLM struct {
	calls    int
	complete func(systemPrompt, userPrompt string) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.complete == nil {
		return "", errors.New("no completion configured")
	}
	return f.complete(systemPrompt, userPrompt)
}

// fakeEmbedder returns canned vectors keyed by exact input text.
type fakeEmbedder struct {
	vectors map[string][]float64
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vector, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	// Callers may normalize in place, so hand out a copy.
	out := make([]float64, len(vector))
	copy(out, vector)
	return out, nil
}
