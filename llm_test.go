package tubetrends

import (
	"context"
	"errors"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"no trailing fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteJSONParsesFencedResponse(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		return "```json\n{\"main_topic\":\"go\",\"subtopics\":[\"x\"]}\n```", nil
	}}

	var out topicExtraction
	if err := completeJSON(context.Background(), llm, "sys", "user", "topic_extraction", &out); err != nil {
		t.Fatal(err)
	}
	if out.MainTopic != "go" || len(out.Subtopics) != 1 {
		t.Errorf("parsed = %+v", out)
	}
}

func TestCompleteJSONPropagatesCallError(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		return "", errors.New("boom")
	}}

	var out topicExtraction
	if err := completeJSON(context.Background(), llm, "sys", "user", "x", &out); err == nil {
		t.Error("expected error")
	}
}

func TestCompleteJSONRejectsMalformedResponse(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		return "sorry, I can't do that", nil
	}}

	var out topicExtraction
	if err := completeJSON(context.Background(), llm, "sys", "user", "x", &out); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncateString("a longer string", 8); got != "a lon..." {
		t.Errorf("got %q", got)
	}
}
