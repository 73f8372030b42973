package tubetrends

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractTopicsAnnotates(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		return `{"main_topic":"Go","subtopics":["testing","generics"]}`, nil
	}}
	videos := []Video{
		{ID: "a", Title: "Go tips"},
		{ID: "b", Title: "More Go tips"},
	}

	annotated := ExtractTopics(context.Background(), llm, videos)

	if len(annotated) != 2 {
		t.Fatalf("got %d videos, want 2", len(annotated))
	}
	for i, video := range annotated {
		if video.ID != videos[i].ID {
			t.Errorf("order changed: annotated[%d].ID = %s, want %s", i, video.ID, videos[i].ID)
		}
		if video.MainTopic != "Go" {
			t.Errorf("video %s main topic = %q, want %q", video.ID, video.MainTopic, "Go")
		}
		if len(video.Subtopics) != 2 {
			t.Errorf("video %s subtopics = %v", video.ID, video.Subtopics)
		}
	}
}

func TestExtractTopicsPerVideoFailure(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		if strings.Contains(userPrompt, "Broken") {
			return "", errors.New("model unavailable")
		}
		return `{"main_topic":"Rust","subtopics":["ownership"]}`, nil
	}}
	videos := []Video{
		{ID: "a", Title: "Rust intro"},
		{ID: "b", Title: "Broken upload"},
		{ID: "c", Title: "Rust lifetimes"},
	}

	annotated := ExtractTopics(context.Background(), llm, videos)

	if annotated[0].MainTopic != "Rust" || annotated[2].MainTopic != "Rust" {
		t.Errorf("healthy videos not annotated: %q, %q", annotated[0].MainTopic, annotated[2].MainTopic)
	}
	if annotated[1].MainTopic != "" || annotated[1].Subtopics != nil {
		t.Errorf("failed video should have empty topic, got %q %v", annotated[1].MainTopic, annotated[1].Subtopics)
	}
}

func TestExtractTopicsDoesNotMutateInput(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		return `{"main_topic":"fresh","subtopics":[]}`, nil
	}}
	videos := []Video{{ID: "a", Title: "t", MainTopic: "stale"}}

	annotated := ExtractTopics(context.Background(), llm, videos)

	if videos[0].MainTopic != "stale" {
		t.Errorf("input mutated: main topic = %q", videos[0].MainTopic)
	}
	if annotated[0].MainTopic != "fresh" {
		t.Errorf("annotation missing: main topic = %q", annotated[0].MainTopic)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("hello", 3); got != "hel" {
		t.Errorf("got %q", got)
	}
	// Multi-byte characters are not split.
	if got := truncateRunes("héllo wörld", 5); got != "héllo" {
		t.Errorf("got %q", got)
	}
}
