package tubetrends

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateInsights(t *testing.T) {
	var gotPrompt string
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		gotPrompt = userPrompt
		return "  AI tooling dominates this week.  ", nil
	}}
	trends := []Trend{
		{Topic: "AI tooling", Score: 244.2, VideoCount: 12, AvgEngagementRate: 6.0},
		{Topic: "Databases", Score: 80.5, VideoCount: 4, AvgEngagementRate: 2.5},
	}

	insights := GenerateInsights(context.Background(), llm, trends, "software engineering")

	if insights != "AI tooling dominates this week." {
		t.Errorf("insights = %q", insights)
	}
	if !strings.Contains(gotPrompt, "software engineering") {
		t.Errorf("prompt missing area of interest: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "1. AI tooling: Score=244.20, Videos=12, Engagement=6.00%") {
		t.Errorf("prompt missing trend summary: %q", gotPrompt)
	}
}

func TestGenerateInsightsFallback(t *testing.T) {
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		return "", errors.New("timeout")
	}}

	insights := GenerateInsights(context.Background(), llm, []Trend{{Topic: "x"}}, "tech")

	if insights != insightsFallback {
		t.Errorf("insights = %q, want fallback", insights)
	}
}

func TestGenerateInsightsCapsTrendCount(t *testing.T) {
	var gotPrompt string
	llm := &fakeLLM{complete: func(systemPrompt, userPrompt string) (string, error) {
		gotPrompt = userPrompt
		return "ok", nil
	}}

	trends := make([]Trend, 15)
	for i := range trends {
		trends[i].Topic = "topic"
	}
	GenerateInsights(context.Background(), llm, trends, "tech")

	if strings.Contains(gotPrompt, "11.") {
		t.Errorf("prompt lists more than 10 trends: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "10.") {
		t.Errorf("prompt missing 10th trend: %q", gotPrompt)
	}
}
