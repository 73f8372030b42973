package tubetrends

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// insightsFallback is returned when the insight call fails; the caller
// never sees an error from this stage.
const insightsFallback = "Unable to generate insights at this time."

// maxInsightTrends caps how many trends are summarized for the model.
const maxInsightTrends = 10

const insightsSystemPrompt = `You are an expert analyst providing insights on trending topics.
Analyze the trend data and provide actionable insights.
Focus on:
1. What topics are currently most popular
2. Why these topics might be trending
3. Emerging topics to watch
4. Recommendations for content creators or learners
Keep the insights concise and actionable.`

// GenerateInsights produces free-text commentary on the ranked trends
// via one model call. Failures are logged and replaced with a fixed
// fallback string.
func GenerateInsights(ctx context.Context, llm LanguageModel, trends []Trend, areaOfInterest string) string {
	top := trends
	if len(top) > maxInsightTrends {
		top = top[:maxInsightTrends]
	}

	var lines []string
	for i, trend := range top {
		lines = append(lines, fmt.Sprintf("%d. %s: Score=%.2f, Videos=%d, Engagement=%.2f%%",
			i+1, trend.Topic, trend.Score, trend.VideoCount, trend.AvgEngagementRate))
	}

	userPrompt := fmt.Sprintf("Area of Interest: %s\n\nTop Trends:\n%s",
		areaOfInterest, strings.Join(lines, "\n"))

	insights, err := llm.Complete(ctx, insightsSystemPrompt, userPrompt)
	if err != nil {
		log.Printf("Error generating insights: %v", err)
		return insightsFallback
	}

	return strings.TrimSpace(insights)
}
