package tubetrends

import (
	"context"
	"fmt"
	"log"
)

// maxDescriptionLength bounds how much of a video description is sent to
// the model; descriptions are frequently padded with links and sponsor text.
const maxDescriptionLength = 500

const topicExtractionSystemPrompt = `You are an expert at analyzing video content and extracting main topics.
Extract the main topics from the video title and description.
Focus on technical topics, frameworks, tools, and concepts.
Return a JSON object with 'main_topic' and 'subtopics' (list of 3-5 subtopics).`

// topicExtraction is the structured response for one video's topic analysis.
type topicExtraction struct {
	MainTopic string   `json:"main_topic" jsonschema:"description=The single main topic of the video"`
	Subtopics []string `json:"subtopics" jsonschema:"description=List of 3-5 related subtopics"`
}

// ExtractTopics annotates each video with a main topic and subtopics using
// one model call per video. A failed call leaves that video with an empty
// topic and never aborts the batch. The input slice is not modified; the
// returned slice preserves input order.
func ExtractTopics(ctx context.Context, llm LanguageModel, videos []Video) []Video {
	annotated := make([]Video, len(videos))

	for i, video := range videos {
		annotated[i] = annotateVideo(ctx, llm, video)
	}

	return annotated
}

// annotateVideo returns a copy of video with topic fields populated, or
// zeroed out when extraction fails.
func annotateVideo(ctx context.Context, llm LanguageModel, video Video) Video {
	userPrompt := fmt.Sprintf("Title: %s\n\nDescription: %s",
		video.Title, truncateRunes(video.Description, maxDescriptionLength))

	var result topicExtraction
	if err := completeJSON(ctx, llm, topicExtractionSystemPrompt, userPrompt, "topic_extraction", &result); err != nil {
		log.Printf("Error extracting topics for video %s: %v", video.ID, err)
		video.MainTopic = ""
		video.Subtopics = nil
		return video
	}

	video.MainTopic = result.MainTopic
	video.Subtopics = result.Subtopics
	return video
}

// truncateRunes truncates a string to at most n runes without splitting
// a multi-byte character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
