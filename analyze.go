package tubetrends

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	analyzeTopic     string
	analyzeThreshold float64
)

// analysisResult is the on-disk shape of trends/trends.json.
type analysisResult struct {
	GeneratedAt    time.Time `json:"generated_at"`
	AreaOfInterest string    `json:"area_of_interest"`
	Trends         []Trend   `json:"trends"`
	Insights       string    `json:"insights"`
}

// AnalyzeCmd: runs the analysis pipeline over saved videos and writes
// trends/trends.json, report.md and report.html.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract topics, cluster videos and rank trends",
	Run: func(cmd *cobra.Command, args []string) {
		videos, err := loadVideos()
		if err != nil {
			log.Fatalf("Failed to load videos: %v", err)
		}
		if len(videos) == 0 {
			log.Fatal("No videos found, run fetch-videos first")
		}
		log.Printf("Analyzing %d videos", len(videos))

		llm := NewOpenAIChat(Config.OpenAIAPIKey, "")

		var embedder Embedder = NewOpenAIEmbedder(Config.OpenAIAPIKey)
		cache, err := NewEmbeddingCache("embeddings.db", embedder)
		if err != nil {
			log.Printf("Embedding cache unavailable, embedding without cache: %v", err)
		} else {
			defer cache.Close()
			embedder = cache
		}

		ctx := cmd.Context()

		videos = ExtractTopics(ctx, llm, videos)
		log.Printf("Topic extraction complete")

		clusters := ClusterSimilarTopics(ctx, llm, embedder, videos, analyzeThreshold)
		log.Printf("Clustered %d videos into %d topics", len(videos), len(clusters))

		trends := CalculateTrendScores(clusters)
		insights := GenerateInsights(ctx, llm, trends, analyzeTopic)

		if err := saveTrends(trends, insights, analyzeTopic); err != nil {
			log.Fatalf("Failed to save trends: %v", err)
		}
		if err := WriteReport(trends, insights, analyzeTopic); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}

		for i, trend := range trends {
			if i >= 5 {
				break
			}
			log.Printf("#%d %s (score %.2f, %d videos)", i+1, trend.Topic, trend.Score, trend.VideoCount)
		}
		log.Printf("Analysis complete: trends/trends.json, report.md, report.html")
	},
}

func init() {
	AnalyzeCmd.Flags().StringVar(&analyzeTopic, "topic", "technology", "area of interest the videos were fetched for")
	AnalyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", defaultSimilarityThreshold, "similarity threshold for clustering (0-1)")
}

// saveTrends writes the ranked trends and insights to trends/trends.json.
func saveTrends(trends []Trend, insights, areaOfInterest string) error {
	if err := os.MkdirAll("trends", 0755); err != nil {
		return fmt.Errorf("failed to create trends directory: %w", err)
	}

	result := analysisResult{
		GeneratedAt:    time.Now().UTC(),
		AreaOfInterest: areaOfInterest,
		Trends:         trends,
		Insights:       insights,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trends: %w", err)
	}

	path := filepath.Join("trends", "trends.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
