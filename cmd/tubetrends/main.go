package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cenkalti/tubetrends"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func getenv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return value
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	// Set configuration for the tubetrends package
	tubetrends.Config.YouTubeAPIKey = getenv("YOUTUBE_API_KEY")
	tubetrends.Config.OpenAIAPIKey = getenv("OPENAI_API_KEY")

	rootCmd := &cobra.Command{
		Use:   "tubetrends",
		Short: "YouTube topic trend analysis CLI",
	}

	// Add all commands from the tubetrends package
	rootCmd.AddCommand(tubetrends.FetchVideosCmd)
	rootCmd.AddCommand(tubetrends.AnalyzeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch-videos -> analyze",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Running full pipeline...")
		tubetrends.FetchVideosCmd.Run(cmd, args)
		tubetrends.AnalyzeCmd.Run(cmd, args)
		log.Println("Pipeline complete.")
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean fetched videos, trends, and reports",
	Run: func(cmd *cobra.Command, args []string) {
		// The embedding cache is kept on purpose; embeddings are stable
		// per text and expensive to recompute.
		dirs := []string{"videos", "trends"}
		for _, dir := range dirs {
			files, err := os.ReadDir(dir)
			if err != nil {
				log.Printf("Failed to read %s: %v", dir, err)
				continue
			}
			for _, file := range files {
				if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
					continue
				}
				err := os.Remove(filepath.Join(dir, file.Name()))
				if err != nil {
					log.Printf("Failed to remove %s: %v", file.Name(), err)
				}
			}
		}

		for _, name := range []string{"report.md", "report.html"} {
			if err := os.Remove(name); err != nil {
				if !os.IsNotExist(err) {
					log.Printf("Failed to remove %s: %v", name, err)
				}
			}
		}

		log.Println("Cleaned videos and trends directories, report.md and report.html.")
	},
}
