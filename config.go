package tubetrends

// Config holds all environment variables
var Config struct {
	YouTubeAPIKey string
	OpenAIAPIKey  string
}
