package tubetrends

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"github.com/spf13/cobra"
)

// Video represents one YouTube video with engagement metrics and
// topic annotations filled in by the analysis pipeline.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
	Duration     string    `json:"duration"`
	URL          string    `json:"url"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	MainTopic    string    `json:"main_topic,omitempty"`
	Subtopics    []string  `json:"subtopics,omitempty"`
}

var (
	fetchQuery string
	fetchMax   int
	fetchDays  int
	fetchOrder string
)

// FetchVideosCmd: searches YouTube, saves videos/videoID.json
var FetchVideosCmd = &cobra.Command{
	Use:   "fetch-videos",
	Short: "Fetch recent videos for a search query",
	Run: func(cmd *cobra.Command, args []string) {
		if fetchQuery == "" {
			log.Fatal("Missing required flag: --query")
		}

		quota := NewQuotaTracker(0)
		videos, err := SearchVideos(fetchQuery, fetchMax, fetchDays, fetchOrder, quota)
		if err != nil {
			log.Fatalf("Failed to fetch videos: %v", err)
		}

		if err := FetchVideoStatistics(videos, quota); err != nil {
			log.Fatalf("Failed to fetch video statistics: %v", err)
		}

		kept := 0
		for i := range videos {
			// Skip Shorts, they carry no description worth analyzing
			if seconds := durationSeconds(videos[i].Duration); seconds > 0 && seconds < 60 {
				log.Printf("Skipping short video (%ds): %s", seconds, truncateString(videos[i].Title, 80))
				continue
			}
			saveVideoMetadata(videos[i])
			kept++
		}

		log.Printf("Fetch complete: %d videos saved (quota used: %d/%d units)",
			kept, quota.Used(), quota.DailyLimit())
	},
}

func init() {
	FetchVideosCmd.Flags().StringVarP(&fetchQuery, "query", "q", "", "search query, e.g. \"AI agents, LLM, coding\"")
	FetchVideosCmd.Flags().IntVar(&fetchMax, "max", 50, "maximum number of videos to fetch")
	FetchVideosCmd.Flags().IntVar(&fetchDays, "days", 7, "how many days to look back")
	FetchVideosCmd.Flags().StringVar(&fetchOrder, "order", "relevance", "sort order: relevance, date, viewCount, rating")
}

// SearchVideos searches recent videos using the YouTube Data API v3,
// paginating until maxResults videos are collected or results run out.
func SearchVideos(query string, maxResults, daysBack int, order string, quota *QuotaTracker) ([]Video, error) {
	apiKey := Config.YouTubeAPIKey

	// Use UTC time for consistency with the YouTube API
	publishedAfter := time.Now().UTC().Add(-time.Duration(daysBack) * 24 * time.Hour).Format(time.RFC3339)

	var videos []Video
	pageToken := ""

	for len(videos) < maxResults {
		if err := quota.Track("search.list"); err != nil {
			return videos, err
		}

		pageSize := maxResults - len(videos)
		if pageSize > 50 {
			pageSize = 50
		}

		searchURL := fmt.Sprintf(
			"https://www.googleapis.com/youtube/v3/search?key=%s&q=%s&part=snippet&type=video&maxResults=%d&order=%s&publishedAfter=%s",
			apiKey, url.QueryEscape(query), pageSize, url.QueryEscape(order), url.QueryEscape(publishedAfter),
		)
		if pageToken != "" {
			searchURL += "&pageToken=" + url.QueryEscape(pageToken)
		}

		resp, err := http.Get(searchURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch videos: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("YouTube API error: %s", string(body))
		}

		var searchResult struct {
			NextPageToken string `json:"nextPageToken"`
			Items         []struct {
				ID struct {
					VideoID string `json:"videoId"`
				} `json:"id"`
				Snippet struct {
					Title        string `json:"title"`
					Description  string `json:"description"`
					ChannelTitle string `json:"channelTitle"`
					PublishedAt  string `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"items"`
		}

		err = json.NewDecoder(resp.Body).Decode(&searchResult)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode YouTube API response: %w", err)
		}

		for _, item := range searchResult.Items {
			publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				publishedAt = time.Time{}
			}
			videos = append(videos, Video{
				ID:           item.ID.VideoID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ChannelTitle: item.Snippet.ChannelTitle,
				PublishedAt:  publishedAt,
				URL:          "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			})
		}

		pageToken = searchResult.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}

	return videos, nil
}

// FetchVideoStatistics fills in view/like/comment counts and durations
// for the given videos, batching up to 50 IDs per API call.
func FetchVideoStatistics(videos []Video, quota *QuotaTracker) error {
	apiKey := Config.YouTubeAPIKey

	byID := make(map[string]*Video, len(videos))
	ids := make([]string, 0, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
		ids = append(ids, videos[i].ID)
	}

	for start := 0; start < len(ids); start += 50 {
		end := start + 50
		if end > len(ids) {
			end = len(ids)
		}

		if err := quota.Track("videos.list"); err != nil {
			return err
		}

		videosURL := fmt.Sprintf(
			"https://www.googleapis.com/youtube/v3/videos?key=%s&id=%s&part=statistics,contentDetails",
			apiKey, strings.Join(ids[start:end], ","),
		)

		resp, err := http.Get(videosURL)
		if err != nil {
			return fmt.Errorf("failed to fetch video statistics: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("YouTube API error for video statistics: %s", string(body))
		}

		var statsResult struct {
			Items []struct {
				ID         string `json:"id"`
				Statistics struct {
					ViewCount    string `json:"viewCount"`
					LikeCount    string `json:"likeCount"`
					CommentCount string `json:"commentCount"`
				} `json:"statistics"`
				ContentDetails struct {
					Duration string `json:"duration"`
				} `json:"contentDetails"`
			} `json:"items"`
		}

		err = json.NewDecoder(resp.Body).Decode(&statsResult)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode video statistics response: %w", err)
		}

		for _, item := range statsResult.Items {
			video, ok := byID[item.ID]
			if !ok {
				continue
			}
			video.ViewCount = parseCount(item.Statistics.ViewCount)
			video.LikeCount = parseCount(item.Statistics.LikeCount)
			video.CommentCount = parseCount(item.Statistics.CommentCount)
			video.Duration = item.ContentDetails.Duration
		}
	}

	return nil
}

// parseCount parses a numeric string from the API, defaulting to 0 when
// the field is missing or hidden for the video.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// durationSeconds parses an ISO 8601 duration (e.g. PT4M13S) into seconds.
func durationSeconds(iso string) int {
	if iso == "" {
		return 0
	}
	dur, err := duration.Parse(iso)
	if err != nil {
		return 0
	}
	return int(dur.ToTimeDuration().Seconds())
}

// saveVideoMetadata saves video metadata as videos/videoID.json
func saveVideoMetadata(video Video) {
	if err := os.MkdirAll("videos", 0755); err != nil {
		log.Printf("Failed to create videos directory: %v", err)
		return
	}
	data, err := json.MarshalIndent(video, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal video %s: %v", video.ID, err)
		return
	}
	path := filepath.Join("videos", video.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Failed to write %s: %v", path, err)
	}
}

// loadVideos reads all saved videos from the videos directory.
func loadVideos() ([]Video, error) {
	files, err := os.ReadDir("videos")
	if err != nil {
		return nil, fmt.Errorf("failed to read videos directory: %w", err)
	}

	var videos []Video
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join("videos", file.Name()))
		if err != nil {
			log.Printf("Failed to read %s: %v", file.Name(), err)
			continue
		}
		var video Video
		if err := json.Unmarshal(data, &video); err != nil {
			log.Printf("Failed to parse %s: %v", file.Name(), err)
			continue
		}
		videos = append(videos, video)
	}

	return videos, nil
}
