package tubetrends

import (
	"math"
	"sort"
)

// topVideosPerTrend is how many representative videos a trend carries.
const topVideosPerTrend = 5

// Trend is the scored, ranked summary of one topic cluster.
type Trend struct {
	Topic             string  `json:"topic"`
	Score             float64 `json:"trend_score"`
	VideoCount        int     `json:"video_count"`
	TotalViews        int64   `json:"total_views"`
	TotalLikes        int64   `json:"total_likes"`
	TotalComments     int64   `json:"total_comments"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"` // percentage, 2 decimals
	TopVideos         []Video `json:"top_videos"`
}

// CalculateTrendScores converts clusters into trends ranked by score.
//
// The score weighs raw reach, engagement rate, and topic breadth:
// views scaled down, engagement rate scaled up, and video count each
// contributing a fixed share. A pure function: identical input always
// produces identical output, including tie ordering.
func CalculateTrendScores(clusters []TopicCluster) []Trend {
	var trends []Trend

	for _, cluster := range clusters {
		if len(cluster.Videos) == 0 {
			continue
		}

		var totalViews, totalLikes, totalComments int64
		for _, video := range cluster.Videos {
			totalViews += video.ViewCount
			totalLikes += video.LikeCount
			totalComments += video.CommentCount
		}

		// Zero views is a defined case, not a division fault.
		engagementRate := 0.0
		if totalViews > 0 {
			engagementRate = float64(totalLikes+totalComments) / float64(totalViews)
		}

		score := (float64(totalViews)/1000)*0.2 +
			engagementRate*10000*0.4 +
			float64(len(cluster.Videos))*10*0.4

		trends = append(trends, Trend{
			Topic:             cluster.Name,
			Score:             round2(score),
			VideoCount:        len(cluster.Videos),
			TotalViews:        totalViews,
			TotalLikes:        totalLikes,
			TotalComments:     totalComments,
			AvgEngagementRate: round2(engagementRate * 100),
			TopVideos:         topVideos(cluster.Videos),
		})
	}

	// Stable sort keeps cluster order for equal scores.
	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Score > trends[j].Score
	})

	return trends
}

// topVideos selects the highest-viewed videos of a cluster, ties broken
// by original order.
func topVideos(videos []Video) []Video {
	ranked := make([]Video, len(videos))
	copy(ranked, videos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViewCount > ranked[j].ViewCount
	})
	if len(ranked) > topVideosPerTrend {
		ranked = ranked[:topVideosPerTrend]
	}
	return ranked
}

// round2 rounds to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
