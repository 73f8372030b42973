package tubetrends

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 900px; margin: 2rem auto; padding: 0 1rem; color: #222; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #f5f5f5; }
a { color: #0b57d0; }
</style>
</head>
<body>
%s
</body>
</html>
`

// WriteReport renders the ranked trends and insights to report.md and
// report.html in the working directory.
func WriteReport(trends []Trend, insights, areaOfInterest string) error {
	markdown := buildMarkdownReport(trends, insights, areaOfInterest)

	if err := os.WriteFile("report.md", []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	htmlContent, err := renderHTMLReport(markdown, areaOfInterest)
	if err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	if err := os.WriteFile("report.html", []byte(htmlContent), 0644); err != nil {
		return fmt.Errorf("failed to write HTML report file: %w", err)
	}

	return nil
}

func buildMarkdownReport(trends []Trend, insights, areaOfInterest string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# YouTube Trend Report: %s\n\n", areaOfInterest)
	fmt.Fprintf(&sb, "_Generated %s_\n\n", time.Now().Format("2006-01-02 15:04"))

	sb.WriteString("## Insights\n\n")
	if insights != "" {
		sb.WriteString(insights)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Trending Topics\n\n")
	if len(trends) == 0 {
		sb.WriteString("No trends found.\n")
		return sb.String()
	}

	sb.WriteString("| # | Topic | Score | Videos | Views | Likes | Comments | Engagement |\n")
	sb.WriteString("|---|-------|-------|--------|-------|-------|----------|------------|\n")
	for i, trend := range trends {
		fmt.Fprintf(&sb, "| %d | %s | %.2f | %d | %d | %d | %d | %.2f%% |\n",
			i+1, trend.Topic, trend.Score, trend.VideoCount,
			trend.TotalViews, trend.TotalLikes, trend.TotalComments, trend.AvgEngagementRate)
	}
	sb.WriteString("\n")

	sb.WriteString("## Top Videos by Topic\n\n")
	for i, trend := range trends {
		fmt.Fprintf(&sb, "### %d. %s\n\n", i+1, trend.Topic)
		for _, video := range trend.TopVideos {
			fmt.Fprintf(&sb, "- [%s](%s) — %d views\n", video.Title, video.URL, video.ViewCount)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderHTMLReport converts the markdown report into a standalone HTML page.
func renderHTMLReport(markdown, areaOfInterest string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	title := "YouTube Trend Report: " + areaOfInterest
	return fmt.Sprintf(htmlShell, title, buf.String()), nil
}
