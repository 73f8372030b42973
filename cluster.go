package tubetrends

import (
	"context"
	"log"
	"sort"
	"strings"
)

const (
	// otherTopicsName is the shared bucket for videos that never joined
	// a similarity cluster or an exact-label group of their own.
	otherTopicsName = "Other Topics"

	// defaultSimilarityThreshold is used when the caller supplies an
	// out-of-range threshold.
	defaultSimilarityThreshold = 0.7

	// maxClusterNeighbors caps how many nearest neighbors a seed pulls in.
	maxClusterNeighbors = 20

	// maxNamingLabels caps how many topic labels are sent to the naming call.
	maxNamingLabels = 10
)

// TopicCluster is a named, disjoint group of videos sharing a topic.
type TopicCluster struct {
	Name   string  `json:"name"`
	Videos []Video `json:"videos"`
}

// ClusterSimilarTopics groups videos by topic similarity.
//
// Seeds are visited in view-count order so high-visibility videos anchor
// clusters first. Each unprocessed seed with a topic queries the index
// for its nearest neighbors; neighbors within 1-threshold cosine distance
// that are still unclaimed form a cluster when at least two qualify.
// Leftover videos are grouped by exact topic label, and remaining
// singletons share the "Other Topics" bucket. Every input video lands in
// exactly one cluster.
func ClusterSimilarTopics(ctx context.Context, llm LanguageModel, embedder Embedder, videos []Video, similarityThreshold float64) []TopicCluster {
	if len(videos) == 0 {
		return nil
	}
	if similarityThreshold <= 0 || similarityThreshold > 1 {
		similarityThreshold = defaultSimilarityThreshold
	}

	var docs []TopicDocument
	for _, video := range videos {
		if video.MainTopic == "" {
			continue
		}
		docs = append(docs, topicDocument(video))
	}

	index := BuildSimilarityIndex(ctx, embedder, docs)
	log.Printf("Built similarity index over %d/%d videos with topics", index.Len(), len(videos))

	videoByID := make(map[string]Video, len(videos))
	for _, video := range videos {
		videoByID[video.ID] = video
	}

	// Seed order: high view counts anchor clusters first.
	seeds := make([]Video, len(videos))
	copy(seeds, videos)
	sort.SliceStable(seeds, func(i, j int) bool {
		return seeds[i].ViewCount > seeds[j].ViewCount
	})

	maxDistance := 1.0 - similarityThreshold
	processed := make(map[string]bool, len(videos))

	var result clusterList

	for _, seed := range seeds {
		if processed[seed.ID] || seed.MainTopic == "" {
			continue
		}

		matches, err := index.Search(ctx, topicDocument(seed).Text, maxClusterNeighbors)
		if err != nil {
			// The seed stays unprocessed and falls back to label grouping.
			log.Printf("Similarity search failed for video %s: %v", seed.ID, err)
			continue
		}

		var members []Video
		for _, match := range matches {
			if match.Distance > maxDistance || processed[match.Doc.VideoID] {
				continue
			}
			if video, ok := videoByID[match.Doc.VideoID]; ok {
				members = append(members, video)
			}
		}

		if len(members) < 2 {
			continue
		}

		labels := make([]string, len(members))
		for i, member := range members {
			labels[i] = member.MainTopic
			processed[member.ID] = true
		}

		result.add(clusterName(ctx, llm, labels), members)
	}

	// Leftovers: exact-label groups of two or more become their own
	// clusters; singletons pool into the shared bucket.
	groups := make(map[string][]Video)
	var groupOrder []string
	for _, seed := range seeds {
		if processed[seed.ID] {
			continue
		}
		key := seed.MainTopic
		if key == "" {
			key = otherTopicsName
		}
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], seed)
	}

	var singles []Video
	for _, key := range groupOrder {
		if group := groups[key]; len(group) >= 2 {
			result.add(key, group)
		} else {
			singles = append(singles, group...)
		}
	}
	if len(singles) > 0 {
		result.add(otherTopicsName, singles)
	}

	return result.clusters
}

// clusterList accumulates clusters, merging same-named ones so the result
// behaves like a name-to-videos mapping.
type clusterList struct {
	clusters []TopicCluster
	byName   map[string]int
}

func (l *clusterList) add(name string, videos []Video) {
	if l.byName == nil {
		l.byName = make(map[string]int)
	}
	if idx, ok := l.byName[name]; ok {
		l.clusters[idx].Videos = append(l.clusters[idx].Videos, videos...)
		return
	}
	l.byName[name] = len(l.clusters)
	l.clusters = append(l.clusters, TopicCluster{Name: name, Videos: videos})
}

const clusterNamingSystemPrompt = `You are an expert at naming groups of related topics.
Generate a concise, descriptive name for the given set of topic labels.
Return only the name, nothing else.`

// clusterName picks a name for a cluster from its members' topic labels.
// A label covering at least half the members is used verbatim; otherwise
// one model call names the mixed set, falling back to the most frequent
// label when the call fails.
func clusterName(ctx context.Context, llm LanguageModel, labels []string) string {
	if len(labels) == 0 {
		return otherTopicsName
	}

	counts := make(map[string]int, len(labels))
	var order []string
	for _, label := range labels {
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	// Earliest first-seen label wins count ties for determinism.
	dominant := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}

	if counts[dominant]*2 >= len(labels) {
		return dominant
	}

	unique := order
	if len(unique) > maxNamingLabels {
		unique = unique[:maxNamingLabels]
	}

	name, err := llm.Complete(ctx, clusterNamingSystemPrompt, "Topics: "+strings.Join(unique, ", "))
	if err != nil {
		log.Printf("Error naming cluster: %v", err)
		return dominant
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return dominant
}
