package tubetrends

import (
	"context"
	"log"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TopicDocument is a read-only projection of a video used for embedding:
// the concatenated topic text plus a back-reference for result mapping.
type TopicDocument struct {
	VideoID   string
	Title     string
	MainTopic string
	Text      string
}

// Match is one similarity search result. Distance is cosine distance:
// 0 means identical topic text, larger means less similar.
type Match struct {
	Doc      TopicDocument
	Distance float64
}

// SimilarityIndex answers nearest-neighbor queries over embedded topic
// text. An index is built once per analysis run and is read-only afterward.
type SimilarityIndex struct {
	embedder Embedder
	docs     []TopicDocument
	vectors  *mat.Dense // one L2-normalized row per document
	dim      int
}

// topicDocument builds the embedding projection for a video.
func topicDocument(video Video) TopicDocument {
	text := video.MainTopic
	if len(video.Subtopics) > 0 {
		text += " " + strings.Join(video.Subtopics, " ")
	}
	return TopicDocument{
		VideoID:   video.ID,
		Title:     video.Title,
		MainTopic: video.MainTopic,
		Text:      text,
	}
}

// BuildSimilarityIndex embeds every document and assembles the index.
// Documents whose embedding call fails are skipped with a log line so a
// single provider hiccup cannot sink the whole clustering run.
func BuildSimilarityIndex(ctx context.Context, embedder Embedder, docs []TopicDocument) *SimilarityIndex {
	index := &SimilarityIndex{embedder: embedder}

	var vectors [][]float64
	for _, doc := range docs {
		vector, err := embedder.Embed(ctx, doc.Text)
		if err != nil {
			log.Printf("Failed to embed topic text for video %s: %v", doc.VideoID, err)
			continue
		}
		if index.dim == 0 {
			index.dim = len(vector)
		}
		if len(vector) != index.dim || index.dim == 0 {
			log.Printf("Skipping embedding with unexpected dimension %d for video %s", len(vector), doc.VideoID)
			continue
		}
		normalize(vector)
		vectors = append(vectors, vector)
		index.docs = append(index.docs, doc)
	}

	if len(vectors) > 0 {
		index.vectors = mat.NewDense(len(vectors), index.dim, nil)
		for i, vector := range vectors {
			index.vectors.SetRow(i, vector)
		}
	}

	return index
}

// Len returns the number of indexed documents.
func (ix *SimilarityIndex) Len() int {
	return len(ix.docs)
}

// Search returns up to k documents nearest to the query text, closest
// first. Ties keep document insertion order.
func (ix *SimilarityIndex) Search(ctx context.Context, text string, k int) ([]Match, error) {
	if len(ix.docs) == 0 || k <= 0 {
		return nil, nil
	}

	query, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(query) != ix.dim {
		return nil, nil
	}
	normalize(query)

	matches := make([]Match, len(ix.docs))
	for i := range ix.docs {
		row := ix.vectors.RawRowView(i)
		matches[i] = Match{
			Doc:      ix.docs[i],
			Distance: 1.0 - floats.Dot(query, row),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// normalize applies L2 normalization in place. Zero vectors are left as-is.
func normalize(vector []float64) {
	norm := floats.Norm(vector, 2)
	if norm > 0 {
		floats.Scale(1/norm, vector)
	}
}
