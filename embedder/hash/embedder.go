// Package hash embeds text without a remote model. Each token is hashed into a
// fixed number of buckets with a sign bit, and the result is L2 normalised, so
// texts that share vocabulary land close together under cosine distance. Words
// listed in a small topic lexicon also add a weighted topic feature, so that
// "sky is clear" and "weather" meet even without a shared word.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/w-h-a/demo/embedder"
)

const defaultDimensions = 256

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {}, "were": {},
	"what": {}, "with": {}, "like": {}, "about": {}, "how": {}, "do": {}, "does": {},
}

const topicWeight = 2

var topics = map[string]string{
	// weather
	"weather": "weather", "forecast": "weather", "temperature": "weather", "climate": "weather",
	"sunny": "weather", "sun": "weather", "warm": "weather", "hot": "weather", "cold": "weather",
	"sky": "weather", "clear": "weather", "cloud": "weather", "clouds": "weather", "cloudy": "weather",
	"rain": "weather", "rainy": "weather", "snow": "weather", "wind": "weather", "windy": "weather",
	"storm": "weather", "fog": "weather", "humid": "weather",
	// home
	"home": "home", "house": "home", "couch": "home", "sofa": "home", "bed": "home",
	"kitchen": "home", "cat": "home", "dog": "home", "pet": "home", "sleeping": "home",
	// technology
	"machine": "technology", "learning": "technology", "model": "technology", "models": "technology",
	"computer": "technology", "software": "technology", "data": "technology", "algorithm": "technology",
	"neural": "technology", "network": "technology", "ai": "technology",
}

type hashEmbedder struct {
	options embedder.Options
}

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.options.Dimensions)

	for _, token := range Tokenize(text) {
		add(vec, token, 1)

		if topic, ok := topics[token]; ok {
			add(vec, "#"+topic, topicWeight)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}

	if norm == 0 {
		return vec, nil
	}

	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}

	return vec, nil
}

func add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(len(vec)))
	if sum>>63 == 1 {
		vec[bucket] -= weight
	} else {
		vec[bucket] += weight
	}
}

// Tokenize lowercases text, splits on anything that is not a letter or digit and
// drops stop words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, skip := stopWords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if options.Dimensions <= 0 {
		options.Dimensions = defaultDimensions
	}

	return &hashEmbedder{
		options: options,
	}
}
