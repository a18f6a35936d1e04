package storer

import (
	"encoding/binary"
	"fmt"
	"math"
	"maps"
	"sort"
)

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 - cosine similarity, in [0, 2].
func CosineDistance(a, b []float32) float32 {
	return float32(1 - CosineSimilarity(a, b))
}

// Rank scores every candidate against vector and returns at most limit of them
// in ascending distance. Equal distances keep their input order.
func Rank(candidates []Record, vector []float32, limit int) []Record {
	if limit < 1 {
		return nil
	}

	ranked := make([]Record, 0, len(candidates))
	for _, rec := range candidates {
		rec.Distance = CosineDistance(vector, rec.Embedding)
		ranked = append(ranked, rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// CheckUnique reports the first id in records that repeats within the batch or
// is already present according to exists.
func CheckUnique(records []Record, exists func(id string) bool) error {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.Id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateId, rec.Id)
		}
		seen[rec.Id] = struct{}{}

		if exists != nil && exists(rec.Id) {
			return fmt.Errorf("%w: %s", ErrDuplicateId, rec.Id)
		}
	}
	return nil
}

func CopyMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return map[string]string{}
	}
	cpy := make(map[string]string, len(metadata))
	maps.Copy(cpy, metadata)
	return cpy
}

// EncodeEmbedding packs a vector as little-endian float32 values.
func EncodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
