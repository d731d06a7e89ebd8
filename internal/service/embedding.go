package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

const embeddingDims = 3

// GenerateEmbedding hashes the words of text into a unit vector of embeddingDims signed
// buckets. Texts sharing words land closer together; beyond that the vector means nothing.
// Recipe search only uses its distance on PostgreSQL to order keyword matches whose title
// match position is equal. Text without words gives the zero vector.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, embeddingDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		sum := h.Sum32()
		sign := float32(1)
		if sum&(1<<31) != 0 {
			sign = -1
		}
		vec[sum%embeddingDims] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}

func recipeEmbedding(content models.RecipeContent) *pgvector.Vector {
	vec := GenerateEmbedding(content.Title + " " + content.Description)
	return &vec
}
