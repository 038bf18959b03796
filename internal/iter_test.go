package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"a": 1})
	b := slices.All([]string{"x", "y"})

	var keys []string
	for key, value := range IterSeq2Concat(a, maps.All(map[string]int{"b": 2})) {
		keys = append(keys, key)
		assert.NotZero(value)
	}
	assert.Equal([]string{"a", "b"}, keys)

	var values []string
	for _, value := range IterSeq2Concat(b, b) {
		values = append(values, value)
		if len(values) == 3 {
			break
		}
	}
	assert.Equal([]string{"x", "y", "x"}, values)

	count := 0
	for range IterSeq2Concat[string, int]() {
		count++
	}
	assert.Equal(0, count)
}
