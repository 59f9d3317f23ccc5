package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emnesok/emnesok-api/internal/types"
)

func courseInfo(code, tag string) types.CourseInfo {
	return types.CourseInfo{Code: code, Institution: tag}
}

func TestResultCacheTriState(t *testing.T) {
	rc := NewResultCache(16, time.Minute)

	_, outcome := rc.Get("in2010", "uio")
	assert.Equal(t, Unknown, outcome)

	rc.Put("in2010", "uio", []types.CourseInfo{courseInfo("IN2010", "uio")})
	results, outcome := rc.Get("in2010", "uio")
	assert.Equal(t, Hit, outcome)
	require.Len(t, results, 1)
	assert.Equal(t, "uio/IN2010", results[0].Key())

	rc.MarkNegative("zzz999", "uio")
	results, outcome = rc.Get("zzz999", "uio")
	assert.Equal(t, KnownEmpty, outcome)
	assert.Nil(t, results)
}

func TestResultCacheKeyIncludesScope(t *testing.T) {
	rc := NewResultCache(16, time.Minute)
	rc.MarkNegative("in2010", "uib")

	_, outcome := rc.Get("in2010", "uio")
	assert.Equal(t, Unknown, outcome, "negative result is scoped to its institution")

	_, outcome = rc.Get("in2010", "uib")
	assert.Equal(t, KnownEmpty, outcome)
}

func TestResultCacheNormalizesQuery(t *testing.T) {
	rc := NewResultCache(16, time.Minute)
	rc.Put("  IN2010 ", "UiO", []types.CourseInfo{courseInfo("IN2010", "uio")})

	_, outcome := rc.Get("in2010", "uio")
	assert.Equal(t, Hit, outcome)
}

func TestResultCacheEntriesExpire(t *testing.T) {
	rc := NewResultCache(16, 20*time.Millisecond)
	rc.Put("in2010", "uio", []types.CourseInfo{courseInfo("IN2010", "uio")})

	time.Sleep(40 * time.Millisecond)
	_, outcome := rc.Get("in2010", "uio")
	assert.Equal(t, Unknown, outcome)
}

func TestResultCacheBoundedCapacity(t *testing.T) {
	rc := NewResultCache(8, time.Minute)
	for i := 0; i < 50; i++ {
		rc.Put(fmt.Sprintf("query-%d", i), "", nil)
	}
	assert.LessOrEqual(t, rc.Len(), 8)
}

func TestResultCacheReturnsCopies(t *testing.T) {
	rc := NewResultCache(16, time.Minute)
	rc.Put("in2010", "uio", []types.CourseInfo{courseInfo("IN2010", "uio")})

	results, _ := rc.Get("in2010", "uio")
	results[0].Code = "MUTATED"

	fresh, _ := rc.Get("in2010", "uio")
	assert.Equal(t, "IN2010", fresh[0].Code)
}
