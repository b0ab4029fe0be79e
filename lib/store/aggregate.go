package store

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ValentinKolb/sgc/lib/collection"
)

// The functions in this file compute aggregate queries over a Snapshot().
// They hold no lock: the snapshot is already a consistent view.

// CountByAdmin returns the number of groups administered by the given
// person. All person fields participate in the comparison.
func CountByAdmin(snapshot []*collection.StudyGroup, admin collection.Person) int {
	count := 0
	for _, g := range snapshot {
		if g.GroupAdmin.Equal(admin) {
			count++
		}
	}
	return count
}

// IDBucket is one ID range produced by GroupCountingByID.
type IDBucket struct {
	FromID int64
	ToID   int64
	Count  int
}

// GroupCountingByID partitions the snapshot into ceil(sqrt(n)) buckets of
// consecutive records (in ID order) and reports the ID range and element
// count of each bucket.
func GroupCountingByID(snapshot []*collection.StudyGroup) []IDBucket {
	n := len(snapshot)
	if n == 0 {
		return nil
	}
	bucketSize := int(math.Ceil(math.Sqrt(float64(n))))
	var buckets []IDBucket
	for start := 0; start < n; start += bucketSize {
		end := start + bucketSize
		if end > n {
			end = n
		}
		buckets = append(buckets, IDBucket{
			FromID: snapshot[start].ID,
			ToID:   snapshot[end-1].ID,
			Count:  end - start,
		})
	}
	return buckets
}

// RenderIDBuckets renders the bucket list as human readable lines.
func RenderIDBuckets(buckets []IDBucket) string {
	if len(buckets) == 0 {
		return "The collection is empty."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("There are %d ID ranges.", len(buckets)))
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("\nIn ID range %d-%d - %d elements.", b.FromID, b.ToID, b.Count))
	}
	return sb.String()
}

// MaxByStudentCount returns the group with the largest student count, or
// nil for an empty snapshot. Ties resolve to the lowest ID (first in
// iteration order).
func MaxByStudentCount(snapshot []*collection.StudyGroup) *collection.StudyGroup {
	var max *collection.StudyGroup
	for _, g := range snapshot {
		if max == nil || g.StudentCount > max.StudentCount {
			max = g
		}
	}
	return max
}

// Describe renders collection metadata: container type, size, ID bounds.
func Describe(snapshot []*collection.StudyGroup, createdAt time.Time) string {
	var sb strings.Builder
	sb.WriteString("Collection type: ordered set of StudyGroup (B-tree, keyed by ID)\n")
	sb.WriteString(fmt.Sprintf("Initialized: %s\n", createdAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Size: %d", len(snapshot)))
	if len(snapshot) > 0 {
		sb.WriteString(fmt.Sprintf("\nID range: %d-%d", snapshot[0].ID, snapshot[len(snapshot)-1].ID))
	}
	return sb.String()
}
