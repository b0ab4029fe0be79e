package store

import (
	"testing"
	"time"

	"github.com/ValentinKolb/sgc/lib/collection"
)

func testAdmin(name string) collection.Person {
	return collection.Person{
		Name:       name,
		BirthDate:  time.Date(1998, 2, 1, 0, 0, 0, 0, time.UTC),
		Height:     1.8,
		PassportID: "P-" + name,
	}
}

func testSnapshot(ids []int64, admin collection.Person) []*collection.StudyGroup {
	snap := make([]*collection.StudyGroup, 0, len(ids))
	for i, id := range ids {
		snap = append(snap, &collection.StudyGroup{
			ID:              id,
			Name:            "g",
			StudentCount:    10 + i,
			FormOfEducation: collection.FormFullTime,
			Semester:        collection.SemesterFirst,
			CreationDate:    time.Now(),
			GroupAdmin:      admin,
			Owner:           "alice",
		})
	}
	return snap
}

func TestCountByAdmin(t *testing.T) {
	alice := testAdmin("alice")
	bob := testAdmin("bob")

	snap := testSnapshot([]int64{1, 2, 3}, alice)
	snap = append(snap, testSnapshot([]int64{4, 5}, bob)...)

	if n := CountByAdmin(snap, alice); n != 3 {
		t.Fatalf("expected 3 groups for alice, got %d", n)
	}
	if n := CountByAdmin(snap, bob); n != 2 {
		t.Fatalf("expected 2 groups for bob, got %d", n)
	}
	if n := CountByAdmin(nil, alice); n != 0 {
		t.Fatalf("expected 0 for empty snapshot, got %d", n)
	}
}

func TestGroupCountingByID(t *testing.T) {
	// 5 records -> ceil(sqrt(5)) = 3 per bucket -> buckets of 3 and 2
	snap := testSnapshot([]int64{1, 2, 5, 9, 12}, testAdmin("alice"))
	buckets := GroupCountingByID(snap)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].FromID != 1 || buckets[0].ToID != 5 || buckets[0].Count != 3 {
		t.Fatalf("unexpected first bucket: %+v", buckets[0])
	}
	if buckets[1].FromID != 9 || buckets[1].ToID != 12 || buckets[1].Count != 2 {
		t.Fatalf("unexpected second bucket: %+v", buckets[1])
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(snap) {
		t.Fatalf("buckets lose records: %d != %d", total, len(snap))
	}

	if got := GroupCountingByID(nil); got != nil {
		t.Fatalf("expected nil buckets for empty snapshot, got %v", got)
	}
}

func TestMaxByStudentCount(t *testing.T) {
	if g := MaxByStudentCount(nil); g != nil {
		t.Fatalf("expected nil max for empty snapshot, got %v", g)
	}
	snap := testSnapshot([]int64{1, 2, 3}, testAdmin("alice"))
	if g := MaxByStudentCount(snap); g.ID != 3 {
		t.Fatalf("expected record 3 (largest student count), got %d", g.ID)
	}
}
