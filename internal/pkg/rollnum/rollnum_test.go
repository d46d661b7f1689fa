package rollnum

import (
	"testing"
	"time"

	"github.com/meric/acadbatch/internal/app/models"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name         string
		courseCode   string
		academicUnit int
		want         string
	}{
		{"plain code", "BCA", 1, "BCA1"},
		{"dotted code", "B.C.A.", 1, "BCA1"},
		{"lowercase with dash", "bsc-it", 3, "BSCI3"},
		{"longer than four chars", "BTECH", 2, "BTEC2"},
		{"digits survive", "MCA2Y", 4, "MCA24"},
		{"spaces and symbols stripped", "M B A!", 2, "MBA2"},
		{"empty code", "", 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prefix(tt.courseCode, tt.academicUnit); got != tt.want {
				t.Errorf("Prefix(%q, %d) = %q, want %q", tt.courseCode, tt.academicUnit, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix  string
		ordinal int
		want    string
	}{
		{"BCA1", 1, "BCA1-001"},
		{"BCA1", 42, "BCA1-042"},
		{"BSCI3", 999, "BSCI3-999"},
		{"BCA1", 1000, "BCA1-1000"},
	}

	for _, tt := range tests {
		if got := Format(tt.prefix, tt.ordinal); got != tt.want {
			t.Errorf("Format(%q, %d) = %q, want %q", tt.prefix, tt.ordinal, got, tt.want)
		}
	}
}

func testBatchAndCourse() (*models.Batch, *models.Course) {
	course := &models.Course{ID: 1, Name: "Bachelor of Computer Applications", Code: "BCA"}
	batch := &models.Batch{ID: 1, CourseID: 1, AcademicUnit: 1}
	return batch, course
}

func admitted(daysAgo int) time.Time {
	return time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
}

func TestAssignOrdersByAdmissionThenID(t *testing.T) {
	batch, course := testBatchAndCourse()
	students := []*models.Student{
		{ID: 30, AdmittedAt: admitted(1)},
		{ID: 10, AdmittedAt: admitted(3)},
		{ID: 25, AdmittedAt: admitted(2)},
		{ID: 20, AdmittedAt: admitted(2)}, // same day as 25, lower id wins
	}

	got := Assign(batch, course, students)

	want := []models.RollAssignment{
		{StudentID: 10, Roll: "BCA1-001"},
		{StudentID: 20, Roll: "BCA1-002"},
		{StudentID: 25, Roll: "BCA1-003"},
		{StudentID: 30, Roll: "BCA1-004"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("assignment[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAssignIsDeterministic(t *testing.T) {
	batch, course := testBatchAndCourse()
	students := []*models.Student{
		{ID: 3, AdmittedAt: admitted(5)},
		{ID: 1, AdmittedAt: admitted(9)},
		{ID: 2, AdmittedAt: admitted(7)},
	}

	first := Assign(batch, course, students)
	second := Assign(batch, course, students)

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("assignment[%d] differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAssignRollsAreUnique(t *testing.T) {
	batch, course := testBatchAndCourse()
	sameInstant := admitted(0)
	var students []*models.Student
	for i := int64(1); i <= 50; i++ {
		students = append(students, &models.Student{ID: i, AdmittedAt: sameInstant})
	}

	got := Assign(batch, course, students)

	seen := make(map[string]int64, len(got))
	for _, a := range got {
		if prev, dup := seen[a.Roll]; dup {
			t.Fatalf("roll %q assigned to both student %d and %d", a.Roll, prev, a.StudentID)
		}
		seen[a.Roll] = a.StudentID
	}
}

func TestAssignDoesNotMutateInput(t *testing.T) {
	batch, course := testBatchAndCourse()
	students := []*models.Student{
		{ID: 2, AdmittedAt: admitted(1)},
		{ID: 1, AdmittedAt: admitted(2)},
	}

	Assign(batch, course, students)

	if students[0].ID != 2 || students[1].ID != 1 {
		t.Errorf("input slice was reordered: %d, %d", students[0].ID, students[1].ID)
	}
}

func TestAssignEmptyMembership(t *testing.T) {
	batch, course := testBatchAndCourse()
	if got := Assign(batch, course, nil); len(got) != 0 {
		t.Errorf("Assign with no students = %v, want empty", got)
	}
}
