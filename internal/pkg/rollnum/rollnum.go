// Package rollnum derives deterministic roll numbers for the students of a
// batch. Rolls are recomputed from scratch on every membership change; given
// the same membership and the same admission order the output is identical,
// so renumbering is idempotent and collision-free.
package rollnum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meric/acadbatch/internal/app/models"
)

// prefixMaxLen bounds the course-code part of a roll prefix.
const prefixMaxLen = 4

// Prefix derives the batch prefix from a course code and academic unit:
// the code is uppercased, stripped of non-alphanumerics, truncated to four
// characters and suffixed with the unit number. "B.C.A." unit 1 → "BCA1".
func Prefix(courseCode string, academicUnit int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(courseCode) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == prefixMaxLen {
				break
			}
		}
	}
	return fmt.Sprintf("%s%d", b.String(), academicUnit)
}

// Format renders a roll from a prefix and a 1-based ordinal: "BCA1-001".
func Format(prefix string, ordinal int) string {
	return fmt.Sprintf("%s-%03d", prefix, ordinal)
}

// Assign orders students by (admission time, id) and assigns sequential rolls
// under the batch's prefix. The input slice is not modified. Ties on the
// admission timestamp fall back to the id, which is unique and never changes,
// so the ordering is total and stable.
func Assign(batch *models.Batch, course *models.Course, students []*models.Student) []models.RollAssignment {
	ordered := make([]*models.Student, len(students))
	copy(ordered, students)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].AdmittedAt.Equal(ordered[j].AdmittedAt) {
			return ordered[i].AdmittedAt.Before(ordered[j].AdmittedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	prefix := Prefix(course.Code, batch.AcademicUnit)
	assignments := make([]models.RollAssignment, 0, len(ordered))
	for i, s := range ordered {
		assignments = append(assignments, models.RollAssignment{
			StudentID: s.ID,
			Roll:      Format(prefix, i+1),
		})
	}
	return assignments
}
