package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
)

// ReconcileService reassembles an instructor's dashboard when no reliable
// foreign key links the rows: legacy imports wrote the contact phone in
// several formats and sometimes stored it in the student linkage column. This
// is a compatibility fallback for those rows, not a pattern to extend; new
// students always carry a real instructor id.

type instructorFinder interface {
	ListByContacts(ctx context.Context, contacts []string) ([]models.Instructor, error)
	ListByInstructorNumbers(ctx context.Context, numbers []string) ([]models.Instructor, error)
}

type studentFinder interface {
	ListByInstructorIDs(ctx context.Context, instructorIDs []int64) ([]models.Student, error)
	ListByInstructorPhones(ctx context.Context, numericPhones []int64, rawPhones []string) ([]models.Student, error)
}

type ReconcileService struct {
	instructors instructorFinder
	students    studentFinder
}

func NewReconcileService(instructors instructorFinder, students studentFinder) *ReconcileService {
	return &ReconcileService{instructors: instructors, students: students}
}

type DashboardData struct {
	Instructor *models.Instructor  `json:"instructor"`
	Activities []models.Instructor `json:"activities"`
	Students   []models.Student    `json:"students"`
}

// LoadDashboard finds every instructor row matching any representation of the
// contact phone, then every student row linked to those rows by numeric id or
// by a phone-shaped linkage value.
func (s *ReconcileService) LoadDashboard(ctx context.Context, contact string) (*DashboardData, error) {
	candidates := PhoneCandidates(contact)
	if len(candidates) == 0 {
		return &DashboardData{Activities: []models.Instructor{}, Students: []models.Student{}}, nil
	}

	byContact, err := s.instructors.ListByContacts(ctx, candidates)
	if err != nil {
		return nil, err
	}
	byNumber, err := s.instructors.ListByInstructorNumbers(ctx, candidates)
	if err != nil {
		return nil, err
	}

	activities := dedupeInstructors(append(byContact, byNumber...))
	data := &DashboardData{Activities: activities, Students: []models.Student{}}
	if len(activities) == 0 {
		return data, nil
	}
	data.Instructor = &activities[0]

	instructorIDs := make([]int64, 0, len(activities))
	for _, activity := range activities {
		instructorIDs = append(instructorIDs, activity.ID)
	}

	byID, err := s.students.ListByInstructorIDs(ctx, instructorIDs)
	if err != nil {
		return nil, err
	}

	byPhone, err := s.students.ListByInstructorPhones(ctx, numericCandidates(candidates), candidates)
	if err != nil {
		return nil, err
	}

	data.Students = dedupeStudents(append(byID, byPhone...))
	return data, nil
}

// PhoneCandidates expands one contact value into the representations legacy
// rows were written with: bare digits, "(DD)rest" and a +55-prefixed form.
func PhoneCandidates(contact string) []string {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return nil
	}

	digits := digitsOnly(trimmed)

	candidates := []string{trimmed}
	if digits != "" {
		candidates = append(candidates, digits)
		if len(digits) >= 10 {
			candidates = append(candidates, "("+digits[:2]+")"+digits[2:])
		}
		if !strings.HasPrefix(digits, "55") || len(digits) <= 11 {
			candidates = append(candidates, "+55"+digits)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	// Normalize away the country prefix so "(21)992370808" and
	// "+5521992370808" expand to the same candidate set.
	if strings.HasPrefix(digits, "55") && len(digits) > 11 {
		digits = digits[2:]
	}
	return digits
}

func numericCandidates(candidates []string) []int64 {
	numeric := make([]int64, 0, len(candidates))
	seen := make(map[int64]struct{}, len(candidates))
	for _, candidate := range candidates {
		digits := digitsOnly(candidate)
		if digits == "" {
			continue
		}
		value, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		numeric = append(numeric, value)
	}
	return numeric
}

func dedupeInstructors(instructors []models.Instructor) []models.Instructor {
	seen := make(map[int64]struct{}, len(instructors))
	unique := make([]models.Instructor, 0, len(instructors))
	for _, instructor := range instructors {
		if _, ok := seen[instructor.ID]; ok {
			continue
		}
		seen[instructor.ID] = struct{}{}
		unique = append(unique, instructor)
	}
	return unique
}

type studentKey struct {
	name      string
	whatsapp  string
	createdAt time.Time
}

func dedupeStudents(students []models.Student) []models.Student {
	seen := make(map[studentKey]struct{}, len(students))
	unique := make([]models.Student, 0, len(students))
	for _, student := range students {
		key := studentKey{name: student.Name, whatsapp: student.WhatsApp, createdAt: student.CreatedAt}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, student)
	}
	return unique
}
