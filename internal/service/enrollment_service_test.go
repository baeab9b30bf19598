package service

import (
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

type stubCourseReader struct {
	course *model.Course
	err    error
}

func (s *stubCourseReader) FindByID(id string) (*model.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

type stubEnrollmentStore struct {
	existing  *model.Enrollment
	created   *model.Enrollment
	createErr error
}

func (s *stubEnrollmentStore) FindByUserAndCourse(userID, courseID string) (*model.Enrollment, error) {
	if s.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.existing, nil
}

func (s *stubEnrollmentStore) Create(enrollment *model.Enrollment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = enrollment
	return nil
}

func (s *stubEnrollmentStore) ListByUser(userID string) ([]model.Enrollment, error) {
	return nil, nil
}

type stubLedger struct {
	err error

	signature string
	recipient string
	lamports  uint64
}

func (s *stubLedger) VerifyTransfer(ctx context.Context, signature, recipient string, lamports uint64) error {
	s.signature = signature
	s.recipient = recipient
	s.lamports = lamports
	return s.err
}

func paidCourse() *model.Course {
	return &model.Course{
		UUIDBase:     model.UUIDBase{ID: "course-1"},
		Title:        "Anchor Fundamentals",
		Price:        0.5,
		InstructorID: "educator-1",
		Instructor: &model.User{
			UUIDBase:      model.UUIDBase{ID: "educator-1"},
			Role:          model.Educator,
			PayoutAddress: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		},
	}
}

func newTestEnrollmentService(courses *stubCourseReader, store *stubEnrollmentStore, ledger *stubLedger) *EnrollmentService {
	s := NewEnrollmentService(courses, store, ledger, 2*time.Second)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestEnrollWithoutPayment(t *testing.T) {
	store := &stubEnrollmentStore{}
	ledger := &stubLedger{}
	s := newTestEnrollmentService(&stubCourseReader{course: paidCourse()}, store, ledger)

	enrollment, err := s.Enroll(context.Background(), "student-1", model.Student, EnrollRequest{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	if enrollment.Status != model.EnrollmentActive {
		t.Errorf("status = %v, want ACTIVE", enrollment.Status)
	}
	if enrollment.PaidAmount != 0.5 {
		t.Errorf("paidAmount = %v, want 0.5", enrollment.PaidAmount)
	}
	if store.created == nil {
		t.Fatal("enrollment not persisted")
	}
	if ledger.signature != "" {
		t.Error("ledger called without a transaction signature")
	}
}

func TestEnrollVerifiesPayment(t *testing.T) {
	store := &stubEnrollmentStore{}
	ledger := &stubLedger{}
	s := newTestEnrollmentService(&stubCourseReader{course: paidCourse()}, store, ledger)

	enrollment, err := s.Enroll(context.Background(), "student-1", model.Student, EnrollRequest{
		CourseID:    "course-1",
		TxSignature: "sig-abc",
	})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	if ledger.signature != "sig-abc" {
		t.Errorf("ledger signature = %q, want sig-abc", ledger.signature)
	}
	if ledger.recipient != "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin" {
		t.Errorf("ledger recipient = %q, want the instructor payout address", ledger.recipient)
	}
	if ledger.lamports != 500_000_000 {
		t.Errorf("ledger lamports = %d, want 500000000 for 0.5 SOL", ledger.lamports)
	}
	if enrollment.TxSignature != "sig-abc" {
		t.Errorf("enrollment txSignature = %q, want sig-abc", enrollment.TxSignature)
	}
}

func TestEnrollPaymentVerificationFails(t *testing.T) {
	store := &stubEnrollmentStore{}
	ledger := &stubLedger{err: errors.New("transfer amount below course price")}
	s := newTestEnrollmentService(&stubCourseReader{course: paidCourse()}, store, ledger)

	_, err := s.Enroll(context.Background(), "student-1", model.Student, EnrollRequest{
		CourseID:    "course-1",
		TxSignature: "sig-bad",
	})
	if !errors.Is(err, util.ErrPaymentVerification) {
		t.Fatalf("err = %v, want ErrPaymentVerification", err)
	}
	if store.created != nil {
		t.Error("enrollment persisted despite failed payment verification")
	}
}

func TestEnrollEligibility(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		role    model.UserRole
		course  *stubCourseReader
		store   *stubEnrollmentStore
		wantErr error
	}{
		{
			name:    "course not found",
			userID:  "student-1",
			role:    model.Student,
			course:  &stubCourseReader{err: gorm.ErrRecordNotFound},
			store:   &stubEnrollmentStore{},
			wantErr: util.ErrCourseNotFound,
		},
		{
			name:    "self enrollment",
			userID:  "educator-1",
			role:    model.Educator,
			course:  &stubCourseReader{course: paidCourse()},
			store:   &stubEnrollmentStore{},
			wantErr: util.ErrSelfEnrollment,
		},
		{
			name:    "educator enrolling elsewhere",
			userID:  "educator-2",
			role:    model.Educator,
			course:  &stubCourseReader{course: paidCourse()},
			store:   &stubEnrollmentStore{},
			wantErr: util.ErrEnrollRoleForbidden,
		},
		{
			name:    "roleless user",
			userID:  "user-1",
			role:    "",
			course:  &stubCourseReader{course: paidCourse()},
			store:   &stubEnrollmentStore{},
			wantErr: util.ErrEnrollRoleForbidden,
		},
		{
			name:    "already enrolled",
			userID:  "student-1",
			role:    model.Student,
			course:  &stubCourseReader{course: paidCourse()},
			store:   &stubEnrollmentStore{existing: &model.Enrollment{UserID: "student-1", CourseID: "course-1"}},
			wantErr: util.ErrAlreadyEnrolled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestEnrollmentService(tt.course, tt.store, &stubLedger{})
			_, err := s.Enroll(context.Background(), tt.userID, tt.role, EnrollRequest{CourseID: "course-1"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.store.created != nil {
				t.Error("enrollment persisted despite rejected eligibility")
			}
		})
	}
}

func TestEnrollWithoutPayoutAddress(t *testing.T) {
	course := paidCourse()
	course.Instructor.PayoutAddress = ""
	store := &stubEnrollmentStore{}
	s := newTestEnrollmentService(&stubCourseReader{course: course}, store, &stubLedger{})

	_, err := s.Enroll(context.Background(), "student-1", model.Student, EnrollRequest{CourseID: "course-1"})
	if !errors.Is(err, util.ErrNoPayoutAddress) {
		t.Fatalf("err = %v, want ErrNoPayoutAddress", err)
	}
	if store.created != nil {
		t.Error("enrollment persisted despite missing payout address")
	}
}

func TestEnrollConcurrentDuplicate(t *testing.T) {
	store := &stubEnrollmentStore{createErr: gorm.ErrDuplicatedKey}
	s := newTestEnrollmentService(&stubCourseReader{course: paidCourse()}, store, &stubLedger{})

	_, err := s.Enroll(context.Background(), "student-1", model.Student, EnrollRequest{CourseID: "course-1"})
	if !errors.Is(err, util.ErrAlreadyEnrolled) {
		t.Fatalf("err = %v, want ErrAlreadyEnrolled from the unique index", err)
	}
}

func TestPrecheck(t *testing.T) {
	s := newTestEnrollmentService(&stubCourseReader{course: paidCourse()}, &stubEnrollmentStore{}, &stubLedger{})

	result, err := s.Precheck("course-1")
	if err != nil {
		t.Fatalf("Precheck: %v", err)
	}
	if result.Price != 0.5 {
		t.Errorf("price = %v, want 0.5", result.Price)
	}
	if result.PayoutAddress != "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin" {
		t.Errorf("payoutAddress = %q, want the instructor payout address", result.PayoutAddress)
	}
}

func TestPrecheckErrors(t *testing.T) {
	noPayout := paidCourse()
	noPayout.Instructor.PayoutAddress = ""

	tests := []struct {
		name    string
		course  *stubCourseReader
		wantErr error
	}{
		{"course not found", &stubCourseReader{err: gorm.ErrRecordNotFound}, util.ErrCourseNotFound},
		{"no payout address", &stubCourseReader{course: noPayout}, util.ErrNoPayoutAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestEnrollmentService(tt.course, &stubEnrollmentStore{}, &stubLedger{})
			if _, err := s.Precheck("course-1"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
