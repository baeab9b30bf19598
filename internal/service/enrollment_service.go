package service

import (
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/util"
	"apec_lms_backend/pkg/logger"
	"apec_lms_backend/pkg/solana"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseReader is the slice of the course repository the enrollment path
// needs. Courses come back with their instructor loaded.
type CourseReader interface {
	FindByID(id string) (*model.Course, error)
}

type EnrollmentStore interface {
	FindByUserAndCourse(userID, courseID string) (*model.Enrollment, error)
	Create(enrollment *model.Enrollment) error
	ListByUser(userID string) ([]model.Enrollment, error)
}

// LedgerVerifier resolves a payment reference against the chain. The
// verification must match amount and recipient, not just existence.
type LedgerVerifier interface {
	VerifyTransfer(ctx context.Context, signature, recipient string, lamports uint64) error
}

type EnrollmentService struct {
	Courses       CourseReader
	Enrollments   EnrollmentStore
	Ledger        LedgerVerifier
	VerifyTimeout time.Duration

	now func() time.Time
}

func NewEnrollmentService(courses CourseReader, enrollments EnrollmentStore, ledger LedgerVerifier, verifyTimeout time.Duration) *EnrollmentService {
	return &EnrollmentService{
		Courses:       courses,
		Enrollments:   enrollments,
		Ledger:        ledger,
		VerifyTimeout: verifyTimeout,
		now:           time.Now,
	}
}

type EnrollRequest struct {
	CourseID    string `json:"courseId" binding:"required"`
	TxSignature string `json:"txSignature"`
	Precheck    bool   `json:"precheck"`
}

// PrecheckResult carries what the client needs to build the payment transfer
// before committing to an enrollment.
type PrecheckResult struct {
	CourseID      string  `json:"courseId"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	PayoutAddress string  `json:"payoutAddress"`
}

// Precheck returns the payment destination for a course without creating any
// record. Only course existence and payout-address presence are checked.
func (s *EnrollmentService) Precheck(courseID string) (*PrecheckResult, error) {
	course, err := s.Courses.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	payout := instructorPayout(course)
	if payout == "" {
		return nil, util.ErrNoPayoutAddress
	}

	return &PrecheckResult{
		CourseID:      course.ID,
		Title:         course.Title,
		Price:         course.Price,
		PayoutAddress: payout,
	}, nil
}

// Enroll runs the eligibility checks in order, verifies the optional payment
// reference, and creates the enrollment. Every check happens before any
// mutation.
func (s *EnrollmentService) Enroll(ctx context.Context, userID string, role model.UserRole, req EnrollRequest) (*model.Enrollment, error) {
	course, err := s.Courses.FindByID(req.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	if course.InstructorID == userID {
		return nil, util.ErrSelfEnrollment
	}
	if role != model.Student {
		return nil, util.ErrEnrollRoleForbidden
	}

	if _, err := s.Enrollments.FindByUserAndCourse(userID, course.ID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payout := instructorPayout(course)
	if payout == "" {
		return nil, util.ErrNoPayoutAddress
	}

	if req.TxSignature != "" {
		if err := s.verifyPayment(ctx, req.TxSignature, payout, course.Price); err != nil {
			return nil, err
		}
	}

	enrollment := &model.Enrollment{
		UserID:      userID,
		CourseID:    course.ID,
		PaidAmount:  course.Price,
		TxSignature: req.TxSignature,
		Status:      model.EnrollmentActive,
		EnrolledAt:  s.now(),
	}

	if err := s.Enrollments.Create(enrollment); err != nil {
		// The unique (user, course) index is the race-free guard; a
		// concurrent duplicate lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	enrollment.Course = course
	return enrollment, nil
}

func (s *EnrollmentService) verifyPayment(ctx context.Context, signature, payout string, priceSOL float64) error {
	if s.Ledger == nil {
		return util.ErrPaymentVerification
	}

	vctx, cancel := context.WithTimeout(ctx, s.VerifyTimeout)
	defer cancel()

	if err := s.Ledger.VerifyTransfer(vctx, signature, payout, solana.SOLToLamports(priceSOL)); err != nil {
		logger.Log.Warn("payment verification failed",
			zap.String("signature", signature),
			zap.Error(err))
		return fmt.Errorf("%w: %v", util.ErrPaymentVerification, err)
	}
	return nil
}

// ListForUser returns the caller's enrollments with their courses loaded.
func (s *EnrollmentService) ListForUser(userID string) ([]model.Enrollment, error) {
	return s.Enrollments.ListByUser(userID)
}

func instructorPayout(course *model.Course) string {
	if course.Instructor == nil {
		return ""
	}
	return course.Instructor.PayoutAddress
}
