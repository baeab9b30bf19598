package service

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/util"
	"apec_lms_backend/pkg/logger"
	"apec_lms_backend/pkg/solana"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CertificateStore interface {
	Create(cert *model.Certificate) error
	FindByID(id string) (*model.Certificate, error)
	ListByStudent(studentID string) ([]model.Certificate, error)
	Update(cert *model.Certificate) error
	ListUnconfirmed() ([]model.Certificate, error)
}

type EnrollmentReader interface {
	FindByUserAndCourse(userID, courseID string) (*model.Enrollment, error)
}

type LedgerConfirmer interface {
	ConfirmTransaction(ctx context.Context, signature string) error
}

// CertificateService derives the on-chain account for a credential and tracks
// its confirmation. The transaction itself is signed and submitted by the
// educator's wallet; this side only records and verifies.
type CertificateService struct {
	Certificates   CertificateStore
	Courses        CourseReader
	Enrollments    EnrollmentReader
	Ledger         LedgerConfirmer
	ProgramID      solana.PublicKey
	ConfirmTimeout time.Duration

	now   func() time.Time
	newID func() string
}

func NewCertificateService(certs CertificateStore, courses CourseReader, enrollments EnrollmentReader, ledger LedgerConfirmer, cfg *config.Config) (*CertificateService, error) {
	programID, err := solana.ParsePublicKey(cfg.Solana.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("solana.program_id: %w", err)
	}
	return &CertificateService{
		Certificates:   certs,
		Courses:        courses,
		Enrollments:    enrollments,
		Ledger:         ledger,
		ProgramID:      programID,
		ConfirmTimeout: cfg.Solana.ConfirmTimeout,
		now:            time.Now,
		newID:          newCertificateID,
	}, nil
}

// newCertificateID stays within the 32-byte PDA seed limit.
func newCertificateID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("cert_%d_%s", time.Now().UnixMilli(), suffix)
}

type MintRequest struct {
	StudentID      string               `json:"studentId" binding:"required"`
	CourseID       string               `json:"courseId" binding:"required"`
	CredentialType model.CredentialType `json:"credentialType" binding:"required"`
	MetadataURI    string               `json:"metadataUri"`
}

// Mint records a PENDING certificate for a student who completed one of the
// caller's courses and returns the derived account address the educator's
// wallet must create on-chain.
func (s *CertificateService) Mint(educatorID string, req MintRequest) (*model.Certificate, error) {
	if !model.ValidCredentialType(req.CredentialType) {
		return nil, fmt.Errorf("%w %q", util.ErrInvalidCredentialType, req.CredentialType)
	}

	course, err := s.Courses.FindByID(req.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}
	if course.InstructorID != educatorID {
		return nil, util.ErrCourseNotFound
	}

	enrollment, err := s.Enrollments.FindByUserAndCourse(req.StudentID, req.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	} else if err != nil {
		return nil, err
	}
	if enrollment.Status != model.EnrollmentCompleted {
		return nil, util.ErrCourseNotCompleted
	}

	certificateID := s.newID()
	account, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("certificate"), []byte(certificateID)},
		s.ProgramID,
	)
	if err != nil {
		return nil, err
	}

	metadataURI := req.MetadataURI
	if metadataURI == "" {
		metadataURI = fmt.Sprintf("https://api.apec-lms.example/certificates/%s", certificateID)
	}

	cert := &model.Certificate{
		CertificateID:  certificateID,
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		InstructorID:   educatorID,
		CredentialType: req.CredentialType,
		MetadataURI:    metadataURI,
		AccountAddress: account.String(),
		Status:         model.CertificatePending,
		IssuedAt:       s.now(),
	}
	if err := s.Certificates.Create(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// Confirm verifies the minting transaction and marks the certificate
// CONFIRMED. Either party to the certificate may report the signature.
func (s *CertificateService) Confirm(ctx context.Context, callerID, certID, signature string) (*model.Certificate, error) {
	cert, err := s.Certificates.FindByID(certID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	} else if err != nil {
		return nil, err
	}
	if cert.InstructorID != callerID && cert.StudentID != callerID {
		return nil, util.ErrCertificateNotFound
	}

	cert.TxSignature = signature
	if err := s.confirmOnLedger(ctx, cert); err != nil {
		// Keep the signature so the background poller can retry.
		if uerr := s.Certificates.Update(cert); uerr != nil {
			return nil, uerr
		}
		return nil, err
	}

	if err := s.Certificates.Update(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) confirmOnLedger(ctx context.Context, cert *model.Certificate) error {
	cctx, cancel := context.WithTimeout(ctx, s.ConfirmTimeout)
	defer cancel()

	if err := s.Ledger.ConfirmTransaction(cctx, cert.TxSignature); err != nil {
		return fmt.Errorf("%w: %v", util.ErrTxUnconfirmed, err)
	}
	cert.Status = model.CertificateConfirmed
	return nil
}

func (s *CertificateService) ListForStudent(studentID string) ([]model.Certificate, error) {
	return s.Certificates.ListByStudent(studentID)
}

// ConfirmPending retries ledger confirmation for certificates whose signature
// was reported but not yet confirmed. Called from the background ticker.
func (s *CertificateService) ConfirmPending(ctx context.Context) error {
	certs, err := s.Certificates.ListUnconfirmed()
	if err != nil {
		return err
	}
	for i := range certs {
		cert := &certs[i]
		if err := s.confirmOnLedger(ctx, cert); err != nil {
			logger.Log.Debug("certificate still unconfirmed",
				zap.String("certificateId", cert.CertificateID),
				zap.Error(err))
			continue
		}
		if err := s.Certificates.Update(cert); err != nil {
			logger.Log.Error("failed to persist certificate confirmation",
				zap.String("certificateId", cert.CertificateID),
				zap.Error(err))
		}
	}
	return nil
}
