package util

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrCourseNotFound        = errors.New("course not found")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrCertificateNotFound   = errors.New("certificate not found")
	ErrNoQuizQuestions       = errors.New("no quiz questions found for this course")
	ErrAlreadyEnrolled       = errors.New("already enrolled in this course")
	ErrSelfEnrollment        = errors.New("instructors cannot enroll in their own course")
	ErrEnrollRoleForbidden   = errors.New("only students can enroll in courses")
	ErrNoPayoutAddress       = errors.New("instructor has no payout address registered")
	ErrPaymentVerification   = errors.New("payment verification failed")
	ErrTxUnconfirmed         = errors.New("transaction not confirmed on chain")
	ErrCourseNotCompleted    = errors.New("course not completed, a perfect quiz score is required")
	ErrRoleAlreadyChosen     = errors.New("role already chosen")
	ErrInvalidRole           = errors.New("role must be STUDENT or EDUCATOR")
	ErrCourseValidation      = errors.New("invalid course definition")
	ErrInvalidCredentialType = errors.New("invalid credential type")
	ErrInvalidWalletAddress  = errors.New("invalid wallet address")
	ErrInvalidSignature      = errors.New("invalid wallet signature")
	ErrChallengeExpired      = errors.New("sign-in challenge expired or not issued")
)
