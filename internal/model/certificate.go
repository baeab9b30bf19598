package model

import "time"

type CredentialType string

const (
	CredentialCertificate     CredentialType = "Certificate"
	CredentialDiploma         CredentialType = "Diploma"
	CredentialBadge           CredentialType = "Badge"
	CredentialMicroCredential CredentialType = "MicroCredential"
)

func ValidCredentialType(t CredentialType) bool {
	switch t {
	case CredentialCertificate, CredentialDiploma, CredentialBadge, CredentialMicroCredential:
		return true
	}
	return false
}

type CertificateStatus string

const (
	CertificatePending   CertificateStatus = "PENDING"
	CertificateConfirmed CertificateStatus = "CONFIRMED"
)

// Certificate records a credential minted against the on-chain LMS program.
// AccountAddress is the program-derived address for the certificate account;
// the transaction itself is signed and submitted by the educator's wallet, so
// a row stays PENDING until its signature is confirmed on the ledger.
// swagger:model Certificate
type Certificate struct {
	UUIDBase
	CertificateID  string            `gorm:"size:64;uniqueIndex;not null" json:"certificateId"`
	StudentID      string            `gorm:"index;type:varchar(36);not null" json:"studentId"`
	CourseID       string            `gorm:"index;type:varchar(36);not null" json:"courseId"`
	InstructorID   string            `gorm:"type:varchar(36);not null" json:"instructorId"`
	Student        *User             `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course         *Course           `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CredentialType CredentialType    `gorm:"size:32;not null" json:"credentialType"`
	MetadataURI    string            `gorm:"size:512" json:"metadataUri"`
	AccountAddress string            `gorm:"size:64;not null" json:"accountAddress"`
	TxSignature    string            `gorm:"size:128" json:"txSignature,omitempty"`
	Status         CertificateStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	IssuedAt       time.Time         `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
