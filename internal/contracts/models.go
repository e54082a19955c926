package contracts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	StatusDraft      ContractStatus = "draft"
	StatusActive     ContractStatus = "active"
	StatusExpired    ContractStatus = "expired"
	StatusTerminated ContractStatus = "terminated"
)

type PartyRole string

const (
	RoleFirstParty  PartyRole = "first_party"
	RoleSecondParty PartyRole = "second_party"
)

type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// Promoter is the individual the contract engages.
type Promoter struct {
	ID             uuid.UUID `json:"id" db:"id"`
	NameEN         string    `json:"name_en" db:"name_en"`
	NameAR         string    `json:"name_ar" db:"name_ar"`
	Email          string    `json:"email" db:"email"`
	MobileNumber   string    `json:"mobile_number" db:"mobile_number"`
	IDCardNumber   string    `json:"id_card_number" db:"id_card_number"`
	PassportNumber *string   `json:"passport_number,omitempty" db:"passport_number"`
	IDCardURL      *string   `json:"id_card_url,omitempty" db:"id_card_url"`
	PassportURL    *string   `json:"passport_url,omitempty" db:"passport_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Party is a contracting organization (client or employer).
type Party struct {
	ID        uuid.UUID `json:"id" db:"id"`
	NameEN    string    `json:"name_en" db:"name_en"`
	NameAR    string    `json:"name_ar" db:"name_ar"`
	CRN       string    `json:"crn" db:"crn"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Contract struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Number        string         `json:"number" db:"number"`
	Type          string         `json:"type" db:"type"`
	PromoterID    uuid.UUID      `json:"promoter_id" db:"promoter_id"`
	FirstPartyID  uuid.UUID      `json:"first_party_id" db:"first_party_id"`
	SecondPartyID uuid.UUID      `json:"second_party_id" db:"second_party_id"`
	JobTitle      string         `json:"job_title" db:"job_title"`
	Department    string         `json:"department" db:"department"`
	WorkLocation  string         `json:"work_location" db:"work_location"`
	BasicSalary   float64        `json:"basic_salary" db:"basic_salary"`
	Currency      string         `json:"currency" db:"currency"`
	StartDate     time.Time      `json:"start_date" db:"start_date"`
	EndDate       time.Time      `json:"end_date" db:"end_date"`
	SpecialTerms  *string        `json:"special_terms,omitempty" db:"special_terms"`
	Status        ContractStatus `json:"status" db:"status"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// GeneratedDocument is the persisted record of one generation attempt.
type GeneratedDocument struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	ContractID   uuid.UUID        `json:"contract_id" db:"contract_id"`
	Backend      string           `json:"backend" db:"backend"`
	Status       GenerationStatus `json:"status" db:"status"`
	DocumentID   *string          `json:"document_id,omitempty" db:"document_id"`
	DocumentURL  *string          `json:"document_url,omitempty" db:"document_url"`
	PDFURL       *string          `json:"pdf_url,omitempty" db:"pdf_url"`
	ErrorMessage *string          `json:"error_message,omitempty" db:"error_message"`
	RequestedBy  uuid.UUID        `json:"requested_by" db:"requested_by"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
}

// OrphanedFile records a partial Drive copy whose compensating delete failed,
// so the maintenance worker can remove it later.
type OrphanedFile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FileID     string    `json:"file_id" db:"file_id"`
	Reason     string    `json:"reason" db:"reason"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// ContractData is the normalized record every generation backend consumes.
// It is assembled once per request by the mapper and never mutated afterwards;
// optional fields degrade to the empty string rather than failing generation.
type ContractData struct {
	ContractID     string `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	ContractType   string `json:"contract_type"`
	ContractDate   string `json:"contract_date"`

	PromoterNameEN         string `json:"promoter_name_en"`
	PromoterNameAR         string `json:"promoter_name_ar"`
	PromoterEmail          string `json:"promoter_email"`
	PromoterMobileNumber   string `json:"promoter_mobile_number"`
	PromoterIDCardNumber   string `json:"promoter_id_card_number"`
	PromoterPassportNumber string `json:"promoter_passport_number"`
	PromoterIDCardURL      string `json:"promoter_id_card_url,omitempty"`
	PromoterPassportURL    string `json:"promoter_passport_url,omitempty"`

	FirstPartyNameEN string `json:"first_party_name_en"`
	FirstPartyNameAR string `json:"first_party_name_ar"`
	FirstPartyCRN    string `json:"first_party_crn"`
	FirstPartyEmail  string `json:"first_party_email"`
	FirstPartyPhone  string `json:"first_party_phone"`

	SecondPartyNameEN string `json:"second_party_name_en"`
	SecondPartyNameAR string `json:"second_party_name_ar"`
	SecondPartyCRN    string `json:"second_party_crn"`
	SecondPartyEmail  string `json:"second_party_email"`
	SecondPartyPhone  string `json:"second_party_phone"`

	JobTitle          string  `json:"job_title"`
	Department        string  `json:"department"`
	WorkLocation      string  `json:"work_location"`
	BasicSalary       float64 `json:"basic_salary"`
	Currency          string  `json:"currency"`
	ContractStartDate string  `json:"contract_start_date"`
	ContractEndDate   string  `json:"contract_end_date"`
	SpecialTerms      string  `json:"special_terms,omitempty"`
}

const dateLayout = "2006-01-02"

// Validate checks the invariants every backend relies on: required identity
// fields present, dates in ISO-8601 date form and a non-negative salary.
func (d ContractData) Validate() error {
	if d.ContractID == "" {
		return fmt.Errorf("contract_id is required")
	}
	if d.ContractNumber == "" {
		return fmt.Errorf("contract_number is required")
	}
	if d.PromoterNameEN == "" {
		return fmt.Errorf("promoter_name_en is required")
	}
	if d.BasicSalary < 0 {
		return fmt.Errorf("basic_salary must be non-negative, got %f", d.BasicSalary)
	}
	for name, value := range map[string]string{
		"contract_date":       d.ContractDate,
		"contract_start_date": d.ContractStartDate,
		"contract_end_date":   d.ContractEndDate,
	} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fmt.Errorf("%s is not an ISO-8601 date: %q", name, value)
		}
	}
	return nil
}

// FormattedSalary renders the salary the way templates expect it.
func (d ContractData) FormattedSalary() string {
	return fmt.Sprintf("%.2f", d.BasicSalary)
}
