package contracts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/pkg/workflows"
)

type Service interface {
	CreatePromoter(ctx context.Context, req CreatePromoterRequest) (*Promoter, error)
	GetPromoter(ctx context.Context, id uuid.UUID) (*Promoter, error)
	ListPromoters(ctx context.Context) ([]Promoter, error)

	CreateParty(ctx context.Context, req CreatePartyRequest) (*Party, error)
	GetParty(ctx context.Context, id uuid.UUID) (*Party, error)
	ListParties(ctx context.Context) ([]Party, error)

	CreateContract(ctx context.Context, req CreateContractRequest) (*Contract, error)
	GetContract(ctx context.Context, id uuid.UUID) (*Contract, error)
	ListContracts(ctx context.Context, status *ContractStatus) ([]Contract, error)
	UpdateContractStatus(ctx context.Context, id uuid.UUID, status ContractStatus) (*Contract, error)

	ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]GeneratedDocument, error)

	// BuildContractData loads the row graph for a contract and flattens it
	// into the record the generation backends consume.
	BuildContractData(ctx context.Context, contractID uuid.UUID) (ContractData, error)
}

type CreatePromoterRequest struct {
	NameEN         string  `json:"name_en" binding:"required"`
	NameAR         string  `json:"name_ar"`
	Email          string  `json:"email"`
	MobileNumber   string  `json:"mobile_number"`
	IDCardNumber   string  `json:"id_card_number" binding:"required"`
	PassportNumber *string `json:"passport_number"`
	IDCardURL      *string `json:"id_card_url"`
	PassportURL    *string `json:"passport_url"`
}

type CreatePartyRequest struct {
	NameEN string `json:"name_en" binding:"required"`
	NameAR string `json:"name_ar"`
	CRN    string `json:"crn" binding:"required"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

type CreateContractRequest struct {
	Number        string    `json:"number" binding:"required"`
	Type          string    `json:"type" binding:"required"`
	PromoterID    uuid.UUID `json:"promoter_id" binding:"required"`
	FirstPartyID  uuid.UUID `json:"first_party_id" binding:"required"`
	SecondPartyID uuid.UUID `json:"second_party_id" binding:"required"`
	JobTitle      string    `json:"job_title"`
	Department    string    `json:"department"`
	WorkLocation  string    `json:"work_location"`
	BasicSalary   float64   `json:"basic_salary"`
	Currency      string    `json:"currency"`
	StartDate     string    `json:"start_date" binding:"required"`
	EndDate       string    `json:"end_date" binding:"required"`
	SpecialTerms  *string   `json:"special_terms"`
}

type contractService struct {
	repo      Repository
	mapper    *TemplateDataMapper
	lifecycle *workflows.StateMachine
	logger    *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &contractService{
		repo:      repo,
		mapper:    NewTemplateDataMapper(),
		lifecycle: workflows.NewContractStateMachine(),
		logger:    logger,
	}
}

func (s *contractService) CreatePromoter(ctx context.Context, req CreatePromoterRequest) (*Promoter, error) {
	promoter := &Promoter{
		ID:             uuid.New(),
		NameEN:         req.NameEN,
		NameAR:         req.NameAR,
		Email:          req.Email,
		MobileNumber:   req.MobileNumber,
		IDCardNumber:   req.IDCardNumber,
		PassportNumber: req.PassportNumber,
		IDCardURL:      req.IDCardURL,
		PassportURL:    req.PassportURL,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreatePromoter(ctx, promoter); err != nil {
		return nil, fmt.Errorf("create promoter: %w", err)
	}
	return promoter, nil
}

func (s *contractService) GetPromoter(ctx context.Context, id uuid.UUID) (*Promoter, error) {
	return s.repo.GetPromoterByID(ctx, id)
}

func (s *contractService) ListPromoters(ctx context.Context) ([]Promoter, error) {
	return s.repo.ListPromoters(ctx)
}

func (s *contractService) CreateParty(ctx context.Context, req CreatePartyRequest) (*Party, error) {
	party := &Party{
		ID:        uuid.New(),
		NameEN:    req.NameEN,
		NameAR:    req.NameAR,
		CRN:       req.CRN,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateParty(ctx, party); err != nil {
		return nil, fmt.Errorf("create party: %w", err)
	}
	return party, nil
}

func (s *contractService) GetParty(ctx context.Context, id uuid.UUID) (*Party, error) {
	return s.repo.GetPartyByID(ctx, id)
}

func (s *contractService) ListParties(ctx context.Context) ([]Party, error) {
	return s.repo.ListParties(ctx)
}

func (s *contractService) CreateContract(ctx context.Context, req CreateContractRequest) (*Contract, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date is not an ISO-8601 date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date is not an ISO-8601 date: %w", err)
	}
	if req.BasicSalary < 0 {
		return nil, fmt.Errorf("basic_salary must be non-negative")
	}

	contract := &Contract{
		ID:            uuid.New(),
		Number:        req.Number,
		Type:          req.Type,
		PromoterID:    req.PromoterID,
		FirstPartyID:  req.FirstPartyID,
		SecondPartyID: req.SecondPartyID,
		JobTitle:      req.JobTitle,
		Department:    req.Department,
		WorkLocation:  req.WorkLocation,
		BasicSalary:   req.BasicSalary,
		Currency:      req.Currency,
		StartDate:     startDate,
		EndDate:       endDate,
		SpecialTerms:  req.SpecialTerms,
		Status:        StatusDraft,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.repo.CreateContract(ctx, contract); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}

	s.logger.Info("contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("number", contract.Number))

	return contract, nil
}

func (s *contractService) GetContract(ctx context.Context, id uuid.UUID) (*Contract, error) {
	return s.repo.GetContractByID(ctx, id)
}

func (s *contractService) ListContracts(ctx context.Context, status *ContractStatus) ([]Contract, error) {
	return s.repo.ListContracts(ctx, status)
}

func (s *contractService) UpdateContractStatus(ctx context.Context, id uuid.UUID, status ContractStatus) (*Contract, error) {
	contract, err := s.repo.GetContractByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("contract not found")
	}
	if !s.lifecycle.CanTransition(string(contract.Status), string(status)) {
		return nil, fmt.Errorf("cannot transition contract from %s to %s", contract.Status, status)
	}
	contract.Status = status
	if err := s.repo.UpdateContract(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]GeneratedDocument, error) {
	return s.repo.ListGeneratedDocuments(ctx, contractID)
}

func (s *contractService) BuildContractData(ctx context.Context, contractID uuid.UUID) (ContractData, error) {
	contract, err := s.repo.GetContractByID(ctx, contractID)
	if err != nil {
		return ContractData{}, err
	}
	if contract == nil {
		return ContractData{}, fmt.Errorf("contract not found")
	}

	promoter, err := s.repo.GetPromoterByID(ctx, contract.PromoterID)
	if err != nil {
		return ContractData{}, err
	}
	if promoter == nil {
		return ContractData{}, fmt.Errorf("promoter not found")
	}

	first, err := s.repo.GetPartyByID(ctx, contract.FirstPartyID)
	if err != nil {
		return ContractData{}, err
	}
	if first == nil {
		return ContractData{}, fmt.Errorf("first party not found")
	}

	second, err := s.repo.GetPartyByID(ctx, contract.SecondPartyID)
	if err != nil {
		return ContractData{}, err
	}
	if second == nil {
		return ContractData{}, fmt.Errorf("second party not found")
	}

	data := s.mapper.Map(contract, promoter, first, second)
	if err := data.Validate(); err != nil {
		return ContractData{}, fmt.Errorf("contract %s: %w", contract.Number, err)
	}
	return data, nil
}
