package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreatePromoter(ctx context.Context, p *Promoter) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetPromoterByID(ctx context.Context, id uuid.UUID) (*Promoter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Promoter), args.Error(1)
}

func (m *MockRepository) ListPromoters(ctx context.Context) ([]Promoter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Promoter), args.Error(1)
}

func (m *MockRepository) CreateParty(ctx context.Context, p *Party) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetPartyByID(ctx context.Context, id uuid.UUID) (*Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Party), args.Error(1)
}

func (m *MockRepository) ListParties(ctx context.Context) ([]Party, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Party), args.Error(1)
}

func (m *MockRepository) CreateContract(ctx context.Context, c *Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetContractByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contract), args.Error(1)
}

func (m *MockRepository) ListContracts(ctx context.Context, status *ContractStatus) ([]Contract, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Contract), args.Error(1)
}

func (m *MockRepository) UpdateContract(ctx context.Context, c *Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) CreateGeneratedDocument(ctx context.Context, doc *GeneratedDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) UpdateGeneratedDocument(ctx context.Context, doc *GeneratedDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) GetGeneratedDocumentByID(ctx context.Context, id uuid.UUID) (*GeneratedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GeneratedDocument), args.Error(1)
}

func (m *MockRepository) ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]GeneratedDocument, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]GeneratedDocument), args.Error(1)
}

func (m *MockRepository) MarkStaleGenerationsFailed(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) RecordOrphan(ctx context.Context, fileID, reason string) error {
	args := m.Called(ctx, fileID, reason)
	return args.Error(0)
}

func (m *MockRepository) ListOrphans(ctx context.Context) ([]OrphanedFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrphanedFile), args.Error(1)
}

func (m *MockRepository) DeleteOrphan(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateContract(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	req := CreateContractRequest{
		Number:        "CN-2026-001",
		Type:          "full-time",
		PromoterID:    uuid.New(),
		FirstPartyID:  uuid.New(),
		SecondPartyID: uuid.New(),
		JobTitle:      "Brand Ambassador",
		BasicSalary:   4500.5,
		Currency:      "QAR",
		StartDate:     "2026-02-01",
		EndDate:       "2028-01-31",
	}

	repo.On("CreateContract", mock.Anything, mock.AnythingOfType("*contracts.Contract")).Return(nil)

	contract, err := service.CreateContract(context.Background(), req)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, contract.ID)
	assert.Equal(t, "CN-2026-001", contract.Number)
	assert.Equal(t, StatusDraft, contract.Status)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), contract.StartDate)
	assert.Equal(t, time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC), contract.EndDate)
	repo.AssertExpectations(t)
}

func TestCreateContractRejectsBadDates(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	req := CreateContractRequest{
		Number:    "CN-2026-002",
		Type:      "full-time",
		StartDate: "01/02/2026",
		EndDate:   "2028-01-31",
	}

	_, err := service.CreateContract(context.Background(), req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
	repo.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestCreateContractRejectsNegativeSalary(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	req := CreateContractRequest{
		Number:      "CN-2026-003",
		Type:        "full-time",
		BasicSalary: -1,
		StartDate:   "2026-02-01",
		EndDate:     "2028-01-31",
	}

	_, err := service.CreateContract(context.Background(), req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "basic_salary")
}

func TestUpdateContractStatus(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	id := uuid.New()
	repo.On("GetContractByID", mock.Anything, id).Return(&Contract{ID: id, Status: StatusDraft}, nil)
	repo.On("UpdateContract", mock.Anything, mock.AnythingOfType("*contracts.Contract")).Return(nil)

	contract, err := service.UpdateContractStatus(context.Background(), id, StatusActive)

	assert.NoError(t, err)
	assert.Equal(t, StatusActive, contract.Status)
	repo.AssertExpectations(t)
}

func TestUpdateContractStatusRejectsInvalidTransition(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	id := uuid.New()
	repo.On("GetContractByID", mock.Anything, id).Return(&Contract{ID: id, Status: StatusTerminated}, nil)

	_, err := service.UpdateContractStatus(context.Background(), id, StatusActive)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition")
	repo.AssertNotCalled(t, "UpdateContract", mock.Anything, mock.Anything)
}

func TestUpdateContractStatusNotFound(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	id := uuid.New()
	repo.On("GetContractByID", mock.Anything, id).Return(nil, nil)

	_, err := service.UpdateContractStatus(context.Background(), id, StatusActive)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBuildContractData(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	contractID := uuid.New()
	promoterID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	repo.On("GetContractByID", mock.Anything, contractID).Return(&Contract{
		ID:            contractID,
		Number:        "CN-2026-001",
		PromoterID:    promoterID,
		FirstPartyID:  firstID,
		SecondPartyID: secondID,
		JobTitle:      "Brand Ambassador",
		BasicSalary:   4500.5,
		Currency:      "QAR",
		StartDate:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}, nil)
	repo.On("GetPromoterByID", mock.Anything, promoterID).Return(&Promoter{
		ID:           promoterID,
		NameEN:       "Jane Doe",
		NameAR:       "جين دو",
		IDCardNumber: "28956341234",
	}, nil)
	repo.On("GetPartyByID", mock.Anything, firstID).Return(&Party{ID: firstID, NameEN: "Falcon Events LLC", CRN: "CR-100200"}, nil)
	repo.On("GetPartyByID", mock.Anything, secondID).Return(&Party{ID: secondID, NameEN: "Doha Retail WLL", CRN: "CR-300400"}, nil)

	data, err := service.BuildContractData(context.Background(), contractID)

	assert.NoError(t, err)
	assert.Equal(t, "CN-2026-001", data.ContractNumber)
	assert.Equal(t, "Jane Doe", data.PromoterNameEN)
	assert.Equal(t, "Falcon Events LLC", data.FirstPartyNameEN)
	assert.Equal(t, "2026-02-01", data.ContractStartDate)
}

func TestBuildContractDataMissingPromoter(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	contractID := uuid.New()
	promoterID := uuid.New()
	repo.On("GetContractByID", mock.Anything, contractID).Return(&Contract{
		ID:         contractID,
		Number:     "CN-2026-001",
		PromoterID: promoterID,
	}, nil)
	repo.On("GetPromoterByID", mock.Anything, promoterID).Return(nil, nil)

	_, err := service.BuildContractData(context.Background(), contractID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "promoter not found")
}
