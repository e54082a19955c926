package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/generator"
)

// MockContractsService is a mock implementation of contracts.Service
type MockContractsService struct {
	mock.Mock
}

func (m *MockContractsService) CreatePromoter(ctx context.Context, req contracts.CreatePromoterRequest) (*contracts.Promoter, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Promoter), args.Error(1)
}

func (m *MockContractsService) GetPromoter(ctx context.Context, id uuid.UUID) (*contracts.Promoter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Promoter), args.Error(1)
}

func (m *MockContractsService) ListPromoters(ctx context.Context) ([]contracts.Promoter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contracts.Promoter), args.Error(1)
}

func (m *MockContractsService) CreateParty(ctx context.Context, req contracts.CreatePartyRequest) (*contracts.Party, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Party), args.Error(1)
}

func (m *MockContractsService) GetParty(ctx context.Context, id uuid.UUID) (*contracts.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Party), args.Error(1)
}

func (m *MockContractsService) ListParties(ctx context.Context) ([]contracts.Party, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contracts.Party), args.Error(1)
}

func (m *MockContractsService) CreateContract(ctx context.Context, req contracts.CreateContractRequest) (*contracts.Contract, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Contract), args.Error(1)
}

func (m *MockContractsService) GetContract(ctx context.Context, id uuid.UUID) (*contracts.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Contract), args.Error(1)
}

func (m *MockContractsService) ListContracts(ctx context.Context, status *contracts.ContractStatus) ([]contracts.Contract, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]contracts.Contract), args.Error(1)
}

func (m *MockContractsService) UpdateContractStatus(ctx context.Context, id uuid.UUID, status contracts.ContractStatus) (*contracts.Contract, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Contract), args.Error(1)
}

func (m *MockContractsService) ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]contracts.GeneratedDocument, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]contracts.GeneratedDocument), args.Error(1)
}

func (m *MockContractsService) BuildContractData(ctx context.Context, contractID uuid.UUID) (contracts.ContractData, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).(contracts.ContractData), args.Error(1)
}

// MockRepository is a mock implementation of contracts.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreatePromoter(ctx context.Context, p *contracts.Promoter) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) GetPromoterByID(ctx context.Context, id uuid.UUID) (*contracts.Promoter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Promoter), args.Error(1)
}

func (m *MockRepository) ListPromoters(ctx context.Context) ([]contracts.Promoter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contracts.Promoter), args.Error(1)
}

func (m *MockRepository) CreateParty(ctx context.Context, p *contracts.Party) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) GetPartyByID(ctx context.Context, id uuid.UUID) (*contracts.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Party), args.Error(1)
}

func (m *MockRepository) ListParties(ctx context.Context) ([]contracts.Party, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contracts.Party), args.Error(1)
}

func (m *MockRepository) CreateContract(ctx context.Context, c *contracts.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) GetContractByID(ctx context.Context, id uuid.UUID) (*contracts.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Contract), args.Error(1)
}

func (m *MockRepository) ListContracts(ctx context.Context, status *contracts.ContractStatus) ([]contracts.Contract, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]contracts.Contract), args.Error(1)
}

func (m *MockRepository) UpdateContract(ctx context.Context, c *contracts.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) CreateGeneratedDocument(ctx context.Context, doc *contracts.GeneratedDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockRepository) UpdateGeneratedDocument(ctx context.Context, doc *contracts.GeneratedDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockRepository) GetGeneratedDocumentByID(ctx context.Context, id uuid.UUID) (*contracts.GeneratedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.GeneratedDocument), args.Error(1)
}

func (m *MockRepository) ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]contracts.GeneratedDocument, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]contracts.GeneratedDocument), args.Error(1)
}

func (m *MockRepository) MarkStaleGenerationsFailed(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) RecordOrphan(ctx context.Context, fileID, reason string) error {
	return m.Called(ctx, fileID, reason).Error(0)
}

func (m *MockRepository) ListOrphans(ctx context.Context) ([]contracts.OrphanedFile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contracts.OrphanedFile), args.Error(1)
}

func (m *MockRepository) DeleteOrphan(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type stubGenerator struct {
	kind   generator.Kind
	result *generator.Result
	err    error
}

func (s *stubGenerator) Kind() generator.Kind { return s.kind }

func (s *stubGenerator) Generate(ctx context.Context, data contracts.ContractData) (*generator.Result, error) {
	return s.result, s.err
}

type captureNotifier struct {
	events []Event
}

func (c *captureNotifier) NotifyGeneration(ctx context.Context, event Event) {
	c.events = append(c.events, event)
}

func testData() contracts.ContractData {
	return contracts.ContractData{
		ContractID:       uuid.New().String(),
		ContractNumber:   "CN-2026-001",
		PromoterNameEN:   "Jane Doe",
		FirstPartyNameEN: "Falcon Trading LLC",
	}
}

func TestGenerateSuccess(t *testing.T) {
	contractID := uuid.New()
	userID := uuid.New()
	data := testData()

	contractsSvc := new(MockContractsService)
	contractsSvc.On("BuildContractData", mock.Anything, contractID).Return(data, nil)

	repo := new(MockRepository)
	repo.On("CreateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)

	chain := generator.NewChain(zap.NewNop(), &stubGenerator{
		kind: generator.KindRawPDF,
		result: &generator.Result{
			Kind:   generator.KindRawPDF,
			PDFURL: "https://store.example.com/contract.pdf",
		},
	})
	notifier := &captureNotifier{}
	svc := NewService(contractsSvc, repo, chain, notifier, zap.NewNop())

	record, err := svc.Generate(context.Background(), Request{ContractID: contractID, RequestedBy: userID})
	assert.NoError(t, err)
	assert.Equal(t, contracts.GenerationCompleted, record.Status)
	assert.Equal(t, string(generator.KindRawPDF), record.Backend)
	assert.Equal(t, "https://store.example.com/contract.pdf", *record.PDFURL)
	assert.NotNil(t, record.CompletedAt)

	assert.Len(t, notifier.events, 1)
	assert.Equal(t, contracts.GenerationCompleted, notifier.events[0].Status)
	assert.Equal(t, "CN-2026-001", notifier.events[0].ContractNumber)
	assert.Equal(t, userID, notifier.events[0].RequestedBy)

	repo.AssertExpectations(t)
	contractsSvc.AssertExpectations(t)
}

func TestGenerateRecordsFailure(t *testing.T) {
	contractID := uuid.New()
	data := testData()

	contractsSvc := new(MockContractsService)
	contractsSvc.On("BuildContractData", mock.Anything, contractID).Return(data, nil)

	var updated *contracts.GeneratedDocument
	repo := new(MockRepository)
	repo.On("CreateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateGeneratedDocument", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*contracts.GeneratedDocument)
		}).Return(nil)

	chain := generator.NewChain(zap.NewNop(), &stubGenerator{
		kind: generator.KindRawPDF,
		err:  errors.New("render broke"),
	})
	notifier := &captureNotifier{}
	svc := NewService(contractsSvc, repo, chain, notifier, zap.NewNop())

	record, err := svc.Generate(context.Background(), Request{ContractID: contractID})
	assert.Nil(t, record)
	assert.Error(t, err)

	assert.NotNil(t, updated)
	assert.Equal(t, contracts.GenerationFailed, updated.Status)
	assert.Contains(t, *updated.ErrorMessage, "render broke")

	assert.Len(t, notifier.events, 1)
	assert.Equal(t, contracts.GenerationFailed, notifier.events[0].Status)
	assert.NotEmpty(t, notifier.events[0].Error)
}

func TestGenerateExplicitBackend(t *testing.T) {
	contractID := uuid.New()
	data := testData()

	contractsSvc := new(MockContractsService)
	contractsSvc.On("BuildContractData", mock.Anything, contractID).Return(data, nil)

	repo := new(MockRepository)
	repo.On("CreateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)

	chain := generator.NewChain(zap.NewNop(),
		&stubGenerator{kind: generator.KindHTMLPDF, err: errors.New("should not run")},
		&stubGenerator{kind: generator.KindRawPDF, result: &generator.Result{Kind: generator.KindRawPDF}})
	svc := NewService(contractsSvc, repo, chain, nil, zap.NewNop())

	record, err := svc.Generate(context.Background(), Request{
		ContractID: contractID,
		Backend:    string(generator.KindRawPDF),
	})
	assert.NoError(t, err)
	assert.Equal(t, string(generator.KindRawPDF), record.Backend)
}

func TestGenerateUnknownBackend(t *testing.T) {
	contractID := uuid.New()

	contractsSvc := new(MockContractsService)
	contractsSvc.On("BuildContractData", mock.Anything, contractID).Return(testData(), nil)

	repo := new(MockRepository)
	repo.On("CreateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateGeneratedDocument", mock.Anything, mock.Anything).Return(nil)

	chain := generator.NewChain(zap.NewNop(),
		&stubGenerator{kind: generator.KindRawPDF, result: &generator.Result{Kind: generator.KindRawPDF}})
	svc := NewService(contractsSvc, repo, chain, nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), Request{ContractID: contractID, Backend: "lithograph"})
	assert.ErrorIs(t, err, generator.ErrUnknownKind)
}

func TestGenerateContractDataError(t *testing.T) {
	contractID := uuid.New()

	contractsSvc := new(MockContractsService)
	contractsSvc.On("BuildContractData", mock.Anything, contractID).
		Return(contracts.ContractData{}, errors.New("contract not found"))

	repo := new(MockRepository)
	svc := NewService(contractsSvc, repo, generator.NewChain(zap.NewNop()), nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), Request{ContractID: contractID})
	assert.ErrorContains(t, err, "contract not found")
	repo.AssertNotCalled(t, "CreateGeneratedDocument", mock.Anything, mock.Anything)
}
