package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/generator"
)

// Event describes the outcome of one generation attempt for downstream
// notification channels.
type Event struct {
	DocumentID     uuid.UUID                  `json:"document_id"`
	ContractID     uuid.UUID                  `json:"contract_id"`
	ContractNumber string                     `json:"contract_number"`
	RequestedBy    uuid.UUID                  `json:"requested_by"`
	Backend        string                     `json:"backend"`
	Status         contracts.GenerationStatus `json:"status"`
	PDFURL         string                     `json:"pdf_url,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

// Notifier fans a generation event out to its channels. Delivery is
// best-effort and must not fail the generation itself.
type Notifier interface {
	NotifyGeneration(ctx context.Context, event Event)
}

// Request asks for one contract document. Backend selects a specific
// generator kind; when empty the fallback chain decides.
type Request struct {
	ContractID  uuid.UUID
	Backend     string
	RequestedBy uuid.UUID
}

// Service orchestrates document generation: it assembles the contract data,
// runs the selected backend (or the fallback chain), records the attempt and
// notifies listeners. Each call produces a distinct artifact; generation is
// never idempotent.
type Service struct {
	contracts contracts.Service
	repo      contracts.Repository
	chain     *generator.Chain
	notifier  Notifier
	logger    *zap.Logger
}

func NewService(contractsSvc contracts.Service, repo contracts.Repository, chain *generator.Chain, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		contracts: contractsSvc,
		repo:      repo,
		chain:     chain,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *Service) Generate(ctx context.Context, req Request) (*contracts.GeneratedDocument, error) {
	data, err := s.contracts.BuildContractData(ctx, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("assemble contract data: %w", err)
	}

	record := &contracts.GeneratedDocument{
		ID:          uuid.New(),
		ContractID:  req.ContractID,
		Backend:     req.Backend,
		Status:      contracts.GenerationPending,
		RequestedBy: req.RequestedBy,
		CreatedAt:   time.Now(),
	}
	if record.Backend == "" {
		record.Backend = string(s.chain.Kinds()[0])
	}
	if err := s.repo.CreateGeneratedDocument(ctx, record); err != nil {
		return nil, fmt.Errorf("record generation request: %w", err)
	}

	result, genErr := s.run(ctx, req.Backend, data)

	completed := time.Now()
	record.CompletedAt = &completed

	if genErr != nil {
		record.Status = contracts.GenerationFailed
		msg := genErr.Error()
		record.ErrorMessage = &msg
		if updateErr := s.repo.UpdateGeneratedDocument(ctx, record); updateErr != nil {
			s.logger.Error("failed to record generation failure", zap.Error(updateErr))
		}
		s.notify(ctx, data, record)
		return nil, genErr
	}

	record.Backend = string(result.Kind)
	record.Status = contracts.GenerationCompleted
	if result.DocumentID != "" {
		record.DocumentID = &result.DocumentID
	}
	if result.DocumentURL != "" {
		record.DocumentURL = &result.DocumentURL
	}
	if result.PDFURL != "" {
		record.PDFURL = &result.PDFURL
	}
	if err := s.repo.UpdateGeneratedDocument(ctx, record); err != nil {
		return nil, fmt.Errorf("record generation result: %w", err)
	}

	s.logger.Info("contract document generated",
		zap.String("contract_number", data.ContractNumber),
		zap.String("backend", string(result.Kind)),
		zap.String("generated_document_id", record.ID.String()))

	s.notify(ctx, data, record)
	return record, nil
}

func (s *Service) run(ctx context.Context, backend string, data contracts.ContractData) (*generator.Result, error) {
	if backend == "" {
		return s.chain.Generate(ctx, data)
	}
	g, err := s.chain.ByKind(generator.Kind(backend))
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, data)
}

func (s *Service) notify(ctx context.Context, data contracts.ContractData, record *contracts.GeneratedDocument) {
	if s.notifier == nil {
		return
	}
	event := Event{
		DocumentID:     record.ID,
		ContractID:     record.ContractID,
		ContractNumber: data.ContractNumber,
		RequestedBy:    record.RequestedBy,
		Backend:        record.Backend,
		Status:         record.Status,
	}
	if record.PDFURL != nil {
		event.PDFURL = *record.PDFURL
	}
	if record.ErrorMessage != nil {
		event.Error = *record.ErrorMessage
	}
	s.notifier.NotifyGeneration(ctx, event)
}
