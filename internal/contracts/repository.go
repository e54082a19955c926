package contracts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreatePromoter(ctx context.Context, p *Promoter) error
	GetPromoterByID(ctx context.Context, id uuid.UUID) (*Promoter, error)
	ListPromoters(ctx context.Context) ([]Promoter, error)

	CreateParty(ctx context.Context, p *Party) error
	GetPartyByID(ctx context.Context, id uuid.UUID) (*Party, error)
	ListParties(ctx context.Context) ([]Party, error)

	CreateContract(ctx context.Context, c *Contract) error
	GetContractByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	ListContracts(ctx context.Context, status *ContractStatus) ([]Contract, error)
	UpdateContract(ctx context.Context, c *Contract) error

	CreateGeneratedDocument(ctx context.Context, doc *GeneratedDocument) error
	UpdateGeneratedDocument(ctx context.Context, doc *GeneratedDocument) error
	GetGeneratedDocumentByID(ctx context.Context, id uuid.UUID) (*GeneratedDocument, error)
	ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]GeneratedDocument, error)
	MarkStaleGenerationsFailed(ctx context.Context, olderThan time.Time) (int64, error)

	RecordOrphan(ctx context.Context, fileID, reason string) error
	ListOrphans(ctx context.Context) ([]OrphanedFile, error)
	DeleteOrphan(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreatePromoter(ctx context.Context, p *Promoter) error {
	query := `
		INSERT INTO promoters (
			id, name_en, name_ar, email, mobile_number, id_card_number,
			passport_number, id_card_url, passport_url
		) VALUES (
			:id, :name_en, :name_ar, :email, :mobile_number, :id_card_number,
			:passport_number, :id_card_url, :passport_url
		)`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *postgresRepository) GetPromoterByID(ctx context.Context, id uuid.UUID) (*Promoter, error) {
	var p Promoter
	err := r.db.GetContext(ctx, &p, "SELECT * FROM promoters WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (r *postgresRepository) ListPromoters(ctx context.Context) ([]Promoter, error) {
	var promoters []Promoter
	err := r.db.SelectContext(ctx, &promoters, "SELECT * FROM promoters ORDER BY created_at DESC")
	return promoters, err
}

func (r *postgresRepository) CreateParty(ctx context.Context, p *Party) error {
	query := `
		INSERT INTO parties (id, name_en, name_ar, crn, email, phone)
		VALUES (:id, :name_en, :name_ar, :crn, :email, :phone)`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *postgresRepository) GetPartyByID(ctx context.Context, id uuid.UUID) (*Party, error) {
	var p Party
	err := r.db.GetContext(ctx, &p, "SELECT * FROM parties WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (r *postgresRepository) ListParties(ctx context.Context) ([]Party, error) {
	var parties []Party
	err := r.db.SelectContext(ctx, &parties, "SELECT * FROM parties ORDER BY created_at DESC")
	return parties, err
}

func (r *postgresRepository) CreateContract(ctx context.Context, c *Contract) error {
	query := `
		INSERT INTO contracts (
			id, number, type, promoter_id, first_party_id, second_party_id,
			job_title, department, work_location, basic_salary, currency,
			start_date, end_date, special_terms, status
		) VALUES (
			:id, :number, :type, :promoter_id, :first_party_id, :second_party_id,
			:job_title, :department, :work_location, :basic_salary, :currency,
			:start_date, :end_date, :special_terms, :status
		)`
	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *postgresRepository) GetContractByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	var c Contract
	err := r.db.GetContext(ctx, &c, "SELECT * FROM contracts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *postgresRepository) ListContracts(ctx context.Context, status *ContractStatus) ([]Contract, error) {
	var contracts []Contract
	query := "SELECT * FROM contracts"
	var args []interface{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"
	err := r.db.SelectContext(ctx, &contracts, query, args...)
	return contracts, err
}

func (r *postgresRepository) UpdateContract(ctx context.Context, c *Contract) error {
	query := `
		UPDATE contracts SET
			type = :type,
			job_title = :job_title,
			department = :department,
			work_location = :work_location,
			basic_salary = :basic_salary,
			currency = :currency,
			start_date = :start_date,
			end_date = :end_date,
			special_terms = :special_terms,
			status = :status,
			updated_at = now()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *postgresRepository) CreateGeneratedDocument(ctx context.Context, doc *GeneratedDocument) error {
	query := `
		INSERT INTO generated_documents (
			id, contract_id, backend, status, document_id, document_url,
			pdf_url, error_message, requested_by
		) VALUES (
			:id, :contract_id, :backend, :status, :document_id, :document_url,
			:pdf_url, :error_message, :requested_by
		)`
	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *postgresRepository) UpdateGeneratedDocument(ctx context.Context, doc *GeneratedDocument) error {
	query := `
		UPDATE generated_documents SET
			backend = :backend,
			status = :status,
			document_id = :document_id,
			document_url = :document_url,
			pdf_url = :pdf_url,
			error_message = :error_message,
			completed_at = :completed_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *postgresRepository) GetGeneratedDocumentByID(ctx context.Context, id uuid.UUID) (*GeneratedDocument, error) {
	var doc GeneratedDocument
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM generated_documents WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &doc, err
}

func (r *postgresRepository) ListGeneratedDocuments(ctx context.Context, contractID uuid.UUID) ([]GeneratedDocument, error) {
	var docs []GeneratedDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM generated_documents WHERE contract_id = $1 ORDER BY created_at DESC", contractID)
	return docs, err
}

// MarkStaleGenerationsFailed flips pending generations older than the cutoff
// to failed. Used by the maintenance worker for requests that died mid-flight.
func (r *postgresRepository) MarkStaleGenerationsFailed(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE generated_documents
		SET status = $1, error_message = 'generation timed out', completed_at = now()
		WHERE status = $2 AND created_at < $3`,
		GenerationFailed, GenerationPending, olderThan)
	if err != nil {
		return 0, fmt.Errorf("mark stale generations: %w", err)
	}
	return res.RowsAffected()
}

func (r *postgresRepository) RecordOrphan(ctx context.Context, fileID, reason string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO orphaned_files (id, file_id, reason) VALUES ($1, $2, $3)",
		uuid.New(), fileID, reason)
	return err
}

func (r *postgresRepository) ListOrphans(ctx context.Context) ([]OrphanedFile, error) {
	var orphans []OrphanedFile
	err := r.db.SelectContext(ctx, &orphans, "SELECT * FROM orphaned_files ORDER BY recorded_at")
	return orphans, err
}

func (r *postgresRepository) DeleteOrphan(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM orphaned_files WHERE id = $1", id)
	return err
}
