package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cordoba/internal/config"
	"cordoba/internal/domain"
	"cordoba/internal/export"
	"cordoba/internal/importer"
	"cordoba/internal/port"
)

// ArchivePrefix is the key prefix of every archived upload.
const ArchivePrefix = "imports/"

const (
	defaultPerPage = 20
	maxPerPage     = 100
	systemUser     = "Sistema"
)

// BatchClassifier classifies a parsed batch against stored debtors.
type BatchClassifier interface {
	Classify(ctx context.Context, tenantID uuid.UUID, batch *domain.Batch, mapping domain.ColumnMapping) (*importer.Analysis, error)
}

// BatchCommitter writes a parsed batch to storage.
type BatchCommitter interface {
	Commit(ctx context.Context, in importer.CommitInput) (*importer.Result, error)
}

// UploadInput is one uploaded spreadsheet.
type UploadInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Type     domain.ImportType
	FileName string
	Payload  []byte
}

// ConfirmInput identifies the preview to commit.
type ConfirmInput struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	PreviewID uuid.UUID
	Overwrite bool
}

// FieldCatalog lists the columns accepted by the importer.
type FieldCatalog struct {
	Required []importer.Field `json:"obrigatorios"`
	Optional []importer.Field `json:"opcionais"`
}

// PreviewSummary is the analyze response.
type PreviewSummary struct {
	PreviewID      uuid.UUID             `json:"id_preview"`
	FileName       string                `json:"arquivo"`
	Type           domain.ImportType     `json:"tipo_importacao"`
	TotalRows      int                   `json:"total_linhas"`
	ValidRows      int                   `json:"linhas_validas"`
	InvalidRows    int                   `json:"linhas_invalidas"`
	NewDebtors     int                   `json:"novos_clientes"`
	Updates        int                   `json:"atualizacoes"`
	Duplicates     int                   `json:"duplicados"`
	Preview        []importer.RowOutcome `json:"preview"`
	ColumnsFound   []string              `json:"colunas_encontradas"`
	ColumnsMapped  domain.ColumnMapping  `json:"colunas_mapeadas"`
	ExpiresAt      time.Time             `json:"expira_em"`
}

// ImportLogPage is one page of the import audit log.
type ImportLogPage struct {
	Logs    []domain.ImportRunListItem `json:"logs"`
	Total   int                        `json:"total"`
	Page    int                        `json:"pagina"`
	PerPage int                        `json:"por_pagina"`
}

// ClientPage is one page of the debtor base listing.
type ClientPage struct {
	Clients []domain.DebtorSummary `json:"clientes"`
	Total   int                    `json:"total"`
	Page    int                    `json:"pagina"`
	PerPage int                    `json:"por_pagina"`
}

// TemplateFile is a downloadable import template.
type TemplateFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ArchiveLink is a time-limited download link for the file of an import run.
type ArchiveLink struct {
	RunID     uuid.UUID `json:"id_importacao"`
	FileName  string    `json:"arquivo"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expira_em"`
}

// ImportService defines the spreadsheet import contract.
type ImportService interface {
	Fields() FieldCatalog
	Analyze(ctx context.Context, in UploadInput) (*PreviewSummary, error)
	Confirm(ctx context.Context, in ConfirmInput) (*importer.Result, error)
	DirectImport(ctx context.Context, in UploadInput, overwrite bool) (*importer.Result, error)
	Logs(ctx context.Context, scope domain.TenantScope, page, perPage int) (*ImportLogPage, error)
	ArchiveLink(ctx context.Context, scope domain.TenantScope, runID uuid.UUID) (*ArchiveLink, error)
	Stats(ctx context.Context, scope domain.TenantScope) (*domain.BaseStats, error)
	Clients(ctx context.Context, scope domain.TenantScope, search string, page, perPage int) (*ClientPage, error)
	Template(format string) (*TemplateFile, error)
}

type importService struct {
	classifier BatchClassifier
	committer  BatchCommitter
	previews   port.PreviewStore
	runs       port.ImportRunRepository
	debtors    port.DebtorRepository
	stats      port.StatsRepository
	storage    port.ObjectStorage
	bucket     string
	cfg        config.ImportConfig
	log        logrus.FieldLogger
}

// NewImportService creates a new ImportService. Uploads are archived to
// bucket when it is non-empty and cfg.ArchiveUploads is set.
func NewImportService(
	classifier BatchClassifier,
	committer BatchCommitter,
	previews port.PreviewStore,
	runs port.ImportRunRepository,
	debtors port.DebtorRepository,
	stats port.StatsRepository,
	storage port.ObjectStorage,
	bucket string,
	cfg config.ImportConfig,
	log logrus.FieldLogger,
) ImportService {
	return &importService{
		classifier: classifier,
		committer:  committer,
		previews:   previews,
		runs:       runs,
		debtors:    debtors,
		stats:      stats,
		storage:    storage,
		bucket:     bucket,
		cfg:        cfg,
		log:        log,
	}
}

func (s *importService) Fields() FieldCatalog {
	return FieldCatalog{Required: importer.RequiredFields, Optional: importer.OptionalFields}
}

func (s *importService) Analyze(ctx context.Context, in UploadInput) (*PreviewSummary, error) {
	batch, mapping, err := s.readUpload(in)
	if err != nil {
		return nil, err
	}

	previewID := uuid.New()
	filePath, err := s.archive(ctx, in, previewID)
	if err != nil {
		return nil, err
	}

	summary, err := s.analyze(ctx, in, previewID, filePath, batch, mapping)
	if err != nil {
		s.discardArchive(ctx, filePath)
		return nil, err
	}
	return summary, nil
}

func (s *importService) analyze(ctx context.Context, in UploadInput, previewID uuid.UUID, filePath string,
	batch *domain.Batch, mapping domain.ColumnMapping) (*PreviewSummary, error) {
	analysis, err := s.classifier.Classify(ctx, in.TenantID, batch, mapping)
	if err != nil {
		return nil, fmt.Errorf("import.Analyze: %w", err)
	}

	entry := &domain.PreviewEntry{
		ID:         previewID,
		TenantID:   in.TenantID,
		UserID:     in.UserID,
		ImportType: in.Type,
		FileName:   in.FileName,
		FileSize:   int64(len(in.Payload)),
		FilePath:   filePath,
		Batch:      *batch,
		Mapping:    mapping,
	}
	if err := s.previews.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("import.Analyze: storing preview: %w", err)
	}

	sum := analysis.Summary
	s.log.WithFields(logrus.Fields{
		"preview_id": previewID,
		"tenant_id":  in.TenantID,
		"file":       in.FileName,
		"rows":       sum.Total,
		"new":        sum.New,
		"update":     sum.Update,
		"duplicate":  sum.Duplicate,
		"invalid":    sum.Invalid,
	}).Info("import preview created")

	preview := analysis.Outcomes
	if limit := s.cfg.PreviewRows; limit > 0 && len(preview) > limit {
		preview = preview[:limit]
	}
	return &PreviewSummary{
		PreviewID:     previewID,
		FileName:      in.FileName,
		Type:          in.Type,
		TotalRows:     sum.Total,
		ValidRows:     sum.New + sum.Update,
		InvalidRows:   sum.Invalid,
		NewDebtors:    sum.New,
		Updates:       sum.Update,
		Duplicates:    sum.Duplicate,
		Preview:       preview,
		ColumnsFound:  batch.Headers,
		ColumnsMapped: mapping,
		ExpiresAt:     entry.ExpiresAt,
	}, nil
}

func (s *importService) Confirm(ctx context.Context, in ConfirmInput) (*importer.Result, error) {
	entry, err := s.previews.Take(ctx, in.TenantID, in.PreviewID)
	if err != nil {
		if errors.Is(err, domain.ErrPreviewNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("import.Confirm: %w", err)
	}

	batch := entry.Batch
	return s.committer.Commit(ctx, importer.CommitInput{
		TenantID:  entry.TenantID,
		UserID:    in.UserID,
		FileName:  entry.FileName,
		FileSize:  entry.FileSize,
		FilePath:  entry.FilePath,
		Type:      entry.ImportType,
		Batch:     &batch,
		Mapping:   entry.Mapping,
		Overwrite: in.Overwrite,
	})
}

func (s *importService) DirectImport(ctx context.Context, in UploadInput, overwrite bool) (*importer.Result, error) {
	batch, mapping, err := s.readUpload(in)
	if err != nil {
		return nil, err
	}

	filePath, err := s.archive(ctx, in, uuid.New())
	if err != nil {
		return nil, err
	}

	// A failed commit still leaves an import run pointing at filePath, so the
	// archive stays; unreferenced ones are removed by ArchiveJanitor.
	return s.committer.Commit(ctx, importer.CommitInput{
		TenantID:  in.TenantID,
		UserID:    in.UserID,
		FileName:  in.FileName,
		FileSize:  int64(len(in.Payload)),
		FilePath:  filePath,
		Type:      in.Type,
		Batch:     batch,
		Mapping:   mapping,
		Overwrite: overwrite,
	})
}

func (s *importService) Logs(ctx context.Context, scope domain.TenantScope, page, perPage int) (*ImportLogPage, error) {
	page, perPage = normalizePage(page, perPage)
	runs, total, err := s.runs.List(ctx, scope, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("import.Logs: %w", err)
	}
	for i := range runs {
		runs[i].User = systemUser
		if runs[i].UserName != nil && *runs[i].UserName != "" {
			runs[i].User = *runs[i].UserName
		}
	}
	if runs == nil {
		runs = []domain.ImportRunListItem{}
	}
	return &ImportLogPage{Logs: runs, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *importService) ArchiveLink(ctx context.Context, scope domain.TenantScope, runID uuid.UUID) (*ArchiveLink, error) {
	run, err := s.runs.GetByID(ctx, scope, runID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrImportRunNotFound
		}
		return nil, fmt.Errorf("import.ArchiveLink: %w", err)
	}
	if run.FilePath == "" || s.bucket == "" {
		return nil, domain.ErrArchiveNotFound
	}

	expiry := s.cfg.DownloadURLExpiry
	url, err := s.storage.GetPresignedURL(ctx, s.bucket, run.FilePath, int64(expiry.Seconds()))
	if err != nil {
		if errors.Is(err, domain.ErrArchiveNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("import.ArchiveLink: %w", err)
	}
	return &ArchiveLink{
		RunID:     run.ID,
		FileName:  run.FileName,
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(expiry),
	}, nil
}

func (s *importService) Stats(ctx context.Context, scope domain.TenantScope) (*domain.BaseStats, error) {
	stats, err := s.stats.BaseStats(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("import.Stats: %w", err)
	}
	return stats, nil
}

func (s *importService) Clients(ctx context.Context, scope domain.TenantScope, search string, page, perPage int) (*ClientPage, error) {
	page, perPage = normalizePage(page, perPage)
	clients, total, err := s.debtors.ListSummaries(ctx, scope, strings.TrimSpace(search), (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("import.Clients: %w", err)
	}
	for i := range clients {
		clients[i].MaskedID = importer.MaskNationalID(clients[i].NationalID)
	}
	if clients == nil {
		clients = []domain.DebtorSummary{}
	}
	return &ClientPage{Clients: clients, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *importService) Template(format string) (*TemplateFile, error) {
	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "xlsx":
		if err := export.WriteTemplateXLSX(&buf); err != nil {
			return nil, fmt.Errorf("import.Template: %w", err)
		}
		return &TemplateFile{
			FileName:    "template_importacao.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     buf.Bytes(),
		}, nil
	case "csv":
		if err := export.WriteTemplateCSV(&buf); err != nil {
			return nil, fmt.Errorf("import.Template: %w", err)
		}
		return &TemplateFile{
			FileName:    "template_importacao.csv",
			ContentType: "text/csv; charset=utf-8",
			Content:     buf.Bytes(),
		}, nil
	default:
		return nil, &domain.UnsupportedFileError{Reason: fmt.Sprintf("formato %q inválido; use xlsx ou csv", format)}
	}
}

// readUpload checks the size limit, parses the file and resolves its columns.
func (s *importService) readUpload(in UploadInput) (*domain.Batch, domain.ColumnMapping, error) {
	if limit := s.cfg.MaxUploadBytes(); limit > 0 && int64(len(in.Payload)) > limit {
		return nil, nil, domain.ErrFileTooLarge
	}
	batch, err := importer.ReadTable(in.FileName, in.Payload)
	if err != nil {
		return nil, nil, err
	}
	mapping, err := importer.ResolveColumns(batch.Headers)
	if err != nil {
		return nil, nil, err
	}
	return batch, mapping, nil
}

func (s *importService) archive(ctx context.Context, in UploadInput, id uuid.UUID) (string, error) {
	if !s.cfg.ArchiveUploads || s.bucket == "" {
		return "", nil
	}
	key := ArchivePrefix + path.Join(in.TenantID.String(), id.String()+"_"+path.Base(filepath.ToSlash(in.FileName)))
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(in.Payload),
		ContentType: mimetype.Detect(in.Payload).String(),
		Size:        int64(len(in.Payload)),
		Metadata: map[string]string{
			"tenant-id":   in.TenantID.String(),
			"uploaded-by": in.UserID.String(),
			"import-type": string(in.Type),
		},
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("archiving upload")
		return "", fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
	return key, nil
}

func (s *importService) discardArchive(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(context.WithoutCancel(ctx), s.bucket, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("removing archived upload")
	}
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
