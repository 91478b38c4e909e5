package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
	"github.com/foliodocs/folio-core/internal/core/ports/driving"
)

// Ensure IngestionOrchestrator implements IngestionService
var _ driving.IngestionService = (*IngestionOrchestrator)(nil)

// IngestionOrchestrator takes a validated upload payload through the
// ingestion pipeline:
//  1. Type resolution
//  2. Notion gate (blocking, notion only)
//  3. Link gate (blocking, link only)
//  4. Folder resolution (defaults to root)
//  5. Download-only derivation
//  6. Durable commit (document + version 1 + optional link, one tx)
//  7. Conversion dispatch (best effort)
//  8. Advanced-sheet side effect (best effort)
//  9. Webhook fan-out (best effort, concurrent)
//
// Only phases 2, 3 and 6 may fail the call. Everything after the commit
// improves the experience but never degrades availability.
type IngestionOrchestrator struct {
	store       driven.DocumentStore
	folders     driven.FolderStore
	notion      driven.NotionResolver
	blocklist   driven.BlocklistSource
	webhooks    driven.WebhookSender
	revalidator driven.CacheRevalidator
	blobs       driven.BlobStore
	auth        driven.AuthAdapter
	dispatcher  *Dispatcher
	logger      *slog.Logger
	effort      bestEffort
}

// IngestionOrchestratorConfig holds dependencies for IngestionOrchestrator.
type IngestionOrchestratorConfig struct {
	DocumentStore driven.DocumentStore
	FolderStore   driven.FolderStore
	Notion        driven.NotionResolver
	Blocklist     driven.BlocklistSource
	Webhooks      driven.WebhookSender
	Revalidator   driven.CacheRevalidator
	Blobs         driven.BlobStore
	Auth          driven.AuthAdapter
	Dispatcher    *Dispatcher
	Logger        *slog.Logger
}

// NewIngestionOrchestrator creates a new ingestion orchestrator.
func NewIngestionOrchestrator(cfg IngestionOrchestratorConfig) *IngestionOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionOrchestrator{
		store:       cfg.DocumentStore,
		folders:     cfg.FolderStore,
		notion:      cfg.Notion,
		blocklist:   cfg.Blocklist,
		webhooks:    cfg.Webhooks,
		revalidator: cfg.Revalidator,
		blobs:       cfg.Blobs,
		auth:        cfg.Auth,
		dispatcher:  cfg.Dispatcher,
		logger:      logger,
		effort:      bestEffort{logger: logger},
	}
}

// CreateDocument runs the ingestion pipeline for one upload.
func (o *IngestionOrchestrator) CreateDocument(ctx context.Context, req driving.CreateDocumentRequest) (*domain.Document, error) {
	payload := req.Payload

	// Phase 1: type resolution. Explicit classifier result wins, else
	// derive from the filename extension.
	docType := payload.Type
	if docType == "" {
		derived, ok := domain.TypeFromExtension(payload.Name)
		if !ok {
			return nil, fmt.Errorf("%w: could not determine document type for %q", domain.ErrInvalidInput, payload.Name)
		}
		docType = derived
	}

	// Phase 2: Notion gate. A page nobody can reach makes the document
	// meaningless, so this is the one pre-commit lookup allowed to
	// abort the request.
	if docType == domain.TypeNotion {
		if _, ok := o.notion.ResolvePageID(ctx, payload.Key); !ok {
			return nil, domain.ErrPageNotPublic
		}
	}

	// Phase 3: link gate.
	if docType == domain.TypeLink {
		if err := o.screenLinkTarget(ctx, req.TeamID, payload.Key); err != nil {
			return nil, err
		}
	}

	// Phase 4: folder resolution. Never blocks creation.
	folderID := o.resolveFolder(ctx, req.TeamID, req.FolderPathName)

	// Phase 5: download-only derivation.
	downloadOnly := domain.IsDownloadOnly(docType, payload.ContentType)

	now := time.Now()
	doc := &domain.Document{
		ID:               domain.NewDocumentID(),
		TeamID:           req.TeamID,
		OwnerID:          req.UserID,
		FolderID:         folderID,
		Name:             payload.Name,
		Type:             docType,
		DownloadOnly:     downloadOnly,
		IsExternalUpload: req.IsExternalUpload,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	version := &domain.DocumentVersion{
		ID:            domain.NewVersionID(),
		DocumentID:    doc.ID,
		VersionNumber: 1,
		IsPrimary:     true,
		Key:           payload.Key,
		ContentType:   payload.ContentType,
		Type:          docType,
		StorageType:   payload.StorageType,
		FileSize:      payload.FileSize,
		NumPages:      payload.NumPages,
		CreatedAt:     now,
	}

	var link *domain.Link
	if req.CreateLink {
		link = &domain.Link{
			ID:         domain.NewLinkID(),
			DocumentID: doc.ID,
			TeamID:     req.TeamID,
			Slug:       domain.NewLinkSlug(),
			CreatedAt:  now,
		}
		if req.LinkPassword != "" {
			hash, err := o.auth.HashPassword(req.LinkPassword)
			if err != nil {
				return nil, fmt.Errorf("hash link password: %w", err)
			}
			link.PasswordHash = hash
		}
	}

	// Phase 6: durable commit. From here on the call is committed to
	// returning doc.
	if err := o.store.Create(ctx, doc, version, link); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	doc.Versions = []*domain.DocumentVersion{version}
	if link != nil {
		doc.Links = []*domain.Link{link}
	}

	o.logger.Info("document created",
		"team_id", doc.TeamID,
		"document_id", doc.ID,
		"document_version_id", version.ID,
		"type", doc.Type,
	)

	ids := []any{
		"team_id", doc.TeamID,
		"document_id", doc.ID,
		"document_version_id", version.ID,
	}

	// Phase 7: conversion dispatch.
	o.effort.run(ctx, "conversion dispatch", func(ctx context.Context) error {
		return o.dispatcher.DispatchForVersion(ctx, doc, version, req.TeamPlan)
	}, ids...)

	// Phase 8: advanced-sheet side effect.
	if docType == domain.TypeSheet && payload.AdvancedMode {
		o.runAdvancedSheetPhase(ctx, doc, version, ids)
	}

	// Phase 9: webhook fan-out, both deliveries in flight at once.
	var wg sync.WaitGroup
	if !req.IsExternalUpload {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.effort.run(ctx, "document created webhook", func(ctx context.Context) error {
				return o.webhooks.SendDocumentCreated(ctx, doc.TeamID, doc.ID)
			}, ids...)
		}()
	}
	if link != nil {
		linkID := link.ID
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.effort.run(ctx, "link created webhook", func(ctx context.Context) error {
				return o.webhooks.SendLinkCreated(ctx, doc.TeamID, doc.ID, linkID)
			}, ids...)
		}()
	}
	wg.Wait()

	return doc, nil
}

// screenLinkTarget requires a syntactically valid URL and consults the
// keyword blocklist. Blocklist unavailability is treated as no match.
func (o *IngestionOrchestrator) screenLinkTarget(ctx context.Context, teamID, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return domain.ErrInvalidURL
	}

	keywords, err := o.blocklist.FetchKeywords(ctx)
	if err != nil {
		o.logger.Warn("blocklist unavailable, treating as no match", "error", err)
		return nil
	}

	// Simple substring containment over the raw URL, no normalisation.
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(rawURL, kw) {
			o.logger.Error("blocked link target",
				"alert", "link_blocklist_match",
				"team_id", teamID,
				"url", rawURL,
				"keyword", kw,
			)
			return domain.ErrLinkBlocked
		}
	}
	return nil
}

// resolveFolder looks up the folder by team and path. Any failure
// defaults to the team root; "not found" and "query failed" are logged
// distinctly.
func (o *IngestionOrchestrator) resolveFolder(ctx context.Context, teamID, path string) string {
	if path == "" {
		return ""
	}
	folder, err := o.folders.GetByPath(ctx, teamID, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			o.logger.Info("folder not found, defaulting to root", "team_id", teamID, "path", path)
		} else {
			o.logger.Warn("folder lookup failed, defaulting to root", "team_id", teamID, "path", path, "error", err)
		}
		return ""
	}
	return folder.ID
}

// runAdvancedSheetPhase copies the stored file into the processing
// location, backfills the page count and requests cache revalidation.
// The sub-steps are sequential but each one is independently tolerant.
func (o *IngestionOrchestrator) runAdvancedSheetPhase(ctx context.Context, doc *domain.Document, version *domain.DocumentVersion, ids []any) {
	o.effort.run(ctx, "advanced sheet copy", func(ctx context.Context) error {
		_, err := o.blobs.CopyToProcessing(ctx, version.Key)
		return err
	}, ids...)

	o.effort.run(ctx, "advanced sheet page count", func(ctx context.Context) error {
		return o.store.UpdateVersionPageCount(ctx, version.ID, 1)
	}, ids...)

	o.effort.run(ctx, "advanced sheet revalidation", func(ctx context.Context) error {
		return o.revalidator.RevalidateDocument(ctx, doc.ID)
	}, ids...)
}
