package acquire

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store"
)

var pdfMagic = []byte("%PDF-")

const seedStorageRef = "seed"

// Service acquires disclosure documents for ingestion. Remote sources
// are fetched, validated and stored encrypted; seed sources resolve to
// the built-in corpus.
type Service struct {
	store   store.Store
	blobs   *BlobStore
	fetcher *Fetcher
}

func NewService(st store.Store, blobs *BlobStore, fetcher *Fetcher) *Service {
	return &Service{store: st, blobs: blobs, fetcher: fetcher}
}

// Acquire resolves a registered source to a persisted document record.
// Re-acquiring content already on hand skips the blob write, so
// repeated ingestion runs do not redownload storage.
func (s *Service) Acquire(ctx context.Context, src model.DisclosureSource) (*model.DisclosureDocument, error) {
	if strings.HasPrefix(src.Location, model.SeedScheme) {
		return s.acquireSeed(ctx, src)
	}

	data, err := s.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return nil, err
	}
	return s.Upload(ctx, src, data)
}

// Upload validates raw document bytes and persists them under a
// content-derived doc_id. It is also the entry point for documents
// provided directly by operators rather than fetched.
func (s *Service) Upload(ctx context.Context, src model.DisclosureSource, data []byte) (*model.DisclosureDocument, error) {
	tenantID, location := src.TenantID, src.Location
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, &model.InvalidDocumentError{Location: location, Reason: "missing PDF signature"}
	}
	pages, err := extractPDFPages(data)
	if err != nil {
		return nil, &model.InvalidDocumentError{Location: location, Reason: "unparseable document"}
	}
	if len(pages) == 0 {
		// A scanned or image-only PDF is still a valid document; it
		// simply yields no chunks when ingested.
		zap.L().Warn("document has no extractable text",
			zap.String("tenant_id", tenantID),
			zap.String("location", location))
	}

	sum := sha256.Sum256(data)
	docID := hex.EncodeToString(sum[:])

	ref, existed, err := s.blobs.Put(tenantID, docID, data)
	if err != nil {
		return nil, err
	}
	if existed {
		zap.L().Debug("document already stored",
			zap.String("tenant_id", tenantID),
			zap.String("doc_id", docID))
	}

	doc := &model.DisclosureDocument{
		TenantID:     tenantID,
		DocID:        docID,
		CompanyID:    src.CompanyID,
		Title:        src.Title,
		Location:     location,
		ContentHash:  docID,
		StorageRef:   ref,
		DownloadedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertDocument(ctx, *doc); err != nil {
		return nil, eris.Wrap(err, "acquire: record document")
	}
	return doc, nil
}

func (s *Service) acquireSeed(ctx context.Context, src model.DisclosureSource) (*model.DisclosureDocument, error) {
	seed, ok := seedCorpus[src.Location]
	if !ok {
		return nil, &model.InvalidDocumentError{Location: src.Location, Reason: "unknown seed location"}
	}

	h := sha256.New()
	for _, p := range seed.pages {
		h.Write([]byte(p.Text))
	}
	docID := hex.EncodeToString(h.Sum(nil))

	doc := &model.DisclosureDocument{
		TenantID:     src.TenantID,
		DocID:        docID,
		CompanyID:    src.CompanyID,
		Title:        seed.title,
		Location:     src.Location,
		ContentHash:  docID,
		StorageRef:   seedStorageRef,
		DownloadedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertDocument(ctx, *doc); err != nil {
		return nil, eris.Wrap(err, "acquire: record seed document")
	}
	return doc, nil
}

// ExtractPages returns the per-page text of an acquired document,
// decrypting stored blobs or resolving the built-in corpus.
func (s *Service) ExtractPages(ctx context.Context, doc *model.DisclosureDocument) ([]model.Page, error) {
	if doc.StorageRef == seedStorageRef {
		seed, ok := seedCorpus[doc.Location]
		if !ok {
			return nil, eris.Errorf("acquire: seed location %q no longer known", doc.Location)
		}
		return seed.pages, nil
	}

	data, err := s.blobs.Get(doc.TenantID, doc.DocID)
	if err != nil {
		return nil, err
	}
	return extractPDFPages(data)
}
