package acquire

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store/storetest"
)

func testBlobStore(t *testing.T) *BlobStore {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	blobs, err := NewBlobStore(config.BlobConfig{
		Dir: t.TempDir(),
		Key: hex.EncodeToString(key),
	})
	require.NoError(t, err)
	return blobs
}

func TestBlobStoreRoundTrip(t *testing.T) {
	blobs := testBlobStore(t)

	payload := []byte("raw disclosure bytes")
	ref, existed, err := blobs.Put("t-1", "doc-1", payload)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotEmpty(t, ref)

	got, err := blobs.Get("t-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBlobStoreSkipsExisting(t *testing.T) {
	blobs := testBlobStore(t)

	_, existed, err := blobs.Put("t-1", "doc-1", []byte("first"))
	require.NoError(t, err)
	assert.False(t, existed)

	_, existed, err = blobs.Put("t-1", "doc-1", []byte("first"))
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestBlobStoreRejectsBadKey(t *testing.T) {
	_, err := NewBlobStore(config.BlobConfig{Dir: t.TempDir(), Key: "deadbeef"})
	assert.Error(t, err)
}

func TestBlobStoreWithoutKeyIsDisabled(t *testing.T) {
	blobs, err := NewBlobStore(config.BlobConfig{Dir: t.TempDir()})
	require.NoError(t, err)

	_, _, err = blobs.Put("t-1", "doc-1", []byte("payload"))
	assert.ErrorContains(t, err, "encryption key not configured")

	_, err = blobs.Get("t-1", "doc-1")
	assert.ErrorContains(t, err, "encryption key not configured")
}

func TestUploadRejectsNonPDF(t *testing.T) {
	st := storetest.New()
	svc := NewService(st, testBlobStore(t), NewFetcher(config.IngestConfig{FetchTimeoutSecs: 5}))

	src := model.DisclosureSource{TenantID: "t-1", CompanyID: "ssab", Location: "https://example.com/report.pdf"}
	_, err := svc.Upload(context.Background(), src, []byte("<html>not a report</html>"))

	var invalid *model.InvalidDocumentError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, src.Location, invalid.Location)
	assert.Empty(t, st.Docs)
}

// textlessPDF builds a well-formed single-page PDF whose only content
// stream is empty, the shape a scanned report presents after OCR-free
// export. Object offsets are computed while writing so the xref table
// is correct for whatever the bodies serialize to.
func textlessPDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 5)
	buf.WriteString("%PDF-1.4\n")
	writeObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>")
	writeObj(4, "<< /Length 0 >>\nstream\n\nendstream")

	xref := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n <= 4; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestUploadStoresTextlessPDF(t *testing.T) {
	st := storetest.New()
	svc := NewService(st, testBlobStore(t), NewFetcher(config.IngestConfig{FetchTimeoutSecs: 5}))

	src := model.DisclosureSource{TenantID: "t-1", CompanyID: "ssab", Location: "https://example.com/scan.pdf"}
	doc, err := svc.Upload(context.Background(), src, textlessPDF())
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Len(t, st.Docs, 1)

	pages, err := svc.ExtractPages(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestAcquireSeedSourceIsDeterministic(t *testing.T) {
	st := storetest.New()
	svc := NewService(st, testBlobStore(t), NewFetcher(config.IngestConfig{FetchTimeoutSecs: 5}))

	src := model.DisclosureSource{
		TenantID:  "t-1",
		CompanyID: "ssab",
		Category:  "Purchased Goods & Services",
		Location:  "seed://ssab-annual-report-2023",
	}

	first, err := svc.Acquire(context.Background(), src)
	require.NoError(t, err)
	second, err := svc.Acquire(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, first.DocID, second.DocID)
	assert.Equal(t, first.ContentHash, first.DocID)
	assert.Equal(t, "SSAB Annual and Sustainability Report 2023", first.Title)
	assert.Len(t, st.Docs, 1)
}

func TestAcquireUnknownSeedLocation(t *testing.T) {
	st := storetest.New()
	svc := NewService(st, testBlobStore(t), NewFetcher(config.IngestConfig{FetchTimeoutSecs: 5}))

	src := model.DisclosureSource{TenantID: "t-1", Location: "seed://no-such-report"}
	_, err := svc.Acquire(context.Background(), src)
	assert.Error(t, err)
}

func TestExtractPagesFromSeed(t *testing.T) {
	st := storetest.New()
	svc := NewService(st, testBlobStore(t), NewFetcher(config.IngestConfig{FetchTimeoutSecs: 5}))

	src := model.DisclosureSource{TenantID: "t-1", CompanyID: "ssab", Location: "seed://ssab-annual-report-2023"}
	doc, err := svc.Acquire(context.Background(), src)
	require.NoError(t, err)

	pages, err := svc.ExtractPages(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, pages)
	assert.Equal(t, 12, pages[0].Number)
	assert.Contains(t, pages[0].Text, "electric arc furnace")
}

func TestSeedLocationHelpers(t *testing.T) {
	assert.True(t, IsSeedLocation("seed://dhl-esg-report-2023"))
	assert.False(t, IsSeedLocation("https://example.com/report.pdf"))
	assert.NotEmpty(t, SeedLocations())
	assert.Equal(t, "DHL Group ESG Statement 2023", SeedTitle("seed://dhl-esg-report-2023"))
}
