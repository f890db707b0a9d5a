package intake

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/mediadrop/mediadrop/pkg/domain"
	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/naming"
	"github.com/mediadrop/mediadrop/pkg/storage"
)

// Upload carries one incoming multipart file through the pipeline. It
// is consumed entirely within a single Process call and never persisted
// as an entity.
type Upload struct {
	OriginalName  string
	DeclaredType  string
	DeclaredSize  int64
	SuggestedName string
	Body          io.ReadSeeker
}

// Pipeline validates, names and persists incoming uploads.
type Pipeline struct {
	store    *storage.Store
	resolver *naming.Resolver
	maxBytes int64
	baseURL  string
	logger   *logging.Logger
}

// NewPipeline wires the intake pipeline. baseURL is the optional public
// URL override; when empty the per-request base is used instead.
func NewPipeline(store *storage.Store, resolver *naming.Resolver, maxBytes int64, baseURL string, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		resolver: resolver,
		maxBytes: maxBytes,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Process runs one upload through type validation, size enforcement,
// name resolution and the storage write. requestBase is the
// scheme://host derived from the inbound request, used when no public
// base URL override is configured. Validation failures persist nothing;
// a failed write leaves no partial file behind.
func (p *Pipeline) Process(up Upload, requestBase string) (*domain.UploadResult, *domain.AppError) {
	contentType := p.effectiveType(up)
	if !p.resolver.Allowed(contentType) {
		return nil, domain.NewAppError(domain.ErrCodeValidation,
			fmt.Sprintf("unsupported content type: %s", contentType)).
			WithDetails("filename", up.OriginalName)
	}

	if p.maxBytes > 0 && up.DeclaredSize > p.maxBytes {
		return nil, domain.NewAppError(domain.ErrCodeRequestTooLarge,
			fmt.Sprintf("file too large: %s (max %s)",
				humanize.IBytes(uint64(up.DeclaredSize)), humanize.IBytes(uint64(p.maxBytes))))
	}

	filename := p.resolver.Resolve(up.OriginalName, contentType, up.SuggestedName)

	stored, err := p.store.Save(filename, up.Body, p.maxBytes)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, domain.NewAppError(domain.ErrCodeRequestTooLarge,
				fmt.Sprintf("file too large (max %s)", humanize.IBytes(uint64(p.maxBytes))))
		}
		p.logger.Error("failed to store upload", "filename", filename, "error", err)
		return nil, domain.NewAppError(domain.ErrCodeInternal, "failed to store file").WithError(err)
	}
	stored.ContentType = contentType

	p.logger.Info("stored upload",
		"filename", stored.Filename, "size", humanize.IBytes(uint64(stored.Size)), "type", stored.ContentType)

	base := p.baseURL
	if base == "" {
		base = strings.TrimRight(requestBase, "/")
	}

	return &domain.UploadResult{
		URL:      base + "/files/" + url.PathEscape(stored.Filename),
		Filename: stored.Filename,
		Size:     stored.Size,
		MimeType: stored.ContentType,
	}, nil
}

// effectiveType returns the declared content type, falling back to
// content sniffing when the client sent nothing or the generic
// application/octet-stream default.
func (p *Pipeline) effectiveType(up Upload) string {
	declared := strings.TrimSpace(up.DeclaredType)
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	mt, err := mimetype.DetectReader(up.Body)
	if _, serr := up.Body.Seek(0, io.SeekStart); serr != nil || err != nil {
		return declared
	}
	sniffed := mt.String()
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = strings.TrimSpace(sniffed[:i])
	}
	return sniffed
}
