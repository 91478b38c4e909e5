package validation

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

// FieldError is a validation failure scoped to one submission field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// PageResolver resolves a Notion key (URL, page id or custom-domain
// slug) to a canonical page id. Implemented by the notion adapter.
type PageResolver interface {
	ResolvePageID(ctx context.Context, key string) (string, bool)
}

// storagePathPattern is the fixed grammar for path-typed storage keys:
// <teamOrOwnerId>/doc_<id>/<filename>.<extension>, with identifiers
// limited to alphanumerics, underscore and hyphen.
var storagePathPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+/doc_[A-Za-z0-9_-]+/[^/\x00]+\.[A-Za-z0-9]+$`)

// MatchesStoragePath reports whether key matches the storage path grammar.
func MatchesStoragePath(key string) bool {
	return storagePathPattern.MatchString(key)
}

// payloadRule is one independent cross-field check. Rules are evaluated
// in order and each failure is reported against its own field.
type payloadRule struct {
	field string
	check func(p *domain.DocumentPayload) string
}

var payloadRules = []payloadRule{
	{field: "type", check: checkType},
	{field: "url", check: checkURLShape},
	{field: "contentType", check: checkContentTypeAgreement},
	{field: "storageType", check: checkStorageAgreement},
}

// ValidatePayload runs the schema rules against a candidate submission
// and returns every field-scoped failure. The Notion reachability check
// is separate (ValidateNotionURL) because it needs I/O.
func ValidatePayload(p *domain.DocumentPayload) []*FieldError {
	var errs []*FieldError
	for _, r := range payloadRules {
		if msg := r.check(p); msg != "" {
			errs = append(errs, &FieldError{Field: r.field, Message: msg})
		}
	}
	return errs
}

func checkType(p *domain.DocumentPayload) string {
	if p.Type == "" {
		return ""
	}
	if !domain.IsSupportedType(p.Type) {
		return "unsupported document type"
	}
	return ""
}

func checkURLShape(p *domain.DocumentPayload) string {
	if p.Type == domain.TypeLink {
		if !isHTTPSURL(p.Key) {
			return "link must be an HTTPS URL"
		}
		if !ValidateURLSecurity(p.Key) {
			return "url failed security validation"
		}
		return ""
	}

	switch p.StorageType {
	case domain.StorageTypeBlob:
		if isHTTPSURL(p.Key) && !ValidateURLSecurity(p.Key) {
			return "url failed security validation"
		}
	case domain.StorageTypePath:
		if isHTTPSURL(p.Key) {
			return "storage path must not be a URL"
		}
		if !ValidatePathSecurity(p.Key) {
			return "storage path failed security validation"
		}
		if !MatchesStoragePath(p.Key) {
			return "storage path does not match the expected format"
		}
	}
	return ""
}

func checkContentTypeAgreement(p *domain.DocumentPayload) string {
	if p.ContentType == "" {
		// Only captured pages and plain links arrive without one.
		if p.Type == domain.TypeNotion || p.Type == domain.TypeLink {
			return ""
		}
		return "content type is required for this document type"
	}
	if p.Type == "" {
		return ""
	}
	// Captured Notion pages are stored as HTML.
	if p.Type == domain.TypeNotion && normalizedContentType(p.ContentType) == "text/html" {
		return ""
	}
	if !domain.TypeMatchesContentType(p.Type, p.ContentType, p.Name) {
		return "content type does not match the document type"
	}
	return ""
}

func checkStorageAgreement(p *domain.DocumentPayload) string {
	switch p.StorageType {
	case domain.StorageTypeBlob:
		// HTTPS URLs are the native form; path-form keys are accepted
		// for records migrated from path storage.
		if isHTTPSURL(p.Key) || MatchesStoragePath(p.Key) {
			return ""
		}
		return "key does not match the blob storage format"
	case domain.StorageTypePath:
		if isHTTPSURL(p.Key) || !MatchesStoragePath(p.Key) {
			return "key does not match the path storage format"
		}
		return ""
	case "":
		return "storage type is required"
	default:
		return "unknown storage type"
	}
}

// ValidateNotionURL enforces HTTPS and the security screen on a Notion
// key and requires a discoverable page id, delegating custom-domain
// slugs to the resolver.
func ValidateNotionURL(ctx context.Context, raw string, resolver PageResolver) (string, *FieldError) {
	if !isHTTPSURL(raw) {
		return "", &FieldError{Field: "url", Message: "notion url must be HTTPS"}
	}
	if !ValidateURLSecurity(raw) {
		return "", &FieldError{Field: "url", Message: "url failed security validation"}
	}
	pageID, ok := resolver.ResolvePageID(ctx, raw)
	if !ok {
		return "", &FieldError{Field: "url", Message: "notion page is not publicly available"}
	}
	return pageID, nil
}

func isHTTPSURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

func normalizedContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
