package domain

import (
	"path/filepath"
	"strings"
)

// DocumentType is the closed logical classification of a document's
// purpose, distinct from its MIME content type.
type DocumentType string

const (
	TypePDF    DocumentType = "pdf"
	TypeDocs   DocumentType = "docs"
	TypeSlides DocumentType = "slides"
	TypeSheet  DocumentType = "sheet"
	TypeCAD    DocumentType = "cad"
	TypeVideo  DocumentType = "video"
	TypeImage  DocumentType = "image"
	TypeNotion DocumentType = "notion"
	TypeLink   DocumentType = "link"
	TypeZip    DocumentType = "zip"
	TypeMap    DocumentType = "map"
	TypeEmail  DocumentType = "email"
)

// SupportedTypes is the closed set accepted from the transport layer.
var SupportedTypes = []DocumentType{
	TypePDF, TypeDocs, TypeSlides, TypeSheet, TypeCAD, TypeVideo,
	TypeImage, TypeNotion, TypeLink, TypeZip, TypeMap, TypeEmail,
}

// IsSupportedType reports whether t is one of the supported logical types.
func IsSupportedType(t DocumentType) bool {
	for _, s := range SupportedTypes {
		if t == s {
			return true
		}
	}
	return false
}

var extensionTypes = map[string]DocumentType{
	".pdf":  TypePDF,
	".doc":  TypeDocs,
	".docx": TypeDocs,
	".odt":  TypeDocs,
	".txt":  TypeDocs,
	".rtf":  TypeDocs,
	".ppt":  TypeSlides,
	".pptx": TypeSlides,
	".odp":  TypeSlides,
	".key":  TypeSlides,
	".xls":  TypeSheet,
	".xlsx": TypeSheet,
	".xlsm": TypeSheet,
	".csv":  TypeSheet,
	".tsv":  TypeSheet,
	".ods":  TypeSheet,
	".dwg":  TypeCAD,
	".dxf":  TypeCAD,
	".png":  TypeImage,
	".jpg":  TypeImage,
	".jpeg": TypeImage,
	".mp4":  TypeVideo,
	".mov":  TypeVideo,
	".webm": TypeVideo,
	".avi":  TypeVideo,
	".zip":  TypeZip,
	".rar":  TypeZip,
	".kml":  TypeMap,
	".kmz":  TypeMap,
	".msg":  TypeEmail,
	".eml":  TypeEmail,
}

// contentTypeTypes maps a MIME content type to the logical types it may
// legitimately declare.
var contentTypeTypes = map[string][]DocumentType{
	"application/pdf": {TypePDF},

	"application/msword": {TypeDocs},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {TypeDocs},
	"application/vnd.oasis.opendocument.text":                                 {TypeDocs},
	"text/plain":    {TypeDocs},
	"application/rtf": {TypeDocs},

	"application/vnd.ms-powerpoint": {TypeSlides},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {TypeSlides},
	"application/vnd.oasis.opendocument.presentation":                           {TypeSlides},
	"application/vnd.apple.keynote":                                             {TypeSlides},
	"application/x-iwork-keynote-sffkey":                                        {TypeSlides},

	"application/vnd.ms-excel": {TypeSheet},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {TypeSheet},
	"application/vnd.ms-excel.sheet.macroEnabled.12":                    {TypeSheet},
	"application/vnd.oasis.opendocument.spreadsheet":                    {TypeSheet},
	"text/csv":                  {TypeSheet},
	"text/tab-separated-values": {TypeSheet},

	"application/acad":        {TypeCAD},
	"application/x-autocad":   {TypeCAD},
	"image/vnd.dwg":           {TypeCAD},
	"image/vnd.dxf":           {TypeCAD},
	"application/dxf":         {TypeCAD},

	"image/png":  {TypeImage},
	"image/jpeg": {TypeImage},

	"application/zip":              {TypeZip},
	"application/x-zip-compressed": {TypeZip},

	"application/vnd.google-earth.kml+xml": {TypeMap},
	"application/vnd.google-earth.kmz":     {TypeMap},

	"application/vnd.ms-outlook": {TypeEmail},
	"message/rfc822":             {TypeEmail},

	// Notion pages and plain links arrive as captured HTML.
	"text/html": {TypeNotion, TypeLink},
}

// extensionOverrides resolves content types that are too generic to
// classify on their own. CAD tooling in particular uploads with
// application/octet-stream.
var extensionOverrides = map[string]map[string]DocumentType{
	"application/octet-stream": {
		".dwg": TypeCAD,
		".dxf": TypeCAD,
		".kml": TypeMap,
		".kmz": TypeMap,
	},
	"application/vnd.ms-excel": {
		".xlsm": TypeSheet,
	},
}

// TypeFromExtension derives the logical type from a filename extension.
func TypeFromExtension(filename string) (DocumentType, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	t, ok := extensionTypes[ext]
	return t, ok
}

// TypesForContentType returns the logical types a content type may map
// to, consulting the override table for generic content types.
func TypesForContentType(contentType, filename string) []DocumentType {
	ct := normalizeContentType(contentType)

	if overrides, ok := extensionOverrides[ct]; ok {
		ext := strings.ToLower(filepath.Ext(filename))
		if t, ok := overrides[ext]; ok {
			return []DocumentType{t}
		}
	}

	if types, ok := contentTypeTypes[ct]; ok {
		return types
	}

	if strings.HasPrefix(ct, "video/") {
		return []DocumentType{TypeVideo}
	}

	return nil
}

// TypeMatchesContentType reports whether the declared logical type is
// consistent with the declared content type.
func TypeMatchesContentType(t DocumentType, contentType, filename string) bool {
	for _, candidate := range TypesForContentType(contentType, filename) {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsKeynoteContentType reports whether the content type is a Keynote
// MIME variant, which needs its own conversion path.
func IsKeynoteContentType(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "application/vnd.apple.keynote", "application/x-iwork-keynote-sffkey":
		return true
	}
	return false
}

// IsDownloadOnly reports whether a document of the given type and
// content type has no in-app viewer and must be downloaded instead.
func IsDownloadOnly(t DocumentType, contentType string) bool {
	switch t {
	case TypeZip, TypeMap, TypeEmail:
		return true
	}
	return normalizeContentType(contentType) == "text/tab-separated-values"
}

func normalizeContentType(ct string) string {
	// Strip parameters such as "; charset=utf-8".
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
