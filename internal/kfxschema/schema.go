// Package kfxschema holds the declarative KFX <-> IR translation rules
// (spec §4.3): the categorized book-metadata rule table, the landmark
// type mapping, and the element/container-kind <-> ir.Role table the
// storyline visitor and exporter both consult.
//
// Grounded on the teacher's frag_metadata.go (BuildBookMetadata's
// category-tagged metadata-entry construction) and frag_navigation.go
// (the landmark symbol table), generalized from one-off construction
// code into data tables a reader and a writer can both drive.
package kfxschema

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"ebookconv/internal/kfxsymbols"
)

// Category is the closed set of book-metadata categories (spec §4.3).
type Category int

const (
	CategoryKindleTitle Category = iota
	CategoryKindleEbook
	CategoryKindleAudit
)

func (c Category) String() string {
	switch c {
	case CategoryKindleTitle:
		return "kindle_title_metadata"
	case CategoryKindleEbook:
		return "kindle_ebook_metadata"
	case CategoryKindleAudit:
		return "kindle_audit_metadata"
	default:
		return "unknown"
	}
}

// MetadataField is one rule in the metadata schema: a key name, its
// category, and how its value is derived.
type MetadataField struct {
	Key      string
	Category Category
	// Static, if non-empty, is emitted verbatim (constants like
	// cde_content_type=PDOC). Otherwise Derive computes the value from
	// the book's Metadata.
	Static string
	Derive func(m BookMetadata) (string, bool)
}

// Contributor is one entry of Metadata.Contributors (spec §3.6).
type Contributor struct {
	Name   string
	FileAs string
	Role   string
}

// Collection is Metadata.Collection (spec §3.6): a series/collection a
// book belongs to.
type Collection struct {
	Name     string
	Type     string
	Position float64
}

// BookMetadata is the external Metadata shape (spec §3.6).
type BookMetadata struct {
	Title        string
	Authors      []string
	Publisher    string
	Language     string
	Description  string
	Identifier   string
	Date         string // ISO-8601, truncated to YYYY-MM-DD by the date rule
	CoverImage   string // resource name, substituted by the cover rule
	ModifiedDate string
	TitleSort    string
	AuthorSort   string
	Contributors []Contributor
	Collection   *Collection
}

// TocEntry is one node of the table of contents (spec §3.6).
type TocEntry struct {
	Title     string
	Href      string
	Children  []TocEntry
	PlayOrder int
	HasOrder  bool
}

// Landmark is one entry of the landmarks navigation (spec §3.6).
type Landmark struct {
	Type  LandmarkType
	Href  string
	Label string
}

// SpineEntry is one entry of the reading-order spine (spec §3.6).
type SpineEntry struct {
	ChapterID    string
	SizeEstimate int
}

// truncateDate keeps only the YYYY-MM-DD prefix of an ISO-8601 date
// (spec §4.3: "date truncation to YYYY-MM-DD").
func truncateDate(s string) (string, bool) {
	if len(s) < 10 {
		return s, s != ""
	}
	return s[:10], true
}

// DeriveBookID computes the deterministic 23-character book ID spec
// §4.3 calls for from an arbitrary identifier string: the SHA-1 digest of
// the identifier as uppercase hex, trimmed to 23 characters so it reads like
// Amazon's own ASIN-shaped ids without claiming to be one.
func DeriveBookID(identifier string) string {
	if identifier == "" {
		return ""
	}
	sum := sha1.Sum([]byte(identifier))
	hexStr := strings.ToUpper(hex.EncodeToString(sum[:]))
	if len(hexStr) > 23 {
		hexStr = hexStr[:23]
	}
	return hexStr
}

// DeriveFallbackBookID mints a stable book id when the source has no
// identifier at all, seeded from the title+author so repeated
// conversions of the same book agree. Grounded on content/content.go's
// use of google/uuid for the same "need a stable synthetic id" problem.
func DeriveFallbackBookID(title, author string) string {
	ns := uuid.NameSpaceURL
	id := uuid.NewSHA1(ns, []byte(title+"|"+author))
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:23]
}

// Schema is the full set of metadata rules.
func Schema() []MetadataField {
	return []MetadataField{
		{Key: "cde_content_type", Category: CategoryKindleEbook, Static: "PDOC"},
		{Key: "is_sample", Category: CategoryKindleEbook, Static: "false"},
		{Key: "override_kindle_font", Category: CategoryKindleEbook, Static: "false"},
		{Key: "title", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			return m.Title, m.Title != ""
		}},
		{Key: "title_sort", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			if m.TitleSort != "" {
				return m.TitleSort, true
			}
			return m.Title, m.Title != ""
		}},
		{Key: "author", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			if len(m.Authors) == 0 {
				return "", false
			}
			return strings.Join(m.Authors, "; "), true
		}},
		{Key: "author_sort", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			if m.AuthorSort != "" {
				return m.AuthorSort, true
			}
			if len(m.Authors) == 0 {
				return "", false
			}
			return m.Authors[0], true
		}},
		{Key: "publisher", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			return m.Publisher, m.Publisher != ""
		}},
		{Key: "language", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			return m.Language, m.Language != ""
		}},
		{Key: "description", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			return m.Description, m.Description != ""
		}},
		{Key: "ASIN", Category: CategoryKindleAudit, Derive: func(m BookMetadata) (string, bool) {
			id := DeriveBookID(m.Identifier)
			return id, id != ""
		}},
		{Key: "content_id", Category: CategoryKindleAudit, Derive: func(m BookMetadata) (string, bool) {
			id := DeriveBookID(m.Identifier)
			return id, id != ""
		}},
		{Key: "book_id", Category: CategoryKindleAudit, Derive: func(m BookMetadata) (string, bool) {
			return m.Identifier, m.Identifier != ""
		}},
		{Key: "issue_date", Category: CategoryKindleAudit, Derive: func(m BookMetadata) (string, bool) {
			return truncateDate(m.Date)
		}},
		{Key: "updated_date", Category: CategoryKindleAudit, Derive: func(m BookMetadata) (string, bool) {
			return truncateDate(m.ModifiedDate)
		}},
		{Key: "cover_image", Category: CategoryKindleTitle, Derive: func(m BookMetadata) (string, bool) {
			return m.CoverImage, m.CoverImage != ""
		}},
	}
}

// Entries evaluates the schema against m, returning only the rules that
// produced a value, grouped by category in schema-declaration order.
func Entries(m BookMetadata) map[Category][][2]string {
	out := make(map[Category][][2]string)
	for _, f := range Schema() {
		var value string
		var ok bool
		if f.Static != "" {
			value, ok = f.Static, true
		} else if f.Derive != nil {
			value, ok = f.Derive(m)
		}
		if !ok {
			continue
		}
		out[f.Category] = append(out[f.Category], [2]string{f.Key, value})
	}
	return out
}

// LandmarkType is the IR's closed landmark-type enum (spec §3.6).
type LandmarkType int

const (
	LandmarkCover LandmarkType = iota
	LandmarkTOC
	LandmarkStartReading
	LandmarkLOI // list of illustrations
	LandmarkLOT // list of tables
	LandmarkBibliography
	LandmarkGlossary
	LandmarkIndex
	LandmarkUnknown
)

// landmarkSymbols maps the fixed set of KFX landmark-type symbols to the
// IR enum. Unknown types are skipped by the caller (ToLandmarkType's ok
// return is false).
var landmarkSymbols = map[string]LandmarkType{
	"cover":         LandmarkCover,
	"toc":           LandmarkTOC,
	"start":         LandmarkStartReading,
	"loi":           LandmarkLOI,
	"lot":           LandmarkLOT,
	"bibliography":  LandmarkBibliography,
	"glossary":      LandmarkGlossary,
	"index":         LandmarkIndex,
}

// ToLandmarkType maps a raw KFX nav_type string to the IR enum.
func ToLandmarkType(navType string) (LandmarkType, bool) {
	lt, ok := landmarkSymbols[navType]
	return lt, ok
}

// FromLandmarkType is the inverse, used when exporting.
func FromLandmarkType(lt LandmarkType) (string, bool) {
	for name, v := range landmarkSymbols {
		if v == lt {
			return name, true
		}
	}
	return "", false
}

// LandmarkSymbol returns the well-known symbol backing a landmark's
// nav_container_name field, where one exists (cover/TOC have dedicated
// symbols in the shared catalog; the rest are written as plain text).
func LandmarkSymbol(lt LandmarkType) (kfxsymbols.Symbol, bool) {
	switch lt {
	case LandmarkCover:
		return kfxsymbols.CoverPage, true
	case LandmarkTOC:
		return kfxsymbols.Symbol(212), true // $212 toc
	default:
		return 0, false
	}
}
