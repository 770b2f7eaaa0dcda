// Package kfxbook implements the read side of the module: opening a KFX
// container and exposing the book as the operations spec §4.2 names
// (metadata, toc, landmarks, spine, load_chapter, load_asset,
// resolve_href) instead of raw fragments and symbol ids.
//
// Grounded on the teacher's Unpacked container shape (convert/kfx's own
// section/storyline resolution, performed there only in the export
// direction) run in reverse: section fragments point at a storyline by
// name, storylines hold the content tree internal/kfxschema's content
// codec understands, and book_navigation/book_metadata fragments carry
// the rest of the book-level shape.
package kfxbook

import (
	"ebookconv/internal/ionvalue"
	"ebookconv/internal/ir"
	"ebookconv/internal/kfxcontainer"
	"ebookconv/internal/kfxerr"
	"ebookconv/internal/kfxschema"
	"ebookconv/internal/kfxsymbols"
)

// Reader is an opened KFX container indexed for the reader operations.
type Reader struct {
	c *kfxcontainer.Container

	sectionStory map[string]string       // section_name -> story_name
	storylines   map[string]ionvalue.Value // story_name -> storyline's content list
	mimeByName   map[string]string       // resource_name -> mime, from external_resource
	rawByName    map[string][]byte       // resource_name -> raw bytes, from $417/$418 fragments

	navOnce  bool
	orders   []kfxschema.SpineOrder
	toc      []kfxschema.TocEntry
	landmarks []kfxschema.Landmark
}

// Open parses data as a KFX container and indexes its fragments for
// lookup by the reader operations.
func Open(data []byte) (*Reader, error) {
	c, err := kfxcontainer.Open(data)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		c:            c,
		sectionStory: make(map[string]string),
		storylines:   make(map[string]ionvalue.Value),
		mimeByName:   make(map[string]string),
		rawByName:    make(map[string][]byte),
	}
	r.index()
	return r, nil
}

func (r *Reader) index() {
	for _, f := range r.c.Fragments {
		switch f.FType {
		case kfxsymbols.Section.Text():
			if storyV, ok := f.Value.Get(kfxsymbols.StoryName.Text()); ok {
				r.sectionStory[f.FID] = storyV.Text
			}
		case kfxsymbols.Storyline.Text():
			if contentV, ok := f.Value.Get(kfxsymbols.Content.Text()); ok {
				r.storylines[f.FID] = contentV
			}
		case kfxsymbols.ExternalResrc.Text():
			if mimeV, ok := f.Value.Get("mime"); ok {
				r.mimeByName[f.FID] = mimeV.Text
			}
		case kfxsymbols.RawMedia.Text(), kfxsymbols.RawFont.Text():
			r.rawByName[f.FID] = f.RawPayload
		}
	}
}

func (r *Reader) fragmentByType(ftype kfxsymbols.Symbol) (kfxcontainer.Fragment, bool) {
	text := ftype.Text()
	for _, f := range r.c.Fragments {
		if f.FType == text {
			return f, true
		}
	}
	return kfxcontainer.Fragment{}, false
}

// Metadata returns the book's metadata (spec §4.2 "metadata").
func (r *Reader) Metadata() kfxschema.BookMetadata {
	f, ok := r.fragmentByType(kfxsymbols.BookMetadata)
	if !ok {
		return kfxschema.BookMetadata{}
	}
	return kfxschema.MetadataFromIon(f.Value)
}

func (r *Reader) loadNavigation() {
	if r.navOnce {
		return
	}
	r.navOnce = true
	f, ok := r.fragmentByType(kfxsymbols.BookNavigation)
	if !ok {
		return
	}
	r.orders, r.toc, r.landmarks = kfxschema.NavigationFromIon(f.Value)
}

// TOC returns the book's table of contents (spec §4.2 "toc").
func (r *Reader) TOC() []kfxschema.TocEntry {
	r.loadNavigation()
	return r.toc
}

// Landmarks returns the book's landmarks navigation (spec §4.2 "landmarks").
func (r *Reader) Landmarks() []kfxschema.Landmark {
	r.loadNavigation()
	return r.landmarks
}

// Spine returns the book's default reading order as a flat section list
// (spec §4.2 "spine"): the order named "default", or else the first order
// with any sections. A book with no declared reading order has no spine.
func (r *Reader) Spine() []kfxschema.SpineEntry {
	r.loadNavigation()
	var order *kfxschema.SpineOrder
	for i := range r.orders {
		if r.orders[i].Name == "default" {
			order = &r.orders[i]
			break
		}
		if order == nil && len(r.orders[i].Sections) > 0 {
			order = &r.orders[i]
		}
	}
	if order == nil {
		return nil
	}
	out := make([]kfxschema.SpineEntry, 0, len(order.Sections))
	for _, name := range order.Sections {
		out = append(out, kfxschema.SpineEntry{ChapterID: name})
	}
	return out
}

// LoadChapter decodes one section's storyline into a Chapter (spec §4.2
// "load_chapter").
func (r *Reader) LoadChapter(sectionName string) (*ir.Chapter, error) {
	storyName, ok := r.sectionStory[sectionName]
	if !ok {
		return nil, kfxerr.New(kfxerr.NotFound, "section not found: "+sectionName)
	}
	content, ok := r.storylines[storyName]
	if !ok {
		return nil, kfxerr.New(kfxerr.NotFound, "storyline not found: "+storyName)
	}
	return kfxschema.DecodeChapter(content), nil
}

// AssetInfo names one resource carried by the book, without loading its
// bytes.
type AssetInfo struct {
	Name string
	MIME string
	Font bool
}

// Assets lists every resource the book carries, for callers that need to
// copy a book's resources wholesale (e.g. round-tripping through another
// back-end) rather than resolving them one href at a time.
func (r *Reader) Assets() []AssetInfo {
	out := make([]AssetInfo, 0, len(r.rawByName))
	for _, f := range r.c.Fragments {
		switch f.FType {
		case kfxsymbols.RawMedia.Text():
			out = append(out, AssetInfo{Name: f.FID, MIME: r.mimeByName[f.FID]})
		case kfxsymbols.RawFont.Text():
			out = append(out, AssetInfo{Name: f.FID, MIME: r.mimeByName[f.FID], Font: true})
		}
	}
	return out
}

// LoadAsset returns a resource's raw bytes and MIME type (spec §4.2
// "load_asset").
func (r *Reader) LoadAsset(resourceName string) ([]byte, string, error) {
	data, ok := r.rawByName[resourceName]
	if !ok {
		return nil, "", kfxerr.New(kfxerr.NotFound, "asset not found: "+resourceName)
	}
	return data, r.mimeByName[resourceName], nil
}

// ResolveHref resolves an href of the shape "section" or "section#id"
// (the same shape TocEntry.Href/Landmark.Href use) to the chapter it
// names and, if an id was given, the node that id is attached to (spec
// §4.2 "resolve_href"). ok is false when the section doesn't exist or the
// id isn't found within it.
func (r *Reader) ResolveHref(href string) (sectionName string, node ir.NodeId, ok bool) {
	sectionName, anchor := splitHref(href)
	chapter, err := r.LoadChapter(sectionName)
	if err != nil {
		return "", 0, false
	}
	if anchor == "" {
		return sectionName, ir.Root, true
	}
	for i := range chapter.Nodes {
		id := ir.NodeId(i)
		if chapter.Semantics.Get(id).ID == anchor {
			return sectionName, id, true
		}
	}
	return sectionName, 0, false
}

func splitHref(href string) (section, anchor string) {
	for i := 0; i < len(href); i++ {
		if href[i] == '#' {
			return href[:i], href[i+1:]
		}
	}
	return href, ""
}
