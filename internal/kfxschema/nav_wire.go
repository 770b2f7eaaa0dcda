package kfxschema

import (
	"ebookconv/internal/ionvalue"
	"ebookconv/internal/kfxsymbols"
)

// NavTarget is where a TOC entry or landmark points: a section plus an
// optional fragment id within it (empty meaning "the section itself").
type NavTarget struct {
	Section string
	Anchor  string
}

func navTargetToIon(t NavTarget) ionvalue.Value {
	fields := []ionvalue.StructField{ionvalue.Field(kfxsymbols.Section.Text(), ionvalue.String(t.Section))}
	if t.Anchor != "" {
		fields = append(fields, ionvalue.Field(kfxsymbols.AnchorName.Text(), ionvalue.String(t.Anchor)))
	}
	return ionvalue.Struct(fields...)
}

func navTargetFromIon(v ionvalue.Value) NavTarget {
	sectionV, _ := v.Get(kfxsymbols.Section.Text())
	anchorV, _ := v.Get(kfxsymbols.AnchorName.Text())
	return NavTarget{Section: sectionV.Text, Anchor: anchorV.Text}
}

// tocEntryToIon/tocEntryFromIon encode one TOC node and its children under
// a book_navigation fragment's toc nav_container, using nav_unit ($393) as
// the recursive child-list field name.
func tocEntryToIon(e TocEntry, target NavTarget) ionvalue.Value {
	fields := []ionvalue.StructField{
		ionvalue.Field(kfxsymbols.Label.Text(), ionvalue.String(e.Title)),
		ionvalue.Field(kfxsymbols.TargetPosition.Text(), navTargetToIon(target)),
	}
	if e.HasOrder {
		fields = append(fields, ionvalue.Field("play_order", ionvalue.Int(int64(e.PlayOrder))))
	}
	if len(e.Children) > 0 {
		var childTargets []ionvalue.Value
		for _, c := range e.Children {
			childTargets = append(childTargets, tocEntryToIon(c, parseHref(c.Href)))
		}
		fields = append(fields, ionvalue.Field(kfxsymbols.NavUnit.Text(), ionvalue.List(childTargets...)))
	}
	return ionvalue.Struct(fields...)
}

func tocEntryFromIon(v ionvalue.Value) TocEntry {
	labelV, _ := v.Get(kfxsymbols.Label.Text())
	targetV, _ := v.Get(kfxsymbols.TargetPosition.Text())
	target := navTargetFromIon(targetV)
	e := TocEntry{Title: labelV.Text, Href: formatHref(target)}
	if orderV, ok := v.Get("play_order"); ok {
		e.PlayOrder = int(orderV.Int)
		e.HasOrder = true
	}
	if childrenV, ok := v.Get(kfxsymbols.NavUnit.Text()); ok {
		for _, cv := range childrenV.Items {
			e.Children = append(e.Children, tocEntryFromIon(cv))
		}
	}
	return e
}

// NavigationToIon encodes a full book_navigation fragment value from a
// reading-order spine, a TOC tree, and a flat landmarks list.
func NavigationToIon(orders []SpineOrder, toc []TocEntry, landmarks []Landmark) ionvalue.Value {
	var orderItems []ionvalue.Value
	for _, o := range orders {
		var sections []ionvalue.Value
		for _, s := range o.Sections {
			sections = append(sections, ionvalue.String(s))
		}
		orderItems = append(orderItems, ionvalue.Struct(
			ionvalue.Field(kfxsymbols.ReadingOrderName.Text(), ionvalue.String(o.Name)),
			ionvalue.Field(kfxsymbols.Sections.Text(), ionvalue.List(sections...)),
		))
	}

	var tocUnits []ionvalue.Value
	for _, e := range toc {
		tocUnits = append(tocUnits, tocEntryToIon(e, parseHref(e.Href)))
	}
	tocContainer := ionvalue.Struct(
		ionvalue.Field(kfxsymbols.NavContainerName.Text(), ionvalue.String("toc")),
		ionvalue.Field(kfxsymbols.NavUnit.Text(), ionvalue.List(tocUnits...)),
	)

	var landmarkUnits []ionvalue.Value
	for _, lm := range landmarks {
		name, _ := FromLandmarkType(lm.Type)
		unitFields := []ionvalue.StructField{
			ionvalue.Field(kfxsymbols.Label.Text(), ionvalue.String(lm.Label)),
			ionvalue.Field(kfxsymbols.TargetPosition.Text(), navTargetToIon(parseHref(lm.Href))),
		}
		if name != "" {
			unitFields = append(unitFields, ionvalue.Field(kfxsymbols.LandmarkType.Text(), ionvalue.Symbol(name)))
		}
		landmarkUnits = append(landmarkUnits, ionvalue.Struct(unitFields...))
	}
	landmarksContainer := ionvalue.Struct(
		ionvalue.Field(kfxsymbols.NavContainerName.Text(), ionvalue.String("landmarks")),
		ionvalue.Field(kfxsymbols.NavUnit.Text(), ionvalue.List(landmarkUnits...)),
	)

	return ionvalue.Struct(
		ionvalue.Field(kfxsymbols.ReadingOrders.Text(), ionvalue.List(orderItems...)),
		ionvalue.Field(kfxsymbols.NavContainers.Text(), ionvalue.List(tocContainer, landmarksContainer)),
	)
}

// SpineOrder is one named reading order: an ordered list of section names.
type SpineOrder struct {
	Name     string
	Sections []string
}

// NavigationFromIon is the inverse of NavigationToIon.
func NavigationFromIon(v ionvalue.Value) (orders []SpineOrder, toc []TocEntry, landmarks []Landmark) {
	if ordersV, ok := v.Get(kfxsymbols.ReadingOrders.Text()); ok {
		for _, ov := range ordersV.Items {
			nameV, _ := ov.Get(kfxsymbols.ReadingOrderName.Text())
			o := SpineOrder{Name: nameV.Text}
			if sectionsV, ok := ov.Get(kfxsymbols.Sections.Text()); ok {
				for _, sv := range sectionsV.Items {
					o.Sections = append(o.Sections, sv.Text)
				}
			}
			orders = append(orders, o)
		}
	}
	containersV, _ := v.Get(kfxsymbols.NavContainers.Text())
	for _, cv := range containersV.Items {
		nameV, _ := cv.Get(kfxsymbols.NavContainerName.Text())
		unitsV, _ := cv.Get(kfxsymbols.NavUnit.Text())
		switch nameV.Text {
		case "toc":
			for _, uv := range unitsV.Items {
				toc = append(toc, tocEntryFromIon(uv))
			}
		case "landmarks":
			for _, uv := range unitsV.Items {
				labelV, _ := uv.Get(kfxsymbols.Label.Text())
				targetV, _ := uv.Get(kfxsymbols.TargetPosition.Text())
				lm := Landmark{Label: labelV.Text, Href: formatHref(navTargetFromIon(targetV))}
				if ltV, ok := uv.Get(kfxsymbols.LandmarkType.Text()); ok {
					if lt, ok := ToLandmarkType(ltV.Text); ok {
						lm.Type = lt
					} else {
						continue
					}
				}
				landmarks = append(landmarks, lm)
			}
		}
	}
	return orders, toc, landmarks
}

// parseHref/formatHref convert between the "section#anchor" href strings
// TocEntry/Landmark expose and the structured NavTarget the wire format
// stores, so the public API matches the href shape the rest of the module
// (internal/links, internal/htmlsynth) already speaks.
func parseHref(href string) NavTarget {
	for i := 0; i < len(href); i++ {
		if href[i] == '#' {
			return NavTarget{Section: href[:i], Anchor: href[i+1:]}
		}
	}
	return NavTarget{Section: href}
}

func formatHref(t NavTarget) string {
	if t.Anchor == "" {
		return t.Section
	}
	return t.Section + "#" + t.Anchor
}
