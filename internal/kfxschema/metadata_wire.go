package kfxschema

import (
	"ebookconv/internal/ionvalue"
	"ebookconv/internal/kfxsymbols"
)

// MetadataToIon encodes m as a book_metadata fragment value: the flat,
// category-tagged entries Entries(m) derives, plus the two structured
// fields (contributors, collection) Entries doesn't cover since they
// aren't flat key/value pairs.
func MetadataToIon(m BookMetadata) ionvalue.Value {
	var entryFields []ionvalue.Value
	for cat, kvs := range Entries(m) {
		for _, kv := range kvs {
			entryFields = append(entryFields, ionvalue.Struct(
				ionvalue.Field(kfxsymbols.Category.Text(), ionvalue.Symbol(cat.String())),
				ionvalue.Field(kfxsymbols.Key.Text(), ionvalue.String(kv[0])),
				ionvalue.Field("value", ionvalue.String(kv[1])),
			))
		}
	}
	fields := []ionvalue.StructField{
		ionvalue.Field(kfxsymbols.CategorisedMeta.Text(), ionvalue.List(entryFields...)),
	}
	if len(m.Contributors) > 0 {
		var cs []ionvalue.Value
		for _, c := range m.Contributors {
			cs = append(cs, ionvalue.Struct(
				ionvalue.Field("name", ionvalue.String(c.Name)),
				ionvalue.Field("file_as", ionvalue.String(c.FileAs)),
				ionvalue.Field("role", ionvalue.String(c.Role)),
			))
		}
		fields = append(fields, ionvalue.Field("contributors", ionvalue.List(cs...)))
	}
	if m.Collection != nil {
		fields = append(fields, ionvalue.Field("collection", ionvalue.Struct(
			ionvalue.Field("name", ionvalue.String(m.Collection.Name)),
			ionvalue.Field("type", ionvalue.String(m.Collection.Type)),
			ionvalue.Field("position", ionvalue.Value{Kind: ionvalue.KindFloat, Float: m.Collection.Position}),
		)))
	}
	return ionvalue.Struct(fields...)
}

// MetadataFromIon decodes a book_metadata fragment value back into a
// BookMetadata. Unknown keys are ignored; known keys win regardless of
// which category they were filed under, since the schema table is the
// authority on category, not the wire data.
func MetadataFromIon(v ionvalue.Value) BookMetadata {
	var m BookMetadata
	entriesV, _ := v.Get(kfxsymbols.CategorisedMeta.Text())
	authors := map[string]bool{}
	for _, e := range entriesV.Items {
		keyV, _ := e.Get(kfxsymbols.Key.Text())
		valueV, _ := e.Get("value")
		key, value := keyV.Text, valueV.Text
		switch key {
		case "title":
			m.Title = value
		case "title_sort":
			m.TitleSort = value
		case "author":
			if !authors[value] {
				m.Authors = append(m.Authors, value)
				authors[value] = true
			}
		case "author_sort":
			m.AuthorSort = value
		case "publisher":
			m.Publisher = value
		case "language":
			m.Language = value
		case "description":
			m.Description = value
		case "book_id":
			m.Identifier = value
		case "issue_date":
			m.Date = value
		case "updated_date":
			m.ModifiedDate = value
		case "cover_image":
			m.CoverImage = value
		}
	}
	if contribV, ok := v.Get("contributors"); ok {
		for _, cv := range contribV.Items {
			nameV, _ := cv.Get("name")
			fileAsV, _ := cv.Get("file_as")
			roleV, _ := cv.Get("role")
			m.Contributors = append(m.Contributors, Contributor{Name: nameV.Text, FileAs: fileAsV.Text, Role: roleV.Text})
		}
	}
	if collV, ok := v.Get("collection"); ok && collV.Kind == ionvalue.KindStruct {
		nameV, _ := collV.Get("name")
		typeV, _ := collV.Get("type")
		posV, _ := collV.Get("position")
		m.Collection = &Collection{Name: nameV.Text, Type: typeV.Text, Position: posV.Float}
	}
	return m
}
