package ionvalue

import (
	"bytes"

	"github.com/amazon-ion/ion-go/ion"

	"ebookconv/internal/kfxerr"
)

var bvm = []byte{0xE0, 0x01, 0x00, 0xEA}

// Prolog is a binary Ion datagram (BVM + local symbol table) that a KFX
// container stores once as its "document symbols" entity, and that every
// other fragment payload is encoded against without repeating the table.
//
// Grounded on the teacher's convert/kfx/ionutil.Prolog; generalized to
// accept any set of shared-table imports, not just YJ_symbols, so the
// same helper serves both reading and writing.
type Prolog struct {
	// Bytes is the BVM+LST prefix, stripped from MarshalBinaryLST output
	// to recover each fragment's bare BVM+value payload.
	Bytes []byte
	// DocSymbols is the BVM+annotated-struct blob a container stores as
	// its document-symbols entity.
	DocSymbols []byte
	LST        ion.SymbolTable
	Catalog    ion.Catalog
}

// NewProlog builds a Prolog importing the given shared tables (in import
// order) and pre-declaring localSymbols in the local symbol table.
func NewProlog(localSymbols []string, imports ...ion.SharedSymbolTable) (*Prolog, error) {
	lstb := ion.NewSymbolTableBuilder(imports...)
	for _, s := range localSymbols {
		_, _ = lstb.Add(s)
	}
	lst := lstb.Build()

	b, err := ion.MarshalBinaryLST(nil, lst)
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "build prolog", err)
	}
	b, err = stripTrailer(b)
	if err != nil {
		return nil, err
	}

	type importEntry struct {
		Name  string `ion:"name"`
		Ver   int64  `ion:"version"`
		MaxID int64  `ion:"max_id"`
	}
	entries := make([]importEntry, len(imports))
	for i, imp := range imports {
		entries[i] = importEntry{Name: imp.Name(), Ver: int64(imp.Version()), MaxID: int64(imp.MaxID())}
	}
	type symtab struct {
		Imports []importEntry `ion:"imports"`
		Symbols []string      `ion:"symbols"`
	}
	ds := symtab{Imports: entries, Symbols: localSymbols}

	p := &Prolog{Bytes: b, LST: lst, Catalog: ion.NewCatalog(imports...)}
	doc, err := p.MarshalAnnotatedPayload(ds, "$ion_symbol_table")
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "build document symbols", err)
	}
	p.DocSymbols = doc
	return p, nil
}

func stripTrailer(b []byte) ([]byte, error) {
	if len(b) == 0 || b[len(b)-1] != 0x0F {
		return nil, kfxerr.New(kfxerr.InvalidData, "unexpected ion datagram trailer")
	}
	return b[:len(b)-1], nil
}

// MarshalPayload encodes v as a KFX fragment payload: a bare BVM followed
// by v's bytes, reusing the prolog's local symbol table without repeating
// it (KFX stores the LST exactly once per container).
func (p *Prolog) MarshalPayload(v any) ([]byte, error) {
	full, err := ion.MarshalBinaryLST(v, p.LST)
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "marshal payload", err)
	}
	return p.rePrefix(full)
}

// MarshalValue is MarshalPayload for a Value tree instead of a tagged Go struct.
func (p *Prolog) MarshalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	w := ion.NewBinaryWriterLST(&buf, p.LST)
	if err := Encode(w, v); err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "marshal value", err)
	}
	if err := w.Finish(); err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "marshal value", err)
	}
	return p.rePrefix(buf.Bytes())
}

// MarshalAnnotatedPayload is MarshalPayload with top-level annotations.
func (p *Prolog) MarshalAnnotatedPayload(v any, annotations ...string) ([]byte, error) {
	buf := bytes.Buffer{}
	w := ion.NewBinaryWriterLST(&buf, p.LST)
	toks := make([]ion.SymbolToken, len(annotations))
	for i, a := range annotations {
		toks[i] = ion.NewSymbolTokenFromString(a)
	}
	if err := w.Annotations(toks...); err != nil {
		return nil, err
	}
	if err := ion.MarshalTo(w, v); err != nil {
		return nil, err
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}
	return p.rePrefix(buf.Bytes())
}

func (p *Prolog) rePrefix(full []byte) ([]byte, error) {
	if len(full) < len(p.Bytes) {
		return nil, kfxerr.New(kfxerr.InvalidData, "encoded datagram shorter than prolog")
	}
	val := full[len(p.Bytes):]
	out := make([]byte, 0, len(bvm)+len(val))
	out = append(out, bvm...)
	out = append(out, val...)
	return out, nil
}

// WithProlog re-prefixes a bare BVM+value fragment payload with the
// prolog's full BVM+LST bytes, so ion-go's reader (which expects a
// complete datagram) can decode it against the shared table.
func WithProlog(prolog []byte, payload []byte) ([]byte, error) {
	if len(payload) < len(bvm) || !bytes.Equal(payload[:len(bvm)], bvm) {
		return nil, kfxerr.New(kfxerr.InvalidMagic, "fragment payload missing Ion BVM")
	}
	out := make([]byte, 0, len(prolog)+len(payload)-len(bvm))
	out = append(out, prolog...)
	out = append(out, payload[len(bvm):]...)
	return out, nil
}

// UnmarshalPayload decodes a bare BVM+value fragment payload (as stored
// in a KFX entity) into a Value tree, using prolog's symbol table.
func UnmarshalPayload(prolog []byte, payload []byte) (Value, error) {
	full, err := WithProlog(prolog, payload)
	if err != nil {
		return Value{}, err
	}
	r := ion.NewReaderBytes(full)
	v, err := Decode(r)
	if err != nil {
		return Value{}, kfxerr.Wrap(kfxerr.InvalidData, "decode fragment payload", err)
	}
	return v, nil
}

// FindBVMOffsets returns the byte offsets of every Ion BVM occurrence in
// b, used to split a KFX header area into its separate Ion datagrams
// (document symbols, format capabilities, ...).
func FindBVMOffsets(b []byte) []int {
	var out []int
	for i := 0; ; {
		j := bytes.Index(b[i:], bvm)
		if j < 0 {
			break
		}
		pos := i + j
		out = append(out, pos)
		i = pos + 1
	}
	return out
}
