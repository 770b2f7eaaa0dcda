// Package kfxcontainer implements the KFX "CONT" binary container layout
// (spec §3.2): a fixed header, an entity index table, a container_info
// struct, a document symbol table fragment, and ENTY-prefixed entity
// payloads. It is the mirror-image read/write codec the rest of the
// module's KFX book reader and exporter sit on top of.
//
// Grounded on the teacher's convert/kfx/container package (container.go's
// Pack, unpack.go's Unpack), unified here into one struct layout both
// directions agree on — the teacher's own Pack and Unpack used slightly
// different header field names for the same bytes, a mismatch this
// package does not carry forward.
package kfxcontainer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/amazon-ion/ion-go/ion"

	"ebookconv/internal/ionvalue"
	"ebookconv/internal/kfxerr"
	"ebookconv/internal/kfxsymbols"
)

const (
	signatureCONT = "CONT"
	signatureENTY = "ENTY"

	containerVersion = 2
	entityVersion    = 1

	entityRowSize = 24
)

// header is the fixed 18-byte prefix of every KFX container (spec §3.2).
// binary.Write/Read walk struct fields in declaration order with no
// padding, so field order here must match the wire layout exactly.
type header struct {
	Signature           [4]byte
	Version             uint16
	HeaderLength        uint32
	ContainerInfoOffset uint32
	ContainerInfoLength uint32
}

type entityHeader struct {
	Signature    [4]byte
	Version      uint16
	HeaderLength uint32
}

// EntityRef is one row of the entity index table.
type EntityRef struct {
	IDSymbol   uint32
	TypeSymbol uint32
	Offset     uint64
	Length     uint64
}

// Fragment is one decoded KFX entity: its identifying symbol text (FID),
// its type symbol text (FType, usually a well-known "$NNN" shared
// symbol), and its value. Raw media fragments ($417 RawMedia, $418
// RawFont) carry their bytes in RawPayload instead of Value.
type Fragment struct {
	FID        string
	FType      string
	Value      ionvalue.Value
	RawPayload []byte // set instead of Value for $417/$418
}

// Container is an opened, fully indexed KFX file.
type Container struct {
	ContainerID        string
	ContainerInfo      ionvalue.Value
	FormatCapabilities ionvalue.Value
	DocumentSymbols    []byte
	Prolog             *ionvalue.Prolog
	LST                ion.SymbolTable
	Fragments          []Fragment
}

// symbolText resolves a numeric symbol that appears in the entity index
// table (already shifted to exclude the Ion system table) to the text a
// local symbol table would print for it: the shared "$N" literal for
// well-known KFX symbols, or a genuine local symbol name for book-specific
// extensions.
func symbolText(lst ion.SymbolTable, raw uint32) string {
	sid := uint64(raw) + uint64(kfxsymbols.IonSystemMaxID)
	if lst != nil {
		if s, ok := lst.FindByID(sid); ok {
			return s
		}
	}
	return kfxsymbols.Symbol(raw + kfxsymbols.IonSystemMaxID).Text()
}

// Open parses a single-file KFX container.
func Open(data []byte) (*Container, error) {
	const fixedLen = 18 // 4+2+4+4+4, see header
	if len(data) < fixedLen {
		return nil, kfxerr.At(kfxerr.Truncated, int64(len(data)), "container shorter than fixed header")
	}

	var h header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, kfxerr.AtWrap(kfxerr.Truncated, 0, "read container header", err)
	}
	if string(h.Signature[:]) != signatureCONT {
		return nil, kfxerr.At(kfxerr.InvalidMagic, 0, fmt.Sprintf("expected CONT, got %q", h.Signature[:]))
	}
	if h.Version != containerVersion {
		return nil, kfxerr.At(kfxerr.UnsupportedVersion, 0, fmt.Sprintf("container version %d", h.Version))
	}
	if int(h.HeaderLength) > len(data) {
		return nil, kfxerr.At(kfxerr.InvalidData, 0, "header_length exceeds file size")
	}
	headerArea := data[:h.HeaderLength]

	ciStart := int(h.ContainerInfoOffset)
	ciEnd := ciStart + int(h.ContainerInfoLength)
	if ciStart < 0 || ciEnd > len(data) || ciStart > ciEnd {
		return nil, kfxerr.At(kfxerr.InvalidData, int64(ciStart), "container_info out of range")
	}

	// Entity index table occupies [fixedLen, ciStart).
	if ciStart < fixedLen {
		return nil, kfxerr.At(kfxerr.InvalidData, int64(ciStart), "container_info precedes entity index table")
	}
	tableLen := ciStart - fixedLen
	if tableLen%entityRowSize != 0 {
		return nil, kfxerr.At(kfxerr.InvalidData, int64(fixedLen), fmt.Sprintf("entity index table length %d not a multiple of %d", tableLen, entityRowSize))
	}
	refs := make([]EntityRef, 0, tableLen/entityRowSize)
	for off := fixedLen; off < ciStart; off += entityRowSize {
		b := data[off : off+entityRowSize]
		refs = append(refs, EntityRef{
			IDSymbol:   binary.LittleEndian.Uint32(b[0:4]),
			TypeSymbol: binary.LittleEndian.Uint32(b[4:8]),
			Offset:     binary.LittleEndian.Uint64(b[8:16]),
			Length:     binary.LittleEndian.Uint64(b[16:24]),
		})
	}

	// After container_info: document symbols, then format_capabilities,
	// both BVM-prefixed Ion datagrams, located by scanning for BVMs
	// beyond ciEnd within the header area.
	bvmOffsets := ionvalue.FindBVMOffsets(headerArea[ciEnd:])
	if len(bvmOffsets) < 2 {
		return nil, kfxerr.At(kfxerr.InvalidData, int64(ciEnd), "cannot locate document symbols and format capabilities")
	}
	for i := range bvmOffsets {
		bvmOffsets[i] += ciEnd
	}
	docSymbolsOffset := bvmOffsets[0]
	formatCapsOffset := bvmOffsets[1]
	formatCapsEnd := int(h.HeaderLength)
	if len(bvmOffsets) > 2 {
		formatCapsEnd = bvmOffsets[2]
	}
	docSymbolsBytes := headerArea[docSymbolsOffset:formatCapsOffset]
	formatCapsBytes := headerArea[formatCapsOffset:formatCapsEnd]

	prolog, lst, err := buildProlog(docSymbolsBytes)
	if err != nil {
		return nil, err
	}

	ciBytes := data[ciStart:ciEnd]
	containerInfo, err := ionvalue.UnmarshalPayload(prolog.Bytes, ciBytes)
	if err != nil {
		return nil, kfxerr.AtWrap(kfxerr.InvalidData, int64(ciStart), "decode container_info", err)
	}
	containerID, _ := containerInfo.Get(kfxsymbols.ContainerID.Text())
	containerIDStr := ""
	if containerID.Kind == ionvalue.KindString {
		containerIDStr = containerID.Text
	}
	if drm, ok := containerInfo.Get(kfxsymbols.DRMScheme.Text()); ok && drm.Kind == ionvalue.KindInt && drm.Int != 0 {
		return nil, kfxerr.New(kfxerr.UnsupportedFeature, fmt.Sprintf("DRM-protected container (scheme %d)", drm.Int))
	}

	var formatCaps ionvalue.Value
	if fc, err := ionvalue.UnmarshalPayload(prolog.Bytes, formatCapsBytes); err == nil {
		formatCaps = fc
	}

	entityDataOffset := int(h.HeaderLength)
	fragments := make([]Fragment, 0, len(refs))
	for _, r := range refs {
		fidText := symbolText(lst, r.IDSymbol)
		ftypeText := symbolText(lst, r.TypeSymbol)

		start := entityDataOffset + int(r.Offset)
		end := start + int(r.Length)
		if start < entityDataOffset || end > len(data) || start > end {
			return nil, kfxerr.At(kfxerr.InvalidData, int64(start), fmt.Sprintf("entity %s/%s out of range", fidText, ftypeText))
		}
		raw := data[start:end]

		const fixedEntityLen = 10 // 4+2+4
		if len(raw) < fixedEntityLen {
			return nil, kfxerr.At(kfxerr.Truncated, int64(start), fmt.Sprintf("entity %s/%s shorter than entity header", fidText, ftypeText))
		}
		var eh entityHeader
		if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &eh); err != nil {
			return nil, kfxerr.AtWrap(kfxerr.Truncated, int64(start), "read entity header", err)
		}
		if string(eh.Signature[:]) != signatureENTY {
			return nil, kfxerr.At(kfxerr.InvalidMagic, int64(start), fmt.Sprintf("expected ENTY, got %q", eh.Signature[:]))
		}
		if eh.Version != entityVersion {
			return nil, kfxerr.At(kfxerr.UnsupportedVersion, int64(start), fmt.Sprintf("entity version %d", eh.Version))
		}
		if int(eh.HeaderLength) > len(raw) {
			return nil, kfxerr.At(kfxerr.InvalidData, int64(start), "entity header_length out of range")
		}
		payload := raw[eh.HeaderLength:]

		frag := Fragment{FID: fidText, FType: ftypeText}
		if ftypeText == kfxsymbols.RawMedia.Text() || ftypeText == kfxsymbols.RawFont.Text() {
			frag.RawPayload = payload // raw media/font bytes carry no Ion BVM at all
		} else {
			v, err := ionvalue.UnmarshalPayload(prolog.Bytes, payload)
			if err != nil {
				return nil, kfxerr.AtWrap(kfxerr.InvalidData, int64(start), fmt.Sprintf("decode fragment %s/%s", fidText, ftypeText), err)
			}
			frag.Value = v
		}
		fragments = append(fragments, frag)
	}

	return &Container{
		ContainerID:        containerIDStr,
		ContainerInfo:      containerInfo,
		FormatCapabilities: formatCaps,
		DocumentSymbols:    docSymbolsBytes,
		Prolog:             prolog,
		LST:                lst,
		Fragments:          fragments,
	}, nil
}

// buildProlog rebuilds the Ion decode/encode context from a container's
// document-symbols entity: the YJ_symbols shared-table import (clamped to
// the known ~842-entry table size, since some producers count the 9 Ion
// system symbols into the import's max_id and some don't) plus whatever
// local symbols the book itself declared.
func buildProlog(docSymbols []byte) (*ionvalue.Prolog, ion.SymbolTable, error) {
	r := ion.NewReaderBytes(docSymbols)
	for r.Next() {
	}
	if err := r.Err(); err != nil {
		return nil, nil, kfxerr.Wrap(kfxerr.InvalidData, "decode document symbols", err)
	}
	st := r.SymbolTable()
	if st == nil {
		return nil, nil, kfxerr.New(kfxerr.InvalidData, "document symbols missing a symbol table")
	}

	var yjImportMax uint64
	for _, imp := range st.Imports() {
		if imp != nil && imp.Name() == kfxsymbols.Name {
			yjImportMax = imp.MaxID()
			break
		}
	}
	if yjImportMax == 0 {
		return nil, nil, kfxerr.New(kfxerr.InvalidData, "document symbols missing YJ_symbols import")
	}
	yjCount := normalizeYJCount(yjImportMax)

	shared := sharedYJSymbols(yjCount)
	prolog, err := ionvalue.NewProlog(st.Symbols(), shared)
	if err != nil {
		return nil, nil, err
	}
	return prolog, prolog.LST, nil
}

// sharedYJSymbols builds the shared-table import so that its Nth entry's
// text is "$<base+N>" — i.e. a local symbol table importing it resolves
// global SID (base+N) to text "$<base+N>", matching kfxsymbols' global
// numbering directly (see kfxsymbols package doc).
func sharedYJSymbols(maxKnown int) ion.SharedSymbolTable {
	base := kfxsymbols.IonSystemMaxID
	syms := make([]string, 0, maxKnown)
	for i := base + 1; i <= base+maxKnown; i++ {
		syms = append(syms, fmt.Sprintf("$%d", i))
	}
	return ion.NewSharedSymbolTable(kfxsymbols.Name, kfxsymbols.Version, syms)
}

func normalizeYJCount(importMax uint64) int {
	const known = int(kfxsymbols.MaxKnown) - kfxsymbols.IonSystemMaxID // 842
	if int(importMax) <= known {
		return int(importMax)
	}
	if int(importMax)-kfxsymbols.IonSystemMaxID == known {
		return known
	}
	return known
}

// NewProlog builds the write-side counterpart of buildProlog: a prolog
// for a freshly produced container, importing the full known shared
// table (a producer never has a reason to import a truncated table the
// way normalizeYJCount tolerates on read) plus the caller's local
// symbols.
func NewProlog(localSymbols []string) (*ionvalue.Prolog, error) {
	known := int(kfxsymbols.MaxKnown) - kfxsymbols.IonSystemMaxID
	return ionvalue.NewProlog(localSymbols, sharedYJSymbols(known))
}

// PackInput are the pre-built pieces Pack assembles into a container.
type PackInput struct {
	ContainerInfo      ionvalue.Value
	FormatCapabilities ionvalue.Value
	Prolog             *ionvalue.Prolog
	Fragments          []Fragment
}

// Pack serializes fragments into a single-file KFX container, committing
// nothing until the full byte layout has been computed (spec §7: exporter
// failures never produce partial output).
func Pack(in PackInput) ([]byte, error) {
	if in.Prolog == nil {
		return nil, kfxerr.New(kfxerr.InvalidData, "pack: missing prolog")
	}
	if len(in.Prolog.DocSymbols) == 0 {
		return nil, kfxerr.New(kfxerr.InvalidData, "pack: missing document symbols")
	}

	containerInfoBytes, err := in.Prolog.MarshalValue(in.ContainerInfo)
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "pack: marshal container_info", err)
	}
	formatCapsBytes, err := in.Prolog.MarshalValue(in.FormatCapabilities)
	if err != nil {
		return nil, kfxerr.Wrap(kfxerr.InvalidData, "pack: marshal format_capabilities", err)
	}

	type packedEntity struct {
		idNum, typeNum uint32
		data           []byte
	}
	packed := make([]packedEntity, 0, len(in.Fragments))
	for _, fr := range in.Fragments {
		var payload []byte
		if fr.RawPayload != nil {
			payload = fr.RawPayload
		} else {
			var err error
			payload, err = in.Prolog.MarshalValue(fr.Value.Annotated(fr.FID, fr.FType))
			if err != nil {
				return nil, kfxerr.AtWrap(kfxerr.InvalidData, 0, fmt.Sprintf("pack: marshal fragment %s/%s", fr.FID, fr.FType), err)
			}
		}

		id, ok := in.Prolog.LST.FindByName(fr.FID)
		if !ok {
			return nil, kfxerr.New(kfxerr.SymbolNotFound, fmt.Sprintf("pack: fid %q not in local symbol table", fr.FID))
		}
		typ, ok := in.Prolog.LST.FindByName(fr.FType)
		if !ok {
			return nil, kfxerr.New(kfxerr.SymbolNotFound, fmt.Sprintf("pack: ftype %q not in local symbol table", fr.FType))
		}
		packed = append(packed, packedEntity{
			idNum:   uint32(id - uint64(kfxsymbols.IonSystemMaxID)),
			typeNum: uint32(typ - uint64(kfxsymbols.IonSystemMaxID)),
			data:    payload,
		})
	}

	sort.SliceStable(packed, func(i, j int) bool {
		if packed[i].typeNum != packed[j].typeNum {
			return packed[i].typeNum < packed[j].typeNum
		}
		return packed[i].idNum < packed[j].idNum
	})

	var entities bytes.Buffer
	refs := make([]EntityRef, 0, len(packed))
	for _, e := range packed {
		start := uint64(entities.Len())
		eh := entityHeader{Version: entityVersion}
		copy(eh.Signature[:], signatureENTY)
		eh.HeaderLength = uint32(binary.Size(eh))
		if err := binary.Write(&entities, binary.LittleEndian, &eh); err != nil {
			return nil, err
		}
		entities.Write(e.data)
		refs = append(refs, EntityRef{
			IDSymbol:   e.idNum,
			TypeSymbol: e.typeNum,
			Offset:     start,
			Length:     uint64(eh.HeaderLength) + uint64(len(e.data)),
		})
	}

	var indexTable bytes.Buffer
	for _, r := range refs {
		var row [entityRowSize]byte
		binary.LittleEndian.PutUint32(row[0:4], r.IDSymbol)
		binary.LittleEndian.PutUint32(row[4:8], r.TypeSymbol)
		binary.LittleEndian.PutUint64(row[8:16], r.Offset)
		binary.LittleEndian.PutUint64(row[16:24], r.Length)
		indexTable.Write(row[:])
	}

	const fixedLen = 18
	h := header{
		Version:             containerVersion,
		ContainerInfoOffset: uint32(fixedLen + indexTable.Len()),
		ContainerInfoLength: uint32(len(containerInfoBytes)),
	}
	copy(h.Signature[:], signatureCONT)
	h.HeaderLength = h.ContainerInfoOffset + h.ContainerInfoLength + uint32(len(in.Prolog.DocSymbols)) + uint32(len(formatCapsBytes))

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	out.Write(indexTable.Bytes())
	out.Write(containerInfoBytes)
	out.Write(in.Prolog.DocSymbols)
	out.Write(formatCapsBytes)
	out.Write(entities.Bytes())

	return out.Bytes(), nil
}
