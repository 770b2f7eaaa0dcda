// Package kfxsymbols ships the static shared symbol catalog every KFX
// container imports ("YJ_symbols"), plus helpers to translate between a
// Symbol value and the catalog text it denotes (spec §3.1, §6.5).
//
// Shared-table indexing note (spec §9): the KFX shared table is imported
// immediately after Ion's own system symbol table. A Symbol value here is
// its *global* SID exactly as Kindle tooling prints it (symbol 10 is
// always printed "$10" and is always "language", regardless of which Ion
// library's system-table size is in play). Ion-go's system table occupies
// SIDs 1-9 (MaxID 9), so the 842 YJ_symbols entries occupy global SIDs
// 10-851 and the YJ_symbols import declaration records max_id 842
// (MaxKnown - IonSystemMaxID). internal/kfxcontainer does that offset
// arithmetic, both where it builds the import declaration and where it
// converts between global SIDs and its entity-table numbers.
package kfxsymbols

import (
	"fmt"
	"strconv"
	"strings"
)

// Name is the shared symbol table's registered name, carried in every
// KFX container's $ion_symbol_table import declaration.
const Name = "YJ_symbols"

// Version is the shared symbol table version KFX books import.
const Version = 10

// IonSystemMaxID is Ion's system symbol table MaxID (github.com/amazon-ion/ion-go's
// V1SystemSymbolTable.MaxID()); the YJ_symbols entries start right after it,
// so their import declaration's max_id is MaxKnown minus this value.
const IonSystemMaxID = 9

// Symbol is a YJ_symbols global SID, numbered the way Kindle tooling
// prints it ("$10" is the first shared symbol, "language").
type Symbol int

// MaxKnown is the highest entry in the static catalog below.
const MaxKnown Symbol = 851

// names is the complete YJ_symbols shared symbol table as exposed by
// Kindle Previewer / KFXInput tooling.
var names = map[Symbol]string{
	10: "language", 11: "font_family", 12: "font_style", 13: "font_weight", 14: "font_variant",
	15: "font_stretch", 16: "font_size", 17: "font_scale", 18: "ot_features", 19: "text_color",
	20: "text_opacity", 21: "text_background_color", 22: "text_background_opacity",
	23: "underline", 24: "underline_color", 25: "underline_opacity", 26: "underline_weight",
	27: "strikethrough", 28: "strikethrough_color", 29: "strikethrough_opacity",
	30: "strikethrough_weight", 31: "baseline_shift", 32: "letterspacing", 33: "wordspacing",
	34: "text_alignment", 35: "text_alignment_last", 36: "text_indent", 37: "left_indent",
	38: "right_indent", 39: "space_before", 40: "space_after", 41: "text_transform",
	42: "line_height", 43: "line_height_fit", 44: "baseline_style", 45: "nobreak", 46: "margin",
	47: "margin_top", 48: "margin_left", 49: "margin_bottom", 50: "margin_right", 51: "padding",
	52: "padding_top", 53: "padding_left", 54: "padding_bottom", 55: "padding_right", 56: "width",
	57: "height", 58: "top", 59: "left", 60: "bottom", 61: "right", 62: "min_height",
	63: "min_width", 64: "max_height", 65: "max_width", 66: "fixed_width", 67: "fixed_height",
	68: "visibility", 69: "ignore", 70: "fill_color", 71: "fill_gradient", 72: "fill_opacity",
	73: "fill_bounds", 74: "fill_rule", 75: "stroke_color", 76: "stroke_width",
	77: "stroke_linecap", 78: "border_opacity", 79: "border_opacity_top",
	80: "border_opacity_left", 81: "border_opacity_bottom", 82: "border_opacity_right",
	83: "border_color", 84: "border_color_top", 85: "border_color_left", 86: "border_color_bottom",
	87: "border_color_right", 88: "border_style", 89: "border_style_top", 90: "border_style_left",
	91: "border_style_bottom", 92: "border_style_right", 93: "border_weight",
	94: "border_weight_top", 95: "border_weight_left", 96: "border_weight_bottom",
	97: "border_weight_right", 98: "transform", 99: "draw_spanning_borders",

	100: "list_style", 101: "list_indent_style", 102: "list_indent", 103: "list_replacer",
	104: "list_start_offset", 105: "outline_color", 106: "outline_offset", 107: "outline_style",
	108: "outline_weight", 109: "gradient_type", 110: "gradient_stops", 111: "gradient_stop",
	112: "column_count", 113: "column_gap", 114: "column_min_width", 115: "column_rule_style",
	116: "column_rule_color", 117: "column_rule_weight", 118: "column_span", 119: "column_balance",
	120: "footnote_line_style", 121: "footnote_line_color", 122: "footnote_line_weight",
	123: "footnote_line_length", 124: "footnote_spacing", 125: "dropcap_lines",
	126: "dropcap_chars", 127: "hyphens", 128: "min_hyphen_word_length", 129: "min_chars_per_line",
	130: "keep_together", 131: "first", 132: "last", 133: "break_after", 134: "break_before",
	135: "break_inside", 136: "max_auto_grow", 137: "min_auto_shrink", 138: "scale_with_image",
	139: "wrap_rule", 140: "float", 141: "page_templates", 142: "style_events", 143: "offset",
	144: "length", 145: "content", 146: "content_list", 147: "knockout_region",
	148: "table_column_span", 149: "table_row_span", 150: "table_border_collapse", 151: "header",
	152: "column_format", 153: "title", 154: "description", 155: "id",

	156: "layout", 157: "style", 158: "parent_style", 159: "type", 160: "embed", 161: "format",
	162: "mime", 163: "target", 164: "external_resource", 165: "location", 166: "search_path",
	167: "referred_resources", 168: "manifest", 169: "reading_orders", 170: "sections",
	171: "condition", 172: "conditional_styling", 173: "style_name", 174: "section_name",
	175: "resource_name", 176: "story_name", 177: "gradient_name", 178: "reading_order_name",
	179: "link_to", 180: "anchor_name", 181: "contains", 182: "locations", 183: "position",
	184: "pid", 185: "eid", 186: "uri", 187: "link_confirm", 188: "link_use_external_app",
	189: "up_image", 190: "down_image", 191: "paragraph_mark", 192: "direction",
	193: "PRIVATE_parent_image_scale", 194: "PRIVATE_view_width", 195: "PRIVATE_view_height",
	196: "PRIVATE_is_storyline_content", 197: "PRIVATE_paper_color", 198: "PRIVATE_ink_color",
	199: "section_title", 200: "section_kicker",

	201: "section_description", 202: "section_author", 203: "section_tags",
	204: "section_date_created", 205: "is_advertisement", 206: "smooth_scrolling",
	207: "hide_from_toc", 208: "section_layout", 209: "has_audio", 210: "has_video",
	211: "has_slideshow", 212: "toc", 213: "scrubbers", 214: "thumbnails", 215: "orientation",
	216: "binding_direction", 217: "support_portrait", 218: "support_landscape", 219: "issue_date",
	220: "binding_direction_left", 221: "binding_direction_right", 222: "author", 223: "ISBN",
	224: "ASIN", 225: "is_TTS_enabled", 226: "date_created", 227: "ISBN-10", 228: "ISBN-13",
	229: "MHID", 230: "target_WideDimension", 231: "target_NarrowDimension", 232: "publisher",
	233: "cover_page", 234: "illustrator", 235: "nav_type", 236: "landmarks", 237: "page_list",
	238: "landmark_type", 239: "nav_container_name", 240: "nav_unit_name", 241: "representation",
	242: "designation", 243: "enumeration", 244: "label", 245: "icon", 246: "target_position",
	247: "entries", 248: "entry_set", 249: "path", 250: "shape_list", 251: "cde_content_type",
	252: "container_list", 253: "entity_dependencies", 254: "mandatory_dependencies",
	255: "optional_dependencies", 256: "AmazonDigitalBook", 257: "inherit", 258: "metadata",
	259: "storyline", 260: "section", 261: "style_group", 262: "font", 263: "gradient",
	264: "position_map", 265: "position_id_map", 266: "anchor", 267: "section_metadata",
	268: "hyphen_dictionary",

	269: "text", 270: "container", 271: "image", 272: "kvg", 273: "shape", 274: "plugin",
	275: "knockout", 276: "list", 277: "listitem", 278: "table", 279: "table_row", 280: "sidebar",
	281: "footnote", 282: "figure", 283: "inline", 284: "png", 285: "jpg", 286: "gif",
	287: "pobject", 288: "localPage", 289: "hasContent", 290: "paragraphMark", 291: "or",
	292: "and", 293: "not", 294: "==", 295: "!=", 296: ">", 297: ">=", 298: "<", 299: "<=",
	300: "hasColor", 301: "hasVideo", 302: "screenPixelWidth", 303: "screenPixelHeight",
	304: "screenActualWidth", 305: "screenActualHeight",

	306: "unit", 307: "value", 308: "em", 309: "ex", 310: "lh", 311: "vw", 312: "vh",
	313: "vmin", 314: "percent", 315: "cm", 316: "mm", 317: "in", 318: "pt", 319: "px",
	320: "center", 321: "justify", 322: "horizontal", 323: "vertical", 324: "fixed",
	325: "overflow", 326: "scale_fit", 327: "radial", 328: "solid", 329: "double", 330: "dashed",
	331: "dotted", 332: "thick_thin", 333: "thin_thick", 334: "groove", 335: "ridge", 336: "inset",
	337: "outset", 338: "non_zero", 339: "even_odd", 340: "disc", 341: "square", 342: "circle",
	343: "numeric", 344: "roman_lower", 345: "roman_upper", 346: "alpha_lower", 347: "alpha_upper",

	348: "null", 349: "none", 350: "normal", 351: "default", 352: "always", 353: "avoid",
	354: "column", 355: "thin", 356: "ultra_light", 357: "light", 358: "book", 359: "medium",
	360: "semi_bold", 361: "bold", 362: "ultra_bold", 363: "heavy", 364: "ultra_heavy",
	365: "condensed", 366: "semi_condensed", 367: "semi_expanded", 368: "expanded",
	369: "small_caps", 370: "superscript", 371: "subscript", 372: "uppercase", 373: "lowercase",
	374: "titlecase", 375: "rtl", 376: "ltr", 377: "content_bounds", 378: "border_bounds",
	379: "padding_bounds", 380: "margin_bounds", 381: "oblique", 382: "italic", 383: "auto",
	384: "manual", 385: "portrait", 386: "landscape", 387: "preview_images",
	388: "overlay_resource",

	389: "book_navigation", 390: "section_navigation", 391: "nav_container",
	392: "nav_containers", 393: "nav_unit", 394: "conditional_nav_group_unit",
	395: "resource_path", 396: "srl", 397: "titlepage", 398: "acknowledgements", 399: "preface",
	400: "loi", 401: "lot", 402: "bibliography", 403: "index", 404: "glossary", 405: "frontmatter",
	406: "bodymatter", 407: "backmatter", 408: "erl",

	409: "bcContId", 410: "bcComprType", 411: "bcDRMScheme", 412: "bcChunkSize",
	413: "bcIndexTabOffset", 414: "bcIndexTabLength", 415: "bcDocSymbolOffset",
	416: "bcDocSymbolLength", 417: "bcRawMedia", 418: "bcRawFont", 419: "container_entity_map",
	420: "pbm",

	421: "both", 422: "resource_width", 423: "resource_height", 424: "cover_image",
	425: "page_progression_direction", 426: "activate", 427: "ordinal", 428: "action",
	429: "backdrop_style", 430: "hide", 431: "show", 432: "blank", 433: "orientation_lock",
	434: "virtual_panel", 435: "auto_crop", 436: "selection", 437: "page_spread",
	438: "facing_page", 439: "zoom_target", 440: "popup", 441: "enabled", 442: "disabled",
	443: "zoom_panel", 444: "popup_text", 445: "text_vert_anchor", 446: "text_hori_anchor",
	447: "text_top", 448: "text_baseline", 449: "text_bottom", 450: "text_start",
	451: "text_middle", 452: "text_end", 453: "caption", 454: "body", 455: "footer",
	456: "border_spacing_vertical", 457: "border_spacing_horizontal", 458: "hide_empty_cells",
	459: "border_radius_top_left", 460: "border_radius_top_right",
	461: "border_radius_bottom_left", 462: "border_radius_bottom_right", 463: "PRIVATE_doc_fonts",
	464: "volume_label", 465: "parent_asin", 466: "asset_id", 467: "revision_id", 468: "zoom_in",
	469: "zoom_out", 470: "btt", 471: "ttb", 472: "force", 473: "scale", 474: "source",
	475: "fit_text", 476: "clip", 477: "spacing_percent_base", 478: "fit_width",
	479: "background_image", 480: "background_positionx", 481: "background_positiony",
	482: "background_sizex", 483: "background_sizey", 484: "background_repeat", 485: "repeat_x",
	486: "repeat_y", 487: "no_repeat", 488: "relative", 489: "viewport", 490: "book_metadata",
	491: "categorised_metadata", 492: "key", 493: "priority", 494: "refines", 495: "category",
	496: "shadows", 497: "text_shadows", 498: "color", 499: "horizontal_offset",

	500: "vertical_offset", 501: "blur", 502: "spread", 503: "list_style_image",
	504: "custom_viewer", 505: "rem", 506: "ch", 507: "vmax", 508: "gridlines",
	509: "parameter_list", 510: "set_parameters", 511: "hang_punctuation", 512: "layouts",
	513: "layout_name", 514: "grid_system", 515: "component_layout", 516: "+", 517: "-", 518: "*",
	519: "/", 520: "asSymbol", 521: "asString", 522: "asNumber", 523: "asList", 524: "asStructure",
	525: "isLandscape", 526: "isPortrait", 527: "isFirstPage", 528: "text_background_image",
	529: "stroke_linejoin", 530: "stroke_miterlimit", 531: "stroke_dasharray",
	532: "stroke_dashoffset", 533: "round", 534: "butt", 535: "miter", 536: "bevel",
	537: "component",

	538: "document_data", 539: "component_name", 540: "salience", 541: "border_radius",
	542: "clip_path_list", 543: "clip_path", 544: "clip_rule", 545: "clip_path_index",
	546: "sizing_bounds", 547: "background_origin", 548: "jxr", 549: "transform_origin",
	550: "location_map", 551: "list_style_position", 552: "inside", 553: "outside",
	554: "overline", 555: "overline_color", 556: "overline_weight", 557: "horizontal_tb",
	558: "vertical_lr", 559: "vertical_rl", 560: "writing_mode", 561: "all_small_caps",
	562: "ligatures", 563: "kerning", 564: "page_index", 565: "pdf", 566: "text_overflow",
	567: "ellipsis", 568: "text_clip", 569: "word_break", 570: "break_all", 571: "kicker",
	572: "article_id", 573: "all", 574: "browse", 575: "nav_visibility", 576: "link_visited_style",
	577: "link_unvisited_style", 578: "nbsp_mode", 579: "space", 580: "box_align", 581: "pan_zoom",
	582: "letterspacing_left", 583: "glyph_transform", 584: "alt_text", 585: "content_features",
	586: "namespace", 587: "major_version", 588: "minor_version", 589: "version_info",
	590: "features", 591: "exclude", 592: "include", 593: "format_capabilities",
	594: "bcFCapabilitiesOffset", 595: "bcFCapabilitiesLength", 596: "horizontal_rule",
	597: "auxiliary_data", 598: "kfx_id", 599: "bmp",

	600: "tiff", 601: "render", 602: "block", 603: "layout_type", 604: "model",
	605: "word_iteration_type", 606: "word", 607: "icu", 608: "structure",
	609: "section_position_id_map", 610: "yj.eidhash_eid_section_map",
	611: "yj.section_pid_count_map", 612: "yj.bpg", 613: "yj.authoring", 614: "yj.conversion",
	615: "yj.classification", 616: "yj.display", 617: "yj.note", 618: "yj.chapternote",
	619: "yj.endnote", 620: "yj.sidenote", 621: "yj.location_pid_map", 622: "yj.first_line_style",
	623: "yj.number_of_lines", 624: "yj.percentage", 625: "yj.first_line_style_type",
	626: "yj.kfxid_eid_map", 627: "yj.interactive_element_list", 628: "yj.float_clear",
	629: "yj.table_features", 630: "yj.table_selection_mode", 631: "yj.rowwise",
	632: "yj.regional", 633: "yj.vertical_align", 634: "yj.sorting", 635: "yj.variants",
	636: "yj.tiles", 637: "yj.tile_width", 638: "yj.tile_height",
	639: "yj.user_margin_top_percentage", 640: "yj.user_margin_bottom_percentage",
	641: "yj.user_margin_left_percentage", 642: "yj.user_margin_right_percentage",
	643: "yj.header_overlay", 644: "yj.footer_overlay", 645: "yj.max_crop", 646: "yj.collision",
	647: "yj.min_aspect_ratio", 648: "yj.max_aspect_ratio", 649: "yj.viewer",
	650: "yj.border_path", 651: "yj.majority", 652: "yj.queue", 653: "yj.connected_page_spread",
	654: "yj.connected_panels", 655: "yj.connected_pagination", 656: "yj.enable_connected_dps",
	657: "yj.disable_stacking", 658: "yj.float_align", 659: "yj.supports",
	660: "yj.illustrated_layout", 661: "yj.disable_adaptive_layout",
	662: "yj.disable_repeated_headers", 663: "yj.conditional_properties", 664: "yj.sdl_version",
	665: "yj.comic_panel_view_mode", 666: "yj.guided_view", 667: "yj.content_defined",
	668: "yj.auto_contrast", 669: "yj.before", 670: "yj.after", 671: "yj.at", 672: "yj.float_bias",
	673: "yj.float_to_block", 674: "bidi_unicode", 675: "bidi_embed", 676: "isolate",
	677: "override", 678: "isolate_override", 679: "plaintext", 680: "start", 681: "end",
	682: "bidi_direction", 683: "annotations", 684: "pan_zoom_viewer", 685: "select_as_group",
	686: "kvg_content_type", 687: "annotation_type", 688: "math", 689: "mathsegment",
	690: "mathml", 691: "nontext", 692: "path_bundle", 693: "path_list", 694: "arabic_indic",
	695: "persian", 696: "word_boundary_list", 697: "yj.dictionary", 698: "is_empty",
	699: "fallback_width",

	700: "important_cells", 701: "default_fixed_reading_order", 702: "reading_order_switch_map",
	703: "switch_map", 704: "target_reading_order", 705: "source_position",
	706: "text_orientation", 707: "text_combine", 708: "character_width", 709: "fullwidth",
	710: "halfwidth", 711: "quarterwidth", 712: "thirdwidth", 713: "proportional", 714: "yj",
	715: "nowrap", 716: "white_space", 717: "text_emphasis_style", 718: "text_emphasis_color",
	719: "text_emphasis_position_horizontal", 720: "text_emphasis_position_vertical",
	721: "text_emphasis_spacing", 722: "text_emphasis_size", 723: "text_emphasis_align",
	724: "filled", 725: "open", 726: "filled_dot", 727: "open_dot", 728: "filled_circle",
	729: "open_circle", 730: "filled_double_circle", 731: "open_double_circle",
	732: "filled_triangle", 733: "open_triangle", 734: "filled_sesame", 735: "open_sesame",
	736: "cjk_ideographic", 737: "cjk_earthly_branch", 738: "cjk_heavenly_stem", 739: "hiragana",
	740: "hiragana_iroha", 741: "katakana", 742: "katakana_iroha", 743: "japanese_formal",
	744: "japanese_informal", 745: "simp_chinese_informal", 746: "simp_chinese_formal",
	747: "trad_chinese_informal", 748: "trad_chinese_formal", 749: "alt_content",
	750: "yj.layout_type", 751: "yj.large_tables", 752: "yj.in_page", 753: "yj.table_viewer",
	754: "main_content_id", 755: "truncated_bounds", 756: "ruby_content", 757: "ruby_name",
	758: "ruby_id", 759: "ruby_id_list", 760: "treat_as_title", 761: "layout_hints",
	762: "ruby_position_horizontal", 763: "ruby_position_vertical", 764: "ruby_merge",
	765: "ruby_text_align", 766: "ruby_base_align", 767: "ruby_overhang_chars",
	768: "ruby_overhang_amount", 769: "ruby_text_gap", 770: "ruby_base_edge_align",
	771: "separate", 772: "collapse", 773: "space_around", 774: "space_between", 775: "any",
	776: "JLREQ", 777: "JIS_X_4051", 778: "sideways", 779: "upright", 780: "line_break",
	781: "loose", 782: "strict", 783: "anywhere", 784: "fit_tight", 785: "keep_lines_together",
	786: "snap_block", 787: "recaps_reading_order", 788: "yj_break_after", 789: "yj_break_before",
	790: "yj.semantics.heading_level", 791: "lower_greek", 792: "upper_greek",
	793: "lower_armenian", 794: "upper_armenian", 795: "georgian", 796: "decimal_leading_zero",
	797: "yj.tile_padding", 798: "headings", 799: "h1", 800: "h2", 801: "h3", 802: "h4", 803: "h5",
	804: "h6", 805: "gradient_angle", 806: "gradient_direction", 807: "to_right", 808: "to_left",
	809: "to_top", 810: "to_bottom", 811: "to_top_right", 812: "to_top_left",
	813: "to_bottom_right", 814: "to_bottom_left", 815: "deg", 816: "grad", 817: "rad",
	818: "turn", 819: "conic", 820: "linear", 821: "table_metadata", 822: "table_row_count",
	823: "table_column_count", 824: "table_cell_count", 825: "table_character_count", 826: "audio",
	827: "video", 828: "rendition_flow", 829: "continue_rendition_flow", 830: "scrollable",
	831: "paginated", 832: "standalone_entities", 833: "document_regions",
	834: "yj.user_margin_bounds", 835: "ellipse", 836: "rectangle", 837: "line", 838: "polygon",
	839: "polyline", 840: "shape_dimensions", 841: "x", 842: "y", 843: "cx", 844: "cy",
	845: "radius_x", 846: "radius_y", 847: "start_x", 848: "start_y", 849: "end_x", 850: "end_y",
	851: "vertex_list",
}

var ids map[string]Symbol

func init() {
	ids = make(map[string]Symbol, len(names))
	for id, name := range names {
		ids[name] = id
	}
}

// Name returns the catalog text for a symbol, or the numeric "$NNN"
// fallback when the SID isn't in the static catalog (a book-local
// extension symbol beyond MaxKnown).
func (s Symbol) Name() string {
	if n, ok := names[s]; ok {
		return n
	}
	return "$" + strconv.Itoa(int(s))
}

// Text returns the literal "$N" form a KFX local symbol table stores as
// the text of a shared-table entry (e.g. Section.Text() == "$260"). This
// is distinct from Name(): Text is the on-the-wire symbol text, Name is
// for human-readable display.
func (s Symbol) Text() string {
	return "$" + strconv.Itoa(int(s))
}

func (s Symbol) String() string {
	if n, ok := names[s]; ok {
		return fmt.Sprintf("%s ($%d)", n, int(s))
	}
	return fmt.Sprintf("$%d", int(s))
}

// ByName resolves a catalog text (or "$NNN" numeric form) back to its SID.
func ByName(name string) (Symbol, bool) {
	if strings.HasPrefix(name, "$") {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			return Symbol(n), true
		}
	}
	if id, ok := ids[name]; ok {
		return id, true
	}
	return 0, false
}

// Well-known fragment-type and commonly referenced symbols, named for
// readability at call sites that build or inspect fragments directly.
const (
	Metadata       Symbol = 258
	ContainerID    Symbol = 409 // bcContId
	DRMScheme      Symbol = 411 // bcDRMScheme
	ChunkSize      Symbol = 412 // bcChunkSize
	BookMetadata   Symbol = 490
	Storyline      Symbol = 259
	Section        Symbol = 260
	Style          Symbol = 157
	Content        Symbol = 145
	Anchor         Symbol = 266
	BookNavigation Symbol = 389
	ExternalResrc  Symbol = 164
	PositionMap    Symbol = 264
	PositionIDMap  Symbol = 265
	DocumentData   Symbol = 538
	LocationMap    Symbol = 550
	ContEntityMap  Symbol = 419
	FormatCapab    Symbol = 593
	RawMedia       Symbol = 417
	RawFont        Symbol = 418

	ID               Symbol = 155
	Text             Symbol = 269
	StyleName        Symbol = 157
	ParentStyle      Symbol = 158
	Type             Symbol = 159
	Title            Symbol = 153
	ReadingOrders    Symbol = 169
	Sections         Symbol = 170
	StoryName        Symbol = 176
	ReadingOrderName Symbol = 178
	PageTemplates    Symbol = 141
	SectionMetadata  Symbol = 267
	Landmarks        Symbol = 236
	LandmarkType     Symbol = 238
	NavContainerName Symbol = 239
	NavUnitName      Symbol = 240
	Label            Symbol = 244
	TargetPosition   Symbol = 246
	CoverPage        Symbol = 233
	NavContainer     Symbol = 391
	NavContainers    Symbol = 392
	NavUnit          Symbol = 393
	AnchorName       Symbol = 180
	URI              Symbol = 186
	Position         Symbol = 183
	PID              Symbol = 184
	EID              Symbol = 185
	Contains         Symbol = 181
	ResourceName     Symbol = 175
	Key              Symbol = 492
	Category         Symbol = 495
	CategorisedMeta  Symbol = 491
	ContentList      Symbol = 146

	// Style property symbols, used by the style-group fragment encoding
	// (kfxschema.StyleToIon/IonToStyle).
	Language        Symbol = 10
	FontFamily      Symbol = 11
	FontStyleProp   Symbol = 12
	FontWeightProp  Symbol = 13
	FontSize        Symbol = 16
	TextColor       Symbol = 19
	FillColor       Symbol = 70
	Visibility      Symbol = 68
	TextAlignment   Symbol = 34
	TextIndent      Symbol = 36
	LineHeight      Symbol = 42
	Margin          Symbol = 46
	MarginTop       Symbol = 47
	MarginLeft      Symbol = 48
	MarginBottom    Symbol = 49
	MarginRight     Symbol = 50
	Padding         Symbol = 51
	PaddingTop      Symbol = 52
	PaddingLeft     Symbol = 53
	PaddingBottom   Symbol = 54
	PaddingRight    Symbol = 55
	Width           Symbol = 56
	Height          Symbol = 57
	MinHeight       Symbol = 62
	BorderColorTop    Symbol = 84
	BorderColorLeft   Symbol = 85
	BorderColorBottom Symbol = 86
	BorderColorRight  Symbol = 87
	BorderStyleTop    Symbol = 89
	BorderStyleLeft   Symbol = 90
	BorderStyleBottom Symbol = 91
	BorderStyleRight  Symbol = 92
	BorderWeightTop    Symbol = 94
	BorderWeightLeft   Symbol = 95
	BorderWeightBottom Symbol = 96
	BorderWeightRight  Symbol = 97
	ListStyle       Symbol = 100
	BreakAfter      Symbol = 133
	BreakBefore     Symbol = 134
	BreakInside     Symbol = 135
	StyleGroup      Symbol = 261
)
