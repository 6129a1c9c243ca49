// =============================================================================
// Manga CSV to MAL Converter - XML Writer Module
// =============================================================================
//
// This module assembles the MAL import document and serializes it.
//
// XML STRUCTURE:
//   <myanimelist>
//     <myinfo>
//       <user_id/>
//       <user_name>kirbonwashere!</user_name>
//       <user_export_type>2</user_export_type>
//       <user_total_manga>3</user_total_manga>
//       ...per-status totals...
//     </myinfo>
//     <manga>
//       <manga_mangadb_id>2</manga_mangadb_id>
//       <manga_title><![CDATA[Berserk]]></manga_title>
//       ...
//     </manga>
//     <!-- one <manga> block per record, in input order -->
//   </myanimelist>
//
// Element names and order are fixed by the import format. Empty elements are
// written self-closing. Titles are written as CDATA sections so "&" or "<" in
// a title reaches MAL exactly as typed.
//
// encoding/xml is not used for output: it cannot write self-closing elements
// and its ",cdata" fields cannot be mixed with the element-per-field layout
// without a struct per element. The tree below is small enough to write by
// hand, and writing by hand keeps the output byte-stable.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/manga-csv-to-mal/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration writes <?xml version="1.0" encoding="UTF-8" ?>
	// as the first line.
	IncludeXMLDeclaration bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates the XML document with default options.
func Generate(doc types.Document) ([]byte, error) {
	return GenerateWithOptions(doc, DefaultGenerateOptions())
}

// GenerateWithOptions creates the XML document with custom options.
//
// The output depends only on doc and options: the same input always yields
// the same bytes.
func GenerateWithOptions(doc types.Document, options GenerateOptions) ([]byte, error) {
	if strings.TrimSpace(options.Indent) != "" {
		return nil, fmt.Errorf("indent must be whitespace only, got %q", options.Indent)
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n")
	}

	writeElement(&buffer, BuildDocument(doc), options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement is one node of the output tree. An element has either a Value
// or Children, never both.
type XMLElement struct {
	Name     string
	Value    string
	CDATA    bool
	Children []XMLElement
}

// BuildDocument assembles the element tree for doc.
func BuildDocument(doc types.Document) XMLElement {
	root := XMLElement{
		Name:     "myanimelist",
		Children: make([]XMLElement, 0, len(doc.Records)+1),
	}

	root.Children = append(root.Children, buildInfoElement(doc.User, doc.Summary))
	for _, record := range doc.Records {
		root.Children = append(root.Children, buildMangaElement(record))
	}

	return root
}

// buildInfoElement constructs the <myinfo> block.
func buildInfoElement(user types.UserInfo, summary types.Summary) XMLElement {
	return XMLElement{
		Name: "myinfo",
		Children: []XMLElement{
			text("user_id", user.UserID),
			text("user_name", user.UserName),
			text("user_export_type", user.ExportType),
			number("user_total_manga", summary.Total),
			number("user_total_reading", summary.Reading),
			number("user_total_completed", summary.Completed),
			number("user_total_onhold", summary.OnHold),
			number("user_total_dropped", summary.Dropped),
			number("user_total_plantoread", summary.PlanToRead),
		},
	}
}

// buildMangaElement constructs one <manga> block.
func buildMangaElement(r types.Record) XMLElement {
	return XMLElement{
		Name: "manga",
		Children: []XMLElement{
			text("manga_mangadb_id", r.MangaDBID),
			{Name: "manga_title", Value: r.Title, CDATA: true},
			text("manga_volumes", r.Volumes),
			text("manga_chapters", r.Chapters),
			text("my_id", r.MyID),
			text("my_read_volumes", r.ReadVolumes),
			text("my_read_chapters", r.ReadChapters),
			text("my_start_date", r.StartDate),
			text("my_finish_date", r.FinishDate),
			text("my_scanalation_group", r.ScanalationGroup),
			text("my_score", r.Score),
			text("my_storage", r.Storage),
			text("my_status", string(r.Status)),
			text("my_comments", r.Comments),
			text("my_times_read", r.TimesRead),
			text("my_tags", r.Tags),
			text("my_reread_value", r.RereadValue),
			text("update_on_import", r.UpdateOnImport),
		},
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func text(name, value string) XMLElement {
	return XMLElement{Name: name, Value: value}
}

func number(name string, value int) XMLElement {
	return XMLElement{Name: name, Value: strconv.Itoa(value)}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	buffer.WriteString(strings.Repeat(indent, level))
	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	switch {
	case element.CDATA:
		buffer.WriteString(">")
		writeCDATA(buffer, element.Value)

	case len(element.Children) == 0 && element.Value == "":
		buffer.WriteString("/>\n")
		return

	case len(element.Children) == 0:
		buffer.WriteString(">")
		buffer.WriteString(escapeXML(element.Value))

	default:
		buffer.WriteString(">\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		buffer.WriteString(strings.Repeat(indent, level))
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

// writeCDATA writes s as a CDATA section. A "]]>" inside s would end the
// section early, so it is split across two sections.
func writeCDATA(buffer *bytes.Buffer, s string) {
	s = stripInvalidChars(s)
	buffer.WriteString("<![CDATA[")
	buffer.WriteString(strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>"))
	buffer.WriteString("]]>")
}

// escapeXML escapes special characters for XML text content.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range stripInvalidChars(s) {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// stripInvalidChars drops runes that XML 1.0 does not allow anywhere, not
// even inside CDATA (mostly C0 control characters pasted from other tools).
func stripInvalidChars(s string) string {
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
