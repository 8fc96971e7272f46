package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"text/template"
)

const (
	containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

	// navCSS keeps line spacing tight and images full width, tuned for
	// e-ink readability.
	navCSS = `html, body { margin: 0; padding: 0; }
body { font-family: serif; line-height: 1.25; }
h2, h3 { page-break-after: avoid; margin: 0.35em 0 0.2em; }
p { margin: 0.2em 0; }
img { width: 100%; height: auto; display: block; margin: 0; }
figure { margin: 0; text-align: center; }
`
)

var chapterTmpl = template.Must(template.New("chapter").Parse(`<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
  <head>
    <title>{{.Title}}</title>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8" />
    <link rel="stylesheet" type="text/css" href="style/nav.css" />
  </head>
  <body>
    {{.Body}}
  </body>
</html>
`))

var navTmpl = template.Must(template.New("nav").Parse(`<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
  <head>
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="style/nav.css" />
  </head>
  <body>
    <nav epub:type="toc" id="toc">
      <ol>
{{- range .Chapters}}
        <li><a href="{{.FileName}}">{{.Title}}</a></li>
{{- end}}
      </ol>
    </nav>
  </body>
</html>
`))

var ncxTmpl = template.Must(template.New("ncx").Parse(`<?xml version="1.0" encoding="utf-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="{{.Identifier}}"/>
    <meta name="dtb:depth" content="1"/>
  </head>
  <docTitle><text>{{.Title}}</text></docTitle>
  <navMap>
{{- range $i, $c := .Chapters}}
    <navPoint id="navPoint-{{$i}}" playOrder="{{$i}}">
      <navLabel><text>{{$c.Title}}</text></navLabel>
      <content src="{{$c.FileName}}"/>
    </navPoint>
{{- end}}
  </navMap>
</ncx>
`))

// Chapter is one spine entry of the book. Body holds the inner XHTML of
// the chapter's body element, already escaped.
type Chapter struct {
	Title    string
	FileName string
	Body     string
}

// Book collects everything that goes into one EPUB archive.
type Book struct {
	Identifier string
	Title      string
	Author     string
	Language   string
	Cover      []byte // JPEG cover page, optional
	Chapters   []Chapter
	Images     []imageBlob
}

// Write-side OPF document. The teacher structs in this shape unmarshal;
// these marshal, so the namespace attributes are explicit fields.
type opfDoc struct {
	XMLName  xml.Name    `xml:"package"`
	Xmlns    string      `xml:"xmlns,attr"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string        `xml:"xmlns:dc,attr"`
	Identifier opfIdentifier `xml:"dc:identifier"`
	Title      string        `xml:"dc:title"`
	Language   string        `xml:"dc:language"`
	Creator    string        `xml:"dc:creator,omitempty"`
	Meta       []opfMeta     `xml:"meta"`
}

type opfIdentifier struct {
	ID      string `xml:"id,attr"`
	Content string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// WriteTo writes the complete EPUB archive. The mimetype entry comes
// first and uncompressed, as the container spec requires.
func (b *Book) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := mt.Write([]byte("application/epub+zip")); err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", b.opf()},
		{"OEBPS/nav.xhtml", renderTemplate(navTmpl, b)},
		{"OEBPS/toc.ncx", renderTemplate(ncxTmpl, b)},
		{"OEBPS/style/nav.css", []byte(navCSS)},
	}
	if len(b.Cover) > 0 {
		files = append(files, struct {
			name string
			data []byte
		}{"OEBPS/cover.jpg", b.Cover})
	}
	for _, c := range b.Chapters {
		files = append(files, struct {
			name string
			data []byte
		}{"OEBPS/" + c.FileName, renderTemplate(chapterTmpl, c)})
	}
	for _, img := range b.Images {
		files = append(files, struct {
			name string
			data []byte
		}{"OEBPS/images/" + img.ID + ".jpg", img.Data})
	}

	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return err
		}
		if _, err := fw.Write(f.data); err != nil {
			return err
		}
	}

	return zw.Close()
}

// opf builds the package document. The spine starts with the navigation
// document so readers without EPUB 3 support still land somewhere sane.
func (b *Book) opf() []byte {
	doc := opfDoc{
		Xmlns:    "http://www.idpf.org/2007/opf",
		Version:  "3.0",
		UniqueID: "book-id",
		Metadata: opfMetadata{
			XmlnsDC:    "http://purl.org/dc/elements/1.1/",
			Identifier: opfIdentifier{ID: "book-id", Content: b.Identifier},
			Title:      b.Title,
			Language:   b.Language,
			Creator:    b.Author,
		},
		Spine: opfSpine{Toc: "ncx"},
	}

	addItem := func(item opfItem, inSpine bool) {
		doc.Manifest.Items = append(doc.Manifest.Items, item)
		if inSpine {
			doc.Spine.ItemRefs = append(doc.Spine.ItemRefs, opfItemRef{IDRef: item.ID})
		}
	}

	addItem(opfItem{ID: "nav", Href: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav"}, true)
	addItem(opfItem{ID: "ncx", Href: "toc.ncx", MediaType: "application/x-dtbncx+xml"}, false)
	addItem(opfItem{ID: "style_nav", Href: "style/nav.css", MediaType: "text/css"}, false)

	if len(b.Cover) > 0 {
		addItem(opfItem{ID: "cover-img", Href: "cover.jpg", MediaType: "image/jpeg", Properties: "cover-image"}, false)
		// EPUB 2 readers find the cover through this meta instead.
		doc.Metadata.Meta = append(doc.Metadata.Meta, opfMeta{Name: "cover", Content: "cover-img"})
	}

	for i, c := range b.Chapters {
		addItem(opfItem{
			ID:        fmt.Sprintf("chap_%d", i+1),
			Href:      c.FileName,
			MediaType: "application/xhtml+xml",
		}, true)
	}
	for _, img := range b.Images {
		addItem(opfItem{ID: img.ID, Href: "images/" + img.ID + ".jpg", MediaType: img.MediaType}, false)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshaling fixed struct shapes cannot fail at runtime.
		panic(err)
	}
	return append([]byte(xml.Header), out...)
}

func renderTemplate(t *template.Template, data any) []byte {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		panic(err)
	}
	return []byte(sb.String())
}
