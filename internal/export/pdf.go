package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// PDF version emitted by the writer. 1.4 is enough for DCT-encoded image
// XObjects and is universally readable.
const pdfVersion = "1.4"

// pdfDocument assembles a multi-page PDF where every page is one full-bleed
// raster image. Object slots 1 (catalog) and 2 (page tree) are reserved;
// image, content and page objects are numbered as they are added.
type pdfDocument struct {
	title   string
	objects [][]byte
	pages   []int
}

func newPDFDocument(title string) *pdfDocument {
	return &pdfDocument{title: title}
}

// nextObjectNumber returns the number the next added object will receive
// (1-based, offset past the two reserved slots).
func (d *pdfDocument) nextObjectNumber() int {
	return len(d.objects) + 3
}

func (d *pdfDocument) addObject(content []byte) int {
	d.objects = append(d.objects, content)
	return len(d.objects) + 2
}

// addImagePage appends one page of the given point dimensions, fully covered
// by a baseline JPEG drawn at 1:1 with the page.
func (d *pdfDocument) addImagePage(jpeg []byte, pxWidth, pxHeight int, pageWidth, pageHeight float64) {
	imgNum := d.nextObjectNumber()

	var img bytes.Buffer
	fmt.Fprintf(&img, "<< /Type /XObject\n/Subtype /Image\n/Width %d\n/Height %d\n", pxWidth, pxHeight)
	img.WriteString("/ColorSpace /DeviceRGB\n/BitsPerComponent 8\n/Filter /DCTDecode\n")
	fmt.Fprintf(&img, "/Length %d\n>>\nstream\n", len(jpeg))
	img.Write(jpeg)
	img.WriteString("\nendstream")
	d.addObject(img.Bytes())

	content := fmt.Sprintf("q\n%.2f 0 0 %.2f 0 0 cm\n/Im%d Do\nQ\n", pageWidth, pageHeight, imgNum)
	stream := fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content)
	contentNum := d.addObject([]byte(stream))

	page := fmt.Sprintf(
		"<< /Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %.2f %.2f]\n/Contents %d 0 R\n/Resources << /XObject << /Im%d %d 0 R >> >>\n>>",
		pageWidth, pageHeight, contentNum, imgNum, imgNum)
	d.pages = append(d.pages, d.addObject([]byte(page)))
}

// build serializes the document: header, reserved objects, added objects,
// info dictionary, xref table and trailer.
func (d *pdfDocument) build() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", pdfVersion)
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	var kids strings.Builder
	kids.WriteString("[")
	for i, num := range d.pages {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", num)
	}
	kids.WriteString("]")

	final := make([][]byte, 0, len(d.objects)+3)
	final = append(final, []byte("<< /Type /Catalog\n/Pages 2 0 R\n>>"))
	final = append(final, []byte(fmt.Sprintf("<< /Type /Pages\n/Kids %s\n/Count %d\n>>", kids.String(), len(d.pages))))
	final = append(final, d.objects...)

	date := time.Now().UTC().Format("D:20060102150405Z")
	info := fmt.Sprintf("<<\n/Title (%s)\n/Producer (driver-log-service)\n/CreationDate (%s)\n>>",
		escapePDFString(d.title), date)
	final = append(final, []byte(info))
	infoNum := len(final)

	xref := make([]int, len(final)+1)
	for i, obj := range final {
		xref[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(final)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(final); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", xref[i])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d\n/Root 1 0 R\n/Info %d 0 R\n>>\n", len(final)+1, infoNum)
	buf.WriteString("startxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefPos)
	buf.WriteString("%%EOF\n")

	return buf.Bytes()
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
