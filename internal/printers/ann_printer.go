package printers

import (
	"fmt"
	"io"
	"strings"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/printer"
)

// AnnPrinter prints the annotations of one or more register decoders, one
// per line:
//
//	Idx:<start>-<end>; <decoder>; <class tag>; <long label>
type AnnPrinter struct {
	ItemPrinter
	shortLabels  bool
	collectStats bool
	tagCounts    map[string]int
	tagOrder     []string
}

// NewAnnPrinter creates an annotation printer writing to writer.
func NewAnnPrinter(writer io.Writer) *AnnPrinter {
	return &AnnPrinter{
		ItemPrinter: *NewItemPrinter(writer),
		tagCounts:   make(map[string]int),
	}
}

// SetShortLabels selects the most compact label instead of the longest.
func (p *AnnPrinter) SetShortLabels(short bool) { p.shortLabels = short }

// SetCollectStats turns on per class tag counting.
func (p *AnnPrinter) SetCollectStats() { p.collectStats = true }

// AnnotationIn implements common.AnnotationIn.
func (p *AnnPrinter) AnnotationIn(span dcd.Span, source string, ann *common.Annotation) dcd.DatapathResp {
	if p.collectStats {
		if _, seen := p.tagCounts[ann.Tag]; !seen {
			p.tagOrder = append(p.tagOrder, ann.Tag)
		}
		p.tagCounts[ann.Tag]++
	}
	if p.IsMuted() {
		return dcd.RespCont
	}

	label := ann.Long()
	if p.shortLabels {
		label = ann.Short()
	}
	p.ItemPrintLine(p.spanPrefix(span) + printer.FormatAnnotation(source, ann.Tag, label) + "\n")
	return p.nextResp()
}

// TagCount returns the number of annotations seen with the given class tag.
func (p *AnnPrinter) TagCount(tag string) int { return p.tagCounts[tag] }

// PrintStats outputs the per class tag counts in first seen order.
func (p *AnnPrinter) PrintStats() {
	var sb strings.Builder
	sb.WriteString("Annotations processed:-\n")
	for _, tag := range p.tagOrder {
		fmt.Fprintf(&sb, "%s : %d\n", tag, p.tagCounts[tag])
	}
	sb.WriteString("\n")
	p.ItemPrintLine(sb.String())
}
