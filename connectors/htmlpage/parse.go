package htmlpage

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/source"
)

// rangePattern matches "07:15-09:10" with any dash variant.
var rangePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})`)

// parsePage reads the schedule page. Each day is an element carrying a
// data-date="YYYY-MM-DD" attribute; inside it every table row whose first cell
// names a queue lists that queue's outage ranges in the following cells.
// An end of 24:00 is the next midnight.
func parsePage(r io.Reader) (map[model.QueueKey][]source.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	out := make(map[model.QueueKey][]source.Record)
	var walk func(n *html.Node, date string)
	walk = func(n *html.Node, date string) {
		if n.Type == html.ElementNode {
			if d := attr(n, "data-date"); d != "" {
				date = d
			}
			if n.Data == "tr" && date != "" {
				collectRow(n, date, out)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, date)
		}
	}
	walk(doc, "")
	return out, nil
}

func collectRow(tr *html.Node, date string, out map[model.QueueKey][]source.Record) {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(text(c)))
		}
	}
	if len(cells) < 2 {
		return
	}
	q, err := model.ParseQueue(strings.TrimPrefix(cells[0], "Черга "))
	if err != nil {
		return
	}
	if _, ok := out[q]; !ok {
		out[q] = []source.Record{}
	}
	for _, cell := range cells[1:] {
		for _, m := range rangePattern.FindAllStringSubmatch(cell, -1) {
			out[q] = append(out[q], source.Record{
				Start: stamp(date, m[1], m[2]),
				End:   stamp(date, m[3], m[4]),
			})
		}
	}
}

func stamp(date, hour, minute string) string {
	if hour == "24" && minute == "00" {
		d, err := time.Parse("2006-01-02", date)
		if err == nil {
			return d.AddDate(0, 0, 1).Format("2006-01-02") + " 00:00"
		}
	}
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return date + " " + hour + ":" + minute
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
		b.WriteByte(' ')
	}
	return b.String()
}
