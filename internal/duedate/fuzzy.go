package duedate

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var phraseParser = newPhraseParser()

func newPhraseParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseFuzzy turns a date phrase into a calendar date. Absolute dates
// ("2024-05-10", "May 10, 2024") are tried first, then relative phrases
// ("next Friday", "tomorrow") anchored at ref. A date without a year
// ("5/10") takes ref's year. The date is taken in ref's location. Returns nil
// when nothing date-like is found.
func ParseFuzzy(text string, ref time.Time) *civil.Date {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if t, err := dateparse.ParseIn(text, ref.Location()); err == nil {
		d := civil.DateOf(t)
		if d.Year == 0 {
			d.Year = ref.Year()
		}
		if !d.IsValid() {
			return nil
		}
		return &d
	}

	r, err := phraseParser.Parse(text, ref)
	if err != nil || r == nil {
		return nil
	}
	d := civil.DateOf(r.Time.In(ref.Location()))
	return &d
}
