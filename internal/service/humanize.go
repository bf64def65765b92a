package service

import (
	"time"

	"github.com/dustin/go-humanize"
)

const dayLength = 24 * time.Hour

// deAgoCutoff is the age from which the absolute date is shown instead.
const deAgoCutoff = 30 * dayLength

var deMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "gerade eben", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 Minute", DivBy: time.Minute},
	{D: time.Hour, Format: "%s %d Minuten", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 Stunde", DivBy: time.Hour},
	{D: dayLength, Format: "%s %d Stunden", DivBy: time.Hour},
	{D: 2 * dayLength, Format: "%s 1 Tag", DivBy: dayLength},
	{D: deAgoCutoff, Format: "%s %d Tagen", DivBy: dayLength},
}

// humanizeDeAgo renders how long ago t was, in German.
func humanizeDeAgo(t, now time.Time) string {
	if t.After(now) {
		return "gerade eben"
	}
	if now.Sub(t) >= deAgoCutoff {
		return t.Format("02.01.2006 15:04")
	}
	return humanize.CustomRelTime(t, now, "vor", "in", deMagnitudes)
}
