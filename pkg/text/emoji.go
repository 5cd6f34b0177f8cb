package text

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/enescakir/emoji"
)

var (
	EmojiFavorite     = emoji.RedHeart.String()
	EmojiNotFavorite  = emoji.WhiteHeart.String()
	EmojiBooks        = emoji.Books.String()
	EmojiError        = emoji.CrossMark.String()
	EmojiQuestionmark = emoji.QuestionMark.String()
	EmojiSync         = emoji.CounterclockwiseArrowsButton.String()
)

// RelativeTime renders then relative to now, switching to an absolute date
// after a week.
func RelativeTime(then, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	ago := now.Sub(then)
	if ago < time.Minute {
		return "just now"
	} else if ago < humanize.Week {
		return humanize.CustomRelTime(then, now, "ago", "from now", magnitudes)
	}
	return then.Format("02 Jan 2006 15:04 MST")
}

var magnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "now", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
	{D: math.MaxInt64, Format: "a long while %s", DivBy: 1},
}
