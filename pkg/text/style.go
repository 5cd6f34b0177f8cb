package text

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

const Ellipsis = "…"

var (
	publisherColorSalt uint32 = 4730
	publisherColors           = colorGrid(4, 4)
)

// StyleFilteredText underlines the runes of haystack that make up the first
// case-folded occurrence of needle, the same match the catalog filter uses.
func StyleFilteredText(haystack, needle string, defaultStyle termenv.Style) string {
	first, last := matchedRunes(haystack, Fold(needle))
	if first < 0 {
		return defaultStyle.Styled(haystack)
	}

	b := strings.Builder{}
	for i, r := range []rune(haystack) {
		if i >= first && i <= last {
			b.WriteString(defaultStyle.Underline().Styled(string(r)))
			continue
		}
		b.WriteString(defaultStyle.Styled(string(r)))
	}
	return b.String()
}

// matchedRunes folds haystack rune by rune and returns the rune indexes of the
// first and last rune covering foldedNeedle, or -1 when there is no match.
func matchedRunes(haystack, foldedNeedle string) (int, int) {
	if foldedNeedle == "" {
		return -1, -1
	}
	var folded strings.Builder
	// owner[i] is the haystack rune index that produced folded byte i
	var owner []int
	for i, r := range []rune(haystack) {
		f := Fold(string(r))
		folded.WriteString(f)
		for range []byte(f) {
			owner = append(owner, i)
		}
	}
	at := strings.Index(folded.String(), foldedNeedle)
	if at < 0 {
		return -1, -1
	}
	return owner[at], owner[at+len(foldedNeedle)-1]
}

func TruncateWithTail(txt string, width uint, ellipsis string) string {
	return truncate.StringWithTail(txt, width, ellipsis)
}

// PublisherColor picks a stable color for name from the gradient grid.
func PublisherColor(name string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(name))
	rows := len(publisherColors)
	cols := len(publisherColors[0])
	idx := int((h.Sum32() + publisherColorSalt) % uint32(rows*cols))
	return lipgloss.Color(publisherColors[idx/cols][idx%cols])
}

// ColoredPublisher renders name in its publisher color.
func ColoredPublisher(name string) string {
	if name == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(PublisherColor(name)).Render(name)
}

func colorGrid(xSteps, ySteps int) [][]string {
	x0y0, _ := colorful.Hex("#F25D94")
	x1y0, _ := colorful.Hex("#EDFF82")
	x0y1, _ := colorful.Hex("#643AFF")
	x1y1, _ := colorful.Hex("#14F9D5")

	x0 := make([]colorful.Color, ySteps)
	x1 := make([]colorful.Color, ySteps)
	for i := 0; i < ySteps; i++ {
		x0[i] = x0y0.BlendLuv(x0y1, float64(i)/float64(ySteps))
		x1[i] = x1y0.BlendLuv(x1y1, float64(i)/float64(ySteps))
	}

	grid := make([][]string, ySteps)
	for y := range grid {
		grid[y] = make([]string, xSteps)
		for x := range grid[y] {
			grid[y][x] = x0[y].BlendLuv(x1[y], float64(x)/float64(xSteps)).Hex()
		}
	}
	return grid
}
