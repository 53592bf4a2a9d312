package dataset

import (
	"fmt"
	"strings"
)

// fallbackModified is the fixed timestamp stamped on substitute listings. It
// roughly matches the last real update of the upstream corpus.
const fallbackModified = "2017-03-18T00:00:00Z"

// fallbackFiles holds the substitute listing shown when the remote call for a
// category cannot be served. Paths mirror the upstream folder layout so that
// content fetches against them behave the same as against live listings.
var fallbackFiles = map[Category][]File{
	Scripts: {
		{Name: "Queen.txt", Path: "scripts-data/Queen.txt", Size: 48231, LastModified: fallbackModified},
		{Name: "Dilwale_Dulhania_Le_Jayenge.txt", Path: "scripts-data/Dilwale_Dulhania_Le_Jayenge.txt", Size: 61402, LastModified: fallbackModified},
		{Name: "Dangal.txt", Path: "scripts-data/Dangal.txt", Size: 53977, LastModified: fallbackModified},
		{Name: "Pink.txt", Path: "scripts-data/Pink.txt", Size: 44815, LastModified: fallbackModified},
	},
	PlotSummaries: {
		{Name: "Queen_plot.txt", Path: "wikipedia-data/Queen_plot.txt", Size: 5120, LastModified: fallbackModified},
		{Name: "Dilwale_Dulhania_Le_Jayenge_plot.txt", Path: "wikipedia-data/Dilwale_Dulhania_Le_Jayenge_plot.txt", Size: 6348, LastModified: fallbackModified},
		{Name: "Dangal_plot.txt", Path: "wikipedia-data/Dangal_plot.txt", Size: 5893, LastModified: fallbackModified},
		{Name: "Sultan_plot.txt", Path: "wikipedia-data/Sultan_plot.txt", Size: 4710, LastModified: fallbackModified},
	},
	TrailerTranscripts: {
		{Name: "Queen_trailer.txt", Path: "trailer-data/Queen_trailer.txt", Size: 1844, LastModified: fallbackModified},
		{Name: "Dangal_trailer.txt", Path: "trailer-data/Dangal_trailer.txt", Size: 2102, LastModified: fallbackModified},
		{Name: "Raazi_trailer.txt", Path: "trailer-data/Raazi_trailer.txt", Size: 1763, LastModified: fallbackModified},
	},
	Images: {
		{Name: "Queen_poster.jpg", Path: "images-data/Queen_poster.jpg", Size: 183226, LastModified: fallbackModified},
		{Name: "Dangal_poster.jpg", Path: "images-data/Dangal_poster.jpg", Size: 201544, LastModified: fallbackModified},
		{Name: "Dilwale_Dulhania_Le_Jayenge_poster.png", Path: "images-data/Dilwale_Dulhania_Le_Jayenge_poster.png", Size: 162090, LastModified: fallbackModified},
	},
}

// fallbackListing returns a copy of the substitute list for cat so callers
// can never mutate the shared table.
func fallbackListing(cat Category, reason string) Listing {
	files := make([]File, len(fallbackFiles[cat]))
	copy(files, fallbackFiles[cat])
	return Listing{Category: cat, Label: cat.Label(), Files: files, Source: SourceFallback, Reason: reason}
}

// contentRule pairs a path predicate with a synthetic body generator.
// Rules are evaluated in order and the first match wins.
type contentRule struct {
	match    func(path string) bool
	generate func(path string) string
}

func containing(substr string) func(string) bool {
	substr = strings.ToLower(substr)
	return func(path string) bool {
		return strings.Contains(strings.ToLower(path), substr)
	}
}

var contentRules = []contentRule{
	{containing("queen"), queenScript},
	{containing("dilwale"), ddljScript},
	{containing("dangal"), dangalScript},
	{containing("plot"), plotSummary},
	{containing("trailer"), trailerTranscript},
}

// fallbackDocument selects a synthetic body for path. The unconditional
// default at the end guarantees a non-empty result for any input.
func fallbackDocument(path, reason string) Document {
	text := defaultBody(path)
	for _, rule := range contentRules {
		if rule.match(path) {
			text = rule.generate(path)
			break
		}
	}
	return Document{Path: path, Text: text, Source: SourceFallback, Reason: reason}
}

func queenScript(string) string {
	return `QUEEN (2013)
Directed by Vikas Bahl

INT. MEHRA HOUSEHOLD, RAJOURI GARDEN - DAY

RANI
Vijay, the cards have already gone out.
The whole colony knows about the wedding.

VIJAY
Things have changed, Rani. I have changed.
You would not fit into my life in London.

INT. PARIS HOSTEL - NIGHT

RANI
I have never stepped out of Delhi alone.
But this honeymoon is mine. I booked it,
and I am going.

VIJAYALAKSHMI
Then go. Paris has a way of returning
people to themselves.

EXT. AMSTERDAM CANAL - DAY

RANI
For the first time I am not anyone's
daughter or anyone's fiancee. I am just
Rani. And that is enough.
`
}

func ddljScript(string) string {
	return `DILWALE DULHANIA LE JAYENGE (1995)
Directed by Aditya Chopra

EXT. LONDON STREET - DAY

RAJ
Life is about the moments you steal,
Simran. Come to Europe. The mountains
will still be there when we get back.

INT. SINGH HOUSEHOLD - NIGHT

BALDEV
My daughter will marry in Punjab, in the
house of my oldest friend. That is my
word, and my word is final.

SIMRAN
I have seen him for only a few days,
Bauji. But I know my own heart now.

EXT. TRAIN PLATFORM - DAY

BALDEV
Go, Simran. Live your life.
`
}

func dangalScript(string) string {
	return `DANGAL (2016)
Directed by Nitesh Tiwari

EXT. PHOGAT AKHARA, BALALI - DAWN

MAHAVIR
Gold is gold, whether a boy wins it or a
girl. From today, Geeta and Babita will
wrestle.

GEETA
The girls in the village get married at
fourteen. At least our father sees us as
more than someone's future wife.

INT. NATIONAL SPORTS ACADEMY - DAY

COACH
Forget everything your father taught you.

GEETA
My father taught me never to start a bout
I did not intend to win.
`
}

func plotSummary(path string) string {
	return fmt.Sprintf(`Plot Summary

This is a sample plot summary standing in for %s.

The film follows its central characters through the familiar arc of Hindi
popular cinema: an opening that fixes each character's place in family and
society, a middle that tests those ties through ambition, romance, or
separation, and a resolution in which duty and desire are reconciled. Along
the way the narrative voice lingers on who acts and who is acted upon, who is
introduced by profession and who by relation, details that make summaries
like this one useful raw material for bias analysis.
`, path)
}

func trailerTranscript(path string) string {
	return fmt.Sprintf(`Trailer Transcript

This is a sample trailer transcript standing in for %s.

NARRATOR (V.O.): One family. One promise. One chance to rewrite everything.

[Drums build. Quick cuts between a wedding procession and a crowded railway
platform.]

NARRATOR (V.O.): This season, the biggest story ever told... is hers.

[Title card. Release date. Music swells and cuts to silence.]
`, path)
}

func defaultBody(path string) string {
	return fmt.Sprintf(`Sample document for %s.

The upstream dataset could not be reached, so this substitute text is shown
in its place. It keeps the demonstration browsable while the GitHub contents
API is rate limited or offline; retry later to load the real file.
`, path)
}
