package content

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minDetectRunes is the shortest body worth running detection on.
const minDetectRunes = 40

// LanguageDetector guesses the ISO 639-1 language of a text.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// DefaultDetectLanguages are the candidates used when none are given.
var DefaultDetectLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector limited to the given languages, or
// DefaultDetectLanguages when fewer than two are given.
func NewLinguaDetector(languages ...lingua.Language) LanguageDetector {
	if len(languages) < 2 {
		languages = DefaultDetectLanguages
	}
	return &linguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			WithMinimumRelativeDistance(0.1).
			Build(),
	}
}

func (d *linguaDetector) Detect(text string) (string, bool) {
	if len([]rune(strings.TrimSpace(text))) < minDetectRunes {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
