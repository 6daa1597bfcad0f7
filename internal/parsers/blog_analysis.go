package parsers

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aidanlsb/quill/internal/markdown"
)

// Reading level buckets by average words per sentence.
const (
	ReadingEasy   = "easy"
	ReadingMedium = "medium"
	ReadingHard   = "hard"

	easySentenceWords   = 15
	mediumSentenceWords = 20
	maxTopics           = 10
)

// PostAnalysis is the content analysis stored under metadata["analysis"].
type PostAnalysis struct {
	WordCount           int      `json:"word_count"`
	CharCount           int      `json:"char_count"`
	ParagraphCount      int      `json:"paragraph_count"`
	SentenceCount       int      `json:"sentence_count"`
	AvgWordsPerSentence float64  `json:"avg_words_per_sentence"`
	ReadingLevel        string   `json:"reading_level"`
	ReadabilityScore    float64  `json:"readability_score"`
	HasIntroduction     bool     `json:"has_introduction"`
	HasConclusion       bool     `json:"has_conclusion"`
	HeaderCount         int      `json:"header_count"`
	ListCount           int      `json:"list_count"`
	LinkCount           int      `json:"link_count"`
	ImageCount          int      `json:"image_count"`
	CodeBlockCount      int      `json:"code_block_count"`
	CodeLanguages       []string `json:"code_languages"`
	Sentiment           string   `json:"sentiment"`
	TechnicalComplexity string   `json:"technical_complexity"`
	Topics              []string `json:"topics"`
}

var (
	introTitles      = []string{"introduction", "intro", "overview", "background", "getting started", "why"}
	conclusionTitles = []string{"conclusion", "conclusions", "summary", "wrapping up", "wrap-up", "final thoughts", "takeaways", "closing"}

	positiveWords = []string{"great", "excellent", "amazing", "love", "good", "best", "awesome", "happy", "success", "improve", "easy", "powerful", "enjoy", "fast"}
	negativeWords = []string{"bad", "terrible", "hate", "worst", "poor", "difficult", "problem", "fail", "bug", "broken", "frustrating", "slow", "pain", "hard"}

	technicalTerms = []string{"algorithm", "architecture", "implementation", "performance", "optimization", "concurrency", "api", "database", "latency", "throughput", "compiler", "memory", "protocol", "schema"}

	// stopwords are excluded from topic extraction.
	stopwords = map[string]bool{
		"the": true, "and": true, "that": true, "this": true, "with": true, "for": true, "from": true,
		"have": true, "has": true, "was": true, "were": true, "are": true, "but": true, "not": true,
		"you": true, "your": true, "our": true, "they": true, "them": true, "their": true, "what": true,
		"when": true, "which": true, "will": true, "would": true, "could": true, "should": true, "there": true,
		"here": true, "then": true, "than": true, "into": true, "about": true, "also": true, "just": true,
		"like": true, "more": true, "some": true, "such": true, "only": true, "very": true, "been": true,
		"being": true, "each": true, "other": true, "these": true, "those": true, "because": true, "while": true,
		"can": true, "its": true, "it's": true, "one": true, "all": true, "any": true, "how": true, "who": true,
		"why": true, "where": true, "does": true, "did": true, "doing": true, "make": true, "made": true,
	}
)

// AnalyzePost computes content metrics for a blog body. techCount is the
// number of technologies already found in it.
func AnalyzePost(body string, techCount int) PostAnalysis {
	plain := markdown.PlainText(body)
	words := strings.Fields(plain)
	structure := markdown.Analyze(body)

	a := PostAnalysis{
		WordCount:      len(words),
		CharCount:      utf8.RuneCountInString(plain),
		ParagraphCount: structure.Paragraphs,
		HeaderCount:    structure.Headings,
		ListCount:      structure.Lists,
		LinkCount:      structure.Links,
		ImageCount:     structure.Images,
		CodeBlockCount: structure.CodeBlocks,
		CodeLanguages:  structure.CodeLanguages,
	}
	if a.CodeLanguages == nil {
		a.CodeLanguages = []string{}
	}

	a.SentenceCount = len(markdown.Sentences(plain))
	if a.SentenceCount > 0 {
		a.AvgWordsPerSentence = roundTo(float64(a.WordCount)/float64(a.SentenceCount), 2)
	}
	a.ReadingLevel = readingLevel(a.AvgWordsPerSentence)
	a.ReadabilityScore = Readability(a.AvgWordsPerSentence)

	for _, h := range markdown.ExtractHeadings(body) {
		title := strings.ToLower(h.Text)
		if keywordHits(title, introTitles) > 0 {
			a.HasIntroduction = true
		}
		if keywordHits(title, conclusionTitles) > 0 {
			a.HasConclusion = true
		}
	}

	tokens := tokenize(plain)
	a.Sentiment = sentiment(tokens)
	a.TechnicalComplexity = technicalComplexity(strings.ToLower(plain), a.CodeBlockCount, techCount)
	a.Topics = topics(tokens)
	return a
}

// Readability maps average sentence length to a 0-100 score.
func Readability(avgWordsPerSentence float64) float64 {
	if avgWordsPerSentence == 0 {
		return 100
	}
	return roundTo(clampFloat(100-(avgWordsPerSentence-10)*5, 0, 100), 1)
}

func readingLevel(avg float64) string {
	switch {
	case avg < easySentenceWords:
		return ReadingEasy
	case avg < mediumSentenceWords:
		return ReadingMedium
	default:
		return ReadingHard
	}
}

func tokenize(plain string) []string {
	fields := strings.FieldsFunc(strings.ToLower(plain), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func sentiment(tokens []string) string {
	pos, neg := countIn(tokens, positiveWords), countIn(tokens, negativeWords)
	switch {
	case pos > neg:
		return "positive"
	case neg > pos:
		return "negative"
	default:
		return "neutral"
	}
}

func countIn(tokens, vocab []string) int {
	set := make(map[string]bool, len(vocab))
	for _, w := range vocab {
		set[w] = true
	}
	n := 0
	for _, t := range tokens {
		if set[t] {
			n++
		}
	}
	return n
}

// technicalComplexity buckets a weighted count of code blocks, technologies
// and technical vocabulary.
func technicalComplexity(lowered string, codeBlocks, techCount int) string {
	score := codeBlocks*2 + techCount + keywordHits(lowered, technicalTerms)
	switch {
	case score >= 12:
		return "high"
	case score >= 5:
		return "medium"
	default:
		return "low"
	}
}

// topics returns up to maxTopics non-stopword tokens of four or more letters
// that occur more than once, most frequent first.
func topics(tokens []string) []string {
	counts := map[string]int{}
	for _, t := range tokens {
		if utf8.RuneCountInString(t) < 4 || stopwords[t] {
			continue
		}
		counts[t]++
	}
	out := []string{}
	for t, n := range counts {
		if n > 1 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > maxTopics {
		out = out[:maxTopics]
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
