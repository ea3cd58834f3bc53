package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

// TitleMaxLength is the longest issue title produced from a TODO comment
const TitleMaxLength = 140

const truncationSuffix = "..."

// Language defines comment styles for different programming languages
type Language struct {
	Extensions        []string
	LineComment       string
	BlockCommentStart string
	BlockCommentEnd   string
}

var supportedLanguages = []Language{
	{Extensions: []string{".go"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".java", ".js", ".ts", ".jsx", ".tsx", ".c", ".cpp", ".cs", ".h", ".hpp", ".swift", ".kt", ".rs", ".php", ".scala", ".groovy", ".dart"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".py", ".rb", ".pl", ".r", ".sh", ".bash", ".yml", ".yaml", ".toml"}, LineComment: "#"},
	{Extensions: []string{".lua"}, LineComment: "--"},
	{Extensions: []string{".sql"}, LineComment: "--", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".html", ".xml", ".vue"}, BlockCommentStart: "<!--", BlockCommentEnd: "-->"},
	{Extensions: []string{".css", ".scss"}, BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".ex", ".exs"}, LineComment: "#"},
	{Extensions: []string{".erl", ".hrl"}, LineComment: "%"},
	{Extensions: []string{".hs"}, LineComment: "--", BlockCommentStart: "{-", BlockCommentEnd: "-}"},
	{Extensions: []string{".ps1"}, LineComment: "#"},
	{Extensions: []string{".fs"}, LineComment: "//", BlockCommentStart: "(*", BlockCommentEnd: "*)"},
	{Extensions: []string{".m"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".clj", ".lisp", ".el", ".ini"}, LineComment: ";"},
}

// Fallback comment openers, longest first, for files without a known language
var commentOpeners = []string{"<!--", "///", "/**", "/*", "//", "--", "{-", "(*", "#", "*", "%", ";"}

var commentClosers = []string{"*/", "-->", "-}", "*)"}

var labelsRegex = regexp.MustCompile(`^Labels:\s*(.+)$`)

// GetLanguageForFile determines the language of a file based on its extension
func GetLanguageForFile(filename string) *Language {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, lang := range supportedLanguages {
		for _, langExt := range lang.Extensions {
			if ext == langExt {
				return &lang
			}
		}
	}
	return nil
}

// TruncateTitle shortens a title to TitleMaxLength runes.
// Applying it to an already truncated title returns it unchanged.
func TruncateTitle(title string) (string, bool) {
	runes := []rune(title)
	if len(runes) <= TitleMaxLength {
		return title, false
	}

	cut := strings.TrimRight(string(runes[:TitleMaxLength-len(truncationSuffix)]), " ")
	return cut + truncationSuffix, true
}

type matcher struct {
	marker *regexp.Regexp
	body   *regexp.Regexp
}

func newMatcher(cfg Config) *matcher {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultConfig().Keywords
	}

	m := &matcher{marker: keywordRegex(keywords, cfg.CaseSensitive)}
	if bodyKeyword := strings.TrimSpace(cfg.BodyKeyword); bodyKeyword != "" {
		m.body = keywordRegex([]string{bodyKeyword}, cfg.CaseSensitive)
	}
	return m
}

// keywordRegex matches "<keyword>[:] <text>" at the start of stripped comment text
func keywordRegex(keywords []string, caseSensitive bool) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) == 0 {
		return keywordRegex(DefaultConfig().Keywords, caseSensitive)
	}

	flags := "(?i)"
	if caseSensitive {
		flags = ""
	}
	return regexp.MustCompile(flags + `^(` + strings.Join(quoted, "|") + `)(?::\s*|\s+)(\S.*)$`)
}

func (m *matcher) matchMarker(text string) (keyword, title string, ok bool) {
	match := m.marker.FindStringSubmatch(text)
	if match == nil {
		return "", "", false
	}
	return match[1], strings.TrimSpace(match[2]), true
}

func (m *matcher) matchBody(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	if m.body == nil {
		return text, true
	}

	match := m.body.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[2]), true
}

// stripComment removes comment syntax surrounding a line of source code
func stripComment(line string, lang *Language) string {
	text := strings.TrimSpace(line)

	openers := commentOpeners
	if lang != nil {
		var own []string
		for _, o := range []string{lang.BlockCommentStart, lang.LineComment} {
			if o != "" {
				own = append(own, o)
			}
		}
		openers = append(own, commentOpeners...)
	}

	// openers can stack, e.g. "/**" in a Go file or "* " inside a block
	for pass := 0; pass < 3; pass++ {
		stripped := false
		for _, opener := range openers {
			if strings.HasPrefix(text, opener) {
				text = strings.TrimSpace(strings.TrimPrefix(text, opener))
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	for _, closer := range commentClosers {
		if strings.HasSuffix(text, closer) {
			text = strings.TrimSpace(strings.TrimSuffix(text, closer))
			break
		}
	}

	return text
}

func parseLabels(text string) ([]string, bool) {
	match := labelsRegex.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}

	var labels []string
	for _, label := range strings.Split(match[1], ",") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return labels, len(labels) > 0
}

// FindMarkers scans the added lines of a parsed patch for TODO comments.
// Markers are returned in the order they appear in the file.
func FindMarkers(path string, lines []DiffLine, cfg Config) []Marker {
	m := newMatcher(cfg)
	lang := GetLanguageForFile(path)

	var added []DiffLine
	for _, line := range lines {
		if line.Kind == LineAdded {
			added = append(added, line)
		}
	}

	var markers []Marker
	for i := 0; i < len(added); i++ {
		keyword, rawTitle, ok := m.matchMarker(stripComment(added[i].Text, lang))
		if !ok {
			continue
		}

		title, truncated := TruncateTitle(rawTitle)
		marker := Marker{
			Path:      path,
			Line:      added[i].Number,
			Keyword:   keyword,
			Title:     title,
			FullTitle: rawTitle,
			Truncated: truncated,
		}

		// continuation lines must directly follow the marker in the new file
		next := i + 1
		follows := func() (string, bool) {
			if next >= len(added) || added[next].Number != added[next-1].Number+1 {
				return "", false
			}
			text := stripComment(added[next].Text, lang)
			if _, _, isMarker := m.matchMarker(text); isMarker {
				return "", false
			}
			return text, true
		}

		if text, ok := follows(); ok {
			if labels, isLabels := parseLabels(text); isLabels {
				marker.Labels = labels
				next++
			} else if body, isBody := m.matchBody(text); isBody {
				marker.Body = body
				next++
				if text, ok := follows(); ok {
					if labels, isLabels := parseLabels(text); isLabels {
						marker.Labels = labels
						next++
					}
				}
			}
		}

		markers = append(markers, marker)
		i = next - 1
	}

	return markers
}
