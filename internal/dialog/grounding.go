package dialog

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	citationPrefix = "chunk:"

	minTokenLen   = 4
	minSharedHits = 2
)

var citationRe = regexp.MustCompile(`\[chunk:([^\]]+)\]`)

type GroundingResult struct {
	Text    string
	UsedIDs []string
	Kept    int
	Dropped int
}

// FilterGrounded оставляет только строки, которые цитируют разрешенный фрагмент
// и лексически им подтверждены. Строки не редактируются, только целиком выкидываются.
func FilterGrounded(answer string, permitted []Fragment) GroundingResult {
	byID := make(map[string]Fragment, len(permitted))
	for _, f := range permitted {
		byID[fragmentKey(f.ID)] = f
	}

	var (
		res  GroundingResult
		kept []string
		seen = map[string]bool{}
	)

	for _, line := range splitLines(answer) {
		supported := false
		for _, id := range citations(line) {
			f, ok := byID[id]
			if !ok || !hasSupport(line, f.Text) {
				continue
			}
			supported = true
			if !seen[f.ID] {
				seen[f.ID] = true
				res.UsedIDs = append(res.UsedIDs, f.ID)
			}
		}
		if !supported {
			res.Dropped++
			continue
		}
		kept = append(kept, line)
	}

	res.Kept = len(kept)
	res.Text = strings.Join(kept, "\n")
	return res
}

// StripCitations убирает служебные маркеры [chunk:...] из текста для пользователя.
func StripCitations(text string) string {
	lines := splitLines(citationRe.ReplaceAllString(text, ""))
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func citations(line string) []string {
	matches := citationRe.FindAllStringSubmatch(line, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func fragmentKey(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), citationPrefix)
}

// hasSupport: минимум два общих токена длиной от 4 символов, порядок не важен.
func hasSupport(line, fragmentText string) bool {
	frag := map[string]bool{}
	for _, t := range tokenize(fragmentText) {
		frag[t] = true
	}

	hits := 0
	counted := map[string]bool{}
	for _, t := range tokenize(citationRe.ReplaceAllString(line, " ")) {
		if !frag[t] || counted[t] {
			continue
		}
		counted[t] = true
		hits++
		if hits >= minSharedHits {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLen {
			out = append(out, f)
		}
	}
	return out
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
