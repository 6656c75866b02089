// title/rules.go
package title

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	fullWidthColon     = "："
	boundarySeparators = " ·:,-"
)

var (
	// "366日 366 Days": the same number leads both halves.
	sequelNumberRe = regexp.MustCompile(`^(\d+)([^\s\d]+)\s+(\d+)(\s+[A-Za-z].*)$`)

	// A run of English text: a letter followed by letters, digits, spaces
	// and the punctuation English titles use.
	englishRunRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9\s!?.,:;'"\-&+()\[\]{}]*`)

	// "夏之庭(The Friends)"
	parenSuffixRe = regexp.MustCompile(`^(.+?)\s*\(([^)]*[A-Za-z][^)]*)\)$`)
)

func splitSequelNumber(s string) (Result, bool) {
	m := sequelNumberRe.FindStringSubmatch(s)
	if m == nil || m[1] != m[3] || HasChinese(m[4]) {
		return Result{}, false
	}
	return Result{Chinese: m[1] + m[2], English: m[3] + m[4]}, true
}

// splitFullWidthColon handles "不可能的任務：最終清算 Mission: Impossible".
// The Chinese title may continue after the colon, so the English half
// starts at the first English run following the last CJK rune.
func splitFullWidthColon(s string) (Result, bool) {
	pre, post, ok := strings.Cut(s, fullWidthColon)
	if !ok || !HasChinese(pre) || !HasEnglish(post) {
		return Result{}, false
	}
	pre = strings.TrimSpace(pre)

	if !HasChinese(post) {
		return Result{Chinese: pre, English: post}, true
	}

	_, end := lastChinese(post)
	for _, loc := range englishRunRe.FindAllStringIndex(post, -1) {
		if loc[0] < end {
			continue
		}
		lead := strings.TrimSpace(post[:loc[0]])
		return Result{
			Chinese: pre + fullWidthColon + lead,
			English: post[loc[0]:],
		}, true
	}
	return Result{}, false
}

// splitMiddleDot handles "獵金·遊戲 A Gilded Game", where the dot would
// otherwise look like a separator to the boundary scan.
func splitMiddleDot(s string) (Result, bool) {
	if !strings.Contains(s, "·") {
		return Result{}, false
	}
	space := strings.Index(s, " ")
	if space < 0 {
		return Result{}, false
	}

	var res Result
	last, end := lastChinese(s)
	if last < space {
		res = Result{Chinese: s[:space], English: s[space+1:]}
	} else {
		res = Result{Chinese: s[:end], English: s[end:]}
	}
	if !HasEnglish(res.English) || HasChinese(res.English) {
		return Result{}, false
	}
	return res, true
}

// splitAtBoundary splits at the first ASCII letter when it comes after the
// last CJK rune and only separators lie between them. A double space marks
// a boundary whatever else sits in the gap.
func splitAtBoundary(s string) (Result, bool) {
	_, end := lastChinese(s)
	first := strings.IndexFunc(s, isLatin)
	if end < 0 || first < end {
		return Result{}, false
	}

	between := s[end:first]
	if strings.Trim(between, boundarySeparators) != "" && !strings.Contains(between, "  ") {
		return Result{}, false
	}
	return Result{
		Chinese: strings.Trim(s[:first], boundarySeparators),
		English: s[first:],
	}, true
}

func splitAtColon(s string) (Result, bool) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Result{}, false
	}
	before := strings.TrimSpace(s[:i])
	after := strings.TrimSpace(s[i+1:])

	// "中文 Title: Subtitle": the word before the colon is English.
	if sp := strings.LastIndex(before, " "); sp >= 0 {
		head := strings.TrimSpace(before[:sp])
		tail := strings.TrimSpace(before[sp+1:])
		if acceptable(head, tail) {
			return Result{Chinese: head, English: tail + ": " + after}, true
		}
	}
	if acceptable(before, after) {
		return Result{Chinese: before, English: after}, true
	}
	return Result{}, false
}

func splitTokens(s string) (Result, bool) {
	words := strings.Fields(s)
	for i := 1; i < len(words); i++ {
		if !HasChinese(words[i-1]) || !HasEnglish(words[i]) || HasChinese(words[i]) {
			continue
		}
		// "夏之庭(The Friends)": the English run opens inside the
		// previous token, so this is not a boundary.
		if opensAfterChinese(words[i-1]) {
			continue
		}
		if slices.ContainsFunc(words[i+1:], HasChinese) {
			continue
		}
		return Result{
			Chinese: strings.Join(words[:i], " "),
			English: strings.Join(words[i:], " "),
		}, true
	}
	return Result{}, false
}

// splitNumberedColon handles "怪獸8號：..." shapes the earlier colon rule
// rejected. The digits stay with the Chinese half.
func splitNumberedColon(s string) (Result, bool) {
	pre, post, ok := strings.Cut(s, fullWidthColon)
	if !ok {
		return Result{}, false
	}
	pre = strings.TrimSpace(pre)
	r, _ := utf8.DecodeLastRuneInString(pre)
	if !isDigit(r) || !acceptable(pre, post) {
		return Result{}, false
	}
	return Result{Chinese: pre, English: post}, true
}

func splitParenthesized(s string) (Result, bool) {
	m := parenSuffixRe.FindStringSubmatch(s)
	if m == nil || HasChinese(m[2]) {
		return Result{}, false
	}
	return Result{Chinese: m[1], English: m[2]}, true
}

// opensAfterChinese reports whether w has a bracket after its last CJK rune
// that is not closed within w.
func opensAfterChinese(w string) bool {
	_, end := lastChinese(w)
	if end < 0 {
		return false
	}
	rest := w[end:]
	return strings.ContainsAny(rest, "(（") && !strings.ContainsAny(rest, ")）")
}

func acceptable(chinese, english string) bool {
	return HasChinese(chinese) && HasEnglish(english) && !HasChinese(english)
}
