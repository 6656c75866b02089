// title/split.go
package title

import (
	"strings"
	"unicode/utf8"
)

// Result is a listing title separated into its Chinese and English halves.
type Result struct {
	Chinese string `json:"chinese_title"`
	English string `json:"english_title"`
}

// Rule names the step of the cascade that produced a Result.
type Rule string

const (
	RuleNoChinese      Rule = "no_chinese"
	RuleNoEnglish      Rule = "no_english"
	RuleSequelNumber   Rule = "sequel_number"
	RuleFullWidthColon Rule = "fullwidth_colon"
	RuleMiddleDot      Rule = "middle_dot"
	RuleBoundary       Rule = "boundary"
	RuleColon          Rule = "colon"
	RuleTokens         Rule = "tokens"
	RuleNumberedColon  Rule = "numbered_colon"
	RuleParenthesized  Rule = "parenthesized"
	RuleFallback       Rule = "fallback"
)

type rule struct {
	name  Rule
	apply func(string) (Result, bool)
}

// cascade is tried in order after the two fast paths. Order matters: the
// sequel-number and colon rules must see the title before the generic
// boundary scan does.
var cascade = []rule{
	{RuleSequelNumber, splitSequelNumber},
	{RuleFullWidthColon, splitFullWidthColon},
	{RuleMiddleDot, splitMiddleDot},
	{RuleBoundary, splitAtBoundary},
	{RuleColon, splitAtColon},
	{RuleTokens, splitTokens},
	{RuleNumberedColon, splitNumberedColon},
	{RuleParenthesized, splitParenthesized},
}

// Split separates a mixed Chinese/English movie title, e.g.
// "海洋奇緣2 Moana 2" becomes ("海洋奇緣2", "Moana 2").
//
// Split is total: any input, including "" and invalid UTF-8, yields two
// trimmed strings. A title without CJK ideographs is returned as English,
// a title without ASCII letters as Chinese, and a title no rule can split
// is returned whole as Chinese.
func Split(s string) (chinese, english string) {
	res, _ := Explain(s)
	return res.Chinese, res.English
}

// Explain is Split plus the name of the rule that decided the result.
func Explain(s string) (Result, Rule) {
	s = strings.TrimSpace(s)
	if !HasChinese(s) {
		return Result{English: s}, RuleNoChinese
	}
	if !HasEnglish(s) {
		return Result{Chinese: s}, RuleNoEnglish
	}

	for _, r := range cascade {
		res, ok := r.apply(s)
		if !ok {
			continue
		}
		res.Chinese = strings.TrimSpace(res.Chinese)
		res.English = strings.TrimSpace(res.English)
		// A rule that loses every CJK rune from the Chinese side is wrong
		// for this title; let the next one try.
		if !HasChinese(res.Chinese) {
			continue
		}
		return res, r.name
	}
	return Result{Chinese: s}, RuleFallback
}

// HasChinese reports whether s contains a CJK Unified Ideograph.
func HasChinese(s string) bool {
	return strings.IndexFunc(s, isCJK) >= 0
}

// HasEnglish reports whether s contains an ASCII letter.
func HasEnglish(s string) bool {
	return strings.IndexFunc(s, isLatin) >= 0
}

func isCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

func isLatin(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// lastChinese returns the byte span of the last CJK rune in s, or (-1, -1).
func lastChinese(s string) (start, end int) {
	start = strings.LastIndexFunc(s, isCJK)
	if start < 0 {
		return -1, -1
	}
	_, size := utf8.DecodeRuneInString(s[start:])
	return start, start + size
}
