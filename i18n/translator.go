package i18n

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":    "expected {expected}",
		"required":        "must have required property '{key}'",
		"unknown_key":     "unexpected property '{key}'",
		"too_short":       "expected length >= {limit}",
		"too_long":        "expected length <= {limit}",
		"too_small":       "expected value {op} {limit}",
		"too_big":         "expected value {op} {limit}",
		"not_multiple":    "expected a multiple of {limit}",
		"pattern":         "expected string to match '{pattern}'",
		"invalid_enum":    "expected one of {values}",
		"invalid_literal": "expected {expected}",
		"invalid_format":  "expected string to match '{format}' format",
		"union":           "expected value of union",
		"not_unique":      "expected unique items",
		"transform":       "transform failed",
		"duplicate_key":   "duplicate property '{key}'",
		"schema":          "schema violation",
	},
	"ja": {
		"invalid_type":    "型が不正です ({expected} が必要です)",
		"required":        "必須プロパティ '{key}' が不足しています",
		"unknown_key":     "未知のキー '{key}' です",
		"too_short":       "短すぎます (長さ >= {limit})",
		"too_long":        "長すぎます (長さ <= {limit})",
		"too_small":       "小さすぎます ({op} {limit})",
		"too_big":         "大きすぎます ({op} {limit})",
		"not_multiple":    "{limit} の倍数ではありません",
		"pattern":         "パターン '{pattern}' に一致しません",
		"invalid_enum":    "{values} のいずれかである必要があります",
		"invalid_literal": "{expected} である必要があります",
		"invalid_format":  "フォーマット '{format}' に一致しません",
		"union":           "いずれの型にも一致しません",
		"not_unique":      "要素が重複しています",
		"transform":       "変換に失敗しました",
		"duplicate_key":   "プロパティ '{key}' が重複しています",
		"schema":          "スキーマ違反です",
	},
}

// supported lists the built-in languages; the first is the fallback.
var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{dictTranslator{lang: "en"}}) }

// Match resolves a language tag or Accept-Language value to a built-in
// language ("en" or "ja").
func Match(lang string) string {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	if base.String() == "ja" {
		return "ja"
	}
	return "en"
}

// SetLanguage switches the built-in Translator language. Anything that does
// not match a built-in language falls back to English.
func SetLanguage(lang string) {
	current.Store(holder{dictTranslator{lang: Match(lang)}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
