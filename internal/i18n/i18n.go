package i18n

import (
	"fmt"
	"strings"

	"github.com/ks-platform/passport/internal/constants"

	"github.com/gin-gonic/gin"
)

// ResolveLocale 解析请求语言
// 优先级：?locale= 参数 -> Accept-Language 头 -> 默认 zh-CN。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleZhCN
	}
	if locale := matchLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := matchLocale(lang); locale != "" {
			return locale
		}
	}
	return constants.LocaleZhCN
}

// T 按语言取翻译文案，缺失时按支持语言顺序回退，最后回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[normalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	for _, fallback := range constants.SupportedLocales {
		if msg, ok := messages[fallback][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 取翻译文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func normalizeLocale(locale string) string {
	if matched := matchLocale(locale); matched != "" {
		return matched
	}
	return constants.LocaleZhCN
}

func matchLocale(locale string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return ""
	}
	for _, supported := range constants.SupportedLocales {
		if strings.EqualFold(trimmed, supported) {
			return supported
		}
	}
	// 仅匹配语言主标签，如 zh -> zh-CN、en -> en-US
	primary := strings.ToLower(strings.SplitN(trimmed, "-", 2)[0])
	switch primary {
	case "zh":
		return constants.LocaleZhCN
	case "en":
		return constants.LocaleEnUS
	}
	return ""
}
