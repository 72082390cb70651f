// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultLang = "en"

// I18nMiddleware picks the first supported language from Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := resolveLang(c.GetHeader("Accept-Language"))

		c.Set("lang", lang)
		c.Header("Content-Language", strings.ReplaceAll(lang, "_", "-"))
		c.Next()
	}
}

// resolveLang handles values like "zh-TW,zh;q=0.9,en;q=0.8".
func resolveLang(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		switch strings.ToLower(strings.ReplaceAll(tag, "_", "-")) {
		case "zh-tw", "zh-hant", "zh-hk":
			return "zh_TW"
		case "en", "en-us", "en-gb":
			return "en"
		}
	}
	return defaultLang
}
