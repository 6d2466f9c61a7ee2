package pipeline

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// denylist 不安全输入特征 (脚本注入标记)
// 输入可能已被 HTML 转义，两种形态都要覆盖
var denylist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(<|&lt;)\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)(<|&lt;)\s*iframe`),
	regexp.MustCompile(`(?i)\bon(error|load|click)\s*=`),
}

// Sanitize 输入净化
// HTML 转义 + 去掉空字节和控制字符
func Sanitize(input string) string {
	if input == "" {
		return ""
	}

	clean := html.EscapeString(input)
	clean = strings.ReplaceAll(clean, "\x00", "")
	clean = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, clean)

	return clean
}

// validateInput 校验输入；返回非空字符串表示拒绝原因
// 长度按转义前的字符数计，HTML 实体和多字节字符都只算一个
func validateInput(input string, maxLength int) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "input is empty"
	}
	if maxLength > 0 && utf8.RuneCountInString(html.UnescapeString(input)) > maxLength {
		return fmt.Sprintf("input exceeds maximum length of %d characters", maxLength)
	}
	for _, re := range denylist {
		if re.MatchString(input) {
			return "input contains disallowed content"
		}
	}
	return ""
}
