package service

import (
	"fmt"
	"strings"
	"unicode"
)

/**
 * @time: 2025/11/02
 * @file: slug.go
 * @description: 组织 slug 生成
 */

// Slugify 组织名转 URL 标识: 小写, 非字母数字折叠为单个连字符, 去首尾连字符
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // 抑制前导连字符
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueSlug 冲突时追加 -1, -2 ... 直到唯一
func uniqueSlug(base string, exists func(slug string) (bool, error)) (string, error) {
	if base == "" {
		base = "org"
	}
	taken, err := exists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
