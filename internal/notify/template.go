package notify

import "regexp"

// Токен подстановки в шаблоне сообщения: {$identifier}.
var tokenRe = regexp.MustCompile(`\{\$(\w+)\}`)

// Render подставляет значения vars в шаблон. Токен без значения
// остаётся в тексте как есть — не ошибка и не пустая строка.
// Чистая функция, без I/O.
func Render(template string, vars map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(template, func(token string) string {
		name := tokenRe.FindStringSubmatch(token)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return token
	})
}
