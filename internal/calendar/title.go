package calendar

import "strings"

// Разделитель частей в названии события: "Имя - Услуга - Телефон".
const titleDelimiter = " - "

// ParsedTitle — разобранное название события календаря.
// Отсутствующие части — nil, не пустые строки.
type ParsedTitle struct {
	Name    *string
	Service string
	Phone   *string
}

// ParseEventTitle разбирает название события по соглашению
// "Имя - Услуга - Телефон". Единственный источник правды для этого формата.
//
// Ветки явные:
//   - два и более разделителя: имя, услуга, телефон (телефон — остаток как есть);
//   - ровно один: имя, услуга;
//   - ни одного: всё название — услуга.
//
// Все части обрезаются от пробелов. Никогда не возвращает ошибку.
func ParseEventTitle(title string) ParsedTitle {
	switch strings.Count(title, titleDelimiter) {
	case 0:
		return ParsedTitle{Service: strings.TrimSpace(title)}
	case 1:
		parts := strings.SplitN(title, titleDelimiter, 2)
		name := strings.TrimSpace(parts[0])
		return ParsedTitle{
			Name:    &name,
			Service: strings.TrimSpace(parts[1]),
		}
	default:
		parts := strings.SplitN(title, titleDelimiter, 3)
		name := strings.TrimSpace(parts[0])
		phone := strings.TrimSpace(parts[2])
		return ParsedTitle{
			Name:    &name,
			Service: strings.TrimSpace(parts[1]),
			Phone:   &phone,
		}
	}
}

// BuildEventTitle собирает название события из полей записи —
// обратная операция к ParseEventTitle. Пустые крайние части срезаются
// вместе со своими разделителями: ("", "Hair Cut", "") -> "Hair Cut".
func BuildEventTitle(name, service, phone string) string {
	title := name + titleDelimiter + service + titleDelimiter + phone
	return strings.Trim(title, " -")
}
