package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone приводит номер телефона к цифровому виду для хранения.
// Используется только для контактных номеров покупателей; проверка
// владельца объявления сравнивает номера как есть, без нормализации.
func NormalizePhone(phoneNumber string) string {
	return nonDigits.ReplaceAllString(phoneNumber, "")
}

// DisplayPhone форматирует десятизначный номер США для отображения
func DisplayPhone(phoneNumber string) string {
	digits := NormalizePhone(phoneNumber)
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return phoneNumber
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}
