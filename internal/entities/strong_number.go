package entities

import (
	"strconv"
	"strings"
)

// StrongNumber is a lexicon entry, e.g. "H430" or "G2316".
type StrongNumber struct {
	Number  string `gorm:"primaryKey;size:16" json:"number"`
	Meaning string `gorm:"type:text;not null" json:"meaning"`
}

func (StrongNumber) TableName() string {
	return "strong_numbers"
}

// StrongNumberVerse stores the Strong's numbers used by a verse, in order.
type StrongNumberVerse struct {
	VerseIndex `gorm:"embedded"`
	Numbers    string `gorm:"not null" json:"numbers"`
}

func (StrongNumberVerse) TableName() string {
	return "strong_number_verses"
}

// FormatStrongNumber prefixes a numeric Strong's number with H for the Old
// Testament and G for the New Testament.
func FormatStrongNumber(bookIndex, number int) string {
	if IsOldTestament(bookIndex) {
		return "H" + strconv.Itoa(number)
	}
	return "G" + strconv.Itoa(number)
}

func JoinStrongNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func SplitStrongNumbers(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}
