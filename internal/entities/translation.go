package entities

type TranslationInfo struct {
	ShortName  string `gorm:"primaryKey;size:32" json:"short_name"`
	Name       string `gorm:"not null" json:"name"`
	Language   string `gorm:"size:32;not null" json:"language"`
	Size       int64  `json:"size"`
	Downloaded bool   `gorm:"not null;default:false" json:"downloaded"`
}

func (TranslationInfo) TableName() string {
	return "translation_infos"
}

// BookName holds the full and abbreviated name of a book in one translation.
type BookName struct {
	TranslationShortName string `gorm:"primaryKey;size:32" json:"translation"`
	BookIndex            int    `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	Name                 string `gorm:"not null" json:"name"`
	ShortName            string `gorm:"not null" json:"short_name"`
}

func (BookName) TableName() string {
	return "book_names"
}
