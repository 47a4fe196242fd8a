package services

import "errors"

var (
	ErrInvalidVerseIndex              = errors.New("invalid verse index")
	ErrInvalidSortOrder               = errors.New("invalid sort order")
	ErrInvalidHighlightColor          = errors.New("invalid highlight color")
	ErrInvalidSettings                = errors.New("invalid settings")
	ErrNoCurrentTranslation           = errors.New("no current translation selected")
	ErrTranslationNotFound            = errors.New("translation not found")
	ErrTranslationNotDownloaded       = errors.New("translation not downloaded")
	ErrCannotRemoveCurrentTranslation = errors.New("cannot remove the current translation")
	ErrDownloadInProgress             = errors.New("download already in progress")
	ErrVerseNotFound                  = errors.New("verse not found")
	ErrAnnotationNotFound             = errors.New("annotation not found")
	ErrEmptyQuery                     = errors.New("empty search query")
)

