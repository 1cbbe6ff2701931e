package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	translatorOnce sync.Once
	translator     *I18n
)

// InitTranslator initializes the global translator from a directory of
// TOML message files (active.en.toml, active.es.toml, ...).
func InitTranslator(translationsPath string) error {
	var initErr error
	translatorOnce.Do(func() {
		translator = NewI18n(language.English)
		initErr = translator.LoadTranslations(translationsPath)
	})
	return initErr
}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// LoadTranslations loads translation files from the specified directory
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFile(filepath.Join(translationsDir, file.Name())); err != nil {
			return fmt.Errorf("failed to load %s: %w", file.Name(), err)
		}
	}

	return nil
}

// Translate returns a localized string for the given message ID and language.
// Unknown IDs fall back to the ID itself so a missing translation never
// breaks a response.
func (i *I18n) Translate(msgID, lang string, templateData map[string]interface{}) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	})
	if err != nil {
		return msgID
	}
	return msg
}

// LangFromRequest resolves the response language: explicit ?lang= query
// first, then the Accept-Language header.
func LangFromRequest(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		return header
	}
	return ""
}

// T translates a message ID in the language of the request.
func T(c *gin.Context, msgID string) string {
	return TData(c, msgID, nil)
}

// TData translates a message ID with template data in the language of the
// request.
func TData(c *gin.Context, msgID string, data map[string]interface{}) string {
	if translator == nil {
		// fall back to the bundled defaults next to the binary
		_ = InitTranslator("configs/i18n")
	}
	if translator == nil {
		return msgID
	}
	return translator.Translate(msgID, LangFromRequest(c), data)
}
