// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for
// Randlab. It uses the go-i18n library to load and manage translation files,
// allowing the user interface to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all the loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer is used to translate messages into a specific language.
var localizer *i18n.Localizer

// currentLang tracks the active language tag.
var currentLang string

// displayNames maps locale tags to the names shown in the language picker.
var displayNames = map[string]string{
	"en": "English",
	"de": "Deutsch",
}

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// It parses all embedded YAML files from the 'locales' directory.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	localizer = i18n.NewLocalizer(bundle, lang)
	currentLang = lang
}

// T translates a message by its ID. Extra args are applied with fmt.Sprintf
// against the translated template, unless a single map is passed, which is
// used as go-i18n template data instead. If the i18n system has not been
// initialized, it defaults to English. An unknown ID returns the ID itself.
func T(messageID string, args ...interface{}) string {
	if localizer == nil {
		Init("en")
	}
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(args) == 1 {
		if m, ok := args[0].(map[string]interface{}); ok {
			cfg.TemplateData = m
			args = nil
		}
	}
	msg, err := localizer.Localize(cfg)
	if err != nil {
		// If the message ID is not found, go-i18n returns an error.
		// In this case, we return the message ID itself as a fallback.
		msg = messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// GetLang returns the active language tag.
func GetLang() string {
	if currentLang == "" {
		return "en"
	}
	return currentLang
}

// GetAvailableLocales returns the embedded locale tags mapped to their
// display names.
func GetAvailableLocales() map[string]string {
	available := map[string]string{}
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		// Locale files are named active.<tag>.yaml.
		name := f.Name()
		if len(name) < len("active.x.yaml") {
			continue
		}
		tag := name[len("active.") : len(name)-len(".yaml")]
		if display, ok := displayNames[tag]; ok {
			available[tag] = display
		} else {
			available[tag] = tag
		}
	}
	return available
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}
