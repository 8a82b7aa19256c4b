// Package i18n loads the user-facing messages of the CLI and TUI. English
// and Arabic ship embedded in the binary; English is the fallback for
// unknown languages and missing messages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/go-i2p/logger"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var log = logger.GetGoI2PLogger()

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   string
)

// Init parses the embedded locale files and selects lang.
func Init(lang string) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		log.WithError(err).Error("failed to list embedded locales")
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			log.WithError(err).WithField("file", f.Name()).Error("failed to read locale")
			continue
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			log.WithError(err).WithField("file", f.Name()).Error("failed to parse locale")
		}
	}

	mu.Lock()
	bundle = b
	localizer = i18n.NewLocalizer(b, lang)
	current = lang
	mu.Unlock()

	log.WithFields(logger.Fields{
		"at":   "Init",
		"lang": lang,
	}).Debug("localizer initialised")
}

// SetLang changes the active language.
func SetLang(lang string) {
	Init(lang)
}

// Lang returns the language passed to the last Init or SetLang.
func Lang() string {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Languages returns the tags of the embedded locales.
func Languages() []string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		Init("en")
		mu.RLock()
		b = bundle
		mu.RUnlock()
	}

	tags := b.LanguageTags()
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}

// T translates messageID. With args the message is used as a fmt format.
// An unknown ID is returned unchanged. T initialises English on first use.
func T(messageID string, args ...interface{}) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()
	if l == nil {
		Init("en")
		mu.RLock()
		l = localizer
		mu.RUnlock()
	}

	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
