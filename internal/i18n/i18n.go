package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations loads the built-in English catalog plus every
// active.*.toml file found in localesDir (which may be empty).
func NewTranslations(lang, localesDir string) (*Translations, error) {
	if lang == "" {
		return nil, fmt.Errorf("language cannot be empty")
	}
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.ParseMessageFileBytes([]byte(defaultMessages), "default.en.toml"); err != nil {
		return nil, fmt.Errorf("error parsing built-in messages: %w", err)
	}

	if localesDir != "" {
		files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
		if err != nil {
			return nil, fmt.Errorf("error reading locales: %w", err)
		}
		for _, file := range files {
			if _, err := bundle.LoadMessageFile(file); err != nil {
				return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
			}
		}
	}

	return &Translations{
		bundle:   bundle,
		localize: i18n.NewLocalizer(bundle, lang),
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	cfg := &i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	}
	if count > 0 {
		cfg.PluralCount = count
	}
	localized, err := t.localize.Localize(cfg)
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
[app_usage]
other = "Publish CI pipeline reports and commit statuses to pull requests"

[publish_usage]
other = "Merge a report into the branch pull request and set the commit status"

[version_usage]
other = "Print the jci version"

[flag_status_usage]
other = "Pipeline status: pending, success, error, failure or warning"

[flag_report_file_usage]
other = "File containing the report; reads stdin when omitted"

[flag_raw_usage]
other = "Publish the report verbatim instead of wrapping it in a JayporeCi section"

[flag_log_file_usage]
other = "Write the log lines of this run to a file"

[flag_config_usage]
other = "Path to the configuration file (default: .jci.toml at the repository root)"

[flag_debug_usage]
other = "Enable debug logging"

[flag_verbose_usage]
other = "Enable informational logging"

[publish_success]
other = "Published {{.Status}} for {{.SHA}} on {{.Remote}}"

[label_branch]
other = "Branch"

[log_lines_written]
one = "Wrote {{.Count}} log line to {{.Path}}"
other = "Wrote {{.Count}} log lines to {{.Path}}"

[error_read_report]
other = "could not read the report"

[error_write_log]
other = "could not write the run log"

[error_publish]
other = "publishing failed"

[ui_error_try_suggestion]
other = "Try: "

[ui_error_details]
other = "Details: "
`
