// Package i18n supplies bilingual UI strings and message builders, and tracks
// each player's language preference.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"culture-millionaire/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Key identifies a static UI string.
type Key string

const (
	KeyMenuTitleTop    Key = "menu.title_top"
	KeyMenuTitleBottom Key = "menu.title_bottom"
	KeyPlayButton      Key = "menu.play"
	KeyLifelinesTitle  Key = "menu.lifelines"
	KeyLeaderboard     Key = "menu.leaderboard"
	KeySettings        Key = "menu.settings"
	KeyHowToPlay       Key = "menu.how_to_play"
	KeyMenuBack        Key = "menu.back"
	KeyGameTitle       Key = "game.title"
	KeyWinningsLabel   Key = "game.winnings"
	KeyCashOutButton   Key = "game.cash_out"
	KeyPrizeLadder     Key = "game.prize_ladder"
	KeyCurrentPrize    Key = "game.current_prize"
	KeySafeLevel       Key = "game.safe_level"
	KeyEliminated      Key = "game.eliminated"
	KeyModalContinue   Key = "modal.continue"
	KeyModalPlayAgain  Key = "modal.play_again"

	keyWinTitle        Key = "modal.win.title"
	keyWinMessage      Key = "modal.win.message"
	keyGameOverTitle   Key = "modal.game_over.title"
	keyGameOverMessage Key = "modal.game_over.message"
	keyWithdrawTitle   Key = "modal.withdraw.title"
	keyWithdrawMessage Key = "modal.withdraw.message"
	keyAmount          Key = "amount"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var localeTags = map[domain.Language]language.Tag{
	domain.LanguageSpanish: language.Spanish,
	domain.LanguageEnglish: language.English,
}

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog resolves keys and builds formatted messages for every supported language.
type Catalog struct {
	builder  *catalog.Builder
	messages map[domain.Language]map[Key]string
}

// LoadEmbedded loads the locale files compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// MustLoadEmbedded panics if the embedded catalogs are broken.
func MustLoadEmbedded() *Catalog {
	c, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFromFS reads locales/*.yaml from fsys. Every supported language must be
// present and all locales must define the same keys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(language.Spanish)),
		messages: make(map[domain.Language]map[Key]string, len(localeTags)),
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", path, err)
		}
		if err := c.add(path, file); err != nil {
			return nil, err
		}
	}

	for lang := range localeTags {
		if _, ok := c.messages[lang]; !ok {
			return nil, fmt.Errorf("locale %q is not defined", lang)
		}
	}
	base := c.messages[domain.LanguageSpanish]
	for lang, msgs := range c.messages {
		if len(msgs) != len(base) {
			return nil, fmt.Errorf("locale %q defines %d keys, %q defines %d", lang, len(msgs), domain.LanguageSpanish, len(base))
		}
		for key := range base {
			if _, ok := msgs[key]; !ok {
				return nil, fmt.Errorf("locale %q is missing key %q", lang, key)
			}
		}
	}
	return c, nil
}

func (c *Catalog) add(path string, file localeFile) error {
	lang, err := domain.ParseLanguage(file.Locale)
	if err != nil {
		return fmt.Errorf("locale %s: %w", path, err)
	}
	if _, exists := c.messages[lang]; exists {
		return fmt.Errorf("locale %s: %q already loaded", path, lang)
	}
	tag := localeTags[lang]
	msgs := make(map[Key]string, len(file.Messages))
	for rawKey, value := range file.Messages {
		key := Key(strings.TrimSpace(rawKey))
		if key == "" {
			return fmt.Errorf("locale %s: blank key", path)
		}
		if err := c.builder.SetString(tag, string(key), value); err != nil {
			return fmt.Errorf("locale %s: register %q: %w", path, key, err)
		}
		msgs[key] = value
	}
	c.messages[lang] = msgs
	return nil
}

func (c *Catalog) printer(lang domain.Language) *message.Printer {
	tag, ok := localeTags[lang]
	if !ok {
		tag = language.Spanish
	}
	return message.NewPrinter(tag, message.Catalog(c.builder))
}

func (c *Catalog) format(lang domain.Language, key Key, args ...any) string {
	return c.printer(lang).Sprintf(string(key), args...)
}

// Text returns a static label. Unknown keys are returned verbatim.
func (c *Catalog) Text(key Key, lang domain.Language) string {
	if msgs, ok := c.messages[lang]; ok {
		if value, ok := msgs[key]; ok {
			return value
		}
	}
	if value, ok := c.messages[domain.LanguageSpanish][key]; ok {
		return value
	}
	return string(key)
}

func (c *Catalog) CurrentPrizeLabel(lang domain.Language) string {
	return c.Text(KeyCurrentPrize, lang)
}

func (c *Catalog) SafeLevelLabel(lang domain.Language) string {
	return c.Text(KeySafeLevel, lang)
}

// EliminatedTag marks options removed by the 50:50 lifeline.
func (c *Catalog) EliminatedTag(lang domain.Language) string {
	return c.Text(KeyEliminated, lang)
}

// FormatAmount renders a prize with currency sign and locale digit grouping.
func (c *Catalog) FormatAmount(lang domain.Language, amount int) string {
	return c.format(lang, keyAmount, amount)
}

func lifelineKey(kind domain.LifelineKind, suffix string) Key {
	return Key("lifeline." + string(kind) + "." + suffix)
}

// LifelineName is the short button label of a lifeline.
func (c *Catalog) LifelineName(kind domain.LifelineKind, lang domain.Language) string {
	return c.Text(lifelineKey(kind, "name"), lang)
}

func (c *Catalog) LifelineTitle(kind domain.LifelineKind, lang domain.Language) string {
	return c.Text(lifelineKey(kind, "title"), lang)
}

// LifelineMessage builds the modal body; hint is only used by the expert lifeline.
func (c *Catalog) LifelineMessage(kind domain.LifelineKind, lang domain.Language, hint string) string {
	if kind == domain.LifelineExpert {
		return c.format(lang, lifelineKey(kind, "message"), hint)
	}
	return c.Text(lifelineKey(kind, "message"), lang)
}

func (c *Catalog) WinTitle(lang domain.Language) string {
	return c.Text(keyWinTitle, lang)
}

func (c *Catalog) WinMessage(lang domain.Language, amount int) string {
	return c.format(lang, keyWinMessage, amount)
}

func (c *Catalog) GameOverTitle(lang domain.Language) string {
	return c.Text(keyGameOverTitle, lang)
}

func (c *Catalog) GameOverMessage(lang domain.Language, correctAnswer string, safePrize int) string {
	return c.format(lang, keyGameOverMessage, correctAnswer, safePrize)
}

func (c *Catalog) WithdrawTitle(lang domain.Language) string {
	return c.Text(keyWithdrawTitle, lang)
}

func (c *Catalog) WithdrawMessage(lang domain.Language, amount int) string {
	return c.format(lang, keyWithdrawMessage, amount)
}
