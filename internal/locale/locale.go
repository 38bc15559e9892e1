// Package locale holds the user-facing strings of the blog in Dutch and
// English, backed by golang.org/x/text catalogs.
package locale

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	MsgMissingCredentials = "login.missing_credentials"
	MsgUnknownUser        = "login.unknown_user"
	MsgWrongPassword      = "login.wrong_password"
	MsgGitHubUnknown      = "login.github_unknown"
	MsgGitHubFailed       = "login.github_failed"
	MsgPageTitleLogin     = "title.login"
	MsgPageTitleEdit      = "title.edit_article"
	MsgPageTitleNotFound  = "title.not_found"
	MsgPageTitleError     = "title.error"
	MsgArticleSaved       = "edit.saved"
)

// Interface strings of the built-in theme.
const (
	UINoArticles   = "ui.no_articles"
	UIArchive      = "ui.archive"
	UICategory     = "ui.category"
	UICategories   = "ui.categories"
	UITag          = "ui.tag"
	UIPrev         = "ui.prev"
	UINext         = "ui.next"
	UIEdit         = "ui.edit"
	UIComments     = "ui.comments"
	UIName         = "ui.name"
	UIEmail        = "ui.email"
	UIComment      = "ui.comment"
	UIPost         = "ui.post"
	UITitle        = "ui.title"
	UIPublished    = "ui.published"
	UIImage        = "ui.image"
	UILead         = "ui.lead"
	UIBody         = "ui.body"
	UINew          = "ui.new"
	UISave         = "ui.save"
	UINewArticle   = "ui.new_article"
	UILogin        = "ui.login"
	UILogout       = "ui.logout"
	UIUsername     = "ui.username"
	UIPassword     = "ui.password"
	UILoginGitHub  = "ui.login_github"
	UINotFoundText = "ui.not_found_text"
	UIBackHome     = "ui.back_home"
	UIErrorText    = "ui.error_text"
	UIReference    = "ui.reference"
	UIAdd          = "ui.add"
	UIView         = "ui.view"
	UIOverview     = "ui.overview"
)

var entries = map[string]map[language.Tag]string{
	MsgMissingCredentials: {
		language.Dutch:   "Vul a.u.b. uw gebruikersnaam en wachtwoord in",
		language.English: "Please enter your username and password",
	},
	MsgUnknownUser: {
		language.Dutch:   "Geen gebruiker gevonden met die naam",
		language.English: "No user found with that name",
	},
	MsgWrongPassword: {
		language.Dutch:   "Incorrect wachtwoord",
		language.English: "Incorrect password",
	},
	MsgGitHubUnknown: {
		language.Dutch:   "Geen gebruiker gekoppeld aan GitHub-account %s",
		language.English: "No user is linked to GitHub account %s",
	},
	MsgGitHubFailed: {
		language.Dutch:   "Inloggen met GitHub is mislukt",
		language.English: "Signing in with GitHub failed",
	},
	MsgPageTitleLogin: {
		language.Dutch:   "Inloggen",
		language.English: "Login",
	},
	MsgPageTitleEdit: {
		language.Dutch:   "Artikel bewerken",
		language.English: "Edit article",
	},
	MsgPageTitleNotFound: {
		language.Dutch:   "Pagina niet gevonden",
		language.English: "Page not found",
	},
	MsgPageTitleError: {
		language.Dutch:   "Er is iets misgegaan",
		language.English: "Something went wrong",
	},
	MsgArticleSaved: {
		language.Dutch:   "Het artikel is opgeslagen",
		language.English: "The article has been saved",
	},
}

var ui = map[string]map[language.Tag]string{
	UINoArticles:   {language.Dutch: "Geen artikelen gevonden.", language.English: "No articles found."},
	UIArchive:      {language.Dutch: "Archief", language.English: "Archive"},
	UICategory:     {language.Dutch: "Categorie", language.English: "Category"},
	UICategories:   {language.Dutch: "Categorieën", language.English: "Categories"},
	UITag:          {language.Dutch: "Tag: %s", language.English: "Tag: %s"},
	UIPrev:         {language.Dutch: "« Vorige", language.English: "« Previous"},
	UINext:         {language.Dutch: "Volgende »", language.English: "Next »"},
	UIEdit:         {language.Dutch: "Bewerken", language.English: "Edit"},
	UIComments:     {language.Dutch: "Reacties", language.English: "Comments"},
	UIName:         {language.Dutch: "Naam", language.English: "Name"},
	UIEmail:        {language.Dutch: "E-mail", language.English: "Email"},
	UIComment:      {language.Dutch: "Reactie", language.English: "Comment"},
	UIPost:         {language.Dutch: "Plaatsen", language.English: "Post"},
	UITitle:        {language.Dutch: "Titel", language.English: "Title"},
	UIPublished:    {language.Dutch: "Gepubliceerd", language.English: "Published"},
	UIImage:        {language.Dutch: "Afbeelding", language.English: "Image"},
	UILead:         {language.Dutch: "Intro", language.English: "Intro"},
	UIBody:         {language.Dutch: "Tekst", language.English: "Text"},
	UINew:          {language.Dutch: "Nieuw", language.English: "New"},
	UISave:         {language.Dutch: "Opslaan", language.English: "Save"},
	UINewArticle:   {language.Dutch: "Nieuw artikel", language.English: "New article"},
	UILogin:        {language.Dutch: "Inloggen", language.English: "Log in"},
	UILogout:       {language.Dutch: "Uitloggen", language.English: "Log out"},
	UIUsername:     {language.Dutch: "Gebruikersnaam", language.English: "Username"},
	UIPassword:     {language.Dutch: "Wachtwoord", language.English: "Password"},
	UILoginGitHub:  {language.Dutch: "Inloggen met GitHub", language.English: "Log in with GitHub"},
	UINotFoundText: {language.Dutch: "De opgevraagde pagina bestaat niet.", language.English: "The requested page does not exist."},
	UIBackHome:     {language.Dutch: "Terug naar de voorpagina", language.English: "Back to the front page"},
	UIErrorText:    {language.Dutch: "Probeer het later opnieuw.", language.English: "Please try again later."},
	UIReference:    {language.Dutch: "Referentie", language.English: "Reference"},
	UIAdd:          {language.Dutch: "Toevoegen", language.English: "Add"},
	UIView:         {language.Dutch: "Bekijken", language.English: "View"},
	UIOverview:     {language.Dutch: "Overzicht", language.English: "Overview"},
}

var months = map[language.Tag][12]string{
	language.Dutch: {
		"januari", "februari", "maart", "april", "mei", "juni",
		"juli", "augustus", "september", "oktober", "november", "december",
	},
	language.English: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher([]language.Tag{language.Dutch, language.English})
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Dutch))
	for _, set := range []map[string]map[language.Tag]string{entries, ui} {
		for key, tr := range set {
			for tag, msg := range tr {
				if err := b.SetString(tag, key, msg); err != nil {
					panic(fmt.Sprintf("locale: %s/%s: %v", tag, key, err))
				}
			}
		}
	}
	return b
}

// Locale translates messages for one language.
type Locale struct {
	printer *message.Printer
	tag     language.Tag
}

// New returns the locale that best matches name ("nl", "en-GB", ...).
// Unknown names fall back to Dutch.
func New(name string) *Locale {
	tag := language.Dutch
	if parsed, err := language.Parse(name); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = []language.Tag{language.Dutch, language.English}[idx]
		}
	}
	return &Locale{
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		tag:     tag,
	}
}

// Tag returns the resolved language.
func (l *Locale) Tag() language.Tag { return l.tag }

// T formats the message stored under key with args.
func (l *Locale) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Month returns the name of m.
func (l *Locale) Month(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return months[l.tag][m-1]
}

// Number formats n with the locale's digit grouping.
func (l *Locale) Number(n int) string {
	return l.printer.Sprint(n)
}

type ctxKey struct{}

var fallback = New(language.Dutch.String())

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the locale stored in ctx, or Dutch.
func FromContext(ctx context.Context) *Locale {
	if l, ok := ctx.Value(ctxKey{}).(*Locale); ok && l != nil {
		return l
	}
	return fallback
}
