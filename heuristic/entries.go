package heuristic

// defaultTokens is the curated static list, grouped by language.
// Very short stems that occur inside common words are left out because the
// substring pass would flag them everywhere.
var defaultTokens = map[string][]string{
	"en": {
		"fuck", "fucking", "motherfucker", "shit", "bullshit", "bitch",
		"asshole", "bastard", "cunt", "dickhead", "retard", "whore", "slut",
		"kill yourself", "go die",
	},
	"fr": {
		"connard", "connasse", "salope", "putain", "enculé", "encule",
		"merde", "bâtard", "ta gueule", "nique ta mère", "nique ta mere",
	},
	"es": {
		"mierda", "cabrón", "cabron", "pendejo", "gilipollas",
		"hijo de puta", "puta madre", "maricón", "coño",
	},
	"de": {
		"scheiße", "scheisse", "arschloch", "hurensohn", "fotze", "wichser",
		"missgeburt",
	},
	"it": {
		"vaffanculo", "stronzo", "puttana", "cazzo", "coglione",
		"figlio di puttana",
	},
	"pt": {
		"caralho", "porra", "filho da puta", "buceta", "otário", "otario",
	},
}

// defaultLangs fixes the iteration order of defaultTokens
var defaultLangs = []string{"en", "fr", "es", "de", "it", "pt"}

// DefaultEntries returns the built-in multi-language token list
func DefaultEntries() []Entry {
	var entries []Entry
	for _, lang := range defaultLangs {
		for _, word := range defaultTokens[lang] {
			entries = append(entries, Entry{Lang: lang, Word: word})
		}
	}
	return entries
}
