// Package letter composes negotiation letters to creditors and renders them as
// printable A4 HTML. PDF conversion happens outside this service.
package letter

type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`

	// which optional form fields the template reads
	UsesRate   bool `json:"uses_rate"`
	UsesOffer  bool `json:"uses_offer"`
	UsesPause  bool `json:"uses_pause"`
	UsesReason bool `json:"uses_reason"`
}

const (
	Ratenzahlung   = "ratenzahlung"
	Vergleich      = "vergleich"
	Stundung       = "stundung"
	Teilzahlung    = "teilzahlung"
	MahnungAntwort = "mahnung_antwort"
	Haertefall     = "haertefall"
)

var catalogue = []Template{
	{
		ID:          Ratenzahlung,
		Name:        "Ratenzahlungsvereinbarung",
		Icon:        "📋",
		Description: "Klassische Vereinbarung über Ratenzahlung einer offenen Forderung",
		Tags:        []string{"Standard", "Raten"},
		UsesRate:    true,
	},
	{
		ID:          Vergleich,
		Name:        "Vergleichsvereinbarung",
		Icon:        "🤝",
		Description: "Einigung auf einen reduzierten Betrag zur sofortigen Tilgung",
		Tags:        []string{"Rabatt", "Einigung"},
		UsesOffer:   true,
	},
	{
		ID:          Stundung,
		Name:        "Stundungsvereinbarung",
		Icon:        "⏸️",
		Description: "Vorübergehende Aussetzung der Zahlungspflicht",
		Tags:        []string{"Pause", "Aufschub"},
		UsesPause:   true,
		UsesReason:  true,
	},
	{
		ID:          Teilzahlung,
		Name:        "Teilzahlungsangebot",
		Icon:        "✂️",
		Description: "Einmalige Teilzahlung zur vollständigen Erledigung",
		Tags:        []string{"Einmalzahlung"},
		UsesOffer:   true,
	},
	{
		ID:          MahnungAntwort,
		Name:        "Antwort auf Mahnung",
		Icon:        "📬",
		Description: "Höfliche Antwort auf eine Mahnung mit Zahlungsvorschlag",
		Tags:        []string{"Mahnung"},
		UsesRate:    true,
		UsesReason:  true,
	},
	{
		ID:          Haertefall,
		Name:        "Härtefallantrag",
		Icon:        "🛡️",
		Description: "Antrag auf besondere Berücksichtigung bei finanzieller Notlage",
		Tags:        []string{"Notlage"},
		UsesReason:  true,
	},
}

// Templates returns the catalogue in display order.
func Templates() []Template {
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}

func Lookup(id string) (Template, bool) {
	for _, t := range catalogue {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
