package responder

import "strings"

// Rule binds a set of trigger keywords to a canned template. Rules are
// evaluated in slice order and the first match wins, so the order of the
// default rule set is a contract, not an optimization hint.
type Rule struct {
	Keywords []string
	Template string
}

// Responder maps free-text citizen questions to canned replies by ordered
// substring matching. It holds no state and performs no I/O.
type Responder struct {
	rules    []Rule
	fallback string
	welcome  string
}

// New returns a Responder with the default village-office rule set.
func New() *Responder {
	return &Responder{
		rules:    defaultRules(),
		fallback: templateFallback,
		welcome:  templateWelcome,
	}
}

// Welcome returns the fixed greeting used as the first message of every
// conversation.
func (r *Responder) Welcome() string {
	return r.welcome
}

// Reply selects the template bound to the first rule whose keywords match
// the case-folded input as a substring. Unmatched input, including empty
// input, falls through to the fallback template.
func (r *Responder) Reply(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, rule := range r.rules {
		for _, keyword := range rule.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(normalized, keyword) {
				return rule.Template
			}
		}
	}
	return r.fallback
}

func defaultRules() []Rule {
	return []Rule{
		{Keywords: []string{"jam", "operasional"}, Template: templateHours},
		{Keywords: []string{"surat", "keterangan"}, Template: templateLetterRequirements},
		{Keywords: []string{"bantuan", "sosial"}, Template: templateSocialAid},
		{Keywords: []string{"domisili"}, Template: templateResidencyLetter},
		{Keywords: []string{"kepala desa", "kontak"}, Template: templateContacts},
		{Keywords: []string{"kegiatan", "agenda"}, Template: templateEvents},
		{Keywords: []string{"halo", "hai", "selamat"}, Template: templateGreeting},
		{Keywords: []string{"terima kasih", "thanks"}, Template: templateThanks},
	}
}
