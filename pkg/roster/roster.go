package roster

import "strings"

// Party is one registered group on the kiosk's check-in list. Parties arrive
// from the remote profile (or local config as a fallback); their registered
// emails seed the recipient list for the pickup notification.
type Party struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Emails   []string `json:"emails,omitempty"`
	Eligible bool     `json:"eligible"`
}

// Label returns a display name, falling back to the id.
func (p Party) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Roster holds the check-in list and the current highlight.
type Roster struct {
	parties []Party
	sel     int
}

// New builds a roster over the given parties.
func New(parties []Party) Roster {
	return Roster{parties: parties}
}

func (r Roster) Len() int {
	return len(r.parties)
}

// Parties returns the list in display order.
func (r Roster) Parties() []Party {
	return r.parties
}

// Selected returns the highlighted party, if any.
func (r Roster) Selected() (Party, bool) {
	if len(r.parties) == 0 {
		return Party{}, false
	}
	return r.parties[r.sel], true
}

// SelectedIndex returns the highlight position.
func (r Roster) SelectedIndex() int {
	return r.sel
}

// MoveUp moves the highlight up, wrapping at the top.
func (r *Roster) MoveUp() {
	if len(r.parties) == 0 {
		return
	}
	r.sel--
	if r.sel < 0 {
		r.sel = len(r.parties) - 1
	}
}

// MoveDown moves the highlight down, wrapping at the bottom.
func (r *Roster) MoveDown() {
	if len(r.parties) == 0 {
		return
	}
	r.sel++
	if r.sel >= len(r.parties) {
		r.sel = 0
	}
}

// Replace swaps in a fresh party list, keeping the highlight on the same
// party id when it still exists.
func (r *Roster) Replace(parties []Party) {
	var keep string
	if p, ok := r.Selected(); ok {
		keep = p.ID
	}
	r.parties = parties
	r.sel = 0
	for i, p := range parties {
		if p.ID == keep {
			r.sel = i
			break
		}
	}
}

// Find returns the party with the given id.
func (r Roster) Find(id string) (Party, bool) {
	for _, p := range r.parties {
		if p.ID == id {
			return p, true
		}
	}
	return Party{}, false
}

// Recipients filters a party's registered emails down to non-empty,
// deduplicated addresses.
func Recipients(p Party) []string {
	seen := make(map[string]struct{}, len(p.Emails))
	out := make([]string, 0, len(p.Emails))
	for _, e := range p.Emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(e)]; dup {
			continue
		}
		seen[strings.ToLower(e)] = struct{}{}
		out = append(out, e)
	}
	return out
}
