package scoring

import (
	"strings"

	"github.com/abrezinsky/tourneytracker/internal/errors"
)

// KeySeparator joins the team id and player name in a player key.
const KeySeparator = "::"

// PlayerKey identifies one player within one game. The same name on two
// teams yields two distinct keys.
type PlayerKey struct {
	TeamID string
	Name   string
}

// String returns the wire form "teamId::name".
func (k PlayerKey) String() string {
	return k.TeamID + KeySeparator + k.Name
}

// ParsePlayerKey parses the wire form produced by PlayerKey.String. The team
// id ends at the first separator, so names may themselves contain "::".
func ParsePlayerKey(s string) (PlayerKey, error) {
	team, name, ok := strings.Cut(s, KeySeparator)
	if !ok {
		return PlayerKey{}, errors.Validationf("player key %q is not of the form team::name", s)
	}
	if team == "" || name == "" {
		return PlayerKey{}, errors.Validationf("player key %q has an empty team or name", s)
	}
	return PlayerKey{TeamID: team, Name: name}, nil
}
