package scriptdef

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyIdentifier is returned when a label has no character that survives normalization.
var ErrEmptyIdentifier = errors.New("label does not contain any letter or digit")

// NormalizeIdentifier derives a shell variable name from a free-text label:
// the label is uppercased, every whitespace run becomes a single underscore and
// any character outside [A-Z0-9_] is dropped. A leading digit gets an
// underscore prefix so the result is always a valid shell variable name.
func NormalizeIdentifier(label string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(label))

	var b strings.Builder
	inSpace := false
	for _, r := range upper {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}

	id := b.String()
	if strings.Trim(id, "_") == "" {
		return "", ErrEmptyIdentifier
	}
	// Shell names cannot start with a digit.
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id, nil
}

// SecretOverrideName is the variable a secrets file must define to provide a
// local value for the secret slot named identifier.
func SecretOverrideName(identifier string) string {
	return "LOCAL_" + identifier
}
