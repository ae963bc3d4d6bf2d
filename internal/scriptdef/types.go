// Package scriptdef defines what a generated script is built from: the
// positional parameter slots collected from the operator and the static
// variables declared at the top of the script.
package scriptdef

// ParameterSlot is one collected management-platform parameter.
// Slots are created during a single collection session and never mutated afterwards.
type ParameterSlot struct {
	// Position is the external parameter index ($4 ... $11 on Jamf Pro).
	Position int

	// Label is the free-text description exactly as the operator typed it.
	Label string

	// Identifier is the shell variable name derived from Label by NormalizeIdentifier.
	Identifier string

	// IsSecret slots have no default; locally they resolve from the secrets file
	// and their value is masked in the generated log output.
	IsSecret bool

	// DefaultValue is only meaningful for non-secret slots.
	DefaultValue string

	// SecretSourceKnown reports whether the secrets file already defines
	// SecretOverrideName(Identifier). It only changes operator reminders.
	SecretSourceKnown bool
}

// SourceKind says where a static variable's value comes from.
type SourceKind string

const (
	// SourceLiteral is a constant typed by the operator.
	SourceLiteral SourceKind = "literal"
	// SourceDerived is a shell expression taken from the StandardVariableCatalog.
	SourceDerived SourceKind = "derived"
)

// StaticVariable is a non-parameter value hardcoded into the generated script.
// Value is embedded verbatim and never evaluated by this tool.
type StaticVariable struct {
	Name        string
	SourceKind  SourceKind
	Value       string
	Description string
}

// HasSecrets reports whether any slot is secret-valued.
func HasSecrets(slots []ParameterSlot) bool {
	for _, s := range slots {
		if s.IsSecret {
			return true
		}
	}
	return false
}
