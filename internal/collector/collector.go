// Package collector runs the interactive session that turns operator answers
// into ParameterSlots and StaticVariables.
package collector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/render"
	"mdm-scriptgen/internal/scriptdef"
)

// Collector asks for parameters and static variables in a single forward pass.
type Collector struct {
	Prompter *Prompter
	Secrets  SecretsStore

	// SecretsFile is only used in reminder text.
	SecretsFile string

	FirstPosition int
	MaxParameters int
}

// Result is everything one session collected, in collection order.
type Result struct {
	Description string
	Slots       []scriptdef.ParameterSlot
	Statics     []scriptdef.StaticVariable
}

// Collect asks for the description, then the positional parameters, then the
// optional static variables.
func (c *Collector) Collect() (Result, error) {
	var res Result

	desc, err := c.Prompter.AskRequired("Script description")
	if err != nil {
		return res, err
	}
	res.Description = desc

	// Identifiers are shared by parameters and static variables, and neither
	// may shadow a variable the generated script declares itself.
	used := ReservedIdentifiers()

	res.Slots, err = c.CollectParameters(used)
	if err != nil {
		return res, err
	}

	res.Statics, err = c.CollectStatics(used)
	if err != nil {
		return res, err
	}

	c.remindSecrets(res.Slots)
	return res, nil
}

// CollectParameters walks positions FirstPosition..FirstPosition+MaxParameters-1.
// An empty label ends the walk. Labels that normalize to nothing, or to an
// identifier already in used, are rejected and the same position is asked again.
func (c *Collector) CollectParameters(used map[string]bool) ([]scriptdef.ParameterSlot, error) {
	var slots []scriptdef.ParameterSlot

	last := c.FirstPosition + c.MaxParameters - 1
	for pos := c.FirstPosition; pos <= last; {
		label, err := c.Prompter.Ask(fmt.Sprintf("Parameter %d label (empty to finish)", pos))
		if err != nil {
			return nil, err
		}
		if label == "" {
			logger.Debug("[DEBUG] Empty label at position %d, parameter collection finished\n", pos)
			break
		}

		id, err := scriptdef.NormalizeIdentifier(label)
		if err != nil {
			logger.Warn("[WARN] %q cannot be used as a parameter name: %v\n", label, err)
			continue
		}
		if used[id] {
			logger.Warn("[WARN] %s is already defined, choose a different label for parameter %d\n", id, pos)
			continue
		}

		slot := scriptdef.ParameterSlot{Position: pos, Label: label, Identifier: id}

		slot.IsSecret, err = c.Prompter.Confirm(fmt.Sprintf("Is %s a secret", id))
		if err != nil {
			return nil, err
		}

		if slot.IsSecret {
			slot.SecretSourceKnown = c.Secrets != nil && c.Secrets.Has(scriptdef.SecretOverrideName(id))
		} else {
			slot.DefaultValue, err = c.Prompter.Ask(fmt.Sprintf("Default value for %s", id))
			if err != nil {
				return nil, err
			}
		}

		used[id] = true
		if slot.IsSecret {
			used[scriptdef.SecretOverrideName(id)] = true
		}
		slots = append(slots, slot)
		pos++
	}
	return slots, nil
}

// CollectStatics optionally collects static variables from one selection line.
// Catalog keys add derived variables, 0 enters custom literal entry, anything
// else is ignored.
func (c *Collector) CollectStatics(used map[string]bool) ([]scriptdef.StaticVariable, error) {
	want, err := c.Prompter.Confirm("Add static variables")
	if err != nil || !want {
		return nil, err
	}

	c.Prompter.Println("Standard variables:")
	for _, e := range scriptdef.StandardVariableCatalog() {
		c.Prompter.Println("  %2d) %-18s %s", e.Key, e.Name, e.Description)
	}
	c.Prompter.Println("   0) custom value")

	selection, err := c.Prompter.Ask("Select numbers (space or comma separated)")
	if err != nil {
		return nil, err
	}

	var statics []scriptdef.StaticVariable
	for _, tok := range splitSelection(selection) {
		key, convErr := strconv.Atoi(tok)
		if convErr != nil {
			logger.Debug("[DEBUG] Ignoring selection %q\n", tok)
			continue
		}

		if key == 0 {
			custom, err := c.collectCustom(used)
			if err != nil {
				return nil, err
			}
			statics = append(statics, custom...)
			continue
		}

		entry, ok := scriptdef.Lookup(key)
		if !ok {
			logger.Debug("[DEBUG] Ignoring unknown catalog index %d\n", key)
			continue
		}
		if used[entry.Name] {
			logger.Debug("[DEBUG] %s already selected\n", entry.Name)
			continue
		}
		used[entry.Name] = true
		statics = append(statics, entry.StaticVariable())
	}
	return statics, nil
}

// collectCustom loops over literal variables until an empty name is entered.
func (c *Collector) collectCustom(used map[string]bool) ([]scriptdef.StaticVariable, error) {
	var statics []scriptdef.StaticVariable
	for {
		name, err := c.Prompter.Ask("Custom variable name (empty to finish)")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return statics, nil
		}

		id, err := scriptdef.NormalizeIdentifier(name)
		if err != nil {
			logger.Warn("[WARN] %q cannot be used as a variable name: %v\n", name, err)
			continue
		}
		if used[id] {
			logger.Warn("[WARN] %s is already defined\n", id)
			continue
		}

		value, err := c.Prompter.Ask(fmt.Sprintf("Value for %s", id))
		if err != nil {
			return nil, err
		}
		desc, err := c.Prompter.AskRequired(fmt.Sprintf("Description for %s", id))
		if err != nil {
			return nil, err
		}

		used[id] = true
		statics = append(statics, scriptdef.StaticVariable{
			Name:        id,
			SourceKind:  scriptdef.SourceLiteral,
			Value:       value,
			Description: desc,
		})
	}
}

// remindSecrets tells the operator how each secret resolves during local testing.
func (c *Collector) remindSecrets(slots []scriptdef.ParameterSlot) {
	for _, s := range slots {
		if !s.IsSecret {
			continue
		}
		override := scriptdef.SecretOverrideName(s.Identifier)
		if s.SecretSourceKnown {
			logger.Info("[INFO] %s found in %s\n", override, c.SecretsFile)
		} else {
			logger.Warn("[WARN] Add `export %s=\"...\"` to %s for local testing\n", override, c.SecretsFile)
		}
	}
}

func splitSelection(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// ReservedIdentifiers returns a fresh "used" set seeded with the names every
// generated script already assigns.
func ReservedIdentifiers() map[string]bool {
	used := make(map[string]bool)
	for _, name := range render.ReservedNames() {
		used[name] = true
	}
	return used
}

// IsInputClosed reports whether err means the operator's input ran out.
func IsInputClosed(err error) bool {
	return errors.Is(err, ErrInputClosed)
}
