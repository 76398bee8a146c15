package cli

import (
	"fmt"
	"regexp"
	"strings"
)

// entityPrefixes maps entity types to their expected ID prefixes
var entityPrefixes = map[string]string{
	"act":     "act",
	"chapter": "chap",
	"note":    "note",
}

var bareUUID = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-`)

// validateEntityID checks if an ID has the correct prefix format.
// Returns an error with a helpful message when the ID belongs to another
// entity type or is missing its prefix.
func validateEntityID(id, entityType string) error {
	if id == "" {
		return nil // Empty is OK, let the service report required fields
	}

	prefix, ok := entityPrefixes[entityType]
	if !ok {
		return nil // Unknown entity type, skip validation
	}

	expectedPattern := prefix + "-"
	if strings.HasPrefix(id, expectedPattern) {
		return nil
	}

	if bareUUID.MatchString(id) {
		return fmt.Errorf("invalid %s ID '%s'. Use full ID format: %s%s", entityType, id, expectedPattern, id)
	}

	if strings.HasPrefix(strings.ToLower(id), expectedPattern) {
		return fmt.Errorf("invalid %s ID '%s'. IDs are case-sensitive, use: %s", entityType, id, strings.ToLower(id))
	}

	for other, p := range entityPrefixes {
		if other != entityType && strings.HasPrefix(id, p+"-") {
			return fmt.Errorf("'%s' is a %s ID, expected a %s ID (%s-xxx)", id, other, entityType, prefix)
		}
	}

	return fmt.Errorf("invalid %s ID '%s'. Expected format: %s-xxx", entityType, id, prefix)
}
