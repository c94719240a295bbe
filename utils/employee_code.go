package utils

import (
	"strings"

	"github.com/google/uuid"

	"github.com/MHaddad/fieldtrack_backend/models"
)

// Employee code prefixes per role. The code shows up on badges and
// exports, so it leads with a readable role tag.
var codePrefixes = map[string]string{
	models.RoleAdmin:   "ADM",
	models.RoleManager: "MGR",
	models.RoleBDM:     "BDM",
	models.RoleBDE:     "BDE",
}

// GenerateEmployeeCode produces a code like BDE-1A2B3C4D.
func GenerateEmployeeCode(role string) string {
	prefix, ok := codePrefixes[role]
	if !ok {
		prefix = "EMP"
	}

	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:8]
}
