package access

import (
	"strings"

	"medivault/internal/domain/accessrequests"
)

type Mode string

const (
	ModeNone         Mode = "none"
	ModeAll          Mode = "all"
	ModeCategories   Mode = "categories"
	ModeCriticalOnly Mode = "critical_only"
)

type Source string

const (
	SourceNone      Source = ""
	SourceConsent   Source = "consent"
	SourceEmergency Source = "emergency"
)

// Decision es qué documentos de un paciente puede ver un doctor ahora.
type Decision struct {
	Mode       Mode
	Categories []accessrequests.Category // solo con ModeCategories
	Source     Source
	GrantID    string // solicitud o grant de emergencia que la respalda
}

func (d Decision) IsEmergency() bool { return d.Source == SourceEmergency }

func (d Decision) Allowed() bool { return d.Mode != ModeNone && d.Mode != "" }

// Permits indica si un documento de esa categoría (y criticidad) entra en
// la decisión.
func (d Decision) Permits(category string, critical bool) bool {
	switch d.Mode {
	case ModeAll:
		return true
	case ModeCriticalOnly:
		return critical
	case ModeCategories:
		c := accessrequests.Category(strings.ToUpper(strings.TrimSpace(category)))
		for _, allowed := range d.Categories {
			if allowed == c {
				return true
			}
		}
		return false
	default:
		return false
	}
}
