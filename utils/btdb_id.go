package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IDTag - префикс идентификатора, по которому видно тип записи.
type IDTag string

const (
	TagTournament IDTag = "tmt"
	TagEvent      IDTag = "evt"
	TagDivision   IDTag = "div"
	TagSquad      IDTag = "sqd"
	TagLane       IDTag = "lan"
	TagPot        IDTag = "pot"
	TagBracket    IDTag = "brk"
	TagEliminator IDTag = "elm"
)

const btDbIDHexLen = 32

// NewBtDbID выдаёт новый id вида "<tag>_<32 hex>".
func NewBtDbID(tag IDTag) string {
	return string(tag) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsValidBtDbID сообщает, является ли id сохранённым id для tag.
// Пустые id и временные ключи клиента ("new-1") таковыми не считаются.
func IsValidBtDbID(id string, tag IDTag) bool {
	prefix := string(tag) + "_"
	if !strings.HasPrefix(id, prefix) {
		return false
	}
	hex := id[len(prefix):]
	if len(hex) != btDbIDHexLen {
		return false
	}
	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
