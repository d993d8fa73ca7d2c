package services

import (
	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

// IdentityOracle решает, обозначает ли id уже сохранённую запись.
type IdentityOracle interface {
	IsPersistedID(id string, tag utils.IDTag) bool
}

// BtDbIDOracle узнаёт id, выданные utils.NewBtDbID.
type BtDbIDOracle struct{}

func (BtDbIDOracle) IsPersistedID(id string, tag utils.IDTag) bool {
	return utils.IsValidBtDbID(id, tag)
}

// IDMap переводит временные ключи новых записей одной коллекции
// в присвоенные базой id.
type IDMap map[string]string

// Resolve возвращает сохранённый id для key или сам key.
func (m IDMap) Resolve(key string) string {
	if id, ok := m[key]; ok {
		return id
	}
	return key
}

func (m IDMap) record(key, id string) {
	if m == nil || key == "" || key == id {
		return
	}
	m[key] = id
}

// LevelIDs держит IDMap на каждый уровень: временные ключи разных
// коллекций могут совпадать, внешний ключ разрешается по уровню родителя.
type LevelIDs map[models.SaveLevel]IDMap

func (l LevelIDs) For(level models.SaveLevel) IDMap {
	m, ok := l[level]
	if !ok {
		m = IDMap{}
		l[level] = m
	}
	return m
}

func (l LevelIDs) Resolve(level models.SaveLevel, key string) string {
	return l[level].Resolve(key)
}
