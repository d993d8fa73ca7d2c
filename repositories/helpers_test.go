package repositories

import (
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-sync/utils"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestAssignID(t *testing.T) {
	persisted := utils.NewBtDbID(utils.TagSquad)
	assert.Equal(t, persisted, assignID(persisted, utils.TagSquad))

	for _, id := range []string{"", "new-sqd", utils.NewBtDbID(utils.TagEvent)} {
		got := assignID(id, utils.TagSquad)
		assert.NotEqual(t, id, got)
		assert.True(t, strings.HasPrefix(got, "sqd_"))
		assert.True(t, utils.IsValidBtDbID(got, utils.TagSquad))
	}
}

func TestHandlePqError(t *testing.T) {
	assert.Nil(t, handlePqError(nil))

	fk := &pq.Error{Code: "23503", Constraint: "squads_event_id_fkey"}
	assert.ErrorIs(t, handlePqError(fk), ErrInvalidParentReference)

	dup := &pq.Error{Code: "23505", Constraint: "events_pkey"}
	assert.ErrorIs(t, handlePqError(dup), ErrDuplicateRecord)

	other := errors.New("connection reset")
	assert.Equal(t, other, handlePqError(other))
}

func TestMoneyAndNullHelpers(t *testing.T) {
	assert.Equal(t, "0", moneyValue(""))
	assert.Equal(t, "12.50", moneyValue("12.50"))

	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "09:30", nullIfEmpty("09:30"))
}
