package resource

import (
	"testing"
	"time"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinition_BuildQuery(t *testing.T) {
	d := testDefinition()

	t.Run("standard and declared filters", func(t *testing.T) {
		q, err := d.BuildQuery(shared.Filter{Filters: map[string]string{
			"status":    "DRAFT",
			"search":    " 0001 ",
			"startDate": "2026-01-01",
			"endDate":   "2026-01-31",
			"carrierId": "4",
			"pol":       "KRPUS",
			"ignored":   "x",
		}}, 1000)
		require.NoError(t, err)

		assert.Equal(t, "0001", q.Search)
		assert.Equal(t, 1000, q.Limit)
		assert.ElementsMatch(t, []Condition{
			{Column: "status", Op: OpEq, Value: "DRAFT"},
			{Column: "etd", Op: OpGte, Value: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Column: "etd", Op: OpLt, Value: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			{Column: "carrier_id", Op: OpEq, Value: int64(4)},
			{Column: "pol_port_cd", Op: OpEq, Value: "KRPUS"},
		}, q.Conditions)
	})

	t.Run("limit is capped", func(t *testing.T) {
		q, err := d.BuildQuery(shared.Filter{Filters: map[string]string{"limit": "5000"}}, 500)
		require.NoError(t, err)
		assert.Equal(t, 500, q.Limit)

		d2 := testDefinition()
		d2.MaxRows = 50
		q, err = d2.BuildQuery(shared.Filter{Filters: map[string]string{"limit": "10"}}, 500)
		require.NoError(t, err)
		assert.Equal(t, 10, q.Limit)
	})

	t.Run("malformed values", func(t *testing.T) {
		_, err := d.BuildQuery(shared.Filter{Filters: map[string]string{
			"startDate": "yesterday",
			"carrierId": "abc",
			"limit":     "-1",
		}}, 0)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		assert.Contains(t, err.Error(), "startDate")
		assert.Contains(t, err.Error(), "carrierId")
		assert.Contains(t, err.Error(), "limit")
	})
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("3, 1,3,,2")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	_, err = ParseIDs(" , ")
	assert.True(t, shared.IsValidation(err))

	_, err = ParseIDs("1,abc")
	assert.True(t, shared.IsValidation(err))

	_, err = ParseIDs("0")
	assert.True(t, shared.IsValidation(err))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = ParseID(nil)
	assert.ErrorContains(t, err, "id is required")

	_, err = ParseID(-4)
	assert.ErrorContains(t, err, "positive")
}
