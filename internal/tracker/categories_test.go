package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum/internal/model"
)

func TestAddCategory(t *testing.T) {
	data := model.EmptyUserData()
	next, cat, err := AddCategory(data, "  Deep work ", "")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)
	assert.Equal(t, "Deep work", cat.Label)
	assert.Equal(t, DefaultColor, cat.Color)
	assert.Len(t, next.Settings.Categories, 1)
	assert.Empty(t, data.Settings.Categories)

	_, _, err = AddCategory(data, "   ", "#fff")
	assert.ErrorIs(t, err, ErrEmptyLabel)
}

func TestUpdateCategory(t *testing.T) {
	next, err := UpdateCategory(trackerData(), "read", "Reading", "")
	require.NoError(t, err)
	assert.Equal(t, "Reading", next.Settings.Categories[1].Label)
	assert.Equal(t, "#fde047", next.Settings.Categories[1].Color)

	_, err = UpdateCategory(trackerData(), "missing", "x", "")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestDeleteCategory_DropsLogEntries(t *testing.T) {
	data := trackerData()
	data.Log = model.Log{"2024-01-09": {"work": 1, "read": 1}, "2024-01-08": {"work": 2}}

	next, err := DeleteCategory(data, "work")
	require.NoError(t, err)
	require.Len(t, next.Settings.Categories, 1)
	assert.Equal(t, "read", next.Settings.Categories[0].ID)
	assert.Equal(t, model.Log{"2024-01-09": {"read": 1}}, next.Log)
	assert.Len(t, data.Settings.Categories, 2)
}

func TestMoveCategory(t *testing.T) {
	data := model.EmptyUserData()
	data.Settings.Categories = []model.Category{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	ids := func(d model.UserData) []string {
		var out []string
		for _, c := range d.Settings.Categories {
			out = append(out, c.ID)
		}
		return out
	}

	next, err := MoveCategory(data, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(next))

	next, err = MoveCategory(data, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(next))
	assert.Equal(t, []string{"a", "b", "c"}, ids(data))

	_, err = MoveCategory(data, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestSetRoutine(t *testing.T) {
	next, err := SetRoutine(trackerData(), "read", model.Routine{Type: model.RoutineWeekly, Days: []int{5, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, next.Settings.Categories[1].Routine.Days)

	next, err = SetRoutine(next, "read", model.Routine{Type: model.RoutineDaily, Days: []int{2}})
	require.NoError(t, err)
	assert.Nil(t, next.Settings.Categories[1].Routine.Days)

	_, err = SetRoutine(next, "read", model.Routine{Type: "yearly"})
	assert.Error(t, err)
}

func TestRemoveRoutine(t *testing.T) {
	next, err := RemoveRoutine(trackerData(), "work")
	require.NoError(t, err)
	assert.Nil(t, next.Settings.Categories[0].Routine)
	assert.Nil(t, next.Settings.Categories[0].Streak)
}

func TestFindCategory(t *testing.T) {
	cats := trackerData().Settings.Categories
	cat, ok := FindCategory(cats, "work")
	assert.True(t, ok)
	assert.Equal(t, "Work", cat.Label)

	cat, ok = FindCategory(cats, " read ")
	assert.True(t, ok)
	assert.Equal(t, "read", cat.ID)

	_, ok = FindCategory(cats, "gym")
	assert.False(t, ok)
}

func TestTextColorFor(t *testing.T) {
	assert.Equal(t, "#000000", TextColorFor("#fde047"))
	assert.Equal(t, "#FFFFFF", TextColorFor("#1e3a8a"))
	assert.Equal(t, "#FFFFFF", TextColorFor("red"))
	assert.Equal(t, "#FFFFFF", TextColorFor("#zzzzzz"))
}
