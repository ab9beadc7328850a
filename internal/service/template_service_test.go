package service

import (
	"alcyxob/coach-platform/internal/domain"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTemplate_ThirtyEmptyDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.ID)
	require.Len(t, tpl.Days, domain.PlanLength)
	for i, d := range tpl.Days {
		assert.Equal(t, i+1, d.Day)
		assert.Empty(t, d.Meals)
		assert.Empty(t, d.Exercises)
		assert.False(t, d.IsCompleted)
		assert.Equal(t, domain.DefaultMotivationalMessage, d.MotivationalMessage)
	}

	// Duplicate names are allowed and still get distinct ids.
	dup, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)
	assert.NotEqual(t, tpl.ID, dup.ID)

	_, err = env.templates.CreateTemplate(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrTemplateNameRequired)
}

func TestUpdateTemplate_UnknownIDIsDropped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)
	before, err := env.templates.ListTemplates(ctx)
	require.NoError(t, err)

	called := false
	err = env.templates.UpdateTemplate(ctx, "does-not-exist", func(p *domain.PlanTemplate) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)

	after, err := env.templates.ListTemplates(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("store changed (-before +after):\n%s", diff)
	}

	// Known id: the mutation lands.
	require.NoError(t, env.templates.UpdateTemplate(ctx, tpl.ID, func(p *domain.PlanTemplate) error {
		p.Days[4].MotivationalMessage = "Davom et!"
		return nil
	}))
	got, err := env.templates.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Davom et!", got.Days[4].MotivationalMessage)
}

func TestUpdateTemplate_KeepsThirtyDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)

	err = env.templates.UpdateTemplate(ctx, tpl.ID, func(p *domain.PlanTemplate) error {
		p.Days = p.Days[:10]
		return nil
	})
	assert.ErrorIs(t, err, ErrTemplateShape)

	got, err := env.templates.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Len(t, got.Days, domain.PlanLength)
}

func TestAddTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)

	task, err := env.templates.AddTask(ctx, tpl.ID, 29, domain.TaskTypeExercise, domain.Task{
		Title:     "Plank",
		Type:      domain.TaskTypeMeal, // overridden by the list
		Completed: true,                // templates carry no progress
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskTypeExercise, task.Type)
	assert.False(t, task.Completed)

	got, err := env.templates.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Days[29].Exercises, 1)
	assert.Equal(t, "Plank", got.Days[29].Exercises[0].Title)
	assert.Empty(t, got.Days[29].Meals)
}

func TestAddTask_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)
	_, err = env.templates.AddTask(ctx, tpl.ID, 0, domain.TaskTypeMeal, domain.Task{ID: "m1", Title: "Breakfast"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		tplID    string
		dayIndex int
		taskType domain.TaskType
		taskID   string
		title    string
		wantErr  error
	}{
		{"negative day", tpl.ID, -1, domain.TaskTypeMeal, "", "x", ErrDayOutOfRange},
		{"day 30", tpl.ID, 30, domain.TaskTypeMeal, "", "x", ErrDayOutOfRange},
		{"bad type", tpl.ID, 0, domain.TaskType("stretch"), "", "x", ErrInvalidTaskType},
		{"no title", tpl.ID, 0, domain.TaskTypeMeal, "", " ", ErrTaskTitleRequired},
		{"unknown template", "nope", 0, domain.TaskTypeMeal, "", "x", ErrTemplateNotFound},
		{"duplicate id in list", tpl.ID, 0, domain.TaskTypeMeal, "m1", "Lunch", ErrTaskIDTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.templates.AddTask(ctx, tt.tplID, tt.dayIndex, tt.taskType, domain.Task{ID: tt.taskID, Title: tt.title})
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}

	got, err := env.templates.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Days[0].Meals, 1)
	assert.Equal(t, "Breakfast", got.Days[0].Meals[0].Title)
}

func TestAddTask_SameIDInOtherListOrDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)

	_, err = env.templates.AddTask(ctx, tpl.ID, 0, domain.TaskTypeMeal, domain.Task{ID: "t1", Title: "Breakfast"})
	require.NoError(t, err)
	_, err = env.templates.AddTask(ctx, tpl.ID, 0, domain.TaskTypeExercise, domain.Task{ID: "t1", Title: "Squats"})
	assert.NoError(t, err)
	_, err = env.templates.AddTask(ctx, tpl.ID, 1, domain.TaskTypeMeal, domain.Task{ID: "t1", Title: "Breakfast"})
	assert.NoError(t, err)
}

func TestRemoveTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, meal, _ := env.breakfastTemplate(t)

	assert.ErrorIs(t, env.templates.RemoveTask(ctx, tpl.ID, 0, domain.TaskTypeMeal, "missing"), ErrTaskNotFound)
	// The meal id does not exist in the exercise list.
	assert.ErrorIs(t, env.templates.RemoveTask(ctx, tpl.ID, 0, domain.TaskTypeExercise, meal.ID), ErrTaskNotFound)
	assert.ErrorIs(t, env.templates.RemoveTask(ctx, tpl.ID, 30, domain.TaskTypeMeal, meal.ID), ErrDayOutOfRange)

	require.NoError(t, env.templates.RemoveTask(ctx, tpl.ID, 0, domain.TaskTypeMeal, meal.ID))
	got, err := env.templates.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Days[0].Meals)
	assert.Len(t, got.Days[0].Exercises, 1)
}

func TestSetDayVideoAndRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, err := env.templates.CreateTemplate(ctx, "Ozish", "")
	require.NoError(t, err)

	require.NoError(t, env.templates.SetDayVideo(ctx, tpl.ID, 2, "https://youtu.be/abc"))
	assert.ErrorIs(t, env.templates.SetDayVideo(ctx, tpl.ID, 30, "x"), ErrDayOutOfRange)
	assert.ErrorIs(t, env.templates.SetDayVideo(ctx, "nope", 0, "x"), ErrTemplateNotFound)

	renamed, err := env.templates.RenameTemplate(ctx, tpl.ID, "Vazn olish", "yangi")
	require.NoError(t, err)
	assert.Equal(t, "Vazn olish", renamed.Name)
	assert.Equal(t, "https://youtu.be/abc", renamed.Days[2].VideoURL)

	_, err = env.templates.RenameTemplate(ctx, "nope", "x", "")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
