package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

func TestParseDifficulty(t *testing.T) {
	for _, in := range []string{"very_hard", "Very-Hard", " veryhard "} {
		d, ok := ParseDifficulty(in)
		require.True(t, ok, in)
		require.Equal(t, DifficultyVeryHard, d)
	}
	_, ok := ParseDifficulty("extreme")
	require.False(t, ok)

	require.True(t, DifficultyEasy.Valid())
	require.False(t, Difficulty("EASY").Valid())
	require.False(t, Difficulty("").Valid())
}

func TestSettings_Set(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Set("apikey", " sk-abc "))
	require.Equal(t, "sk-abc", s.APIKey)

	require.NoError(t, s.Set("difficulty", "hard"))
	require.Equal(t, DifficultyHard, s.Difficulty)
	require.ErrorIs(t, s.Set("difficulty", "brutal"), common.ErrValidation)
	require.Equal(t, DifficultyHard, s.Difficulty)

	require.NoError(t, s.Set("choices", "3"))
	require.Equal(t, 4, s.DefaultChoices)
	require.NoError(t, s.Set("choices", "9"))
	require.Equal(t, 8, s.DefaultChoices)
	require.NoError(t, s.Set("choices", "six"))
	require.Equal(t, 4, s.DefaultChoices)

	require.NoError(t, s.Set("temperature", "3.5"))
	require.Equal(t, 2.0, s.Temperature)
	require.NoError(t, s.Set("temperature", "warm"))
	require.Equal(t, DefaultTemperature, s.Temperature)

	require.NoError(t, s.Set("maxtokens", "100000"))
	require.Equal(t, 8000, s.MaxTokens)

	require.NoError(t, s.Set("model", ""))
	require.Equal(t, DefaultModel, s.Model)
	require.NoError(t, s.Set("model", "gpt-4o"))
	require.Equal(t, "gpt-4o", s.Model)

	require.NoError(t, s.Set("feedback", "on"))
	require.True(t, s.ImmediateFeedback)
	require.NoError(t, s.Set("feedback", "false"))
	require.False(t, s.ImmediateFeedback)

	require.ErrorIs(t, s.Set("colour", "red"), common.ErrValidation)
}
