package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentNumbered(t *testing.T) {
	steps := Segment("1. Boil water. 2. Add pasta. 3. Drain.")

	require.Len(t, steps, 3)
	assert.Equal(t, []RecipeStep{
		{Number: 1, Description: "Boil water."},
		{Number: 2, Description: "Add pasta."},
		{Number: 3, Description: "Drain."},
	}, steps)
	for _, s := range steps {
		assert.False(t, numberedMarker.MatchString(s.Description+" "), s.Description)
	}
}

func TestSegmentNumberedWithNewlinesAndPreamble(t *testing.T) {
	steps := Segment("Prep everything first\n1. Chop onions\n2. Fry them until golden\n")

	require.Len(t, steps, 3)
	assert.Equal(t, "Prep everything first.", steps[0].Description)
	assert.Equal(t, "Chop onions.", steps[1].Description)
	assert.Equal(t, "Fry them until golden.", steps[2].Description)
}

func TestSegmentSentences(t *testing.T) {
	steps := Segment("Boil water. Add pasta. Drain.")

	require.Len(t, steps, 3)
	assert.Equal(t, "Boil water.", steps[0].Description)
	assert.Equal(t, "Add pasta.", steps[1].Description)
	assert.Equal(t, "Drain.", steps[2].Description)
}

func TestSegmentSentencesEndWithPeriod(t *testing.T) {
	steps := Segment("Preheat the oven!\nIs the dough ready? Bake it")

	require.Len(t, steps, 3)
	assert.Equal(t, "Preheat the oven.", steps[0].Description)
	assert.Equal(t, "Is the dough ready.", steps[1].Description)
	assert.Equal(t, "Bake it.", steps[2].Description)

	steps = Segment("Stir well! Serve.")
	require.Len(t, steps, 2)
	assert.Equal(t, "Stir well.", steps[0].Description)
	assert.Equal(t, "Serve.", steps[1].Description)

	steps = Segment("Is it done? Serve")
	require.Len(t, steps, 2)
	assert.Equal(t, "Is it done.", steps[0].Description)
	assert.Equal(t, "Serve.", steps[1].Description)
}

func TestSegmentEdgeCases(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("   \n  "))

	steps := Segment("Mix everything together")
	require.Len(t, steps, 1)
	assert.Equal(t, "Mix everything together.", steps[0].Description)
}

func TestSegmentIsDeterministicAndNumbered(t *testing.T) {
	inputs := []string{
		"1. Boil water. 2. Add pasta. 3. Drain.",
		"Boil water. Add pasta. Drain.",
		"Heat oil in a pan.\r\nAdd garlic and cook 1 minute.\r\n\r\nServe hot!",
		"STEP 1\r\n1. Rinse rice. 10. Serve.",
		strings.Repeat("Stir. ", 30),
		"Stir well! Serve.",
		"1. Serve hot! 2. Enjoy",
	}

	for _, in := range inputs {
		first := Segment(in)
		second := Segment(in)
		assert.Equal(t, first, second)
		for i, s := range first {
			assert.Equal(t, i+1, s.Number)
			assert.NotEmpty(t, s.Description)
			assert.True(t, strings.HasSuffix(s.Description, "."), s.Description)
		}
	}
}

func TestNewDetail(t *testing.T) {
	d := NewDetail(Recipe{ID: "1", Name: "Tea", Instructions: "Boil water. Steep tea."})
	assert.Equal(t, "Tea", d.Name)
	assert.Len(t, d.Steps, 2)
}
