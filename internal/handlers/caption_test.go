package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"model-studio/internal/directive"
)

func TestParseCaption(t *testing.T) {
	c := ParseCaption(`
pose: close up mirror selfie
Location = living room
expression: smiling, , confident
pose note: look over shoulder
Model_Type: South Indian woman
mode: model-reference
jewellery note: keep it light
hello there
shoes: red
`)

	assert.Equal(t, directive.RawInput{
		"pose":            {"close up mirror selfie"},
		"location":        {"living room"},
		"modelExpression": {"smiling", "confident"},
		"poseNote":        {"look over shoulder"},
		"modelType":       {"South Indian woman"},
		"generationMode":  {"model-reference"},
		"accessoriesNote": {"keep it light"},
	}, c.Updates)
	assert.Equal(t, []string{"hello there", "shoes: red"}, c.Unknown)
}

func TestParseCaption_EmptyValueUnsets(t *testing.T) {
	c := ParseCaption("pose:\nhair: bun")

	assert.False(t, c.Empty())
	assert.Contains(t, c.Updates, "pose")
	assert.Nil(t, c.Updates["pose"])
	assert.Equal(t, []string{"bun"}, c.Updates["hair"])
}

func TestParseCaption_NoteKeepsCommas(t *testing.T) {
	c := ParseCaption("expressionNote: calm, composed")
	assert.Equal(t, []string{"calm, composed"}, c.Updates["modelExpressionNote"])
}

func TestParseCaption_Blank(t *testing.T) {
	c := ParseCaption("  \n ")
	assert.True(t, c.Empty())
	assert.Empty(t, c.Unknown)
}

func TestFormatSelections(t *testing.T) {
	got := FormatSelections(directive.RawInput{
		"location":        {"home"},
		"modelExpression": {"smiling", "confident"},
		"poseNote":        {"twirl"},
		"unrelated":       {"x"},
	})
	assert.Equal(t, "modelExpression: smiling, confident\nposeNote: twirl\nlocation: home", got)
	assert.Equal(t, "", FormatSelections(nil))
}
