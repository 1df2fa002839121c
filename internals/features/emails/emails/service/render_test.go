package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	context := map[string]string{
		"participant": "Mary Smith",
		"form":        "Volunteer signup 2026",
		"url":         "https://example.com/auth/abc",
	}

	out := Render(`Dear {{participant}}, fill "{{ form }}" at {{ url }}.`, context)
	assert.Equal(t, `Dear Mary Smith, fill "Volunteer signup 2026" at https://example.com/auth/abc.`, out)
}

func TestRenderUnknownPlaceholderIsEmpty(t *testing.T) {
	assert.Equal(t, "Hi ", Render("Hi {{nobody}}", nil))
}

func TestRenderLeavesPlainBracesAlone(t *testing.T) {
	assert.Equal(t, "a {b} c {{1x}}", Render("a {b} c {{1x}}", map[string]string{"b": "no"}))
}

func TestRenderTemplatesAreSelfConsistent(t *testing.T) {
	context := map[string]string{
		"participant":   "P",
		"responsible":   "R",
		"member":        "M",
		"organization":  "O",
		"form":          "F",
		"url":           "U",
		"contact":       "C",
		"last_modified": "L",
	}
	for _, text := range []string{
		bulkEmailToResponsibles, invite, messageToResponsibles,
		participantNewFormRevision, participantOnFinish, resendEmailToParticipants,
		participantOnUpdate, requestResponsibleAuthLink,
		verificationEmailToParticipant, emailToMemberAuthLink,
	} {
		assert.NotContains(t, Render(text, context), "{{")
	}
}
