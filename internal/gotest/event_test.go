package gotest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtr/internal/domain"
)

func TestParseEvent(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		line := []byte(`{"Time":"2025-01-02T10:00:00Z","Action":"pass","Package":"example.com/a","Test":"TestOne","Elapsed":0.25}`)
		event, err := ParseEvent(line)
		require.NoError(t, err)
		assert.Equal(t, ActionPass, event.Action)
		assert.Equal(t, "example.com/a", event.Package)
		assert.Equal(t, "TestOne", event.Test)
		assert.Equal(t, 0.25, event.Elapsed)
	})

	t.Run("build diagnostic is not an event", func(t *testing.T) {
		_, err := ParseEvent([]byte("# example.com/a [build failed]"))
		assert.Error(t, err)
	})
}

func TestEvent_Outcome(t *testing.T) {
	assert.Equal(t, domain.OutcomePassed, Event{Action: ActionPass}.Outcome())
	assert.Equal(t, domain.OutcomeFailed, Event{Action: ActionFail}.Outcome())
	assert.Equal(t, domain.OutcomeSkipped, Event{Action: ActionSkip}.Outcome())
}

func TestEvent_Terminal(t *testing.T) {
	assert.True(t, Event{Action: ActionPass}.Terminal())
	assert.True(t, Event{Action: ActionFail}.Terminal())
	assert.True(t, Event{Action: ActionSkip}.Terminal())
	assert.False(t, Event{Action: ActionRun}.Terminal())
	assert.False(t, Event{Action: ActionOutput}.Terminal())
}

func TestEvent_TopLevel(t *testing.T) {
	assert.Equal(t, "TestFoo", Event{Test: "TestFoo/sub/case"}.TopLevel())
	assert.Equal(t, "TestFoo", Event{Test: "TestFoo"}.TopLevel())
	assert.Equal(t, "", Event{}.TopLevel())
}
