package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTransitions(t *testing.T) {
	s := NewState()
	assert.False(t, s.LoggedIn())

	s.SetUser("jane")
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "jane", s.Username())

	s.Set(true)
	assert.Equal(t, "jane", s.Username())

	s.Set(false)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Username())
}

func TestStateConcurrentAccess(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			s.Set(v)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = s.LoggedIn()
		}()
	}
	wg.Wait()
}

func TestNewTranscript(t *testing.T) {
	tr := NewTranscript("http://localhost:8080")
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "http://localhost:8080", tr.BaseURL)
	assert.Empty(t, tr.Messages)
	assert.False(t, tr.StartTime.IsZero())
}
