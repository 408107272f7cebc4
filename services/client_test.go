package services

import (
	"encoding/json"
	"testing"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/stretchr/testify/require"
)

// drain reads every frame queued for the client and decodes the type tags.
func drain(t *testing.T, c *Client) []string {
	t.Helper()
	var types []string
	for {
		select {
		case data := <-c.send:
			var frame struct {
				Type string `json:"type"`
			}
			require.NoError(t, json.Unmarshal(data, &frame))
			types = append(types, frame.Type)
		default:
			return types
		}
	}
}

func TestHandleRejectsUnknownCommand(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	c := &Client{send: make(chan []byte, sendBufferSize), userID: f.alice.ID, session: f.session}

	c.handle([]byte(`{"type":"shuffle_deck"}`))

	require.Equal(t, []string{"error"}, drain(t, c))
}

func TestHandleCallNumberRequiresOrganizer(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))

	c := &Client{send: make(chan []byte, sendBufferSize), userID: f.alice.ID, session: f.session}
	c.handle([]byte(`{"type":"call_number","number":5}`))

	require.Equal(t, []string{"error"}, drain(t, c))
	g, err := f.store.GameByID(f.session.GameID())
	require.NoError(t, err)
	require.Empty(t, g.Called())
}

func TestHandleCallNumberAsOrganizer(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))

	c := &Client{send: make(chan []byte, sendBufferSize), userID: f.organizer.ID, session: f.session}
	c.handle([]byte(`{"type":"call_number","number":5}`))

	require.Empty(t, drain(t, c))
	g, err := f.store.GameByID(f.session.GameID())
	require.NoError(t, err)
	require.Contains(t, g.Called(), 5)
}
