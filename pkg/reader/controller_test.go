package reader

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-go-golems/naofs/pkg/events"
	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/keys"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/go-go-golems/naofs/pkg/speech/speechtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	c         *Controller
	engine    *speechtest.RecordingEngine
	scheduler *speechtest.ManualScheduler
	recorder  *events.Recorder
	client    *scriptedClient
}

// scriptedClient answers each prompt from a table, optionally after the test
// releases it.
type scriptedClient struct {
	answers map[string]answer
	release map[string]chan struct{}
	calls   chan generation.Request
}

type answer struct {
	outline *outline.Outline
	err     error
}

func (s *scriptedClient) Generate(ctx context.Context, req generation.Request) (*outline.Outline, error) {
	s.calls <- req
	if ch, ok := s.release[req.Prompt]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	a := s.answers[req.Prompt]
	return a.outline, a.err
}

func newFixture(t *testing.T, options ...Option) *fixture {
	t.Helper()
	engine := speechtest.NewRecordingEngine()
	scheduler := speechtest.NewManualScheduler()
	recorder := events.NewRecorder()
	client := &scriptedClient{
		answers: map[string]answer{},
		release: map[string]chan struct{}{},
		calls:   make(chan generation.Request, 16),
	}
	sc := speech.NewCoordinator(engine, speech.WithScheduler(scheduler))
	options = append([]Option{WithSink(recorder)}, options...)
	c := NewController(sc, generation.NewManager(client), options...)
	return &fixture{c: c, engine: engine, scheduler: scheduler, recorder: recorder, client: client}
}

// settle runs every pending speech timer and waits for the engine to record
// want utterances.
func (f *fixture) settle(t *testing.T, want int) []string {
	t.Helper()
	f.scheduler.Advance(time.Second)
	require.Eventually(t, func() bool { return len(f.engine.Texts()) >= want }, time.Second, 5*time.Millisecond)
	return f.engine.Texts()
}

func key(k string) keys.Event {
	return keys.Event{Key: k, Focus: keys.Focus{Tag: "article"}}
}

var generated = &outline.Outline{
	Language:  "en",
	Verbosity: "medium",
	Sections: []*outline.Node{
		{ID: "a", Title: "Intro", Body: "Hello"},
		{ID: "b", Title: "Setup", Body: "Steps", Children: []*outline.Node{{ID: "c", Title: "Sub", Body: "Detail"}}},
	},
}

func TestStartsWithDefaultOutline(t *testing.T) {
	f := newFixture(t)
	ids := []string{}
	for _, e := range f.c.Navigator().Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"intro", "keys", "setup", "a11y"}, ids)
	assert.Equal(t, 0, f.c.Navigator().Index())
	assert.Equal(t, "", f.c.Status())
}

func TestRapidNavigationSpeaksOnlyLastTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.c.HandleKey(ctx, key("down"))
	f.c.HandleKey(ctx, key("down"))
	f.c.HandleKey(ctx, key("down"))

	assert.Equal(t, []string{"Speech and focus notes"}, f.settle(t, 1))
	assert.Equal(t, 3, f.c.Navigator().Index())

	intents := f.recorder.FocusIntents()
	require.Len(t, intents, 3)
	assert.Equal(t, "a11y", intents[2].EntryID)
}

func TestRightThenLeftOnCollapsedEntry(t *testing.T) {
	f := newFixture(t, WithOutline(generated))
	ctx := context.Background()

	f.c.Navigator().SetIndex(1)
	f.c.HandleKey(ctx, key("right"))
	assert.True(t, f.c.Navigator().IsExpanded("b"))
	assert.True(t, f.c.Speech().Status().Pending)

	f.c.HandleKey(ctx, key("left"))
	assert.False(t, f.c.Navigator().IsExpanded("b"))

	// left does not cancel the body announcement scheduled by right
	assert.Equal(t, []string{"Steps"}, f.settle(t, 1))
}

func TestEmptyPromptIsNotSent(t *testing.T) {
	f := newFixture(t)
	f.c.SetPrompt("   ")

	res, ticket := f.c.HandleKey(context.Background(), keys.Event{Key: "g", Ctrl: true, Focus: keys.Focus{Tag: "textarea"}})
	assert.Equal(t, keys.Result{Handled: true, Action: keys.ActionGenerate}, res)
	assert.Nil(t, ticket)
	assert.Equal(t, "Error: Prompt is empty", f.c.Status())
	assert.False(t, f.c.Busy())
	assert.Empty(t, f.client.calls)

	assert.Equal(t, []*events.FocusIntent{events.NewFocusPrompt()}, f.recorder.FocusIntents())
	assert.Equal(t, []string{EmptyPromptGuidance}, f.settle(t, 1))
}

func TestSuccessfulGenerationReplacesOutline(t *testing.T) {
	f := newFixture(t)
	f.client.answers["docs"] = answer{outline: generated}
	f.c.SetPrompt(" docs ")
	f.c.Navigator().SetIndex(2)
	f.c.Navigator().Expand("intro")

	ticket, err := f.c.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "docs", f.c.Prompt())
	assert.Equal(t, StatusGenerating, f.c.Status())
	assert.True(t, f.c.Busy())
	assert.Equal(t, generation.Request{Prompt: "docs", Verbosity: "medium", Language: "en"}, <-f.client.calls)

	require.True(t, f.c.Apply(ticket.Wait()))
	assert.Equal(t, "", f.c.Status())
	assert.False(t, f.c.Busy())
	assert.Equal(t, 0, f.c.Navigator().Index())
	assert.Empty(t, f.c.Navigator().State().Expanded)
	assert.Equal(t, 3, f.c.Navigator().Len())
	assert.Equal(t, []string{"Intro"}, f.settle(t, 1))
}

func TestFailedGenerationKeepsOutline(t *testing.T) {
	f := newFixture(t)
	f.client.answers["docs"] = answer{err: &generation.TransportError{StatusCode: 502, Message: "bad json"}}
	f.c.SetPrompt("docs")
	before := f.c.Outline()

	ticket, err := f.c.Generate(context.Background())
	require.NoError(t, err)
	require.True(t, f.c.Apply(ticket.Wait()))

	assert.Equal(t, "Error: bad json", f.c.Status())
	assert.Same(t, before, f.c.Outline())
	assert.False(t, f.c.Busy())
}

func TestSupersededGenerationIsDiscarded(t *testing.T) {
	f := newFixture(t)
	first := &outline.Outline{Sections: []*outline.Node{{ID: "old", Title: "Old"}}}
	f.client.answers["A"] = answer{outline: first}
	f.client.answers["B"] = answer{outline: generated}
	f.client.release["A"] = make(chan struct{})

	f.c.SetPrompt("A")
	a, err := f.c.Generate(context.Background())
	require.NoError(t, err)
	f.c.SetPrompt("B")
	b, err := f.c.Generate(context.Background())
	require.NoError(t, err)

	require.True(t, f.c.Apply(b.Wait()))
	close(f.client.release["A"])
	assert.False(t, f.c.Apply(a.Wait()))

	assert.Equal(t, "a", f.c.Navigator().Entries()[0].ID)
	assert.Equal(t, "", f.c.Status())
}

func TestCancelShowsCanceled(t *testing.T) {
	f := newFixture(t)
	f.client.release["slow"] = make(chan struct{})
	f.c.SetPrompt("slow")

	ticket, err := f.c.Generate(context.Background())
	require.NoError(t, err)
	<-f.client.calls
	assert.True(t, f.c.Cancel())

	require.True(t, f.c.Apply(ticket.Wait()))
	assert.Equal(t, "Canceled", f.c.Status())
	assert.False(t, f.c.Busy())
}

func TestEditPromptShortcut(t *testing.T) {
	f := newFixture(t)
	res, ticket := f.c.HandleKey(context.Background(), keys.Event{Key: "e", Alt: true, Focus: keys.Focus{Tag: "article"}})
	assert.True(t, res.Handled)
	assert.Nil(t, ticket)
	assert.Equal(t, []*events.FocusIntent{events.NewFocusPrompt()}, f.recorder.FocusIntents())
	assert.Equal(t, []string{PromptInstructions}, f.settle(t, 1))
}

func TestRefreshRestoresSample(t *testing.T) {
	f := newFixture(t, WithOutline(generated))
	f.c.Refresh()
	assert.Equal(t, "intro", f.c.Navigator().Entries()[0].ID)
	assert.Equal(t, []string{"What this app does"}, f.settle(t, 1))
}

func TestSelectAndFocus(t *testing.T) {
	f := newFixture(t, WithOutline(generated))

	f.c.Select(1)
	assert.Equal(t, 1, f.c.Navigator().Index())
	assert.True(t, f.c.Navigator().IsExpanded("b"))
	assert.Equal(t, []string{"Steps"}, f.settle(t, 1))

	f.c.Focus(2)
	assert.Equal(t, []string{"Steps", "Sub"}, f.settle(t, 2))
	intents := f.recorder.FocusIntents()
	assert.Equal(t, "c", intents[len(intents)-1].EntryID)

	f.c.Select(1)
	assert.False(t, f.c.Navigator().IsExpanded("b"))
}

func TestAutoSpeakOff(t *testing.T) {
	f := newFixture(t, WithPreferences(keys.Preferences{}))
	ctx := context.Background()
	f.c.HandleKey(ctx, key("down"))
	f.c.HandleKey(ctx, key("enter"))
	f.c.Refresh()
	f.scheduler.Advance(time.Second)
	assert.Equal(t, 0, f.scheduler.Pending())
	assert.Empty(t, f.engine.Texts())

	f.c.SetAutoSpeakTitles(true)
	f.c.HandleKey(ctx, key("down"))
	assert.Equal(t, []string{"Keyboard shortcuts"}, f.settle(t, 1))
}

func TestCycleVerbosityAndLanguage(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "long", f.c.CycleVerbosity())
	assert.Equal(t, "short", f.c.CycleVerbosity())
	assert.Error(t, f.c.SetVerbosity("epic"))

	assert.Equal(t, "de", f.c.CycleLanguage())
	assert.Equal(t, "en", f.c.CycleLanguage())
}

func TestVoicePickedByLanguage(t *testing.T) {
	f := newFixture(t, WithLanguage("de"))
	f.engine.VoiceList = []speech.Voice{
		{ID: "en", LanguageTag: "en-US"},
		{ID: "de", LanguageTag: "de-DE"},
	}
	require.NoError(t, f.c.LoadVoices(context.Background()))

	v, ok := f.c.Voice()
	require.True(t, ok)
	assert.Equal(t, "de", v.ID)
	assert.Equal(t, "de", f.c.Speech().Settings().VoiceID)

	// once chosen, the voice sticks across language changes
	f.c.SetLanguage("en")
	v, _ = f.c.Voice()
	assert.Equal(t, "de", v.ID)
}

func TestAdjustRateClamps(t *testing.T) {
	f := newFixture(t)
	assert.InDelta(t, 1.25, f.c.AdjustRate(0.25), 1e-9)
	assert.Equal(t, speech.MaxRate, f.c.AdjustRate(5))
}

func TestStateIsDetachedSnapshot(t *testing.T) {
	f := newFixture(t, WithOutline(generated))
	f.c.Navigator().Expand("b")
	f.c.Navigator().SetIndex(1)
	f.c.SetPrompt("topic")

	s := f.c.State()
	assert.Equal(t, 1, s.Navigation.Index)
	assert.Equal(t, []string{"b"}, s.Navigation.Expanded)
	assert.Equal(t, "topic", s.Prompt)
	assert.True(t, s.Speech.Available)

	s.Outline.Sections[0].Title = "changed"
	s.Entries[0].Title = "changed"
	assert.Equal(t, "Intro", f.c.Outline().Sections[0].Title)
	assert.Equal(t, "Intro", f.c.Navigator().Entries()[0].Title)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"expanded":["b"]`)
}

func TestUnavailableSpeechIsReportedOnce(t *testing.T) {
	recorder := events.NewRecorder()
	NewController(speech.NewCoordinator(nil), generation.NewManager(generation.ClientFunc(
		func(ctx context.Context, req generation.Request) (*outline.Outline, error) {
			return nil, errors.New("unused")
		})), WithSink(recorder))

	var speechEvents []*events.SpeechChanged
	for _, e := range recorder.Events() {
		if s, ok := e.(*events.SpeechChanged); ok {
			speechEvents = append(speechEvents, s)
		}
	}
	require.Len(t, speechEvents, 1)
	assert.False(t, speechEvents[0].Available)
}
