// Package reader owns the state of one outline reader session: the outline,
// the navigation position, the prompt and the request status. Every change
// goes through a named Controller operation. Speech and generation run on
// their own goroutines; generation results come back through Apply.
package reader

import (
	"context"
	"strings"

	"github.com/go-go-golems/naofs/pkg/events"
	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/keys"
	"github.com/go-go-golems/naofs/pkg/navigation"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Controller is not safe for concurrent use. Call it from one goroutine,
// typically the view's update loop.
type Controller struct {
	speech     *speech.Coordinator
	generation *generation.Manager
	dispatcher *keys.Dispatcher
	sink       events.Sink

	seed    *outline.Outline
	outline *outline.Outline
	nav     *navigation.Navigator

	prompt    string
	verbosity string
	language  string
	languages []string
	prefs     keys.Preferences
	delays    Delays
	keyMap    *keys.KeyMap

	status string
	busy   bool

	voices []speech.Voice
	voice  speech.Voice
}

func NewController(sc *speech.Coordinator, gm *generation.Manager, options ...Option) *Controller {
	c := &Controller{
		speech:     sc,
		generation: gm,
		sink:       events.NopSink{},
		verbosity:  outline.DefaultVerbosity,
		language:   outline.DefaultLanguage,
		languages:  DefaultLanguages,
		prefs:      keys.Preferences{AutoSpeakTitles: true, AutoSpeakBodies: true},
		delays:     DefaultDelays,
	}
	for _, o := range options {
		o(c)
	}

	dispatcherOptions := []keys.Option{
		keys.WithDelays(keys.Delays{Title: c.delays.Navigation, Body: c.delays.Body}),
	}
	if c.keyMap != nil {
		dispatcherOptions = append(dispatcherOptions, keys.WithKeyMap(*c.keyMap))
	}
	c.dispatcher = keys.NewDispatcher(sc, dispatcherOptions...)

	seed := c.seed
	if seed == nil {
		seed = outline.Default()
	}
	c.setOutline(seed)

	st := sc.Status()
	c.sink.Emit(events.NewSpeechChanged(st.Available, st.Speaking, st.Pending))
	sc.OnChange(func(s speech.Status) {
		c.sink.Emit(events.NewSpeechChanged(s.Available, s.Speaking, s.Pending))
	})

	return c
}

// Navigator, Preferences and FocusEntry make the controller the host of its
// key dispatcher.
func (c *Controller) Navigator() *navigation.Navigator {
	return c.nav
}

func (c *Controller) Preferences() keys.Preferences {
	return c.prefs
}

func (c *Controller) FocusEntry(id string) {
	c.sink.Emit(events.NewFocusEntry(id))
}

func (c *Controller) KeyMap() keys.KeyMap {
	return c.dispatcher.KeyMap()
}

func (c *Controller) Outline() *outline.Outline {
	return c.outline
}

func (c *Controller) Status() string {
	return c.status
}

// Busy reports whether a generation request is in flight.
func (c *Controller) Busy() bool {
	return c.busy
}

func (c *Controller) Speech() *speech.Coordinator {
	return c.speech
}

// HandleKey runs e through the key dispatcher. When the key triggers a
// generation, the started ticket is returned; its completion must be passed
// to Apply.
func (c *Controller) HandleKey(ctx context.Context, e keys.Event) (keys.Result, *generation.Ticket) {
	res := c.dispatcher.Dispatch(c, e)
	switch res.Action {
	case keys.ActionGenerate:
		ticket, _ := c.Generate(ctx)
		return res, ticket
	case keys.ActionEditPrompt:
		c.EditPrompt()
	}
	return res, nil
}

// Generate starts a request for the current prompt, superseding any request
// in flight. An empty prompt is not sent: the user is told how to fix it and
// focus moves to the prompt.
func (c *Controller) Generate(ctx context.Context) (*generation.Ticket, error) {
	c.prompt = strings.TrimSpace(c.prompt)

	ticket, err := c.generation.Start(ctx, c.prompt, c.verbosity, c.language)
	if err != nil {
		var validation *generation.ValidationError
		if errors.As(err, &validation) && validation.Field == "prompt" {
			c.setStatus(generation.StatusText(err), c.busy)
			c.speech.CancelAndSpeak(EmptyPromptGuidance, c.delays.Body)
			c.sink.Emit(events.NewFocusPrompt())
			return nil, err
		}
		c.setStatus(generation.StatusText(err), c.busy)
		return nil, err
	}

	log.Debug().Str("token", ticket.Token.String()).Msg("generation started")
	c.setStatus(StatusGenerating, true)
	return ticket, nil
}

// Apply takes the completion of a generation request. Completions of
// superseded requests are ignored and Apply returns false. On success the
// outline is replaced and the first title announced; on failure the current
// outline stays and the status explains why.
func (c *Controller) Apply(done generation.Completion) bool {
	if !c.generation.Resolve(done) {
		return false
	}

	if done.Err != nil {
		log.Debug().Err(done.Err).Msg("generation failed")
		c.setStatus(generation.StatusText(done.Err), false)
		return true
	}

	c.setOutline(done.Outline)
	c.setStatus("", false)
	c.announceFirst()
	return true
}

// Cancel aborts the request in flight, if any.
func (c *Controller) Cancel() bool {
	return c.generation.Cancel()
}

// Refresh restores the built-in sample outline.
func (c *Controller) Refresh() {
	c.setOutline(outline.Default())
	c.announceFirst()
}

// EditPrompt moves focus to the prompt and explains how to use it.
func (c *Controller) EditPrompt() {
	c.sink.Emit(events.NewFocusPrompt())
	c.speech.CancelAndSpeak(PromptInstructions, c.delays.Instructions)
}

// Select activates entry i as a click would: it becomes current and its body
// is toggled.
func (c *Controller) Select(i int) {
	c.nav.SetIndex(i)
	cur, ok := c.nav.Current()
	if !ok {
		return
	}
	if c.nav.Toggle(cur.ID, nil) && c.prefs.AutoSpeakBodies {
		c.speech.CancelAndSpeak(cur.Body, c.delays.Body)
	}
}

// Focus makes entry i current as if focus moved onto it directly.
func (c *Controller) Focus(i int) {
	c.nav.SetIndex(i)
	cur, ok := c.nav.Current()
	if !ok {
		return
	}
	c.sink.Emit(events.NewFocusEntry(cur.ID))
	if c.prefs.AutoSpeakTitles {
		c.speech.CancelAndSpeak(cur.Title, c.delays.Body)
	}
}

func (c *Controller) StopSpeech() {
	c.speech.Stop()
}

func (c *Controller) Prompt() string {
	return c.prompt
}

func (c *Controller) SetPrompt(p string) {
	c.prompt = p
}

func (c *Controller) Verbosity() string {
	return c.verbosity
}

func (c *Controller) SetVerbosity(v string) error {
	if !outline.IsVerbosity(v) {
		return errors.Errorf("unknown verbosity %q", v)
	}
	c.verbosity = v
	return nil
}

// CycleVerbosity moves to the next verbosity level and returns it.
func (c *Controller) CycleVerbosity() string {
	c.verbosity = next(outline.Verbosities, c.verbosity)
	return c.verbosity
}

func (c *Controller) Language() string {
	return c.language
}

// SetLanguage changes the generation language and picks a matching voice.
func (c *Controller) SetLanguage(lang string) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = outline.DefaultLanguage
	}
	c.language = lang
	c.pickVoice()
}

func (c *Controller) CycleLanguage() string {
	c.SetLanguage(next(c.languages, c.language))
	return c.language
}

func (c *Controller) SetAutoSpeakTitles(on bool) {
	c.prefs.AutoSpeakTitles = on
}

func (c *Controller) SetAutoSpeakBodies(on bool) {
	c.prefs.AutoSpeakBodies = on
}

// ConfigureSpeech applies rate, volume and voice to future utterances.
func (c *Controller) ConfigureSpeech(s speech.Settings) {
	c.speech.Configure(s)
	if s.VoiceID != "" {
		for _, v := range c.voices {
			if v.ID == s.VoiceID {
				c.voice = v
			}
		}
	}
}

// AdjustRate changes the speech rate by delta, within the allowed range.
func (c *Controller) AdjustRate(delta float64) float64 {
	s := c.speech.Settings()
	s.Rate += delta
	c.speech.Configure(s)
	return c.speech.Settings().Rate
}

// LoadVoices fetches the available voices and picks one for the current
// language. It blocks on the engine; event loops should fetch through
// Speech().Voices elsewhere and hand the result to SetVoices.
func (c *Controller) LoadVoices(ctx context.Context) error {
	voices, err := c.speech.Voices(ctx)
	if err != nil {
		return err
	}
	c.SetVoices(voices)
	return nil
}

func (c *Controller) SetVoices(voices []speech.Voice) {
	c.voices = voices
	c.pickVoice()
}

func (c *Controller) Voice() (speech.Voice, bool) {
	return c.voice, c.voice.ID != ""
}

func (c *Controller) pickVoice() {
	s := c.speech.Settings()
	v, ok := speech.PickVoice(c.voices, c.language, s.VoiceID)
	if !ok {
		return
	}
	c.voice = v
	s.VoiceID = v.ID
	c.speech.Configure(s)
}

// setOutline replaces the outline and starts navigation over.
func (c *Controller) setOutline(o *outline.Outline) {
	c.outline = o
	c.nav = navigation.New(o.Entries())
	c.sink.Emit(events.NewOutlineReplaced(c.nav.Len(), o.Language, o.Verbosity))
}

func (c *Controller) announceFirst() {
	if !c.prefs.AutoSpeakTitles {
		return
	}
	if first, ok := c.nav.Entry(0); ok {
		c.speech.CancelAndSpeak(first.Title, c.delays.Announce)
	}
}

func (c *Controller) setStatus(status string, busy bool) {
	c.status = status
	c.busy = busy
	c.sink.Emit(events.NewStatusChanged(status, busy))
}

func next(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
