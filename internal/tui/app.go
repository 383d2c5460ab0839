// Package tui is the terminal rendition of the prompt form.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/promptarchitect/internal/form"
)

type field int

const (
	fieldIdea field = iota
	fieldContext
)

const (
	defaultWidth  = 80
	ideaHeight    = 6
	resultHeight  = 12
	minInputWidth = 20
)

// stateChangedMsg tells the model to re-read the controller's state.
type stateChangedMsg struct{}

type App struct {
	ctx  context.Context
	ctrl *form.Controller

	width  int
	height int
	focus  field
	state  form.FormState

	context textinput.Model
	idea    textarea.Model
	spinner spinner.Model
	result  viewport.Model
	help    help.Model

	quitting bool
}

// NewApp builds the model around ctrl. Enhancements run with ctx.
func NewApp(ctx context.Context, ctrl *form.Controller) *App {
	contextInput := textinput.New()
	contextInput.Placeholder = "e.g. E-commerce Store (optional)"
	contextInput.CharLimit = 200
	contextInput.Width = defaultWidth - 6

	idea := textarea.New()
	idea.Placeholder = "Describe what you want to build..."
	idea.ShowLineNumbers = false
	idea.SetWidth(defaultWidth - 4)
	idea.SetHeight(ideaHeight)
	idea.Focus()

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = styleLogo

	state := ctrl.State()
	contextInput.SetValue(state.Context)
	idea.SetValue(state.Idea)

	result := viewport.New(defaultWidth-4, resultHeight)
	result.SetContent(state.Result)

	return &App{
		ctx:     ctx,
		ctrl:    ctrl,
		width:   defaultWidth,
		focus:   fieldIdea,
		state:   state,
		context: contextInput,
		idea:    idea,
		spinner: s,
		result:  result,
		help:    help.New(),
	}
}

// Run starts the terminal form and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *form.Controller) error {
	app := NewApp(ctx, ctrl)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	// Listeners may fire from inside Update, where a blocking Send would deadlock.
	ctrl.OnChange(func(form.FormState) { go p.Send(stateChangedMsg{}) })

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), textarea.Blink)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case stateChangedMsg:
		a.syncState()
		if a.state.Loading {
			return a, a.spinner.Tick
		}
		return a, nil

	case spinner.TickMsg:
		if !a.state.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Text entry goes to the focused field and is mirrored into the controller.
	switch a.focus {
	case fieldContext:
		var cmd tea.Cmd
		a.context, cmd = a.context.Update(msg)
		cmds = append(cmds, cmd)
		if v := a.context.Value(); v != a.state.Context {
			a.state = a.ctrl.UpdateContext(v)
		}
	case fieldIdea:
		var cmd tea.Cmd
		a.idea, cmd = a.idea.Update(msg)
		cmds = append(cmds, cmd)
		if v := a.idea.Value(); v != a.state.Idea {
			a.state = a.ctrl.UpdateIdea(v)
		}
	}

	return a, tea.Batch(cmds...)
}

// handleKey processes form-level bindings. handled is false for keys that
// belong to the focused text field.
func (a *App) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		a.ctrl.Close()
		return tea.Quit, true

	case key.Matches(msg, keys.Tab):
		return a.toggleFocus(), true

	case key.Matches(msg, keys.Submit):
		return a.submit(), true

	case key.Matches(msg, keys.Copy):
		if a.ctrl.CopyResult() {
			a.syncState()
		}
		return nil, true

	case key.Matches(msg, keys.PageUp, keys.PageDown):
		var cmd tea.Cmd
		a.result, cmd = a.result.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (a *App) toggleFocus() tea.Cmd {
	if a.focus == fieldIdea {
		a.focus = fieldContext
		a.idea.Blur()
		return a.context.Focus()
	}
	a.focus = fieldIdea
	a.context.Blur()
	return a.idea.Focus()
}

// submit starts an enhancement and returns a command that reports its end.
func (a *App) submit() tea.Cmd {
	done, ok := a.ctrl.Start(a.ctx)
	if !ok {
		log.Debug().Bool("loading", a.state.Loading).Msg("Submit ignored by form")
		return nil
	}
	a.syncState()
	return tea.Batch(a.spinner.Tick, waitFor(done))
}

func waitFor(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return stateChangedMsg{}
	}
}

func (a *App) syncState() {
	a.state = a.ctrl.State()
	a.result.SetContent(a.state.Result)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	inner := max(width-4, minInputWidth)
	a.context.Width = inner - 2
	a.idea.SetWidth(inner)
	a.result.Width = inner
	a.help.Width = width
}
