package forms

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/toast"
	"github.com/vova4o/labconsole/package/logger"
)

type note struct {
	ID   int
	Text string `validate:"required" label:"Text"`
}

// MockSubmitter records the writes of a form
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, mode State, d note) error {
	args := m.Called(ctx, mode, d)
	return args.Error(0)
}

func (m *MockSubmitter) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newNoteForm(sub *MockSubmitter, rec *toast.Recorder, released *[]note) *Controller[note] {
	return NewController(Config[note]{
		Name:     "Note",
		Validate: func(d note, _ State) error { return checkStruct(d) },
		Submit:   sub.Submit,
		Refresh:  sub.Refresh,
		Release: func(d note) {
			if released != nil {
				*released = append(*released, d)
			}
		},
		Notifier: rec,
		Logger:   logger.NewLogger("error"),
	})
}

func TestControllerLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		open       func(c *Controller[note]) error
		mode       State
		submitErr  error
		refreshErr error
		finalState State
		successMsg string
		errorCount int
	}{
		{
			name:       "create succeeds",
			open:       func(c *Controller[note]) error { return c.OpenCreate(note{Text: "hello"}) },
			mode:       OpenCreate,
			finalState: Closed,
			successMsg: "Note added successfully",
		},
		{
			name:       "edit succeeds",
			open:       func(c *Controller[note]) error { return c.OpenEdit(note{ID: 4, Text: "hello"}) },
			mode:       OpenEdit,
			finalState: Closed,
			successMsg: "Note updated successfully",
		},
		{
			name:       "server rejects",
			open:       func(c *Controller[note]) error { return c.OpenCreate(note{Text: "hello"}) },
			mode:       OpenCreate,
			submitErr:  &handlers.APIError{Status: 400, Message: "Note already exists"},
			finalState: OpenCreate,
			errorCount: 1,
		},
		{
			name:       "refresh fails after save",
			open:       func(c *Controller[note]) error { return c.OpenEdit(note{ID: 4, Text: "hello"}) },
			mode:       OpenEdit,
			refreshErr: errors.New("offline"),
			finalState: Closed,
			successMsg: "Note updated successfully",
			errorCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := new(MockSubmitter)
			rec := &toast.Recorder{}
			form := newNoteForm(sub, rec, nil)

			require.NoError(t, tt.open(form))
			assert.Equal(t, tt.mode, form.State())

			draft := form.Draft()
			sub.On("Submit", mock.Anything, tt.mode, draft).Once().Return(tt.submitErr)
			if tt.submitErr == nil {
				sub.On("Refresh", mock.Anything).Once().Return(tt.refreshErr)
			}

			err := form.Submit(context.Background())
			if tt.submitErr != nil {
				assert.Equal(t, tt.submitErr, err)
				assert.Equal(t, draft, form.Draft())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, note{}, form.Draft())
			}

			assert.Equal(t, tt.finalState, form.State())
			assert.Equal(t, tt.errorCount, rec.Count(toast.Error))
			if tt.successMsg != "" {
				last, _ := rec.Last()
				assert.Equal(t, tt.successMsg, last.Message)
			}
			sub.AssertExpectations(t)
		})
	}
}

func TestControllerValidationSkipsNetwork(t *testing.T) {
	sub := new(MockSubmitter)
	rec := &toast.Recorder{}
	form := newNoteForm(sub, rec, nil)

	require.NoError(t, form.OpenCreate(note{}))
	err := form.Submit(context.Background())

	assert.True(t, IsValidation(err))
	assert.Equal(t, "Text is required", err.Error())
	assert.Equal(t, OpenCreate, form.State())
	assert.Equal(t, 1, rec.Count(toast.Error))
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestControllerAtMostOneInFlight(t *testing.T) {
	var writes int32
	started := make(chan struct{})
	release := make(chan struct{})

	form := NewController(Config[note]{
		Name: "Note",
		Submit: func(ctx context.Context, _ State, _ note) error {
			atomic.AddInt32(&writes, 1)
			close(started)
			<-release
			return nil
		},
		Notifier: &toast.Recorder{},
		Logger:   logger.NewLogger("error"),
	})
	require.NoError(t, form.OpenCreate(note{Text: "x"}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, form.Submit(context.Background()))
	}()

	<-started
	assert.Equal(t, Submitting, form.State())

	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, form.Submit(context.Background()), ErrBusy)
	}
	assert.ErrorIs(t, form.Cancel(), ErrBusy)
	assert.ErrorIs(t, form.Edit(func(n *note) { n.Text = "y" }), ErrBusy)
	assert.ErrorIs(t, form.OpenCreate(note{}), ErrBusy)

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&writes))
	assert.Equal(t, Closed, form.State())
}

func TestControllerCancelReleasesDraft(t *testing.T) {
	var released []note
	form := newNoteForm(new(MockSubmitter), &toast.Recorder{}, &released)

	require.NoError(t, form.OpenCreate(note{Text: "first"}))
	require.NoError(t, form.OpenEdit(note{ID: 2, Text: "second"}))
	require.NoError(t, form.Edit(func(n *note) { n.Text = "edited" }))
	assert.Equal(t, "edited", form.Draft().Text)

	require.NoError(t, form.Cancel())
	assert.Equal(t, Closed, form.State())
	assert.Equal(t, []note{{Text: "first"}, {ID: 2, Text: "edited"}}, released)

	assert.NoError(t, form.Cancel())
	assert.ErrorIs(t, form.Edit(func(*note) {}), ErrClosed)
	assert.ErrorIs(t, form.Submit(context.Background()), ErrClosed)
}

func TestControllerStateListeners(t *testing.T) {
	sub := new(MockSubmitter)
	form := newNoteForm(sub, &toast.Recorder{}, nil)

	var states []State
	form.OnStateChange(func(s State) { states = append(states, s) })

	require.NoError(t, form.OpenCreate(note{Text: "a"}))
	sub.On("Submit", mock.Anything, OpenCreate, note{Text: "a"}).Once().Return(nil)
	sub.On("Refresh", mock.Anything).Once().Return(nil)
	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, []State{OpenCreate, Submitting, Closed}, states)
	assert.Equal(t, Closed, form.Mode())
}

func TestControllerSuccessMessage(t *testing.T) {
	sub := new(MockSubmitter)
	rec := &toast.Recorder{}
	form := NewController(Config[note]{
		Name:           "Notification",
		Submit:         sub.Submit,
		SuccessMessage: "Notification sent",
		Notifier:       rec,
		Logger:         logger.NewLogger("error"),
	})

	require.NoError(t, form.OpenCreate(note{Text: "hi"}))
	sub.On("Submit", mock.Anything, OpenCreate, note{Text: "hi"}).Once().Return(nil)
	require.NoError(t, form.Submit(context.Background()))

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, toast.Success, last.Kind)
	assert.Equal(t, "Notification sent", last.Message)
	sub.AssertExpectations(t)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open-create", OpenCreate.String())
	assert.Equal(t, "open-edit", OpenEdit.String())
	assert.Equal(t, "submitting", Submitting.String())
}
