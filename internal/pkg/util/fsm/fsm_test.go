package fsm

import (
	"context"
	"errors"
	"testing"

	"github.com/looplab/fsm"
	"github.com/stretchr/testify/assert"
)

func TestWrapEventSurfacesError(t *testing.T) {
	boom := errors.New("boom")
	f := fsm.NewFSM("idle",
		fsm.Events{{Name: "go", Src: []string{"idle"}, Dst: "busy"}},
		fsm.Callbacks{
			"enter_busy": WrapEvent(func(context.Context, *fsm.Event) error { return boom }),
		},
	)

	err := f.Event(context.Background(), "go")
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsRealError(err))
	assert.Equal(t, "busy", f.Current())
}

func TestIsRealError(t *testing.T) {
	f := fsm.NewFSM("idle",
		fsm.Events{
			{Name: "stay", Src: []string{"idle"}, Dst: "idle"},
			{Name: "go", Src: []string{"idle"}, Dst: "busy"},
		},
		fsm.Callbacks{
			"before_go": func(_ context.Context, e *fsm.Event) { e.Cancel() },
		},
	)

	assert.False(t, IsRealError(nil))
	assert.False(t, IsRealError(f.Event(context.Background(), "stay")))
	assert.False(t, IsRealError(f.Event(context.Background(), "go")))
	assert.True(t, IsRealError(f.Event(context.Background(), "unknown")))
	assert.True(t, IsRealError(errors.New("disk full")))
}
