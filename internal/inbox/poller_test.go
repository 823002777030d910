package inbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justify-app/justify/internal/gateway"
)

func TestTickBacksOffOnFailure(t *testing.T) {
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			return nil, errors.New("backend down")
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	p := NewPoller(vm, time.Second, nil)
	p.tick(context.Background())
	p.tick(context.Background())

	if got := p.backoff.Failures(); got != 2 {
		t.Errorf("failures = %d, want 2", got)
	}
	if p.backoff.Current() <= time.Second {
		t.Errorf("delay = %v, want stretched past the base interval", p.backoff.Current())
	}
}

func TestTickResetsOnSuccess(t *testing.T) {
	fail := true
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			if fail {
				return nil, errors.New("backend down")
			}
			return &gateway.Conversation{}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	p := NewPoller(vm, time.Second, nil)
	p.tick(context.Background())
	fail = false
	p.tick(context.Background())

	if got := p.backoff.Failures(); got != 0 {
		t.Errorf("failures after recovery = %d, want 0", got)
	}
}

func TestTickIdleWithoutConversation(t *testing.T) {
	fetched := false
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			fetched = true
			return &gateway.Conversation{}, nil
		},
	}
	vm := adminVM(api)

	p := NewPoller(vm, time.Second, nil)
	p.tick(context.Background())

	if fetched {
		t.Error("tick fetched with no open conversation")
	}
}
